package core

// FeatureSchemaVersion 标识宽/稠密特征的槽位布局。
// 模型文件的 schema_version 必须与之一致才会被加载。
const FeatureSchemaVersion = "wide50-dense10-v1"

const (
	DefaultWideSize  = 50
	DefaultDenseSize = 10
)

// WideFeatures 是定长、按下标寻址的宽特征向量，所有值都在 [0,1]。
//
// 槽位布局（沿用训练侧约定，8-9、16-19、26-29、34-39、48-49 为保留位，恒为 0）：
//
//	0-3   四个漏斗分数（collaborative/content/context/base），按 score_scale 归一化
//	4-7   分数 max / mean / 总体标准差 / 来源漏斗数
//	10-15 店铺属性
//	20-25 用户-店铺匹配
//	30-33 场景信号
//	40-43 显式交叉项
//	44-47 偏差校正后的店铺属性与饭卡余额
type WideFeatures []float64

// DenseFeatures 是定长的稠密特征向量（配合 ID embedding 使用）。
type DenseFeatures []float64

// 宽特征槽位。
const (
	SlotCollaborative = 0
	SlotContent       = 1
	SlotContext       = 2
	SlotBase          = 3
	SlotMaxScore      = 4
	SlotMeanScore     = 5
	SlotStdScore      = 6
	SlotSourceCount   = 7

	SlotGoodPrice   = 10
	SlotOpenNow     = 11
	SlotDiscount    = 12
	SlotNewShop     = 13
	SlotRating      = 14
	SlotReviewCount = 15

	SlotCategoryPref   = 20
	SlotBudgetCompat   = 21
	SlotDistance       = 22
	SlotTimePref       = 23
	SlotFavorite       = 24
	SlotCollabAffinity = 25

	SlotTimeSlotMatch = 30
	SlotWeather       = 31
	SlotCompanion     = 32
	SlotLocationConv  = 33

	SlotCategoryXRating  = 40
	SlotBudgetXTime      = 41
	SlotFavoriteXOpen    = 42
	SlotGoodPriceXBudget = 43

	SlotGoodInfluence = 44
	SlotFoodcard      = 45
	SlotVerified      = 46
	SlotAffordable    = 47
)

// 稠密特征槽位。
const (
	DenseBudget = iota
	DenseFavoriteCount
	DensePreferredCount
	DenseRating
	DenseReviewCount
	DensePriceTier
	DenseDistance
	DenseHourOfDay
	DenseScoreMean
	DenseScoreStd
)

// At 安全读取槽位，越界返回 0。
func (w WideFeatures) At(i int) float64 {
	if i < 0 || i >= len(w) {
		return 0
	}
	return w[i]
}

// At 安全读取槽位，越界返回 0。
func (d DenseFeatures) At(i int) float64 {
	if i < 0 || i >= len(d) {
		return 0
	}
	return d[i]
}
