// Package feature 把候选 + 用户画像 + 场景转换成定长的宽/稠密特征向量。
//
// 槽位布局见 core.WideFeatures；所有值都夹到 [0,1]，缺失信号取中性值，
// 保证排序模型拿到的向量里没有 NaN/Inf。
package feature

import (
	"fmt"
	"math"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/catalog"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"
)

// Config 特征构建参数。
type Config struct {
	WideSize   int     `koanf:"wide_size" validate:"gte=50"`
	DenseSize  int     `koanf:"dense_size" validate:"gte=10"`
	ScoreScale float64 `koanf:"score_scale" validate:"gt=0"`
	MaxBudget  float64 `koanf:"max_budget" validate:"gt=0"`
	ReviewCap  float64 `koanf:"review_cap" validate:"gt=0"`
}

// DefaultConfig 默认参数。
func DefaultConfig() Config {
	return Config{
		WideSize:   core.DefaultWideSize,
		DenseSize:  core.DefaultDenseSize,
		ScoreScale: 200,
		MaxBudget:  100000,
		ReviewCap:  500,
	}
}

// Builder 特征构建器，构建后只读，可并发使用。
type Builder struct {
	cfg     Config
	regions catalog.Regions
	policy  BiasPolicy
}

// NewBuilder 创建构建器；零值参数回退到默认值。
func NewBuilder(cfg Config, regions catalog.Regions, policy BiasPolicy) *Builder {
	def := DefaultConfig()
	if cfg.WideSize < def.WideSize {
		cfg.WideSize = def.WideSize
	}
	if cfg.DenseSize < def.DenseSize {
		cfg.DenseSize = def.DenseSize
	}
	if cfg.ScoreScale <= 0 {
		cfg.ScoreScale = def.ScoreScale
	}
	if cfg.MaxBudget <= 0 {
		cfg.MaxBudget = def.MaxBudget
	}
	if cfg.ReviewCap <= 0 {
		cfg.ReviewCap = def.ReviewCap
	}
	if regions == nil {
		regions = catalog.DefaultRegions
	}
	if policy.Attributes == nil {
		policy = DefaultBiasPolicy()
	}
	return &Builder{cfg: cfg, regions: regions, policy: policy}
}

// Config 返回生效的参数。
func (b *Builder) Config() Config { return b.cfg }

// Policy 返回偏差校正策略。
func (b *Builder) Policy() BiasPolicy { return b.policy }

// Corrected 店铺是否带有被校正的属性。
func (b *Builder) Corrected(e *catalog.ShopEntry) bool {
	return e != nil && b.policy.Corrected(e.Shop)
}

// Proximity 用户与店铺的远近；店铺没有区信息时退回地址。
func (b *Builder) Proximity(rctx *core.RecommendContext, s *core.Shop) catalog.Proximity {
	district := s.District
	if district == "" {
		district = s.Address
	}
	return b.regions.Proximity(rctx.Location, district)
}

// Build 为一个候选构建特征。候选或店铺不合法时返回 ErrFeatureBuild。
func (b *Builder) Build(c *core.Candidate, idx *catalog.Index, rctx *core.RecommendContext) (core.WideFeatures, core.DenseFeatures, error) {
	if c == nil {
		return nil, nil, core.ErrFeatureBuild.Wrap(fmt.Errorf("nil candidate"))
	}
	if c.ShopID <= 0 {
		return nil, nil, core.ErrFeatureBuild.Wrap(fmt.Errorf("invalid shop id %d", c.ShopID))
	}
	e, ok := idx.Entry(c.ShopID)
	if !ok || e.Shop == nil {
		return nil, nil, core.ErrFeatureBuild.Wrap(fmt.Errorf("shop %d not in catalog", c.ShopID))
	}
	raw := c.RankingScores()
	for i, s := range raw {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, nil, core.ErrFeatureBuild.Wrap(fmt.Errorf("shop %d: score %d is not finite", c.ShopID, i))
		}
	}
	if rctx == nil {
		rctx = &core.RecommendContext{}
	}
	user := rctx.User.Normalized()
	shop := e.Shop

	w := make(core.WideFeatures, b.cfg.WideSize)
	d := make(core.DenseFeatures, b.cfg.DenseSize)

	// 0-7 漏斗分数
	norm := make([]float64, core.NumScores)
	for i, s := range raw {
		norm[i] = Ratio(s, b.cfg.ScoreScale)
	}
	w[core.SlotCollaborative] = norm[core.ScoreCollaborative]
	w[core.SlotContent] = norm[core.ScoreContent]
	w[core.SlotContext] = norm[core.ScoreContext]
	w[core.SlotBase] = norm[core.ScoreBase]
	mean, std := MeanStd(norm)
	w[core.SlotMaxScore] = Max(norm)
	w[core.SlotMeanScore] = mean
	w[core.SlotStdScore] = std
	w[core.SlotSourceCount] = float64(len(c.FunnelSources)) / float64(core.NumScores)

	// 10-15 店铺属性
	budget, budgetKnown := budgetOf(rctx, user)
	w[core.SlotGoodPrice] = boolf(e.HasMenuUnder(catalog.LowPriceMax))
	w[core.SlotOpenNow] = openness(shop.Hours, rctx)
	w[core.SlotDiscount] = boolf(shop.Discount || b.hasCoupon(idx, e, rctx))
	w[core.SlotNewShop] = boolf(shop.IsNew)
	if shop.Rating != nil {
		w[core.SlotRating] = Ratio(*shop.Rating, 5)
	} else {
		w[core.SlotRating] = 0.5
	}
	w[core.SlotReviewCount] = CapRatio(float64(shop.ReviewCount), b.cfg.ReviewCap)

	// 20-25 用户-店铺匹配
	if rank := user.CategoryRank(shop.Category); rank >= 0 {
		w[core.SlotCategoryPref] = 1 - 0.2*float64(rank)
	}
	w[core.SlotBudgetCompat] = budgetCompat(budget, budgetKnown, e.MinPrice)
	penalty := b.Proximity(rctx, shop).DistancePenalty()
	w[core.SlotDistance] = penalty
	w[core.SlotTimePref] = Ratio(catalog.TimeAffinity(rctx.Slot(), shop.Category), 30)
	w[core.SlotFavorite] = boolf(user.IsFavorite(shop.ID))
	w[core.SlotCollabAffinity] = Ratio(raw[core.ScoreCollaborative], 100)

	// 30-33 场景
	if shop.Hours.Known() {
		w[core.SlotTimeSlotMatch] = boolf(shop.Hours.IsOpenAt(catalog.SlotProbe(rctx.Slot(), rctx.Now)))
	} else {
		w[core.SlotTimeSlotMatch] = 0.5
	}
	w[core.SlotWeather] = WeatherSuitability(rctx.Weather, shop.Category)
	w[core.SlotCompanion] = CompanionSuitability(rctx.Companions, shop.Category)
	w[core.SlotLocationConv] = 1 - penalty

	// 40-43 交叉项
	w[core.SlotCategoryXRating] = w[core.SlotCategoryPref] * w[core.SlotRating]
	w[core.SlotBudgetXTime] = w[core.SlotBudgetCompat] * w[core.SlotTimePref]
	w[core.SlotFavoriteXOpen] = w[core.SlotFavorite] * w[core.SlotOpenNow]
	w[core.SlotGoodPriceXBudget] = w[core.SlotGoodPrice] * w[core.SlotBudgetCompat]

	// 44-47 偏差校正后的属性
	attrs := shopAttributes(shop)
	w[core.SlotGoodInfluence], _ = b.policy.Apply(AttrGoodInfluence, attrs[AttrGoodInfluence])
	w[core.SlotFoodcard], _ = b.policy.Apply(AttrAcceptsFoodcard, attrs[AttrAcceptsFoodcard])
	w[core.SlotVerified], _ = b.policy.Apply(AttrVerified, attrs[AttrVerified])
	w[core.SlotAffordable] = b.affordability(e, rctx)

	// 稠密特征
	if budgetKnown {
		d[core.DenseBudget] = Ratio(float64(budget), b.cfg.MaxBudget)
	}
	if user != nil {
		d[core.DenseFavoriteCount] = Ratio(float64(len(user.FavoriteShopIDs)), core.MaxFavoriteShops)
		d[core.DensePreferredCount] = Ratio(float64(len(user.PreferredCategories)), core.MaxPreferredCategories)
	}
	d[core.DenseRating] = w[core.SlotRating]
	d[core.DenseReviewCount] = w[core.SlotReviewCount]
	d[core.DensePriceTier] = e.Tier.Encoding()
	d[core.DenseDistance] = penalty
	d[core.DenseHourOfDay] = float64(rctx.Now.Hour()) / 24
	d[core.DenseScoreMean] = mean
	d[core.DenseScoreStd] = std

	for i := range w {
		w[i] = Clamp01(w[i])
	}
	for i := range d {
		d[i] = Clamp01(d[i])
	}
	return w, d, nil
}

// budgetOf 过滤条件里的最高价优先，其次是画像预算。
func budgetOf(rctx *core.RecommendContext, user *core.UserProfile) (int, bool) {
	if rctx.Filters.MaxPrice > 0 {
		return rctx.Filters.MaxPrice, true
	}
	if user != nil && user.AverageBudget > 0 {
		return user.AverageBudget, true
	}
	return 0, false
}

// budgetCompat 最低菜单价在预算内为 1，超出按比例衰减；未知为 0.5。
func budgetCompat(budget int, known bool, minPrice int) float64 {
	if !known || minPrice < 0 {
		return 0.5
	}
	if minPrice <= budget {
		return 1
	}
	return float64(budget) / float64(minPrice)
}

// openness 当前是否营业，营业时间未知为 0.5。
func openness(h core.OperatingHours, rctx *core.RecommendContext) float64 {
	if !h.Known() || rctx.Now.IsZero() {
		return 0.5
	}
	return boolf(h.IsOpenAt(rctx.Now))
}

// hasCoupon 是否有可用优惠券；依赖被忽略属性的券不计。
func (b *Builder) hasCoupon(idx *catalog.Index, e *catalog.ShopEntry, rctx *core.RecommendContext) bool {
	for _, c := range idx.ApplicableCoupons(e.Shop.ID, rctx.Now) {
		if !b.policy.IgnoresCoupon(c.UsageType) {
			return true
		}
	}
	return false
}

// affordability 饭卡余额能否覆盖最低菜单价；余额未知为 0.5。
func (b *Builder) affordability(e *catalog.ShopEntry, rctx *core.RecommendContext) float64 {
	switch {
	case b.policy.Ignored(AttrAcceptsFoodcard):
		return 0
	case rctx.FoodcardBalance == nil:
		return 0.5
	case !e.Shop.FoodcardAccepted():
		return 0
	case e.MinPrice <= 0:
		return 0.5
	}
	return Ratio(float64(*rctx.FoodcardBalance), float64(e.MinPrice))
}
