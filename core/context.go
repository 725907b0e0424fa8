package core

import (
	"strings"
	"time"
)

// TimeOfDay 用餐时段。
type TimeOfDay string

const (
	Breakfast TimeOfDay = "breakfast"
	Lunch     TimeOfDay = "lunch"
	Dinner    TimeOfDay = "dinner"
	Snack     TimeOfDay = "snack"
)

// TimeOfDayAt 按小时划分时段：05-10 早餐，10-15 午餐，17-21 晚餐，其余为加餐。
func TimeOfDayAt(t time.Time) TimeOfDay {
	h := t.Hour()
	switch {
	case h >= 5 && h < 10:
		return Breakfast
	case h >= 10 && h < 15:
		return Lunch
	case h >= 17 && h < 21:
		return Dinner
	default:
		return Snack
	}
}

// ParseTimeOfDay 解析时段字符串，未知返回空。
func ParseTimeOfDay(s string) TimeOfDay {
	switch t := TimeOfDay(strings.ToLower(strings.TrimSpace(s))); t {
	case Breakfast, Lunch, Dinner, Snack:
		return t
	default:
		return ""
	}
}

// Filters 是请求里的结构化过滤条件，所有漏斗共享。
type Filters struct {
	Category          string `json:"category,omitempty"`
	MaxPrice          int    `json:"max_price,omitempty"`
	GoodInfluenceOnly bool   `json:"good_influence_only,omitempty"`
	FoodcardOnly      bool   `json:"foodcard_only,omitempty"`
}

// IsZero 是否没有任何过滤条件。
func (f Filters) IsZero() bool {
	return f.Category == "" && f.MaxPrice <= 0 && !f.GoodInfluenceOnly && !f.FoodcardOnly
}

// RecommendContext 承载用户/场景/实时信息，贯穿整个 Pipeline 透传。
// 一次请求内只读。
type RecommendContext struct {
	UserID string

	// User 是画像快照，可为空（冷启动）
	User *UserProfile

	Location  string    // 用户所在区（district）
	Now       time.Time // 请求时间
	TimeOfDay TimeOfDay

	Query         string // 原始查询
	SemanticQuery string // 上游语言层给出的规范化查询，优先使用
	Filters       Filters

	// UserType 显式指定的用户原型（协同漏斗使用），为空时按过滤条件推断
	UserType string

	// 场景信号，可缺失
	Weather    string // clear / rain / snow / hot / cold
	Companions int    // 同行人数，0 表示未知

	// ExcludeShopIDs 本次请求不允许出现的店铺（请求指定 + 运营屏蔽名单）
	ExcludeShopIDs []int64

	// FoodcardBalance 饭卡余额，nil 表示未知（无余额服务或查询失败）
	FoodcardBalance *int

	// Limit 由 Fanout 注入：当前漏斗的候选上限
	Limit int
}

// EffectiveQuery 优先返回规范化查询。
func (rctx *RecommendContext) EffectiveQuery() string {
	if rctx == nil {
		return ""
	}
	if q := strings.TrimSpace(rctx.SemanticQuery); q != "" {
		return q
	}
	return strings.TrimSpace(rctx.Query)
}

// Slot 返回用餐时段：显式给出优先，否则按 Now 推断。
func (rctx *RecommendContext) Slot() TimeOfDay {
	if rctx == nil {
		return Snack
	}
	if rctx.TimeOfDay != "" {
		return rctx.TimeOfDay
	}
	return TimeOfDayAt(rctx.Now)
}

// WithLimit 返回一个带有漏斗上限的浅拷贝，避免并发漏斗互相覆盖。
func (rctx *RecommendContext) WithLimit(limit int) *RecommendContext {
	cp := *rctx
	cp.Limit = limit
	return &cp
}

// IsExcluded 店铺是否在排除列表中。
func (rctx *RecommendContext) IsExcluded(shopID int64) bool {
	if rctx == nil {
		return false
	}
	for _, id := range rctx.ExcludeShopIDs {
		if id == shopID {
			return true
		}
	}
	return false
}

// ContainsEither 不区分大小写的双向子串包含；任一方为空时返回 false。
func ContainsEither(a, b string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false
	}
	return containsEither(a, b)
}

func containsEither(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(a, b) || strings.Contains(b, a)
}
