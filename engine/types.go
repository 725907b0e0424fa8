package engine

import (
	"errors"
	"time"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"
)

var (
	errNoHolder     = errors.New("no catalog holder")
	errEmptyCatalog = errors.New("catalog index is empty")
)

// Request 是上游（对话层）给出的结构化请求。
type Request struct {
	UserID        string            `json:"user_id"`
	User          *core.UserProfile `json:"user_profile,omitempty"`
	Query         string            `json:"query,omitempty"`
	SemanticQuery string            `json:"semantic_query,omitempty"`
	Filters       core.Filters      `json:"filters"`
	Location      string            `json:"location,omitempty"`
	Time          *time.Time        `json:"time,omitempty"`
	TimeOfDay     string            `json:"time_of_day,omitempty" validate:"omitempty,oneof=breakfast lunch dinner snack"`
	UserType      string            `json:"user_type,omitempty"`
	Weather       string            `json:"weather,omitempty"`
	Companions    int               `json:"companions,omitempty" validate:"gte=0"`
	ExcludeShops  []int64           `json:"exclude_shop_ids,omitempty"`
	TopK          int               `json:"top_k,omitempty" validate:"gte=0"`
}

// FunnelScores 各漏斗的原始分数，未召回的漏斗为 null。
type FunnelScores struct {
	Collaborative *float64 `json:"collaborative_score"`
	Content       *float64 `json:"content_score"`
	Context       *float64 `json:"context_score"`
	Base          *float64 `json:"base_score"`
}

// CouponOffer 对该店最低价菜单最划算的优惠券。
type CouponOffer struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    int    `json:"price"`
	Discount int    `json:"discount"`
}

// Recommendation 是一条推荐结果。
type Recommendation struct {
	ShopID            int64             `json:"shop_id"`
	ShopName          string            `json:"shop_name"`
	Category          string            `json:"category"`
	Scores            FunnelScores      `json:"scores"`
	PersonalizedScore float64           `json:"personalized_score"`
	RankingMethod     string            `json:"ranking_method"`
	FunnelSources     []string          `json:"funnel_sources"`
	Reason            string            `json:"reason,omitempty"`
	BonusReasons      []string          `json:"bonus_reasons,omitempty"`
	Tags              []string          `json:"tags,omitempty"`
	Labels            map[string]string `json:"labels,omitempty"`
	Explanation       string            `json:"explanation"`
	Coupon            *CouponOffer      `json:"coupon,omitempty"`
}

// Metadata 响应元数据。"无结果"与"出错"通过 EmptyResult / ErrorOccurred 区分。
type Metadata struct {
	RequestID         string         `json:"request_id"`
	CatalogVersion    string         `json:"catalog_version,omitempty"`
	TotalCandidates   int            `json:"total_candidates"`
	FunnelBreakdown   map[string]int `json:"funnel_breakdown"`
	FailedFunnels     []string       `json:"failed_funnels,omitempty"`
	DroppedCandidates int            `json:"dropped_candidates"`
	RankingMethod     string         `json:"ranking_method"`
	ElapsedMS         int64          `json:"elapsed_ms"`
	AppliedFilters    core.Filters   `json:"applied_filters"`
	EmptyResult       bool           `json:"empty_result"`
	ErrorOccurred     bool           `json:"error_occurred"`
	Error             string         `json:"error,omitempty"`
}

// Response 推荐响应。
type Response struct {
	Recommendations []Recommendation `json:"recommendations"`
	Metadata        Metadata         `json:"metadata"`
}
