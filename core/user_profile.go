package core

// 画像列表的上限。
const (
	MaxPreferredCategories = 5
	MaxFavoriteShops       = 10
)

// UserProfile 是用户画像快照。
//
// 画像由上游（对话层）维护，本引擎在一次请求内只读：
//   - PreferredCategories 按相关性从新到旧排列，最多 5 个
//   - AverageBudget 为上游用指数滑动平均更新的预算
//   - FavoriteShopIDs 最多 10 个
type UserProfile struct {
	UserID              string   `json:"user_id"`
	PreferredCategories []string `json:"preferred_categories"`
	AverageBudget       int      `json:"average_budget"`
	FavoriteShopIDs     []int64  `json:"favorite_shop_ids"`
	InteractionCount    int      `json:"interaction_count"`
	DataCompleteness    float64  `json:"data_completeness"`
}

// Normalized 返回截断后的副本，不修改原画像。
func (p *UserProfile) Normalized() *UserProfile {
	if p == nil {
		return nil
	}
	out := *p
	if len(out.PreferredCategories) > MaxPreferredCategories {
		out.PreferredCategories = append([]string(nil), out.PreferredCategories[:MaxPreferredCategories]...)
	}
	if len(out.FavoriteShopIDs) > MaxFavoriteShops {
		out.FavoriteShopIDs = append([]int64(nil), out.FavoriteShopIDs[:MaxFavoriteShops]...)
	}
	if out.AverageBudget < 0 {
		out.AverageBudget = 0
	}
	return &out
}

// IsFavorite 店铺是否在收藏列表中。
func (p *UserProfile) IsFavorite(shopID int64) bool {
	if p == nil {
		return false
	}
	for _, id := range p.FavoriteShopIDs {
		if id == shopID {
			return true
		}
	}
	return false
}

// CategoryRank 返回类目在偏好列表中的位置，不存在返回 -1。
// 匹配为双向子串包含（"한식" 与 "한식뷔페"）。
func (p *UserProfile) CategoryRank(category string) int {
	if p == nil || category == "" {
		return -1
	}
	for i, c := range p.PreferredCategories {
		if c == "" {
			continue
		}
		if containsEither(category, c) {
			return i
		}
	}
	return -1
}
