package catalog

import "strings"

// Archetype 是用户原型（没有个性化历史时，协同漏斗用它来近似用户口味）。
type Archetype string

const (
	HealthyEater      Archetype = "healthy_eater"
	ConvenienceSeeker Archetype = "convenience_seeker"
	Gourmet           Archetype = "gourmet"
	BudgetConscious   Archetype = "budget_conscious"
	DefaultArchetype  Archetype = "default"
)

// Archetypes 固定的原型枚举，按此顺序预计算。
var Archetypes = []Archetype{HealthyEater, ConvenienceSeeker, Gourmet, BudgetConscious, DefaultArchetype}

// ParseArchetype 解析原型名，未知返回 ("", false)。
func ParseArchetype(s string) (Archetype, bool) {
	a := Archetype(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Archetypes {
		if a == known {
			return a, true
		}
	}
	return "", false
}

// ArchetypeProfile 描述一个原型的偏好。
type ArchetypeProfile struct {
	Categories       []string // 偏好类目关键字
	GoodInfluence    float64  // 对善意商家的偏好 0-1
	PriceSensitivity float64  // 价格敏感度 0-1，越高越偏好便宜
	Variety          float64  // 对菜单丰富度的偏好 0-1
}

// DefaultArchetypeProfiles 默认原型表。
var DefaultArchetypeProfiles = map[Archetype]ArchetypeProfile{
	HealthyEater:      {Categories: []string{"샐러드", "비건", "한식", "죽", "포케"}, GoodInfluence: 1.0, PriceSensitivity: 0.4, Variety: 0.6},
	ConvenienceSeeker: {Categories: []string{"패스트푸드", "분식", "편의점", "도시락", "카페"}, GoodInfluence: 0.3, PriceSensitivity: 0.6, Variety: 0.4},
	Gourmet:           {Categories: []string{"일식", "양식", "중식", "고기", "이탈리안"}, GoodInfluence: 0.5, PriceSensitivity: 0.1, Variety: 1.0},
	BudgetConscious:   {Categories: []string{"분식", "한식", "도시락", "중식", "국밥"}, GoodInfluence: 0.6, PriceSensitivity: 1.0, Variety: 0.5},
	DefaultArchetype:  {Categories: []string{"한식"}, GoodInfluence: 0.5, PriceSensitivity: 0.5, Variety: 0.5},
}

// AffinityScore 计算某原型对店铺的亲和度（0-100）：
// 类目匹配 ≤40，善意商家 ≤20（乘以 w.GoodInfluence），价格档 ≤25，菜单数量 ≤15。
func AffinityScore(p ArchetypeProfile, e *ShopEntry, w AttributeWeights) float64 {
	var score float64
	for _, c := range p.Categories {
		if c != "" && strings.Contains(e.Shop.Category, c) {
			score += 40
			break
		}
	}
	if e.Shop.GoodInfluence {
		score += 20 * p.GoodInfluence * w.GoodInfluence
	}

	cheap := e.Tier.Cheapness()
	fit := p.PriceSensitivity*cheap + (1-p.PriceSensitivity)*(1-cheap)
	score += 25 * fit

	variety := float64(len(e.Menus)) / 10
	if variety > 1 {
		variety = 1
	}
	score += 15 * p.Variety * variety

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
