package recall

import (
	"context"
	"strings"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/catalog"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"
)

// 协同漏斗的阈值。
const (
	collaborativeMinScore = 10
	budgetPriceMax        = 8000
	gourmetPriceMin       = 20000
)

// 按类目/查询关键字推断原型，按顺序取第一个命中。
var archetypeKeywords = []struct {
	archetype catalog.Archetype
	keywords  []string
}{
	{catalog.HealthyEater, []string{"샐러드", "비건", "건강", "다이어트", "포케"}},
	{catalog.ConvenienceSeeker, []string{"패스트푸드", "편의점", "도시락", "간단", "빠른"}},
	{catalog.Gourmet, []string{"오마카세", "파인다이닝", "스테이크", "고급", "이탈리안"}},
	{catalog.BudgetConscious, []string{"가성비", "저렴", "싼", "분식", "국밥"}},
}

// ResolveArchetype 解析用户原型：显式 user_type → 只看善意商家 → 低预算 → 高预算 →
// 类目/查询关键字 → 默认。
func ResolveArchetype(rctx *core.RecommendContext) catalog.Archetype {
	if rctx == nil {
		return catalog.DefaultArchetype
	}
	if a, ok := catalog.ParseArchetype(rctx.UserType); ok {
		return a
	}
	f := rctx.Filters
	switch {
	case f.GoodInfluenceOnly:
		return catalog.HealthyEater
	case f.MaxPrice > 0 && f.MaxPrice <= budgetPriceMax:
		return catalog.BudgetConscious
	case f.MaxPrice >= gourmetPriceMin:
		return catalog.Gourmet
	}
	text := strings.ToLower(f.Category + " " + rctx.EffectiveQuery())
	for _, ak := range archetypeKeywords {
		for _, kw := range ak.keywords {
			if strings.Contains(text, kw) {
				return ak.archetype
			}
		}
	}
	return catalog.DefaultArchetype
}

// Collaborative 是协同漏斗：用原型近似用户口味，查预计算的亲和度表，
// 低于 10 分的店铺不召回。分数写入 collaborative_score。
type Collaborative struct {
	Catalog catalog.Provider
}

func (r *Collaborative) Name() string { return core.FunnelCollaborative }

func (r *Collaborative) GetCandidates(ctx context.Context, rctx *core.RecommendContext) ([]*core.Candidate, error) {
	idx := catalog.Resolve(ctx, r.Catalog)
	a := ResolveArchetype(rctx)
	reason := "liked by " + string(a) + " users"
	return scan(ctx, idx, rctx, r.Name(), core.ScoreCollaborative, func(e *catalog.ShopEntry) (float64, string, bool) {
		s, ok := e.Affinity[a]
		if !ok || s < collaborativeMinScore {
			return 0, "", false
		}
		return s, reason, true
	})
}
