package recall

import (
	"context"
	"strings"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/catalog"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"
)

// 内容漏斗各分量的分值。
const (
	contentMenuMatch     = 50
	contentCategoryMatch = 30
	contentTokenPoint    = 5
	contentTokenCap      = 25
	contentNameMatch     = 15
)

// MaxContentScore 内容漏斗能给出的最高分。
const MaxContentScore = contentMenuMatch + contentCategoryMatch + contentTokenCap + contentNameMatch

// Content 是内容漏斗：查询与菜单名/类目/token/店名的匹配。
// 查询优先使用上游给出的规范化查询；查询为空时不召回。分数写入 content_score。
type Content struct {
	Catalog catalog.Provider
}

func (r *Content) Name() string { return core.FunnelContent }

func (r *Content) GetCandidates(ctx context.Context, rctx *core.RecommendContext) ([]*core.Candidate, error) {
	query := strings.ToLower(rctx.EffectiveQuery())
	if query == "" {
		return nil, nil
	}
	tokens := uniqueTokens(query)
	idx := catalog.Resolve(ctx, r.Catalog)
	return scan(ctx, idx, rctx, r.Name(), core.ScoreContent, func(e *catalog.ShopEntry) (float64, string, bool) {
		s, reason := ContentScore(e, query, tokens)
		return s, reason, s > 0
	})
}

// ContentScore 计算店铺与查询的匹配分。tokens 为查询切词结果（已去重）。
func ContentScore(e *catalog.ShopEntry, query string, tokens []string) (float64, string) {
	var (
		score   float64
		reasons []string
	)
	for _, m := range e.Menus {
		if core.ContainsEither(m.Name, query) {
			score += contentMenuMatch
			reasons = append(reasons, "menu match: "+m.Name)
			break
		}
	}
	for _, t := range tokens {
		if core.ContainsEither(t, e.Shop.Category) {
			score += contentCategoryMatch
			reasons = append(reasons, "category match: "+e.Shop.Category)
			break
		}
	}
	var overlap float64
	for _, t := range tokens {
		if e.Tokens.Has(t) {
			overlap += contentTokenPoint
		}
	}
	if overlap > contentTokenCap {
		overlap = contentTokenCap
	}
	score += overlap
	if core.ContainsEither(e.Shop.Name, query) {
		score += contentNameMatch
		reasons = append(reasons, "shop name match")
	}
	return score, strings.Join(reasons, ", ")
}

func uniqueTokens(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range catalog.Tokenize(text) {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
