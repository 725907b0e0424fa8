package engine

import "github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"

// Weighting 检索优先级加权：有查询时放大内容漏斗分数，压低其余三个。
type Weighting struct {
	VectorSearchWeight float64 `koanf:"vector_search_weight" validate:"gte=0"`
	RuleBasedWeight    float64 `koanf:"rule_based_weight" validate:"gte=0"`
}

// DefaultWeighting content ×1.6，其余 ×0.4。
func DefaultWeighting() Weighting {
	return Weighting{VectorSearchWeight: 0.6, RuleBasedWeight: 0.4}
}

// Apply 写入加权后的排序分数，返回内容分被放大的店铺。
// 原始分数字段不变，响应里仍然输出各漏斗的原始分。
func (w Weighting) Apply(items []*core.Candidate) map[int64]bool {
	boosted := make(map[int64]bool)
	for _, c := range items {
		if c == nil {
			continue
		}
		s := c.RawScores()
		for i := range s {
			if i == core.ScoreContent {
				s[i] *= 1 + w.VectorSearchWeight
			} else {
				s[i] *= w.RuleBasedWeight
			}
		}
		c.SetAdjustedScores(s)
		if c.ContentScore != nil && *c.ContentScore > 0 && w.VectorSearchWeight > 0 {
			boosted[c.ShopID] = true
		}
	}
	return boosted
}
