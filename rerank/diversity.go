package rerank

import (
	"context"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/pipeline"
)

// Diversity 是按类目打散的 ReRank：每个类目最多保留 MaxPerCategory 个，
// 超出的候选按原顺序追加到末尾，不丢弃。MaxPerCategory<=0 时不做处理。
// 没有类目的候选不受限制。
type Diversity struct {
	MaxPerCategory int
}

func (n *Diversity) Name() string        { return "rerank.diversity" }
func (n *Diversity) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Candidate,
) ([]*core.Candidate, error) {
	if n.MaxPerCategory <= 0 || len(items) == 0 {
		return items, nil
	}

	seen := make(map[string]int, 16)
	out := make([]*core.Candidate, 0, len(items))
	var overflow []*core.Candidate
	for _, c := range items {
		if c == nil {
			continue
		}
		if c.Category == "" {
			out = append(out, c)
			continue
		}
		if seen[c.Category] >= n.MaxPerCategory {
			overflow = append(overflow, c)
			continue
		}
		seen[c.Category]++
		out = append(out, c)
	}
	return append(out, overflow...), nil
}
