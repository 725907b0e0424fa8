// Package recall 实现四个召回漏斗（热门/场景/内容/协同）以及并发 fan-out 与合并。
//
// 每个漏斗都遵守同一约定：
//   - 打分前先应用共享的基础过滤器
//   - 每个候选只带一个来源漏斗名
//   - 结果按本漏斗分数降序（同分保持目录顺序）
//   - 遵守 rctx.Limit
//   - 输入为空或缺失时返回空结果，不报错
package recall

import (
	"context"
	"sort"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/catalog"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/filter"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/pkg/utils"
)

// Funnel 是一个可并发 fan-out 的召回策略单元。
type Funnel interface {
	Name() string
	GetCandidates(ctx context.Context, rctx *core.RecommendContext) ([]*core.Candidate, error)
}

// scoreFunc 对单个店铺打分；ok=false 表示不召回。
type scoreFunc func(e *catalog.ShopEntry) (score float64, reason string, ok bool)

type scored struct {
	entry  *catalog.ShopEntry
	score  float64
	reason string
}

// checkEvery 扫描多少家店铺检查一次取消。
const checkEvery = 256

// scan 在过滤后的店铺上打分，按分数降序、目录顺序稳定排序，截断到 limit 后转成候选。
func scan(
	ctx context.Context,
	idx *catalog.Index,
	rctx *core.RecommendContext,
	funnel string,
	field int,
	fn scoreFunc,
) ([]*core.Candidate, error) {
	if idx.Empty() || rctx == nil {
		return nil, nil
	}
	chain := filter.ForRequest(rctx)

	var hits []scored
	for i, e := range idx.Entries() {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if !chain.Keep(ctx, rctx, e) {
			continue
		}
		s, reason, ok := fn(e)
		if !ok {
			continue
		}
		hits = append(hits, scored{entry: e, score: s, reason: reason})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})
	if rctx.Limit > 0 && len(hits) > rctx.Limit {
		hits = hits[:rctx.Limit]
	}

	out := make([]*core.Candidate, 0, len(hits))
	for _, h := range hits {
		c := core.NewCandidate(h.entry.Shop)
		*c.ScoreField(field) = core.Float(h.score)
		c.AddSource(funnel)
		c.Reason = h.reason
		c.PutLabel("recall_source", utils.Label{Value: funnel, Source: "recall"})
		out = append(out, c)
	}
	return out, nil
}
