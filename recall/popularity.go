package recall

import (
	"context"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/catalog"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"
)

// Popularity 是热门漏斗：忽略查询和用户，按目录预计算的热度分排序。
// 分数写入 base_score。
type Popularity struct {
	Catalog catalog.Provider
}

func (r *Popularity) Name() string { return core.FunnelPopularity }

func (r *Popularity) GetCandidates(ctx context.Context, rctx *core.RecommendContext) ([]*core.Candidate, error) {
	idx := catalog.Resolve(ctx, r.Catalog)
	return scan(ctx, idx, rctx, r.Name(), core.ScoreBase, func(e *catalog.ShopEntry) (float64, string, bool) {
		return e.Popularity, "popular in catalog", true
	})
}
