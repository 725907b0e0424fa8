package feature

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/catalog"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/pipeline"
)

// Node 为每个候选写入 Wide/Dense。构建失败的候选被丢弃，其余继续。
type Node struct {
	Builder *Builder
	Catalog catalog.Provider
	Logger  zerolog.Logger
}

func (n *Node) Name() string        { return "feature.builder" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindFeature }

func (n *Node) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Candidate,
) ([]*core.Candidate, error) {
	idx := catalog.Resolve(ctx, n.Catalog)
	out := make([]*core.Candidate, 0, len(items))
	for _, c := range items {
		wide, dense, err := n.Builder.Build(c, idx, rctx)
		if err != nil {
			n.Logger.Debug().Err(err).Msg("candidate dropped")
			continue
		}
		c.Wide, c.Dense = wide, dense
		out = append(out, c)
	}
	return out, nil
}
