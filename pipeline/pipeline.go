// Package pipeline 把推荐逻辑拆成可组合的 Node 链。
package pipeline

import (
	"context"
	"fmt"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"
)

// Pipeline 按顺序执行 Node。任何一个 Node 出错即终止，不返回部分结果。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Candidate,
) ([]*core.Candidate, error) {
	cur := items
	for _, node := range p.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", node.Name(), err)
		}
		cur = next
	}
	return cur, nil
}
