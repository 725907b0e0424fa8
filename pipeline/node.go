package pipeline

import (
	"context"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindRecall  Kind = "recall"  // 召回阶段：生成候选集
	KindFeature Kind = "feature" // 特征阶段：构建宽/稠密特征
	KindRank    Kind = "rank"    // 排序阶段：对候选打分并排序
	KindReRank  Kind = "rerank"  // 重排阶段：截断、多样性
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入候选 -> 输出候选”的形态，方便召回生成、特征丢弃、重排截断等操作。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		items []*core.Candidate,
	) ([]*core.Candidate, error)
}
