// Package model 定义排序模型：规则模型（默认，完全由宽特征决定）与学习模型（Wide&Deep）。
//
// 使用哪一个在启动时决定一次，之后每个请求都用同一个，名称写入响应的 ranking_method。
package model

import "github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"

// 排序方式名称。
const (
	MethodRuleBased = "rule_based"
	MethodWideDeep  = "wide_deep"
	MethodNone      = "none"
)

// RankModel 是排序阶段的最小抽象：输入特征，输出一个可比较的分数和加分理由。
// candidateID / userID / categoryID 供带 ID embedding 的模型使用。
type RankModel interface {
	Name() string
	Score(wide core.WideFeatures, dense core.DenseFeatures, candidateID, userID, categoryID string) (float64, []string, error)
}
