// Package rank 用排序模型给候选打分并排序。
package rank

import (
	"context"
	"sort"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/model"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/pipeline"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/pkg/utils"
)

// LabelScoreError 打分失败的候选会带上这个 label，分数记为 0。
const LabelScoreError = "rank_error"

// Node 使用 RankModel 的排序 Node（不限定模型类型）。
//   - 写入 labels：rank_model
//   - 更新 Score / BonusReasons 并按分数降序稳定排序，同分保持合并顺序
type Node struct {
	Model  model.RankModel
	Logger zerolog.Logger
}

func (n *Node) Name() string        { return "rank.model" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *Node) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Candidate,
) ([]*core.Candidate, error) {
	if n.Model == nil || len(items) == 0 {
		return items, nil
	}
	userID := ""
	if rctx != nil {
		userID = rctx.UserID
	}

	for _, c := range items {
		if c == nil {
			continue
		}
		score, reasons, err := n.Model.Score(c.Wide, c.Dense, strconv.FormatInt(c.ShopID, 10), userID, c.Category)
		if err != nil {
			n.Logger.Warn().Err(err).Int64("shop_id", c.ShopID).Str("model", n.Model.Name()).Msg("scoring failed, score set to 0")
			score, reasons = 0, nil
			c.PutLabel(LabelScoreError, utils.Label{Value: err.Error(), Source: "rank"})
		}
		c.Score = score
		c.BonusReasons = reasons
		c.PutLabel("rank_model", utils.Label{Value: n.Model.Name(), Source: "rank"})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil {
			return false
		}
		if items[j] == nil {
			return true
		}
		return items[i].Score > items[j].Score
	})
	return items, nil
}
