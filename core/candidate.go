package core

import (
	"strings"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/pkg/utils"
)

// 召回漏斗名称，同时也是合并顺序。
const (
	FunnelPopularity    = "popularity"
	FunnelContextual    = "contextual"
	FunnelContent       = "content"
	FunnelCollaborative = "collaborative"
)

// 四个漏斗分数在向量中的下标（与宽特征 0-3 槽位一致）。
const (
	ScoreCollaborative = iota
	ScoreContent
	ScoreContext
	ScoreBase
	NumScores
)

// Candidate 是推荐链路中的候选店铺：每个请求新建，响应构建后丢弃。
//
// 四个分数字段为可选（nil 表示该漏斗没有召回此店铺），合并时按字段取并集，
// 同一字段永远只保留某一个漏斗给出的值，不做累加。
type Candidate struct {
	ShopID   int64
	ShopName string
	Category string

	CollaborativeScore *float64
	ContentScore       *float64
	ContextScore       *float64
	BaseScore          *float64

	// FunnelSources 有序、去重的来源漏斗
	FunnelSources []string
	Reason        string
	Labels        map[string]utils.Label

	// 以下字段由引擎在排序阶段填充
	Wide         WideFeatures
	Dense        DenseFeatures
	Score        float64
	BonusReasons []string
	Tags         []string

	adjusted    [NumScores]float64
	hasAdjusted bool
}

// NewCandidate 创建一个候选。
func NewCandidate(shop *Shop) *Candidate {
	c := &Candidate{Labels: make(map[string]utils.Label)}
	if shop != nil {
		c.ShopID = shop.ID
		c.ShopName = shop.Name
		c.Category = shop.Category
	}
	return c
}

// Float 返回 v 的指针，便于给可选分数赋值。
func Float(v float64) *float64 { return &v }

// ScoreField 按下标返回对应分数字段的指针地址。
func (c *Candidate) ScoreField(i int) **float64 {
	switch i {
	case ScoreCollaborative:
		return &c.CollaborativeScore
	case ScoreContent:
		return &c.ContentScore
	case ScoreContext:
		return &c.ContextScore
	default:
		return &c.BaseScore
	}
}

// RawScores 返回四个原始分数，缺失的字段为 0。
func (c *Candidate) RawScores() [NumScores]float64 {
	var out [NumScores]float64
	for i := 0; i < NumScores; i++ {
		if p := *c.ScoreField(i); p != nil {
			out[i] = *p
		}
	}
	return out
}

// SetAdjustedScores 写入检索优先级加权后的分数，排序阶段使用。
func (c *Candidate) SetAdjustedScores(s [NumScores]float64) {
	c.adjusted = s
	c.hasAdjusted = true
}

// RankingScores 返回排序使用的分数：有加权结果用加权结果，否则用原始分数。
func (c *Candidate) RankingScores() [NumScores]float64 {
	if c.hasAdjusted {
		return c.adjusted
	}
	return c.RawScores()
}

// HasSource 是否已经包含某个来源漏斗。
func (c *Candidate) HasSource(name string) bool {
	for _, s := range c.FunnelSources {
		if s == name {
			return true
		}
	}
	return false
}

// AddSource 追加来源（去重）。
func (c *Candidate) AddSource(name string) {
	if name == "" || c.HasSource(name) {
		return
	}
	c.FunnelSources = append(c.FunnelSources, name)
}

// SourceDisplay 用 " + " 连接来源，用于展示。
func (c *Candidate) SourceDisplay() string {
	return strings.Join(c.FunnelSources, " + ")
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (c *Candidate) PutLabel(key string, lbl utils.Label) {
	if c.Labels == nil {
		c.Labels = make(map[string]utils.Label)
	}
	if old, ok := c.Labels[key]; ok {
		c.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	c.Labels[key] = lbl
}

// AddTag 追加解释标签（去重）。
func (c *Candidate) AddTag(tag string) {
	for _, t := range c.Tags {
		if t == tag {
			return
		}
	}
	c.Tags = append(c.Tags, tag)
}
