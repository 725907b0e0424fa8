// Package foodrec 是店铺/菜单推荐引擎的门面：
// 四个召回漏斗 → 宽/稠密特征 → 规则或 Wide&Deep 排序 → 带解释的结果。
//
// 主要抽象在同级包中：catalog（目录索引）、recall（漏斗与扇出）、feature（特征与偏差校正）、
// model（排序模型）、engine（请求编排）。这里只做类型别名，方便只 import 一个包使用。
package foodrec

import (
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/catalog"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/engine"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/pipeline"
)

type (
	Engine   = engine.Engine
	Request  = engine.Request
	Response = engine.Response
	Catalog  = catalog.Catalog
	Node     = pipeline.Node
	Kind     = pipeline.Kind
)

const (
	KindRecall  = pipeline.KindRecall
	KindFeature = pipeline.KindFeature
	KindRank    = pipeline.KindRank
	KindReRank  = pipeline.KindReRank
)

// NewEngine 用一份内存目录和默认配置创建引擎。
func NewEngine(c *Catalog, opts ...engine.Option) (*Engine, error) {
	return engine.New(engine.DefaultConfig(), catalog.NewHolder(catalog.NewIndex(c)), opts...)
}
