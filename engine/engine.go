// Package engine 编排一次推荐请求：
//
//	GENERATE_CANDIDATES → (空 → EMPTY_RESULT | RANK → EXPLAIN → RESPOND)
//
// 请求内不重试；漏斗失败、特征构建失败、打分失败都只降级对应的信号，
// 调用方永远拿到一个结构完整的 Response。
package engine

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/catalog"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/feature"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/filter"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/foodcard"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/metrics"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/model"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/pipeline"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/rank"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/recall"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/rerank"
)

// Config 引擎参数。
type Config struct {
	TopK           int       `koanf:"top_k" validate:"gte=1"`
	MaxTopK        int       `koanf:"max_top_k" validate:"gtefield=TopK"`
	MaxPerCategory int       `koanf:"max_per_category" validate:"gte=0"`
	Strict         bool      `koanf:"strict"`
	Weighting      Weighting `koanf:"weighting"`
}

// DefaultConfig 默认参数。
func DefaultConfig() Config {
	return Config{
		TopK:      10,
		MaxTopK:   50,
		Weighting: DefaultWeighting(),
	}
}

// Engine 推荐引擎。构建后只读，可并发处理请求。
type Engine struct {
	cfg       Config
	holder    *catalog.Holder
	fanout    *recall.Fanout
	builder   *feature.Builder
	model     model.RankModel
	features  *feature.Node
	ranking   *pipeline.Pipeline
	blacklist *filter.Blacklist
	balance   foodcard.BalanceChecker
	metrics   metrics.Sink
	logger    zerolog.Logger
}

// Option 引擎选项。
type Option func(*Engine)

// WithLogger 设置 logger。
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics 注入指标 sink。
func WithMetrics(s metrics.Sink) Option {
	return func(e *Engine) { e.metrics = s }
}

// WithModel 指定排序模型，默认使用规则模型。
func WithModel(m model.RankModel) Option {
	return func(e *Engine) { e.model = m }
}

// WithFanout 替换候选生成器；其漏斗应当从同一个 Holder 读取目录。
func WithFanout(f *recall.Fanout) Option {
	return func(e *Engine) { e.fanout = f }
}

// WithBuilder 替换特征构建器。
func WithBuilder(b *feature.Builder) Option {
	return func(e *Engine) { e.builder = b }
}

// WithBlacklist 设置运营屏蔽名单。
func WithBlacklist(b *filter.Blacklist) Option {
	return func(e *Engine) { e.blacklist = b }
}

// WithBalanceChecker 设置饭卡余额协作方（可选）。
func WithBalanceChecker(c foodcard.BalanceChecker) Option {
	return func(e *Engine) { e.balance = c }
}

// New 创建引擎。holder 为空，或 Strict 模式下目录为空时返回 ErrCatalogUnavailable。
func New(cfg Config, holder *catalog.Holder, opts ...Option) (*Engine, error) {
	if holder == nil {
		return nil, core.ErrCatalogUnavailable.Wrap(errNoHolder)
	}
	if cfg.Strict && holder.Current().Empty() {
		return nil, core.ErrCatalogUnavailable.Wrap(errEmptyCatalog)
	}
	def := DefaultConfig()
	if cfg.TopK <= 0 {
		cfg.TopK = def.TopK
	}
	if cfg.MaxTopK < cfg.TopK {
		cfg.MaxTopK = max(def.MaxTopK, cfg.TopK)
	}

	e := &Engine{cfg: cfg, holder: holder, metrics: metrics.Nop{}, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With().Str("component", "engine").Logger()

	if e.builder == nil {
		e.builder = feature.NewBuilder(feature.DefaultConfig(), nil, feature.DefaultBiasPolicy())
	}
	if w := e.builder.Policy().CatalogWeights(); w != holder.Weights() {
		e.logger.Warn().
			Interface("catalog_weights", holder.Weights()).
			Interface("policy_weights", w).
			Msg("bias policy differs from catalog attribute weights")
	}
	if e.fanout == nil {
		e.fanout = DefaultFanout(holder, catalog.DefaultRegions, e.logger)
	}
	if e.model == nil {
		rules, err := model.NewRuleModel(e.builder.Config().ScoreScale, nil)
		if err != nil {
			return nil, err
		}
		e.model = rules
	}

	e.features = &feature.Node{Builder: e.builder, Catalog: holder, Logger: e.logger}
	e.ranking = &pipeline.Pipeline{Nodes: []pipeline.Node{
		&rank.Node{Model: e.model, Logger: e.logger},
		&rerank.Diversity{MaxPerCategory: cfg.MaxPerCategory},
		&rerank.TopNNode{N: cfg.TopK},
	}}
	return e, nil
}

// DefaultFanout 按固定顺序装配四个漏斗。
func DefaultFanout(holder catalog.Provider, regions catalog.Regions, logger zerolog.Logger) *recall.Fanout {
	return &recall.Fanout{
		Funnels: []recall.Funnel{
			&recall.Popularity{Catalog: holder},
			&recall.Contextual{Catalog: holder, Regions: regions},
			&recall.Content{Catalog: holder},
			&recall.Collaborative{Catalog: holder},
		},
		Logger: logger,
	}
}

// RankingMethod 启动时选定的排序方式。
func (e *Engine) RankingMethod() string { return e.model.Name() }

// Catalog 返回目录持有者。
func (e *Engine) Catalog() *catalog.Holder { return e.holder }

// Reload 重载目录；失败时保留旧索引。
func (e *Engine) Reload(ctx context.Context, loader catalog.Loader) (*catalog.LoadReport, error) {
	report, err := e.holder.Reload(ctx, loader)
	e.metrics.CatalogReloaded(err == nil, e.holder.Current().Len())
	return report, err
}
