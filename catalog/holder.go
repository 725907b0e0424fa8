package catalog

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Holder 持有当前生效的索引。读取无锁；重载时先完整构建新索引再原子替换。
type Holder struct {
	cur      atomic.Pointer[Index]
	reloadMu sync.Mutex // 串行化重载，读路径不受影响
	profiles map[Archetype]ArchetypeProfile
	weights  AttributeWeights
	logger   zerolog.Logger
}

// HolderOption 配置 Holder。
type HolderOption func(*Holder)

// WithArchetypeProfiles 使用自定义原型表。
func WithArchetypeProfiles(p map[Archetype]ArchetypeProfile) HolderOption {
	return func(h *Holder) {
		if len(p) > 0 {
			h.profiles = p
		}
	}
}

// WithAttributeWeights 设置偏置属性的计分系数，需与特征层的偏置策略保持一致。
func WithAttributeWeights(w AttributeWeights) HolderOption {
	return func(h *Holder) { h.weights = w }
}

// WithLogger 设置日志。
//
//nolint:gocritic // zerolog.Logger 按值传递
func WithLogger(l zerolog.Logger) HolderOption {
	return func(h *Holder) { h.logger = l }
}

// NewHolder 创建 Holder，初始索引为 idx（nil 时为空索引）。
func NewHolder(idx *Index, opts ...HolderOption) *Holder {
	h := &Holder{profiles: DefaultArchetypeProfiles, weights: DefaultAttributeWeights, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With().Str("component", "catalog").Logger()
	if idx == nil {
		idx = BuildIndex(nil, h.profiles, h.weights)
	}
	h.cur.Store(idx)
	return h
}

// Load 用 loader 做首次加载。目录缺失或损坏时初始化为空索引而不是报错，
// 之后所有漏斗都会返回空结果；返回的 error 仅用于日志/启动期校验。
func Load(ctx context.Context, loader Loader, opts ...HolderOption) (*Holder, error) {
	h := NewHolder(nil, opts...)
	if loader == nil {
		return h, nil
	}
	_, err := h.Reload(ctx, loader)
	return h, err
}

// Weights 返回重载时使用的属性计分系数。
func (h *Holder) Weights() AttributeWeights { return h.weights }

// Current 返回当前索引，永不为 nil。
func (h *Holder) Current() *Index {
	return h.cur.Load()
}

// Swap 直接替换索引，返回旧索引。
func (h *Holder) Swap(idx *Index) *Index {
	if idx == nil {
		idx = BuildIndex(nil, h.profiles, h.weights)
	}
	return h.cur.Swap(idx)
}

// Reload 从 loader 读取新快照、构建索引并原子替换。
// 失败时保留旧索引。
func (h *Holder) Reload(ctx context.Context, loader Loader) (*LoadReport, error) {
	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()

	c, report, err := loader.Load(ctx)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("loader", loader.Name()).
			Msg("catalog reload failed, keeping previous index")
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if report == nil {
		report = &LoadReport{}
	}
	idx := BuildIndex(c, h.profiles, h.weights)
	h.cur.Store(idx)

	h.logger.Info().
		Str("loader", loader.Name()).
		Str("version", idx.Version()).
		Int("shops", idx.Len()).
		Int("skipped_shops", report.SkippedShops).
		Int("skipped_menus", report.SkippedMenus).
		Int("orphan_menus", report.OrphanMenus).
		Msg("catalog reloaded")
	return report, nil
}
