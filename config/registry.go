package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/catalog"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/recall"
)

// FunnelBuilder 根据目录与区域表构建一个漏斗。
type FunnelBuilder func(holder catalog.Provider, regions catalog.Regions) recall.Funnel

var (
	funnelBuilders   = make(map[string]FunnelBuilder)
	funnelBuildersMu sync.RWMutex
)

func init() {
	Register(core.FunnelPopularity, func(h catalog.Provider, _ catalog.Regions) recall.Funnel {
		return &recall.Popularity{Catalog: h}
	})
	Register(core.FunnelContextual, func(h catalog.Provider, r catalog.Regions) recall.Funnel {
		return &recall.Contextual{Catalog: h, Regions: r}
	})
	Register(core.FunnelContent, func(h catalog.Provider, _ catalog.Regions) recall.Funnel {
		return &recall.Content{Catalog: h}
	})
	Register(core.FunnelCollaborative, func(h catalog.Provider, _ catalog.Regions) recall.Funnel {
		return &recall.Collaborative{Catalog: h}
	})
}

// Register 注册一种漏斗，同名覆盖。
func Register(name string, builder FunnelBuilder) {
	if name == "" || builder == nil {
		return
	}
	funnelBuildersMu.Lock()
	defer funnelBuildersMu.Unlock()
	funnelBuilders[name] = builder
}

// SupportedFunnels 返回已注册的漏斗名（排序），用于错误提示与校验。
func SupportedFunnels() []string {
	funnelBuildersMu.RLock()
	defer funnelBuildersMu.RUnlock()
	names := make([]string, 0, len(funnelBuilders))
	for n := range funnelBuilders {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// BuildFunnels 按配置顺序构建漏斗；遇到未注册的名字返回带支持列表的错误。
func BuildFunnels(names []string, holder catalog.Provider, regions catalog.Regions) ([]recall.Funnel, error) {
	funnelBuildersMu.RLock()
	defer funnelBuildersMu.RUnlock()
	out := make([]recall.Funnel, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		b, ok := funnelBuilders[n]
		if !ok {
			return nil, fmt.Errorf("unsupported funnel %q (supported: %v)", n, supportedLocked())
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, b(holder, regions))
	}
	return out, nil
}

func supportedLocked() []string {
	names := make([]string, 0, len(funnelBuilders))
	for n := range funnelBuilders {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
