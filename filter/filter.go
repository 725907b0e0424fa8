// Package filter 提供召回前的店铺过滤。所有漏斗共享同一组基础过滤器，
// 先过滤再打分。
package filter

import (
	"context"
	"strings"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/catalog"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"
)

// Filter 判断一家店铺是否应该被过滤掉。
// 返回 true 表示应该过滤（移除），false 表示保留。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断店铺是否应该被过滤
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, e *catalog.ShopEntry) (bool, error)
}

// Chain 是按顺序执行的一组过滤器，任意一个命中即过滤。
type Chain []Filter

// Keep 判断店铺是否保留。过滤器出错时忽略该过滤器，不中断流程。
func (c Chain) Keep(ctx context.Context, rctx *core.RecommendContext, e *catalog.ShopEntry) bool {
	if e == nil || e.Shop == nil {
		return false
	}
	for _, f := range c {
		drop, err := f.ShouldFilter(ctx, rctx, e)
		if err != nil {
			continue
		}
		if drop {
			return false
		}
	}
	return true
}

// ForRequest 根据请求的结构化过滤条件和排除列表构建基础过滤链。
func ForRequest(rctx *core.RecommendContext) Chain {
	if rctx == nil {
		return nil
	}
	var c Chain
	f := rctx.Filters
	if strings.TrimSpace(f.Category) != "" {
		c = append(c, CategoryFilter{Category: f.Category})
	}
	if f.GoodInfluenceOnly {
		c = append(c, GoodInfluenceFilter{})
	}
	if f.FoodcardOnly {
		c = append(c, FoodcardFilter{})
	}
	if f.MaxPrice > 0 {
		c = append(c, MaxPriceFilter{MaxPrice: f.MaxPrice})
	}
	if len(rctx.ExcludeShopIDs) > 0 {
		c = append(c, ExcludeFilter{})
	}
	return c
}

// CategoryFilter 类目子串匹配（不区分大小写），同时检查规范类目和原始类目。
type CategoryFilter struct {
	Category string
}

func (f CategoryFilter) Name() string { return "filter.category" }

func (f CategoryFilter) ShouldFilter(_ context.Context, _ *core.RecommendContext, e *catalog.ShopEntry) (bool, error) {
	want := strings.ToLower(strings.TrimSpace(f.Category))
	if want == "" {
		return false, nil
	}
	if strings.Contains(strings.ToLower(e.Shop.Category), want) ||
		strings.Contains(strings.ToLower(e.Shop.RawCategory), want) {
		return false, nil
	}
	return true, nil
}

// GoodInfluenceFilter 只保留善意商家。
type GoodInfluenceFilter struct{}

func (GoodInfluenceFilter) Name() string { return "filter.good_influence" }

func (GoodInfluenceFilter) ShouldFilter(_ context.Context, _ *core.RecommendContext, e *catalog.ShopEntry) (bool, error) {
	return !e.Shop.GoodInfluence, nil
}

// FoodcardFilter 只保留明确支持饭卡的店铺（未知视为不支持）。
type FoodcardFilter struct{}

func (FoodcardFilter) Name() string { return "filter.foodcard" }

func (FoodcardFilter) ShouldFilter(_ context.Context, _ *core.RecommendContext, e *catalog.ShopEntry) (bool, error) {
	return !e.Shop.FoodcardAccepted(), nil
}

// MaxPriceFilter 至少有一个菜单价格不超过 MaxPrice。
type MaxPriceFilter struct {
	MaxPrice int
}

func (f MaxPriceFilter) Name() string { return "filter.max_price" }

func (f MaxPriceFilter) ShouldFilter(_ context.Context, _ *core.RecommendContext, e *catalog.ShopEntry) (bool, error) {
	if f.MaxPrice <= 0 {
		return false, nil
	}
	return !e.HasMenuUnder(f.MaxPrice), nil
}

// ExcludeFilter 过滤请求排除列表里的店铺。
type ExcludeFilter struct{}

func (ExcludeFilter) Name() string { return "filter.exclude" }

func (ExcludeFilter) ShouldFilter(_ context.Context, rctx *core.RecommendContext, e *catalog.ShopEntry) (bool, error) {
	return rctx.IsExcluded(e.Shop.ID), nil
}
