package catalog

import (
	"time"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"
)

// 价格档阈值（按店铺最低菜单价）。
const (
	LowPriceMax    = 8000
	MediumPriceMax = 15000
	goodValueMax   = 12000
)

// PriceTier 店铺价格档。
type PriceTier int

const (
	TierUnknown PriceTier = iota
	TierLow
	TierMedium
	TierHigh
)

// Cheapness 便宜程度 0-1，未知为 0.5。
func (t PriceTier) Cheapness() float64 {
	switch t {
	case TierLow:
		return 1.0
	case TierMedium:
		return 0.6
	case TierHigh:
		return 0.2
	default:
		return 0.5
	}
}

// Encoding 稠密特征里的数值编码 {low:0.2, medium:0.5, high:0.8}，未知为 0.5。
func (t PriceTier) Encoding() float64 {
	switch t {
	case TierLow:
		return 0.2
	case TierHigh:
		return 0.8
	default:
		return 0.5
	}
}

func (t PriceTier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ShopEntry 是索引中的一家店铺及其派生数据。构建后只读。
type ShopEntry struct {
	Shop       *core.Shop
	Menus      []*core.Menu
	Tokens     TokenSet
	MinPrice   int // 无菜单时为 -1
	Tier       PriceTier
	Popularity float64
	Affinity   map[Archetype]float64
	Order      int // 目录顺序，用于稳定排序
}

// HasMenuUnder 是否至少有一个菜单价格不超过 maxPrice。
func (e *ShopEntry) HasMenuUnder(maxPrice int) bool {
	return e.MinPrice >= 0 && e.MinPrice <= maxPrice
}

// Index 是目录的只读派生结构，供各个漏斗按匹配集合回答查询。
type Index struct {
	version string
	entries []*ShopEntry
	byID    map[int64]*ShopEntry
	coupons []*core.Coupon
	builtAt time.Time
}

// NewIndex 基于目录构建索引；c 为 nil 时返回空索引。
func NewIndex(c *Catalog) *Index {
	return NewIndexWithProfiles(c, DefaultArchetypeProfiles)
}

// NewIndexWithProfiles 使用自定义原型表构建索引。
func NewIndexWithProfiles(c *Catalog, profiles map[Archetype]ArchetypeProfile) *Index {
	return BuildIndex(c, profiles, DefaultAttributeWeights)
}

// AttributeWeights 是偏置属性在热度分、亲和度里的缩放系数，0 表示该属性不计分。
type AttributeWeights struct {
	GoodInfluence float64
	Foodcard      float64
}

// DefaultAttributeWeights 与默认偏置策略一致：善意商家全额，饭卡按 0.3 计。
var DefaultAttributeWeights = AttributeWeights{GoodInfluence: 1, Foodcard: 0.3}

// BuildIndex 使用原型表和属性缩放构建索引。
func BuildIndex(c *Catalog, profiles map[Archetype]ArchetypeProfile, w AttributeWeights) *Index {
	idx := &Index{byID: make(map[int64]*ShopEntry), builtAt: time.Now()}
	if c == nil {
		return idx
	}
	idx.version = c.Version

	idx.entries = make([]*ShopEntry, 0, len(c.Shops))
	for i := range c.Shops {
		shop := c.Shops[i]
		if shop.ID <= 0 {
			continue
		}
		if _, dup := idx.byID[shop.ID]; dup {
			continue
		}
		e := &ShopEntry{Shop: &shop, MinPrice: -1, Tokens: TokenSet{}, Order: len(idx.entries)}
		idx.entries = append(idx.entries, e)
		idx.byID[shop.ID] = e
	}

	for i := range c.Menus {
		menu := c.Menus[i]
		e, ok := idx.byID[menu.ShopID]
		if !ok || menu.Price < 0 {
			continue
		}
		e.Menus = append(e.Menus, &menu)
		if e.MinPrice < 0 || menu.Price < e.MinPrice {
			e.MinPrice = menu.Price
		}
	}

	for _, e := range idx.entries {
		e.Tokens.Add(e.Shop.Name)
		e.Tokens.Add(e.Shop.Category)
		e.Tokens.Add(e.Shop.RawCategory)
		for _, m := range e.Menus {
			e.Tokens.Add(m.Name)
		}
		e.Tier = tierOf(e.MinPrice)
		e.Popularity = PopularityScore(e, w)
		e.Affinity = make(map[Archetype]float64, len(profiles))
		for a, p := range profiles {
			e.Affinity[a] = AffinityScore(p, e, w)
		}
	}

	for i := range c.Coupons {
		coupon := c.Coupons[i]
		idx.coupons = append(idx.coupons, &coupon)
	}
	return idx
}

func tierOf(minPrice int) PriceTier {
	switch {
	case minPrice < 0:
		return TierUnknown
	case minPrice <= LowPriceMax:
		return TierLow
	case minPrice <= MediumPriceMax:
		return TierMedium
	default:
		return TierHigh
	}
}

// PopularityScore 确定性的热度分：
// 善意商家 +20，支持饭卡 +10（两项都乘以 w 中的系数），菜单数×5（上限 25），
// 有菜单 ≤8000 则 +15、否则 ≤12000 则 +10，营业时长 ≥10 小时 +10。
func PopularityScore(e *ShopEntry, w AttributeWeights) float64 {
	var score float64
	if e.Shop.GoodInfluence {
		score += 20 * w.GoodInfluence
	}
	if e.Shop.FoodcardAccepted() {
		score += 10 * w.Foodcard
	}
	menuScore := float64(len(e.Menus) * 5)
	if menuScore > 25 {
		menuScore = 25
	}
	score += menuScore
	switch {
	case e.HasMenuUnder(LowPriceMax):
		score += 15
	case e.HasMenuUnder(goodValueMax):
		score += 10
	}
	if e.Shop.Hours.SpanMinutes() >= 10*60 {
		score += 10
	}
	return score
}

// Version 快照版本。
func (idx *Index) Version() string { return idx.version }

// BuiltAt 索引构建时间。
func (idx *Index) BuiltAt() time.Time { return idx.builtAt }

// Len 店铺数量。
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.entries)
}

// Empty 是否为空索引。
func (idx *Index) Empty() bool { return idx.Len() == 0 }

// Entries 按目录顺序返回全部店铺，调用方不得修改。
func (idx *Index) Entries() []*ShopEntry {
	if idx == nil {
		return nil
	}
	return idx.entries
}

// Entry 按 ID 查找店铺。
func (idx *Index) Entry(shopID int64) (*ShopEntry, bool) {
	if idx == nil {
		return nil, false
	}
	e, ok := idx.byID[shopID]
	return e, ok
}

// ApplicableCoupons 返回 at 时刻可用于该店铺的优惠券。
func (idx *Index) ApplicableCoupons(shopID int64, at time.Time) []*core.Coupon {
	e, ok := idx.Entry(shopID)
	if !ok {
		return nil
	}
	var out []*core.Coupon
	for _, c := range idx.coupons {
		if c.AppliesTo(e.Shop, at) {
			out = append(out, c)
		}
	}
	return out
}

// BestCoupon 返回对 price 抵扣最多的可用优惠券（平手取目录中靠前的）。
func (idx *Index) BestCoupon(shopID int64, price int, at time.Time) (*core.Coupon, int) {
	var (
		best     *core.Coupon
		bestDisc int
	)
	for _, c := range idx.ApplicableCoupons(shopID, at) {
		if d := c.CalculateDiscount(price); d > bestDisc {
			best, bestDisc = c, d
		}
	}
	return best, bestDisc
}
