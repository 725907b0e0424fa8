package feature

import (
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/catalog"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"
)

// 受偏差校正策略管理的店铺属性。
const (
	AttrGoodInfluence   = "good_influence"   // 约 10% 的店铺
	AttrAcceptsFoodcard = "accepts_foodcard" // 约 90% 的店铺
	AttrVerified        = "verified"         // 几乎全部店铺
)

// AttributePolicy 单个属性的校正方式：Ignore 为 true 时该属性不进入任何特征或加分；
// 否则按 Weight 缩放（<=0 视为未设置，等同 1）。
type AttributePolicy struct {
	Weight float64 `koanf:"weight" json:"weight"`
	Ignore bool    `koanf:"ignore" json:"ignore"`
}

// BiasPolicy 是属性 → 校正方式的配置表。未登记的属性原样通过。
type BiasPolicy struct {
	Attributes map[string]AttributePolicy `koanf:"attributes" json:"attributes"`
}

// DefaultBiasPolicy 默认策略：稀有属性保留，常见属性降权，普遍属性忽略。
func DefaultBiasPolicy() BiasPolicy {
	return BiasPolicy{Attributes: map[string]AttributePolicy{
		AttrGoodInfluence:   {Weight: 1.0},
		AttrAcceptsFoodcard: {Weight: 0.3},
		AttrVerified:        {Ignore: true},
	}}
}

// Ignored 属性是否被忽略。
func (p BiasPolicy) Ignored(attr string) bool {
	return p.Attributes[attr].Ignore
}

// Weight 返回属性权重，未设置为 1。
func (p BiasPolicy) Weight(attr string) float64 {
	ap, ok := p.Attributes[attr]
	if !ok || ap.Weight <= 0 {
		return 1
	}
	return ap.Weight
}

// Apply 对属性原始值做校正，corrected 表示值被忽略或缩放过。
func (p BiasPolicy) Apply(attr string, raw float64) (value float64, corrected bool) {
	ap, ok := p.Attributes[attr]
	if !ok {
		return raw, false
	}
	if ap.Ignore {
		return 0, true
	}
	w := p.Weight(attr)
	return raw * w, w != 1
}

// CatalogWeights 把策略换算成目录索引的计分系数：忽略为 0，否则为属性权重。
// 热度分和亲和度在建索引时预先计算，必须用同一份策略构建。
func (p BiasPolicy) CatalogWeights() catalog.AttributeWeights {
	gi, _ := p.Apply(AttrGoodInfluence, 1)
	fc, _ := p.Apply(AttrAcceptsFoodcard, 1)
	return catalog.AttributeWeights{GoodInfluence: gi, Foodcard: fc}
}

// shopAttributes 返回店铺上受策略管理的属性原始值（0/1）。
func shopAttributes(s *core.Shop) map[string]float64 {
	return map[string]float64{
		AttrGoodInfluence:   boolf(s.GoodInfluence),
		AttrAcceptsFoodcard: boolf(s.FoodcardAccepted()),
		AttrVerified:        boolf(s.Verified),
	}
}

// Corrected 店铺身上是否有被校正（忽略或缩放）的属性，用于解释标签。
func (p BiasPolicy) Corrected(s *core.Shop) bool {
	if s == nil {
		return false
	}
	for attr, raw := range shopAttributes(s) {
		if raw == 0 {
			continue
		}
		if _, corrected := p.Apply(attr, raw); corrected {
			return true
		}
	}
	return false
}

// IgnoresCoupon 依赖被忽略属性的优惠券（善意商家券、饭卡券）视为不存在。
func (p BiasPolicy) IgnoresCoupon(t core.CouponUsageType) bool {
	switch t {
	case core.CouponUsageGoodShop:
		return p.Ignored(AttrGoodInfluence)
	case core.CouponUsageFoodcard:
		return p.Ignored(AttrAcceptsFoodcard)
	default:
		return false
	}
}
