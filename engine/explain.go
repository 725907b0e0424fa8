package engine

import (
	"strings"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/catalog"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"
)

// 解释标签。
const (
	TagVectorSearchBoosted = "vector-search-boosted"
	TagBiasCorrected       = "bias-corrected"
)

// explain 生成一条推荐结果：拼接加分理由，打标签，附上最划算的优惠券。
func (e *Engine) explain(idx *catalog.Index, rctx *core.RecommendContext, c *core.Candidate, boosted bool) Recommendation {
	if boosted {
		c.AddTag(TagVectorSearchBoosted)
	}
	entry, ok := idx.Entry(c.ShopID)
	if ok && e.builder.Corrected(entry) {
		c.AddTag(TagBiasCorrected)
	}

	rec := Recommendation{
		ShopID:   c.ShopID,
		ShopName: c.ShopName,
		Category: c.Category,
		Scores: FunnelScores{
			Collaborative: c.CollaborativeScore,
			Content:       c.ContentScore,
			Context:       c.ContextScore,
			Base:          c.BaseScore,
		},
		PersonalizedScore: c.Score,
		RankingMethod:     e.model.Name(),
		FunnelSources:     append([]string(nil), c.FunnelSources...),
		Reason:            c.Reason,
		BonusReasons:      append([]string(nil), c.BonusReasons...),
		Tags:              append([]string(nil), c.Tags...),
		Explanation:       explanation(c),
		Labels:            labels(c),
	}
	if ok {
		rec.Coupon = e.bestCoupon(idx, entry, rctx)
	}
	return rec
}

func labels(c *core.Candidate) map[string]string {
	if len(c.Labels) == 0 {
		return nil
	}
	out := make(map[string]string, len(c.Labels))
	for k, l := range c.Labels {
		out[k] = l.Value
	}
	return out
}

// explanation 拼成一句人类可读的说明。
func explanation(c *core.Candidate) string {
	var parts []string
	if c.Reason != "" {
		parts = append(parts, c.Reason)
	}
	parts = append(parts, c.BonusReasons...)
	if len(parts) == 0 {
		parts = append(parts, "recommended by "+c.SourceDisplay())
	}
	s := strings.Join(parts, ", ")
	if len(c.Tags) > 0 {
		s += " [" + strings.Join(c.Tags, ", ") + "]"
	}
	return s
}

// bestCoupon 以店铺最低菜单价为基准选优惠券；依赖被忽略属性的券不展示。
func (e *Engine) bestCoupon(idx *catalog.Index, entry *catalog.ShopEntry, rctx *core.RecommendContext) *CouponOffer {
	if entry.MinPrice <= 0 {
		return nil
	}
	policy := e.builder.Policy()
	var (
		best     *core.Coupon
		bestDisc int
	)
	for _, cp := range idx.ApplicableCoupons(entry.Shop.ID, rctx.Now) {
		if policy.IgnoresCoupon(cp.UsageType) {
			continue
		}
		if d := cp.CalculateDiscount(entry.MinPrice); d > bestDisc {
			best, bestDisc = cp, d
		}
	}
	if best == nil {
		return nil
	}
	return &CouponOffer{ID: best.ID, Name: best.Name, Price: entry.MinPrice, Discount: bestDisc}
}
