package recall

import (
	"context"
	"strings"
	"time"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/catalog"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"
)

// 场景漏斗各分量的分值。
const (
	locationExact    = 40
	locationRegion   = 25
	locationBaseline = 10

	statusOpen         = 30
	statusOpeningSoon  = 15
	statusClosed       = 0
	statusHoursUnknown = 20

	openingSoonWindow = 60 * time.Minute
)

// Contextual 是场景漏斗：位置（≤40）+ 营业状态（≤30）+ 时段/类目亲和（≤30）。
// 分数写入 context_score。
type Contextual struct {
	Catalog catalog.Provider
	Regions catalog.Regions // 为空时使用 catalog.DefaultRegions
}

func (r *Contextual) Name() string { return core.FunnelContextual }

func (r *Contextual) GetCandidates(ctx context.Context, rctx *core.RecommendContext) ([]*core.Candidate, error) {
	if rctx == nil {
		return nil, nil
	}
	idx := catalog.Resolve(ctx, r.Catalog)
	regions := r.Regions
	if len(regions) == 0 {
		regions = catalog.DefaultRegions
	}
	slot := rctx.Slot()
	now := rctx.Now
	return scan(ctx, idx, rctx, r.Name(), core.ScoreContext, func(e *catalog.ShopEntry) (float64, string, bool) {
		var (
			score   float64
			reasons []string
		)
		switch regions.Proximity(rctx.Location, e.Shop.District) {
		case catalog.ProximityExact:
			score += locationExact
			reasons = append(reasons, "same district")
		case catalog.ProximityRegion:
			score += locationRegion
			reasons = append(reasons, "nearby district")
		default:
			score += locationBaseline
		}

		h := e.Shop.Hours
		switch {
		case !h.Known():
			score += statusHoursUnknown
		case h.IsOpenAt(now):
			score += statusOpen
			reasons = append(reasons, "open now")
		case h.OpensWithin(now, openingSoonWindow):
			score += statusOpeningSoon
			reasons = append(reasons, "opening soon")
		default:
			score += statusClosed
		}

		aff := catalog.TimeAffinity(slot, e.Shop.Category)
		score += aff
		if aff > catalog.DefaultTimeAffinity {
			reasons = append(reasons, "good for "+string(slot))
		}
		return score, strings.Join(reasons, ", "), true
	})
}
