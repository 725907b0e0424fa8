package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/catalog"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/model"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/recall"
)

// Recommend 处理一次推荐请求。不会 panic，也不返回裸错误。
func (e *Engine) Recommend(ctx context.Context, req Request) (resp *Response) {
	start := time.Now()
	resp = &Response{
		Recommendations: []Recommendation{},
		Metadata: Metadata{
			RequestID:       uuid.NewString(),
			FunnelBreakdown: map[string]int{},
			AppliedFilters:  req.Filters,
			RankingMethod:   e.model.Name(),
		},
	}
	log := e.logger.With().Str("request_id", resp.Metadata.RequestID).Str("user_id", req.UserID).Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recommend panicked")
			e.fail(resp, fmt.Errorf("internal error: %v", r))
		}
		resp.Metadata.ElapsedMS = time.Since(start).Milliseconds()
		e.metrics.RequestServed(resp.Metadata.RankingMethod, resp.Metadata.EmptyResult,
			resp.Metadata.ErrorOccurred, time.Since(start))
	}()

	// 整个请求固定使用同一个索引版本
	idx := e.holder.Current()
	resp.Metadata.CatalogVersion = idx.Version()
	ctx = catalog.WithIndex(ctx, idx)

	rctx := e.buildContext(ctx, req, log)

	// GENERATE_CANDIDATES
	cands, report, err := e.fanout.Generate(ctx, rctx)
	e.recordFunnels(resp, report)
	if err != nil {
		log.Warn().Err(err).Msg("candidate generation aborted")
		e.fail(resp, err)
		return resp
	}
	resp.Metadata.TotalCandidates = len(cands)
	if len(cands) == 0 {
		e.empty(resp)
		return resp
	}

	// RANK
	var boosted map[int64]bool
	if rctx.EffectiveQuery() != "" {
		boosted = e.cfg.Weighting.Apply(cands)
	}
	featured, err := e.features.Process(ctx, rctx, cands)
	if err != nil {
		e.fail(resp, err)
		return resp
	}
	dropped := len(cands) - len(featured)
	resp.Metadata.DroppedCandidates = dropped
	e.metrics.CandidatesDropped(dropped)
	if dropped > 0 {
		log.Info().Int("dropped", dropped).Msg("candidates dropped during feature build")
	}
	if len(featured) == 0 {
		e.empty(resp)
		return resp
	}

	rctx.Limit = e.topK(req.TopK)
	ranked, err := e.ranking.Run(ctx, rctx, featured)
	if err != nil {
		log.Warn().Err(err).Msg("ranking aborted")
		e.fail(resp, err)
		return resp
	}

	// EXPLAIN → RESPOND
	resp.Recommendations = make([]Recommendation, 0, len(ranked))
	for _, c := range ranked {
		resp.Recommendations = append(resp.Recommendations, e.explain(idx, rctx, c, boosted[c.ShopID]))
	}
	return resp
}

// buildContext 把请求转换成只读的 RecommendContext。
func (e *Engine) buildContext(ctx context.Context, req Request, log zerolog.Logger) *core.RecommendContext {
	now := time.Now()
	if req.Time != nil && !req.Time.IsZero() {
		now = *req.Time
	}
	rctx := &core.RecommendContext{
		UserID:        req.UserID,
		User:          req.User.Normalized(),
		Location:      req.Location,
		Now:           now,
		TimeOfDay:     core.ParseTimeOfDay(req.TimeOfDay),
		Query:         req.Query,
		SemanticQuery: req.SemanticQuery,
		Filters:       req.Filters,
		UserType:      req.UserType,
		Weather:       req.Weather,
		Companions:    req.Companions,
	}
	if rctx.TimeOfDay == "" {
		rctx.TimeOfDay = core.TimeOfDayAt(now)
	}

	rctx.ExcludeShopIDs = append([]int64(nil), req.ExcludeShops...)
	if e.blacklist != nil {
		ids, err := e.blacklist.Fetch(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("blacklist unavailable")
		}
		rctx.ExcludeShopIDs = append(rctx.ExcludeShopIDs, ids...)
	}

	if e.balance != nil && req.UserID != "" {
		if amount, ok := e.balance.CheckBalance(ctx, req.UserID); ok {
			rctx.FoodcardBalance = &amount
		}
	}
	return rctx
}

func (e *Engine) topK(requested int) int {
	switch {
	case requested <= 0:
		return e.cfg.TopK
	case requested > e.cfg.MaxTopK:
		return e.cfg.MaxTopK
	default:
		return requested
	}
}

func (e *Engine) recordFunnels(resp *Response, report *recall.GenerateReport) {
	if report == nil {
		return
	}
	for _, f := range report.Funnels {
		if f.Name == "" {
			continue
		}
		resp.Metadata.FunnelBreakdown[f.Name] = f.Count
		e.metrics.FunnelResult(f.Name, f.Count, f.Err != nil, f.Elapsed)
	}
	resp.Metadata.FailedFunnels = report.Failed()
}

// empty 进入 EMPTY_RESULT：合法的终止状态，不是错误。
func (e *Engine) empty(resp *Response) {
	resp.Recommendations = []Recommendation{}
	resp.Metadata.EmptyResult = true
	resp.Metadata.RankingMethod = model.MethodNone
}

// fail 丢弃所有部分结果，只返回错误元数据。
func (e *Engine) fail(resp *Response, err error) {
	resp.Recommendations = []Recommendation{}
	resp.Metadata.ErrorOccurred = true
	resp.Metadata.EmptyResult = false
	resp.Metadata.RankingMethod = model.MethodNone
	resp.Metadata.Error = err.Error()
}
