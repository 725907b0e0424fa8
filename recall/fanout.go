package recall

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/pipeline"
)

// 默认的召回配额。
const (
	DefaultMaxTotal = 150
	DefaultTimeout  = 200 * time.Millisecond
)

// DefaultLimits 每个漏斗的默认候选上限。
var DefaultLimits = map[string]int{
	core.FunnelPopularity:    30,
	core.FunnelContextual:    30,
	core.FunnelContent:       50,
	core.FunnelCollaborative: 50,
}

// defaultLimit 未配置上限的漏斗使用的值。
const defaultLimit = 30

// FunnelReport 是单个漏斗在一次请求中的执行结果。
type FunnelReport struct {
	Name    string
	Count   int
	Err     error
	Elapsed time.Duration
}

// GenerateReport 是一次候选生成的统计，随结果一起返回，不跨请求共享。
type GenerateReport struct {
	Funnels   []FunnelReport // 与 Fanout.Funnels 顺序一致
	Merged    int            // 去重后的数量（截断前）
	Total     int            // 最终返回的数量
	Truncated int            // 因全局上限被截掉的数量
}

// Breakdown 返回每个漏斗召回的数量。
func (r *GenerateReport) Breakdown() map[string]int {
	out := make(map[string]int, len(r.Funnels))
	for _, f := range r.Funnels {
		out[f.Name] = f.Count
	}
	return out
}

// Failed 返回失败（出错/panic/超时）的漏斗名。
func (r *GenerateReport) Failed() []string {
	var out []string
	for _, f := range r.Funnels {
		if f.Err != nil {
			out = append(out, f.Name)
		}
	}
	return out
}

// Fanout 是候选生成器：并发执行所有漏斗，按漏斗顺序合并去重，再做全局截断。
//
// 每个漏斗相互隔离：出错、panic 或超过 Timeout 都只让该漏斗贡献零个候选。
// 调用方 ctx 被取消时丢弃全部结果并返回 ctx.Err()。
type Fanout struct {
	Funnels  []Funnel
	Limits   map[string]int // 为空时使用 DefaultLimits
	MaxTotal int            // <=0 时使用 DefaultMaxTotal
	Timeout  time.Duration  // 每个漏斗的超时，<=0 时使用 DefaultTimeout
	Logger   zerolog.Logger
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 pipeline.Node，忽略输入候选。
func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	out, _, err := n.Generate(ctx, rctx)
	return out, err
}

// Limit 返回某个漏斗的候选上限。
func (n *Fanout) Limit(funnel string) int {
	limits := n.Limits
	if len(limits) == 0 {
		limits = DefaultLimits
	}
	if l, ok := limits[funnel]; ok && l > 0 {
		return l
	}
	if l, ok := DefaultLimits[funnel]; ok {
		return l
	}
	return defaultLimit
}

func (n *Fanout) maxTotal() int {
	if n.MaxTotal > 0 {
		return n.MaxTotal
	}
	return DefaultMaxTotal
}

func (n *Fanout) timeout() time.Duration {
	if n.Timeout > 0 {
		return n.Timeout
	}
	return DefaultTimeout
}

// Generate 执行全部漏斗并合并。
func (n *Fanout) Generate(ctx context.Context, rctx *core.RecommendContext) ([]*core.Candidate, *GenerateReport, error) {
	report := &GenerateReport{Funnels: make([]FunnelReport, len(n.Funnels))}
	if len(n.Funnels) == 0 || rctx == nil {
		return nil, report, ctx.Err()
	}

	// 结果按漏斗下标存放，合并顺序与完成顺序无关
	results := make([][]*core.Candidate, len(n.Funnels))
	var eg errgroup.Group
	for i, f := range n.Funnels {
		eg.Go(func() error {
			start := time.Now()
			limit := n.Limit(f.Name())
			items, err := n.run(ctx, f, rctx.WithLimit(limit))
			fr := FunnelReport{Name: f.Name(), Elapsed: time.Since(start)}
			if err != nil {
				fr.Err = core.ErrFunnelFailure.Wrap(fmt.Errorf("%s: %w", f.Name(), err))
				// 父 ctx 取消不算漏斗故障，外层统一处理
				if ctx.Err() == nil {
					n.Logger.Warn().
						Err(err).
						Str("funnel", f.Name()).
						Dur("elapsed", fr.Elapsed).
						Msg("funnel failed, contributing no candidates")
				}
				report.Funnels[i] = fr
				return nil
			}
			items = sanitize(items, f.Name(), limit)
			fr.Count = len(items)
			results[i] = items
			report.Funnels[i] = fr
			return nil
		})
	}
	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, report, err
	}

	var all []*core.Candidate
	for _, items := range results {
		all = append(all, items...)
	}
	merged := Merge(all)
	report.Merged = len(merged)
	if limit := n.maxTotal(); len(merged) > limit {
		report.Truncated = len(merged) - limit
		merged = merged[:limit]
	}
	report.Total = len(merged)
	return merged, report, nil
}

type funnelResult struct {
	items []*core.Candidate
	err   error
}

// run 在独立 goroutine 中执行漏斗，recover panic，并保证最多等待 Timeout。
func (n *Fanout) run(ctx context.Context, f Funnel, rctx *core.RecommendContext) ([]*core.Candidate, error) {
	fctx, cancel := context.WithTimeout(ctx, n.timeout())
	defer cancel()

	ch := make(chan funnelResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- funnelResult{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		items, err := f.GetCandidates(fctx, rctx)
		ch <- funnelResult{items: items, err: err}
	}()

	select {
	case res := <-ch:
		return res.items, res.err
	case <-fctx.Done():
		return nil, fctx.Err()
	}
}

// sanitize 去掉 nil 和非法 ID，保证来源标记只有本漏斗，并按上限截断。
func sanitize(items []*core.Candidate, funnel string, limit int) []*core.Candidate {
	out := items[:0:0]
	for _, c := range items {
		if c == nil || c.ShopID <= 0 {
			continue
		}
		if len(c.FunnelSources) != 1 || c.FunnelSources[0] != funnel {
			c.FunnelSources = []string{funnel}
		}
		out = append(out, c)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
