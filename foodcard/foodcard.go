// Package foodcard 是饭卡余额服务的客户端。该服务是可选的外部协作方：
// 查询失败、超时或熔断都只会让余额变成"未知"，不会影响排序。
package foodcard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/metrics"
)

// BalanceChecker 查询用户的饭卡余额，ok=false 表示余额未知。
type BalanceChecker interface {
	CheckBalance(ctx context.Context, userID string) (amount int, ok bool)
}

// Static 固定余额表，测试与离线环境使用。
type Static map[string]int

func (s Static) CheckBalance(_ context.Context, userID string) (int, bool) {
	v, ok := s[userID]
	return v, ok
}

// HTTPChecker 通过 HTTP 查询余额：GET {BaseURL}/balances/{userID}，
// 响应 {"user_id": "...", "balance": 12000}。
type HTTPChecker struct {
	BaseURL string
	Client  *http.Client
}

// ErrNoBalance 服务明确表示该用户没有饭卡。
var ErrNoBalance = errors.New("foodcard: no balance for user")

type balanceResponse struct {
	UserID  string `json:"user_id"`
	Balance *int   `json:"balance"`
}

// Fetch 执行一次查询并返回底层错误，供熔断器统计。
func (c *HTTPChecker) Fetch(ctx context.Context, userID string) (int, error) {
	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	endpoint := strings.TrimRight(c.BaseURL, "/") + "/balances/" + url.PathEscape(userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("build balance request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("balance request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return 0, ErrNoBalance
	case resp.StatusCode != http.StatusOK:
		return 0, fmt.Errorf("balance request: status %d", resp.StatusCode)
	}
	var body balanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode balance: %w", err)
	}
	if body.Balance == nil {
		return 0, ErrNoBalance
	}
	return *body.Balance, nil
}

func (c *HTTPChecker) CheckBalance(ctx context.Context, userID string) (int, bool) {
	v, err := c.Fetch(ctx, userID)
	return v, err == nil
}

// fetcher 是能返回错误的余额来源。
type fetcher interface {
	Fetch(ctx context.Context, userID string) (int, error)
}

// BreakerConfig 熔断参数。
type BreakerConfig struct {
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio" validate:"gte=0,lte=1"`
	CallTimeout  time.Duration `koanf:"call_timeout"`
}

// DefaultBreakerConfig 半开时放行 3 个请求，1 分钟统计窗口，
// 至少 10 个请求且失败率 ≥60% 时打开，30 秒后尝试恢复。
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  10,
		FailureRatio: 0.6,
		CallTimeout:  50 * time.Millisecond,
	}
}

// Breaker 用熔断器包装余额来源。
type Breaker struct {
	src         fetcher
	cb          *gobreaker.CircuitBreaker[int]
	callTimeout time.Duration
	logger      zerolog.Logger
}

// NewBreaker 创建带熔断的余额查询。"没有饭卡"不计为失败。
func NewBreaker(name string, src fetcher, cfg BreakerConfig, sink metrics.Sink, logger zerolog.Logger) *Breaker {
	if sink == nil {
		sink = metrics.Nop{}
	}
	logger = logger.With().Str("component", "foodcard").Str("breaker", name).Logger()
	sink.BreakerStateChanged(name, stateValue(gobreaker.StateClosed))

	cb := gobreaker.NewCircuitBreaker[int](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info().Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state transition")
			sink.BreakerStateChanged(name, stateValue(to))
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNoBalance)
		},
	})
	return &Breaker{src: src, cb: cb, callTimeout: cfg.CallTimeout, logger: logger}
}

func (b *Breaker) CheckBalance(ctx context.Context, userID string) (int, bool) {
	if userID == "" {
		return 0, false
	}
	if b.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.callTimeout)
		defer cancel()
	}
	v, err := b.cb.Execute(func() (int, error) {
		return b.src.Fetch(ctx, userID)
	})
	if err != nil {
		if !errors.Is(err, ErrNoBalance) {
			b.logger.Debug().Err(err).Str("user_id", userID).Msg("balance unavailable")
		}
		return 0, false
	}
	return v, true
}

// State 当前熔断状态。
func (b *Breaker) State() gobreaker.State { return b.cb.State() }

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
