// Package api 把推荐引擎暴露为 HTTP 服务（chi 路由）。
//
//	POST /v1/recommendations  推荐
//	POST /v1/catalog/reload   重载目录
//	GET  /healthz             健康检查
//	GET  /metrics             Prometheus 指标
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/catalog"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/engine"
)

// Server 持有 handler 依赖。
type Server struct {
	engine         *engine.Engine
	loader         catalog.Loader
	gatherer       prometheus.Gatherer
	requestTimeout time.Duration
	corsOrigins    []string
	rateLimit      int
	validate       *validator.Validate
	logger         zerolog.Logger
}

// Option 配置 Server。
type Option func(*Server)

// WithLoader 启用 /v1/catalog/reload。
func WithLoader(l catalog.Loader) Option {
	return func(s *Server) { s.loader = l }
}

// WithGatherer 启用 /metrics。
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithRequestTimeout 单个推荐请求的超时，<=0 表示不限制。
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) { s.requestTimeout = d }
}

// WithCORS 允许跨域访问的来源，为空时不加 CORS 头。
func WithCORS(origins []string) Option {
	return func(s *Server) { s.corsOrigins = origins }
}

// WithRateLimit 按客户端 IP 每分钟最多 n 个推荐请求，<=0 表示不限。
func WithRateLimit(n int) Option {
	return func(s *Server) { s.rateLimit = n }
}

// WithLogger 设置 logger。
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer 创建 Server。
func NewServer(e *engine.Engine, opts ...Option) *Server {
	s := &Server{
		engine:   e,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("component", "api").Logger()
	return s
}

// Router 返回路由。
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.accessLog)
	r.Use(chimiddleware.Recoverer)
	if len(s.corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", s.health)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	r.Route("/v1", func(r chi.Router) {
		if s.rateLimit > 0 {
			r.With(httprate.LimitByIP(s.rateLimit, time.Minute)).Post("/recommendations", s.recommend)
		} else {
			r.Post("/recommendations", s.recommend)
		}
		r.Post("/catalog/reload", s.reload)
	})
	return r
}

// accessLog 每个请求一条 Debug 日志。
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug().
			Str("http_request_id", chimiddleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	})
}
