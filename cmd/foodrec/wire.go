package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/api"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/catalog"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/config"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/engine"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/feature"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/filter"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/foodcard"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/metrics"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/model"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/recall"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/store"
)

// app 是装配好的服务。
type app struct {
	engine *engine.Engine
	loader catalog.Loader
	store  core.Store
	server *api.Server
}

func (a *app) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// build 按配置装配 store → 目录 → 漏斗 → 特征 → 模型 → 引擎 → HTTP。
func build(ctx context.Context, cfg *config.Config, reg *prometheus.Registry, logger zerolog.Logger) (*app, error) {
	sink := metrics.NewPrometheus(reg)
	a := &app{}

	st, err := openStore(ctx, cfg.Catalog.Store)
	if err != nil {
		return nil, err
	}
	a.store = st

	switch {
	case cfg.Catalog.Path != "":
		a.loader = &catalog.FileLoader{Path: cfg.Catalog.Path}
	case st != nil:
		a.loader = &catalog.StoreLoader{Store: st, KeyPrefix: cfg.Catalog.Store.KeyPrefix}
	}

	holder, err := catalog.Load(ctx, a.loader,
		catalog.WithAttributeWeights(cfg.Bias.CatalogWeights()),
		catalog.WithLogger(logger))
	if a.loader != nil {
		sink.CatalogReloaded(err == nil, holder.Current().Len())
	}
	if err != nil && cfg.Catalog.Strict {
		a.Close()
		return nil, fmt.Errorf("initial catalog load: %w", err)
	}

	regions := catalog.Regions(cfg.Recall.Regions)
	funnels, err := config.BuildFunnels(cfg.Recall.Funnels, holder, regions)
	if err != nil {
		a.Close()
		return nil, err
	}
	builder := feature.NewBuilder(cfg.Feature, regions, cfg.Bias)
	rules, err := model.NewRuleModel(builder.Config().ScoreScale, cfg.Rank.Rules)
	if err != nil {
		a.Close()
		return nil, err
	}

	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithMetrics(sink),
		engine.WithBuilder(builder),
		engine.WithModel(model.Select(cfg.Rank.ModelPath, rules, logger)),
		engine.WithFanout(&recall.Fanout{
			Funnels:  funnels,
			Limits:   cfg.Recall.Limits,
			MaxTotal: cfg.Recall.MaxTotal,
			Timeout:  cfg.Recall.Timeout,
			Logger:   logger.With().Str("component", "recall").Logger(),
		}),
		engine.WithBlacklist(&filter.Blacklist{ShopIDs: cfg.Blacklist.ShopIDs, Store: st, Key: cfg.Blacklist.Key}),
	}
	if cfg.Foodcard.URL != "" {
		src := &foodcard.HTTPChecker{BaseURL: cfg.Foodcard.URL, Client: &http.Client{}}
		opts = append(opts, engine.WithBalanceChecker(
			foodcard.NewBreaker("foodcard", src, cfg.Foodcard.Breaker, sink, logger)))
	}

	ecfg := cfg.Engine
	ecfg.Strict = ecfg.Strict || cfg.Catalog.Strict
	a.engine, err = engine.New(ecfg, holder, opts...)
	if err != nil {
		a.Close()
		return nil, err
	}

	apiOpts := []api.Option{
		api.WithGatherer(reg),
		api.WithLogger(logger),
		api.WithRequestTimeout(cfg.Server.RequestTimeout),
		api.WithCORS(cfg.Server.CORSOrigins),
		api.WithRateLimit(cfg.Server.RateLimit),
	}
	if a.loader != nil {
		apiOpts = append(apiOpts, api.WithLoader(a.loader))
	}
	a.server = api.NewServer(a.engine, apiOpts...)
	return a, nil
}

func openStore(ctx context.Context, cfg config.StoreConfig) (core.Store, error) {
	switch cfg.Type {
	case "memory":
		return store.NewMemoryStore(), nil
	case "redis":
		return store.NewRedisStore(ctx, cfg.Addr, cfg.Password, cfg.DB)
	default:
		return nil, nil
	}
}
