// Command foodrec 启动推荐 HTTP 服务。
//
//	foodrec -config /etc/foodrec/config.yaml -env-file .env
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/config"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/pkg/logging"
)

func main() {
	path := flag.String("config", "", "config file path (yaml)")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before FOODREC_* variables are read")
	flag.Parse()

	boot := logging.New("info", "json")
	if err := loadEnvFile(*envFile); err != nil {
		boot.Fatal().Err(err).Str("file", *envFile).Msg("load env file")
	}
	cfg, err := config.Load(*path)
	if err != nil {
		boot.Fatal().Err(err).Msg("load config")
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("foodrec exited")
	}
}

// loadEnvFile 文件不存在时忽略；已有的环境变量不会被覆盖。
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a, err := build(ctx, cfg, reg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	sup := supervisor(logger, cfg.Server.ShutdownTimeout)
	sup.Add(&httpService{
		server: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      a.server.Router(),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		shutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if a.loader != nil && cfg.Catalog.ReloadInterval > 0 {
		sup.Add(&reloadService{target: a.engine, loader: a.loader, every: cfg.Catalog.ReloadInterval, logger: logger})
	}

	logger.Info().
		Str("addr", cfg.Server.Addr).
		Str("ranking_method", a.engine.RankingMethod()).
		Int("shops", a.engine.Catalog().Current().Len()).
		Msg("foodrec starting")
	err = sup.Serve(ctx)
	logger.Info().Msg("foodrec stopped")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
