package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/catalog"
)

// httpServer 是 *http.Server 的生命周期方法。
type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// httpService 把 HTTP 服务包装成受监管的 suture.Service。
type httpService struct {
	server          httpServer
	shutdownTimeout time.Duration
}

func (s *httpService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

func (s *httpService) String() string { return "http-server" }

// reloader 是 engine.Engine 的重载能力。
type reloader interface {
	Reload(ctx context.Context, loader catalog.Loader) (*catalog.LoadReport, error)
}

// reloadService 周期性重载目录，失败时旧索引继续服务。
type reloadService struct {
	target reloader
	loader catalog.Loader
	every  time.Duration
	logger zerolog.Logger
}

func (s *reloadService) Serve(ctx context.Context) error {
	t := time.NewTicker(s.every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if _, err := s.target.Reload(ctx, s.loader); err != nil {
				s.logger.Debug().Err(err).Msg("periodic reload skipped")
			}
		}
	}
}

func (s *reloadService) String() string { return "catalog-reload" }

// supervisor 创建根监管树，事件写入 zerolog。
func supervisor(logger zerolog.Logger, shutdownTimeout time.Duration) *suture.Supervisor {
	return suture.New("foodrec", suture.Spec{
		EventHook: func(e suture.Event) {
			logger.Warn().Fields(e.Map()).Msg(e.String())
		},
		Timeout: shutdownTimeout,
	})
}
