package foodcard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
)

func TestStatic(t *testing.T) {
	s := Static{"u1": 5000}
	if v, ok := s.CheckBalance(context.Background(), "u1"); !ok || v != 5000 {
		t.Fatalf("u1 = %d,%v", v, ok)
	}
	if _, ok := s.CheckBalance(context.Background(), "u2"); ok {
		t.Fatal("u2 should be unknown")
	}
}

func TestHTTPChecker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/balances/u1":
			_, _ = w.Write([]byte(`{"user_id":"u1","balance":12000}`))
		case "/balances/empty":
			_, _ = w.Write([]byte(`{"user_id":"empty"}`))
		case "/balances/broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := &HTTPChecker{BaseURL: srv.URL + "/", Client: srv.Client()}
	tests := []struct {
		user string
		want int
		ok   bool
	}{
		{"u1", 12000, true},
		{"empty", 0, false},
		{"broken", 0, false},
		{"nobody", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.user, func(t *testing.T) {
			v, ok := c.CheckBalance(context.Background(), tt.user)
			if v != tt.want || ok != tt.ok {
				t.Fatalf("CheckBalance = %d,%v want %d,%v", v, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestBreakerOpens(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path == "/balances/nocard" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := DefaultBreakerConfig()
	cfg.MinRequests = 3
	cfg.FailureRatio = 0.5
	cfg.Timeout = time.Hour
	cfg.CallTimeout = time.Second
	b := NewBreaker("test", &HTTPChecker{BaseURL: srv.URL, Client: srv.Client()}, cfg, nil, zerolog.Nop())

	// "没有饭卡" 不计为失败
	for i := 0; i < 5; i++ {
		if _, ok := b.CheckBalance(context.Background(), "nocard"); ok {
			t.Fatal("nocard should be unknown")
		}
	}
	if b.State() != gobreaker.StateClosed {
		t.Fatalf("state after 404s = %v", b.State())
	}

	for i := 0; i < 10; i++ {
		b.CheckBalance(context.Background(), "u1")
	}
	if b.State() != gobreaker.StateOpen {
		t.Fatalf("state = %v, want open", b.State())
	}
	before := hits.Load()
	if _, ok := b.CheckBalance(context.Background(), "u1"); ok {
		t.Fatal("open breaker must report unknown")
	}
	if hits.Load() != before {
		t.Fatal("open breaker still called the service")
	}
	if _, ok := b.CheckBalance(context.Background(), ""); ok {
		t.Fatal("empty user id")
	}
}
