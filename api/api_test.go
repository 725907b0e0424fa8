package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/catalog"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/engine"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/metrics"
)

func testCatalog(version string) *catalog.Catalog {
	return &catalog.Catalog{
		Version: version,
		Shops: []core.Shop{
			{ID: 1, Name: "한그릇", Category: "한식", District: "강남구", GoodInfluence: true},
			{ID: 2, Name: "떡볶이", Category: "분식", District: "강남구"},
		},
		Menus: []core.Menu{
			{ShopID: 1, Name: "김치찌개", Price: 7000},
			{ShopID: 2, Name: "떡볶이", Price: 4000},
		},
	}
}

func newTestServer(t *testing.T, opts ...Option) (*httptest.Server, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	e, err := engine.New(engine.DefaultConfig(),
		catalog.NewHolder(catalog.NewIndex(testCatalog("v1"))),
		engine.WithMetrics(metrics.NewPrometheus(reg)))
	if err != nil {
		t.Fatal(err)
	}
	opts = append([]Option{WithGatherer(reg)}, opts...)
	ts := httptest.NewServer(NewServer(e, opts...).Router())
	t.Cleanup(ts.Close)
	return ts, reg
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRecommendEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		check  func(t *testing.T, r engine.Response)
	}{
		{
			name:   "ok",
			body:   `{"user_id":"u1","location":"강남구","time":"2024-06-03T12:00:00Z","top_k":1}`,
			status: http.StatusOK,
			check: func(t *testing.T, r engine.Response) {
				if len(r.Recommendations) != 1 || r.Metadata.CatalogVersion != "v1" {
					t.Fatalf("resp = %+v", r)
				}
			},
		},
		{
			name:   "empty result",
			body:   `{"filters":{"category":"양식"}}`,
			status: http.StatusOK,
			check: func(t *testing.T, r engine.Response) {
				if !r.Metadata.EmptyResult || r.Metadata.ErrorOccurred {
					t.Fatalf("metadata = %+v", r.Metadata)
				}
			},
		},
		{name: "bad json", body: `{"user_id":`, status: http.StatusBadRequest},
		{name: "bad time of day", body: `{"time_of_day":"midnight"}`, status: http.StatusBadRequest},
		{name: "negative top_k", body: `{"top_k":-1}`, status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/v1/recommendations", tt.body)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.check == nil {
				return
			}
			var r engine.Response
			if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
				t.Fatal(err)
			}
			tt.check(t, r)
		})
	}
}

func TestReloadEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	if resp := post(t, ts.URL+"/v1/catalog/reload", ""); resp.StatusCode != http.StatusNotImplemented {
		t.Fatalf("no loader status = %d", resp.StatusCode)
	}

	ts, _ = newTestServer(t, WithLoader(&catalog.StaticLoader{Catalog: testCatalog("v2")}))
	resp := post(t, ts.URL+"/v1/catalog/reload", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var report catalog.LoadReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatal(err)
	}
	if report.Version != "v2" || report.Shops != 2 {
		t.Fatalf("report = %+v", report)
	}

	ts, _ = newTestServer(t, WithLoader(&catalog.StaticLoader{}))
	if resp := post(t, ts.URL+"/v1/catalog/reload", ""); resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("failed reload status = %d", resp.StatusCode)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	ts, _ := newTestServer(t)
	post(t, ts.URL+"/v1/recommendations", `{}`)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var h healthBody
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		t.Fatal(err)
	}
	if h.Status != "ok" || h.Shops != 2 || h.CatalogVersion != "v1" {
		t.Fatalf("health = %+v", h)
	}

	resp, err = http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	buf := new(strings.Builder)
	if _, err := io.Copy(buf, resp.Body); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "foodrec_requests_total") {
		t.Fatalf("metrics output missing request counter")
	}
}

func TestRateLimitAndCORS(t *testing.T) {
	ts, _ := newTestServer(t, WithRateLimit(2), WithCORS([]string{"https://chat.example.com"}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, post(t, ts.URL+"/v1/recommendations", `{}`).StatusCode)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/v1/recommendations", nil)
	req.Header.Set("Origin", "https://chat.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://chat.example.com" {
		t.Fatalf("allow origin = %q", got)
	}
}
