package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/engine"
)

// maxBodyBytes 推荐请求体上限。
const maxBodyBytes = 1 << 20

var errNoLoader = errors.New("catalog reload is not configured")

type errorBody struct {
	Error string `json:"error"`
}

type healthBody struct {
	Status         string `json:"status"`
	CatalogVersion string `json:"catalog_version,omitempty"`
	Shops          int    `json:"shops"`
	RankingMethod  string `json:"ranking_method"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // 写响应失败无法补救
	w.Write(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: err.Error()})
}

// recommend 解码与校验失败返回 400；引擎的空结果和内部错误都以 200 + 元数据返回。
func (s *Server) recommend(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req engine.Request
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ctx := r.Context()
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}
	writeJSON(w, http.StatusOK, s.engine.Recommend(ctx, req))
}

// reload 失败时旧索引继续服务，返回 500。
func (s *Server) reload(w http.ResponseWriter, r *http.Request) {
	if s.loader == nil {
		writeError(w, http.StatusNotImplemented, errNoLoader)
		return
	}
	report, err := s.engine.Reload(r.Context(), s.loader)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// health 目录为空时报告 degraded，但仍返回 200：空目录是合法状态。
func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	idx := s.engine.Catalog().Current()
	status := "ok"
	if idx.Empty() {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, healthBody{
		Status:         status,
		CatalogVersion: idx.Version(),
		Shops:          idx.Len(),
		RankingMethod:  s.engine.RankingMethod(),
	})
}
