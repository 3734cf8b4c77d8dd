package core

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"lark_reader/model"

	"go.uber.org/zap"
)

// newTestReader 构建指向 mock 开放平台的读取器
func newTestReader(t *testing.T, handler http.Handler) *Reader {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &model.Config{AppID: "cli_test", AppSecret: "test_secret"}
	return NewReader(cfg,
		WithBaseURL(srv.URL),
		WithTokenCache(NewMemoryCache()),
		WithLogger(zap.NewNop().Sugar()),
	)
}

// authStub 计数的租户 token 接口桩，每次下发递增的 token
type authStub struct {
	calls atomic.Int64
}

func (a *authStub) install(mux *http.ServeMux) {
	mux.HandleFunc("/open-apis/auth/v3/tenant_access_token/internal", func(w http.ResponseWriter, r *http.Request) {
		n := a.calls.Add(1)
		writeJSON(w, fmt.Sprintf(`{"code":0,"msg":"ok","tenant_access_token":"t-%d","expire":7200}`, n))
	})
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write([]byte(body))
}
