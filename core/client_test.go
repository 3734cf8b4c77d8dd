package core

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 服务端错误退避重试，重试后成功不向上抛错
func TestTransientErrorRetried(t *testing.T) {
	auth := &authStub{}
	mux := http.NewServeMux()
	auth.install(mux)

	var calls int
	mux.HandleFunc("/open-apis/doc/v2/meta/doc_abc", func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(w, docMetaBody)
	})

	reader := newTestReader(t, mux)
	result, err := reader.ReadDoc(context.Background(), "doc_abc")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 2, calls)
}

// 限频按退避重试
func TestRateLimitRetried(t *testing.T) {
	auth := &authStub{}
	mux := http.NewServeMux()
	auth.install(mux)

	var calls int
	mux.HandleFunc("/open-apis/doc/v2/meta/doc_abc", func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusTooManyRequests)
			writeJSON(w, `{"code":99991400,"msg":"rate limited"}`)
			return
		}
		writeJSON(w, docMetaBody)
	})

	reader := newTestReader(t, mux)
	_, err := reader.ReadDoc(context.Background(), "doc_abc")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

// 普通 4xx 业务错误不重试
func TestPermanentErrorNotRetried(t *testing.T) {
	auth := &authStub{}
	mux := http.NewServeMux()
	auth.install(mux)

	var calls int
	mux.HandleFunc("/open-apis/docx/v1/documents/doxcnAbc", func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusForbidden)
		writeJSON(w, `{"code":91403,"msg":"forbidden"}`)
	})

	reader := newTestReader(t, mux)
	_, err := reader.ReadDocx(context.Background(), "doxcnAbc")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, UserMessage(err), "权限不足")
}
