package core

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const docMetaBody = `{"code":0,"msg":"success","data":{"title":"旧文档","create_date":"2024-01-01"}}`

// 有效 token 在多次调用间复用，只认证一次
func TestTokenCachedAcrossCalls(t *testing.T) {
	auth := &authStub{}
	mux := http.NewServeMux()
	auth.install(mux)

	var seenTokens []string
	mux.HandleFunc("/open-apis/doc/v2/meta/doc_abc", func(w http.ResponseWriter, r *http.Request) {
		seenTokens = append(seenTokens, r.Header.Get("Authorization"))
		writeJSON(w, docMetaBody)
	})

	reader := newTestReader(t, mux)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := reader.ReadDoc(ctx, "doc_abc")
		require.NoError(t, err)
	}

	assert.Equal(t, int64(1), auth.calls.Load())
	require.Len(t, seenTokens, 3)
	for _, token := range seenTokens {
		assert.Equal(t, "Bearer t-1", token)
	}
}

// token 失效时恰好重新认证一次，并用新 token 重试原请求
func TestReauthOnInvalidToken(t *testing.T) {
	auth := &authStub{}
	mux := http.NewServeMux()
	auth.install(mux)

	var attempts []string
	mux.HandleFunc("/open-apis/doc/v2/meta/doc_abc", func(w http.ResponseWriter, r *http.Request) {
		attempts = append(attempts, r.Header.Get("Authorization"))
		if len(attempts) == 1 {
			writeJSON(w, `{"code":99991663,"msg":"token invalid"}`)
			return
		}
		writeJSON(w, docMetaBody)
	})

	reader := newTestReader(t, mux)
	result, err := reader.ReadDoc(context.Background(), "doc_abc")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, int64(2), auth.calls.Load())
	require.Len(t, attempts, 2)
	assert.Equal(t, "Bearer t-1", attempts[0])
	assert.Equal(t, "Bearer t-2", attempts[1])
}

// 剩余有效期低于提前刷新阈值的 token 不复用
func TestExpiredTokenRefreshed(t *testing.T) {
	mux := http.NewServeMux()
	var calls int
	mux.HandleFunc("/open-apis/auth/v3/tenant_access_token/internal", func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeJSON(w, fmt.Sprintf(`{"code":0,"msg":"ok","tenant_access_token":"t-%d","expire":60}`, calls))
	})
	mux.HandleFunc("/open-apis/doc/v2/meta/doc_abc", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, docMetaBody)
	})

	reader := newTestReader(t, mux)
	_, err := reader.ReadDoc(context.Background(), "doc_abc")
	require.NoError(t, err)
	_, err = reader.ReadDoc(context.Background(), "doc_abc")
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

// 认证失败透传开放平台错误码，凭据绝不出现在错误信息里
func TestAuthFailureSurfacesVendorCode(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/open-apis/auth/v3/tenant_access_token/internal", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"code":10003,"msg":"invalid app_secret"}`)
	})

	reader := newTestReader(t, mux)
	_, err := reader.ReadDoc(context.Background(), "doc_abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "10003")
	assert.NotContains(t, err.Error(), "test_secret")
}
