package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lark_reader/model"

	jsoniter "github.com/json-iterator/go"
	lark "github.com/larksuite/oapi-sdk-go/v3"
	larkauth "github.com/larksuite/oapi-sdk-go/v3/service/auth/v3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// cachedToken 二级缓存中的 token 序列化结构
type cachedToken struct {
	Token    string `json:"tenant_access_token"`
	ExpireAt int64  `json:"expire_at"`
}

// TokenManager 租户 token 的获取与缓存
// 惰性刷新：内存有效则直接返回，其次查二级缓存，最后才请求开放平台
type TokenManager struct {
	appID     string
	appSecret string
	client    *lark.Client
	cache     TokenCache
	log       *zap.SugaredLogger

	mu       sync.Mutex
	token    string
	expireAt time.Time
}

func newTokenManager(appID, appSecret string, client *lark.Client, cache TokenCache, log *zap.SugaredLogger) *TokenManager {
	return &TokenManager{
		appID:     appID,
		appSecret: appSecret,
		client:    client,
		cache:     cache,
		log:       log,
	}
}

func (m *TokenManager) cacheKey() string {
	return fmt.Sprintf("%s:%s", model.TokenCachePrefix, m.appID)
}

// Token 返回当前有效的租户 token，必要时向开放平台换取
func (m *TokenManager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if m.token != "" && now.Before(m.expireAt.Add(-model.TokenExpirySkew)) {
		return m.token, nil
	}

	if value, err := m.cache.Get(ctx, m.cacheKey()); err == nil && value != "" {
		var cached cachedToken
		if err = jsoniter.UnmarshalFromString(value, &cached); err == nil &&
			cached.Token != "" && now.Unix() < cached.ExpireAt-int64(model.TokenExpirySkew/time.Second) {
			m.token = cached.Token
			m.expireAt = time.Unix(cached.ExpireAt, 0)
			return m.token, nil
		}
	}

	return m.fetch(ctx)
}

// Invalidate 丢弃当前 token，下次 Token 调用会重新认证
func (m *TokenManager) Invalidate(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.expireAt = time.Time{}
	if err := m.cache.Del(ctx, m.cacheKey()); err != nil {
		m.log.Warnf("清除 token 缓存失败: %v", err)
	}
}

// fetch 调用方持有 m.mu
func (m *TokenManager) fetch(ctx context.Context) (string, error) {
	req := larkauth.NewInternalTenantAccessTokenReqBuilder().
		Body(larkauth.NewInternalTenantAccessTokenReqBodyBuilder().
			AppId(m.appID).
			AppSecret(m.appSecret).
			Build()).
		Build()

	resp, err := m.client.Auth.V3.TenantAccessToken.Internal(ctx, req)
	if err != nil {
		return "", errors.Wrap(err, "获取访问令牌失败")
	}

	// token 在响应顶层而非 data 内，typed resp 不携带，需要解析原始响应体
	var body model.TenantTokenResponse
	if err = jsoniter.Unmarshal(resp.RawBody, &body); err != nil {
		return "", errors.Wrap(err, "解析访问令牌响应失败")
	}

	if body.Code != 0 {
		return "", errors.Wrap(&APIError{
			Status: resp.StatusCode,
			Code:   body.Code,
			Msg:    body.Msg,
		}, "认证失败")
	}

	m.token = body.TenantAccessToken
	m.expireAt = time.Now().Add(time.Duration(body.Expire) * time.Second)
	m.log.Debugf("成功获取访问令牌，有效期 %d 秒", body.Expire)

	cached, _ := jsoniter.MarshalToString(cachedToken{
		Token:    m.token,
		ExpireAt: m.expireAt.Unix(),
	})
	ttl := time.Until(m.expireAt) - model.TokenExpirySkew
	if ttl > 0 {
		if err = m.cache.Set(ctx, m.cacheKey(), cached, ttl); err != nil {
			m.log.Warnf("写入 token 缓存失败: %v", err)
		}
	}

	return m.token, nil
}
