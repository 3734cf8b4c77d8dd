package core

import (
	"context"
	"net/http"
	"time"

	"lark_reader/model"

	jsoniter "github.com/json-iterator/go"
	lark "github.com/larksuite/oapi-sdk-go/v3"
	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrMalformedResponse 响应体不是预期的 JSON 结构，不重试
var ErrMalformedResponse = errors.New("响应解析失败")

// Reader 统一文档读取器，支持 docx / doc / sheet / bitable / wiki
type Reader struct {
	client *lark.Client
	tokens *TokenManager
	log    *zap.SugaredLogger
}

type readerOptions struct {
	baseURL string
	cache   TokenCache
	log     *zap.SugaredLogger
}

type Option func(*readerOptions)

// WithBaseURL 覆盖开放平台地址，测试时指向 mock 服务
func WithBaseURL(baseURL string) Option {
	return func(o *readerOptions) { o.baseURL = baseURL }
}

// WithTokenCache 覆盖配置推导出的 token 缓存后端
func WithTokenCache(cache TokenCache) Option {
	return func(o *readerOptions) { o.cache = cache }
}

func WithLogger(log *zap.SugaredLogger) Option {
	return func(o *readerOptions) { o.log = log }
}

// NewReader 按配置构建读取器
// 缓存后端优先级：Redis > 本地文件 > 进程内存
func NewReader(cfg *model.Config, opts ...Option) *Reader {
	o := &readerOptions{
		baseURL: model.BaseURL,
		log:     zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.cache == nil {
		switch {
		case cfg.RedisAddress != "":
			o.cache = NewRedisCache(cfg.RedisAddress, cfg.RedisPassword)
		case cfg.TokenCacheFile != "":
			o.cache = NewFileCache(cfg.TokenCacheFile)
		default:
			o.cache = NewMemoryCache()
		}
	}

	client := lark.NewClient(cfg.AppID, cfg.AppSecret,
		lark.WithOpenBaseUrl(o.baseURL),
		lark.WithEnableTokenCache(false),
		lark.WithReqTimeout(30*time.Second),
	)

	return &Reader{
		client: client,
		tokens: newTokenManager(cfg.AppID, cfg.AppSecret, client, o.cache, o.log),
		log:    o.log,
	}
}

// Read 统一读取入口：解析类型后分发给对应的读取方法
// docType 非空时跳过自动检测（URL 仍会提取 token）
func (r *Reader) Read(ctx context.Context, tokenOrURL, docType string) (model.Result, error) {
	resolvedType, token, err := ResolveType(tokenOrURL, docType)
	if err != nil {
		return nil, err
	}
	r.log.Infof("读取文档: type=%s, token=%s", resolvedType, token)

	var res model.Result
	switch resolvedType {
	case model.TypeDocx:
		res, err = r.ReadDocx(ctx, token)
	case model.TypeDoc:
		res, err = r.ReadDoc(ctx, token)
	case model.TypeSheet:
		res, err = r.ReadSheet(ctx, token)
	case model.TypeBitable:
		res, err = r.ReadBitable(ctx, token)
	case model.TypeWiki:
		res, err = r.ReadWiki(ctx, token)
	default:
		return nil, errors.Wrapf(ErrTypeUnresolved, "不支持的文档类型: %s", resolvedType)
	}
	if err != nil {
		return nil, err
	}

	res.SetMeta(&model.Meta{Type: resolvedType, Token: token})
	return res, nil
}

// call 统一请求出口：补齐租户 token，token 失效时重新认证一次，
// 网络抖动 / 限频 / 服务端错误按退避重试
func (r *Reader) call(ctx context.Context, action string, fn func(opt larkcore.RequestOptionFunc) error) error {
	var reauthed bool
	backoff := model.RetryBackoff

	for attempt := 0; ; attempt++ {
		token, err := r.tokens.Token(ctx)
		if err != nil {
			return err
		}

		err = fn(larkcore.WithTenantAccessToken(token))
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrMalformedResponse) {
			return errors.Wrap(err, action)
		}

		var apiErr *APIError
		if errors.As(err, &apiErr) {
			if apiErr.AuthExpired() && !reauthed {
				reauthed = true
				r.log.Warnf("访问令牌失效，重新认证后重试: %s", action)
				r.tokens.Invalidate(ctx)
				continue
			}
			if !apiErr.Temporary() {
				return errors.Wrap(err, action)
			}
		}

		if attempt >= model.MaxRetries {
			return errors.Wrap(err, action)
		}
		r.log.Warnf("%s 失败，%v 后重试: %v", action, backoff, err)
		if err = sleepBackoff(ctx, backoff); err != nil {
			return err
		}
		backoff *= 2
	}
}

// getJSON 原生 GET，用于没有 typed service 覆盖的接口
func (r *Reader) getJSON(ctx context.Context, action, apiPath string, out interface{}) error {
	return r.call(ctx, action, func(opt larkcore.RequestOptionFunc) error {
		resp, err := r.client.Get(ctx, apiPath, nil, larkcore.AccessTokenTypeTenant, opt)
		if err != nil {
			return err
		}

		base := &model.BaseResponse{}
		if err = jsoniter.Unmarshal(resp.RawBody, base); err != nil {
			if resp.StatusCode >= http.StatusBadRequest {
				return &APIError{Status: resp.StatusCode, Msg: http.StatusText(resp.StatusCode)}
			}
			return errors.Wrapf(ErrMalformedResponse, "%v", err)
		}
		if base.Code != 0 {
			return &APIError{Status: resp.StatusCode, Code: base.Code, Msg: base.Msg}
		}
		if err = jsoniter.Unmarshal(resp.RawBody, out); err != nil {
			return errors.Wrapf(ErrMalformedResponse, "%v", err)
		}
		return nil
	})
}

// apiError 从 typed 响应的状态与错误码构造业务错误
func apiError(resp *larkcore.ApiResp, code int, msg string) *APIError {
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	return &APIError{Status: status, Code: code, Msg: msg}
}

func sleepBackoff(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func intVal(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func boolVal(p *bool) bool {
	if p == nil {
		return false
	}
	return *p
}
