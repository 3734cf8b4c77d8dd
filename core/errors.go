package core

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	// ErrConfigMissing 未找到有效的凭据配置
	ErrConfigMissing = errors.New("未找到有效的配置")
	// ErrTypeUnresolved token 前缀 / URL 均无法识别文档类型
	ErrTypeUnresolved = errors.New("无法识别的文档类型")
)

// token 失效相关的业务错误码，命中后重新认证一次并重试原请求
var invalidTokenCodes = map[int]bool{
	99991661: true,
	99991663: true,
	99991664: true,
	99991665: true,
	99991668: true,
}

// 应用限频错误码
const codeRateLimited = 99991400

// APIError 开放平台返回的业务错误，错误码原样透传给用户
type APIError struct {
	Status int
	Code   int
	Msg    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API调用失败: %s (错误码: %d)", e.Msg, e.Code)
}

// AuthExpired token 过期或失效，需要重新认证
func (e *APIError) AuthExpired() bool {
	return e.Status == http.StatusUnauthorized || invalidTokenCodes[e.Code]
}

// Temporary 限频或服务端错误，可退避重试
func (e *APIError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests ||
		e.Status >= http.StatusInternalServerError ||
		e.Code == codeRateLimited
}

// UserMessage 把底层错误翻译为面向用户的提示，凭据绝不出现在文案中
func UserMessage(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}

	switch {
	case apiErr.Status == http.StatusUnauthorized || invalidTokenCodes[apiErr.Code]:
		return fmt.Sprintf("认证失败，请检查凭据 (错误码: %d)", apiErr.Code)
	case apiErr.Status == http.StatusForbidden:
		return fmt.Sprintf("权限不足，请检查应用权限配置 (错误码: %d)", apiErr.Code)
	case apiErr.Status == http.StatusNotFound:
		return fmt.Sprintf("资源未找到 (错误码: %d)", apiErr.Code)
	case apiErr.Temporary():
		return fmt.Sprintf("请求被限频或服务端异常，已重试仍失败 (错误码: %d)", apiErr.Code)
	default:
		return err.Error()
	}
}
