package core

import (
	"net/url"
	"strings"

	"lark_reader/model"

	"github.com/pkg/errors"
)

// token 前缀到文档类型的映射，按顺序匹配（README 中有对应说明）
var tokenPrefixes = []struct {
	prefix  string
	docType string
}{
	{"docx_", model.TypeDocx},
	{"doc_", model.TypeDoc},
	{"sheet_", model.TypeSheet},
	{"shtcn", model.TypeSheet},
	{"bascn", model.TypeBitable},
	{"base", model.TypeBitable},
	{"wikcn", model.TypeWiki},
}

// URL 路径段到文档类型的映射
// 常见格式: https://xxx.feishu.cn/docx/DOC_TOKEN
var urlSegments = map[string]string{
	"docx":   model.TypeDocx,
	"doc":    model.TypeDoc,
	"docs":   model.TypeDoc,
	"sheets": model.TypeSheet,
	"base":   model.TypeBitable,
	"wiki":   model.TypeWiki,
}

// ResolveType 解析文档类型并提取 token，不发起任何网络请求
// override 非空时强制使用指定类型，URL 仍会提取 token
func ResolveType(tokenOrURL, override string) (docType, token string, err error) {
	token = tokenOrURL
	var segType string
	if strings.HasPrefix(tokenOrURL, "http://") || strings.HasPrefix(tokenOrURL, "https://") {
		token, segType, err = extractToken(tokenOrURL)
		if err != nil {
			return "", "", err
		}
	}

	if override != "" {
		return override, token, nil
	}
	if segType != "" {
		return segType, token, nil
	}

	for _, p := range tokenPrefixes {
		if strings.HasPrefix(token, p.prefix) {
			return p.docType, token, nil
		}
	}

	// 识别不了就报错，不猜测类型
	return "", "", errors.Wrapf(ErrTypeUnresolved, "token: %s", token)
}

// extractToken 从飞书 URL 中提取文档 token 与路径段指示的类型
func extractToken(rawURL string) (token, segType string, err error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", "", errors.Wrapf(ErrTypeUnresolved, "URL 解析失败: %v", err)
	}

	parts := strings.Split(parsed.Path, "/")
	for i, part := range parts {
		docType, ok := urlSegments[part]
		if ok && i+1 < len(parts) && parts[i+1] != "" {
			return parts[i+1], docType, nil
		}
	}

	// 找不到已知路径段时取最后一个非空段，类型交给前缀表判断
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] != "" {
			return parts[i], "", nil
		}
	}
	return "", "", errors.Wrapf(ErrTypeUnresolved, "URL 中没有 token: %s", rawURL)
}
