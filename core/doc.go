package core

import (
	"context"
	"fmt"

	"lark_reader/model"
)

// ReadDoc 读取旧版文档，接口只提供元数据
// 元数据接口失败时按新版文档兜底读取（部分旧 token 实际指向 docx）
func (r *Reader) ReadDoc(ctx context.Context, token string) (model.Result, error) {
	var meta model.DocMetaResponse
	apiPath := fmt.Sprintf("/open-apis/doc/v2/meta/%s", token)
	if err := r.getJSON(ctx, "获取旧版文档元数据失败", apiPath, &meta); err != nil {
		r.log.Warnf("读取旧版文档失败，尝试作为新版文档读取: %v", err)
		return r.ReadDocx(ctx, token)
	}

	return &model.DocResult{
		Document: meta.Data,
		Note:     "旧版文档(doc)接口能力有限，建议迁移到新版文档(docx)",
	}, nil
}
