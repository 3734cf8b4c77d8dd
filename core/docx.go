package core

import (
	"context"
	"fmt"
	"strings"

	"lark_reader/model"

	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	larkdocx "github.com/larksuite/oapi-sdk-go/v3/service/docx/v1"
)

// 新版文档的 block_type 常量（开放平台定义）
const (
	blockTypePage     = 1
	blockTypeText     = 2
	blockTypeHeading1 = 3
	blockTypeHeading9 = 11
	blockTypeBullet   = 12
	blockTypeOrdered  = 13
	blockTypeCode     = 14
	blockTypeQuote    = 15
	blockTypeImage    = 27
	blockTypeTable    = 31
)

// ReadDocx 读取新版文档：文档信息 + 全部 blocks + 纯文本投影
func (r *Reader) ReadDocx(ctx context.Context, token string) (*model.DocxResult, error) {
	var docResp *larkdocx.GetDocumentResp
	err := r.call(ctx, "获取文档信息失败", func(opt larkcore.RequestOptionFunc) error {
		req := larkdocx.NewGetDocumentReqBuilder().
			DocumentId(token).
			Build()

		resp, err := r.client.Docx.V1.Document.Get(ctx, req, opt)
		if err != nil {
			return err
		}
		if !resp.Success() {
			return apiError(resp.ApiResp, resp.Code, resp.Msg)
		}
		docResp = resp
		return nil
	})
	if err != nil {
		return nil, err
	}

	blocks, err := r.listAllBlocks(ctx, token)
	if err != nil {
		return nil, err
	}

	return &model.DocxResult{
		Document:    docResp.Data.Document,
		Blocks:      blocks,
		TextContent: ExtractText(blocks),
	}, nil
}

// listAllBlocks 拉取文档全部 blocks，翻页直到 has_more 为 false
func (r *Reader) listAllBlocks(ctx context.Context, token string) ([]*larkdocx.Block, error) {
	var (
		blocks    []*larkdocx.Block
		pageToken string
	)

	for {
		var resp *larkdocx.ListDocumentBlockResp
		err := r.call(ctx, "获取文档块失败", func(opt larkcore.RequestOptionFunc) error {
			builder := larkdocx.NewListDocumentBlockReqBuilder().
				DocumentId(token).
				PageSize(model.BlockPageSize)
			if pageToken != "" {
				builder.PageToken(pageToken)
			}

			got, err := r.client.Docx.V1.DocumentBlock.List(ctx, builder.Build(), opt)
			if err != nil {
				return err
			}
			if !got.Success() {
				return apiError(got.ApiResp, got.Code, got.Msg)
			}
			resp = got
			return nil
		})
		if err != nil {
			return nil, err
		}

		blocks = append(blocks, resp.Data.Items...)
		if !boolVal(resp.Data.HasMore) {
			break
		}
		pageToken = strVal(resp.Data.PageToken)
	}

	return blocks, nil
}

// ExtractText 按文档顺序把携带文本的 blocks 拼成纯文本投影
// 标题加 Markdown 风格前缀，图片和表格用占位符
func ExtractText(blocks []*larkdocx.Block) string {
	var parts []string

	for _, block := range blocks {
		if block == nil || block.BlockType == nil {
			continue
		}
		blockType := *block.BlockType

		switch {
		case blockType == blockTypeText:
			appendText(&parts, "", textOf(block, block.Text))
		case blockType >= blockTypeHeading1 && blockType <= blockTypeHeading9:
			level := blockType - blockTypeHeading1 + 1
			appendText(&parts, strings.Repeat("#", level)+" ", textOf(block, headingOf(block, level)))
		case blockType == blockTypeBullet:
			appendText(&parts, "- ", textOf(block, block.Bullet))
		case blockType == blockTypeOrdered:
			appendText(&parts, "1. ", textOf(block, block.Ordered))
		case blockType == blockTypeQuote:
			appendText(&parts, "> ", textOf(block, block.Quote))
		case blockType == blockTypeCode:
			if text := textOf(block, block.Code); text != "" {
				parts = append(parts, fmt.Sprintf("```\n%s\n```", text))
			}
		case blockType == blockTypeImage:
			parts = append(parts, "[图片]")
		case blockType == blockTypeTable:
			parts = append(parts, "[表格]")
		}
	}

	return strings.Join(parts, "\n")
}

func appendText(parts *[]string, prefix, text string) {
	if text != "" {
		*parts = append(*parts, prefix+text)
	}
}

// textOf 取对应类型的文本体，缺失时兜底用 block.Text
func textOf(block *larkdocx.Block, text *larkdocx.Text) string {
	if text == nil {
		text = block.Text
	}
	if text == nil {
		return ""
	}
	return elementsText(text.Elements)
}

func headingOf(block *larkdocx.Block, level int) *larkdocx.Text {
	headings := []*larkdocx.Text{
		block.Heading1, block.Heading2, block.Heading3,
		block.Heading4, block.Heading5, block.Heading6,
		block.Heading7, block.Heading8, block.Heading9,
	}
	if level < 1 || level > len(headings) {
		return nil
	}
	return headings[level-1]
}

// elementsText 拼接文本元素，@用户与文档引用转成可读形式
func elementsText(elements []*larkdocx.TextElement) string {
	var b strings.Builder
	for _, element := range elements {
		if element == nil {
			continue
		}
		switch {
		case element.TextRun != nil:
			b.WriteString(strVal(element.TextRun.Content))
		case element.MentionUser != nil:
			b.WriteString(fmt.Sprintf("@%s", strVal(element.MentionUser.UserId)))
		case element.MentionDoc != nil:
			b.WriteString(fmt.Sprintf("[文档: %s]", strVal(element.MentionDoc.Title)))
		}
	}
	return b.String()
}
