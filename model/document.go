package model

import (
	larkbitable "github.com/larksuite/oapi-sdk-go/v3/service/bitable/v1"
	larkdocx "github.com/larksuite/oapi-sdk-go/v3/service/docx/v1"
	larksheets "github.com/larksuite/oapi-sdk-go/v3/service/sheets/v3"
	larkwiki "github.com/larksuite/oapi-sdk-go/v3/service/wiki/v2"
)

// Meta 单文档读取结果的元信息
type Meta struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// Result 各类型读取结果的统一出口
// Text 返回纯文本投影，没有投影的类型返回空串（输出时回退为 JSON）
type Result interface {
	SetMeta(m *Meta)
	Text() string
}

// DocxResult 新版文档：文档信息 + 全部 blocks + 纯文本投影
type DocxResult struct {
	Document    *larkdocx.Document `json:"document"`
	Blocks      []*larkdocx.Block  `json:"blocks"`
	TextContent string             `json:"text_content"`
	Meta        *Meta              `json:"_meta,omitempty"`
}

func (r *DocxResult) SetMeta(m *Meta) { r.Meta = m }
func (r *DocxResult) Text() string    { return r.TextContent }

// DocResult 旧版文档：仅元数据
type DocResult struct {
	Document map[string]interface{} `json:"document"`
	Note     string                 `json:"note,omitempty"`
	Meta     *Meta                  `json:"_meta,omitempty"`
}

func (r *DocResult) SetMeta(m *Meta) { r.Meta = m }
func (r *DocResult) Text() string    { return "" }

// SpreadsheetMeta 电子表格概要
type SpreadsheetMeta struct {
	Title      string `json:"title"`
	OwnerID    string `json:"owner_id"`
	SheetCount int    `json:"sheet_count"`
}

// SheetData 单个工作表：属性 + 单元格值，读取失败时记录错误不中断
type SheetData struct {
	SheetID    string            `json:"sheet_id"`
	Title      string            `json:"title"`
	Properties *larksheets.Sheet `json:"properties,omitempty"`
	Values     [][]interface{}   `json:"values,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// SheetResult 电子表格读取结果
type SheetResult struct {
	Spreadsheet SpreadsheetMeta `json:"spreadsheet"`
	Sheets      []SheetData     `json:"sheets"`
	Meta        *Meta           `json:"_meta,omitempty"`
}

func (r *SheetResult) SetMeta(m *Meta) { r.Meta = m }
func (r *SheetResult) Text() string    { return "" }

// TableContent 多维表格中单个数据表的字段与记录
type TableContent struct {
	TableID     string                              `json:"table_id"`
	Name        string                              `json:"name"`
	Fields      []*larkbitable.AppTableFieldForList `json:"fields,omitempty"`
	Records     []*larkbitable.AppTableRecord       `json:"records,omitempty"`
	RecordCount int                                 `json:"record_count"`
	Error       string                              `json:"error,omitempty"`
}

// BitableResult 多维表格读取结果
type BitableResult struct {
	App        *larkbitable.DisplayApp `json:"app"`
	Tables     []TableContent          `json:"tables"`
	TableCount int                     `json:"table_count"`
	Meta       *Meta                   `json:"_meta,omitempty"`
}

func (r *BitableResult) SetMeta(m *Meta) { r.Meta = m }
func (r *BitableResult) Text() string    { return "" }

// WikiResult 单个知识库节点：节点信息 + 按 obj_type 读取的实际内容 + 子节点列表
type WikiResult struct {
	Node     *larkwiki.Node   `json:"node"`
	Content  interface{}      `json:"content,omitempty"`
	Children []*larkwiki.Node `json:"children,omitempty"`
	Meta     *Meta            `json:"_meta,omitempty"`
}

func (r *WikiResult) SetMeta(m *Meta) { r.Meta = m }

// 知识库节点的文本投影委托给内层文档内容
func (r *WikiResult) Text() string {
	if c, ok := r.Content.(Result); ok {
		return c.Text()
	}
	return ""
}

// WikiNode 知识空间递归读取时的节点包装，挂载内容与子节点
type WikiNode struct {
	*larkwiki.Node
	Content       interface{} `json:"content,omitempty"`
	ContentError  string      `json:"content_error,omitempty"`
	Children      []*WikiNode `json:"children,omitempty"`
	ChildrenError string      `json:"children_error,omitempty"`
}

// WikiSpaceResult 整个知识空间的读取结果
type WikiSpaceResult struct {
	Space     *larkwiki.Space `json:"space"`
	Nodes     []*WikiNode     `json:"nodes"`
	NodeCount int             `json:"node_count"`
}

func (r *WikiSpaceResult) SetMeta(m *Meta) {}
func (r *WikiSpaceResult) Text() string    { return "" }

// ErrorContent 知识库节点内容读取失败时的占位内容
type ErrorContent struct {
	Error string `json:"error"`
}

// NoteContent 暂不支持的 obj_type 的占位内容
type NoteContent struct {
	Note string `json:"note"`
}
