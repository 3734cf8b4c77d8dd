package model

// 群通知用的卡片 2.0 结构（表格卡片没有 SDK builder，手工拼 JSON）

type Card struct {
	Schema string     `json:"schema"`
	Config CardConfig `json:"config"`
	Body   Body       `json:"body"`
	Header Header     `json:"header"`
}

type CardConfig struct {
	UpdateMulti bool `json:"update_multi"`
}

type Body struct {
	Direction string    `json:"direction"`
	Padding   string    `json:"padding"`
	Elements  []Element `json:"elements"`
}

type Element struct {
	Tag         string      `json:"tag"`
	Columns     []Column    `json:"columns"`
	Rows        []Row       `json:"rows"`
	RowHeight   string      `json:"row_height"`
	HeaderStyle HeaderStyle `json:"header_style"`
	PageSize    int         `json:"page_size"`
	Margin      string      `json:"margin"`
}

// Row 失败节点表格行：节点标题 + 失败原因
type Row struct {
	NodeTitle string `json:"node_title"`
	Reason    string `json:"reason"`
}

type Column struct {
	DataType        string `json:"data_type"`
	Name            string `json:"name"`
	DisplayName     string `json:"display_name"`
	HorizontalAlign string `json:"horizontal_align"`
	Width           string `json:"width"`
}

type HeaderStyle struct {
	BackgroundStyle string `json:"background_style"`
	Bold            bool   `json:"bold"`
	Lines           int    `json:"lines"`
}

type Header struct {
	Title    Title  `json:"title"`
	Subtitle Title  `json:"subtitle"`
	Template string `json:"template"`
	Padding  string `json:"padding"`
}

type Title struct {
	Tag     string `json:"tag"`
	Content string `json:"content"`
}

// FailedNode 知识空间读取中内容加载失败的节点
type FailedNode struct {
	Title  string `json:"title"`
	Token  string `json:"token"`
	Reason string `json:"reason"`
}
