package model

import "time"

const (
	// 飞书开放平台地址
	BaseURL = "https://open.feishu.cn"

	// 租户 token 缓存 Key 前缀
	TokenCachePrefix = "lark:tenant_token"
	// token 剩余有效期低于该值时提前刷新
	TokenExpirySkew = 5 * time.Minute

	// 网络抖动 / 限频重试次数与退避基数
	MaxRetries   = 3
	RetryBackoff = 500 * time.Millisecond

	// 各接口分页大小
	BlockPageSize  = 500
	RecordPageSize = 500
	TablePageSize  = 100
	FieldPageSize  = 100
	NodePageSize   = 50

	// 单个数据表记录数安全上限
	MaxRecords = 10000
	// Wiki 节点递归读取深度上限
	MaxWikiDepth = 5

	// 配置文件相对路径
	ConfigPath   = "reference/feishu_config.json"
	EnvAppID     = "FEISHU_APP_ID"
	EnvAppSecret = "FEISHU_APP_SECRET"
)

// 文档类型
const (
	TypeDocx    = "docx"
	TypeDoc     = "doc"
	TypeSheet   = "sheet"
	TypeBitable = "bitable"
	TypeWiki    = "wiki"
)

// DocTypes 支持读取的文档类型
var DocTypes = []string{TypeDocx, TypeDoc, TypeSheet, TypeBitable, TypeWiki}
