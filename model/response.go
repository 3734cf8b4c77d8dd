package model

// 未被官方 SDK 类型化覆盖的接口返回结构（旧版文档元数据、电子表格单元格值、租户 token）

type BaseResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// TenantTokenResponse 租户 token 接口返回（token 在顶层而非 data 内）
type TenantTokenResponse struct {
	BaseResponse
	TenantAccessToken string `json:"tenant_access_token"`
	Expire            int64  `json:"expire"`
}

// DocMetaResponse 旧版文档元数据接口返回，内容原样透传
type DocMetaResponse struct {
	BaseResponse
	Data map[string]interface{} `json:"data"`
}

// SheetValuesResponse 电子表格单元格值接口（v2）返回
type SheetValuesResponse struct {
	BaseResponse
	Data struct {
		Revision   int    `json:"revision"`
		SheetToken string `json:"spreadsheetToken"`
		ValueRange struct {
			Range  string          `json:"range"`
			Values [][]interface{} `json:"values"`
		} `json:"valueRange"`
	} `json:"data"`
}
