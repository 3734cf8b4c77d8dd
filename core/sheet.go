package core

import (
	"context"
	"fmt"

	"lark_reader/model"

	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	larksheets "github.com/larksuite/oapi-sdk-go/v3/service/sheets/v3"
)

// ReadSheet 读取电子表格：表格元信息 + 每个工作表的单元格值
// 单个工作表失败只记录错误，不中断整体读取
func (r *Reader) ReadSheet(ctx context.Context, token string) (*model.SheetResult, error) {
	var metaResp *larksheets.GetSpreadsheetResp
	err := r.call(ctx, "获取电子表格信息失败", func(opt larkcore.RequestOptionFunc) error {
		req := larksheets.NewGetSpreadsheetReqBuilder().
			SpreadsheetToken(token).
			Build()

		resp, err := r.client.Sheets.V3.Spreadsheet.Get(ctx, req, opt)
		if err != nil {
			return err
		}
		if !resp.Success() {
			return apiError(resp.ApiResp, resp.Code, resp.Msg)
		}
		metaResp = resp
		return nil
	})
	if err != nil {
		return nil, err
	}

	sheets, err := r.querySheets(ctx, token)
	if err != nil {
		return nil, err
	}

	sheetsData := make([]model.SheetData, 0, len(sheets))
	for _, sheet := range sheets {
		data := model.SheetData{
			SheetID:    strVal(sheet.SheetId),
			Title:      strVal(sheet.Title),
			Properties: sheet,
		}

		values, err := r.sheetValues(ctx, token, data.SheetID)
		if err != nil {
			r.log.Warnf("读取工作表 %s 失败: %v", data.Title, err)
			data.Error = UserMessage(err)
		} else {
			data.Values = values
		}
		sheetsData = append(sheetsData, data)
	}

	spreadsheet := metaResp.Data.Spreadsheet
	return &model.SheetResult{
		Spreadsheet: model.SpreadsheetMeta{
			Title:      strVal(spreadsheet.Title),
			OwnerID:    strVal(spreadsheet.OwnerId),
			SheetCount: len(sheets),
		},
		Sheets: sheetsData,
	}, nil
}

// querySheets 列出全部工作表
func (r *Reader) querySheets(ctx context.Context, token string) ([]*larksheets.Sheet, error) {
	var sheets []*larksheets.Sheet
	err := r.call(ctx, "获取工作表列表失败", func(opt larkcore.RequestOptionFunc) error {
		req := larksheets.NewQuerySpreadsheetSheetReqBuilder().
			SpreadsheetToken(token).
			Build()

		resp, err := r.client.Sheets.V3.SpreadsheetSheet.Query(ctx, req, opt)
		if err != nil {
			return err
		}
		if !resp.Success() {
			return apiError(resp.ApiResp, resp.Code, resp.Msg)
		}
		sheets = resp.Data.Sheets
		return nil
	})
	return sheets, err
}

// sheetValues 读取单元格值，v2 接口没有 typed service，走原生请求
func (r *Reader) sheetValues(ctx context.Context, token, sheetID string) ([][]interface{}, error) {
	var values model.SheetValuesResponse
	apiPath := fmt.Sprintf("/open-apis/sheets/v2/spreadsheets/%s/values/%s", token, sheetID)
	if err := r.getJSON(ctx, "获取单元格值失败", apiPath, &values); err != nil {
		return nil, err
	}
	return values.Data.ValueRange.Values, nil
}
