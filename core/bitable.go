package core

import (
	"context"

	"lark_reader/model"

	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	larkbitable "github.com/larksuite/oapi-sdk-go/v3/service/bitable/v1"
)

// ReadBitable 读取多维表格：应用元信息 + 每个数据表的字段与记录
// 单个数据表失败只记录错误，不中断整体读取
func (r *Reader) ReadBitable(ctx context.Context, token string) (*model.BitableResult, error) {
	var appResp *larkbitable.GetAppResp
	err := r.call(ctx, "获取多维表格信息失败", func(opt larkcore.RequestOptionFunc) error {
		req := larkbitable.NewGetAppReqBuilder().
			AppToken(token).
			Build()

		resp, err := r.client.Bitable.V1.App.Get(ctx, req, opt)
		if err != nil {
			return err
		}
		if !resp.Success() {
			return apiError(resp.ApiResp, resp.Code, resp.Msg)
		}
		appResp = resp
		return nil
	})
	if err != nil {
		return nil, err
	}

	tables, err := r.listTables(ctx, token)
	if err != nil {
		return nil, err
	}

	contents := make([]model.TableContent, 0, len(tables))
	for _, table := range tables {
		content := model.TableContent{
			TableID: strVal(table.TableId),
			Name:    strVal(table.Name),
		}

		fields, err := r.listFields(ctx, token, content.TableID)
		if err == nil {
			content.Fields = fields
			var records []*larkbitable.AppTableRecord
			records, err = r.listRecords(ctx, token, content.TableID)
			if err == nil {
				content.Records = records
				content.RecordCount = len(records)
			}
		}
		if err != nil {
			r.log.Warnf("读取数据表 %s 失败: %v", content.Name, err)
			content.Error = UserMessage(err)
		}
		contents = append(contents, content)
	}

	return &model.BitableResult{
		App:        appResp.Data.App,
		Tables:     contents,
		TableCount: len(tables),
	}, nil
}

// listTables 列出全部数据表，翻页直到 has_more 为 false
func (r *Reader) listTables(ctx context.Context, token string) ([]*larkbitable.AppTable, error) {
	var (
		tables    []*larkbitable.AppTable
		pageToken string
	)

	for {
		var resp *larkbitable.ListAppTableResp
		err := r.call(ctx, "获取数据表列表失败", func(opt larkcore.RequestOptionFunc) error {
			builder := larkbitable.NewListAppTableReqBuilder().
				AppToken(token).
				PageSize(model.TablePageSize)
			if pageToken != "" {
				builder.PageToken(pageToken)
			}

			got, err := r.client.Bitable.V1.AppTable.List(ctx, builder.Build(), opt)
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

		tables = append(tables, resp.Data.Items...)
		if !boolVal(resp.Data.HasMore) {
			break
		}
		pageToken = strVal(resp.Data.PageToken)
	}

	return tables, nil
}

// listFields 列出数据表字段
func (r *Reader) listFields(ctx context.Context, token, tableID string) ([]*larkbitable.AppTableFieldForList, error) {
	var (
		fields    []*larkbitable.AppTableFieldForList
		pageToken string
	)

	for {
		var resp *larkbitable.ListAppTableFieldResp
		err := r.call(ctx, "获取字段列表失败", func(opt larkcore.RequestOptionFunc) error {
			builder := larkbitable.NewListAppTableFieldReqBuilder().
				AppToken(token).
				TableId(tableID).
				PageSize(model.FieldPageSize)
			if pageToken != "" {
				builder.PageToken(pageToken)
			}

			got, err := r.client.Bitable.V1.AppTableField.List(ctx, builder.Build(), opt)
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

		fields = append(fields, resp.Data.Items...)
		if !boolVal(resp.Data.HasMore) {
			break
		}
		pageToken = strVal(resp.Data.PageToken)
	}

	return fields, nil
}

// listRecords 拉取数据表全部记录，超过安全上限时截断并告警
func (r *Reader) listRecords(ctx context.Context, token, tableID string) ([]*larkbitable.AppTableRecord, error) {
	var (
		records   []*larkbitable.AppTableRecord
		pageToken string
	)

	for {
		var resp *larkbitable.ListAppTableRecordResp
		err := r.call(ctx, "获取记录列表失败", func(opt larkcore.RequestOptionFunc) error {
			builder := larkbitable.NewListAppTableRecordReqBuilder().
				AppToken(token).
				TableId(tableID).
				PageSize(model.RecordPageSize)
			if pageToken != "" {
				builder.PageToken(pageToken)
			}

			got, err := r.client.Bitable.V1.AppTableRecord.List(ctx, builder.Build(), opt)
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

		records = append(records, resp.Data.Items...)
		if !boolVal(resp.Data.HasMore) {
			break
		}
		if len(records) >= model.MaxRecords {
			r.log.Warnf("数据表 %s 记录数超过 %d，停止获取更多数据", tableID, model.MaxRecords)
			break
		}
		pageToken = strVal(resp.Data.PageToken)
	}

	return records, nil
}
