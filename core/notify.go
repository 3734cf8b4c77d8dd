package core

import (
	"bytes"
	"context"
	"fmt"

	"lark_reader/model"

	larkcard "github.com/larksuite/oapi-sdk-go/v3/card"
	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
)

const notifyTitle = "文档读取通知"

// NotifyCompletion 读取完成后发绿色卡片到群
func (r *Reader) NotifyCompletion(ctx context.Context, chatID, subject string) error {
	var b bytes.Buffer
	b.WriteString(fmt.Sprintf("对象： %s\n", subject))
	b.WriteString("状态： 读取完成\n")
	return r.sendCard(ctx, chatID, simpleCard(larkcard.TemplateGreen, b.String()))
}

// NotifyError 读取失败时发红色卡片到群，错误文案经过脱敏映射
func (r *Reader) NotifyError(ctx context.Context, chatID, subject string, readErr error) error {
	var b bytes.Buffer
	b.WriteString(fmt.Sprintf("对象： %s\n", subject))
	b.WriteString(fmt.Sprintf("错误： %s\n", UserMessage(readErr)))
	return r.sendCard(ctx, chatID, simpleCard(larkcard.TemplateRed, b.String()))
}

// NotifyFailedNodes 知识空间递归读取后，把内容加载失败的节点列成表格卡片发到群
func (r *Reader) NotifyFailedNodes(ctx context.Context, chatID, spaceID string, failed []model.FailedNode) error {
	columns := []model.Column{
		{
			DataType:        "text",
			Name:            "node_title",
			DisplayName:     "节点",
			HorizontalAlign: "left",
			Width:           "auto",
		},
		{
			DataType:        "text",
			Name:            "reason",
			DisplayName:     "失败原因",
			HorizontalAlign: "left",
			Width:           "auto",
		},
	}

	rows := make([]model.Row, 0, len(failed))
	for _, node := range failed {
		rows = append(rows, model.Row{
			NodeTitle: fmt.Sprintf("%s (%s)", node.Title, node.Token),
			Reason:    node.Reason,
		})
	}

	element := model.Element{
		Tag:       "table",
		Columns:   columns,
		Rows:      rows,
		RowHeight: "low",
		HeaderStyle: model.HeaderStyle{
			BackgroundStyle: "none",
			Bold:            true,
			Lines:           1,
		},
		PageSize: 20,
		Margin:   "0px 0px 0px 0px",
	}

	card := model.Card{
		Schema: "2.0",
		Config: model.CardConfig{
			UpdateMulti: true,
		},
		Body: model.Body{
			Direction: "vertical",
			Padding:   "12px 12px 12px 12px",
			Elements:  []model.Element{element},
		},
		Header: model.Header{
			Title: model.Title{
				Tag:     "plain_text",
				Content: "知识空间节点读取失败列表",
			},
			Subtitle: model.Title{
				Tag:     "plain_text",
				Content: fmt.Sprintf("space_id: %s", spaceID),
			},
			Template: larkcard.TemplateRed,
			Padding:  "12px 12px 12px 12px",
		},
	}

	content, err := json.MarshalToString(card)
	if err != nil {
		return err
	}
	return r.sendCard(ctx, chatID, content)
}

func simpleCard(template, msg string) string {
	card := larkcard.NewMessageCard().
		Header(&larkcard.MessageCardHeader{
			Title_:    larkcard.NewMessageCardPlainText().Content(notifyTitle),
			Template_: &template,
		}).Elements([]larkcard.MessageCardElement{
		larkcard.NewMessageCardDiv().Text(larkcard.NewMessageCardPlainText().Content(msg)),
	}).Build()

	content, _ := card.JSON()
	return content
}

func (r *Reader) sendCard(ctx context.Context, chatID, content string) error {
	return r.call(ctx, "发送群通知失败", func(opt larkcore.RequestOptionFunc) error {
		req := larkim.NewCreateMessageReqBuilder().ReceiveIdType("chat_id").
			Body(
				larkim.NewCreateMessageReqBodyBuilder().MsgType("interactive").
					ReceiveId(chatID).
					Content(content).
					Build(),
			).Build()

		resp, err := r.client.Im.Message.Create(ctx, req, opt)
		if err != nil {
			return err
		}
		if !resp.Success() {
			return apiError(resp.ApiResp, resp.Code, resp.Msg)
		}
		return nil
	})
}
