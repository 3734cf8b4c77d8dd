package core

import (
	"context"

	"lark_reader/model"

	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	larkwiki "github.com/larksuite/oapi-sdk-go/v3/service/wiki/v2"
)

// ReadWiki 读取知识库节点
// 先取节点信息拿到 obj_type / obj_token，再按实际类型读取内容，
// 有子节点时附带一层子节点列表
func (r *Reader) ReadWiki(ctx context.Context, token string) (*model.WikiResult, error) {
	node, err := r.wikiNode(ctx, token)
	if err != nil {
		return nil, err
	}

	objType := strVal(node.ObjType)
	objToken := strVal(node.ObjToken)
	r.log.Infof("Wiki节点: obj_type=%s, obj_token=%s", objType, objToken)

	content := r.readNodeContent(ctx, objType, objToken)

	var children []*larkwiki.Node
	if boolVal(node.HasChild) {
		children, err = r.listWikiNodes(ctx, strVal(node.SpaceId), token)
		if err != nil {
			r.log.Warnf("获取子节点失败: %v", err)
		}
	}

	return &model.WikiResult{
		Node:     node,
		Content:  content,
		Children: children,
	}, nil
}

// ReadWikiSpace 读取整个知识空间
// recursive 为 true 时递归读取全部节点内容与子节点
func (r *Reader) ReadWikiSpace(ctx context.Context, spaceID string, recursive bool) (*model.WikiSpaceResult, error) {
	var spaceResp *larkwiki.GetSpaceResp
	err := r.call(ctx, "获取知识空间信息失败", func(opt larkcore.RequestOptionFunc) error {
		req := larkwiki.NewGetSpaceReqBuilder().
			SpaceId(spaceID).
			Build()

		resp, err := r.client.Wiki.V2.Space.Get(ctx, req, opt)
		if err != nil {
			return err
		}
		if !resp.Success() {
			return apiError(resp.ApiResp, resp.Code, resp.Msg)
		}
		spaceResp = resp
		return nil
	})
	if err != nil {
		return nil, err
	}

	roots, err := r.listWikiNodes(ctx, spaceID, "")
	if err != nil {
		return nil, err
	}

	var nodes []*model.WikiNode
	if recursive {
		nodes = r.readWikiNodesRecursive(ctx, spaceID, roots, 0)
	} else {
		nodes = wrapNodes(roots)
	}

	return &model.WikiSpaceResult{
		Space:     spaceResp.Data.Space,
		Nodes:     nodes,
		NodeCount: len(nodes),
	}, nil
}

// FailedNodes 收集递归读取中内容加载失败的节点，用于群通知
func FailedNodes(nodes []*model.WikiNode) []model.FailedNode {
	var failed []model.FailedNode
	for _, node := range nodes {
		if node.ContentError != "" {
			failed = append(failed, model.FailedNode{
				Title:  strVal(node.Title),
				Token:  strVal(node.NodeToken),
				Reason: node.ContentError,
			})
		}
		failed = append(failed, FailedNodes(node.Children)...)
	}
	return failed
}

func (r *Reader) wikiNode(ctx context.Context, token string) (*larkwiki.Node, error) {
	var node *larkwiki.Node
	err := r.call(ctx, "获取知识库节点失败", func(opt larkcore.RequestOptionFunc) error {
		req := larkwiki.NewGetNodeSpaceReqBuilder().
			Token(token).
			Build()

		resp, err := r.client.Wiki.V2.Space.GetNode(ctx, req, opt)
		if err != nil {
			return err
		}
		if !resp.Success() {
			return apiError(resp.ApiResp, resp.Code, resp.Msg)
		}
		node = resp.Data.Node
		return nil
	})
	return node, err
}

// readNodeContent 按 obj_type 读取节点挂载的实际文档，失败时返回错误占位
func (r *Reader) readNodeContent(ctx context.Context, objType, objToken string) interface{} {
	var (
		content interface{}
		err     error
	)
	switch objType {
	case model.TypeDocx, model.TypeDoc:
		content, err = r.ReadDocx(ctx, objToken)
	case model.TypeSheet:
		content, err = r.ReadSheet(ctx, objToken)
	case model.TypeBitable:
		content, err = r.ReadBitable(ctx, objToken)
	default:
		return &model.NoteContent{Note: "暂不支持读取类型 " + objType + " 的内容"}
	}
	if err != nil {
		r.log.Warnf("读取Wiki节点内容失败: %v", err)
		return &model.ErrorContent{Error: UserMessage(err)}
	}
	return content
}

// listWikiNodes 列出某节点下的子节点（parentToken 为空时列出根节点），翻页取全
func (r *Reader) listWikiNodes(ctx context.Context, spaceID, parentToken string) ([]*larkwiki.Node, error) {
	var (
		nodes     []*larkwiki.Node
		pageToken string
	)

	for {
		var resp *larkwiki.ListSpaceNodeResp
		err := r.call(ctx, "获取节点列表失败", func(opt larkcore.RequestOptionFunc) error {
			builder := larkwiki.NewListSpaceNodeReqBuilder().
				SpaceId(spaceID).
				PageSize(model.NodePageSize)
			if parentToken != "" {
				builder.ParentNodeToken(parentToken)
			}
			if pageToken != "" {
				builder.PageToken(pageToken)
			}

			got, err := r.client.Wiki.V2.SpaceNode.List(ctx, builder.Build(), opt)
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

		nodes = append(nodes, resp.Data.Items...)
		if !boolVal(resp.Data.HasMore) {
			break
		}
		pageToken = strVal(resp.Data.PageToken)
	}

	return nodes, nil
}

// readWikiNodesRecursive 递归读取节点内容与子节点，深度受 MaxWikiDepth 限制
func (r *Reader) readWikiNodesRecursive(ctx context.Context, spaceID string, nodes []*larkwiki.Node, depth int) []*model.WikiNode {
	wrapped := wrapNodes(nodes)
	if depth > model.MaxWikiDepth {
		return wrapped
	}

	for _, node := range wrapped {
		objType := strVal(node.ObjType)
		switch objType {
		case model.TypeDocx, model.TypeDoc, model.TypeSheet, model.TypeBitable:
			content := r.readNodeContent(ctx, objType, strVal(node.ObjToken))
			if errContent, ok := content.(*model.ErrorContent); ok {
				node.ContentError = errContent.Error
			} else {
				node.Content = content
			}
		}

		if boolVal(node.HasChild) {
			children, err := r.listWikiNodes(ctx, spaceID, strVal(node.NodeToken))
			if err != nil {
				node.ChildrenError = UserMessage(err)
				continue
			}
			node.Children = r.readWikiNodesRecursive(ctx, spaceID, children, depth+1)
		}
	}

	return wrapped
}

func wrapNodes(nodes []*larkwiki.Node) []*model.WikiNode {
	wrapped := make([]*model.WikiNode, 0, len(nodes))
	for _, node := range nodes {
		wrapped = append(wrapped, &model.WikiNode{Node: node})
	}
	return wrapped
}
