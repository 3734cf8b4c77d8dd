package core

import (
	"context"
	"net/http"
	"testing"

	"lark_reader/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func installDocxStub(mux *http.ServeMux, token string) {
	mux.HandleFunc("/open-apis/docx/v1/documents/"+token, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"code":0,"msg":"success","data":{"document":{"document_id":"`+token+`","title":"节点文档"}}}`)
	})
	mux.HandleFunc("/open-apis/docx/v1/documents/"+token+"/blocks", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"code":0,"msg":"success","data":{"has_more":false,"items":[
			{"block_id":"b1","block_type":2,"text":{"elements":[{"text_run":{"content":"节点正文"}}]}}
		]}}`)
	})
}

// 知识库节点：节点信息 + 按 obj_type 读取的内容 + 分页取全的子节点
func TestReadWikiNode(t *testing.T) {
	auth := &authStub{}
	mux := http.NewServeMux()
	auth.install(mux)
	installDocxStub(mux, "doxcnObj")

	mux.HandleFunc("/open-apis/wiki/v2/spaces/get_node", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "wikcnAbc", r.URL.Query().Get("token"))
		writeJSON(w, `{"code":0,"msg":"success","data":{"node":{
			"space_id":"sp1","node_token":"wikcnAbc","obj_token":"doxcnObj","obj_type":"docx",
			"title":"首页","has_child":true
		}}}`)
	})
	mux.HandleFunc("/open-apis/wiki/v2/spaces/sp1/nodes", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "wikcnAbc", r.URL.Query().Get("parent_node_token"))
		switch r.URL.Query().Get("page_token") {
		case "":
			writeJSON(w, `{"code":0,"msg":"success","data":{"has_more":true,"page_token":"p2","items":[
				{"space_id":"sp1","node_token":"wikcnChild1","obj_type":"docx","title":"子页1"}
			]}}`)
		case "p2":
			writeJSON(w, `{"code":0,"msg":"success","data":{"has_more":false,"items":[
				{"space_id":"sp1","node_token":"wikcnChild2","obj_type":"sheet","title":"子页2"}
			]}}`)
		default:
			t.Errorf("未知 page_token: %s", r.URL.Query().Get("page_token"))
		}
	})

	reader := newTestReader(t, mux)
	result, err := reader.ReadWiki(context.Background(), "wikcnAbc")
	require.NoError(t, err)

	assert.Equal(t, "首页", *result.Node.Title)
	require.Len(t, result.Children, 2)
	assert.Equal(t, "wikcnChild2", *result.Children[1].NodeToken)

	content, ok := result.Content.(*model.DocxResult)
	require.True(t, ok)
	assert.Equal(t, "节点正文", content.TextContent)
}

// 递归读取知识空间：节点内容挂载到节点上，失败节点记录错误并被收集
func TestReadWikiSpaceRecursive(t *testing.T) {
	auth := &authStub{}
	mux := http.NewServeMux()
	auth.install(mux)
	installDocxStub(mux, "doxcnOk")

	mux.HandleFunc("/open-apis/wiki/v2/spaces/sp1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"code":0,"msg":"success","data":{"space":{"space_id":"sp1","name":"团队知识库"}}}`)
	})
	mux.HandleFunc("/open-apis/wiki/v2/spaces/sp1/nodes", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("parent_node_token") != "" {
			writeJSON(w, `{"code":0,"msg":"success","data":{"has_more":false,"items":[]}}`)
			return
		}
		writeJSON(w, `{"code":0,"msg":"success","data":{"has_more":false,"items":[
			{"space_id":"sp1","node_token":"wikcnOk","obj_token":"doxcnOk","obj_type":"docx","title":"正常节点"},
			{"space_id":"sp1","node_token":"wikcnBad","obj_token":"doxcnBad","obj_type":"docx","title":"受限节点"}
		]}}`)
	})
	mux.HandleFunc("/open-apis/docx/v1/documents/doxcnBad", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusForbidden)
		writeJSON(w, `{"code":91403,"msg":"forbidden"}`)
	})

	reader := newTestReader(t, mux)
	result, err := reader.ReadWikiSpace(context.Background(), "sp1", true)
	require.NoError(t, err)

	assert.Equal(t, "团队知识库", *result.Space.Name)
	require.Len(t, result.Nodes, 2)
	assert.Equal(t, 2, result.NodeCount)

	ok := result.Nodes[0]
	require.NotNil(t, ok.Content)
	assert.Empty(t, ok.ContentError)

	bad := result.Nodes[1]
	assert.Nil(t, bad.Content)
	assert.Contains(t, bad.ContentError, "权限不足")

	failed := FailedNodes(result.Nodes)
	require.Len(t, failed, 1)
	assert.Equal(t, "受限节点", failed[0].Title)
	assert.Equal(t, "wikcnBad", failed[0].Token)
}

// 非递归读取知识空间只列节点，不拉内容
func TestReadWikiSpaceFlat(t *testing.T) {
	auth := &authStub{}
	mux := http.NewServeMux()
	auth.install(mux)

	mux.HandleFunc("/open-apis/wiki/v2/spaces/sp1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"code":0,"msg":"success","data":{"space":{"space_id":"sp1","name":"团队知识库"}}}`)
	})
	mux.HandleFunc("/open-apis/wiki/v2/spaces/sp1/nodes", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"code":0,"msg":"success","data":{"has_more":false,"items":[
			{"space_id":"sp1","node_token":"wikcnOk","obj_token":"doxcnOk","obj_type":"docx","title":"根节点","has_child":true}
		]}}`)
	})

	reader := newTestReader(t, mux)
	result, err := reader.ReadWikiSpace(context.Background(), "sp1", false)
	require.NoError(t, err)

	require.Len(t, result.Nodes, 1)
	assert.Nil(t, result.Nodes[0].Content)
	assert.Nil(t, result.Nodes[0].Children)
}
