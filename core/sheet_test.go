package core

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 读取表格元信息与每个工作表的单元格值，单表失败不中断
func TestReadSheet(t *testing.T) {
	auth := &authStub{}
	mux := http.NewServeMux()
	auth.install(mux)

	mux.HandleFunc("/open-apis/sheets/v3/spreadsheets/shtcnAbc", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"code":0,"msg":"success","data":{"spreadsheet":{"title":"统计表","owner_id":"ou_9","token":"shtcnAbc"}}}`)
	})
	mux.HandleFunc("/open-apis/sheets/v3/spreadsheets/shtcnAbc/sheets/query", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"code":0,"msg":"success","data":{"sheets":[
			{"sheet_id":"s1","title":"汇总","index":0},
			{"sheet_id":"s2","title":"受限","index":1}
		]}}`)
	})
	mux.HandleFunc("/open-apis/sheets/v2/spreadsheets/shtcnAbc/values/s1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"code":0,"msg":"success","data":{"valueRange":{"range":"s1!A1:B2","values":[["名称","数量"],["苹果",3]]}}}`)
	})
	mux.HandleFunc("/open-apis/sheets/v2/spreadsheets/shtcnAbc/values/s2", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusForbidden)
		writeJSON(w, `{"code":91403,"msg":"forbidden"}`)
	})

	reader := newTestReader(t, mux)
	result, err := reader.ReadSheet(context.Background(), "shtcnAbc")
	require.NoError(t, err)

	assert.Equal(t, "统计表", result.Spreadsheet.Title)
	assert.Equal(t, "ou_9", result.Spreadsheet.OwnerID)
	assert.Equal(t, 2, result.Spreadsheet.SheetCount)
	require.Len(t, result.Sheets, 2)

	first := result.Sheets[0]
	assert.Equal(t, "汇总", first.Title)
	require.Len(t, first.Values, 2)
	assert.Equal(t, "名称", first.Values[0][0])
	assert.Empty(t, first.Error)

	second := result.Sheets[1]
	assert.Empty(t, second.Values)
	assert.Contains(t, second.Error, "权限不足")
	assert.Contains(t, second.Error, "91403")
}
