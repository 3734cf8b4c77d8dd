package core

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// 输出格式
const (
	OutputJSON = "json"
	OutputText = "text"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// WriteResult 把读取结果写到 w
// text 模式下没有文本投影的结果回退为 JSON 输出
func WriteResult(w io.Writer, result interface{}, format string, pretty bool) error {
	if format == OutputText {
		if r, ok := result.(interface{ Text() string }); ok {
			if text := r.Text(); text != "" {
				_, err := fmt.Fprintln(w, text)
				return err
			}
		}
	}

	var (
		raw []byte
		err error
	)
	if pretty {
		raw, err = json.MarshalIndent(result, "", "  ")
	} else {
		raw, err = json.Marshal(result)
	}
	if err != nil {
		return errors.Wrap(err, "序列化输出失败")
	}

	if _, err = w.Write(raw); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w)
	return err
}
