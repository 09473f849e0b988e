package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// MarshalPretty 以缩进格式序列化 JSON，保留非 ASCII 字符与 HTML 字符原样输出
func MarshalPretty(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON 将 v 以 UTF-8 缩进格式写入 path，覆盖已有文件
func WriteJSON(path string, v interface{}) error {
	data, err := MarshalPretty(v)
	if err != nil {
		return fmt.Errorf("failed to marshal json: %w", err)
	}
	if err := WriteFile(path, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadJSON 读取 JSON 文件并解析到 v
func ReadJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
