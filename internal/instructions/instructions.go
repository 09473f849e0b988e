package instructions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"roomclean/common"
	"roomclean/internal/utils"

	"gopkg.in/yaml.v3"
)

// LoadFile 读取整理指令文件，.yaml/.yml 使用 YAML 解析，其余按 JSON 解析
func LoadFile(path string) (interface{}, error) {
	var v interface{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read instructions: %w", err)
		}
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("failed to parse yaml instructions %s: %w", path, err)
		}
	default:
		if err := utils.ReadJSON(path, &v); err != nil {
			return nil, fmt.Errorf("failed to load json instructions: %w", err)
		}
	}

	common.WithField("path", path).Debug("Instructions loaded from file")
	return v, nil
}

// Fetch 通过 HTTP GET 从本地指令服务获取整理指令
func Fetch(ctx context.Context, url string) (interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create http request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("instruction service request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		common.WithFields(map[string]interface{}{
			"status_code": resp.StatusCode,
			"url":         url,
			"body":        utils.TruncateForLog(string(body), 512),
		}).Error("Instruction service returned non-success status")
		return nil, fmt.Errorf("instruction service error: status %d, body: %s", resp.StatusCode, utils.TruncateForLog(string(body), 512))
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		common.WithError(err).WithField("body", utils.TruncateForLog(string(body), 512)).Error("Instruction service returned invalid JSON")
		return nil, fmt.Errorf("failed to parse instruction service response: %w", err)
	}
	return v, nil
}
