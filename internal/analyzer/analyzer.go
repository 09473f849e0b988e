package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"roomclean/common"
	"roomclean/internal/genai/gemini"
	"roomclean/internal/utils"
)

// Result 模型返回的房间状态评估，结构由模型决定
type Result map[string]interface{}

// DecodeError 模型输出不是合法 JSON 对象
type DecodeError struct {
	Raw string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode analysis result: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Analyzer 房间状态分析器
type Analyzer struct {
	client gemini.TextGenerator
}

// New 创建分析器
func New(client gemini.TextGenerator) *Analyzer {
	return &Analyzer{client: client}
}

// Analyze 读取图片与评分提示词，请求模型并解析 JSON 结果
//
// 模型输出无法解析时返回 *DecodeError（包含原始文本），由调用方决定是否继续。
func (a *Analyzer) Analyze(ctx context.Context, imagePath, promptPath string) (Result, error) {
	image, mimeType, err := utils.ReadImage(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	promptBytes, err := os.ReadFile(promptPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt: %w", err)
	}

	common.WithFields(map[string]interface{}{
		"image_path":  imagePath,
		"prompt_path": promptPath,
		"mime_type":   mimeType,
	}).Info("Analyzing room condition")

	text, err := a.client.GenerateText(ctx, string(promptBytes), gemini.Image{Data: image, MIMEType: mimeType})
	if err != nil {
		return nil, fmt.Errorf("failed to analyze room: %w", err)
	}

	result, err := Parse(text)
	if err != nil {
		common.WithError(err).WithField("raw", text).Error("Model response is not valid JSON")
		return nil, err
	}
	return result, nil
}

// Parse 去掉代码块包裹后解析为 JSON 对象
func Parse(text string) (Result, error) {
	cleaned := StripCodeFence(text)

	var result Result
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, &DecodeError{Raw: text, Err: err}
	}
	if result == nil {
		return nil, &DecodeError{Raw: text, Err: fmt.Errorf("expected a JSON object, got null")}
	}
	return result, nil
}

// StripCodeFence 去掉首尾的 ``` 或 ```json 标记及多余空白
func StripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		// 去掉语言标记（例如 json），只到第一行结束
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			if tag := strings.TrimSpace(s[:i]); !strings.ContainsAny(tag, "{[") {
				s = s[i+1:]
			}
		} else {
			s = strings.TrimPrefix(s, "json")
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
