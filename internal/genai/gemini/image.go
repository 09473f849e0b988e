package gemini

import (
	"context"
	"errors"
	"fmt"

	"roomclean/common"
	"roomclean/internal/utils"

	"google.golang.org/genai"
)

// GenerateContent 发送提示词 + 图片并声明响应模态，返回解码后的第一个候选内容
func (c *Client) GenerateContent(ctx context.Context, prompt string, image Image) (*Response, error) {
	config := &genai.GenerateContentConfig{
		ResponseModalities: c.modalities,
		Temperature:        c.temperature,
	}

	common.WithFields(map[string]interface{}{
		"model":      c.model,
		"modalities": c.modalities,
		"prompt":     utils.TruncateForLog(prompt, 200),
		"image_size": len(image.Data),
	}).Debug("Sending generateContent request")

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	result, err := c.client.Models.GenerateContent(ctx, c.model, userContents(prompt, image), config)
	if err != nil {
		err = wrapAPIError(err)
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			common.WithFields(map[string]interface{}{
				"code":    apiErr.Code,
				"status":  apiErr.Status,
				"message": apiErr.Message,
			}).Error("Gemini API returned an error object")
		} else {
			common.WithError(err).WithField("model", c.model).Error("Failed to generate content from Gemini API")
		}
		return nil, err
	}

	return decodeResponse(result), nil
}

// APIError 接口返回的 error 对象
type APIError struct {
	Code    int
	Message string
	Status  string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "(no message)"
	}
	if e.Status != "" {
		return fmt.Sprintf("gemini api error: %s (%d): %s", e.Status, e.Code, msg)
	}
	return fmt.Sprintf("gemini api error (%d): %s", e.Code, msg)
}

// wrapAPIError 将 SDK 的 genai.APIError 转为 *APIError，其他错误原样返回
func wrapAPIError(err error) error {
	var sdkErr genai.APIError
	if errors.As(err, &sdkErr) {
		return &APIError{Code: sdkErr.Code, Message: sdkErr.Message, Status: sdkErr.Status}
	}
	return err
}
