package gemini

import (
	"context"
	"fmt"
	"time"

	"roomclean/common"

	"google.golang.org/genai"
)

const (
	ModalityText  = "TEXT"
	ModalityImage = "IMAGE"
)

// Client 基于 genai SDK 的 Gemini 客户端
// 房间分析使用 GenerateText，图片生成使用 GenerateContent
type Client struct {
	client      *genai.Client
	model       string
	timeout     time.Duration
	temperature *float32
	modalities  []string
}

// Config Gemini 客户端配置
type Config struct {
	APIKey    string        // API Key
	BaseURL   string        // 自定义 Base URL，如果为空则使用默认值
	ModelName string        // 模型名称，例如：gemini-2.5-flash
	Timeout   time.Duration // 请求超时时间，0 表示不额外设置
	// 可选：生成温度，nil 表示使用模型默认值
	Temperature *float64
	// 可选：GenerateContent 期望的响应模态，默认 TEXT + IMAGE
	ResponseModalities []string
}

// NewClient 创建新的 Gemini 客户端
// API Key 缺失时直接返回错误，不会发起任何网络请求
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("model name is required")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{
			BaseURL: cfg.BaseURL,
		}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	c := &Client{
		client:     client,
		model:      cfg.ModelName,
		timeout:    cfg.Timeout,
		modalities: cfg.ResponseModalities,
	}
	if cfg.Temperature != nil {
		c.temperature = genai.Ptr(float32(*cfg.Temperature))
	}
	if len(c.modalities) == 0 {
		c.modalities = []string{ModalityText, ModalityImage}
	}
	return c, nil
}

// withTimeout 按配置为单次请求设置超时
func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return ctx, func() {}
}

// GenerateText 将提示词和图片作为一次多模态请求发送，返回模型的文本输出
func (c *Client) GenerateText(ctx context.Context, prompt string, image Image) (string, error) {
	common.WithFields(map[string]interface{}{
		"model":      c.model,
		"mime_type":  image.MIMEType,
		"image_size": len(image.Data),
	}).Debug("Starting multimodal text generation")

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	result, err := c.client.Models.GenerateContent(ctx, c.model, userContents(prompt, image), nil)
	if err != nil {
		common.WithError(err).WithField("model", c.model).Error("Failed to generate content from Gemini API")
		return "", fmt.Errorf("failed to generate content: %w", wrapAPIError(err))
	}
	if result == nil || len(result.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("no text in response")
	}
	return text, nil
}

// userContents 组装「提示词 + 内联图片」的单轮用户输入
func userContents(prompt string, image Image) []*genai.Content {
	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromBytes(image.Data, image.MIMEType),
	}
	return []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}
}
