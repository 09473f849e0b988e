package gemini

import (
	"context"
	"fmt"

	"roomclean/common"
)

// NewAnalyzeClientFromConfig 从配置创建房间分析使用的客户端
func NewAnalyzeClientFromConfig(ctx context.Context, cfg *common.Config) (*Client, error) {
	client, err := NewClient(ctx, Config{
		APIKey:    cfg.GenAIAPIKey,
		BaseURL:   cfg.GenAIBaseURL,
		ModelName: cfg.GenAIAnalyzeModelName,
		Timeout:   cfg.GenAITimeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini analyze client: %w", err)
	}
	return client, nil
}

// NewImageClientFromConfig 从配置创建图片生成使用的客户端
func NewImageClientFromConfig(ctx context.Context, cfg *common.Config) (*Client, error) {
	temperature := cfg.GenAITemperature
	client, err := NewClient(ctx, Config{
		APIKey:             cfg.GenAIAPIKey,
		BaseURL:            cfg.GenAIBaseURL,
		ModelName:          cfg.GenAIImageModelName,
		Timeout:            cfg.GenAITimeout(),
		Temperature:        &temperature,
		ResponseModalities: []string{ModalityText, ModalityImage},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini image client: %w", err)
	}
	return client, nil
}
