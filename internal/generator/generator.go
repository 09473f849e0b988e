package generator

import (
	"context"
	"errors"
	"fmt"

	"roomclean/common"
	"roomclean/internal/genai/gemini"
	"roomclean/internal/prompt"
	"roomclean/internal/utils"
)

// ErrNoImage 响应中没有任何图片片段（包括没有候选或没有片段的情况）
var ErrNoImage = errors.New("no image found in response")

// Result 一次生成的结果
type Result struct {
	Prompt     string
	Texts      []string
	OutputPath string
	MIMEType   string
	Size       int
	// 被忽略的额外图片片段数量
	SkippedImages int
}

// Generator 根据整理指令生成整理后的房间图片
type Generator struct {
	client     gemini.ContentGenerator
	builder    *prompt.Builder
	outputPath string
}

// Config 生成器配置
type Config struct {
	OutputPath string
	Locale     prompt.Locale
}

// New 创建生成器
func New(client gemini.ContentGenerator, cfg Config) (*Generator, error) {
	if cfg.OutputPath == "" {
		return nil, fmt.Errorf("output path is required")
	}
	locale := cfg.Locale
	if locale.Name == "" {
		locale = prompt.English
	}
	return &Generator{
		client:     client,
		builder:    prompt.NewBuilder(locale),
		outputPath: cfg.OutputPath,
	}, nil
}

// OutputPath 返回输出图片路径
func (g *Generator) OutputPath() string {
	return g.outputPath
}

// Generate 构建提示词并请求图片模型，将第一张返回的图片写入输出路径
//
// 多个图片片段时以第一张为准，其余仅记录日志。未得到图片时返回 ErrNoImage，且不会写入任何文件。
func (g *Generator) Generate(ctx context.Context, imagePath string, instructions interface{}) (*Result, error) {
	promptText := g.builder.Build(instructions)
	common.WithField("prompt", promptText).Info("Generated prompt")

	image, mimeType, err := utils.ReadImage(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	resp, err := g.client.GenerateContent(ctx, promptText, gemini.Image{Data: image, MIMEType: mimeType})
	if err != nil {
		return nil, fmt.Errorf("failed to generate image: %w", err)
	}

	result := &Result{Prompt: promptText}
	var picked *gemini.InlineImagePart

	for _, part := range resp.Parts {
		switch p := part.(type) {
		case gemini.TextPart:
			if p.Text == "" {
				continue
			}
			common.WithField("text", p.Text).Info("Model text output")
			result.Texts = append(result.Texts, p.Text)
		case gemini.InlineImagePart:
			if picked != nil {
				result.SkippedImages++
				common.WithFields(map[string]interface{}{
					"mime_type": p.MIMEType,
					"size":      len(p.Data),
				}).Warn("Ignoring additional image part")
				continue
			}
			img := p
			picked = &img
		case gemini.UnknownPart:
			common.WithField("raw", utils.TruncateForLog(string(p.Raw), 200)).Debug("Skipping unrecognized response part")
		}
	}

	if picked == nil {
		common.WithFields(map[string]interface{}{
			"candidates":    resp.Candidates,
			"parts":         len(resp.Parts),
			"finish_reason": resp.FinishReason,
			"block_reason":  resp.BlockReason,
		}).Error("No image produced by the model")
		return result, ErrNoImage
	}

	if err := utils.WriteFile(g.outputPath, picked.Data); err != nil {
		return result, fmt.Errorf("failed to save generated image: %w", err)
	}

	result.OutputPath = g.outputPath
	result.MIMEType = picked.MIMEType
	result.Size = len(picked.Data)

	common.WithFields(map[string]interface{}{
		"output_path": g.outputPath,
		"mime_type":   picked.MIMEType,
		"size":        len(picked.Data),
	}).Info("Generated image saved")

	return result, nil
}
