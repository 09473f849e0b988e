package pipeline

import (
	"context"
	"errors"
	"fmt"

	"roomclean/common"
	"roomclean/internal/analyzer"
	"roomclean/internal/generator"
	"roomclean/internal/utils"
)

// RoomAnalyzer 房间状态分析
type RoomAnalyzer interface {
	Analyze(ctx context.Context, imagePath, promptPath string) (analyzer.Result, error)
}

// ImageGenerator 整理后图片生成
type ImageGenerator interface {
	Generate(ctx context.Context, imagePath string, instructions interface{}) (*generator.Result, error)
}

// ResultPublisher 结果文件上传（可选）
type ResultPublisher interface {
	PublishFile(ctx context.Context, localPath, contentType string) (string, error)
}

// Options 一次运行的输入输出路径
type Options struct {
	ImagePath          string
	PromptPath         string
	AnalysisOutputPath string
}

// Report 运行结果
type Report struct {
	Analysis     analyzer.Result
	AnalysisPath string
	Generation   *generator.Result
	AnalysisURL  string
	ImageURL     string
}

// Pipeline 分析 → 保存 → 生成 的顺序流程
type Pipeline struct {
	analyzer  RoomAnalyzer
	generator ImageGenerator
	publisher ResultPublisher
}

// New 创建流程，publisher 可以为 nil
func New(a RoomAnalyzer, g ImageGenerator, publisher ResultPublisher) *Pipeline {
	return &Pipeline{
		analyzer:  a,
		generator: g,
		publisher: publisher,
	}
}

// Run 依次执行分析、保存分析结果、生成图片
//
// 任一步失败立即返回；生成失败时已写入的分析结果文件保留在磁盘上。
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Report, error) {
	report := &Report{}

	common.Info("Step 1: Analyzing room condition...")
	result, err := p.analyzer.Analyze(ctx, opts.ImagePath, opts.PromptPath)
	if err != nil {
		var decodeErr *analyzer.DecodeError
		if errors.As(err, &decodeErr) {
			common.WithField("raw", decodeErr.Raw).Error("Analysis returned no usable result")
		}
		common.WithError(err).Error("Failed to analyze room. Exiting.")
		return report, fmt.Errorf("analyze step: %w", err)
	}
	report.Analysis = result

	common.Infof("Step 2: Saving analysis result to %s...", opts.AnalysisOutputPath)
	if err := utils.WriteJSON(opts.AnalysisOutputPath, result); err != nil {
		common.WithError(err).Error("Failed to save analysis result. Exiting.")
		return report, fmt.Errorf("save step: %w", err)
	}
	report.AnalysisPath = opts.AnalysisOutputPath

	common.Info("Step 3: Generating cleaned image...")
	generation, err := p.generator.Generate(ctx, opts.ImagePath, map[string]interface{}(result))
	report.Generation = generation
	if err != nil {
		common.WithError(err).Error("Failed to generate image. Exiting.")
		return report, fmt.Errorf("generate step: %w", err)
	}

	if p.publisher != nil {
		p.publish(ctx, report)
	}

	common.WithFields(map[string]interface{}{
		"analysis_path": report.AnalysisPath,
		"image_path":    generation.OutputPath,
	}).Info("Finished: cleaned image and analysis result generated")
	return report, nil
}

// publish 上传分析结果与生成图片，失败只记录日志，不影响本地文件
func (p *Pipeline) publish(ctx context.Context, report *Report) {
	url, err := p.publisher.PublishFile(ctx, report.AnalysisPath, "application/json")
	if err != nil {
		common.WithError(err).Error("Failed to publish analysis result")
	} else {
		report.AnalysisURL = url
	}

	url, err = p.publisher.PublishFile(ctx, report.Generation.OutputPath, report.Generation.MIMEType)
	if err != nil {
		common.WithError(err).Error("Failed to publish generated image")
	} else {
		report.ImageURL = url
	}
}
