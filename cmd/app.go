package cmd

import (
	"context"

	"roomclean/common"
	"roomclean/internal/analyzer"
	"roomclean/internal/genai/gemini"
	"roomclean/internal/generator"
	"roomclean/internal/oss"
	"roomclean/internal/pipeline"
	"roomclean/internal/prompt"
)

// app 一次进程调用中使用的全部组件
type app struct {
	cfg       *common.Config
	analyzer  *analyzer.Analyzer
	generator *generator.Generator
	pipeline  *pipeline.Pipeline
}

// newApp 加载并校验配置，然后构建各组件
// override 在校验和日志初始化之前应用命令行参数
func newApp(ctx context.Context, override func(*common.Config)) (*app, error) {
	var overrides []func(*common.Config)
	if override != nil {
		overrides = append(overrides, override)
	}
	cfg, err := common.LoadConfig(overrides...)
	if err != nil {
		return nil, err
	}

	common.WithFields(map[string]interface{}{
		"base_url":      cfg.GenAIBaseURL,
		"analyze_model": cfg.GenAIAnalyzeModelName,
		"image_model":   cfg.GenAIImageModelName,
		"api_key":       common.MaskAPIKey(cfg.GenAIAPIKey),
		"oss_enabled":   cfg.OSSEnabled(),
	}).Debug("Configuration loaded")

	analyzeClient, err := gemini.NewAnalyzeClientFromConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	imageClient, err := gemini.NewImageClientFromConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := analyzer.New(analyzeClient)
	g, err := generator.New(imageClient, generator.Config{
		OutputPath: cfg.ImageOutputPath,
		Locale:     prompt.LocaleByName(cfg.PromptLocale),
	})
	if err != nil {
		return nil, err
	}

	var publisher pipeline.ResultPublisher
	p, err := oss.NewPublisherFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	if p != nil {
		publisher = p
	}

	return &app{
		cfg:       cfg,
		analyzer:  a,
		generator: g,
		pipeline:  pipeline.New(a, g, publisher),
	}, nil
}
