package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"roomclean/common"
	"roomclean/internal/analyzer"
	"roomclean/internal/generator"
	"roomclean/internal/instructions"
	"roomclean/internal/pipeline"
	"roomclean/internal/utils"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RoomAnalyzer 房间状态分析
type RoomAnalyzer interface {
	Analyze(ctx context.Context, imagePath, promptPath string) (analyzer.Result, error)
}

// ImageGenerator 整理后图片生成
type ImageGenerator interface {
	Generate(ctx context.Context, imagePath string, instructions interface{}) (*generator.Result, error)
}

// Runner 完整流程
type Runner interface {
	Run(ctx context.Context, opts pipeline.Options) (*pipeline.Report, error)
}

// Defaults 工具参数未提供时使用的默认路径
type Defaults struct {
	ImagePath          string
	PromptPath         string
	AnalysisOutputPath string
}

// RoomTools 房间整理相关的 MCP tools
type RoomTools struct {
	analyzer  RoomAnalyzer
	generator ImageGenerator
	runner    Runner
	defaults  Defaults
}

// NewRoomTools 创建 RoomTools
func NewRoomTools(a RoomAnalyzer, g ImageGenerator, r Runner, defaults Defaults) *RoomTools {
	return &RoomTools{
		analyzer:  a,
		generator: g,
		runner:    r,
		defaults:  defaults,
	}
}

// Register 注册房间分析、图片生成与完整流程三个 MCP tools
func (t *RoomTools) Register(s *server.MCPServer) {
	analyzeTool := mcp.NewTool(
		"analyze_room",
		mcp.WithDescription("Analyze a room photo against a rubric prompt using Gemini. Returns the condition assessment and improvement suggestions as JSON."),
		mcp.WithString("image_path",
			mcp.Description("Path to the room photo. Defaults to the configured ROOM_IMAGE_PATH."),
		),
		mcp.WithString("prompt_path",
			mcp.Description("Path to the rubric prompt text file. Defaults to the configured ROOM_PROMPT_PATH."),
		),
	)
	s.AddTool(analyzeTool, t.handleAnalyze)

	generateTool := mcp.NewTool(
		"generate_cleaned_room",
		mcp.WithDescription("Generate an image of the room after tidying, following cleanup instructions. Returns the output image path."),
		mcp.WithString("image_path",
			mcp.Description("Path to the room photo. Defaults to the configured ROOM_IMAGE_PATH."),
		),
		mcp.WithString("instructions_json",
			mcp.Description("Cleanup instructions as a JSON document ({\"tasks\": [...]} or {\"improvement_suggestions\": [...]})."),
		),
		mcp.WithString("instructions_path",
			mcp.Description("Path to a JSON or YAML instructions file, used when instructions_json is empty."),
		),
	)
	s.AddTool(generateTool, t.handleGenerate)

	runTool := mcp.NewTool(
		"run_room_cleanup",
		mcp.WithDescription("Run the full workflow: analyze the room, save the analysis JSON, then generate the cleaned room image."),
		mcp.WithString("image_path",
			mcp.Description("Path to the room photo. Defaults to the configured ROOM_IMAGE_PATH."),
		),
		mcp.WithString("prompt_path",
			mcp.Description("Path to the rubric prompt text file. Defaults to the configured ROOM_PROMPT_PATH."),
		),
	)
	s.AddTool(runTool, t.handleRun)
}

func (t *RoomTools) handleAnalyze(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	imagePath := req.GetString("image_path", t.defaults.ImagePath)
	promptPath := req.GetString("prompt_path", t.defaults.PromptPath)

	result, err := t.analyzer.Analyze(ctx, imagePath, promptPath)
	if err != nil {
		common.WithError(err).WithField("image_path", imagePath).Error("MCP: analyze_room failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to analyze room: %v", err)), nil
	}

	data, err := utils.MarshalPretty(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode analysis: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (t *RoomTools) handleGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	imagePath := req.GetString("image_path", t.defaults.ImagePath)

	var input interface{}
	if raw := req.GetString("instructions_json", ""); raw != "" {
		if err := json.Unmarshal([]byte(raw), &input); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("instructions_json is not valid JSON: %v", err)), nil
		}
	} else if path := req.GetString("instructions_path", ""); path != "" {
		v, err := instructions.LoadFile(path)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		input = v
	} else {
		return mcp.NewToolResultError("one of instructions_json or instructions_path is required"), nil
	}

	result, err := t.generator.Generate(ctx, imagePath, input)
	if err != nil {
		common.WithError(err).WithField("image_path", imagePath).Error("MCP: generate_cleaned_room failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to generate image: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Generated image: %s", result.OutputPath)), nil
}

func (t *RoomTools) handleRun(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts := pipeline.Options{
		ImagePath:          req.GetString("image_path", t.defaults.ImagePath),
		PromptPath:         req.GetString("prompt_path", t.defaults.PromptPath),
		AnalysisOutputPath: t.defaults.AnalysisOutputPath,
	}

	report, err := t.runner.Run(ctx, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("room cleanup failed: %v", err)), nil
	}

	text := fmt.Sprintf("Analysis saved: %s\nGenerated image: %s", report.AnalysisPath, report.Generation.OutputPath)
	if report.ImageURL != "" {
		text += fmt.Sprintf("\nPublished image: %s", report.ImageURL)
	}
	return mcp.NewToolResultText(text), nil
}
