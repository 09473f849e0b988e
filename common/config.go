package common

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config 应用配置结构
type Config struct {
	// 通用 GenAI 配置（分析与生成共用同一套 BaseURL / APIKey）
	GenAIBaseURL string
	GenAIAPIKey  string
	// 分别用于房间分析与图片生成的模型名称
	GenAIAnalyzeModelName string
	GenAIImageModelName   string
	// 图片生成温度
	GenAITemperature float64
	// GenAI 请求超时时间（秒），0 表示使用传输层默认值
	GenAITimeoutSeconds int

	// 工作流输入输出路径
	RoomImagePath      string
	RoomPromptPath     string
	AnalysisOutputPath string
	ImageOutputPath    string
	InstructionsPath   string
	InstructionsURL    string
	// 提示词语言: en 或 ja
	PromptLocale string

	ServerAddress string
	ServerPort    string
	// OSS 配置（OSSBucket 为空时不上传）
	OSSEndpoint  string
	OSSRegion    string
	OSSAccessKey string
	OSSSecretKey string
	OSSBucket    string
	OSSPrefix    string
	// 日志配置
	LogLevel  string // 日志级别: debug, info, warn, error
	LogFormat string // 日志格式: json, text
	LogOutput string // 输出位置: stdout, stderr, file
	LogFile   string // 日志文件路径（当 LogOutput 为 file 时）
}

// LoadConfig 从 .env 文件和环境变量加载配置，并在进程启动时完成一次校验
// overrides 在校验与日志初始化之前依次应用（例如命令行参数）
func LoadConfig(overrides ...func(*Config)) (*Config, error) {
	// 加载 .env 文件（如果存在），不存在时直接使用环境变量
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{
		GenAIBaseURL:          getEnv("GENAI_BASE_URL", ""),
		GenAIAPIKey:           getEnv("GENAI_API_KEY", getEnv("API_KEY", "")),
		GenAIAnalyzeModelName: getEnv("GENAI_ANALYZE_MODEL_NAME", "gemini-2.5-flash"),
		GenAIImageModelName:   getEnv("GENAI_IMAGE_MODEL_NAME", "gemini-2.0-flash-preview-image-generation"),
		GenAITemperature:      getEnvFloat("GENAI_TEMPERATURE", 0.7),
		GenAITimeoutSeconds:   getEnvInt("GENAI_TIMEOUT_SECONDS", 0),

		RoomImagePath:      getEnv("ROOM_IMAGE_PATH", "image/img2.png"),
		RoomPromptPath:     getEnv("ROOM_PROMPT_PATH", "prompt/get_score_and_solve.txt"),
		AnalysisOutputPath: getEnv("ANALYSIS_OUTPUT_PATH", "analysis_result.json"),
		ImageOutputPath:    getEnv("IMAGE_OUTPUT_PATH", "image/after_image.png"),
		InstructionsPath:   getEnv("INSTRUCTIONS_PATH", "instructions.json"),
		InstructionsURL:    getEnv("INSTRUCTIONS_URL", "http://localhost:8080/"),
		PromptLocale:       getEnv("PROMPT_LOCALE", "en"),

		ServerAddress: getEnv("SERVER_ADDRESS", "0.0.0.0"),
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		// OSS 配置
		OSSEndpoint:  getEnv("OSS_ENDPOINT", ""),
		OSSRegion:    getEnv("OSS_REGION", "us-east-1"),
		OSSAccessKey: getEnv("OSS_ACCESS_KEY", ""),
		OSSSecretKey: getEnv("OSS_SECRET_KEY", ""),
		OSSBucket:    getEnv("OSS_BUCKET", ""),
		OSSPrefix:    getEnv("OSS_PREFIX", "roomclean/"),
		// 日志配置
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogOutput: getEnv("LOG_OUTPUT", "stdout"),
		LogFile:   getEnv("LOG_FILE", ""),
	}

	for _, override := range overrides {
		override(config)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	// 初始化日志系统
	if err := InitLogger(config.LogConfig()); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return config, nil
}

// Validate 校验必需的配置项
func (c *Config) Validate() error {
	if c.GenAIAPIKey == "" {
		return fmt.Errorf("GENAI_API_KEY (or API_KEY) is required; set it in the environment or a .env file")
	}
	if c.GenAIAnalyzeModelName == "" || c.GenAIImageModelName == "" {
		return fmt.Errorf("GENAI_ANALYZE_MODEL_NAME and GENAI_IMAGE_MODEL_NAME must not be empty")
	}
	switch c.PromptLocale {
	case "en", "ja":
	default:
		return fmt.Errorf("unsupported PROMPT_LOCALE: %s", c.PromptLocale)
	}
	return nil
}

// LogConfig 返回日志配置
func (c *Config) LogConfig() *LogConfig {
	return &LogConfig{
		Level:    c.LogLevel,
		Format:   c.LogFormat,
		Output:   c.LogOutput,
		FilePath: c.LogFile,
	}
}

// GenAITimeout 返回请求超时时间，0 表示不额外设置
func (c *Config) GenAITimeout() time.Duration {
	if c.GenAITimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.GenAITimeoutSeconds) * time.Second
}

// OSSEnabled 是否配置了结果上传
func (c *Config) OSSEnabled() bool {
	return c.OSSBucket != ""
}

// GetServerAddr 返回完整的服务器地址
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.ServerAddress, c.ServerPort)
}

// MaskAPIKey 隐藏 API Key 的敏感部分
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}

// getEnv 获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt 获取整型环境变量
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if i, err := strconv.Atoi(value); err == nil {
		return i
	}
	return defaultValue
}

// getEnvFloat 获取浮点型环境变量
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	return defaultValue
}
