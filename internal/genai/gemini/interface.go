package gemini

import "context"

// Image 请求中携带的内联图片
type Image struct {
	Data     []byte
	MIMEType string
}

// TextGenerator 图片 + 文本 → 文本（房间状态分析）
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, image Image) (string, error)
}

// ContentGenerator 图片 + 文本 → 文本/图片混合响应（整理后的房间图片）
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt string, image Image) (*Response, error)
}
