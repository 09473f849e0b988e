package gemini

import (
	"encoding/json"

	"google.golang.org/genai"
)

// Part 响应中的一个内容片段，只能是 TextPart、InlineImagePart 或 UnknownPart 之一
type Part interface {
	isPart()
}

// TextPart 文本片段
type TextPart struct {
	Text string
}

// InlineImagePart 内联图片片段
type InlineImagePart struct {
	Data     []byte
	MIMEType string
}

// UnknownPart 无法识别的片段，保留 JSON 形式便于排查
type UnknownPart struct {
	Raw json.RawMessage
}

func (TextPart) isPart()        {}
func (InlineImagePart) isPart() {}
func (UnknownPart) isPart()     {}

// Response 一次生成请求的结果，仅保留第一个候选的内容片段
type Response struct {
	Candidates   int
	FinishReason string
	BlockReason  string
	Parts        []Part
}

// decodeResponse 取第一个候选，将其片段转换为 Part 变体
func decodeResponse(result *genai.GenerateContentResponse) *Response {
	resp := &Response{}
	if result == nil {
		return resp
	}
	if result.PromptFeedback != nil {
		resp.BlockReason = string(result.PromptFeedback.BlockReason)
	}

	resp.Candidates = len(result.Candidates)
	if len(result.Candidates) == 0 || result.Candidates[0] == nil {
		return resp
	}

	candidate := result.Candidates[0]
	resp.FinishReason = string(candidate.FinishReason)
	if candidate.Content == nil {
		return resp
	}

	for _, p := range candidate.Content.Parts {
		if p == nil {
			continue
		}
		resp.Parts = append(resp.Parts, decodePart(p))
	}
	return resp
}

// decodePart 将单个 SDK 片段转换为对应的 Part 变体
func decodePart(p *genai.Part) Part {
	switch {
	case p.InlineData != nil:
		return InlineImagePart{Data: p.InlineData.Data, MIMEType: p.InlineData.MIMEType}
	case p.Text != "" && !p.Thought:
		return TextPart{Text: p.Text}
	default:
		raw, _ := json.Marshal(p)
		return UnknownPart{Raw: raw}
	}
}
