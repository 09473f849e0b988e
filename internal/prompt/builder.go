// Package prompt renders cleanup instructions into the natural-language
// prompt sent to the image model. Rendering never fails: input that matches
// no known shape falls back to a generic tidy-up prompt.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	keyTasks       = "tasks"
	keySuggestions = "improvement_suggestions"
)

// Shape 一种指令形态，负责把自己渲染成提示词
type Shape interface {
	Render(l Locale) string
}

// Task 单个整理任务
type Task struct {
	Action   string
	Item     string
	From     string
	To       string
	Location string
}

// TaskList {"tasks": [...]} 形态
type TaskList []Task

// Suggestion 单条改进建议
type Suggestion struct {
	TargetArea string
	Suggestion string
}

// SuggestionList {"improvement_suggestions": [...]} 形态
type SuggestionList []Suggestion

// Opaque 无法识别的形态，原样作为上下文
type Opaque struct {
	Value interface{}
}

// Builder 按语言渲染提示词
type Builder struct {
	locale Locale
}

// NewBuilder 创建 Builder
func NewBuilder(l Locale) *Builder {
	return &Builder{locale: l}
}

// Build 识别指令形态并渲染提示词
func (b *Builder) Build(instructions interface{}) string {
	return Classify(instructions).Render(b.locale)
}

// Build 使用默认语言渲染提示词
func Build(instructions interface{}) string {
	return NewBuilder(English).Build(instructions)
}

// Classify 根据顶层键选择形态，"tasks" 优先于 "improvement_suggestions"
func Classify(instructions interface{}) Shape {
	value := normalize(instructions)

	obj, ok := value.(map[string]interface{})
	if !ok {
		return Opaque{Value: value}
	}

	if raw, ok := obj[keyTasks]; ok {
		if items, ok := raw.([]interface{}); ok {
			return parseTasks(items)
		}
	}
	if raw, ok := obj[keySuggestions]; ok {
		if items, ok := raw.([]interface{}); ok {
			return parseSuggestions(items)
		}
	}
	return Opaque{Value: value}
}

func parseTasks(items []interface{}) TaskList {
	tasks := make(TaskList, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		tasks = append(tasks, Task{
			Action:   field(m, "action"),
			Item:     field(m, "item"),
			From:     field(m, "from"),
			To:       field(m, "to"),
			Location: field(m, "location"),
		})
	}
	return tasks
}

func parseSuggestions(items []interface{}) SuggestionList {
	suggestions := make(SuggestionList, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			TargetArea: field(m, "target_area"),
			Suggestion: field(m, "suggestion"),
		})
	}
	return suggestions
}

// Clauses 渲染每个可识别任务的子句，未知动作跳过
func (t TaskList) Clauses(l Locale) []string {
	clauses := make([]string, 0, len(t))
	for _, task := range t {
		switch task.Action {
		case "move":
			clauses = append(clauses, l.Move(task.Item, task.From, task.To))
		case "store", "put_away", "organize":
			clauses = append(clauses, l.PutAway(task.Item, task.Location))
		}
	}
	return clauses
}

func (t TaskList) Render(l Locale) string {
	return l.TaskPreamble(strings.Join(t.Clauses(l), l.Connector))
}

func (s SuggestionList) Render(l Locale) string {
	clauses := make([]string, 0, len(s))
	for _, sg := range s {
		clauses = append(clauses, l.Suggestion(sg.TargetArea, sg.Suggestion))
	}
	return l.SuggestionPreamble(strings.Join(clauses, l.Connector))
}

func (o Opaque) Render(l Locale) string {
	if o.Value == nil {
		return l.FallbackPreamble
	}
	return l.FallbackPreamble + l.FallbackContext(stringify(o.Value))
}

// normalize 将任意输入转换为 encoding/json 解码后的通用结构
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case nil, map[string]interface{}, []interface{}, string, float64, bool:
		return t
	case json.RawMessage:
		return decodeOrKeep(t)
	case []byte:
		return decodeOrKeep(t)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Sprint(v)
	}
	return out
}

func decodeOrKeep(data []byte) interface{} {
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return string(data)
	}
	return out
}

// field 读取字符串字段，缺失时返回空字符串
func field(m map[string]interface{}, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return stringify(v)
}

func stringify(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
