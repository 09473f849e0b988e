package prompt

import "fmt"

// Locale 一套提示词措辞
type Locale struct {
	Name string
	// 子句之间的连接符
	Connector string

	// 整理任务子句
	Move    func(item, from, to string) string
	PutAway func(item, location string) string
	// 改进建议子句
	Suggestion func(targetArea, suggestion string) string

	// 各形态的前导说明
	TaskPreamble       func(clauses string) string
	SuggestionPreamble func(clauses string) string
	FallbackPreamble   string
	FallbackContext    func(raw string) string
}

// English 默认语言
var English = Locale{
	Name:      "en",
	Connector: ", ",
	Move: func(item, from, to string) string {
		return fmt.Sprintf("%s moves from %s to %s", item, from, to)
	},
	PutAway: func(item, location string) string {
		return fmt.Sprintf("%s is put away at %s", item, location)
	},
	Suggestion: func(targetArea, suggestion string) string {
		return fmt.Sprintf("%s: %s", targetArea, suggestion)
	},
	TaskPreamble: func(clauses string) string {
		return "This image shows a messy room. You need to clean this room. " +
			"Read the following instructions carefully, organize them, carry them out in priority order, " +
			"and generate an image of the room after it has been tidied up. The instructions are: " +
			clauses + ". That is all."
	},
	SuggestionPreamble: func(clauses string) string {
		return "This image shows a messy room. " +
			"Follow the instructions below and generate an image of the room after it has been tidied up.\n" +
			"Instructions: " + clauses
	},
	FallbackPreamble: "This image shows a messy room. Analyze the image and tidy up the room, " +
		"then generate an image of the room after it has been tidied up.",
	FallbackContext: func(raw string) string {
		return "\nInstructions for context: " + raw
	},
}

// Japanese 日语措辞
var Japanese = Locale{
	Name:      "ja",
	Connector: "、",
	Move: func(item, from, to string) string {
		return fmt.Sprintf("%sにある%sを%sに移動する", from, item, to)
	},
	PutAway: func(item, location string) string {
		return fmt.Sprintf("%sを%sに片付ける", item, location)
	},
	Suggestion: func(targetArea, suggestion string) string {
		return fmt.Sprintf("%sを%s", targetArea, suggestion)
	},
	TaskPreamble: func(clauses string) string {
		return "この画像は、散らかった部屋Aの画像です。" +
			"あなたはこの部屋Aを綺麗にする必要があります。" +
			"私がこれから言う指示をよく読んで内容を整理し、優先度の高い順に処理を実施して、" +
			"部屋Aを整理整頓した後の状態の画像を生成してください。指示は下記の通りです。:" +
			clauses + "以上です。"
	},
	SuggestionPreamble: func(clauses string) string {
		return "この画像は、散らかった部屋の画像です。" +
			"以下の指示に従って、部屋を整理整頓した後の状態の画像を生成してください。\n" +
			"指示: " + clauses
	},
	FallbackPreamble: "この画像は、散らかった部屋の画像です。画像を分析し、整理整頓してください。",
	FallbackContext: func(raw string) string {
		return "\n参考情報: " + raw
	},
}

// LocaleByName 根据名称返回措辞，未知名称返回 English
func LocaleByName(name string) Locale {
	if name == Japanese.Name {
		return Japanese
	}
	return English
}
