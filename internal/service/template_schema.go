package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"changeready_go/internal/model"
)

// ParseStatus 模板解析结果的状态
type ParseStatus int

const (
	// ParseOK 至少解析出一个分类
	ParseOK ParseStatus = iota
	// ParseEmpty 输入为空、格式错误或没有可用节点，按空层级处理
	ParseEmpty
)

// ParseResult 是模板分类层级的解析结果。
// 解析失败不会以 error 返回给聚合调用方，Err 仅用于日志。
type ParseResult struct {
	Status     ParseStatus
	Categories []model.TemplateCategory
	Err        error
}

var errNotArray = errors.New("categories json is not an array")

func emptyResult(err error) ParseResult {
	return ParseResult{Status: ParseEmpty, Categories: []model.TemplateCategory{}, Err: err}
}

// ParseCategories 容错解析 categoriesJson。
// 每一层（分类、子分类、题目）单独解码：null 或非对象元素被跳过，
// 某个叶子字段类型不对只影响该字段，不会中断兄弟节点的解析。
func ParseCategories(raw []byte) ParseResult {
	if len(bytes.TrimSpace(raw)) == 0 {
		return emptyResult(nil)
	}

	elems, err := decodeArray(raw)
	if err != nil {
		return emptyResult(err)
	}

	categories := make([]model.TemplateCategory, 0, len(elems))
	for _, elem := range elems {
		fields, ok := decodeObject(elem)
		if !ok {
			continue
		}
		category := model.TemplateCategory{
			Name:          decodeString(fields["name"]),
			Subcategories: parseSubcategories(fields["subcategories"]),
		}
		categories = append(categories, category)
	}

	if len(categories) == 0 {
		return emptyResult(nil)
	}
	return ParseResult{Status: ParseOK, Categories: categories}
}

func parseSubcategories(raw json.RawMessage) []model.TemplateSubcategory {
	elems, err := decodeArray(raw)
	if err != nil {
		return []model.TemplateSubcategory{}
	}
	subs := make([]model.TemplateSubcategory, 0, len(elems))
	for _, elem := range elems {
		fields, ok := decodeObject(elem)
		if !ok {
			continue
		}
		subs = append(subs, model.TemplateSubcategory{
			Name:      decodeString(fields["name"]),
			Questions: parseQuestions(fields["questions"]),
		})
	}
	return subs
}

func parseQuestions(raw json.RawMessage) []model.TemplateQuestion {
	elems, err := decodeArray(raw)
	if err != nil {
		return []model.TemplateQuestion{}
	}
	questions := make([]model.TemplateQuestion, 0, len(elems))
	for _, elem := range elems {
		fields, ok := decodeObject(elem)
		if !ok {
			continue
		}
		questions = append(questions, model.TemplateQuestion{
			ID:      strings.TrimSpace(decodeString(fields["id"])),
			Text:    decodeString(fields["text"]),
			Reverse: decodeBool(fields["reverse"]),
			OnlyPMA: decodeBool(fields["onlyPMA"]),
		})
	}
	return questions
}

// decodeArray 解码 JSON 数组；缺失或 null 视为空数组。
func decodeArray(raw json.RawMessage) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] != '[' {
		return nil, errNotArray
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, err
	}
	return elems, nil
}

func decodeObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, false
	}
	return fields, true
}

// decodeString 接受字符串或数字（数字按字面量转成文本），其他类型返回空串。
func decodeString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// decodeBool 接受 true/false 或字符串 "true"，其他一律为 false。
func decodeBool(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.EqualFold(strings.TrimSpace(s), "true")
	}
	return false
}

// countQuestions 统计参与者可见的题目数：onlyPMA 题只对 PMA 计数。
// 缺少 id 的题目同样计数。
func countQuestions(categories []model.TemplateCategory, participant model.ParticipantType) int {
	total := 0
	for _, c := range categories {
		for _, s := range c.Subcategories {
			for _, q := range s.Questions {
				if q.OnlyPMA && participant != model.ParticipantPMA {
					continue
				}
				total++
			}
		}
	}
	return total
}
