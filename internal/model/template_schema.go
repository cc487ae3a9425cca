package model

// TemplateCategory 是解析后的模板分类节点。
// 层级：Category → Subcategory → Question，顺序与存储一致。
type TemplateCategory struct {
	Name          string                `json:"name"`
	Subcategories []TemplateSubcategory `json:"subcategories"`
}

type TemplateSubcategory struct {
	Name      string             `json:"name"`
	Questions []TemplateQuestion `json:"questions"`
}

// TemplateQuestion 题目。ID 为空表示存储中缺少 id，此类题目参与计数但不参与取值。
type TemplateQuestion struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Reverse bool   `json:"reverse"`
	OnlyPMA bool   `json:"onlyPMA"`
}
