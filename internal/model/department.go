package model

import "strings"

// Department 部门枚举，是独立于干系人分组的聚合维度。
type Department string

const (
	DepartmentEinkauf            Department = "EINKAUF"
	DepartmentVertrieb           Department = "VERTRIEB"
	DepartmentLagerLogistik      Department = "LAGER_LOGISTIK"
	DepartmentIT                 Department = "IT"
	DepartmentGeschaeftsfuehrung Department = "GESCHAEFTSFUEHRUNG"
)

// Departments 按固定顺序列出全部部门，报表按此顺序输出。
var Departments = []Department{
	DepartmentEinkauf,
	DepartmentVertrieb,
	DepartmentLagerLogistik,
	DepartmentIT,
	DepartmentGeschaeftsfuehrung,
}

var departmentDisplayNames = map[Department]string{
	DepartmentEinkauf:            "Einkauf",
	DepartmentVertrieb:           "Vertrieb",
	DepartmentLagerLogistik:      "Lager & Logistik",
	DepartmentIT:                 "IT",
	DepartmentGeschaeftsfuehrung: "Geschäftsführung",
}

// DisplayName 返回部门的展示名称，未知值原样返回。
func (d Department) DisplayName() string {
	if name, ok := departmentDisplayNames[d]; ok {
		return name
	}
	return string(d)
}

func (d Department) Valid() bool {
	_, ok := departmentDisplayNames[d]
	return ok
}

// ParseDepartment 接受枚举名（大小写不敏感）或展示名。
func ParseDepartment(raw string) (Department, bool) {
	raw = strings.TrimSpace(raw)
	if d := Department(strings.ToUpper(raw)); d.Valid() {
		return d, true
	}
	for d, name := range departmentDisplayNames {
		if strings.EqualFold(name, raw) {
			return d, true
		}
	}
	return "", false
}
