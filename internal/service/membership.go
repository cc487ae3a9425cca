package service

import (
	"strings"
	"unicode"

	"changeready_go/internal/model"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// 分组名称到部门的固定映射，key 为 normalizeGroupKey 之后的结果。
var departmentAliases = map[string]model.Department{
	"einkauf":               model.DepartmentEinkauf,
	"vertrieb":              model.DepartmentVertrieb,
	"lagerlogistik":         model.DepartmentLagerLogistik,
	"lagerundlogistik":      model.DepartmentLagerLogistik,
	"lagerlogistikund":      model.DepartmentLagerLogistik,
	"it":                    model.DepartmentIT,
	"geschaeftsfuehrung":    model.DepartmentGeschaeftsfuehrung,
	"geschaftsfuhrung":      model.DepartmentGeschaeftsfuehrung,
	"geschaeftsfuehrungund": model.DepartmentGeschaeftsfuehrung,
}

var germanFold = strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss", "&", "und")

// normalizeGroupKey：去空白、转小写、德语变音展开、其余附加符号去除、& → und、只保留 a-z0-9。
func normalizeGroupKey(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = germanFold.Replace(s)
	if folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s); err == nil {
		s = folded
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ResolveDepartment 按名称启发式地把分组映射到部门。
func ResolveDepartment(groupName string) (model.Department, bool) {
	key := normalizeGroupKey(groupName)
	if key == "" {
		return "", false
	}
	d, ok := departmentAliases[key]
	return d, ok
}

// groupScope 描述一个分组覆盖哪些已提交实例。
// byDepartment 为 true 时按部门标签取数，否则按成员关联到的用户取数。
type groupScope struct {
	byDepartment bool
	department   model.Department
	userIDs      map[uint]struct{}
	personCount  int
}

func (g groupScope) includes(inst *model.SurveyInstance) bool {
	if g.byDepartment {
		return inst.Department == g.department
	}
	_, ok := g.userIDs[inst.UserID]
	return ok
}

// membershipStrategy 决定"谁属于这个分组"。返回 false 表示本策略不适用，交给下一个策略。
type membershipStrategy interface {
	resolve(group *model.StakeholderGroup, persons []model.StakeholderPerson) (groupScope, bool)
}

// departmentMatch 分组名称能映射到部门时，按部门标签取全部已提交实例。
type departmentMatch struct{}

func (departmentMatch) resolve(group *model.StakeholderGroup, persons []model.StakeholderPerson) (groupScope, bool) {
	d, ok := ResolveDepartment(group.Name)
	if !ok {
		return groupScope{}, false
	}
	return groupScope{byDepartment: true, department: d, personCount: len(persons)}, true
}

// emailLink 成员邮箱与本公司用户邮箱一致时，取这些用户的已提交实例。总是适用。
type emailLink struct {
	usersByEmail map[string]uint
}

func (e emailLink) resolve(group *model.StakeholderGroup, persons []model.StakeholderPerson) (groupScope, bool) {
	ids := make(map[uint]struct{}, len(persons))
	for _, p := range persons {
		if uid, ok := e.usersByEmail[emailKey(p.Email)]; ok {
			ids[uid] = struct{}{}
		}
	}
	return groupScope{userIDs: ids, personCount: len(persons)}, true
}

// membershipResolver 依次尝试各策略，取第一个适用的结果。
type membershipResolver struct {
	strategies []membershipStrategy
}

func (r membershipResolver) resolve(group *model.StakeholderGroup, persons []model.StakeholderPerson) groupScope {
	for _, s := range r.strategies {
		if scope, ok := s.resolve(group, persons); ok {
			return scope
		}
	}
	return groupScope{userIDs: map[uint]struct{}{}, personCount: len(persons)}
}

// departmentFirst 用于干系人与报表：部门映射优先，邮箱关联兜底。
func departmentFirst(usersByEmail map[string]uint) membershipResolver {
	return membershipResolver{strategies: []membershipStrategy{departmentMatch{}, emailLink{usersByEmail: usersByEmail}}}
}

// emailOnly 用于仪表盘 KPI，只按成员邮箱关联计算。
func emailOnly(usersByEmail map[string]uint) membershipResolver {
	return membershipResolver{strategies: []membershipStrategy{emailLink{usersByEmail: usersByEmail}}}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
