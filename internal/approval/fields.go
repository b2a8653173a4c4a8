package approval

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"approvalhub/internal/schema"
)

// 明细子字段不可选的类型
var excludedSubFieldKinds = map[schema.FieldKind]struct{}{
	schema.KindOne2many: {},
	schema.KindBinary:   {},
	schema.KindBoolean:  {},
}

// hiddenFieldPrefix 以 has_ 开头的字段为计算标记字段，不参与映射
const hiddenFieldPrefix = "has_"

// FieldResolver 字段映射解析
type FieldResolver struct {
	registry *schema.Registry
}

// NewFieldResolver 创建字段映射解析器
func NewFieldResolver(registry *schema.Registry) *FieldResolver {
	return &FieldResolver{registry: registry}
}

// FieldPrefill 选择字段后自动填充的值
type FieldPrefill struct {
	DestField string           `json:"dd_field"`
	FieldKind schema.FieldKind `json:"ttype"`
}

// MappingRule 钉钉表单字段取值规则
type MappingRule struct {
	DestField string           `json:"dd_field"`
	Source    string           `json:"source"`
	Kind      schema.FieldKind `json:"kind"`
	UseID     bool             `json:"use_id"`
	Columns   []MappingRule    `json:"columns,omitempty"`
}

// ResolveIcon 渲染审批模板图标，未绑定模板或模板无图标时返回 false
func ResolveIcon(control *ApprovalControl) (string, bool) {
	if control.Template == nil || control.Template.IconURL == "" {
		return "", false
	}
	return fmt.Sprintf(`<img src="%s" width="80px" height="80px">`, html.EscapeString(control.Template.IconURL)), true
}

// MappingCandidates 可映射的字段
func (r *FieldResolver) MappingCandidates(model string) ([]schema.Field, error) {
	rt, err := r.recordType(model)
	if err != nil {
		return nil, err
	}
	fields := make([]schema.Field, 0, len(rt.Fields))
	for _, f := range rt.Fields {
		if !strings.HasPrefix(f.Name, hiddenFieldPrefix) {
			fields = append(fields, f)
		}
	}
	return fields, nil
}

// OnchangeField 选择单据字段时填充钉钉字段名和字段类型
func (r *FieldResolver) OnchangeField(model, field string) (FieldPrefill, error) {
	f, err := r.sourceField(model, field)
	if err != nil {
		return FieldPrefill{}, err
	}
	kind, _ := schema.ResolveFieldType(f)
	return FieldPrefill{DestField: f.Label, FieldKind: kind}, nil
}

// CascadeSubFieldDomain 一对多字段的明细可选子字段（排除一对多、二进制、布尔类型）
func (r *FieldResolver) CascadeSubFieldDomain(model, lineField string) ([]schema.Field, error) {
	sub, err := r.subModel(model, lineField)
	if err != nil {
		return nil, err
	}
	fields := make([]schema.Field, 0, len(sub.Fields))
	for _, f := range sub.Fields {
		if _, excluded := excludedSubFieldKinds[f.Kind]; !excluded {
			fields = append(fields, f)
		}
	}
	return fields, nil
}

// ValidateLines 校验字段映射并补全字段类型和钉钉字段名
func (r *FieldResolver) ValidateLines(model string, lines []FieldMappingLine) error {
	for i := range lines {
		line := &lines[i]
		f, err := r.sourceField(model, line.SourceField)
		if err != nil {
			return err
		}
		if line.FieldKind == "" {
			line.FieldKind = f.Kind
		} else if !line.FieldKind.Valid() {
			return invalidMapping("字段 %s 的类型不支持: %s", line.SourceField, line.FieldKind)
		}
		if line.DestField == "" {
			line.DestField = f.Label
		}

		if len(line.ListLines) == 0 {
			continue
		}
		allowed, err := r.CascadeSubFieldDomain(model, line.SourceField)
		if err != nil {
			return err
		}
		for j := range line.ListLines {
			sub := &line.ListLines[j]
			sf, ok := findField(allowed, sub.SubField)
			if !ok {
				return invalidMapping("明细字段 %s 不能选择 %s", line.SourceField, sub.SubField)
			}
			if sub.DestField == "" {
				sub.DestField = sf.Label
			}
		}
	}
	return nil
}

// ResolveMappingPlan 生成钉钉表单字段取值规则，按序号排序
func ResolveMappingPlan(control *ApprovalControl) []MappingRule {
	lines := append([]FieldMappingLine(nil), control.Lines...)
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Sequence < lines[j].Sequence })

	plan := make([]MappingRule, 0, len(lines))
	for _, line := range lines {
		rule := MappingRule{
			DestField: line.DestField,
			Source:    line.SourceField,
			Kind:      line.FieldKind,
			UseID:     line.UseID,
		}
		subs := append([]ListMappingLine(nil), line.ListLines...)
		sort.SliceStable(subs, func(i, j int) bool { return subs[i].Sequence < subs[j].Sequence })
		for _, sub := range subs {
			rule.Columns = append(rule.Columns, MappingRule{
				DestField: sub.DestField,
				Source:    sub.SubField,
				UseID:     sub.UseID,
			})
		}
		plan = append(plan, rule)
	}
	return plan
}

func (r *FieldResolver) recordType(model string) (*schema.RecordType, error) {
	rt, ok := r.registry.Lookup(model)
	if !ok {
		return nil, invalidMapping("单据类型不存在: %s", model)
	}
	return rt, nil
}

func (r *FieldResolver) sourceField(model, field string) (schema.Field, error) {
	candidates, err := r.MappingCandidates(model)
	if err != nil {
		return schema.Field{}, err
	}
	f, ok := findField(candidates, field)
	if !ok {
		return schema.Field{}, invalidMapping("单据 %s 不存在可映射字段 %s", model, field)
	}
	return f, nil
}

func (r *FieldResolver) subModel(model, lineField string) (*schema.RecordType, error) {
	rt, err := r.recordType(model)
	if err != nil {
		return nil, err
	}
	f, ok := rt.Field(lineField)
	if !ok || f.Kind != schema.KindOne2many {
		return nil, invalidMapping("字段 %s 不是一对多字段", lineField)
	}
	sub, ok := r.registry.Lookup(f.Relation)
	if !ok {
		return nil, invalidMapping("明细单据类型不存在: %s", f.Relation)
	}
	return sub, nil
}

func findField(fields []schema.Field, name string) (schema.Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return schema.Field{}, false
}
