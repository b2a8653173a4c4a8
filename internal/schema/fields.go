package schema

import "sort"

// FieldKind 字段类型
type FieldKind string

// 基础字段类型（与业务系统字段定义一致）
const (
	KindBinary            FieldKind = "binary"
	KindBoolean           FieldKind = "boolean"
	KindChar              FieldKind = "char"
	KindDate              FieldKind = "date"
	KindDatetime          FieldKind = "datetime"
	KindFloat             FieldKind = "float"
	KindHTML              FieldKind = "html"
	KindInteger           FieldKind = "integer"
	KindMany2many         FieldKind = "many2many"
	KindMany2one          FieldKind = "many2one"
	KindMany2oneReference FieldKind = "many2one_reference"
	KindMonetary          FieldKind = "monetary"
	KindOne2many          FieldKind = "one2many"
	KindReference         FieldKind = "reference"
	KindSelection         FieldKind = "selection"
	KindText              FieldKind = "text"
)

// 审批单特有的图片类型，业务系统字段定义中不存在
const (
	KindImage    FieldKind = "image"
	KindImageURL FieldKind = "image_url"
)

var primitiveKinds = map[FieldKind]struct{}{
	KindBinary: {}, KindBoolean: {}, KindChar: {}, KindDate: {}, KindDatetime: {},
	KindFloat: {}, KindHTML: {}, KindInteger: {}, KindMany2many: {}, KindMany2one: {},
	KindMany2oneReference: {}, KindMonetary: {}, KindOne2many: {}, KindReference: {},
	KindSelection: {}, KindText: {},
}

// FieldKinds 可选字段类型列表：基础类型按字母排序，图片类型追加在末尾
func FieldKinds() []FieldKind {
	kinds := make([]FieldKind, 0, len(primitiveKinds)+2)
	for k := range primitiveKinds {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return append(kinds, KindImage, KindImageURL)
}

// Valid 是否为支持的字段类型
func (k FieldKind) Valid() bool {
	if k == KindImage || k == KindImageURL {
		return true
	}
	_, ok := primitiveKinds[k]
	return ok
}

// Field 单据字段定义
type Field struct {
	Name     string    `yaml:"name" json:"name"`
	Label    string    `yaml:"label" json:"label"`
	Kind     FieldKind `yaml:"kind" json:"kind"`
	Relation string    `yaml:"relation,omitempty" json:"relation,omitempty"` // 关联单据类型（many2one/one2many 等）
}

// ResolveFieldType 字段类型映射到审批单支持的类型
func ResolveFieldType(f Field) (FieldKind, bool) {
	if !f.Kind.Valid() {
		return "", false
	}
	return f.Kind, true
}
