package schema

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// 本服务自身的配置单据类型，不可作为审批对象
var reservedModels = map[string]struct{}{
	"approval.control":        {},
	"approval.control.line":   {},
	"approval.control.list":   {},
	"approval.group.line":     {},
	"approval.control.user":   {},
	"approval.control.button": {},
	"approval.model.button":   {},
	"approval.template":       {},
	"approval.employee":       {},
}

// RecordType 可审批的单据类型
type RecordType struct {
	Model     string   `yaml:"model" json:"model"`
	Name      string   `yaml:"name" json:"name"`
	Table     string   `yaml:"table,omitempty" json:"table"`
	Modules   []string `yaml:"modules" json:"modules"`
	Transient bool     `yaml:"transient,omitempty" json:"transient"`
	Fields    []Field  `yaml:"fields" json:"fields"`
	FormView  string   `yaml:"form_view,omitempty" json:"-"`
}

// TableName 单据数据表名，未配置时由模型名转换（点号替换为下划线）
func (rt *RecordType) TableName() string {
	if rt.Table != "" {
		return rt.Table
	}
	return TableNameOf(rt.Model)
}

// Field 按名称查找字段
func (rt *RecordType) Field(name string) (Field, bool) {
	for _, f := range rt.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// TableNameOf 模型名转换为表名
func TableNameOf(model string) string {
	return strings.ReplaceAll(model, ".", "_")
}

// Registry 单据类型注册表
type Registry struct {
	mu      sync.RWMutex
	types   map[string]*RecordType
	byTable map[string]*RecordType
}

type registryFile struct {
	RecordTypes []RecordType `yaml:"record_types"`
}

// NewRegistry 创建注册表
func NewRegistry(types ...RecordType) (*Registry, error) {
	r := &Registry{
		types:   make(map[string]*RecordType, len(types)),
		byTable: make(map[string]*RecordType, len(types)),
	}
	for i := range types {
		if err := r.Register(types[i]); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// LoadRegistry 从 YAML 文件加载注册表
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取单据注册表失败: %w", err)
	}
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("解析单据注册表失败: %w", err)
	}
	return NewRegistry(file.RecordTypes...)
}

// Register 注册单据类型
func (r *Registry) Register(rt RecordType) error {
	if rt.Model == "" {
		return fmt.Errorf("单据类型缺少 model")
	}
	for _, f := range rt.Fields {
		if !f.Kind.Valid() {
			return fmt.Errorf("单据类型 %s 字段 %s 类型不支持: %s", rt.Model, f.Name, f.Kind)
		}
	}
	if rt.Table == "" {
		rt.Table = TableNameOf(rt.Model)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[rt.Model]; exists {
		return fmt.Errorf("单据类型重复注册: %s", rt.Model)
	}
	r.types[rt.Model] = &rt
	r.byTable[rt.Table] = &rt
	return nil
}

// Lookup 按模型名查找
func (r *Registry) Lookup(model string) (*RecordType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.types[model]
	return rt, ok
}

// LookupTable 按表名查找
func (r *Registry) LookupTable(table string) (*RecordType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.byTable[table]
	return rt, ok
}

// IsGovernable 是否可配置审批：排除临时单据和本服务的配置单据
func (r *Registry) IsGovernable(model string) bool {
	rt, ok := r.Lookup(model)
	if !ok || rt.Transient {
		return false
	}
	_, reserved := reservedModels[model]
	return !reserved
}

// Governable 可配置审批的单据类型，按模型名排序
func (r *Registry) Governable() []*RecordType {
	r.mu.RLock()
	models := make([]string, 0, len(r.types))
	for m := range r.types {
		models = append(models, m)
	}
	r.mu.RUnlock()
	sort.Strings(models)

	result := make([]*RecordType, 0, len(models))
	for _, m := range models {
		if r.IsGovernable(m) {
			rt, _ := r.Lookup(m)
			result = append(result, rt)
		}
	}
	return result
}
