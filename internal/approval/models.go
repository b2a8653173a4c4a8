package approval

import (
	"approvalhub/internal/common"
	"approvalhub/internal/schema"

	"gorm.io/datatypes"
)

// ApprovalType 审批类型
type ApprovalType string

const (
	ApprovalSequential ApprovalType = "turn" // 依次审批
	ApprovalGroup      ApprovalType = "huo"  // 会签/或签
)

// GroupMode 审批组类型
type GroupMode string

const (
	GroupAnd  GroupMode = "AND"  // 会签
	GroupOr   GroupMode = "OR"   // 或签
	GroupNone GroupMode = "NONE" // 单人
)

// CcTrigger 抄送时间
type CcTrigger string

const (
	CcOnStart       CcTrigger = "START"
	CcOnFinish      CcTrigger = "FINISH"
	CcOnStartFinish CcTrigger = "START_FINISH"
)

// RecordKind 单据类型
type RecordKind string

const (
	RecordKindOA       RecordKind = "oa"  // OA单据
	RecordKindBusiness RecordKind = "bus" // 业务单据
)

// Phase 审批阶段，对应四个禁用功能列表
type Phase string

const (
	PhaseStart   Phase = "start"   // 审批前
	PhasePending Phase = "pending" // 审批中
	PhasePass    Phase = "pass"    // 审批通过
	PhaseRefuse  Phase = "refuse"  // 审批拒绝
)

// Phases 全部阶段，按校验优先级排序
var Phases = []Phase{PhaseStart, PhasePending, PhasePass, PhaseRefuse}

// Valid 阶段是否合法
func (p Phase) Valid() bool {
	switch p {
	case PhaseStart, PhasePending, PhasePass, PhaseRefuse:
		return true
	}
	return false
}

// 用户引用类型
const (
	UserKindApprover = "approver"
	UserKindCc       = "cc"
)

// ApprovalControl 审批配置，每个公司每种单据最多一条
type ApprovalControl struct {
	ID        string `json:"id" gorm:"primaryKey;size:36"`
	Name      string `json:"name" gorm:"size:255;not null"`
	CompanyID uint   `json:"company_id" gorm:"not null;uniqueIndex:idx_approval_control_company_model"`
	Model     string `json:"model" gorm:"size:128;not null;uniqueIndex:idx_approval_control_company_model"`

	TemplateID *string           `json:"template_id,omitempty" gorm:"size:36;index"`
	Template   *ApprovalTemplate `json:"template,omitempty" gorm:"foreignKey:TemplateID"`
	Kind       RecordKind        `json:"ftype" gorm:"column:ftype;size:8;default:oa"`

	Lines      []FieldMappingLine  `json:"lines" gorm:"foreignKey:ControlID;constraint:OnDelete:CASCADE"`
	Buttons    []ControlButton     `json:"buttons" gorm:"foreignKey:ControlID;constraint:OnDelete:CASCADE"`
	Users      []ControlUser       `json:"users" gorm:"foreignKey:ControlID;constraint:OnDelete:CASCADE"`
	GroupLines []GroupApprovalLine `json:"group_lines" gorm:"foreignKey:ControlID;constraint:OnDelete:CASCADE"`

	// 审批回调执行的函数名
	StartFunction   string `json:"approval_start_function" gorm:"size:255"`
	RestartFunction string `json:"approval_restart_function" gorm:"size:255"`
	PassFunction    string `json:"approval_pass_function" gorm:"size:255"`
	RefuseFunction  string `json:"approval_refuse_function" gorm:"size:255"`
	EndFunction     string `json:"approval_end_function" gorm:"size:255"`

	EditableWhilePending bool `json:"is_ing_write" gorm:"default:false"`
	EditableAfterEnd     bool `json:"is_end_write" gorm:"default:false"`

	ApprovalType ApprovalType `json:"approval_type" gorm:"size:8"`
	CcTrigger    CcTrigger    `json:"cc_type" gorm:"size:16"`
	Remarks      string       `json:"remarks" gorm:"type:text"`

	common.TimestampModel
}

func (ApprovalControl) TableName() string { return "approval_controls" }

// ButtonFunctions 指定阶段禁用的按钮方法名
func (c *ApprovalControl) ButtonFunctions(phase Phase) []string {
	var functions []string
	for _, b := range c.Buttons {
		if b.Phase == phase && b.Button != nil {
			functions = append(functions, b.Button.Function)
		}
	}
	return functions
}

// UsersOf 按顺序返回指定类型的员工
func (c *ApprovalControl) UsersOf(kind string) []Employee {
	var result []Employee
	for _, u := range c.Users {
		if u.Kind == kind && u.Employee != nil {
			result = append(result, *u.Employee)
		}
	}
	return result
}

// FieldMappingLine 字段对应关系
type FieldMappingLine struct {
	ID          uint              `json:"id" gorm:"primaryKey"`
	ControlID   string            `json:"control_id" gorm:"size:36;not null;index"`
	Sequence    int               `json:"sequence"`
	SourceField string            `json:"field" gorm:"size:128;not null"`
	FieldKind   schema.FieldKind  `json:"ttype" gorm:"column:field_kind;size:32"`
	DestField   string            `json:"dd_field" gorm:"size:255"`
	UseID       bool              `json:"is_dd_id"`
	ListLines   []ListMappingLine `json:"list_lines" gorm:"foreignKey:LineID;constraint:OnDelete:CASCADE"`
}

func (FieldMappingLine) TableName() string { return "approval_control_lines" }

// ListMappingLine 一对多明细字段对应关系
type ListMappingLine struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	LineID    uint   `json:"line_id" gorm:"not null;index"`
	Sequence  int    `json:"sequence"`
	SubField  string `json:"field" gorm:"size:128;not null"`
	DestField string `json:"dd_field" gorm:"size:255"`
	UseID     bool   `json:"is_dd_id"`
}

func (ListMappingLine) TableName() string { return "approval_control_lists" }

// GroupApprovalLine 会签/或签审批组
type GroupApprovalLine struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	ControlID string        `json:"control_id" gorm:"size:36;not null;index"`
	Sequence  int           `json:"sequence"`
	Mode      GroupMode     `json:"approval_type" gorm:"size:8;not null;default:NONE"`
	Members   []GroupMember `json:"members" gorm:"foreignKey:LineID;constraint:OnDelete:CASCADE"`
}

func (GroupApprovalLine) TableName() string { return "approval_group_lines" }

// GroupMember 审批组成员
type GroupMember struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	LineID     uint      `json:"line_id" gorm:"not null;index"`
	EmployeeID uint      `json:"employee_id" gorm:"not null"`
	Employee   *Employee `json:"employee,omitempty" gorm:"foreignKey:EmployeeID"`
	Sequence   int       `json:"sequence"`
}

func (GroupMember) TableName() string { return "approval_group_members" }

// ControlUser 审批人/抄送人
type ControlUser struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ControlID  string    `json:"control_id" gorm:"size:36;not null;index"`
	EmployeeID uint      `json:"employee_id" gorm:"not null"`
	Employee   *Employee `json:"employee,omitempty" gorm:"foreignKey:EmployeeID"`
	Kind       string    `json:"kind" gorm:"size:16;not null"`
	Sequence   int       `json:"sequence"`
}

func (ControlUser) TableName() string { return "approval_control_users" }

// ControlButton 阶段禁用按钮
type ControlButton struct {
	ID        uint              `json:"id" gorm:"primaryKey"`
	ControlID string            `json:"control_id" gorm:"size:36;not null;index"`
	ButtonID  uint              `json:"button_id" gorm:"not null"`
	Button    *ButtonDescriptor `json:"button,omitempty" gorm:"foreignKey:ButtonID"`
	Phase     Phase             `json:"phase" gorm:"size:16;not null"`
}

func (ControlButton) TableName() string { return "approval_control_buttons" }

// ButtonDescriptor 单据表单上的功能按钮
type ButtonDescriptor struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Model       string         `json:"model" gorm:"size:128;not null;uniqueIndex:idx_model_button"`
	Function    string         `json:"function" gorm:"size:128;not null;uniqueIndex:idx_model_button"`
	CompanyID   uint           `json:"company_id" gorm:"not null;uniqueIndex:idx_model_button"`
	Name        string         `json:"name" gorm:"size:255"`
	Modifiers   datatypes.JSON `json:"modifiers,omitempty"`
	DisplayName string         `json:"display_name" gorm:"-"`
	common.TimestampModel
}

func (ButtonDescriptor) TableName() string { return "approval_model_buttons" }

// Employee 员工，DingID 为钉钉用户ID
type Employee struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	CompanyID uint   `json:"company_id" gorm:"not null;index"`
	Name      string `json:"name" gorm:"size:128;not null"`
	DingID    string `json:"ding_id" gorm:"column:ding_id;size:64"`
	Active    bool   `json:"active" gorm:"default:true"`
}

func (Employee) TableName() string { return "approval_employees" }

// ApprovalTemplate 钉钉审批模板
type ApprovalTemplate struct {
	ID          string `json:"id" gorm:"primaryKey;size:36"`
	CompanyID   uint   `json:"company_id" gorm:"not null;index"`
	Name        string `json:"name" gorm:"size:255;not null"`
	ProcessCode string `json:"process_code" gorm:"size:128;not null"`
	IconURL     string `json:"icon_avatar_url" gorm:"size:512"`
	common.TimestampModel
}

func (ApprovalTemplate) TableName() string { return "approval_templates" }

// AllModels 需要迁移的模型
func AllModels() []any {
	return []any{
		&ApprovalTemplate{},
		&Employee{},
		&ButtonDescriptor{},
		&ApprovalControl{},
		&FieldMappingLine{},
		&ListMappingLine{},
		&GroupApprovalLine{},
		&GroupMember{},
		&ControlUser{},
		&ControlButton{},
	}
}
