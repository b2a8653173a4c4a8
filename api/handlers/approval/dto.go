package approval

import (
	"approvalhub/internal/approval"
	"approvalhub/internal/schema"
)

// MappingLineRequest 字段对应关系
type MappingLineRequest struct {
	Field     string            `json:"field" binding:"required"`
	FieldType schema.FieldKind  `json:"ttype"`
	DestField string            `json:"dd_field"`
	UseID     bool              `json:"is_dd_id"`
	ListLines []ListLineRequest `json:"list_lines"`
}

// ListLineRequest 明细字段对应关系
type ListLineRequest struct {
	Field     string `json:"field" binding:"required"`
	DestField string `json:"dd_field"`
	UseID     bool   `json:"is_dd_id"`
}

// GroupLineRequest 审批组
type GroupLineRequest struct {
	Mode        approval.GroupMode `json:"approval_type"`
	EmployeeIDs []uint             `json:"employee_ids"`
}

// ControlRequest 创建/更新审批配置请求
type ControlRequest struct {
	Name       string               `json:"name" binding:"required"`
	Model      string               `json:"model" binding:"required"`
	TemplateID *string              `json:"template_id"`
	Kind       approval.RecordKind  `json:"ftype"`
	Lines      []MappingLineRequest `json:"lines"`

	ApprovalType approval.ApprovalType `json:"approval_type"`
	ApproverIDs  []uint                `json:"approver_ids"`
	GroupLines   []GroupLineRequest    `json:"group_lines"`
	CcIDs        []uint                `json:"cc_ids"`
	CcType       approval.CcTrigger    `json:"cc_type"`

	StartButtonIDs   []uint `json:"model_start_button_ids"`
	PendingButtonIDs []uint `json:"model_button_ids"`
	PassButtonIDs    []uint `json:"model_pass_button_ids"`
	RefuseButtonIDs  []uint `json:"model_end_button_ids"`

	StartFunction   string `json:"approval_start_function"`
	RestartFunction string `json:"approval_restart_function"`
	PassFunction    string `json:"approval_pass_function"`
	RefuseFunction  string `json:"approval_refuse_function"`
	EndFunction     string `json:"approval_end_function"`

	EditableWhilePending bool   `json:"is_ing_write"`
	EditableAfterEnd     bool   `json:"is_end_write"`
	Remarks              string `json:"remarks"`
}

// ToModel 转换为审批配置，未指定抄送时间时默认为开始时抄送
func (r *ControlRequest) ToModel() *approval.ApprovalControl {
	control := &approval.ApprovalControl{
		Name:                 r.Name,
		Model:                r.Model,
		TemplateID:           r.TemplateID,
		Kind:                 r.Kind,
		ApprovalType:         r.ApprovalType,
		CcTrigger:            r.CcType,
		StartFunction:        r.StartFunction,
		RestartFunction:      r.RestartFunction,
		PassFunction:         r.PassFunction,
		RefuseFunction:       r.RefuseFunction,
		EndFunction:          r.EndFunction,
		EditableWhilePending: r.EditableWhilePending,
		EditableAfterEnd:     r.EditableAfterEnd,
		Remarks:              r.Remarks,
	}
	if control.CcTrigger == "" {
		control.CcTrigger = approval.CcOnStart
	}

	for _, l := range r.Lines {
		line := approval.FieldMappingLine{
			SourceField: l.Field,
			FieldKind:   l.FieldType,
			DestField:   l.DestField,
			UseID:       l.UseID,
		}
		for _, sub := range l.ListLines {
			line.ListLines = append(line.ListLines, approval.ListMappingLine{
				SubField:  sub.Field,
				DestField: sub.DestField,
				UseID:     sub.UseID,
			})
		}
		control.Lines = append(control.Lines, line)
	}

	for _, id := range r.ApproverIDs {
		control.Users = append(control.Users, approval.ControlUser{EmployeeID: id, Kind: approval.UserKindApprover})
	}
	for _, id := range r.CcIDs {
		control.Users = append(control.Users, approval.ControlUser{EmployeeID: id, Kind: approval.UserKindCc})
	}
	for _, g := range r.GroupLines {
		line := approval.GroupApprovalLine{Mode: g.Mode}
		for _, id := range g.EmployeeIDs {
			line.Members = append(line.Members, approval.GroupMember{EmployeeID: id})
		}
		control.GroupLines = append(control.GroupLines, line)
	}

	phases := []struct {
		phase approval.Phase
		ids   []uint
	}{
		{approval.PhaseStart, r.StartButtonIDs},
		{approval.PhasePending, r.PendingButtonIDs},
		{approval.PhasePass, r.PassButtonIDs},
		{approval.PhaseRefuse, r.RefuseButtonIDs},
	}
	for _, p := range phases {
		for _, id := range p.ids {
			control.Buttons = append(control.Buttons, approval.ControlButton{ButtonID: id, Phase: p.phase})
		}
	}
	return control
}

// ControlResponse 审批配置详情
type ControlResponse struct {
	*approval.ApprovalControl
	Icon      string             `json:"icon,omitempty"`
	Approvers approval.Approvers `json:"approvers"`
}

func newControlResponse(control *approval.ApprovalControl) ControlResponse {
	icon, _ := approval.ResolveIcon(control)
	return ControlResponse{
		ApprovalControl: control,
		Icon:            icon,
		Approvers:       approval.GetApprovers(control),
	}
}

// FieldKindOption 字段类型选项
type FieldKindOption struct {
	Value schema.FieldKind `json:"value"`
	Label string           `json:"label"`
}

// ModelOption 可配置审批的单据类型
type ModelOption struct {
	Model string `json:"model"`
	Name  string `json:"name"`
}
