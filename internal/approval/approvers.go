package approval

import (
	"encoding/json"
	"strings"

	"approvalhub/internal/common"
)

// GroupApprovers 会签/或签审批组
type GroupApprovers struct {
	UserIDs        string    `json:"user_ids"`
	TaskActionType GroupMode `json:"task_action_type"`
}

// Approvers 审批人参数
// Mode 为空表示未配置审批人（序列化为 false），依次审批为逗号分隔的用户ID，会签/或签为审批组列表
type Approvers struct {
	Mode       ApprovalType
	Sequential string
	Groups     []GroupApprovers
}

// Configured 是否配置了审批人
func (a Approvers) Configured() bool {
	return a.Mode != ""
}

// MarshalJSON 按钉钉接口要求输出 false / 字符串 / 列表
func (a Approvers) MarshalJSON() ([]byte, error) {
	switch a.Mode {
	case ApprovalSequential:
		return json.Marshal(a.Sequential)
	case ApprovalGroup:
		groups := a.Groups
		if groups == nil {
			groups = []GroupApprovers{}
		}
		return json.Marshal(groups)
	default:
		return []byte("false"), nil
	}
}

// GetApprovers 返回审批人列表
func GetApprovers(control *ApprovalControl) Approvers {
	switch control.ApprovalType {
	case ApprovalSequential:
		return Approvers{
			Mode:       ApprovalSequential,
			Sequential: joinDingIDs(control.UsersOf(UserKindApprover)),
		}
	case ApprovalGroup:
		groups := make([]GroupApprovers, 0, len(control.GroupLines))
		for _, line := range control.GroupLines {
			members := make([]Employee, 0, len(line.Members))
			for _, m := range line.Members {
				if m.Employee != nil {
					members = append(members, *m.Employee)
				}
			}
			groups = append(groups, GroupApprovers{
				UserIDs:        joinDingIDs(members),
				TaskActionType: line.Mode,
			})
		}
		return Approvers{Mode: ApprovalGroup, Groups: groups}
	default:
		return Approvers{}
	}
}

// CcUsers 抄送参数
type CcUsers struct {
	UserIDs string    `json:"cc_list"`
	Trigger CcTrigger `json:"cc_position"`
}

// GetCcUsers 返回抄送人列表
// 抄送人不超过一个时视为未配置抄送，返回 ok=false
func GetCcUsers(control *ApprovalControl) (CcUsers, bool, error) {
	cc := control.UsersOf(UserKindCc)
	if len(cc) <= 1 {
		return CcUsers{}, false, nil
	}
	if control.CcTrigger == "" {
		return CcUsers{}, false, ErrMissingConfiguration
	}
	return CcUsers{UserIDs: joinDingIDs(cc), Trigger: control.CcTrigger}, true, nil
}

// ValidateGroupLine 校验审批组人数：单人只能一个，会签/或签必须多于一个
func ValidateGroupLine(line *GroupApprovalLine) error {
	switch line.Mode {
	case GroupNone, "":
		if len(line.Members) != 1 {
			return common.NewBusinessError(common.CodeInvalidApproverGroup, msgGroupNoneSize)
		}
	case GroupAnd, GroupOr:
		if len(line.Members) <= 1 {
			return common.NewBusinessError(common.CodeInvalidApproverGroup, msgGroupMultiSize)
		}
	default:
		return common.NewBusinessError(common.CodeInvalidApproverGroup, "审批组类型不支持: "+string(line.Mode))
	}
	return nil
}

func joinDingIDs(employees []Employee) string {
	ids := make([]string, len(employees))
	for i, e := range employees {
		ids[i] = e.DingID
	}
	return strings.Join(ids, ",")
}
