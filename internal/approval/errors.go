package approval

import (
	"fmt"

	"approvalhub/internal/common"
)

// 审批配置错误
var (
	ErrDuplicateConfiguration  = common.NewBusinessErrorWithCode(common.CodeDuplicateConfiguration)
	ErrConfigurationIncomplete = common.NewBusinessErrorWithCode(common.CodeConfigurationIncomplete)
	ErrInvalidApproverGroup    = common.NewBusinessErrorWithCode(common.CodeInvalidApproverGroup)
	ErrMissingConfiguration    = common.NewBusinessErrorWithCode(common.CodeMissingConfiguration)
	ErrActionDenied            = common.NewBusinessErrorWithCode(common.CodeActionDenied)
	ErrResetFailed             = common.NewBusinessErrorWithCode(common.CodeResetFailed)
	ErrInvalidMapping          = common.NewBusinessErrorWithCode(common.CodeInvalidMapping)
	ErrModelNotGovernable      = common.NewBusinessErrorWithCode(common.CodeModelNotGovernable)
	ErrControlNotFound         = common.NewBusinessError(common.CodeNotFound, "审批配置不存在")
)

// 会签/或签人数校验提示
const (
	msgGroupNoneSize  = "非会签/或签时，审批人的长度只能为1"
	msgGroupMultiSize = "会签/或签时，审批人的长度必须大于1"
)

// 各阶段禁用提示
var denyMessages = map[Phase]string{
	PhaseStart:   "本功能暂无法使用，因为单据还没有'提交至钉钉'进行审批，请先提交至钉钉进行审批后再试！",
	PhasePending: "本功能暂无法使用，因为单据还是'钉钉审批中'状态。请在单据审批后再试！",
	PhasePass:    "本功能暂无法使用，因为单据已经配置了'审批通过后'不允许使用本功能。",
	PhaseRefuse:  "本功能暂无法使用，因为单据已经配置了'审批拒绝后'不允许使用本功能。",
}

// ActionDeniedError 审批状态不允许执行该功能
type ActionDeniedError struct {
	Model    string
	RecordID int64
	Method   string
	Phase    Phase
}

func (e *ActionDeniedError) Error() string {
	return denyMessages[e.Phase]
}

// Unwrap 转换为业务错误，HTTP 层按 CodeActionDenied 返回
func (e *ActionDeniedError) Unwrap() error {
	return common.NewBusinessError(common.CodeActionDenied, e.Error())
}

// ResetError 强制重置失败
type ResetError struct {
	Table string
	Cause error
}

func (e *ResetError) Error() string {
	return fmt.Sprintf("强制重置失败，原因为：%v", e.Cause)
}

// Unwrap 同时暴露业务错误和底层原因
func (e *ResetError) Unwrap() []error {
	return []error{common.NewBusinessError(common.CodeResetFailed, e.Error()), e.Cause}
}

func invalidMapping(format string, args ...any) error {
	return common.NewBusinessError(common.CodeInvalidMapping, fmt.Sprintf(format, args...))
}
