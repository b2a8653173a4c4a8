package approval

import (
	"approvalhub/internal/auth"
	"approvalhub/internal/common"
	"approvalhub/internal/schema"

	"github.com/gin-gonic/gin"
)

// ListModels 可配置审批的单据类型
// @Summary 可配置审批的单据类型
// @Tags Approval
// @Security BearerAuth
// @Produce json
// @Success 200 {object} common.APIResponse
// @Router /api/approval/models [get]
func (h *ControlHandler) ListModels(c *gin.Context) {
	types := h.registry.Governable()
	options := make([]ModelOption, 0, len(types))
	for _, rt := range types {
		options = append(options, ModelOption{Model: rt.Model, Name: rt.Name})
	}
	common.ResponseSuccess(c, options)
}

// SelectModel 选择单据类型，登记表单按钮
// @Summary 选择单据类型
// @Description 读取单据表单头部按钮并登记为可禁用功能，重复调用不会重复登记
// @Tags Approval
// @Security BearerAuth
// @Produce json
// @Param model path string true "单据类型"
// @Success 200 {object} common.APIResponse
// @Failure 400 {object} common.APIResponse
// @Router /api/approval/models/{model}/select [post]
func (h *ControlHandler) SelectModel(c *gin.Context) {
	buttons, err := h.store.SelectRecordType(c.Request.Context(), auth.CompanyID(c), c.Param("model"))
	if err != nil {
		common.ResponseErr(c, err)
		return
	}
	common.ResponseSuccess(c, buttons)
}

// ListButtons 单据可禁用的功能按钮
// @Summary 单据可禁用的功能按钮
// @Tags Approval
// @Security BearerAuth
// @Produce json
// @Param model path string true "单据类型"
// @Success 200 {object} common.APIResponse
// @Router /api/approval/models/{model}/buttons [get]
func (h *ControlHandler) ListButtons(c *gin.Context) {
	buttons, err := h.store.ListButtons(c.Request.Context(), auth.CompanyID(c), c.Param("model"))
	if err != nil {
		common.ResponseErr(c, err)
		return
	}
	common.ResponseSuccess(c, buttons)
}

// ListFields 单据可映射字段
// @Summary 单据可映射字段
// @Tags Approval
// @Security BearerAuth
// @Produce json
// @Param model path string true "单据类型"
// @Success 200 {object} common.APIResponse
// @Failure 400 {object} common.APIResponse
// @Router /api/approval/models/{model}/fields [get]
func (h *ControlHandler) ListFields(c *gin.Context) {
	fields, err := h.store.Fields().MappingCandidates(c.Param("model"))
	if err != nil {
		common.ResponseErr(c, err)
		return
	}
	common.ResponseSuccess(c, fields)
}

// OnchangeField 选择字段时的自动填充
// @Summary 选择字段时的自动填充
// @Tags Approval
// @Security BearerAuth
// @Produce json
// @Param model path string true "单据类型"
// @Param field path string true "字段名"
// @Success 200 {object} common.APIResponse
// @Failure 400 {object} common.APIResponse
// @Router /api/approval/models/{model}/fields/{field}/onchange [get]
func (h *ControlHandler) OnchangeField(c *gin.Context) {
	prefill, err := h.store.Fields().OnchangeField(c.Param("model"), c.Param("field"))
	if err != nil {
		common.ResponseErr(c, err)
		return
	}
	common.ResponseSuccess(c, prefill)
}

// SubFields 一对多字段可选的明细字段
// @Summary 明细可选字段
// @Tags Approval
// @Security BearerAuth
// @Produce json
// @Param model path string true "单据类型"
// @Param field path string true "一对多字段名"
// @Success 200 {object} common.APIResponse
// @Failure 400 {object} common.APIResponse
// @Router /api/approval/models/{model}/fields/{field}/subfields [get]
func (h *ControlHandler) SubFields(c *gin.Context) {
	fields, err := h.store.Fields().CascadeSubFieldDomain(c.Param("model"), c.Param("field"))
	if err != nil {
		common.ResponseErr(c, err)
		return
	}
	common.ResponseSuccess(c, fields)
}

// PreviewSubmission 预览提交审批的参数
// @Summary 预览提交审批参数
// @Description 返回审批人、抄送人和表单字段取值规则
// @Tags Approval
// @Security BearerAuth
// @Produce json
// @Param model path string true "单据类型"
// @Success 200 {object} common.APIResponse
// @Failure 400 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /api/approval/models/{model}/submission [get]
func (h *ControlHandler) PreviewSubmission(c *gin.Context) {
	params, err := h.store.SubmissionParams(c.Request.Context(), auth.CompanyID(c), c.Param("model"))
	if err != nil {
		common.ResponseErr(c, err)
		return
	}
	common.ResponseSuccess(c, params)
}

// ListEmployees 可选审批人/抄送人
// @Summary 可选审批人/抄送人
// @Tags Approval
// @Security BearerAuth
// @Produce json
// @Success 200 {object} common.APIResponse
// @Router /api/approval/employees [get]
func (h *ControlHandler) ListEmployees(c *gin.Context) {
	employees, err := h.store.SelectableEmployees(c.Request.Context(), auth.CompanyID(c))
	if err != nil {
		common.ResponseErr(c, err)
		return
	}
	common.ResponseSuccess(c, employees)
}

// ListFieldKinds 字段类型选项
// @Summary 字段类型选项
// @Tags Approval
// @Security BearerAuth
// @Produce json
// @Success 200 {object} common.APIResponse
// @Router /api/approval/field-kinds [get]
func (h *ControlHandler) ListFieldKinds(c *gin.Context) {
	kinds := schema.FieldKinds()
	options := make([]FieldKindOption, len(kinds))
	for i, k := range kinds {
		options[i] = FieldKindOption{Value: k, Label: string(k)}
	}
	common.ResponseSuccess(c, options)
}
