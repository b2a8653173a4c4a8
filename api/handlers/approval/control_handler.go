package approval

import (
	"approvalhub/internal/approval"
	"approvalhub/internal/auth"
	"approvalhub/internal/common"
	"approvalhub/internal/schema"

	"github.com/gin-gonic/gin"
)

// ControlHandler 审批配置 Handler
type ControlHandler struct {
	store    *approval.Store
	registry *schema.Registry
}

// NewControlHandler 创建 ControlHandler 实例
func NewControlHandler(store *approval.Store, registry *schema.Registry) *ControlHandler {
	return &ControlHandler{store: store, registry: registry}
}

// ListControls 查询审批配置列表
// @Summary 查询审批配置列表
// @Description 获取当前公司的审批配置，按单据类型排序
// @Tags Approval
// @Security BearerAuth
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} common.APIResponse
// @Failure 500 {object} common.APIResponse
// @Router /api/approval/controls [get]
func (h *ControlHandler) ListControls(c *gin.Context) {
	var page common.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		common.ResponseBadRequest(c, "分页参数错误: "+err.Error())
		return
	}

	controls, total, err := h.store.List(c.Request.Context(), auth.CompanyID(c), page)
	if err != nil {
		common.ResponseErr(c, err)
		return
	}
	common.ResponseList(c, controls, total, page)
}

// GetControl 获取审批配置详情
// @Summary 获取审批配置详情
// @Tags Approval
// @Security BearerAuth
// @Produce json
// @Param id path string true "配置ID"
// @Success 200 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /api/approval/controls/{id} [get]
func (h *ControlHandler) GetControl(c *gin.Context) {
	control, err := h.store.Get(c.Request.Context(), auth.CompanyID(c), c.Param("id"))
	if err != nil {
		common.ResponseErr(c, err)
		return
	}
	common.ResponseSuccess(c, newControlResponse(control))
}

// CreateControl 创建审批配置
// @Summary 创建审批配置
// @Description 同一公司同一单据类型只能配置一次
// @Tags Approval
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ControlRequest true "配置内容"
// @Success 201 {object} common.APIResponse
// @Failure 400 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Router /api/approval/controls [post]
func (h *ControlHandler) CreateControl(c *gin.Context) {
	var req ControlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	control, err := h.store.Create(c.Request.Context(), auth.CompanyID(c), req.ToModel())
	if err != nil {
		common.ResponseErr(c, err)
		return
	}
	common.ResponseCreated(c, newControlResponse(control))
}

// UpdateControl 更新审批配置
// @Summary 更新审批配置
// @Description 明细整体替换
// @Tags Approval
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "配置ID"
// @Param request body ControlRequest true "配置内容"
// @Success 200 {object} common.APIResponse
// @Failure 400 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Router /api/approval/controls/{id} [put]
func (h *ControlHandler) UpdateControl(c *gin.Context) {
	var req ControlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	control, err := h.store.Update(c.Request.Context(), auth.CompanyID(c), c.Param("id"), req.ToModel())
	if err != nil {
		common.ResponseErr(c, err)
		return
	}
	common.ResponseSuccessMessage(c, "审批配置更新成功", newControlResponse(control))
}

// DeleteControl 删除审批配置
// @Summary 删除审批配置
// @Tags Approval
// @Security BearerAuth
// @Produce json
// @Param id path string true "配置ID"
// @Success 200 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /api/approval/controls/{id} [delete]
func (h *ControlHandler) DeleteControl(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), auth.CompanyID(c), c.Param("id")); err != nil {
		common.ResponseErr(c, err)
		return
	}
	common.ResponseSuccessMessage(c, "审批配置已删除", nil)
}

// ReloadModule 升级单据所属模块
// @Summary 升级单据所属模块
// @Description 至少配置一条字段对应关系后才能升级，成功后前端刷新页面
// @Tags Approval
// @Security BearerAuth
// @Produce json
// @Param id path string true "配置ID"
// @Success 200 {object} common.APIResponse
// @Failure 400 {object} common.APIResponse
// @Router /api/approval/controls/{id}/reload [post]
func (h *ControlHandler) ReloadModule(c *gin.Context) {
	action, err := h.store.ReloadDependentModule(c.Request.Context(), auth.CompanyID(c), c.Param("id"))
	if err != nil {
		common.ResponseErr(c, err)
		return
	}
	common.ResponseSuccess(c, action)
}

// OpenRecord 新建受审批单据的窗口动作
// @Summary 新建受审批单据
// @Tags Approval
// @Security BearerAuth
// @Produce json
// @Param id path string true "配置ID"
// @Success 200 {object} common.APIResponse
// @Router /api/approval/controls/{id}/actions/open [get]
func (h *ControlHandler) OpenRecord(c *gin.Context) {
	control, err := h.store.Get(c.Request.Context(), auth.CompanyID(c), c.Param("id"))
	if err != nil {
		common.ResponseErr(c, err)
		return
	}
	common.ResponseSuccess(c, approval.OpenRecordAction(control))
}

// OpenList 受审批单据列表的窗口动作
// @Summary 跳转至单据列表
// @Tags Approval
// @Security BearerAuth
// @Produce json
// @Param id path string true "配置ID"
// @Success 200 {object} common.APIResponse
// @Router /api/approval/controls/{id}/actions/list [get]
func (h *ControlHandler) OpenList(c *gin.Context) {
	control, err := h.store.Get(c.Request.Context(), auth.CompanyID(c), c.Param("id"))
	if err != nil {
		common.ResponseErr(c, err)
		return
	}
	common.ResponseSuccess(c, h.store.OpenListAction(control))
}
