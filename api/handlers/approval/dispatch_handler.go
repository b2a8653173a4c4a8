package approval

import (
	"approvalhub/internal/approval"
	"approvalhub/internal/auth"
	"approvalhub/internal/common"
	"approvalhub/internal/dispatch"
	"approvalhub/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DispatchHandler 按钮调用 Handler
type DispatchHandler struct {
	dispatcher *dispatch.Dispatcher
	resetter   *approval.Resetter
}

// NewDispatchHandler 创建 DispatchHandler 实例
func NewDispatchHandler(dispatcher *dispatch.Dispatcher, resetter *approval.Resetter) *DispatchHandler {
	return &DispatchHandler{dispatcher: dispatcher, resetter: resetter}
}

// CallButton 执行单据按钮
// @Summary 执行单据按钮
// @Description 受审批控制的单据先校验审批状态，放行后转发至业务系统
// @Tags Dispatch
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dispatch.Call true "按钮调用"
// @Success 200 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Router /api/dataset/call_button [post]
func (h *DispatchHandler) CallButton(c *gin.Context) {
	var call dispatch.Call
	if err := c.ShouldBindJSON(&call); err != nil {
		common.ResponseBadRequest(c, "请求参数错误: "+err.Error())
		return
	}
	if userCtx, ok := auth.GetUserContext(c); ok {
		call.CompanyID = userCtx.CompanyID
		call.UserID = userCtx.UserID
	}

	result, err := h.dispatcher.Call(c.Request.Context(), &call)
	if err != nil {
		common.ResponseErr(c, err)
		return
	}
	common.ResponseSuccess(c, result)
}

// ForceReset 强制重置单据审批状态
// @Summary 强制重置单据审批状态
// @Description 直接改写单据的审批状态和审批结果，仅限审批管理员
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body approval.ResetRequest true "重置参数"
// @Success 200 {object} common.APIResponse
// @Failure 400 {object} common.APIResponse
// @Failure 500 {object} common.APIResponse
// @Router /api/admin/approval/reset [post]
func (h *DispatchHandler) ForceReset(c *gin.Context) {
	var req approval.ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	userID := c.GetString("user_id")
	logger.WithContext(c.Request.Context()).Info("管理员强制重置单据",
		zap.String("user_id", userID),
		zap.String("table", req.Table),
		zap.Int64("res_id", req.RecordID),
	)
	if err := h.resetter.ForceReset(c.Request.Context(), req); err != nil {
		common.ResponseErr(c, err)
		return
	}
	common.ResponseSuccessMessage(c, "单据审批状态已重置", nil)
}
