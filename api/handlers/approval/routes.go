package approval

import (
	"approvalhub/internal/auth"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册审批配置、按钮调用和管理员路由，apiGroup 需已完成认证
func RegisterRoutes(apiGroup *gin.RouterGroup, controls *ControlHandler, dispatch *DispatchHandler) {
	adminGuard := auth.RequireAdmin()

	approvalGroup := apiGroup.Group("/approval")
	{
		approvalGroup.GET("/controls", controls.ListControls)
		approvalGroup.GET("/controls/:id", controls.GetControl)
		approvalGroup.POST("/controls", adminGuard, controls.CreateControl)
		approvalGroup.PUT("/controls/:id", adminGuard, controls.UpdateControl)
		approvalGroup.DELETE("/controls/:id", adminGuard, controls.DeleteControl)
		approvalGroup.POST("/controls/:id/reload", adminGuard, controls.ReloadModule)
		approvalGroup.GET("/controls/:id/actions/open", controls.OpenRecord)
		approvalGroup.GET("/controls/:id/actions/list", controls.OpenList)

		approvalGroup.GET("/models", controls.ListModels)
		approvalGroup.POST("/models/:model/select", adminGuard, controls.SelectModel)
		approvalGroup.GET("/models/:model/buttons", controls.ListButtons)
		approvalGroup.GET("/models/:model/fields", controls.ListFields)
		approvalGroup.GET("/models/:model/fields/:field/onchange", controls.OnchangeField)
		approvalGroup.GET("/models/:model/fields/:field/subfields", controls.SubFields)
		approvalGroup.GET("/models/:model/submission", controls.PreviewSubmission)

		approvalGroup.GET("/employees", controls.ListEmployees)
		approvalGroup.GET("/field-kinds", controls.ListFieldKinds)
	}

	apiGroup.POST("/dataset/call_button", dispatch.CallButton)

	adminGroup := apiGroup.Group("/admin", adminGuard)
	{
		adminGroup.POST("/approval/reset", dispatch.ForceReset)
	}
}
