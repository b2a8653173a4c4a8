package api

import (
	approvalHandlers "approvalhub/api/handlers/approval"
	"approvalhub/internal/auth"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册所有 API 路由
func RegisterRoutes(router *gin.Engine, container *AppContainer, handlers *Handlers) {
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware(container.JWTService))
	approvalHandlers.RegisterRoutes(api, handlers.Control, handlers.Dispatch)

	// 版本化 API 组
	apiV1 := router.Group("/api/v1")
	apiV1.Use(auth.AuthMiddleware(container.JWTService))
	approvalHandlers.RegisterRoutes(apiV1, handlers.Control, handlers.Dispatch)
}
