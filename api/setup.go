package api

import (
	_ "approvalhub/api/docs"
	"approvalhub/internal/config"
	"approvalhub/internal/logger"
	"approvalhub/internal/metrics"
	middlewarepkg "approvalhub/internal/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupRouter 设置并返回 Gin 路由和应用容器
func SetupRouter(db *gorm.DB, cfg *config.Config) (*gin.Engine, *AppContainer) {
	container, err := InitContainer(db, cfg)
	if err != nil {
		logger.Fatal("初始化应用容器失败", zap.Error(err))
	}

	router := NewRouter(container, container.InitHandlers())
	return router, container
}

// NewRouter 挂载全局中间件、系统路由和业务路由
func NewRouter(container *AppContainer, handlers *Handlers) *gin.Engine {
	router := gin.New()

	// 全局中间件
	router.Use(gin.Recovery())
	router.Use(middlewarepkg.RequestIDMiddleware())
	router.Use(middlewarepkg.AccessLog())
	router.Use(CORS())
	router.Use(metrics.PrometheusMiddleware())

	// 健康检查
	router.GET("/health", HealthCheck())
	router.GET("/ready", ReadinessCheck(container))

	// Prometheus 指标
	router.GET("/metrics", metrics.Handler())

	// Swagger 文档
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	RegisterRoutes(router, container, handlers)
	return router
}
