package api

import (
	"fmt"
	"time"

	approvalHandlers "approvalhub/api/handlers/approval"
	"approvalhub/internal/approval"
	"approvalhub/internal/auth"
	"approvalhub/internal/config"
	"approvalhub/internal/dispatch"
	"approvalhub/internal/infra"
	"approvalhub/internal/logger"
	"approvalhub/internal/records"
	"approvalhub/internal/schema"
	"approvalhub/pkg/httputil"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AppContainer 应用依赖容器
type AppContainer struct {
	DB     *gorm.DB
	Config *config.Config
	Redis  redis.UniversalClient

	JWTService *auth.JWTService
	Registry   *schema.Registry

	// 审批控制
	EventBus     *approval.ControlEventBus
	ControlCache approval.ControlCache
	Store        *approval.Store
	Gate         *approval.Gate
	Resetter     *approval.Resetter

	// 按钮调用
	Dispatcher *dispatch.Dispatcher
}

// Handlers HTTP 处理器集合
type Handlers struct {
	Control  *approvalHandlers.ControlHandler
	Dispatch *approvalHandlers.DispatchHandler
}

// InitContainer 初始化应用容器
func InitContainer(db *gorm.DB, cfg *config.Config) (*AppContainer, error) {
	container := &AppContainer{
		DB:     db,
		Config: cfg,
	}

	if err := container.initRegistry(cfg); err != nil {
		return nil, err
	}

	container.initAuth(cfg)

	// Redis 不可用时退回进程内缓存
	container.initRedis(cfg)

	container.initApproval(db, cfg)
	container.initDispatch(cfg)

	return container, nil
}

// InitHandlers 初始化所有 Handlers
func (c *AppContainer) InitHandlers() *Handlers {
	return &Handlers{
		Control:  approvalHandlers.NewControlHandler(c.Store, c.Registry),
		Dispatch: approvalHandlers.NewDispatchHandler(c.Dispatcher, c.Resetter),
	}
}

func (c *AppContainer) initRegistry(cfg *config.Config) error {
	registry, err := schema.LoadRegistry(cfg.Approval.RegistryPath)
	if err != nil {
		return fmt.Errorf("加载单据类型注册表失败: %w", err)
	}
	c.Registry = registry
	logger.Info("单据类型注册表已加载",
		zap.String("path", cfg.Approval.RegistryPath),
		zap.Int("governable", len(registry.Governable())),
	)
	return nil
}

func (c *AppContainer) initAuth(cfg *config.Config) {
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		if cfg.Server.Mode == "release" {
			logger.Fatal("auth.jwt_secret 未配置，生产环境禁止使用默认密钥")
		}
		secret = "dev_jwt_secret_change_in_production"
		logger.Warn("auth.jwt_secret 未配置，已回退为开发默认值")
	}
	hours := cfg.Auth.AccessHours
	if hours <= 0 {
		hours = 24
	}
	c.JWTService = auth.NewJWTService(secret, cfg.Auth.Issuer, time.Duration(hours)*time.Hour)
}

func (c *AppContainer) initRedis(cfg *config.Config) {
	if !cfg.Redis.Enabled() {
		return
	}
	client, err := infra.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Warn("Redis 不可用，审批配置缓存退回进程内实现", zap.Error(err))
		return
	}
	c.Redis = client
}

func (c *AppContainer) initApproval(db *gorm.DB, cfg *config.Config) {
	ttl := cfg.Approval.CacheTTLDuration()
	if c.Redis != nil {
		c.ControlCache = approval.NewRedisControlCache(c.Redis, cfg.Approval.CachePrefix, ttl)
	} else {
		c.ControlCache = approval.NewInMemoryControlCache(ttl)
	}

	c.EventBus = approval.NewControlEventBus()
	approval.BindCache(c.EventBus, c.ControlCache)
	approval.BindAuditLog(c.EventBus, logger.Get().Named("approval.audit"))

	c.Store = approval.NewStore(db, c.Registry,
		approval.WithInstaller(schema.NewInstaller(db, c.Registry)),
		approval.WithEventBus(c.EventBus),
	)
	c.Gate = approval.NewGate(c.Store, records.NewStore(db, c.Registry),
		approval.WithCache(c.ControlCache),
		approval.WithGovernable(c.Registry.IsGovernable),
	)
	c.Resetter = approval.NewResetter(db, c.Registry)
}

func (c *AppContainer) initDispatch(cfg *config.Config) {
	var opts []dispatch.Option
	if cfg.Dispatch.UpstreamURL != "" {
		timeout := cfg.Dispatch.TimeoutSeconds
		if timeout <= 0 {
			timeout = 30
		}
		client := httputil.NewClient(
			httputil.WithTimeout(time.Duration(timeout)*time.Second),
			httputil.WithHeaders(cfg.Dispatch.Headers),
		)
		opts = append(opts, dispatch.WithFallback(dispatch.NewForwarder(client, cfg.Dispatch.UpstreamURL).Handle))
	} else {
		logger.Warn("dispatch.upstream_url 未配置，通过审批校验的按钮调用将无法转发")
	}

	c.Dispatcher = dispatch.NewDispatcher(opts...)
	c.Dispatcher.Use(dispatch.GateInterceptor(c.Gate, c.Gate.Governed))
}

// Close 释放外部连接
func (c *AppContainer) Close() {
	if c.Redis != nil {
		if err := infra.CloseRedis(); err != nil {
			logger.Error("Redis 关闭异常", zap.Error(err))
		}
	}
}
