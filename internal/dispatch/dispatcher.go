package dispatch

import (
	"context"
	"fmt"
	"sync"

	"approvalhub/internal/logger"

	"go.uber.org/zap"
)

// Call 一次按钮调用
type Call struct {
	Model     string         `json:"model" binding:"required"`
	Method    string         `json:"method" binding:"required"`
	Args      []any          `json:"args"`
	Kwargs    map[string]any `json:"kwargs"`
	CompanyID uint           `json:"-"`
	UserID    string         `json:"-"`
}

// Handler 按钮调用处理器
type Handler func(ctx context.Context, call *Call) (any, error)

// Interceptor 拦截器，决定是否继续调用 next
type Interceptor func(ctx context.Context, call *Call, next Handler) (any, error)

// Dispatcher 按钮调用分发：按 单据类型+方法 查找处理器，未注册时交给兜底处理器
type Dispatcher struct {
	mu           sync.RWMutex
	handlers     map[string]Handler
	interceptors []Interceptor
	fallback     Handler
	logger       *zap.Logger
}

// Option 自定义配置
type Option func(*Dispatcher)

// WithFallback 设置兜底处理器
func WithFallback(h Handler) Option {
	return func(d *Dispatcher) { d.fallback = h }
}

// WithLogger 注入自定义日志器
func WithLogger(l *zap.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// NewDispatcher 创建分发器
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[string]Handler),
		logger:   logger.Get(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

func handlerKey(model, method string) string {
	return model + "." + method
}

// Register 注册处理器
func (d *Dispatcher) Register(model, method string, h Handler) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := handlerKey(model, method)
	if _, exists := d.handlers[key]; exists {
		return fmt.Errorf("处理器 %s 已注册", key)
	}
	d.handlers[key] = h
	return nil
}

// Use 追加拦截器，按追加顺序由外向内执行
func (d *Dispatcher) Use(interceptors ...Interceptor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.interceptors = append(d.interceptors, interceptors...)
}

// Call 执行按钮调用
func (d *Dispatcher) Call(ctx context.Context, call *Call) (any, error) {
	d.mu.RLock()
	handler, ok := d.handlers[handlerKey(call.Model, call.Method)]
	if !ok {
		handler = d.fallback
	}
	chain := append([]Interceptor(nil), d.interceptors...)
	d.mu.RUnlock()

	if handler == nil {
		return nil, fmt.Errorf("未找到处理器: %s", handlerKey(call.Model, call.Method))
	}

	for i := len(chain) - 1; i >= 0; i-- {
		handler = wrap(chain[i], handler)
	}

	logger.Enrich(ctx, d.logger).Debug("分发按钮调用",
		zap.String("model", call.Model),
		zap.String("method", call.Method),
		zap.Uint("company_id", call.CompanyID),
	)
	return handler(ctx, call)
}

func wrap(ic Interceptor, next Handler) Handler {
	return func(ctx context.Context, call *Call) (any, error) {
		return ic(ctx, call, next)
	}
}
