package approval

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// 配置变更类型
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// ControlEvent 审批配置变更
type ControlEvent struct {
	ControlID  string
	CompanyID  uint
	Model      string
	Action     string
	OccurredAt time.Time
}

// ControlEventBus 本地事件总线，监听器在 Publish 中同步执行
type ControlEventBus struct {
	mu        sync.RWMutex
	listeners []func(ControlEvent)
}

// NewControlEventBus 创建事件总线
func NewControlEventBus() *ControlEventBus {
	return &ControlEventBus{}
}

// Listen 注册监听器，接收全部事件
func (b *ControlEventBus) Listen(fn func(ControlEvent)) {
	if b == nil || fn == nil {
		return
	}
	b.mu.Lock()
	b.listeners = append(b.listeners, fn)
	b.mu.Unlock()
}

// Publish 发布事件
func (b *ControlEventBus) Publish(evt ControlEvent) {
	if b == nil {
		return
	}
	b.mu.RLock()
	listeners := append([]func(ControlEvent){}, b.listeners...)
	b.mu.RUnlock()

	for _, fn := range listeners {
		fn(evt)
	}
}

// BindAuditLog 记录审批配置变更日志
func BindAuditLog(bus *ControlEventBus, l *zap.Logger) {
	if l == nil {
		return
	}
	bus.Listen(func(evt ControlEvent) {
		l.Info("审批配置变更",
			zap.String("action", evt.Action),
			zap.String("control_id", evt.ControlID),
			zap.Uint("company_id", evt.CompanyID),
			zap.String("model", evt.Model),
			zap.Time("occurred_at", evt.OccurredAt),
		)
	})
}
