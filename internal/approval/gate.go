package approval

import (
	"context"
	"fmt"
	"time"

	"approvalhub/internal/logger"
	"approvalhub/internal/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// 单据审批状态 approval_state
const (
	StateDraft   = "draft"    // 草稿
	StatePending = "approval" // 审批中
	StateClosed  = "stop"     // 审批结束
)

// 单据审批结果 approval_result
const (
	ResultWaiting    = "load"     // 等待
	ResultApproved   = "agree"    // 同意
	ResultRejected   = "refuse"   // 拒绝
	ResultRedirected = "redirect" // 转交
)

// RecordState 单据的审批生命周期字段
type RecordState struct {
	ID             int64  `json:"id"`
	ApprovalState  string `json:"approval_state"`
	ApprovalResult string `json:"approval_result"`
	DocState       string `json:"doc_state"`
}

// Phase 按 草稿 > 审批中 > 审批通过 > 审批拒绝 的优先级确定所处阶段
func (s *RecordState) Phase() (Phase, bool) {
	switch {
	case s.ApprovalState == StateDraft:
		return PhaseStart, true
	case s.ApprovalState == StatePending:
		return PhasePending, true
	case s.ApprovalResult == ResultApproved:
		return PhasePass, true
	case s.ApprovalResult == ResultRejected:
		return PhaseRefuse, true
	}
	return "", false
}

// RecordLoader 读取单据生命周期字段，单据不存在时返回 nil, nil
type RecordLoader interface {
	LoadState(ctx context.Context, model string, id int64) (*RecordState, error)
}

// ControlFinder 查找审批配置
type ControlFinder interface {
	FindControl(ctx context.Context, model string, companyID uint) (*ApprovalControl, error)
}

// Gate 功能按钮审批校验
type Gate struct {
	controls   ControlFinder
	records    RecordLoader
	cache      ControlCache
	governable func(model string) bool
	logger     *zap.Logger
	tracer     trace.Tracer
}

// GateOption 自定义配置
type GateOption func(*Gate)

// WithCache 注入审批配置缓存
func WithCache(cache ControlCache) GateOption {
	return func(g *Gate) { g.cache = cache }
}

// WithGovernable 限定可配置审批的单据类型，其余类型不查询审批配置
func WithGovernable(fn func(model string) bool) GateOption {
	return func(g *Gate) { g.governable = fn }
}

// WithGateLogger 注入自定义日志器
func WithGateLogger(l *zap.Logger) GateOption {
	return func(g *Gate) { g.logger = l }
}

// NewGate 创建审批校验器
func NewGate(controls ControlFinder, records RecordLoader, opts ...GateOption) *Gate {
	g := &Gate{
		controls: controls,
		records:  records,
		logger:   logger.Get(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// CheckAction 校验是否允许对单据执行方法
// 返回 nil 表示允许；*ActionDeniedError 表示当前审批阶段禁用该功能；其他错误表示读取失败，调用方应拒绝执行
func (g *Gate) CheckAction(ctx context.Context, companyID uint, model string, recordID int64, method string) error {
	start := time.Now()
	ctx, span := g.tracer.Start(ctx, "approval.Gate.CheckAction", trace.WithAttributes(
		attribute.Int64("company.id", int64(companyID)),
		attribute.String("approval.model", model),
		attribute.Int64("approval.record_id", recordID),
		attribute.String("approval.method", method),
	))
	defer span.End()

	decision, phase, err := g.check(ctx, companyID, model, recordID, method)
	if err != nil {
		logger.Enrich(ctx, g.logger).Warn("审批校验失败", zap.String("model", model), zap.Int64("record_id", recordID), zap.Error(err))
		return spanError(span, err)
	}

	span.SetAttributes(attribute.String("approval.decision", decision))
	metrics.RecordGateDecision(model, decision, string(phase), time.Since(start).Seconds())
	if decision != "denied" {
		return nil
	}

	denied := &ActionDeniedError{Model: model, RecordID: recordID, Method: method, Phase: phase}
	logger.Enrich(ctx, g.logger).Info("审批状态禁止执行功能",
		zap.String("model", model),
		zap.Int64("record_id", recordID),
		zap.String("method", method),
		zap.String("phase", string(phase)),
	)
	return denied
}

// Governed 公司是否为该单据配置了审批，未配置时按钮调用无需单据ID即可放行
func (g *Gate) Governed(ctx context.Context, companyID uint, model string) (bool, error) {
	if g.governable != nil && !g.governable(model) {
		return false, nil
	}
	snap, err := g.snapshot(ctx, companyID, model)
	if err != nil {
		return false, err
	}
	return snap.Governed, nil
}

func (g *Gate) check(ctx context.Context, companyID uint, model string, recordID int64, method string) (string, Phase, error) {
	snap, err := g.snapshot(ctx, companyID, model)
	if err != nil {
		return "", "", err
	}
	if !snap.Governed {
		return "ungoverned", "", nil
	}

	state, err := g.records.LoadState(ctx, model, recordID)
	if err != nil {
		return "", "", fmt.Errorf("读取单据审批状态失败: %w", err)
	}
	if state == nil {
		return "allowed", "", nil
	}

	phase, ok := state.Phase()
	if !ok || !snap.Disabled(phase, method) {
		return "allowed", phase, nil
	}
	return "denied", phase, nil
}

func (g *Gate) snapshot(ctx context.Context, companyID uint, model string) (*ControlSnapshot, error) {
	if g.cache != nil {
		if snap, ok := g.cache.Get(ctx, companyID, model); ok {
			return snap, nil
		}
	}
	control, err := g.controls.FindControl(ctx, model, companyID)
	if err != nil {
		return nil, err
	}
	snap := NewControlSnapshot(control)
	if g.cache != nil {
		g.cache.Set(ctx, companyID, model, snap)
	}
	return snap, nil
}
