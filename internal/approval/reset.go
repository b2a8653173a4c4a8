package approval

import (
	"context"
	"fmt"
	"regexp"

	"approvalhub/internal/logger"
	"approvalhub/internal/metrics"
	"approvalhub/internal/schema"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var tableNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

var (
	resetStates  = map[string]struct{}{StateDraft: {}, StatePending: {}, StateClosed: {}}
	resetResults = map[string]struct{}{ResultWaiting: {}, ResultApproved: {}, ResultRejected: {}, ResultRedirected: {}}
)

// ResetRequest 强制重置参数，Table 可为模型名（点号形式）或表名
type ResetRequest struct {
	Table    string `json:"table" binding:"required"`
	RecordID int64  `json:"res_id" binding:"required"`
	State    string `json:"approval_state" binding:"required"`
	Result   string `json:"approval_result" binding:"required"`
}

// Resetter 强制重置单据审批状态（绕过审批校验，仅用于管理员修复）
type Resetter struct {
	db       *gorm.DB
	registry *schema.Registry
	logger   *zap.Logger
	tracer   trace.Tracer
}

// NewResetter 创建重置器
func NewResetter(db *gorm.DB, registry *schema.Registry) *Resetter {
	return &Resetter{
		db:       db,
		registry: registry,
		logger:   logger.Get(),
		tracer:   otel.Tracer(tracerName),
	}
}

// ForceReset 改写单据的审批状态和审批结果，并清空单据状态标记
func (r *Resetter) ForceReset(ctx context.Context, req ResetRequest) (err error) {
	table := schema.TableNameOf(req.Table)
	ctx, span := r.tracer.Start(ctx, "approval.Resetter.ForceReset", trace.WithAttributes(
		attribute.String("db.table", table),
		attribute.Int64("approval.record_id", req.RecordID),
	))
	defer func() {
		metrics.RecordForceReset(table, err)
		if err != nil {
			spanError(span, err)
		}
		span.End()
	}()

	if err := r.validate(ctx, table, req); err != nil {
		return &ResetError{Table: table, Cause: err}
	}

	logger.Enrich(ctx, r.logger).Info("强制重置单据审批状态",
		zap.String("table", table),
		zap.Int64("record_id", req.RecordID),
		zap.String("approval_state", req.State),
		zap.String("approval_result", req.Result),
		zap.String("doc_state", ""),
	)

	res := r.db.WithContext(ctx).Exec("UPDATE ? SET ? = ?, ? = ?, ? = ? WHERE id = ?",
		clause.Table{Name: table},
		clause.Column{Name: "approval_state"}, req.State,
		clause.Column{Name: "approval_result"}, req.Result,
		clause.Column{Name: "doc_state"}, "",
		req.RecordID,
	)
	if res.Error != nil {
		return &ResetError{Table: table, Cause: res.Error}
	}
	if res.RowsAffected == 0 {
		return &ResetError{Table: table, Cause: fmt.Errorf("记录不存在: %s id=%d", table, req.RecordID)}
	}
	return nil
}

func (r *Resetter) validate(ctx context.Context, table string, req ResetRequest) error {
	if !tableNamePattern.MatchString(table) {
		return fmt.Errorf("单据表名不合法: %q", req.Table)
	}
	if _, ok := r.registry.LookupTable(table); !ok {
		return fmt.Errorf("未知的单据表: %s", table)
	}
	if !r.db.WithContext(ctx).Migrator().HasTable(table) {
		return fmt.Errorf("单据表不存在: %s", table)
	}
	if _, ok := resetStates[req.State]; !ok {
		return fmt.Errorf("审批状态不合法: %q", req.State)
	}
	if _, ok := resetResults[req.Result]; !ok {
		return fmt.Errorf("审批结果不合法: %q", req.Result)
	}
	if req.RecordID <= 0 {
		return fmt.Errorf("记录ID不合法: %d", req.RecordID)
	}
	return nil
}
