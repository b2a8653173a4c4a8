package records

import (
	"context"
	"errors"
	"fmt"

	"approvalhub/internal/approval"
	"approvalhub/internal/schema"

	"gorm.io/gorm"
)

// Store 从单据表读取审批生命周期字段
type Store struct {
	db       *gorm.DB
	registry *schema.Registry
}

// NewStore 创建单据读取器
func NewStore(db *gorm.DB, registry *schema.Registry) *Store {
	return &Store{db: db, registry: registry}
}

// LoadState 读取单据审批状态，单据不存在时返回 nil, nil
func (s *Store) LoadState(ctx context.Context, model string, id int64) (*approval.RecordState, error) {
	rt, ok := s.registry.Lookup(model)
	if !ok {
		return nil, fmt.Errorf("未知的单据类型: %s", model)
	}

	var state approval.RecordState
	err := s.db.WithContext(ctx).
		Table(rt.TableName()).
		Select("id", "approval_state", "approval_result", "doc_state").
		Where("id = ?", id).
		Take(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("读取单据 %s(%d) 失败: %w", model, id, err)
	}
	return &state, nil
}
