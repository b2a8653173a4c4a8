package schema

import (
	"context"
	"fmt"

	"approvalhub/internal/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LifecycleColumns 受审批单据的生命周期字段
type LifecycleColumns struct {
	ApprovalState  string `gorm:"column:approval_state;size:16;default:draft"`
	ApprovalResult string `gorm:"column:approval_result;size:16;default:load"`
	DocState       string `gorm:"column:doc_state;size:64"`
}

// governedRecord 单据表不存在时创建的最小结构
type governedRecord struct {
	ID int64 `gorm:"primaryKey"`
	LifecycleColumns
}

// ModuleInstaller 模块升级接口
type ModuleInstaller interface {
	Upgrade(ctx context.Context, modules []string) error
}

// Installer 基于数据库迁移的模块升级：为模块下所有单据表补齐生命周期字段
type Installer struct {
	db       *gorm.DB
	registry *Registry
	logger   *zap.Logger
}

// InstallerOption 自定义配置
type InstallerOption func(*Installer)

// WithInstallerLogger 注入自定义日志器
func WithInstallerLogger(l *zap.Logger) InstallerOption {
	return func(i *Installer) { i.logger = l }
}

// NewInstaller 创建模块升级器
func NewInstaller(db *gorm.DB, registry *Registry, opts ...InstallerOption) *Installer {
	i := &Installer{db: db, registry: registry, logger: logger.Get()}
	for _, opt := range opts {
		if opt != nil {
			opt(i)
		}
	}
	return i
}

// Upgrade 升级模块
func (i *Installer) Upgrade(ctx context.Context, modules []string) error {
	wanted := make(map[string]struct{}, len(modules))
	for _, m := range modules {
		wanted[m] = struct{}{}
	}

	for _, rt := range i.registry.Governable() {
		if !ownedBy(rt, wanted) {
			continue
		}
		if err := i.ensureLifecycle(ctx, rt.TableName()); err != nil {
			return fmt.Errorf("升级单据 %s 失败: %w", rt.Model, err)
		}
	}
	logger.Enrich(ctx, i.logger).Info("模块升级完成", zap.Strings("modules", modules))
	return nil
}

func (i *Installer) ensureLifecycle(ctx context.Context, table string) error {
	db := i.db.WithContext(ctx).Table(table)
	m := db.Migrator()
	if !m.HasTable(table) {
		return m.CreateTable(&governedRecord{})
	}
	for _, field := range []string{"ApprovalState", "ApprovalResult", "DocState"} {
		if m.HasColumn(&LifecycleColumns{}, field) {
			continue
		}
		if err := m.AddColumn(&LifecycleColumns{}, field); err != nil {
			return err
		}
	}
	return nil
}

func ownedBy(rt *RecordType, modules map[string]struct{}) bool {
	for _, m := range rt.Modules {
		if _, ok := modules[m]; ok {
			return true
		}
	}
	return false
}
