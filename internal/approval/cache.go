package approval

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"approvalhub/internal/logger"
	"approvalhub/internal/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ControlSnapshot 审批校验所需的配置快照
// Governed=false 表示该公司该单据未配置审批（负缓存）
type ControlSnapshot struct {
	ControlID string             `json:"control_id"`
	Governed  bool               `json:"governed"`
	Buttons   map[Phase][]string `json:"buttons"`
}

// Disabled 方法在指定阶段是否被禁用
func (s *ControlSnapshot) Disabled(phase Phase, method string) bool {
	for _, fn := range s.Buttons[phase] {
		if fn == method {
			return true
		}
	}
	return false
}

// NewControlSnapshot 由审批配置生成快照，control 为 nil 时生成未配置快照
func NewControlSnapshot(control *ApprovalControl) *ControlSnapshot {
	if control == nil {
		return &ControlSnapshot{}
	}
	snap := &ControlSnapshot{
		ControlID: control.ID,
		Governed:  true,
		Buttons:   make(map[Phase][]string, len(Phases)),
	}
	for _, phase := range Phases {
		if fns := control.ButtonFunctions(phase); len(fns) > 0 {
			snap.Buttons[phase] = fns
		}
	}
	return snap
}

// ControlCache 审批配置缓存
type ControlCache interface {
	Get(ctx context.Context, companyID uint, model string) (*ControlSnapshot, bool)
	Set(ctx context.Context, companyID uint, model string, snap *ControlSnapshot)
	Invalidate(ctx context.Context, companyID uint, model string)
}

// BindCache 配置变更时使缓存失效
func BindCache(bus *ControlEventBus, cache ControlCache) {
	bus.Listen(func(evt ControlEvent) {
		cache.Invalidate(context.Background(), evt.CompanyID, evt.Model)
	})
}

func cacheKey(companyID uint, model string) string {
	return fmt.Sprintf("%d:%s", companyID, model)
}

type cacheEntry struct {
	value     *ControlSnapshot
	expiresAt time.Time
}

type inMemoryControlCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

// NewInMemoryControlCache 进程内缓存，ttl 为 0 时不缓存
func NewInMemoryControlCache(ttl time.Duration) ControlCache {
	return &inMemoryControlCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

func (c *inMemoryControlCache) Get(_ context.Context, companyID uint, model string) (*ControlSnapshot, bool) {
	c.mu.RLock()
	entry, found := c.entries[cacheKey(companyID, model)]
	c.mu.RUnlock()

	hit := found && time.Now().Before(entry.expiresAt)
	metrics.RecordCacheLookup("memory", hit)
	if !hit {
		return nil, false
	}
	return entry.value, true
}

func (c *inMemoryControlCache) Set(_ context.Context, companyID uint, model string, snap *ControlSnapshot) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(companyID, model)] = cacheEntry{
		value:     snap,
		expiresAt: time.Now().Add(c.ttl),
	}
}

func (c *inMemoryControlCache) Invalidate(_ context.Context, companyID uint, model string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, cacheKey(companyID, model))
}

type redisControlCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisControlCache 多实例共享的 Redis 缓存，Redis 异常时按未命中处理
func NewRedisControlCache(client redis.UniversalClient, prefix string, ttl time.Duration) ControlCache {
	return &redisControlCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger.Get(),
	}
}

func (c *redisControlCache) key(companyID uint, model string) string {
	return c.prefix + cacheKey(companyID, model)
}

func (c *redisControlCache) Get(ctx context.Context, companyID uint, model string) (*ControlSnapshot, bool) {
	data, err := c.client.Get(ctx, c.key(companyID, model)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Enrich(ctx, c.logger).Warn("读取审批配置缓存失败", zap.Error(err))
		}
		metrics.RecordCacheLookup("redis", false)
		return nil, false
	}

	var snap ControlSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		logger.Enrich(ctx, c.logger).Warn("审批配置缓存格式错误", zap.Error(err))
		metrics.RecordCacheLookup("redis", false)
		return nil, false
	}
	metrics.RecordCacheLookup("redis", true)
	return &snap, true
}

func (c *redisControlCache) Set(ctx context.Context, companyID uint, model string, snap *ControlSnapshot) {
	if c.ttl <= 0 {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(companyID, model), data, c.ttl).Err(); err != nil {
		logger.Enrich(ctx, c.logger).Warn("写入审批配置缓存失败", zap.Error(err))
	}
}

func (c *redisControlCache) Invalidate(ctx context.Context, companyID uint, model string) {
	if err := c.client.Del(ctx, c.key(companyID, model)).Err(); err != nil {
		logger.Enrich(ctx, c.logger).Warn("清除审批配置缓存失败", zap.Error(err))
	}
}
