package approval

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewControlSnapshot(t *testing.T) {
	snap := NewControlSnapshot(nil)
	assert.False(t, snap.Governed)
	assert.False(t, snap.Disabled(PhaseStart, "button_confirm"))

	snap = NewControlSnapshot(gatedControl())
	assert.True(t, snap.Governed)
	assert.Equal(t, "c1", snap.ControlID)
	assert.True(t, snap.Disabled(PhaseStart, "button_confirm"))
	assert.False(t, snap.Disabled(PhasePending, "button_confirm"))
}

func TestInMemoryControlCache(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryControlCache(50 * time.Millisecond)

	_, ok := cache.Get(ctx, 1, "purchase.order")
	assert.False(t, ok)

	cache.Set(ctx, 1, "purchase.order", NewControlSnapshot(gatedControl()))
	snap, ok := cache.Get(ctx, 1, "purchase.order")
	require.True(t, ok)
	assert.True(t, snap.Governed)

	_, ok = cache.Get(ctx, 2, "purchase.order")
	assert.False(t, ok)

	cache.Invalidate(ctx, 1, "purchase.order")
	_, ok = cache.Get(ctx, 1, "purchase.order")
	assert.False(t, ok)

	cache.Set(ctx, 1, "purchase.order", NewControlSnapshot(nil))
	time.Sleep(80 * time.Millisecond)
	_, ok = cache.Get(ctx, 1, "purchase.order")
	assert.False(t, ok)
}

func TestInMemoryControlCacheDisabled(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryControlCache(0)
	cache.Set(ctx, 1, "purchase.order", NewControlSnapshot(nil))
	_, ok := cache.Get(ctx, 1, "purchase.order")
	assert.False(t, ok)
}

func TestEventBusListen(t *testing.T) {
	bus := NewControlEventBus()

	var heard []string
	bus.Listen(func(evt ControlEvent) { heard = append(heard, evt.Model+":"+evt.Action) })
	bus.Listen(nil)

	bus.Publish(ControlEvent{Model: "sale.order", Action: EventUpdated})
	bus.Publish(ControlEvent{Model: "purchase.order", Action: EventDeleted})
	assert.Equal(t, []string{"sale.order:updated", "purchase.order:deleted"}, heard)

	var nilBus *ControlEventBus
	assert.NotPanics(t, func() {
		nilBus.Publish(ControlEvent{})
		nilBus.Listen(func(ControlEvent) {})
	})
}

func TestBindAuditLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	bus := NewControlEventBus()
	BindAuditLog(bus, zap.New(core))

	bus.Publish(ControlEvent{ControlID: "c1", CompanyID: 3, Model: "purchase.order", Action: EventCreated, OccurredAt: time.Now()})

	entries := logs.FilterMessage("审批配置变更").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "created", fields["action"])
	assert.Equal(t, "c1", fields["control_id"])
	assert.Equal(t, uint64(3), fields["company_id"])
	assert.Equal(t, "purchase.order", fields["model"])
}
