package approval

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"approvalhub/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoader struct {
	states map[int64]*RecordState
	err    error
}

func (f *fakeLoader) LoadState(_ context.Context, _ string, id int64) (*RecordState, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.states[id], nil
}

type countingFinder struct {
	mu      sync.Mutex
	control *ApprovalControl
	calls   int
}

func (f *countingFinder) FindControl(_ context.Context, model string, _ uint) (*ApprovalControl, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.control == nil || f.control.Model != model {
		return nil, nil
	}
	return f.control, nil
}

func gatedControl() *ApprovalControl {
	button := func(fn string) *ButtonDescriptor { return &ButtonDescriptor{Function: fn} }
	return &ApprovalControl{
		ID:    "c1",
		Model: "purchase.order",
		Buttons: []ControlButton{
			{Phase: PhaseStart, Button: button("button_confirm")},
			{Phase: PhasePending, Button: button("button_cancel")},
			{Phase: PhasePass, Button: button("button_draft")},
			{Phase: PhaseRefuse, Button: button("button_done")},
		},
	}
}

func TestGateCheckAction(t *testing.T) {
	loader := &fakeLoader{states: map[int64]*RecordState{
		1: {ApprovalState: StateDraft, ApprovalResult: ResultWaiting},
		2: {ApprovalState: StatePending, ApprovalResult: ResultWaiting},
		3: {ApprovalState: StateClosed, ApprovalResult: ResultApproved},
		4: {ApprovalState: StateClosed, ApprovalResult: ResultRejected},
		5: {ApprovalState: StateClosed, ApprovalResult: ResultRedirected},
		// 草稿优先于审批结果
		6: {ApprovalState: StateDraft, ApprovalResult: ResultApproved},
	}}
	gate := NewGate(&countingFinder{control: gatedControl()}, loader)

	tests := []struct {
		name   string
		id     int64
		method string
		phase  Phase
	}{
		{"草稿禁用确认", 1, "button_confirm", PhaseStart},
		{"草稿允许取消", 1, "button_cancel", ""},
		{"审批中禁用取消", 2, "button_cancel", PhasePending},
		{"审批中允许确认", 2, "button_confirm", ""},
		{"通过后禁用", 3, "button_draft", PhasePass},
		{"通过后不受拒绝阶段影响", 3, "button_done", ""},
		{"拒绝后禁用", 4, "button_done", PhaseRefuse},
		{"转交不属于任何阶段", 5, "button_done", ""},
		{"草稿优先", 6, "button_confirm", PhaseStart},
		{"单据不存在", 99, "button_confirm", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gate.CheckAction(context.Background(), 1, "purchase.order", tt.id, tt.method)
			if tt.phase == "" {
				assert.NoError(t, err)
				return
			}
			var denied *ActionDeniedError
			require.ErrorAs(t, err, &denied)
			assert.Equal(t, tt.phase, denied.Phase)
			assert.Equal(t, denyMessages[tt.phase], err.Error())
			assert.ErrorIs(t, err, ErrActionDenied)
		})
	}
}

func TestGateUngovernedModelPassesThrough(t *testing.T) {
	loader := &fakeLoader{err: errors.New("不应读取单据")}
	gate := NewGate(&countingFinder{control: gatedControl()}, loader)

	assert.NoError(t, gate.CheckAction(context.Background(), 1, "sale.order", 1, "action_confirm"))
}

func TestGateLoaderErrorFailsClosed(t *testing.T) {
	loader := &fakeLoader{err: errors.New("连接断开")}
	gate := NewGate(&countingFinder{control: gatedControl()}, loader)

	err := gate.CheckAction(context.Background(), 1, "purchase.order", 1, "button_confirm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "连接断开")
	var denied *ActionDeniedError
	assert.False(t, errors.As(err, &denied))
}

func TestDeniedErrorMapsToForbidden(t *testing.T) {
	err := error(&ActionDeniedError{Phase: PhasePending})
	var bizErr *common.BusinessError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, common.CodeActionDenied, bizErr.Code)
	assert.Equal(t, 403, common.HTTPStatus(bizErr.Code))
}

func TestGateCacheInvalidatedOnChange(t *testing.T) {
	finder := &countingFinder{}
	loader := &fakeLoader{states: map[int64]*RecordState{1: {ApprovalState: StateDraft}}}
	cache := NewInMemoryControlCache(time.Minute)
	bus := NewControlEventBus()
	BindCache(bus, cache)
	gate := NewGate(finder, loader, WithCache(cache))
	ctx := context.Background()

	// 未配置时负缓存
	require.NoError(t, gate.CheckAction(ctx, 1, "purchase.order", 1, "button_confirm"))
	require.NoError(t, gate.CheckAction(ctx, 1, "purchase.order", 1, "button_confirm"))
	assert.Equal(t, 1, finder.calls)

	finder.control = gatedControl()
	bus.Publish(ControlEvent{CompanyID: 1, Model: "purchase.order", Action: EventCreated})

	err := gate.CheckAction(ctx, 1, "purchase.order", 1, "button_confirm")
	assert.ErrorIs(t, err, ErrActionDenied)
	assert.Equal(t, 2, finder.calls)
}

func TestGateWithStore(t *testing.T) {
	db := openTestDB(t)
	store := NewStore(db, testRegistry(t))
	ctx := context.Background()

	buttons, err := store.SelectRecordType(ctx, 1, "purchase.order")
	require.NoError(t, err)
	control := newControl("purchase.order")
	control.Buttons = []ControlButton{{ButtonID: buttons[0].ID, Phase: PhaseStart}}
	_, err = store.Create(ctx, 1, control)
	require.NoError(t, err)

	loader := &fakeLoader{states: map[int64]*RecordState{7: {ApprovalState: StateDraft}}}
	gate := NewGate(store, loader)

	assert.ErrorIs(t, gate.CheckAction(ctx, 1, "purchase.order", 7, "button_confirm"), ErrActionDenied)
	assert.NoError(t, gate.CheckAction(ctx, 2, "purchase.order", 7, "button_confirm"))
}

func TestGateGoverned(t *testing.T) {
	finder := &countingFinder{control: gatedControl()}
	gate := NewGate(finder, &fakeLoader{}, WithGovernable(func(model string) bool {
		return model != "purchase.order.wizard"
	}))
	ctx := context.Background()

	ok, err := gate.Governed(ctx, 1, "purchase.order")
	require.NoError(t, err)
	assert.True(t, ok)

	// 注册表内但公司未配置审批
	ok, err = gate.Governed(ctx, 1, "sale.order")
	require.NoError(t, err)
	assert.False(t, ok)

	calls := finder.calls
	ok, err = gate.Governed(ctx, 1, "purchase.order.wizard")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, calls, finder.calls)

	failing := NewGate(&failingFinder{err: errors.New("数据库不可用")}, &fakeLoader{})
	_, err = failing.Governed(ctx, 1, "purchase.order")
	assert.Error(t, err)
}

type failingFinder struct{ err error }

func (f *failingFinder) FindControl(context.Context, string, uint) (*ApprovalControl, error) {
	return nil, f.err
}
