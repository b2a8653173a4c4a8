package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"approvalhub/internal/common"
	"approvalhub/internal/logger"
	"approvalhub/pkg/httputil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	_ = logger.Init("debug", "console", "stdout")
}

type recordingChecker struct {
	calls []int64
	err   error
}

func (c *recordingChecker) CheckAction(_ context.Context, _ uint, _ string, recordID int64, _ string) error {
	c.calls = append(c.calls, recordID)
	return c.err
}

func okHandler(result string) Handler {
	return func(context.Context, *Call) (any, error) { return result, nil }
}

func TestRecordID(t *testing.T) {
	tests := []struct {
		name string
		args []any
		want int64
		ok   bool
	}{
		{"位置参数", []any{[]any{float64(7)}}, 7, true},
		{"params.id", []any{[]any{}, map[string]any{"params": map[string]any{"id": float64(9)}}}, 9, true},
		{"json.Number", []any{[]any{json.Number("12")}}, 12, true},
		{"字符串", []any{[]any{"15"}}, 15, true},
		{"小数", []any{[]any{1.5}}, 0, false},
		{"无参数", nil, 0, false},
		{"无params", []any{nil, map[string]any{}}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RecordID(tt.args)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDispatcherRegisteredAndFallback(t *testing.T) {
	d := NewDispatcher(WithFallback(okHandler("fallback")))
	require.NoError(t, d.Register("purchase.order", "button_confirm", okHandler("local")))
	assert.Error(t, d.Register("purchase.order", "button_confirm", okHandler("dup")))

	got, err := d.Call(context.Background(), &Call{Model: "purchase.order", Method: "button_confirm"})
	require.NoError(t, err)
	assert.Equal(t, "local", got)

	got, err = d.Call(context.Background(), &Call{Model: "purchase.order", Method: "button_cancel"})
	require.NoError(t, err)
	assert.Equal(t, "fallback", got)

	_, err = NewDispatcher().Call(context.Background(), &Call{Model: "x", Method: "y"})
	assert.Error(t, err)
}

func TestInterceptorOrder(t *testing.T) {
	var order []string
	mark := func(name string) Interceptor {
		return func(ctx context.Context, call *Call, next Handler) (any, error) {
			order = append(order, name)
			return next(ctx, call)
		}
	}
	d := NewDispatcher(WithFallback(func(context.Context, *Call) (any, error) {
		order = append(order, "handler")
		return nil, nil
	}))
	d.Use(mark("outer"), mark("inner"))

	_, err := d.Call(context.Background(), &Call{Model: "m", Method: "f"})
	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestGateInterceptor(t *testing.T) {
	// 公司 1 为采购订单配置了审批，其余单据未配置
	governed := func(_ context.Context, companyID uint, model string) (bool, error) {
		return companyID == 1 && model == "purchase.order", nil
	}

	t.Run("放行", func(t *testing.T) {
		checker := &recordingChecker{}
		d := NewDispatcher(WithFallback(okHandler("done")))
		d.Use(GateInterceptor(checker, governed))

		got, err := d.Call(context.Background(), &Call{Model: "purchase.order", Method: "button_confirm", Args: []any{[]any{float64(3)}}, CompanyID: 1})
		require.NoError(t, err)
		assert.Equal(t, "done", got)
		assert.Equal(t, []int64{3}, checker.calls)
	})

	t.Run("拒绝时不执行处理器", func(t *testing.T) {
		denied := errors.New("本功能暂无法使用")
		checker := &recordingChecker{err: denied}
		executed := false
		d := NewDispatcher(WithFallback(func(context.Context, *Call) (any, error) {
			executed = true
			return nil, nil
		}))
		d.Use(GateInterceptor(checker, governed))

		_, err := d.Call(context.Background(), &Call{Model: "purchase.order", Method: "button_confirm", Args: []any{[]any{float64(3)}}, CompanyID: 1})
		assert.ErrorIs(t, err, denied)
		assert.False(t, executed)
	})

	t.Run("不受控单据不校验", func(t *testing.T) {
		checker := &recordingChecker{}
		d := NewDispatcher(WithFallback(okHandler("done")))
		d.Use(GateInterceptor(checker, governed))

		_, err := d.Call(context.Background(), &Call{Model: "res.partner", Method: "write", CompanyID: 1})
		require.NoError(t, err)
		assert.Empty(t, checker.calls)
	})

	t.Run("未配置审批时无单据ID也放行", func(t *testing.T) {
		checker := &recordingChecker{}
		d := NewDispatcher(WithFallback(okHandler("done")))
		d.Use(GateInterceptor(checker, governed))

		got, err := d.Call(context.Background(), &Call{Model: "sale.order", Method: "action_confirm", Args: []any{[]any{}, map[string]any{}}, CompanyID: 1})
		require.NoError(t, err)
		assert.Equal(t, "done", got)

		got, err = d.Call(context.Background(), &Call{Model: "purchase.order", Method: "button_confirm", CompanyID: 2})
		require.NoError(t, err)
		assert.Equal(t, "done", got)
		assert.Empty(t, checker.calls)
	})

	t.Run("已配置审批缺少单据ID", func(t *testing.T) {
		checker := &recordingChecker{}
		d := NewDispatcher(WithFallback(okHandler("done")))
		d.Use(GateInterceptor(checker, governed))

		_, err := d.Call(context.Background(), &Call{Model: "purchase.order", Method: "button_confirm", CompanyID: 1})
		assert.ErrorIs(t, err, common.NewBusinessErrorWithCode(common.CodeInvalidRequest))
		assert.Empty(t, checker.calls)
	})

	t.Run("查询审批配置失败时拒绝", func(t *testing.T) {
		checker := &recordingChecker{}
		executed := false
		d := NewDispatcher(WithFallback(func(context.Context, *Call) (any, error) {
			executed = true
			return nil, nil
		}))
		storeErr := errors.New("数据库不可用")
		d.Use(GateInterceptor(checker, func(context.Context, uint, string) (bool, error) {
			return false, storeErr
		}))

		_, err := d.Call(context.Background(), &Call{Model: "purchase.order", Method: "button_confirm", CompanyID: 1})
		assert.ErrorIs(t, err, storeErr)
		assert.False(t, executed)
	})
}

func TestForwarder(t *testing.T) {
	var received forwardRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/web/dataset/call_button", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"type":"ir.actions.act_window_close"}`))
	}))
	defer server.Close()

	f := NewForwarder(httputil.NewClient(), server.URL+"/")
	got, err := f.Handle(context.Background(), &Call{Model: "purchase.order", Method: "button_confirm", Args: []any{[]any{float64(1)}}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"type": "ir.actions.act_window_close"}, got)
	assert.Equal(t, "button_confirm", received.Method)
	assert.Equal(t, map[string]any{}, received.Kwargs)
}

func TestForwarderUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	f := NewForwarder(httputil.NewClient(), server.URL)
	_, err := f.Handle(context.Background(), &Call{Model: "purchase.order", Method: "button_confirm"})
	var statusErr *httputil.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
}
