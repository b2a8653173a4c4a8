package dispatch

import (
	"context"
	"fmt"
	"strings"

	"approvalhub/internal/logger"
	"approvalhub/internal/metrics"
	"approvalhub/pkg/httputil"

	"go.uber.org/zap"
)

// Forwarder 将放行的按钮调用原样转发到业务系统
type Forwarder struct {
	client *httputil.Client
	url    string
	logger *zap.Logger
}

// NewForwarder 创建转发器
func NewForwarder(client *httputil.Client, upstreamURL string) *Forwarder {
	return &Forwarder{
		client: client,
		url:    strings.TrimRight(upstreamURL, "/") + "/web/dataset/call_button",
		logger: logger.Get(),
	}
}

type forwardRequest struct {
	Model  string         `json:"model"`
	Method string         `json:"method"`
	Args   []any          `json:"args"`
	Kwargs map[string]any `json:"kwargs"`
}

// Handle 作为兜底处理器使用
func (f *Forwarder) Handle(ctx context.Context, call *Call) (any, error) {
	args := call.Args
	if args == nil {
		args = []any{}
	}
	kwargs := call.Kwargs
	if kwargs == nil {
		kwargs = map[string]any{}
	}

	var result any
	err := f.client.PostJSON(ctx, f.url, forwardRequest{
		Model:  call.Model,
		Method: call.Method,
		Args:   args,
		Kwargs: kwargs,
	}, &result)
	metrics.RecordForward(call.Model, err)
	if err != nil {
		logger.Enrich(ctx, f.logger).Error("转发按钮调用失败",
			zap.String("model", call.Model),
			zap.String("method", call.Method),
			zap.Error(err),
		)
		return nil, fmt.Errorf("转发按钮调用失败: %w", err)
	}
	return result, nil
}
