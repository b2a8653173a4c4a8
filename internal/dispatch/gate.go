package dispatch

import (
	"context"
	"encoding/json"
	"math"
	"strconv"

	"approvalhub/internal/common"
)

// ActionChecker 审批校验
type ActionChecker interface {
	CheckAction(ctx context.Context, companyID uint, model string, recordID int64, method string) error
}

// GovernedFunc 判断公司的单据类型是否配置了审批
type GovernedFunc func(ctx context.Context, companyID uint, model string) (bool, error)

// GateInterceptor 已配置审批的单据在执行按钮前先经过审批校验
func GateInterceptor(checker ActionChecker, governed GovernedFunc) Interceptor {
	return func(ctx context.Context, call *Call, next Handler) (any, error) {
		if governed != nil {
			ok, err := governed(ctx, call.CompanyID, call.Model)
			if err != nil {
				return nil, err
			}
			if !ok {
				return next(ctx, call)
			}
		}
		id, ok := RecordID(call.Args)
		if !ok {
			return nil, common.NewBusinessError(common.CodeInvalidRequest, "无法确定按钮调用的单据ID")
		}
		if err := checker.CheckAction(ctx, call.CompanyID, call.Model, id, call.Method); err != nil {
			return nil, err
		}
		return next(ctx, call)
	}
}

// RecordID 取单据ID：优先第一个位置参数的第一个元素，否则取 args[1].params.id
func RecordID(args []any) (int64, bool) {
	if len(args) > 0 {
		if ids, ok := args[0].([]any); ok && len(ids) > 0 {
			return toInt64(ids[0])
		}
	}
	if len(args) > 1 {
		if kw, ok := args[1].(map[string]any); ok {
			if params, ok := kw["params"].(map[string]any); ok {
				return toInt64(params["id"])
			}
		}
	}
	return 0, false
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	}
	return 0, false
}
