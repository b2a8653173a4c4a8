package approval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"approvalhub/internal/approval"
	"approvalhub/internal/auth"
	"approvalhub/internal/dispatch"
	"approvalhub/internal/logger"
	"approvalhub/internal/records"
	"approvalhub/internal/schema"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	_ = logger.Init("debug", "console", "stdout")
	gin.SetMode(gin.TestMode)
}

const orderForm = `<form><header>
  <button name="button_confirm" string="确认" type="object"/>
  <button name="button_cancel" string="取消" type="object"/>
</header></form>`

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	store  *approval.Store
}

func setupEnv(t *testing.T, roles ...string) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(approval.AllModels()...))

	registry, err := schema.NewRegistry(schema.RecordType{
		Model:   "purchase.order",
		Name:    "采购订单",
		Modules: []string{"purchase"},
		Fields: []schema.Field{
			{Name: "name", Label: "单号", Kind: schema.KindChar},
			{Name: "has_message", Label: "有消息", Kind: schema.KindBoolean},
		},
		FormView: orderForm,
	})
	require.NoError(t, err)
	require.NoError(t, schema.NewInstaller(db, registry).Upgrade(context.Background(), []string{"purchase"}))

	store := approval.NewStore(db, registry)
	gate := approval.NewGate(store, records.NewStore(db, registry), approval.WithGovernable(registry.IsGovernable))
	dispatcher := dispatch.NewDispatcher(dispatch.WithFallback(func(_ context.Context, call *dispatch.Call) (any, error) {
		return gin.H{"executed": call.Method}, nil
	}))
	dispatcher.Use(dispatch.GateInterceptor(gate, gate.Governed))

	controls := NewControlHandler(store, registry)
	dispatchHandler := NewDispatchHandler(dispatcher, approval.NewResetter(db, registry))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(string(auth.UserContextKey), &auth.UserContext{UserID: "u1", CompanyID: 1, Roles: roles})
		c.Set("user_id", "u1")
		c.Next()
	})
	RegisterRoutes(router.Group("/api"), controls, dispatchHandler)
	return &testEnv{db: db, router: router, store: store}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var resp map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestControlLifecycleHTTP(t *testing.T) {
	env := setupEnv(t, "admin")

	w, resp := env.do(t, http.MethodPost, "/api/approval/models/purchase.order/select", nil)
	require.Equal(t, http.StatusOK, w.Code)
	buttons := resp["data"].([]any)
	require.Len(t, buttons, 2)
	confirmID := buttons[0].(map[string]any)["id"]

	req := map[string]any{
		"name":                   "采购审批",
		"model":                  "purchase.order",
		"lines":                  []any{map[string]any{"field": "name"}},
		"model_start_button_ids": []any{confirmID},
	}
	w, resp = env.do(t, http.MethodPost, "/api/approval/controls", req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := resp["data"].(map[string]any)
	id := data["id"].(string)
	assert.Equal(t, "START", data["cc_type"])
	assert.Equal(t, false, data["approvers"])

	w, resp = env.do(t, http.MethodPost, "/api/approval/controls", req)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "公司中已存在Odoo模型对应的审批模板，请勿重复创建！", resp["message"])

	w, _ = env.do(t, http.MethodGet, "/api/approval/controls/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp = env.do(t, http.MethodGet, "/api/approval/controls", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := resp["data"].(map[string]any)
	assert.EqualValues(t, 1, list["pagination"].(map[string]any)["total"])

	w, _ = env.do(t, http.MethodDelete, "/api/approval/controls/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = env.do(t, http.MethodGet, "/api/approval/controls/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFieldEndpoints(t *testing.T) {
	env := setupEnv(t)

	w, resp := env.do(t, http.MethodGet, "/api/approval/models/purchase.order/fields/name/onchange", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"dd_field": "单号", "ttype": "char"}, resp["data"])

	w, _ = env.do(t, http.MethodGet, "/api/approval/models/purchase.order/fields/has_message/onchange", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp = env.do(t, http.MethodGet, "/api/approval/field-kinds", nil)
	require.Equal(t, http.StatusOK, w.Code)
	kinds := resp["data"].([]any)
	assert.Len(t, kinds, 18)
	assert.Equal(t, "image_url", kinds[17].(map[string]any)["value"])
}

func TestMutationsRequireAdmin(t *testing.T) {
	env := setupEnv(t, "user")

	w, _ := env.do(t, http.MethodPost, "/api/approval/controls", map[string]any{"name": "x", "model": "purchase.order"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = env.do(t, http.MethodPost, "/api/admin/approval/reset", map[string]any{
		"table": "purchase_order", "res_id": 1, "approval_state": "draft", "approval_result": "load",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCallButtonGate(t *testing.T) {
	env := setupEnv(t, "admin")
	ctx := context.Background()

	buttons, err := env.store.SelectRecordType(ctx, 1, "purchase.order")
	require.NoError(t, err)
	_, err = env.store.Create(ctx, 1, &approval.ApprovalControl{
		Name:    "采购审批",
		Model:   "purchase.order",
		Lines:   []approval.FieldMappingLine{{SourceField: "name"}},
		Buttons: []approval.ControlButton{{ButtonID: buttons[0].ID, Phase: approval.PhaseStart}},
	})
	require.NoError(t, err)
	require.NoError(t, env.db.Table("purchase_order").Create(map[string]any{
		"id": 1, "approval_state": approval.StateDraft, "approval_result": approval.ResultWaiting,
	}).Error)

	call := func(method string) (*httptest.ResponseRecorder, map[string]any) {
		return env.do(t, http.MethodPost, "/api/dataset/call_button", map[string]any{
			"model": "purchase.order", "method": method, "args": []any{[]any{1}},
		})
	}

	w, resp := call("button_confirm")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "本功能暂无法使用，因为单据还没有'提交至钉钉'进行审批，请先提交至钉钉进行审批后再试！", resp["message"])

	w, resp = call("button_cancel")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"executed": "button_cancel"}, resp["data"])

	// 重置为审批中后确认按钮放行
	w, _ = env.do(t, http.MethodPost, "/api/admin/approval/reset", map[string]any{
		"table": "purchase.order", "res_id": 1, "approval_state": "approval", "approval_result": "load",
	})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = call("button_confirm")
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp = env.do(t, http.MethodPost, "/api/admin/approval/reset", map[string]any{
		"table": "purchase_order", "res_id": 99, "approval_state": "draft", "approval_result": "load",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, resp["message"], "强制重置失败，原因为：")
}

func TestCallButtonWithoutControlPassesThrough(t *testing.T) {
	env := setupEnv(t, "user")

	w, resp := env.do(t, http.MethodPost, "/api/dataset/call_button", map[string]any{
		"model": "purchase.order", "method": "button_confirm", "args": []any{[]any{}, map[string]any{}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"executed": "button_confirm"}, resp["data"])
}
