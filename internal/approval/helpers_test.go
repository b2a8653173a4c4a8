package approval

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"approvalhub/internal/logger"
	"approvalhub/internal/schema"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	_ = logger.Init("debug", "console", "stdout")
}

const purchaseForm = `<form>
  <header>
    <button name="button_confirm" string="确认订单" type="object" modifiers='{"invisible": [["state", "!=", "draft"]]}'/>
    <button name="button_cancel" string="取消" type="object"/>
    <button name="action_rfq_send" string="发送询价单" type="object"/>
  </header>
  <sheet/>
</form>`

func testRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	r, err := schema.NewRegistry(
		schema.RecordType{
			Model:   "purchase.order",
			Name:    "采购订单",
			Modules: []string{"purchase", " purchase_stock "},
			Fields: []schema.Field{
				{Name: "name", Label: "单号", Kind: schema.KindChar},
				{Name: "partner_id", Label: "供应商", Kind: schema.KindMany2one, Relation: "res.partner"},
				{Name: "amount_total", Label: "总计", Kind: schema.KindMonetary},
				{Name: "order_line", Label: "订单明细", Kind: schema.KindOne2many, Relation: "purchase.order.line"},
				{Name: "has_message", Label: "有消息", Kind: schema.KindBoolean},
			},
			FormView: purchaseForm,
		},
		schema.RecordType{
			Model:   "purchase.order.line",
			Name:    "采购明细",
			Modules: []string{"purchase"},
			Fields: []schema.Field{
				{Name: "product_id", Label: "产品", Kind: schema.KindMany2one, Relation: "product.product"},
				{Name: "product_qty", Label: "数量", Kind: schema.KindFloat},
				{Name: "invoice_lines", Label: "账单明细", Kind: schema.KindOne2many, Relation: "account.move.line"},
				{Name: "attachment", Label: "附件", Kind: schema.KindBinary},
				{Name: "is_downpayment", Label: "预付款", Kind: schema.KindBoolean},
			},
		},
		schema.RecordType{Model: "sale.order", Name: "销售订单", Modules: []string{"sale"},
			Fields: []schema.Field{{Name: "name", Label: "单号", Kind: schema.KindChar}}},
		schema.RecordType{Model: "purchase.wizard", Name: "向导", Transient: true},
	)
	require.NoError(t, err)
	return r
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(AllModels()...))
	return db
}

func seedEmployees(t *testing.T, db *gorm.DB, companyID uint, dingIDs ...string) []Employee {
	t.Helper()
	employees := make([]Employee, len(dingIDs))
	for i, id := range dingIDs {
		employees[i] = Employee{CompanyID: companyID, Name: "员工" + id, DingID: id, Active: true}
	}
	require.NoError(t, db.Create(&employees).Error)
	return employees
}

type fakeInstaller struct {
	calls [][]string
	err   error
}

func (f *fakeInstaller) Upgrade(_ context.Context, modules []string) error {
	f.calls = append(f.calls, modules)
	return f.err
}

func newControl(model string) *ApprovalControl {
	return &ApprovalControl{
		Name:  "采购审批",
		Model: model,
		Lines: []FieldMappingLine{{SourceField: "name"}},
	}
}
