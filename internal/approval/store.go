package approval

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"approvalhub/internal/common"
	"approvalhub/internal/logger"
	"approvalhub/internal/schema"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const tracerName = "approvalhub/approval"

// ClientAction 前端动作
type ClientAction struct {
	Type string `json:"type"`
	Tag  string `json:"tag"`
}

// WindowAction 打开单据窗口的动作
type WindowAction struct {
	Type     string         `json:"type"`
	ResModel string         `json:"res_model"`
	Name     string         `json:"name,omitempty"`
	Views    [][2]any       `json:"views"`
	Context  map[string]any `json:"context,omitempty"`
}

// SubmissionParams 提交审批所需参数（由审批提交层发送给钉钉）
type SubmissionParams struct {
	ControlID   string        `json:"control_id"`
	ProcessCode string        `json:"process_code"`
	Approvers   Approvers     `json:"approvers"`
	Cc          *CcUsers      `json:"cc,omitempty"`
	FormFields  []MappingRule `json:"form_fields"`
}

// Store 审批配置存储
type Store struct {
	db        *gorm.DB
	registry  *schema.Registry
	fields    *FieldResolver
	installer schema.ModuleInstaller
	eventBus  *ControlEventBus
	logger    *zap.Logger
	tracer    trace.Tracer
}

// StoreOption 自定义配置
type StoreOption func(*Store)

// WithInstaller 注入模块升级器
func WithInstaller(installer schema.ModuleInstaller) StoreOption {
	return func(s *Store) { s.installer = installer }
}

// WithEventBus 注入事件总线
func WithEventBus(bus *ControlEventBus) StoreOption {
	return func(s *Store) { s.eventBus = bus }
}

// WithStoreLogger 注入自定义日志器
func WithStoreLogger(l *zap.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// NewStore 创建审批配置存储
func NewStore(db *gorm.DB, registry *schema.Registry, opts ...StoreOption) *Store {
	s := &Store{
		db:       db,
		registry: registry,
		fields:   NewFieldResolver(registry),
		logger:   logger.Get(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Fields 字段映射解析器
func (s *Store) Fields() *FieldResolver {
	return s.fields
}

// Create 创建审批配置
func (s *Store) Create(ctx context.Context, companyID uint, control *ApprovalControl) (*ApprovalControl, error) {
	ctx, span := s.startSpan(ctx, "approval.Store.Create", companyID, control.Model)
	defer span.End()

	control.ID = uuid.New().String()
	if err := s.prepare(ctx, companyID, control); err != nil {
		return nil, spanError(span, err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkUnique(tx, control); err != nil {
			return err
		}
		if err := tx.Create(control).Error; err != nil {
			return translateWriteError(err, "创建审批配置失败")
		}
		return nil
	})
	if err != nil {
		return nil, spanError(span, err)
	}

	s.publish(control, EventCreated)
	logger.Enrich(ctx, s.logger).Info("审批配置已创建",
		zap.String("control_id", control.ID),
		zap.String("model", control.Model),
	)
	return s.Get(ctx, companyID, control.ID)
}

// Update 更新审批配置，子表整体替换
func (s *Store) Update(ctx context.Context, companyID uint, id string, control *ApprovalControl) (*ApprovalControl, error) {
	ctx, span := s.startSpan(ctx, "approval.Store.Update", companyID, control.Model)
	defer span.End()

	existing, err := s.load(ctx, companyID, id)
	if err != nil {
		return nil, spanError(span, err)
	}

	control.ID = id
	control.CreatedAt = existing.CreatedAt
	if err := s.prepare(ctx, companyID, control); err != nil {
		return nil, spanError(span, err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkUnique(tx, control); err != nil {
			return err
		}
		if err := deleteChildren(tx, id); err != nil {
			return fmt.Errorf("清理审批配置明细失败: %w", err)
		}
		if err := tx.Omit(clause.Associations).Save(control).Error; err != nil {
			return translateWriteError(err, "更新审批配置失败")
		}
		return createChildren(tx, control)
	})
	if err != nil {
		return nil, spanError(span, err)
	}

	// 单据类型变更时旧配置也需要失效
	if existing.Model != control.Model {
		s.publish(existing, EventDeleted)
	}
	s.publish(control, EventUpdated)
	return s.Get(ctx, companyID, id)
}

// Delete 删除审批配置及其明细
func (s *Store) Delete(ctx context.Context, companyID uint, id string) error {
	existing, err := s.load(ctx, companyID, id)
	if err != nil {
		return err
	}
	ctx, span := s.startSpan(ctx, "approval.Store.Delete", companyID, existing.Model)
	defer span.End()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteChildren(tx, id); err != nil {
			return err
		}
		return tx.Delete(&ApprovalControl{}, "id = ?", id).Error
	})
	if err != nil {
		return spanError(span, fmt.Errorf("删除审批配置失败: %w", err))
	}

	s.publish(existing, EventDeleted)
	logger.Enrich(ctx, s.logger).Info("审批配置已删除", zap.String("control_id", id), zap.String("model", existing.Model))
	return nil
}

// Get 获取审批配置（含明细）
func (s *Store) Get(ctx context.Context, companyID uint, id string) (*ApprovalControl, error) {
	var control ApprovalControl
	err := preloadAll(s.db.WithContext(ctx)).
		Scopes(common.ByCompany(companyID)).
		Where("id = ?", id).
		First(&control).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrControlNotFound
		}
		return nil, fmt.Errorf("查询审批配置失败: %w", err)
	}
	return &control, nil
}

// List 分页查询公司的审批配置
func (s *Store) List(ctx context.Context, companyID uint, page common.PaginationRequest) ([]ApprovalControl, int64, error) {
	var total int64
	query := s.db.WithContext(ctx).Model(&ApprovalControl{}).Scopes(common.ByCompany(companyID))
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计审批配置失败: %w", err)
	}

	var controls []ApprovalControl
	err := s.db.WithContext(ctx).
		Preload("Template").
		Scopes(common.ByCompany(companyID), common.Paginate(page)).
		Order("model").
		Find(&controls).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询审批配置列表失败: %w", err)
	}
	return controls, total, nil
}

// FindControl 查找公司某单据的审批配置，未配置时返回 nil, nil
func (s *Store) FindControl(ctx context.Context, model string, companyID uint) (*ApprovalControl, error) {
	var control ApprovalControl
	err := preloadAll(s.db.WithContext(ctx)).
		Scopes(common.ByCompany(companyID)).
		Where("model = ?", model).
		First(&control).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询审批配置失败: %w", err)
	}
	return &control, nil
}

// SelectRecordType 选择单据类型：读取表单头部按钮并登记（已存在的跳过）
func (s *Store) SelectRecordType(ctx context.Context, companyID uint, model string) ([]ButtonDescriptor, error) {
	rt, err := s.governable(model)
	if err != nil {
		return nil, err
	}
	headerButtons, err := rt.HeaderButtons()
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	for _, hb := range headerButtons {
		var count int64
		err := db.Model(&ButtonDescriptor{}).
			Where("model = ? AND function = ? AND company_id = ?", model, hb.Name, companyID).
			Count(&count).Error
		if err != nil {
			return nil, fmt.Errorf("查询单据按钮失败: %w", err)
		}
		if count > 0 {
			continue
		}

		desc := &ButtonDescriptor{
			Model:     model,
			Function:  hb.Name,
			CompanyID: companyID,
			Name:      hb.Label,
			Modifiers: modifiersJSON(hb.Modifiers),
		}
		// 并发登记同一按钮时以唯一索引去重
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(desc).Error; err != nil {
			return nil, fmt.Errorf("登记单据按钮失败: %w", err)
		}
	}
	return s.ListButtons(ctx, companyID, model)
}

// ListButtons 单据可选的禁用功能按钮
func (s *Store) ListButtons(ctx context.Context, companyID uint, model string) ([]ButtonDescriptor, error) {
	var buttons []ButtonDescriptor
	err := s.db.WithContext(ctx).
		Scopes(common.ByCompany(companyID)).
		Where("model = ?", model).
		Order("id").
		Find(&buttons).Error
	if err != nil {
		return nil, fmt.Errorf("查询单据按钮失败: %w", err)
	}

	label := model
	if rt, ok := s.registry.Lookup(model); ok && rt.Name != "" {
		label = rt.Name
	}
	for i := range buttons {
		buttons[i].DisplayName = fmt.Sprintf("%s:%s", label, buttons[i].Name)
	}
	return buttons, nil
}

// ReloadDependentModule 升级单据所属模块使审批字段生效，并通知前端刷新
func (s *Store) ReloadDependentModule(ctx context.Context, companyID uint, id string) (*ClientAction, error) {
	control, err := s.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if len(control.Lines) < 1 {
		return nil, ErrConfigurationIncomplete
	}
	if s.installer == nil {
		return nil, fmt.Errorf("未配置模块升级器")
	}

	rt, ok := s.registry.Lookup(control.Model)
	if !ok {
		return nil, ErrModelNotGovernable
	}
	modules := make([]string, 0, len(rt.Modules))
	for _, m := range rt.Modules {
		if m = strings.TrimSpace(m); m != "" {
			modules = append(modules, m)
		}
	}
	if err := s.installer.Upgrade(ctx, modules); err != nil {
		return nil, fmt.Errorf("升级模块失败: %w", err)
	}

	s.publish(control, EventUpdated)
	return &ClientAction{Type: "ir.actions.client", Tag: "reload"}, nil
}

// SubmissionParams 组装提交审批的参数
func (s *Store) SubmissionParams(ctx context.Context, companyID uint, model string) (*SubmissionParams, error) {
	control, err := s.FindControl(ctx, model, companyID)
	if err != nil {
		return nil, err
	}
	if control == nil {
		return nil, ErrControlNotFound
	}

	params := &SubmissionParams{
		ControlID:  control.ID,
		Approvers:  GetApprovers(control),
		FormFields: ResolveMappingPlan(control),
	}
	if control.Template != nil {
		params.ProcessCode = control.Template.ProcessCode
	}
	cc, ok, err := GetCcUsers(control)
	if err != nil {
		return nil, err
	}
	if ok {
		params.Cc = &cc
	}
	return params, nil
}

// SelectableEmployees 可选审批人/抄送人：已绑定钉钉ID的在职员工
func (s *Store) SelectableEmployees(ctx context.Context, companyID uint) ([]Employee, error) {
	var employees []Employee
	err := s.db.WithContext(ctx).
		Scopes(common.ByCompany(companyID), common.ActiveOnly()).
		Where("ding_id <> ''").
		Order("name").
		Find(&employees).Error
	if err != nil {
		return nil, fmt.Errorf("查询员工失败: %w", err)
	}
	return employees, nil
}

// OpenRecordAction 新建受审批单据
func OpenRecordAction(control *ApprovalControl) WindowAction {
	return WindowAction{
		Type:     "ir.actions.act_window",
		ResModel: control.Model,
		Views:    [][2]any{{false, "form"}},
		Context:  map[string]any{"form_view_initial_mode": "edit"},
	}
}

// OpenListAction 跳转至受审批单据列表
func (s *Store) OpenListAction(control *ApprovalControl) WindowAction {
	name := control.Model
	if rt, ok := s.registry.Lookup(control.Model); ok && rt.Name != "" {
		name = rt.Name
	}
	return WindowAction{
		Type:     "ir.actions.act_window",
		ResModel: control.Model,
		Name:     name,
		Views:    [][2]any{{false, "tree"}, {false, "form"}},
	}
}

// prepare 保存前的规范化与校验
func (s *Store) prepare(ctx context.Context, companyID uint, control *ApprovalControl) error {
	control.CompanyID = companyID
	control.StartFunction = stripSpaces(control.StartFunction)
	control.RestartFunction = stripSpaces(control.RestartFunction)
	control.PassFunction = stripSpaces(control.PassFunction)
	control.RefuseFunction = stripSpaces(control.RefuseFunction)
	control.Template = nil
	assignSequences(control)

	if strings.TrimSpace(control.Name) == "" {
		return common.NewBusinessError(common.CodeInvalidRequest, "名称不能为空")
	}
	if _, err := s.governable(control.Model); err != nil {
		return err
	}
	switch control.Kind {
	case "":
		control.Kind = RecordKindOA
	case RecordKindOA, RecordKindBusiness:
	default:
		return common.NewBusinessError(common.CodeInvalidRequest, "单据类型不支持: "+string(control.Kind))
	}
	switch control.ApprovalType {
	case "", ApprovalSequential, ApprovalGroup:
	default:
		return common.NewBusinessError(common.CodeInvalidRequest, "审批类型不支持: "+string(control.ApprovalType))
	}
	switch control.CcTrigger {
	case "", CcOnStart, CcOnFinish, CcOnStartFinish:
	default:
		return common.NewBusinessError(common.CodeInvalidRequest, "抄送时间不支持: "+string(control.CcTrigger))
	}

	if err := s.fields.ValidateLines(control.Model, control.Lines); err != nil {
		return err
	}
	for i := range control.GroupLines {
		if err := ValidateGroupLine(&control.GroupLines[i]); err != nil {
			return err
		}
	}
	if err := s.validateButtons(ctx, companyID, control); err != nil {
		return err
	}
	return s.validateReferences(ctx, companyID, control)
}

// validateReferences 审批模板与员工必须属于当前公司
func (s *Store) validateReferences(ctx context.Context, companyID uint, control *ApprovalControl) error {
	db := s.db.WithContext(ctx)
	if control.TemplateID != nil && *control.TemplateID == "" {
		control.TemplateID = nil
	}
	if control.TemplateID != nil {
		var count int64
		err := db.Model(&ApprovalTemplate{}).Scopes(common.ByCompany(companyID)).
			Where("id = ?", *control.TemplateID).Count(&count).Error
		if err != nil {
			return fmt.Errorf("校验审批模板失败: %w", err)
		}
		if count == 0 {
			return common.NewBusinessError(common.CodeInvalidRequest, "审批模板不存在或不属于当前公司")
		}
	}

	ids := make(map[uint]struct{})
	for _, u := range control.Users {
		ids[u.EmployeeID] = struct{}{}
	}
	for _, line := range control.GroupLines {
		for _, m := range line.Members {
			ids[m.EmployeeID] = struct{}{}
		}
	}
	if len(ids) == 0 {
		return nil
	}
	list := make([]uint, 0, len(ids))
	for id := range ids {
		list = append(list, id)
	}
	var count int64
	err := db.Model(&Employee{}).Scopes(common.ByCompany(companyID)).
		Where("id IN ?", list).Count(&count).Error
	if err != nil {
		return fmt.Errorf("校验审批人失败: %w", err)
	}
	if int(count) != len(list) {
		return common.NewBusinessError(common.CodeInvalidRequest, "审批人或抄送人不存在或不属于当前公司")
	}
	return nil
}

func (s *Store) validateButtons(ctx context.Context, companyID uint, control *ApprovalControl) error {
	ids := make(map[uint]struct{}, len(control.Buttons))
	for _, b := range control.Buttons {
		if !b.Phase.Valid() {
			return common.NewBusinessError(common.CodeInvalidRequest, "禁用阶段不支持: "+string(b.Phase))
		}
		ids[b.ButtonID] = struct{}{}
	}
	if len(ids) == 0 {
		return nil
	}

	list := make([]uint, 0, len(ids))
	for id := range ids {
		list = append(list, id)
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&ButtonDescriptor{}).
		Where("id IN ? AND model = ? AND company_id = ?", list, control.Model, companyID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("校验禁用按钮失败: %w", err)
	}
	if int(count) != len(list) {
		return invalidMapping("禁用功能按钮不属于单据 %s", control.Model)
	}
	return nil
}

// checkUnique 同一公司同一单据只能有一条配置
func (s *Store) checkUnique(tx *gorm.DB, control *ApprovalControl) error {
	var count int64
	err := tx.Model(&ApprovalControl{}).
		Where("company_id = ? AND model = ? AND id <> ?", control.CompanyID, control.Model, control.ID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("检查审批配置唯一性失败: %w", err)
	}
	if count+1 > 1 {
		return ErrDuplicateConfiguration
	}
	return nil
}

func (s *Store) governable(model string) (*schema.RecordType, error) {
	if !s.registry.IsGovernable(model) {
		return nil, common.NewBusinessError(common.CodeModelNotGovernable, "该单据类型不支持配置审批: "+model)
	}
	rt, _ := s.registry.Lookup(model)
	return rt, nil
}

func (s *Store) load(ctx context.Context, companyID uint, id string) (*ApprovalControl, error) {
	var control ApprovalControl
	err := s.db.WithContext(ctx).Scopes(common.ByCompany(companyID)).Where("id = ?", id).First(&control).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrControlNotFound
		}
		return nil, fmt.Errorf("查询审批配置失败: %w", err)
	}
	return &control, nil
}

func (s *Store) publish(control *ApprovalControl, action string) {
	s.eventBus.Publish(ControlEvent{
		ControlID:  control.ID,
		CompanyID:  control.CompanyID,
		Model:      control.Model,
		Action:     action,
		OccurredAt: time.Now().UTC(),
	})
}

func (s *Store) startSpan(ctx context.Context, name string, companyID uint, model string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.Int64("company.id", int64(companyID)),
		attribute.String("approval.model", model),
	))
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func preloadAll(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Template").
		Preload("Lines", bySequence).
		Preload("Lines.ListLines", bySequence).
		Preload("Users", bySequence).
		Preload("Users.Employee").
		Preload("GroupLines", bySequence).
		Preload("GroupLines.Members", bySequence).
		Preload("GroupLines.Members.Employee").
		Preload("Buttons").
		Preload("Buttons.Button")
}

func bySequence(db *gorm.DB) *gorm.DB {
	return db.Order("sequence").Order("id")
}

func deleteChildren(tx *gorm.DB, controlID string) error {
	lineIDs := tx.Model(&FieldMappingLine{}).Select("id").Where("control_id = ?", controlID)
	if err := tx.Where("line_id IN (?)", lineIDs).Delete(&ListMappingLine{}).Error; err != nil {
		return err
	}
	groupIDs := tx.Model(&GroupApprovalLine{}).Select("id").Where("control_id = ?", controlID)
	if err := tx.Where("line_id IN (?)", groupIDs).Delete(&GroupMember{}).Error; err != nil {
		return err
	}
	for _, child := range []any{&FieldMappingLine{}, &GroupApprovalLine{}, &ControlUser{}, &ControlButton{}} {
		if err := tx.Where("control_id = ?", controlID).Delete(child).Error; err != nil {
			return err
		}
	}
	return nil
}

func createChildren(tx *gorm.DB, control *ApprovalControl) error {
	for i := range control.Lines {
		control.Lines[i].ID = 0
		control.Lines[i].ControlID = control.ID
		for j := range control.Lines[i].ListLines {
			control.Lines[i].ListLines[j].ID = 0
		}
	}
	for i := range control.GroupLines {
		control.GroupLines[i].ID = 0
		control.GroupLines[i].ControlID = control.ID
		for j := range control.GroupLines[i].Members {
			control.GroupLines[i].Members[j].ID = 0
		}
	}
	for i := range control.Users {
		control.Users[i].ID = 0
		control.Users[i].ControlID = control.ID
	}
	for i := range control.Buttons {
		control.Buttons[i].ID = 0
		control.Buttons[i].ControlID = control.ID
	}

	if len(control.Lines) > 0 {
		if err := tx.Create(&control.Lines).Error; err != nil {
			return fmt.Errorf("保存字段映射失败: %w", err)
		}
	}
	if len(control.GroupLines) > 0 {
		if err := tx.Create(&control.GroupLines).Error; err != nil {
			return fmt.Errorf("保存审批组失败: %w", err)
		}
	}
	if len(control.Users) > 0 {
		if err := tx.Create(&control.Users).Error; err != nil {
			return fmt.Errorf("保存审批人失败: %w", err)
		}
	}
	if len(control.Buttons) > 0 {
		if err := tx.Create(&control.Buttons).Error; err != nil {
			return fmt.Errorf("保存禁用功能失败: %w", err)
		}
	}
	return nil
}

// assignSequences 未指定序号时按列表顺序编号，并清除关联对象只保留ID
func assignSequences(control *ApprovalControl) {
	for i := range control.Lines {
		if control.Lines[i].Sequence == 0 {
			control.Lines[i].Sequence = i + 1
		}
		for j := range control.Lines[i].ListLines {
			if control.Lines[i].ListLines[j].Sequence == 0 {
				control.Lines[i].ListLines[j].Sequence = j + 1
			}
		}
	}
	for i := range control.GroupLines {
		if control.GroupLines[i].Sequence == 0 {
			control.GroupLines[i].Sequence = i + 1
		}
		for j := range control.GroupLines[i].Members {
			member := &control.GroupLines[i].Members[j]
			if member.Employee != nil && member.EmployeeID == 0 {
				member.EmployeeID = member.Employee.ID
			}
			member.Employee = nil
			if member.Sequence == 0 {
				member.Sequence = j + 1
			}
		}
	}
	for i := range control.Users {
		u := &control.Users[i]
		if u.Employee != nil && u.EmployeeID == 0 {
			u.EmployeeID = u.Employee.ID
		}
		u.Employee = nil
		if u.Sequence == 0 {
			u.Sequence = i + 1
		}
	}
	for i := range control.Buttons {
		b := &control.Buttons[i]
		if b.Button != nil && b.ButtonID == 0 {
			b.ButtonID = b.Button.ID
		}
		b.Button = nil
	}
}

// stripSpaces 去除所有空白字符
func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func modifiersJSON(raw string) datatypes.JSON {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if json.Valid([]byte(raw)) {
		return datatypes.JSON(raw)
	}
	quoted, _ := json.Marshal(raw)
	return datatypes.JSON(quoted)
}

// translateWriteError 唯一索引冲突转换为重复配置错误
func translateWriteError(err error, msg string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateConfiguration
	}
	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "unique constraint") || strings.Contains(lower, "duplicate key") {
		return ErrDuplicateConfiguration
	}
	return fmt.Errorf("%s: %w", msg, err)
}
