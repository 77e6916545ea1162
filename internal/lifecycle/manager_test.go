package lifecycle_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ecis/inspection-gin/internal/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 14, 15, 30, 0, 0, time.UTC)

type fakeRegistry struct {
	dates map[string]time.Time
	calls int
	err   error
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{dates: make(map[string]time.Time)}
}

func (r *fakeRegistry) RecordInspection(_ context.Context, equipmentID string, date time.Time) error {
	r.calls++
	if r.err != nil {
		return r.err
	}
	r.dates[equipmentID] = date
	return nil
}

type auditEntry struct {
	entityID string
	actorID  string
	message  string
}

type fakeAudit struct {
	entries []auditEntry
	err     error
}

func (a *fakeAudit) Append(_ context.Context, entityID, actorID, message string) error {
	if a.err != nil {
		return a.err
	}
	a.entries = append(a.entries, auditEntry{entityID, actorID, message})
	return nil
}

type sentNotification struct {
	recipient string
	template  string
	data      map[string]interface{}
}

type fakeNotifier struct {
	sent []sentNotification
	err  error
}

func (n *fakeNotifier) Notify(_ context.Context, recipient, template string, data map[string]interface{}) error {
	n.sent = append(n.sent, sentNotification{recipient, template, data})
	return n.err
}

func craneTemplates() []lifecycle.ChecklistItemTemplate {
	return []lifecycle.ChecklistItemTemplate{
		{Category: lifecycle.CategoryCrane, Sequence: 30, Name: "Brakes", Requirement: "ISO 3", Active: true},
		{Category: lifecycle.CategoryCrane, Sequence: 10, Name: "Structure", Requirement: "ISO 1", Active: true},
		{Category: lifecycle.CategoryCrane, Sequence: 20, Name: "Hoist rope", Requirement: "ISO 2", Active: true},
		{Category: lifecycle.CategoryCrane, Sequence: 15, Name: "Retired item", Active: false},
		{Category: lifecycle.CategoryElevator, Sequence: 10, Name: "Doors", Active: true},
	}
}

type fixture struct {
	manager  *lifecycle.Manager
	registry *fakeRegistry
	audit    *fakeAudit
	notifier *fakeNotifier
}

func newFixture() *fixture {
	f := &fixture{
		registry: newFakeRegistry(),
		audit:    &fakeAudit{},
		notifier: &fakeNotifier{},
	}
	seq := 0
	f.manager = lifecycle.NewManager(
		lifecycle.NewStaticCatalog(craneTemplates()),
		f.registry,
		lifecycle.WithAuditLog(f.audit),
		lifecycle.WithNotifier(f.notifier),
		lifecycle.WithClock(func() time.Time { return fixedNow }),
		lifecycle.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("ins-%03d", seq)
		}),
	)
	return f
}

var crane = lifecycle.Equipment{
	ID:       "eq-001",
	Name:     "Tower crane T1",
	Category: lifecycle.CategoryCrane,
	ClientID: "client-001",
}

func (f *fixture) create(t *testing.T) *lifecycle.Inspection {
	t.Helper()
	rec, err := f.manager.Create(context.Background(), lifecycle.CreateParams{
		Equipment:   crane,
		Type:        lifecycle.TypePeriodic,
		Date:        fixedNow.AddDate(0, 0, -1),
		InspectorID: "inspector-001",
		Reference:   "INS/2025/00001",
	})
	require.NoError(t, err)
	return rec
}

func completable(rec *lifecycle.Inspection) {
	rec.Result = lifecycle.ResultApproved
	rec.InspectorSignature = []byte("signature")
}

// TestCreateAutoPopulatesChecklist 测试按设备类别生成检查项
func TestCreateAutoPopulatesChecklist(t *testing.T) {
	f := newFixture()
	rec := f.create(t)

	expected, err := lifecycle.NewStaticCatalog(craneTemplates()).TemplatesFor(context.Background(), lifecycle.CategoryCrane)
	require.NoError(t, err)

	require.Len(t, rec.Checklist, len(expected))
	for i, tpl := range expected {
		assert.Equal(t, tpl.Sequence, rec.Checklist[i].Sequence)
		assert.Equal(t, tpl.Name, rec.Checklist[i].Name)
		assert.Equal(t, tpl.Requirement, rec.Checklist[i].Requirement)
		assert.Equal(t, lifecycle.StatusPass, rec.Checklist[i].Status)
	}
	assert.Equal(t, []string{"Structure", "Hoist rope", "Brakes"},
		[]string{rec.Checklist[0].Name, rec.Checklist[1].Name, rec.Checklist[2].Name})

	assert.Equal(t, lifecycle.StateDraft, rec.State)
	assert.Equal(t, "ins-001", rec.ID)
	assert.Equal(t, "client-001", rec.ClientID)
	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, "ins-001", f.audit.entries[0].entityID)
}

// TestCreateWithExplicitChecklist 测试显式提供的检查项不会被模板覆盖
func TestCreateWithExplicitChecklist(t *testing.T) {
	f := newFixture()

	rec, err := f.manager.Create(context.Background(), lifecycle.CreateParams{
		Equipment: crane,
		Checklist: []lifecycle.ChecklistItem{
			{Sequence: 20, Name: "B"},
			{Sequence: 10, Name: "A", Status: lifecycle.StatusFail},
			{Sequence: 20, Name: "C"},
		},
	})
	require.NoError(t, err)
	require.Len(t, rec.Checklist, 3)
	assert.Equal(t, "A", rec.Checklist[0].Name)
	assert.Equal(t, lifecycle.StatusFail, rec.Checklist[0].Status)
	assert.Equal(t, "B", rec.Checklist[1].Name)
	assert.Equal(t, "C", rec.Checklist[2].Name)
	assert.Equal(t, lifecycle.StatusPass, rec.Checklist[1].Status)

	// 空列表表示不需要检查项
	rec, err = f.manager.Create(context.Background(), lifecycle.CreateParams{
		Equipment: crane,
		Checklist: []lifecycle.ChecklistItem{},
	})
	require.NoError(t, err)
	assert.Empty(t, rec.Checklist)
}

// TestCreateDefaults 测试默认检验类型和日期
func TestCreateDefaults(t *testing.T) {
	f := newFixture()

	rec, err := f.manager.Create(context.Background(), lifecycle.CreateParams{Equipment: crane})
	require.NoError(t, err)
	assert.Equal(t, lifecycle.TypePeriodic, rec.Type)
	assert.Equal(t, lifecycle.DateOf(fixedNow), rec.InspectionDate)
}

// TestCreateUnknownCategory 测试未知类别得到空检查项
func TestCreateUnknownCategory(t *testing.T) {
	f := newFixture()

	rec, err := f.manager.Create(context.Background(), lifecycle.CreateParams{
		Equipment: lifecycle.Equipment{ID: "eq-x", Category: lifecycle.CategoryForklift},
	})
	require.NoError(t, err)
	assert.NotNil(t, rec.Checklist)
	assert.Empty(t, rec.Checklist)
}

// TestCreateInspectionDate 测试检验日期不能晚于今天
func TestCreateInspectionDate(t *testing.T) {
	f := newFixture()

	_, err := f.manager.Create(context.Background(), lifecycle.CreateParams{
		Equipment: crane,
		Date:      fixedNow.AddDate(0, 0, 1),
	})
	assert.ErrorIs(t, err, lifecycle.ErrInvalidDate)
	assert.Equal(t, lifecycle.CodeInvalidDate, lifecycle.CodeOf(err))

	rec, err := f.manager.Create(context.Background(), lifecycle.CreateParams{
		Equipment: crane,
		Date:      fixedNow,
	})
	require.NoError(t, err)
	assert.Equal(t, lifecycle.DateOf(fixedNow), rec.InspectionDate)
}

// TestCreateValidation 测试创建参数校验
func TestCreateValidation(t *testing.T) {
	f := newFixture()

	_, err := f.manager.Create(context.Background(), lifecycle.CreateParams{})
	assert.ErrorIs(t, err, lifecycle.ErrValidation)

	_, err = f.manager.Create(context.Background(), lifecycle.CreateParams{
		Equipment: crane,
		Type:      "yearly",
	})
	assert.ErrorIs(t, err, lifecycle.ErrValidation)

	_, err = f.manager.Create(context.Background(), lifecycle.CreateParams{
		Equipment: crane,
		Checklist: []lifecycle.ChecklistItem{{Name: "x", Status: "broken"}},
	})
	assert.ErrorIs(t, err, lifecycle.ErrValidation)
}

// TestStart 测试开始检验
func TestStart(t *testing.T) {
	f := newFixture()
	rec := f.create(t)

	require.NoError(t, f.manager.Start(context.Background(), rec, "inspector-001"))
	assert.Equal(t, lifecycle.StateInProgress, rec.State)

	err := f.manager.Start(context.Background(), rec, "inspector-001")
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
	assert.Equal(t, lifecycle.StateInProgress, rec.State)
}

// TestCompleteRequiresResultAndSignature 测试完成前必须设置结论和签名
func TestCompleteRequiresResultAndSignature(t *testing.T) {
	f := newFixture()
	rec := f.create(t)

	err := f.manager.Complete(context.Background(), rec, "inspector-001")
	assert.ErrorIs(t, err, lifecycle.ErrMissingResult)

	rec.Result = lifecycle.ResultConditional
	err = f.manager.Complete(context.Background(), rec, "inspector-001")
	assert.ErrorIs(t, err, lifecycle.ErrMissingSignature)

	rec.Result = lifecycle.ResultUnset
	rec.InspectorSignature = []byte("sig")
	err = f.manager.Complete(context.Background(), rec, "inspector-001")
	assert.ErrorIs(t, err, lifecycle.ErrMissingResult)

	assert.Equal(t, lifecycle.StateDraft, rec.State)
	assert.Zero(t, f.registry.calls)
}

// TestCompleteUpdatesEquipment 测试完成检验写入设备最近检验日期
func TestCompleteUpdatesEquipment(t *testing.T) {
	f := newFixture()
	rec := f.create(t)
	require.NoError(t, f.manager.Start(context.Background(), rec, "inspector-001"))
	completable(rec)

	require.NoError(t, f.manager.Complete(context.Background(), rec, "inspector-001"))
	assert.Equal(t, lifecycle.StateCompleted, rec.State)
	assert.Equal(t, rec.InspectionDate, f.registry.dates[crane.ID])

	// 已完成的检验单不能再次完成,设备状态不变
	err := f.manager.Complete(context.Background(), rec, "inspector-001")
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
	assert.Equal(t, 1, f.registry.calls)
	assert.Equal(t, rec.InspectionDate, f.registry.dates[crane.ID])
}

// TestCompleteFromDraft 测试草稿可以直接完成
func TestCompleteFromDraft(t *testing.T) {
	f := newFixture()
	rec := f.create(t)
	completable(rec)

	require.NoError(t, f.manager.Complete(context.Background(), rec, "inspector-001"))
	assert.Equal(t, lifecycle.StateCompleted, rec.State)
}

// TestCompleteRegistryFailure 测试设备更新失败时状态不变
func TestCompleteRegistryFailure(t *testing.T) {
	f := newFixture()
	rec := f.create(t)
	completable(rec)
	f.registry.err = errors.New("database is locked")

	err := f.manager.Complete(context.Background(), rec, "inspector-001")
	require.Error(t, err)
	assert.Equal(t, lifecycle.StateDraft, rec.State)
}

// TestCompleteFromTerminalStates 测试已取消和已发送的检验单不能完成
func TestCompleteFromTerminalStates(t *testing.T) {
	for _, state := range []lifecycle.InspectionState{lifecycle.StateSent, lifecycle.StateCancelled} {
		f := newFixture()
		rec := f.create(t)
		completable(rec)
		rec.State = state

		err := f.manager.Complete(context.Background(), rec, "inspector-001")
		assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition, "state %s", state)
		assert.Zero(t, f.registry.calls)
	}
}

// TestSendToClient 测试发送给客户并触发通知
func TestSendToClient(t *testing.T) {
	f := newFixture()
	rec := f.create(t)

	err := f.manager.SendToClient(context.Background(), rec, "inspector-001")
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
	assert.Empty(t, f.notifier.sent)

	completable(rec)
	require.NoError(t, f.manager.Complete(context.Background(), rec, "inspector-001"))
	require.NoError(t, f.manager.SendToClient(context.Background(), rec, "inspector-001"))
	assert.Equal(t, lifecycle.StateSent, rec.State)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "client-001", f.notifier.sent[0].recipient)
	assert.Equal(t, lifecycle.TemplateInspectionSent, f.notifier.sent[0].template)
	assert.Equal(t, "INS-2025-00001_Inspection_Report.pdf", f.notifier.sent[0].data["report_filename"])
}

// TestSendToClientNotifierFailure 测试通知失败不影响状态迁移
func TestSendToClientNotifierFailure(t *testing.T) {
	f := newFixture()
	f.notifier.err = errors.New("smtp unavailable")
	rec := f.create(t)
	completable(rec)
	require.NoError(t, f.manager.Complete(context.Background(), rec, "inspector-001"))

	require.NoError(t, f.manager.SendToClient(context.Background(), rec, "inspector-001"))
	assert.Equal(t, lifecycle.StateSent, rec.State)
}

// TestCancel 测试取消检验
func TestCancel(t *testing.T) {
	for _, state := range []lifecycle.InspectionState{lifecycle.StateDraft, lifecycle.StateInProgress, lifecycle.StateCompleted} {
		f := newFixture()
		rec := f.create(t)
		rec.State = state

		require.NoError(t, f.manager.Cancel(context.Background(), rec, "inspector-001"), "state %s", state)
		assert.Equal(t, lifecycle.StateCancelled, rec.State)
	}

	for _, state := range []lifecycle.InspectionState{lifecycle.StateSent, lifecycle.StateCancelled} {
		f := newFixture()
		rec := f.create(t)
		rec.State = state

		err := f.manager.Cancel(context.Background(), rec, "inspector-001")
		assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition, "state %s", state)
		assert.Equal(t, state, rec.State)
	}
}

// TestResetToDraftKeepsData 测试重置为草稿不清除数据
func TestResetToDraftKeepsData(t *testing.T) {
	f := newFixture()
	rec := f.create(t)
	rec.Checklist[1].Status = lifecycle.StatusFail
	rec.Checklist[1].Notes = "broken strand"
	rec.DefectsFound = "rope wear"
	completable(rec)
	require.NoError(t, f.manager.Complete(context.Background(), rec, "inspector-001"))

	checklist := append([]lifecycle.ChecklistItem(nil), rec.Checklist...)

	require.NoError(t, f.manager.ResetToDraft(context.Background(), rec, "manager-001"))
	assert.Equal(t, lifecycle.StateDraft, rec.State)
	assert.Equal(t, checklist, rec.Checklist)
	assert.Equal(t, lifecycle.ResultApproved, rec.Result)
	assert.Equal(t, []byte("signature"), rec.InspectorSignature)
	assert.Equal(t, "rope wear", rec.DefectsFound)

	last := f.audit.entries[len(f.audit.entries)-1]
	assert.Equal(t, "manager-001", last.actorID)
	assert.Equal(t, "Reset to draft.", last.message)
}

// TestResetToDraftFromAnyState 测试任意状态都可以重置
func TestResetToDraftFromAnyState(t *testing.T) {
	states := []lifecycle.InspectionState{
		lifecycle.StateDraft, lifecycle.StateInProgress, lifecycle.StateCompleted,
		lifecycle.StateSent, lifecycle.StateCancelled,
	}
	for _, state := range states {
		f := newFixture()
		rec := f.create(t)
		rec.State = state
		require.NoError(t, f.manager.ResetToDraft(context.Background(), rec, "manager-001"))
		assert.Equal(t, lifecycle.StateDraft, rec.State)
	}
}

// TestTransitionAuditFailure 测试审计写入失败时状态不变
func TestTransitionAuditFailure(t *testing.T) {
	f := newFixture()
	rec := f.create(t)
	f.audit.err = errors.New("audit store down")

	err := f.manager.Start(context.Background(), rec, "inspector-001")
	require.Error(t, err)
	assert.Equal(t, lifecycle.StateDraft, rec.State)
}

// TestAuditTrail 测试每次迁移都写入审计
func TestAuditTrail(t *testing.T) {
	f := newFixture()
	rec := f.create(t)
	completable(rec)

	ctx := context.Background()
	require.NoError(t, f.manager.Start(ctx, rec, "inspector-001"))
	require.NoError(t, f.manager.Complete(ctx, rec, "inspector-001"))
	require.NoError(t, f.manager.SendToClient(ctx, rec, "inspector-002"))

	require.Len(t, f.audit.entries, 4)
	for _, entry := range f.audit.entries {
		assert.Equal(t, rec.ID, entry.entityID)
	}
	assert.Equal(t, "inspector-002", f.audit.entries[3].actorID)
}

// TestEnsureEditable 测试可编辑状态
func TestEnsureEditable(t *testing.T) {
	f := newFixture()
	rec := f.create(t)

	assert.NoError(t, f.manager.EnsureEditable(rec))
	rec.State = lifecycle.StateInProgress
	assert.NoError(t, f.manager.EnsureEditable(rec))
	rec.State = lifecycle.StateCompleted
	assert.ErrorIs(t, f.manager.EnsureEditable(rec), lifecycle.ErrInvalidTransition)
}

// TestNilCollaborators 测试未配置协作者时操作仍可执行
func TestNilCollaborators(t *testing.T) {
	m := lifecycle.NewManager(nil, nil)
	rec, err := m.Create(context.Background(), lifecycle.CreateParams{Equipment: crane})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Empty(t, rec.Checklist)

	completable(rec)
	require.NoError(t, m.Complete(context.Background(), rec, ""))
	require.NoError(t, m.SendToClient(context.Background(), rec, ""))
	assert.Equal(t, lifecycle.StateSent, rec.State)
}
