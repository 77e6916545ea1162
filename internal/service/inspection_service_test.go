package service_test

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/ecis/inspection-gin/internal/lifecycle"
	"github.com/ecis/inspection-gin/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

// TestInspectionLifecycle 测试检验单从创建到发送的完整流程
func TestInspectionLifecycle(t *testing.T) {
	f := setupFixture(t)
	client, eq := f.seedEquipment(t, 12)
	ctx := userContext("inspector-01")

	rec, err := f.inspections.Create(ctx, &service.CreateInspectionRequest{EquipmentID: eq.ID})
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StateDraft, rec.State)
	assert.True(t, strings.HasPrefix(rec.Reference, "INS/"))
	assert.Equal(t, client.ID, rec.ClientID)
	assert.Equal(t, lifecycle.TypePeriodic, rec.Type)
	// 检查项从起重机模板生成
	require.NotEmpty(t, rec.Checklist)
	assert.Equal(t, "Structural condition of boom and jib", rec.Checklist[0].Name)
	assert.NotEmpty(t, rec.Checklist[0].ID)

	rec, err = f.inspections.Start(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StateInProgress, rec.State)

	_, err = f.inspections.Complete(ctx, rec.ID)
	assert.ErrorIs(t, err, lifecycle.ErrMissingResult)

	_, err = f.inspections.Update(ctx, rec.ID, &service.UpdateInspectionRequest{OverallResult: strPtr("approved")})
	require.NoError(t, err)
	_, err = f.inspections.Complete(ctx, rec.ID)
	assert.ErrorIs(t, err, lifecycle.ErrMissingSignature)

	signature := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("signature"))
	_, err = f.inspections.SetSignature(ctx, rec.ID, &service.SignatureRequest{InspectorSignature: &signature})
	require.NoError(t, err)

	rec, err = f.inspections.Complete(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StateCompleted, rec.State)

	// 完成时写入设备最近检验日期
	updatedEq, err := f.equipment.Get(context.Background(), eq.ID)
	require.NoError(t, err)
	require.NotNil(t, updatedEq.LastInspectionDate)
	assert.Equal(t, rec.InspectionDate.Format("2006-01-02"), time.Time(*updatedEq.LastInspectionDate).Format("2006-01-02"))

	// 已完成的检验单不能修改
	_, err = f.inspections.Update(ctx, rec.ID, &service.UpdateInspectionRequest{InspectorNotes: strPtr("late note")})
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)

	rec, err = f.inspections.SendToClient(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StateSent, rec.State)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, lifecycle.TemplateInspectionSent, f.notifier.sent[0].template)
	assert.Equal(t, client.ID, f.notifier.sent[0].recipient)

	require.Len(t, f.publisher.events, 3)
	assert.Equal(t, "completed", f.publisher.events[1].To)
	assert.Equal(t, "inspector-01", f.publisher.events[2].Actor)

	history, err := f.inspections.History(context.Background(), rec.ID)
	require.NoError(t, err)
	require.Len(t, history.Transitions, 4)
	assert.Equal(t, "", history.Transitions[0].From)
	assert.Equal(t, "draft", history.Transitions[0].To)
	assert.Equal(t, "sent", history.Transitions[3].To)
	assert.NotEmpty(t, history.AuditLog)

	// 已发送的检验单可以生成报告
	doc, err := f.inspections.Report(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.ReportFilename(rec.Reference), doc.Filename)
	assert.True(t, strings.HasPrefix(string(doc.Content), "%PDF"))
}

// TestInspectionCompleteFromDraft 测试草稿可以直接完成
func TestInspectionCompleteFromDraft(t *testing.T) {
	f := setupFixture(t)
	_, eq := f.seedEquipment(t, 12)
	ctx := context.Background()

	rec, err := f.inspections.Create(ctx, &service.CreateInspectionRequest{
		EquipmentID:   eq.ID,
		OverallResult: "conditional",
	})
	require.NoError(t, err)
	sig := base64.StdEncoding.EncodeToString([]byte("sig"))
	_, err = f.inspections.SetSignature(ctx, rec.ID, &service.SignatureRequest{InspectorSignature: &sig})
	require.NoError(t, err)

	rec, err = f.inspections.Complete(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StateCompleted, rec.State)

	_, err = f.inspections.Complete(ctx, rec.ID)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
	_, err = f.inspections.Start(ctx, rec.ID)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)

	// 重置为草稿后可以再次修改,数据保留
	rec, err = f.inspections.ResetToDraft(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StateDraft, rec.State)
	assert.Equal(t, lifecycle.ResultConditional, rec.Result)
	assert.True(t, rec.HasSignature())
}

// TestInspectionCancel 测试取消检验
func TestInspectionCancel(t *testing.T) {
	f := setupFixture(t)
	_, eq := f.seedEquipment(t, 12)
	ctx := context.Background()

	rec, err := f.inspections.Create(ctx, &service.CreateInspectionRequest{EquipmentID: eq.ID})
	require.NoError(t, err)

	rec, err = f.inspections.Cancel(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StateCancelled, rec.State)

	_, err = f.inspections.Cancel(ctx, rec.ID)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
	_, err = f.inspections.SendToClient(ctx, rec.ID)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)

	// 取消的检验单不能生成报告
	_, err = f.inspections.Report(ctx, rec.ID)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
}

// TestCreateInspectionNextDueDate 测试下次检验日期的推算
func TestCreateInspectionNextDueDate(t *testing.T) {
	f := setupFixture(t)
	_, eq := f.seedEquipment(t, 6)
	ctx := context.Background()

	// 使用设备的检验周期
	rec, err := f.inspections.Create(ctx, &service.CreateInspectionRequest{
		EquipmentID:    eq.ID,
		InspectionDate: "2025-01-10",
	})
	require.NoError(t, err)
	assert.Equal(t, 6, rec.NextDueFrequencyMonths)
	require.NotNil(t, rec.NextDueDate)
	assert.Equal(t, "2025-07-09", rec.NextDueDate.Format("2006-01-02"))

	// 请求中的周期优先
	rec, err = f.inspections.Create(ctx, &service.CreateInspectionRequest{
		EquipmentID:             eq.ID,
		InspectionDate:          "2025-01-10",
		NextInspectionFrequency: 12,
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-01-05", rec.NextDueDate.Format("2006-01-02"))

	// 显式指定的日期不再推算
	rec, err = f.inspections.Create(ctx, &service.CreateInspectionRequest{
		EquipmentID:       eq.ID,
		InspectionDate:    "2025-01-10",
		NextInspectionDue: "2025-12-31",
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-12-31", rec.NextDueDate.Format("2006-01-02"))

	// 修改检验日期后重新推算
	updated, err := f.inspections.Update(ctx, rec.ID, &service.UpdateInspectionRequest{
		InspectionDate:          strPtr("2025-02-01"),
		NextInspectionFrequency: intPtr(1),
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-03", updated.NextDueDate.Format("2006-01-02"))
}

// TestCreateInspectionValidation 测试创建检验单的参数校验
func TestCreateInspectionValidation(t *testing.T) {
	f := setupFixture(t)
	_, eq := f.seedEquipment(t, 12)
	ctx := context.Background()

	_, err := f.inspections.Create(ctx, &service.CreateInspectionRequest{EquipmentID: "missing"})
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)

	future := time.Now().AddDate(0, 0, 10).Format("2006-01-02")
	_, err = f.inspections.Create(ctx, &service.CreateInspectionRequest{EquipmentID: eq.ID, InspectionDate: future})
	assert.ErrorIs(t, err, lifecycle.ErrInvalidDate)

	_, err = f.inspections.Create(ctx, &service.CreateInspectionRequest{EquipmentID: eq.ID, InspectionDate: "10/01/2025"})
	assert.ErrorIs(t, err, lifecycle.ErrValidation)

	_, err = f.inspections.Create(ctx, &service.CreateInspectionRequest{EquipmentID: eq.ID, InspectionType: "yearly"})
	assert.ErrorIs(t, err, lifecycle.ErrValidation)

	// 失败的创建不占用编号
	rec, err := f.inspections.Create(ctx, &service.CreateInspectionRequest{EquipmentID: eq.ID})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(rec.Reference, "/00001"), rec.Reference)
}

// TestCreateInspectionExplicitChecklist 测试显式提供的检查项
func TestCreateInspectionExplicitChecklist(t *testing.T) {
	f := setupFixture(t)
	_, eq := f.seedEquipment(t, 12)

	rec, err := f.inspections.Create(context.Background(), &service.CreateInspectionRequest{
		EquipmentID: eq.ID,
		Checklist: []service.ChecklistItemInput{
			{Sequence: 20, Name: "Second"},
			{Sequence: 5, Name: "First", Status: "fail"},
		},
	})
	require.NoError(t, err)
	require.Len(t, rec.Checklist, 2)
	assert.Equal(t, "First", rec.Checklist[0].Name)
	assert.Equal(t, lifecycle.StatusFail, rec.Checklist[0].Status)
	assert.Equal(t, lifecycle.StatusPass, rec.Checklist[1].Status)

	// 空列表表示不要检查项
	rec, err = f.inspections.Create(context.Background(), &service.CreateInspectionRequest{
		EquipmentID: eq.ID,
		Checklist:   []service.ChecklistItemInput{},
	})
	require.NoError(t, err)
	assert.Empty(t, rec.Checklist)
}

// TestChecklistItems 测试检查项增删改和统计
func TestChecklistItems(t *testing.T) {
	f := setupFixture(t)
	_, eq := f.seedEquipment(t, 12)
	ctx := context.Background()

	rec, err := f.inspections.Create(ctx, &service.CreateInspectionRequest{
		EquipmentID: eq.ID,
		Checklist:   []service.ChecklistItemInput{{Name: "Hook latch"}},
	})
	require.NoError(t, err)

	added, err := f.inspections.AddChecklistItem(ctx, rec.ID, &service.ChecklistItemInput{Name: "Brake test", Status: "warning"})
	require.NoError(t, err)
	assert.Equal(t, lifecycle.DefaultSequence, added.Sequence)

	_, err = f.inspections.AddChecklistItem(ctx, rec.ID, &service.ChecklistItemInput{Name: " "})
	assert.ErrorIs(t, err, lifecycle.ErrValidation)

	updated, err := f.inspections.UpdateChecklistItem(ctx, added.ID, &service.UpdateChecklistItemRequest{
		Status: strPtr("fail"),
		Notes:  strPtr("Brake lining worn"),
	})
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusFail, updated.Status)
	assert.Equal(t, "Brake lining worn", updated.Notes)

	_, err = f.inspections.UpdateChecklistItem(ctx, added.ID, &service.UpdateChecklistItemRequest{Status: strPtr("broken")})
	assert.ErrorIs(t, err, lifecycle.ErrValidation)

	stats, err := f.inspections.Stats(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Passed)
	assert.Equal(t, 1, stats.Failed)

	require.NoError(t, f.inspections.DeleteChecklistItem(ctx, added.ID))
	items, err := f.inspections.Checklist(ctx, rec.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.ErrorIs(t, f.inspections.DeleteChecklistItem(ctx, added.ID), lifecycle.ErrNotFound)
	assert.ErrorIs(t, f.inspections.DeleteChecklistItem(ctx, "not-a-number"), lifecycle.ErrNotFound)

	// 取消后检查项不能再修改
	_, err = f.inspections.Cancel(ctx, rec.ID)
	require.NoError(t, err)
	_, err = f.inspections.AddChecklistItem(ctx, rec.ID, &service.ChecklistItemInput{Name: "Too late"})
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
}

// TestListInspections 测试检验单查询
func TestListInspections(t *testing.T) {
	f := setupFixture(t)
	_, eq := f.seedEquipment(t, 12)
	ctx := context.Background()

	for _, date := range []string{"2025-01-10", "2025-02-10", "2025-03-10"} {
		_, err := f.inspections.Create(ctx, &service.CreateInspectionRequest{EquipmentID: eq.ID, InspectionDate: date})
		require.NoError(t, err)
	}

	all, err := f.inspections.List(ctx, &service.InspectionQuery{EquipmentID: eq.ID})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	ranged, err := f.inspections.List(ctx, &service.InspectionQuery{DateFrom: "2025-02-01", DateTo: "2025-02-28"})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "2025-02-10", ranged[0].InspectionDate.Format("2006-01-02"))

	_, err = f.inspections.List(ctx, &service.InspectionQuery{State: "archived"})
	assert.ErrorIs(t, err, lifecycle.ErrValidation)

	_, err = f.inspections.Get(ctx, "missing")
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)
}
