package service_test

import (
	"context"
	"testing"

	"github.com/ecis/inspection-gin/internal/lifecycle"
	"github.com/ecis/inspection-gin/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCreateEquipmentValidation 测试设备登记校验
func TestCreateEquipmentValidation(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	_, err := f.equipment.Create(ctx, &service.CreateEquipmentRequest{Name: "Crane"})
	require.ErrorIs(t, err, lifecycle.ErrValidation)
	assert.Contains(t, err.Error(), "Missing required fields: equipment_type, client_id")

	_, err = f.equipment.Create(ctx, &service.CreateEquipmentRequest{Name: "Crane", EquipmentType: "rocket", ClientID: "p-1"})
	assert.ErrorIs(t, err, lifecycle.ErrValidation)

	_, err = f.equipment.Create(ctx, &service.CreateEquipmentRequest{Name: "Crane", EquipmentType: "crane", ClientID: "missing"})
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)
}

// TestEquipmentListAndSchedule 测试设备查询和安排定期检验
func TestEquipmentListAndSchedule(t *testing.T) {
	f := setupFixture(t)
	client, eq := f.seedEquipment(t, 0)
	ctx := context.Background()
	assert.Equal(t, service.DefaultFrequencyMonths, eq.PeriodicityMonths)
	assert.True(t, eq.Active)

	cranes, err := f.equipment.List(ctx, &service.EquipmentQuery{EquipmentType: "crane", ClientID: client.ID})
	require.NoError(t, err)
	assert.Len(t, cranes, 1)
	forklifts, err := f.equipment.List(ctx, &service.EquipmentQuery{EquipmentType: "forklift"})
	require.NoError(t, err)
	assert.Empty(t, forklifts)

	rec, err := f.equipment.ScheduleInspection(ctx, eq.ID, &service.ScheduleInspectionRequest{InspectionDate: "2025-04-01"})
	require.NoError(t, err)
	assert.Equal(t, lifecycle.TypePeriodic, rec.Type)
	assert.Equal(t, client.ID, rec.CompanyID)
	assert.Equal(t, "2025-04-01", rec.InspectionDate.Format("2006-01-02"))

	_, err = f.equipment.ScheduleInspection(ctx, "missing", nil)
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)
}

// TestClientService 测试客户创建和查询
func TestClientService(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	company, err := f.clients.Create(ctx, &service.CreateClientRequest{Name: "Cosider", IsCompany: true, City: "Alger"})
	require.NoError(t, err)

	contact, err := f.clients.Create(ctx, &service.CreateClientRequest{Name: "Karim", Email: "karim@cosider.dz", ParentID: company.ID})
	require.NoError(t, err)
	require.NotNil(t, contact.ParentID)

	// 联系人不能挂在联系人下
	_, err = f.clients.Create(ctx, &service.CreateClientRequest{Name: "Nadia", ParentID: contact.ID})
	assert.ErrorIs(t, err, lifecycle.ErrValidation)
	_, err = f.clients.Create(ctx, &service.CreateClientRequest{Name: "Nadia", Email: "bad"})
	assert.ErrorIs(t, err, lifecycle.ErrInvalidContactInfo)
	_, err = f.clients.Create(ctx, &service.CreateClientRequest{})
	assert.ErrorIs(t, err, lifecycle.ErrValidation)

	isCompany := true
	companies, err := f.clients.List(ctx, &service.ClientQuery{IsCompany: &isCompany})
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, "Cosider", companies[0].Name)

	found, err := f.clients.List(ctx, &service.ClientQuery{Search: "karim"})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = f.clients.Get(ctx, "missing")
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)
}

// TestChecklistTemplates 测试模板查询、新增和内置模板导入
func TestChecklistTemplates(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	// 已导入过的类别不会重复导入
	n, err := f.templates.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	all, err := f.templates.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, len(lifecycle.DefaultTemplates()))

	created, err := f.templates.Create(ctx, &service.CreateChecklistTemplateRequest{
		EquipmentType: "crane",
		Name:          "Anemometer function",
		Sequence:      1,
	})
	require.NoError(t, err)
	assert.True(t, created.Active)

	cranes, err := f.templates.List(ctx, "crane")
	require.NoError(t, err)
	require.NotEmpty(t, cranes)
	assert.Equal(t, "Anemometer function", cranes[0].Name)

	inactive := false
	_, err = f.templates.Create(ctx, &service.CreateChecklistTemplateRequest{EquipmentType: "crane", Name: "Retired check", Active: &inactive})
	require.NoError(t, err)
	cranesAfter, err := f.templates.List(ctx, "crane")
	require.NoError(t, err)
	assert.Len(t, cranesAfter, len(cranes))

	_, err = f.templates.Create(ctx, &service.CreateChecklistTemplateRequest{EquipmentType: "rocket", Name: "Fuel"})
	assert.ErrorIs(t, err, lifecycle.ErrValidation)
	_, err = f.templates.List(ctx, "rocket")
	assert.ErrorIs(t, err, lifecycle.ErrValidation)

	// 新建的检验单使用新模板
	_, eq := f.seedEquipment(t, 12)
	rec, err := f.inspections.Create(ctx, &service.CreateInspectionRequest{EquipmentID: eq.ID})
	require.NoError(t, err)
	assert.Equal(t, "Anemometer function", rec.Checklist[0].Name)
	assert.Len(t, rec.Checklist, len(cranes))
}

// TestStatistics 测试统计
func TestStatistics(t *testing.T) {
	f := setupFixture(t)
	_, eq := f.seedEquipment(t, 1)
	ctx := context.Background()

	sig := "c2lnbmF0dXJl"
	done, err := f.inspections.Create(ctx, &service.CreateInspectionRequest{
		EquipmentID:    eq.ID,
		InspectionDate: "2024-01-15",
		OverallResult:  "approved",
	})
	require.NoError(t, err)
	_, err = f.inspections.SetSignature(ctx, done.ID, &service.SignatureRequest{InspectorSignature: &sig})
	require.NoError(t, err)
	_, err = f.inspections.Complete(ctx, done.ID)
	require.NoError(t, err)

	_, err = f.inspections.Create(ctx, &service.CreateInspectionRequest{EquipmentID: eq.ID, InspectionDate: "2024-03-02"})
	require.NoError(t, err)
	_, err = f.quotes.Submit(ctx, websiteRequest())
	require.NoError(t, err)

	summary, err := f.statistics.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.InspectionsByState["completed"])
	assert.Equal(t, int64(2), summary.InspectionsByState["draft"])
	assert.Equal(t, int64(1), summary.QuotesByState["new"])
	// 2024-01-15 的检验一个月后到期
	assert.Equal(t, int64(1), summary.OverdueInspections)

	byType, err := f.statistics.GetInspectionsByEquipmentType(ctx)
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, "crane", byType[0].Name)
	assert.Equal(t, int64(3), byType[0].Count)

	byResult, err := f.statistics.GetInspectionsByResult(ctx)
	require.NoError(t, err)
	require.Len(t, byResult, 1)
	assert.Equal(t, "approved", byResult[0].Name)

	byMonth, err := f.statistics.GetInspectionsByMonth(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, byMonth)
	last := byMonth[len(byMonth)-1]
	assert.Equal(t, "2024-01", last.Name)
	assert.Equal(t, int64(1), last.Count)
}

// TestAuditLogService 测试审计日志记录请求上下文
func TestAuditLogService(t *testing.T) {
	f := setupFixture(t)
	svc := service.NewAuditLogService(f.store.AuditLogs)

	ctx := context.WithValue(userContext("user-007"), "request_id", "req-123")
	require.NoError(t, svc.RecordAction(ctx, "", "update", service.ResourceEquipment, "eq-1", map[string]string{"name": "Crane"}))
	require.NoError(t, svc.RecordMessage(context.Background(), "user-007", "note", service.ResourceEquipment, "eq-1", "checked"))

	logs, err := svc.FindByResource(service.ResourceEquipment, "eq-1")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, service.SystemActor, logs[0].UserID)
	assert.Equal(t, "req-123", logs[0].RequestID)
	assert.JSONEq(t, `{"name":"Crane"}`, string(logs[0].Details))
	assert.Equal(t, "checked", logs[1].Message)
}
