package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/ecis/inspection-gin/internal/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStatsOf 测试检查项统计
func TestStatsOf(t *testing.T) {
	items := []lifecycle.ChecklistItem{
		{Status: lifecycle.StatusPass},
		{Status: lifecycle.StatusPass},
		{Status: lifecycle.StatusFail},
		{Status: lifecycle.StatusNotApplicable},
	}

	stats := lifecycle.StatsOf(items)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Passed)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 0, stats.Warnings)
	assert.Equal(t, 1, stats.NotApplicable)

	rec := &lifecycle.Inspection{Checklist: items}
	assert.Equal(t, stats, rec.Stats())

	assert.Equal(t, lifecycle.ChecklistStats{}, lifecycle.StatsOf(nil))
}

// TestSortChecklistStable 测试同序号保持插入顺序
func TestSortChecklistStable(t *testing.T) {
	items := []lifecycle.ChecklistItem{
		{Sequence: 20, Name: "first-20"},
		{Sequence: 10, Name: "first-10"},
		{Sequence: 20, Name: "second-20"},
		{Sequence: 10, Name: "second-10"},
	}
	lifecycle.SortChecklist(items)

	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	assert.Equal(t, []string{"first-10", "second-10", "first-20", "second-20"}, names)
}

// TestSnapshotCopiesTemplates 测试快照与模板相互独立
func TestSnapshotCopiesTemplates(t *testing.T) {
	templates := []lifecycle.ChecklistItemTemplate{
		{Sequence: 10, Name: "Hook", Requirement: "ISO"},
	}
	items := lifecycle.Snapshot(templates)
	templates[0].Name = "Renamed"

	require.Len(t, items, 1)
	assert.Equal(t, "Hook", items[0].Name)
	assert.Equal(t, lifecycle.StatusPass, items[0].Status)
}

// TestStaticCatalog 测试内存模板目录
func TestStaticCatalog(t *testing.T) {
	catalog := lifecycle.NewStaticCatalog(craneTemplates())

	templates, err := catalog.TemplatesFor(context.Background(), lifecycle.CategoryCrane)
	require.NoError(t, err)
	require.Len(t, templates, 3)
	assert.Equal(t, 10, templates[0].Sequence)
	assert.Equal(t, 20, templates[1].Sequence)
	assert.Equal(t, 30, templates[2].Sequence)

	templates, err = catalog.TemplatesFor(context.Background(), "submarine")
	require.NoError(t, err)
	assert.NotNil(t, templates)
	assert.Empty(t, templates)
}

// TestDefaultTemplates 测试内置模板覆盖全部类别
func TestDefaultTemplates(t *testing.T) {
	catalog := lifecycle.NewStaticCatalog(lifecycle.DefaultTemplates())

	for _, category := range lifecycle.Categories() {
		templates, err := catalog.TemplatesFor(context.Background(), category)
		require.NoError(t, err)
		assert.NotEmpty(t, templates, "category %s", category)
		for i, tpl := range templates {
			assert.Equal(t, (i+1)*lifecycle.DefaultSequence, tpl.Sequence)
		}
	}
}

// TestNextDueDate 测试下次检验日期
func TestNextDueDate(t *testing.T) {
	date := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

	due := lifecycle.NextDueDate(date, 12)
	require.NotNil(t, due)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), *due)

	assert.Nil(t, lifecycle.NextDueDate(date, 0))
	assert.Nil(t, lifecycle.NextDueDate(time.Time{}, 6))
}

// TestReportFilename 测试报告文件名
func TestReportFilename(t *testing.T) {
	assert.Equal(t, "Inspection_Report.pdf", lifecycle.ReportFilename(""))
	assert.Equal(t, "Inspection_Report.pdf", lifecycle.ReportFilename("New"))
	assert.Equal(t, "INS-2025-00042_Inspection_Report.pdf", lifecycle.ReportFilename("INS/2025/00042"))
}

// TestInspectionStateTransitions 测试状态迁移表
func TestInspectionStateTransitions(t *testing.T) {
	assert.True(t, lifecycle.StateDraft.CanTransitionTo(lifecycle.StateInProgress))
	assert.True(t, lifecycle.StateDraft.CanTransitionTo(lifecycle.StateCompleted))
	assert.False(t, lifecycle.StateInProgress.CanTransitionTo(lifecycle.StateDraft))
	assert.False(t, lifecycle.StateSent.CanTransitionTo(lifecycle.StateCancelled))
	assert.False(t, lifecycle.StateCancelled.CanTransitionTo(lifecycle.StateInProgress))

	assert.True(t, lifecycle.StateInProgress.Editable())
	assert.False(t, lifecycle.StateSent.Editable())
	assert.True(t, lifecycle.StateSent.Reportable())
	assert.False(t, lifecycle.StateDraft.Reportable())
}

// TestCategoryLabel 测试类别显示名称
func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "Pressure Vessel", lifecycle.CategoryPressureVessel.Label())
	assert.True(t, lifecycle.CategoryOther.Valid())
	assert.False(t, lifecycle.EquipmentCategory("boat").Valid())
}
