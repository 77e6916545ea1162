package lifecycle

import (
	"context"
	"sort"
	"strings"
	"time"
)

// ChecklistStats 检查项统计结果
type ChecklistStats struct {
	Total         int `json:"total"`
	Passed        int `json:"passed"`
	Failed        int `json:"failed"`
	Warnings      int `json:"warnings"`
	NotApplicable int `json:"not_applicable"`
}

// StatsOf 按状态汇总检查项
func StatsOf(items []ChecklistItem) ChecklistStats {
	stats := ChecklistStats{Total: len(items)}
	for _, item := range items {
		switch item.Status {
		case StatusPass:
			stats.Passed++
		case StatusFail:
			stats.Failed++
		case StatusWarning:
			stats.Warnings++
		case StatusNotApplicable:
			stats.NotApplicable++
		}
	}
	return stats
}

// SortChecklist 按 sequence 稳定排序,同序号保持插入顺序
func SortChecklist(items []ChecklistItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Sequence < items[j].Sequence
	})
}

// Snapshot 从模板复制检查项,结果默认 pass
func Snapshot(templates []ChecklistItemTemplate) []ChecklistItem {
	items := make([]ChecklistItem, 0, len(templates))
	for _, tpl := range templates {
		items = append(items, ChecklistItem{
			Sequence:    tpl.Sequence,
			Name:        tpl.Name,
			Requirement: tpl.Requirement,
			Status:      StatusPass,
		})
	}
	SortChecklist(items)
	return items
}

// TemplateCatalog 检查项模板目录
// 未知类别返回空列表而不是错误
type TemplateCatalog interface {
	TemplatesFor(ctx context.Context, category EquipmentCategory) ([]ChecklistItemTemplate, error)
}

// StaticCatalog 内存模板目录
type StaticCatalog struct {
	templates map[EquipmentCategory][]ChecklistItemTemplate
}

// NewStaticCatalog 创建内存模板目录
func NewStaticCatalog(templates []ChecklistItemTemplate) *StaticCatalog {
	c := &StaticCatalog{templates: make(map[EquipmentCategory][]ChecklistItemTemplate)}
	for _, tpl := range templates {
		c.templates[tpl.Category] = append(c.templates[tpl.Category], tpl)
	}
	return c
}

// TemplatesFor 返回类别下启用的模板,按 sequence 升序
func (c *StaticCatalog) TemplatesFor(_ context.Context, category EquipmentCategory) ([]ChecklistItemTemplate, error) {
	result := make([]ChecklistItemTemplate, 0, len(c.templates[category]))
	for _, tpl := range c.templates[category] {
		if tpl.Active {
			result = append(result, tpl)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Sequence < result[j].Sequence
	})
	return result, nil
}

// DateOf 截断到日期（UTC 零点）
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextDueDate 下次检验日期: 检验日期 + 月数 × 30 天
func NextDueDate(inspectionDate time.Time, months int) *time.Time {
	if inspectionDate.IsZero() || months <= 0 {
		return nil
	}
	due := DateOf(inspectionDate).AddDate(0, 0, months*30)
	return &due
}

// ReportFilename 检验报告 PDF 文件名
func ReportFilename(reference string) string {
	if reference == "" || reference == "New" {
		return "Inspection_Report.pdf"
	}
	return strings.ReplaceAll(reference, "/", "-") + "_Inspection_Report.pdf"
}
