package integration

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ecis/inspection-gin/internal/lifecycle"
	"github.com/ecis/inspection-gin/internal/model"
	"github.com/ecis/inspection-gin/internal/repository"
	"github.com/google/uuid"
)

// TemplateCatalog 基于数据库的检查项模板目录
// 实现 lifecycle.TemplateCatalog 接口
type TemplateCatalog struct {
	repo repository.ChecklistTemplateRepository
}

// NewTemplateCatalog 创建模板目录
func NewTemplateCatalog(repo repository.ChecklistTemplateRepository) *TemplateCatalog {
	return &TemplateCatalog{repo: repo}
}

// TemplatesFor 返回类别下启用的模板,按 sequence 升序
func (c *TemplateCatalog) TemplatesFor(_ context.Context, category lifecycle.EquipmentCategory) ([]lifecycle.ChecklistItemTemplate, error) {
	models, err := c.repo.FindByCategory(string(category), true)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates for %s: %w", category, err)
	}

	templates := make([]lifecycle.ChecklistItemTemplate, 0, len(models))
	for _, m := range models {
		templates = append(templates, m.ToDomain())
	}
	sort.SliceStable(templates, func(i, j int) bool {
		return templates[i].Sequence < templates[j].Sequence
	})
	return templates, nil
}

// Import 导入模板,返回写入条数
// replace 为 false 时只导入目录中还没有模板的类别
func (c *TemplateCatalog) Import(templates []lifecycle.ChecklistItemTemplate, replace bool) (int, error) {
	existing := make(map[lifecycle.EquipmentCategory]bool)
	if !replace {
		all, err := c.repo.FindAll()
		if err != nil {
			return 0, fmt.Errorf("failed to load templates: %w", err)
		}
		for _, m := range all {
			existing[lifecycle.EquipmentCategory(m.Category)] = true
		}
	}

	imported := 0
	now := time.Now()
	for _, tpl := range templates {
		if existing[tpl.Category] {
			continue
		}
		if !tpl.Category.Valid() {
			return imported, lifecycle.Validationf("unknown equipment type: %s", tpl.Category)
		}
		id := tpl.ID
		if id == "" {
			id = uuid.New().String()
		}
		sequence := tpl.Sequence
		if sequence == 0 {
			sequence = lifecycle.DefaultSequence
		}
		m := &model.ChecklistTemplateModel{
			ID:          id,
			Category:    string(tpl.Category),
			Sequence:    sequence,
			Name:        tpl.Name,
			Requirement: tpl.Requirement,
			Description: tpl.Description,
			Active:      tpl.Active,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := m.Validate(); err != nil {
			return imported, lifecycle.Validationf("%s", err.Error())
		}
		if err := c.repo.Save(m); err != nil {
			return imported, fmt.Errorf("failed to save template %q: %w", tpl.Name, err)
		}
		imported++
	}
	return imported, nil
}
