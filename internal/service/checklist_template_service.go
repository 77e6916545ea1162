package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ecis/inspection-gin/internal/integration"
	"github.com/ecis/inspection-gin/internal/lifecycle"
	"github.com/ecis/inspection-gin/internal/repository"
	"github.com/google/uuid"
)

// ChecklistTemplateService 检查项模板服务接口
type ChecklistTemplateService interface {
	List(ctx context.Context, equipmentType string) ([]lifecycle.ChecklistItemTemplate, error)
	Create(ctx context.Context, req *CreateChecklistTemplateRequest) (*lifecycle.ChecklistItemTemplate, error)
	Import(ctx context.Context, templates []lifecycle.ChecklistItemTemplate, replace bool) (int, error)
	SeedDefaults(ctx context.Context) (int, error)
}

// CreateChecklistTemplateRequest 创建检查项模板请求
// @Description 为设备类别新增一条检查项模板,sequence 缺省为 10
type CreateChecklistTemplateRequest struct {
	EquipmentType string `json:"equipment_type" example:"crane" binding:"required"`
	Name          string `json:"name" example:"Hoist rope condition" binding:"required"`
	Sequence      int    `json:"sequence" example:"10"`
	Requirement   string `json:"requirement" example:"ISO 4309"`
	Description   string `json:"description"`
	Active        *bool  `json:"active,omitempty"` // 缺省启用
}

type checklistTemplateService struct {
	store *repository.Store
}

// NewChecklistTemplateService 创建检查项模板服务
func NewChecklistTemplateService(store *repository.Store) ChecklistTemplateService {
	return &checklistTemplateService{store: store}
}

// List 查询模板,equipmentType 为空时返回全部（含停用）
func (s *checklistTemplateService) List(ctx context.Context, equipmentType string) ([]lifecycle.ChecklistItemTemplate, error) {
	store := s.store.WithContext(ctx)
	if equipmentType != "" {
		category := lifecycle.EquipmentCategory(equipmentType)
		if !category.Valid() {
			return nil, lifecycle.Validationf("unknown equipment type: %s", equipmentType)
		}
		return integration.NewTemplateCatalog(store.Templates).TemplatesFor(ctx, category)
	}

	models, err := store.Templates.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	templates := make([]lifecycle.ChecklistItemTemplate, 0, len(models))
	for _, m := range models {
		templates = append(templates, m.ToDomain())
	}
	return templates, nil
}

// Create 新增模板
func (s *checklistTemplateService) Create(ctx context.Context, req *CreateChecklistTemplateRequest) (*lifecycle.ChecklistItemTemplate, error) {
	if req == nil || strings.TrimSpace(req.Name) == "" {
		return nil, lifecycle.Validationf("name is required")
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	tpl := lifecycle.ChecklistItemTemplate{
		ID:          uuid.New().String(),
		Category:    lifecycle.EquipmentCategory(req.EquipmentType),
		Sequence:    req.Sequence,
		Name:        strings.TrimSpace(req.Name),
		Requirement: req.Requirement,
		Description: req.Description,
		Active:      active,
	}
	if tpl.Sequence == 0 {
		tpl.Sequence = lifecycle.DefaultSequence
	}

	actor := actorFromContext(ctx)
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := integration.NewTemplateCatalog(tx.Templates).Import([]lifecycle.ChecklistItemTemplate{tpl}, true); err != nil {
			return err
		}
		return NewAuditLogService(tx.AuditLogs).RecordAction(ctx, actor, "create", ResourceTemplate, tpl.ID, req)
	})
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

// Import 批量导入模板
func (s *checklistTemplateService) Import(ctx context.Context, templates []lifecycle.ChecklistItemTemplate, replace bool) (int, error) {
	var imported int
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		imported, err = integration.NewTemplateCatalog(tx.Templates).Import(templates, replace)
		if err != nil {
			return err
		}
		return NewAuditLogService(tx.AuditLogs).RecordAction(ctx, actorFromContext(ctx), "import", ResourceTemplate, "catalog", map[string]interface{}{
			"count":   imported,
			"replace": replace,
		})
	})
	if err != nil {
		return 0, err
	}
	return imported, nil
}

// SeedDefaults 为还没有模板的类别写入内置模板
func (s *checklistTemplateService) SeedDefaults(ctx context.Context) (int, error) {
	return s.Import(ctx, lifecycle.DefaultTemplates(), false)
}
