package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ecis/inspection-gin/internal/lifecycle"
	"github.com/ecis/inspection-gin/internal/model"
	"github.com/ecis/inspection-gin/internal/repository"
	"github.com/google/uuid"
)

// EquipmentService 设备服务接口
type EquipmentService interface {
	Create(ctx context.Context, req *CreateEquipmentRequest) (*model.EquipmentModel, error)
	Get(ctx context.Context, id string) (*model.EquipmentModel, error)
	List(ctx context.Context, query *EquipmentQuery) ([]*model.EquipmentModel, error)
	ScheduleInspection(ctx context.Context, id string, req *ScheduleInspectionRequest) (*lifecycle.Inspection, error)
}

// CreateEquipmentRequest 创建设备请求
// @Description 登记客户设备的请求参数
type CreateEquipmentRequest struct {
	Name              string `json:"name" example:"Grue mobile Liebherr LTM 1090"`
	EquipmentType     string `json:"equipment_type" example:"crane"`
	ClientID          string `json:"client_id" example:"partner-001"`
	Brand             string `json:"brand" example:"Liebherr"`
	Model             string `json:"model" example:"LTM 1090-4.2"`
	SerialNumber      string `json:"serial_number" example:"LH-090-2211"`
	ManufactureYear   int    `json:"manufacture_year" example:"2018"`
	Capacity          string `json:"capacity" example:"90T"`
	Location          string `json:"location" example:"Arzew"`
	Notes             string `json:"notes"`
	PeriodicityMonths int    `json:"inspection_frequency" example:"12"` // 月
}

// ScheduleInspectionRequest 安排检验请求
// @Description 为设备安排定期检验,日期缺省为今天
type ScheduleInspectionRequest struct {
	InspectionDate string `json:"inspection_date" example:"2025-06-01"`
	InspectorID    string `json:"inspector_id" example:"user-001"`
}

// EquipmentQuery 设备查询条件
type EquipmentQuery struct {
	EquipmentType string `form:"equipment_type"`
	ClientID      string `form:"client_id"`
	Limit         int    `form:"limit"`
	Offset        int    `form:"offset"`
}

type equipmentService struct {
	store       *repository.Store
	inspections InspectionService
}

// NewEquipmentService 创建设备服务
func NewEquipmentService(store *repository.Store, inspections InspectionService) EquipmentService {
	return &equipmentService{store: store, inspections: inspections}
}

// Create 登记设备
func (s *equipmentService) Create(ctx context.Context, req *CreateEquipmentRequest) (*model.EquipmentModel, error) {
	if req == nil {
		return nil, lifecycle.Validationf("request is required")
	}
	var missing []string
	if strings.TrimSpace(req.Name) == "" {
		missing = append(missing, "name")
	}
	if req.EquipmentType == "" {
		missing = append(missing, "equipment_type")
	}
	if req.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if len(missing) > 0 {
		return nil, lifecycle.Validationf("Missing required fields: %s", strings.Join(missing, ", "))
	}
	if !lifecycle.EquipmentCategory(req.EquipmentType).Valid() {
		return nil, lifecycle.Validationf("unknown equipment type: %s", req.EquipmentType)
	}
	if req.PeriodicityMonths < 0 {
		return nil, lifecycle.Validationf("inspection_frequency must be positive")
	}

	actor := actorFromContext(ctx)
	var equipment *model.EquipmentModel
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Partners.FindByID(req.ClientID); err != nil {
			return notFound(err, "client %s not found", req.ClientID)
		}

		months := req.PeriodicityMonths
		if months == 0 {
			months = DefaultFrequencyMonths
		}
		now := time.Now()
		equipment = &model.EquipmentModel{
			ID:                uuid.New().String(),
			Name:              strings.TrimSpace(req.Name),
			Category:          req.EquipmentType,
			Brand:             req.Brand,
			Model:             req.Model,
			SerialNumber:      req.SerialNumber,
			ManufactureYear:   req.ManufactureYear,
			Capacity:          req.Capacity,
			Location:          req.Location,
			Notes:             req.Notes,
			ClientID:          req.ClientID,
			PeriodicityMonths: months,
			Active:            true,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := equipment.Validate(); err != nil {
			return lifecycle.Validationf("%s", err.Error())
		}
		if err := tx.Equipment.Save(equipment); err != nil {
			return fmt.Errorf("failed to save equipment: %w", err)
		}
		return NewAuditLogService(tx.AuditLogs).RecordAction(ctx, actor, "create", ResourceEquipment, equipment.ID, req)
	})
	if err != nil {
		return nil, err
	}
	return equipment, nil
}

// Get 获取设备
func (s *equipmentService) Get(ctx context.Context, id string) (*model.EquipmentModel, error) {
	equipment, err := s.store.WithContext(ctx).Equipment.FindByID(id)
	if err != nil {
		return nil, notFound(err, "equipment %s not found", id)
	}
	return equipment, nil
}

// List 查询启用的设备
func (s *equipmentService) List(ctx context.Context, query *EquipmentQuery) ([]*model.EquipmentModel, error) {
	filter := &repository.EquipmentFilter{}
	if query != nil {
		if query.EquipmentType != "" {
			if !lifecycle.EquipmentCategory(query.EquipmentType).Valid() {
				return nil, lifecycle.Validationf("unknown equipment type: %s", query.EquipmentType)
			}
			filter.Category = &query.EquipmentType
		}
		if query.ClientID != "" {
			filter.ClientID = &query.ClientID
		}
		filter.Page = repository.Page{Limit: query.Limit, Offset: query.Offset}
	}
	equipment, err := s.store.WithContext(ctx).Equipment.FindByFilter(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}
	return equipment, nil
}

// ScheduleInspection 为设备创建定期检验单
func (s *equipmentService) ScheduleInspection(ctx context.Context, id string, req *ScheduleInspectionRequest) (*lifecycle.Inspection, error) {
	if req == nil {
		req = &ScheduleInspectionRequest{}
	}
	equipment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.inspections.Create(ctx, &CreateInspectionRequest{
		EquipmentID:    equipment.ID,
		InspectionType: string(lifecycle.TypePeriodic),
		InspectionDate: req.InspectionDate,
		InspectorID:    req.InspectorID,
		CompanyID:      equipment.ClientID,
	})
}
