package api

import (
	"encoding/base64"
	"time"

	"github.com/ecis/inspection-gin/internal/lifecycle"
	"github.com/ecis/inspection-gin/internal/model"
)

const dateLayout = "2006-01-02"

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func encodeSignature(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(data)
}

// ChecklistItemResponse 检查项
type ChecklistItemResponse struct {
	ID          string `json:"id"`
	Sequence    int    `json:"sequence" example:"10"`
	Name        string `json:"name" example:"Hoist rope condition"`
	Requirement string `json:"requirement,omitempty"`
	Status      string `json:"status" example:"pass"`
	Notes       string `json:"notes,omitempty"`
}

func newChecklistItemResponse(item lifecycle.ChecklistItem) ChecklistItemResponse {
	return ChecklistItemResponse{
		ID:          item.ID,
		Sequence:    item.Sequence,
		Name:        item.Name,
		Requirement: item.Requirement,
		Status:      string(item.Status),
		Notes:       item.Notes,
	}
}

func newChecklistResponse(items []lifecycle.ChecklistItem) []ChecklistItemResponse {
	out := make([]ChecklistItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, newChecklistItemResponse(item))
	}
	return out
}

// InspectionResponse 检验单
// @Description 检验单详情,签名以 base64 返回,checklist 仅在 include_checklist=true 时返回
type InspectionResponse struct {
	ID                      string                   `json:"id"`
	Reference               string                   `json:"reference" example:"INS/2025/00042"`
	State                   string                   `json:"state" example:"draft"`
	EquipmentID             string                   `json:"equipment_id"`
	ClientID                string                   `json:"client_id"`
	CompanyID               string                   `json:"company_id,omitempty"`
	InspectorID             string                   `json:"inspector_id,omitempty"`
	InspectionType          string                   `json:"inspection_type" example:"periodic"`
	InspectionDate          string                   `json:"inspection_date" example:"2025-03-14"`
	DurationHours           float64                  `json:"inspection_duration"`
	WeatherConditions       string                   `json:"weather_conditions,omitempty"`
	OverallResult           string                   `json:"overall_result,omitempty" example:"approved"`
	DefectsFound            string                   `json:"defects_found,omitempty"`
	ImmediateActions        string                   `json:"immediate_actions_required,omitempty"`
	Recommendations         string                   `json:"recommendations,omitempty"`
	InspectorNotes          string                   `json:"inspector_notes,omitempty"`
	InspectorSignature      string                   `json:"inspector_signature,omitempty"`
	ClientSignature         string                   `json:"client_signature,omitempty"`
	ClientRepresentative    string                   `json:"client_representative,omitempty"`
	NextInspectionDue       string                   `json:"next_inspection_due,omitempty" example:"2026-03-09"`
	NextInspectionFrequency int                      `json:"next_inspection_frequency" example:"12"`
	Stats                   lifecycle.ChecklistStats `json:"stats"`
	Checklist               []ChecklistItemResponse  `json:"checklist,omitempty"`
	CreatedAt               time.Time                `json:"created_at"`
	UpdatedAt               time.Time                `json:"updated_at"`
}

func newInspectionResponse(rec *lifecycle.Inspection, includeChecklist bool) *InspectionResponse {
	resp := &InspectionResponse{
		ID:                      rec.ID,
		Reference:               rec.Reference,
		State:                   string(rec.State),
		EquipmentID:             rec.EquipmentID,
		ClientID:                rec.ClientID,
		CompanyID:               rec.CompanyID,
		InspectorID:             rec.InspectorID,
		InspectionType:          string(rec.Type),
		InspectionDate:          formatDate(&rec.InspectionDate),
		DurationHours:           rec.DurationHours,
		WeatherConditions:       rec.WeatherConditions,
		OverallResult:           string(rec.Result),
		DefectsFound:            rec.DefectsFound,
		ImmediateActions:        rec.ImmediateActions,
		Recommendations:         rec.Recommendations,
		InspectorNotes:          rec.InspectorNotes,
		InspectorSignature:      encodeSignature(rec.InspectorSignature),
		ClientSignature:         encodeSignature(rec.ClientSignature),
		ClientRepresentative:    rec.ClientRepresentative,
		NextInspectionDue:       formatDate(rec.NextDueDate),
		NextInspectionFrequency: rec.NextDueFrequencyMonths,
		Stats:                   rec.Stats(),
		CreatedAt:               rec.CreatedAt,
		UpdatedAt:               rec.UpdatedAt,
	}
	if includeChecklist {
		resp.Checklist = newChecklistResponse(rec.Checklist)
	}
	return resp
}

func newInspectionList(recs []*lifecycle.Inspection) []*InspectionResponse {
	out := make([]*InspectionResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, newInspectionResponse(rec, false))
	}
	return out
}

// QuoteRequestResponse 报价请求
type QuoteRequestResponse struct {
	ID             string    `json:"id"`
	Reference      string    `json:"reference" example:"QR/2025/00007"`
	State          string    `json:"state" example:"new"`
	ContactName    string    `json:"name" example:"Amina Benali"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	CompanyName    string    `json:"company_name,omitempty"`
	EquipmentType  string    `json:"equipment_type" example:"crane"`
	EquipmentCount int       `json:"equipment_count" example:"2"`
	Message        string    `json:"message,omitempty"`
	Urgency        string    `json:"urgency" example:"normal"`
	Location       string    `json:"location,omitempty"`
	Source         string    `json:"source" example:"website"`
	AssignedTo     string    `json:"assigned_to,omitempty"`
	ClientID       string    `json:"client_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func newQuoteRequestResponse(req *lifecycle.QuoteRequest) *QuoteRequestResponse {
	return &QuoteRequestResponse{
		ID:             req.ID,
		Reference:      req.Reference,
		State:          string(req.State),
		ContactName:    req.ContactName,
		Email:          req.Email,
		Phone:          req.Phone,
		CompanyName:    req.CompanyName,
		EquipmentType:  string(req.Category),
		EquipmentCount: req.EquipmentCount,
		Message:        req.Message,
		Urgency:        string(req.Urgency),
		Location:       req.Location,
		Source:         string(req.Source),
		AssignedTo:     req.AssignedTo,
		ClientID:       req.ClientID,
		CreatedAt:      req.CreatedAt,
		UpdatedAt:      req.UpdatedAt,
	}
}

// EquipmentResponse 设备
type EquipmentResponse struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name" example:"Grue mobile Liebherr LTM 1090"`
	EquipmentType       string    `json:"equipment_type" example:"crane"`
	ClientID            string    `json:"client_id"`
	Brand               string    `json:"brand,omitempty"`
	Model               string    `json:"model,omitempty"`
	SerialNumber        string    `json:"serial_number,omitempty"`
	ManufactureYear     int       `json:"manufacture_year,omitempty"`
	Capacity            string    `json:"capacity,omitempty"`
	Location            string    `json:"location,omitempty"`
	Notes               string    `json:"notes,omitempty"`
	InspectionFrequency int       `json:"inspection_frequency" example:"12"`
	LastInspectionDate  string    `json:"last_inspection_date,omitempty"`
	Active              bool      `json:"active"`
	CreatedAt           time.Time `json:"created_at"`
}

func newEquipmentResponse(em *model.EquipmentModel) *EquipmentResponse {
	resp := &EquipmentResponse{
		ID:                  em.ID,
		Name:                em.Name,
		EquipmentType:       em.Category,
		ClientID:            em.ClientID,
		Brand:               em.Brand,
		Model:               em.Model,
		SerialNumber:        em.SerialNumber,
		ManufactureYear:     em.ManufactureYear,
		Capacity:            em.Capacity,
		Location:            em.Location,
		Notes:               em.Notes,
		InspectionFrequency: em.PeriodicityMonths,
		Active:              em.Active,
		CreatedAt:           em.CreatedAt,
	}
	if em.LastInspectionDate != nil {
		last := time.Time(*em.LastInspectionDate)
		resp.LastInspectionDate = formatDate(&last)
	}
	return resp
}

// ClientResponse 客户（公司或联系人）
type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" example:"Sonatrach Logistique"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	IsCompany bool      `json:"is_company"`
	ParentID  string    `json:"parent_id,omitempty"`
	Street    string    `json:"street,omitempty"`
	City      string    `json:"city,omitempty"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func newClientResponse(pm *model.PartnerModel) *ClientResponse {
	resp := &ClientResponse{
		ID:        pm.ID,
		Name:      pm.Name,
		Email:     pm.Email,
		Phone:     pm.Phone,
		IsCompany: pm.IsCompany,
		Street:    pm.Street,
		City:      pm.City,
		Comment:   pm.Comment,
		CreatedAt: pm.CreatedAt,
	}
	if pm.ParentID != nil {
		resp.ParentID = *pm.ParentID
	}
	return resp
}

// ChecklistTemplateResponse 检查项模板
type ChecklistTemplateResponse struct {
	ID            string `json:"id"`
	EquipmentType string `json:"equipment_type" example:"crane"`
	Sequence      int    `json:"sequence" example:"10"`
	Name          string `json:"name"`
	Requirement   string `json:"requirement,omitempty"`
	Description   string `json:"description,omitempty"`
	Active        bool   `json:"active"`
}

func newChecklistTemplateResponse(t lifecycle.ChecklistItemTemplate) ChecklistTemplateResponse {
	return ChecklistTemplateResponse{
		ID:            t.ID,
		EquipmentType: string(t.Category),
		Sequence:      t.Sequence,
		Name:          t.Name,
		Requirement:   t.Requirement,
		Description:   t.Description,
		Active:        t.Active,
	}
}

// ReportResponse 检验报告
type ReportResponse struct {
	Filename      string `json:"filename" example:"INS-2025-00042.pdf"`
	ContentBase64 string `json:"content_base64"`
}
