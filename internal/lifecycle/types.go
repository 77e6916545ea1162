package lifecycle

import (
	"time"
)

// EquipmentCategory 设备类别
type EquipmentCategory string

const (
	CategoryCrane           EquipmentCategory = "crane"
	CategoryElevator        EquipmentCategory = "elevator"
	CategoryPressureVessel  EquipmentCategory = "pressure_vessel"
	CategoryForklift        EquipmentCategory = "forklift"
	CategoryOverheadCrane   EquipmentCategory = "overhead_crane"
	CategoryLiftingPlatform EquipmentCategory = "lifting_platform"
	CategoryOther           EquipmentCategory = "other"
)

var categoryLabels = map[EquipmentCategory]string{
	CategoryCrane:           "Crane",
	CategoryElevator:        "Elevator",
	CategoryPressureVessel:  "Pressure Vessel",
	CategoryForklift:        "Forklift",
	CategoryOverheadCrane:   "Overhead Crane",
	CategoryLiftingPlatform: "Lifting Platform",
	CategoryOther:           "Other",
}

// Categories 返回全部设备类别（固定顺序）
func Categories() []EquipmentCategory {
	return []EquipmentCategory{
		CategoryCrane,
		CategoryElevator,
		CategoryPressureVessel,
		CategoryForklift,
		CategoryOverheadCrane,
		CategoryLiftingPlatform,
		CategoryOther,
	}
}

// Valid 是否为已知类别
func (c EquipmentCategory) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label 类别显示名称
func (c EquipmentCategory) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// InspectionState 检验单状态
type InspectionState string

const (
	StateDraft      InspectionState = "draft"
	StateInProgress InspectionState = "in_progress"
	StateCompleted  InspectionState = "completed"
	StateSent       InspectionState = "sent"
	StateCancelled  InspectionState = "cancelled"
)

// Valid 是否为已知状态
func (s InspectionState) Valid() bool {
	switch s {
	case StateDraft, StateInProgress, StateCompleted, StateSent, StateCancelled:
		return true
	}
	return false
}

// Editable 草稿和进行中的检验单允许修改内容
func (s InspectionState) Editable() bool {
	return s == StateDraft || s == StateInProgress
}

// Reportable 已完成及之后的检验单才能生成报告
func (s InspectionState) Reportable() bool {
	return s == StateCompleted || s == StateSent
}

// InspectionType 检验类型
type InspectionType string

const (
	TypeInitial     InspectionType = "initial"
	TypePeriodic    InspectionType = "periodic"
	TypeAfterRepair InspectionType = "after_repair"
	TypeEmergency   InspectionType = "emergency"
	TypeSpecial     InspectionType = "special"
)

// Valid 是否为已知检验类型
func (t InspectionType) Valid() bool {
	switch t {
	case TypeInitial, TypePeriodic, TypeAfterRepair, TypeEmergency, TypeSpecial:
		return true
	}
	return false
}

// OverallResult 检验总体结论,空值表示未设置
type OverallResult string

const (
	ResultUnset       OverallResult = ""
	ResultApproved    OverallResult = "approved"
	ResultConditional OverallResult = "conditional"
	ResultRejected    OverallResult = "rejected"
)

// Valid 是否为合法结论（包括未设置）
func (r OverallResult) Valid() bool {
	switch r {
	case ResultUnset, ResultApproved, ResultConditional, ResultRejected:
		return true
	}
	return false
}

// ChecklistStatus 检查项结果
type ChecklistStatus string

const (
	StatusPass          ChecklistStatus = "pass"
	StatusFail          ChecklistStatus = "fail"
	StatusWarning       ChecklistStatus = "warning"
	StatusNotApplicable ChecklistStatus = "na"
)

// Valid 是否为已知检查结果
func (s ChecklistStatus) Valid() bool {
	switch s {
	case StatusPass, StatusFail, StatusWarning, StatusNotApplicable:
		return true
	}
	return false
}

// Equipment 设备
// LastInspectionDate 只由检验完成操作写入
type Equipment struct {
	ID                 string
	Name               string
	Category           EquipmentCategory
	ClientID           string
	LastInspectionDate *time.Time
}

// ChecklistItemTemplate 检查项模板
type ChecklistItemTemplate struct {
	ID          string
	Category    EquipmentCategory
	Sequence    int
	Name        string
	Requirement string
	Description string
	Active      bool
}

// ChecklistItem 检验单上的检查项
type ChecklistItem struct {
	ID          string
	Sequence    int
	Name        string
	Requirement string
	Status      ChecklistStatus
	Notes       string
}

// Inspection 检验单
type Inspection struct {
	ID                     string
	Reference              string
	EquipmentID            string
	ClientID               string
	CompanyID              string
	InspectorID            string
	Type                   InspectionType
	InspectionDate         time.Time
	DurationHours          float64
	WeatherConditions      string
	Checklist              []ChecklistItem
	Result                 OverallResult
	DefectsFound           string
	ImmediateActions       string
	Recommendations        string
	InspectorNotes         string
	InspectorSignature     []byte
	ClientSignature        []byte
	ClientRepresentative   string
	State                  InspectionState
	NextDueDate            *time.Time
	NextDueFrequencyMonths int
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// HasSignature 是否已有检验员签名
func (i *Inspection) HasSignature() bool {
	return len(i.InspectorSignature) > 0
}

// Stats 检查项统计
func (i *Inspection) Stats() ChecklistStats {
	return StatsOf(i.Checklist)
}
