package model

// SequenceModel 编号序列,每个系列每年独立计数
type SequenceModel struct {
	Series string `gorm:"primaryKey;type:varchar(16)"`
	Year   int    `gorm:"primaryKey;type:int"`
	Next   int    `gorm:"type:int;not null;default:1"`
}

// TableName 指定表名
func (SequenceModel) TableName() string {
	return "sequences"
}

// AllModels 需要迁移的全部数据模型
func AllModels() []interface{} {
	return []interface{}{
		&PartnerModel{},
		&EquipmentModel{},
		&ChecklistTemplateModel{},
		&InspectionModel{},
		&ChecklistItemModel{},
		&QuoteRequestModel{},
		&AuditLogModel{},
		&StateHistoryModel{},
		&EventModel{},
		&SequenceModel{},
	}
}
