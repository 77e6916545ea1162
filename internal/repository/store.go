package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store 仓储集合,同一个 Store 内的仓储共享同一个数据库句柄（或事务）
type Store struct {
	db *gorm.DB

	Partners       PartnerRepository
	Equipment      EquipmentRepository
	Templates      ChecklistTemplateRepository
	Inspections    InspectionRepository
	ChecklistItems ChecklistItemRepository
	QuoteRequests  QuoteRequestRepository
	AuditLogs      AuditLogRepository
	StateHistory   StateHistoryRepository
	Events         EventRepository
	Sequences      SequenceRepository
}

// NewStore 创建仓储集合
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:             db,
		Partners:       NewPartnerRepository(db),
		Equipment:      NewEquipmentRepository(db),
		Templates:      NewChecklistTemplateRepository(db),
		Inspections:    NewInspectionRepository(db),
		ChecklistItems: NewChecklistItemRepository(db),
		QuoteRequests:  NewQuoteRequestRepository(db),
		AuditLogs:      NewAuditLogRepository(db),
		StateHistory:   NewStateHistoryRepository(db),
		Events:         NewEventRepository(db),
		Sequences:      NewSequenceRepository(db),
	}
}

// DB 返回底层数据库句柄
func (s *Store) DB() *gorm.DB {
	return s.db
}

// WithContext 返回绑定 context 的仓储集合
func (s *Store) WithContext(ctx context.Context) *Store {
	return NewStore(s.db.WithContext(ctx))
}

// Transaction 在事务中执行,fn 内只能使用传入的 tx 仓储集合
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// Page 分页参数
type Page struct {
	Limit  int
	Offset int
}

// DefaultLimit 默认每页条数
const DefaultLimit = 50

// MaxLimit 每页最大条数
const MaxLimit = 500

func (p Page) apply(query *gorm.DB) *gorm.DB {
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	query = query.Limit(limit)
	if p.Offset > 0 {
		query = query.Offset(p.Offset)
	}
	return query
}
