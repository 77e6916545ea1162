package repository

import (
	"fmt"

	"github.com/ecis/inspection-gin/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 编号系列
const (
	SeriesInspection   = "INS"
	SeriesQuoteRequest = "QR"
)

// SequenceRepository 编号序列仓储接口
type SequenceRepository interface {
	NextReference(series string, year int) (string, error)
}

// sequenceRepository 编号序列仓储实现
type sequenceRepository struct {
	db *gorm.DB
}

// NewSequenceRepository 创建编号序列仓储
func NewSequenceRepository(db *gorm.DB) SequenceRepository {
	return &sequenceRepository{db: db}
}

// NextReference 分配下一个编号,格式 SERIES/YYYY/NNNNN
// 行锁保证并发分配不重复（sqlite 下由单连接串行化）
func (r *sequenceRepository) NextReference(series string, year int) (string, error) {
	var next int
	err := r.db.Transaction(func(tx *gorm.DB) error {
		seed := model.SequenceModel{Series: series, Year: year, Next: 1}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return err
		}

		var seq model.SequenceModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("series = ? AND year = ?", series, year).
			First(&seq).Error; err != nil {
			return err
		}
		next = seq.Next

		return tx.Model(&model.SequenceModel{}).
			Where("series = ? AND year = ?", series, year).
			Update("next", next+1).Error
	})
	if err != nil {
		return "", fmt.Errorf("failed to allocate %s reference: %w", series, err)
	}
	return fmt.Sprintf("%s/%d/%05d", series, year, next), nil
}
