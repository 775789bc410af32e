package repository

import (
	"context"
	"errors"

	"github.com/sangkips/quotation-engine/internal/domain/entity"
	domainRepo "github.com/sangkips/quotation-engine/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sequenceRepository struct {
	db *gorm.DB
}

// NewSequenceRepository creates the per-project serial counter.
func NewSequenceRepository(db *gorm.DB) domainRepo.SequenceRepository {
	return &sequenceRepository{db: db}
}

// NextSerial locks the project's counter row for the duration of the
// transaction, so concurrent callers get distinct serials.
func (r *sequenceRepository) NextSerial(ctx context.Context, projectID string, floor int) (int, error) {
	var next int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq entity.QuotationSequence
		err := lockSequence(tx, projectID, &seq)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			seq = entity.QuotationSequence{ProjectID: projectID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seq).Error; err != nil {
				return err
			}
			err = lockSequence(tx, projectID, &seq)
		}
		if err != nil {
			return err
		}

		next = max(seq.LastSerial, floor) + 1
		return tx.Model(&entity.QuotationSequence{}).
			Where("project_id = ?", projectID).
			Update("last_serial", next).Error
	})
	return next, err
}

func lockSequence(tx *gorm.DB, projectID string, seq *entity.QuotationSequence) error {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(seq, "project_id = ?", projectID).Error
}
