package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vehicle-repair-service/internal/model"
)

const (
	SequenceBooking    = "vehicle.booking"
	SequenceInspection = "inspection.job.card"
	SequenceRepair     = "repair.job.card"
	SequenceSaleOrder  = "sale.order"
)

var sequencePrefixes = map[string]string{
	SequenceBooking:    "BK/",
	SequenceInspection: "IJC/",
	SequenceRepair:     "RJC/",
	SequenceSaleOrder:  "SO/",
}

type SequenceRepository struct {
	db *gorm.DB
}

func NewSequenceRepository(db *gorm.DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// Next reserves the next number of code and formats it with the sequence
// prefix, e.g. "BK/00001".
func (r *SequenceRepository) Next(ctx context.Context, code string) (string, error) {
	prefix, ok := sequencePrefixes[code]
	if !ok {
		return "", fmt.Errorf("unknown sequence %q", code)
	}

	var seq model.NumberSequence
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "code"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"number_next": gorm.Expr("number_sequences.number_next + 1"),
			}),
		}).Create(&model.NumberSequence{
			Code:       code,
			Prefix:     prefix,
			Padding:    5,
			NumberNext: 1,
		}).Error; err != nil {
			return err
		}
		return tx.Where("code = ?", code).First(&seq).Error
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%0*d", seq.Prefix, seq.Padding, seq.NumberNext), nil
}
