package services

import (
	"fmt"

	"github.com/diewo77/garage-app/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Document number prefixes.
const (
	PrefixWorkOrder = "WO"
	PrefixEstimate  = "EST"
	PrefixInvoice   = "INV"
)

// NextNumber allocates the next human-readable document number for prefix,
// e.g. WO-000123. The counter lives in the sequences table and is bumped
// with a single UPDATE inside the caller's transaction, so the allocation
// commits or rolls back together with the document it numbers and two
// concurrent creates cannot observe the same value. Counters never shrink,
// so numbers are not reissued after deletions.
func NextNumber(tx *gorm.DB, prefix string) (string, error) {
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Sequence{Name: prefix, Value: 0}).Error; err != nil {
		return "", err
	}
	if err := tx.Model(&models.Sequence{}).Where("name = ?", prefix).
		UpdateColumn("value", gorm.Expr("value + 1")).Error; err != nil {
		return "", err
	}
	var seq models.Sequence
	if err := tx.First(&seq, "name = ?", prefix).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%06d", prefix, seq.Value), nil
}
