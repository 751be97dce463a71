package models

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DocumentSequence is the last number issued per document kind.
type DocumentSequence struct {
	Kind       string `gorm:"primaryKey;size:20"`
	LastNumber int64  `gorm:"not null;default:0"`
}

// NextSequence reserves the next number for kind inside tx.
func NextSequence(tx *gorm.DB, kind string) (int64, error) {
	seq := DocumentSequence{Kind: kind}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seq).Error; err != nil {
		return 0, fmt.Errorf("init sequence %s: %w", kind, err)
	}
	if err := tx.Model(&DocumentSequence{}).
		Where("kind = ?", kind).
		UpdateColumn("last_number", gorm.Expr("last_number + 1")).Error; err != nil {
		return 0, fmt.Errorf("bump sequence %s: %w", kind, err)
	}
	if err := tx.Where("kind = ?", kind).First(&seq).Error; err != nil {
		return 0, fmt.Errorf("read sequence %s: %w", kind, err)
	}
	return seq.LastNumber, nil
}
