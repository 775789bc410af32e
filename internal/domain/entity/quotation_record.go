package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/quotation-engine/internal/domain/enum"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuotationRecord is the storage row of a quotation. The indexed columns mirror
// fields of the JSON document so lists and lookups don't need to decode it.
type QuotationRecord struct {
	ID              uuid.UUID            `gorm:"type:uuid;primary_key"`
	QuotationNumber string               `gorm:"size:100;not null;index"`
	ProjectID       string               `gorm:"size:100;index"`
	CustomerID      string               `gorm:"size:100;index"`
	ProjectName     string               `gorm:"size:255"`
	Recipient       string               `gorm:"size:255"`
	Status          enum.QuotationStatus `gorm:"default:0;index"`
	Version         int                  `gorm:"not null;default:1"`
	TotalAmount     float64              `gorm:"type:decimal(15,2);default:0"`
	ValidUntil      *time.Time           `gorm:"type:date;index"`
	Document        datatypes.JSON       `gorm:"type:jsonb;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

// BeforeCreate generates a UUID before inserting a new record
func (r *QuotationRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the QuotationRecord model
func (QuotationRecord) TableName() string {
	return "quotations"
}

// QuotationSequence is the per-project serial counter used for numbering.
type QuotationSequence struct {
	ProjectID  string `gorm:"size:100;primaryKey"`
	LastSerial int    `gorm:"not null;default:0"`
	UpdatedAt  time.Time
}

// TableName returns the table name for the QuotationSequence model
func (QuotationSequence) TableName() string {
	return "quotation_sequences"
}
