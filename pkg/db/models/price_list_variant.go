package models

import (
	"time"

	"github.com/google/uuid"
)

// PriceListVariant attaches a commerce-platform product variant to a price
// list. Variant identifiers are owned by the platform and treated as opaque
// strings here.
type PriceListVariant struct {
	PriceListID uuid.UUID `gorm:"column:price_list_id;type:uuid;primaryKey"`
	VariantID   string    `gorm:"column:variant_id;primaryKey"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides the default pluralization.
func (PriceListVariant) TableName() string {
	return "price_list_variants"
}
