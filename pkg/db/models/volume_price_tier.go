package models

import (
	"time"

	"github.com/google/uuid"
)

// VolumePriceTier maps a quantity range within a price list to a fixed
// per-unit price in minor units. MinQuantity is inclusive; a nil MaxQuantity
// means the tier is unbounded above. Ranges within one list should partition
// the quantity axis, but overlaps are tolerated at read time: the tier with
// the lowest TierPriority wins.
type VolumePriceTier struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PriceListID       uuid.UUID `gorm:"column:price_list_id;type:uuid;not null;index"`
	MinQuantity       int       `gorm:"column:min_quantity;not null;default:1"`
	MaxQuantity       *int      `gorm:"column:max_quantity"`
	PricePerUnitCents int       `gorm:"column:price_per_unit_cents;not null"`
	TierPriority      int       `gorm:"column:tier_priority;not null;default:0"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
}
