package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/pixelastronauts/matwise-backend/pkg/db/types"
	"github.com/pixelastronauts/matwise-backend/pkg/enums"
)

// VolumePriceList is a named, scoped, time-bounded pricing policy. Variants
// attach through PriceListVariant rows; customer scoping is inclusive, so
// empty group and customer sets mean the list applies to everyone.
type VolumePriceList struct {
	ID               uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name             string                `gorm:"column:name;not null"`
	Type             enums.PriceListType   `gorm:"column:type;not null;default:'default'"`
	Status           enums.PriceListStatus `gorm:"column:status;not null;default:'draft'"`
	StartsAt         *time.Time            `gorm:"column:starts_at"`
	EndsAt           *time.Time            `gorm:"column:ends_at"`
	CustomerGroupIDs dbtypes.UUIDArray     `gorm:"column:customer_group_ids;type:uuid[];not null;default:'{}'"`
	CustomerIDs      dbtypes.UUIDArray     `gorm:"column:customer_ids;type:uuid[];not null;default:'{}'"`
	Priority         int                   `gorm:"column:priority;not null;default:0"`
	CurrencyCode     enums.Currency        `gorm:"column:currency_code;not null;default:'EUR'"`
	Tiers            []VolumePriceTier     `gorm:"foreignKey:PriceListID;constraint:OnDelete:CASCADE"`
	Variants         []PriceListVariant    `gorm:"foreignKey:PriceListID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
