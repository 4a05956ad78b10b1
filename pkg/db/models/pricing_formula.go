package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/pixelastronauts/matwise-backend/pkg/db/types"
)

// PricingFormula stores an operator-authored price expression and its named
// parameters. Free identifiers in the formula must resolve to a built-in
// variable or a key of Parameters; the management service rejects anything
// else at write time.
type PricingFormula struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string            `gorm:"column:name;not null"`
	FormulaString string            `gorm:"column:formula_string;not null"`
	Parameters    dbtypes.NumberMap `gorm:"column:parameters;type:jsonb;not null;default:'{}'"`
	IsActive      bool              `gorm:"column:is_active;not null;default:true"`
	IsDefault     bool              `gorm:"column:is_default;not null;default:false"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
