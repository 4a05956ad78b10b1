package formulas

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pixelastronauts/matwise-backend/pkg/db/models"
)

// FormulaRepository exposes pricing formula persistence.
type FormulaRepository interface {
	Create(ctx context.Context, formula *models.PricingFormula) (*models.PricingFormula, error)
	Update(ctx context.Context, formula *models.PricingFormula) (*models.PricingFormula, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.PricingFormula, error)
	FindDefault(ctx context.Context) (*models.PricingFormula, error)
	List(ctx context.Context) ([]models.PricingFormula, error)
	SetDefault(ctx context.Context, id uuid.UUID) error
}

// Repository wires formula persistence to GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new formula row.
func (r *Repository) Create(ctx context.Context, formula *models.PricingFormula) (*models.PricingFormula, error) {
	if err := r.db.WithContext(ctx).Create(formula).Error; err != nil {
		return nil, err
	}
	return formula, nil
}

// Update saves an existing formula row.
func (r *Repository) Update(ctx context.Context, formula *models.PricingFormula) (*models.PricingFormula, error) {
	if err := r.db.WithContext(ctx).Save(formula).Error; err != nil {
		return nil, err
	}
	return formula, nil
}

// Delete removes a formula by id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.PricingFormula{}).Error
}

// FindByID loads one formula.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PricingFormula, error) {
	var formula models.PricingFormula
	if err := r.db.WithContext(ctx).First(&formula, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &formula, nil
}

// FindDefault loads the active default formula. Several rows flagged default
// would be a write-side bug; the lowest id is returned so reads stay
// deterministic regardless.
func (r *Repository) FindDefault(ctx context.Context) (*models.PricingFormula, error) {
	var formula models.PricingFormula
	err := r.db.WithContext(ctx).
		Where("is_default = ? AND is_active = ?", true, true).
		Order("id ASC").
		First(&formula).
		Error
	if err != nil {
		return nil, err
	}
	return &formula, nil
}

// List returns all formulas, default first.
func (r *Repository) List(ctx context.Context) ([]models.PricingFormula, error) {
	var formulas []models.PricingFormula
	err := r.db.WithContext(ctx).
		Order("is_default DESC, created_at ASC").
		Find(&formulas).
		Error
	if err != nil {
		return nil, err
	}
	return formulas, nil
}

// SetDefault clears the default flag everywhere and sets it on the given
// formula, in one transaction, so at most one row carries the flag.
func (r *Repository) SetDefault(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PricingFormula{}).
			Where("is_default = ?", true).
			Update("is_default", false).
			Error; err != nil {
			return err
		}
		result := tx.Model(&models.PricingFormula{}).
			Where("id = ?", id).
			Update("is_default", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
