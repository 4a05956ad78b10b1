package pricelists

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pixelastronauts/matwise-backend/pkg/db/models"
	"github.com/pixelastronauts/matwise-backend/pkg/enums"
)

// PriceListRepository exposes price list persistence.
type PriceListRepository interface {
	Create(ctx context.Context, list *models.VolumePriceList) (*models.VolumePriceList, error)
	Update(ctx context.Context, list *models.VolumePriceList) (*models.VolumePriceList, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.VolumePriceList, error)
	List(ctx context.Context) ([]models.VolumePriceList, error)
	ReplaceTiers(ctx context.Context, priceListID uuid.UUID, tiers []models.VolumePriceTier) error
	AttachVariant(ctx context.Context, priceListID uuid.UUID, variantID string) error
	DetachVariant(ctx context.Context, priceListID uuid.UUID, variantID string) error
	ListsForVariant(ctx context.Context, variantID string) ([]models.VolumePriceList, error)
	ArchiveExpired(ctx context.Context, now time.Time) (int64, error)
	DeleteArchivedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Repository wires price list persistence to GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new price list row with its tiers.
func (r *Repository) Create(ctx context.Context, list *models.VolumePriceList) (*models.VolumePriceList, error) {
	if err := r.db.WithContext(ctx).Create(list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Update saves an existing price list row.
func (r *Repository) Update(ctx context.Context, list *models.VolumePriceList) (*models.VolumePriceList, error) {
	if err := r.db.WithContext(ctx).Omit("Tiers", "Variants").Save(list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Delete removes a price list; tiers and attachments cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.VolumePriceList{}).Error
}

// FindByID loads a price list with tiers and variant attachments.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.VolumePriceList, error) {
	var list models.VolumePriceList
	err := r.db.WithContext(ctx).
		Preload("Tiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("min_quantity ASC")
		}).
		Preload("Variants").
		First(&list, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// List returns all price lists with their tiers.
func (r *Repository) List(ctx context.Context) ([]models.VolumePriceList, error) {
	var lists []models.VolumePriceList
	err := r.db.WithContext(ctx).
		Preload("Tiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("min_quantity ASC")
		}).
		Order("priority DESC, created_at ASC").
		Find(&lists).
		Error
	if err != nil {
		return nil, err
	}
	return lists, nil
}

// ReplaceTiers swaps out all tiers for the price list.
func (r *Repository) ReplaceTiers(ctx context.Context, priceListID uuid.UUID, tiers []models.VolumePriceTier) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("price_list_id = ?", priceListID).Delete(&models.VolumePriceTier{}).Error; err != nil {
		return err
	}
	if len(tiers) == 0 {
		return nil
	}
	for i := range tiers {
		tiers[i].PriceListID = priceListID
	}
	return tx.Create(&tiers).Error
}

// AttachVariant links a variant to the price list; re-attaching is a no-op.
func (r *Repository) AttachVariant(ctx context.Context, priceListID uuid.UUID, variantID string) error {
	attachment := models.PriceListVariant{PriceListID: priceListID, VariantID: variantID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&attachment).
		Error
}

// DetachVariant removes the attachment row.
func (r *Repository) DetachVariant(ctx context.Context, priceListID uuid.UUID, variantID string) error {
	return r.db.WithContext(ctx).
		Where("price_list_id = ? AND variant_id = ?", priceListID, variantID).
		Delete(&models.PriceListVariant{}).
		Error
}

// ListsForVariant loads the candidate snapshot for resolution: every price
// list attached to the variant, tiers included. Filtering by status, window
// and scope happens in the pure resolver.
func (r *Repository) ListsForVariant(ctx context.Context, variantID string) ([]models.VolumePriceList, error) {
	var lists []models.VolumePriceList
	err := r.db.WithContext(ctx).
		Preload("Tiers").
		Joins("JOIN price_list_variants plv ON plv.price_list_id = volume_price_lists.id").
		Where("plv.variant_id = ?", variantID).
		Find(&lists).
		Error
	if err != nil {
		return nil, err
	}
	return lists, nil
}

// ArchiveExpired flips active sale lists whose window has closed to the
// archived status. The read path already excludes them via the window
// filter; this keeps candidate sets small.
func (r *Repository) ArchiveExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.VolumePriceList{}).
		Where("status = ? AND ends_at IS NOT NULL AND ends_at < ?", enums.PriceListStatusActive, now).
		Update("status", enums.PriceListStatusArchived)
	return result.RowsAffected, result.Error
}

// DeleteArchivedBefore purges archived lists whose window closed before the
// cutoff; tiers and attachments cascade.
func (r *Repository) DeleteArchivedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status = ? AND ends_at IS NOT NULL AND ends_at < ?", enums.PriceListStatusArchived, cutoff).
		Delete(&models.VolumePriceList{})
	return result.RowsAffected, result.Error
}

