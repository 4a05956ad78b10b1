package pricelists

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pixelastronauts/matwise-backend/pkg/db/models"
	dbtypes "github.com/pixelastronauts/matwise-backend/pkg/db/types"
	"github.com/pixelastronauts/matwise-backend/pkg/enums"
	pkgerrors "github.com/pixelastronauts/matwise-backend/pkg/errors"
)

// Service exposes price list management and resolution.
type Service interface {
	CreatePriceList(ctx context.Context, input PriceListInput) (*models.VolumePriceList, []string, error)
	UpdatePriceList(ctx context.Context, id uuid.UUID, input PriceListInput) (*models.VolumePriceList, []string, error)
	DeletePriceList(ctx context.Context, id uuid.UUID) error
	GetPriceList(ctx context.Context, id uuid.UUID) (*models.VolumePriceList, error)
	ListPriceLists(ctx context.Context) ([]models.VolumePriceList, error)
	AttachVariant(ctx context.Context, id uuid.UUID, variantID string) error
	DetachVariant(ctx context.Context, id uuid.UUID, variantID string) error
	ResolvePrice(ctx context.Context, variantID string, quantity int, customer CustomerContext, at time.Time) (*Resolution, error)
}

type service struct {
	repo PriceListRepository
}

// NewService builds a price list service backed by the provided repository.
func NewService(repo PriceListRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("price list repository required")
	}
	return &service{repo: repo}, nil
}

// PriceListInput captures the payload for creating or replacing a price list.
type PriceListInput struct {
	Name             string
	Type             enums.PriceListType
	Status           enums.PriceListStatus
	StartsAt         *time.Time
	EndsAt           *time.Time
	CustomerGroupIDs []uuid.UUID
	CustomerIDs      []uuid.UUID
	Priority         int
	CurrencyCode     enums.Currency
	Tiers            []TierInput
}

// TierInput mirrors one quantity tier of the payload.
type TierInput struct {
	MinQuantity       int
	MaxQuantity       *int
	PricePerUnitCents int
	TierPriority      int
}

// CreatePriceList validates and persists a new price list. Overlapping tier
// ranges are accepted and reported back as warnings; the resolver breaks the
// tie deterministically at read time.
func (s *service) CreatePriceList(ctx context.Context, input PriceListInput) (*models.VolumePriceList, []string, error) {
	warnings, err := validatePriceListInput(input)
	if err != nil {
		return nil, nil, err
	}

	list := toModel(input)
	created, err := s.repo.Create(ctx, list)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create price list")
	}
	return created, warnings, nil
}

// UpdatePriceList replaces the list's fields and tiers.
func (s *service) UpdatePriceList(ctx context.Context, id uuid.UUID, input PriceListInput) (*models.VolumePriceList, []string, error) {
	warnings, err := validatePriceListInput(input)
	if err != nil {
		return nil, nil, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "price list not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price list")
	}

	updated := toModel(input)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if _, err := s.repo.Update(ctx, updated); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update price list")
	}
	if err := s.repo.ReplaceTiers(ctx, existing.ID, updated.Tiers); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace tiers")
	}

	reloaded, err := s.repo.FindByID(ctx, existing.ID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload price list")
	}
	return reloaded, warnings, nil
}

// DeletePriceList removes the list and its dependents.
func (s *service) DeletePriceList(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete price list")
	}
	return nil
}

// GetPriceList loads one list with tiers and attachments.
func (s *service) GetPriceList(ctx context.Context, id uuid.UUID) (*models.VolumePriceList, error) {
	list, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "price list not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price list")
	}
	return list, nil
}

// ListPriceLists returns every configured price list.
func (s *service) ListPriceLists(ctx context.Context) ([]models.VolumePriceList, error) {
	lists, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list price lists")
	}
	return lists, nil
}

// AttachVariant links the variant to the list.
func (s *service) AttachVariant(ctx context.Context, id uuid.UUID, variantID string) error {
	if variantID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	if _, err := s.GetPriceList(ctx, id); err != nil {
		return err
	}
	if err := s.repo.AttachVariant(ctx, id, variantID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach variant")
	}
	return nil
}

// DetachVariant removes the attachment.
func (s *service) DetachVariant(ctx context.Context, id uuid.UUID, variantID string) error {
	if variantID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	if err := s.repo.DetachVariant(ctx, id, variantID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "detach variant")
	}
	return nil
}

// ResolvePrice loads the variant's candidate snapshot and runs the pure
// resolver against it.
func (s *service) ResolvePrice(ctx context.Context, variantID string, quantity int, customer CustomerContext, at time.Time) (*Resolution, error) {
	if variantID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	lists, err := s.repo.ListsForVariant(ctx, variantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price lists for variant")
	}
	return Resolve(ResolveInput{
		VariantID: variantID,
		Quantity:  quantity,
		Customer:  customer,
		At:        at,
		Lists:     lists,
	})
}

func validatePriceListInput(input PriceListInput) ([]string, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price list name is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid price list type %q", input.Type))
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid price list status %q", input.Status))
	}
	if !input.CurrencyCode.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid currency %q", input.CurrencyCode))
	}
	if input.StartsAt != nil && input.EndsAt != nil && input.EndsAt.Before(*input.StartsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ends_at must not precede starts_at")
	}
	for i, tier := range input.Tiers {
		if tier.MinQuantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("tier %d: min_quantity must be at least 1", i))
		}
		if tier.MaxQuantity != nil && *tier.MaxQuantity < tier.MinQuantity {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("tier %d: max_quantity must not precede min_quantity", i))
		}
		if tier.PricePerUnitCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("tier %d: price_per_unit_cents must be non-negative", i))
		}
	}
	return tierOverlapWarnings(input.Tiers), nil
}

// tierOverlapWarnings reports overlapping quantity ranges. Overlaps are not
// rejected: data imported from the platform may carry them, and the resolver
// handles them via tier priority.
func tierOverlapWarnings(tiers []TierInput) []string {
	if len(tiers) < 2 {
		return nil
	}
	sorted := make([]TierInput, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinQuantity < sorted[j].MinQuantity
	})

	var warnings []string
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if prev.MaxQuantity == nil || cur.MinQuantity <= *prev.MaxQuantity {
			warnings = append(warnings, fmt.Sprintf(
				"tiers starting at quantities %d and %d overlap; the lower tier_priority wins at resolution",
				prev.MinQuantity, cur.MinQuantity,
			))
		}
	}
	return warnings
}

func toModel(input PriceListInput) *models.VolumePriceList {
	tiers := make([]models.VolumePriceTier, 0, len(input.Tiers))
	for _, tier := range input.Tiers {
		tiers = append(tiers, models.VolumePriceTier{
			MinQuantity:       tier.MinQuantity,
			MaxQuantity:       tier.MaxQuantity,
			PricePerUnitCents: tier.PricePerUnitCents,
			TierPriority:      tier.TierPriority,
		})
	}
	return &models.VolumePriceList{
		Name:             input.Name,
		Type:             input.Type,
		Status:           input.Status,
		StartsAt:         input.StartsAt,
		EndsAt:           input.EndsAt,
		CustomerGroupIDs: dbtypes.UUIDArray(input.CustomerGroupIDs),
		CustomerIDs:      dbtypes.UUIDArray(input.CustomerIDs),
		Priority:         input.Priority,
		CurrencyCode:     input.CurrencyCode,
		Tiers:            tiers,
	}
}
