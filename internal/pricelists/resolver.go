package pricelists

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pixelastronauts/matwise-backend/pkg/db/models"
	"github.com/pixelastronauts/matwise-backend/pkg/enums"
	pkgerrors "github.com/pixelastronauts/matwise-backend/pkg/errors"
)

// ErrNoApplicablePrice is returned when no price list or tier matches the
// request. The resolver never fabricates a fallback price; callers fall back
// to the variant's base price obtained elsewhere.
var ErrNoApplicablePrice = pkgerrors.New(pkgerrors.CodeNotFound, "no applicable price")

// CustomerContext identifies the requesting customer for scoping checks. A
// zero-value context represents an anonymous storefront visitor.
type CustomerContext struct {
	ID       uuid.UUID
	GroupIDs []uuid.UUID
}

// ResolveInput is a snapshot of everything resolution depends on. Lists must
// already be restricted to the variant's attachments and carry their tiers;
// the resolver itself performs no I/O.
type ResolveInput struct {
	VariantID string
	Quantity  int
	Customer  CustomerContext
	At        time.Time
	Lists     []models.VolumePriceList
}

// Resolution is the selected price list and tier for a request.
type Resolution struct {
	PriceListID       uuid.UUID
	Tier              models.VolumePriceTier
	PricePerUnitCents int
}

// Resolve picks the single applicable price list for the variant, customer
// and instant, then the quantity tier within it. Candidate ordering is fully
// deterministic: priority descending, customer-scoped lists over universal
// ones on equal priority, then lexicographic by list id.
func Resolve(input ResolveInput) (*Resolution, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	candidates := make([]models.VolumePriceList, 0, len(input.Lists))
	for _, list := range input.Lists {
		if !listInForce(list, input.At) {
			continue
		}
		if !scopeMatches(list, input.Customer) {
			continue
		}
		candidates = append(candidates, list)
	}
	if len(candidates) == 0 {
		return nil, ErrNoApplicablePrice
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		aScoped, bScoped := isScoped(a), isScoped(b)
		if aScoped != bScoped {
			return aScoped
		}
		return a.ID.String() < b.ID.String()
	})
	selected := candidates[0]

	tier := selectTier(selected.Tiers, input.Quantity)
	if tier == nil {
		return nil, ErrNoApplicablePrice
	}

	return &Resolution{
		PriceListID:       selected.ID,
		Tier:              *tier,
		PricePerUnitCents: tier.PricePerUnitCents,
	}, nil
}

func listInForce(list models.VolumePriceList, at time.Time) bool {
	if list.Status != enums.PriceListStatusActive {
		return false
	}
	if list.StartsAt != nil && list.StartsAt.After(at) {
		return false
	}
	if list.EndsAt != nil && list.EndsAt.Before(at) {
		return false
	}
	return true
}

func isScoped(list models.VolumePriceList) bool {
	return len(list.CustomerGroupIDs) > 0 || len(list.CustomerIDs) > 0
}

// scopeMatches implements inclusive customer scoping: empty sets apply to
// everyone, non-empty sets require group intersection or direct membership.
func scopeMatches(list models.VolumePriceList, customer CustomerContext) bool {
	if !isScoped(list) {
		return true
	}
	for _, groupID := range list.CustomerGroupIDs {
		for _, memberOf := range customer.GroupIDs {
			if groupID == memberOf {
				return true
			}
		}
	}
	if customer.ID != uuid.Nil {
		for _, customerID := range list.CustomerIDs {
			if customerID == customer.ID {
				return true
			}
		}
	}
	return false
}

// selectTier finds the tier covering the quantity. Overlapping ranges are a
// data anomaly, not a crash: the tier with the lowest TierPriority wins, then
// the lowest id.
func selectTier(tiers []models.VolumePriceTier, quantity int) *models.VolumePriceTier {
	var selected *models.VolumePriceTier
	for i := range tiers {
		tier := &tiers[i]
		if tier.MinQuantity > quantity {
			continue
		}
		if tier.MaxQuantity != nil && quantity > *tier.MaxQuantity {
			continue
		}
		if selected == nil {
			selected = tier
			continue
		}
		if tier.TierPriority < selected.TierPriority {
			selected = tier
			continue
		}
		if tier.TierPriority == selected.TierPriority && tier.ID.String() < selected.ID.String() {
			selected = tier
		}
	}
	if selected == nil {
		return nil
	}
	copied := *selected
	return &copied
}
