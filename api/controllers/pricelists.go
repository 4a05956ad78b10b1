package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pixelastronauts/matwise-backend/api/responses"
	"github.com/pixelastronauts/matwise-backend/api/validators"
	pricelistsvc "github.com/pixelastronauts/matwise-backend/internal/pricelists"
	"github.com/pixelastronauts/matwise-backend/pkg/db/models"
	"github.com/pixelastronauts/matwise-backend/pkg/enums"
	pkgerrors "github.com/pixelastronauts/matwise-backend/pkg/errors"
	"github.com/pixelastronauts/matwise-backend/pkg/logger"
)

type priceListRequest struct {
	Name             string             `json:"name" validate:"required"`
	Type             string             `json:"type" validate:"required"`
	Status           string             `json:"status" validate:"required"`
	StartsAt         *time.Time         `json:"starts_at,omitempty"`
	EndsAt           *time.Time         `json:"ends_at,omitempty"`
	CustomerGroupIDs []string           `json:"customer_group_ids,omitempty" validate:"omitempty,dive,uuid4"`
	CustomerIDs      []string           `json:"customer_ids,omitempty" validate:"omitempty,dive,uuid4"`
	Priority         int                `json:"priority"`
	CurrencyCode     string             `json:"currency_code" validate:"required"`
	Tiers            []tierRequest      `json:"tiers" validate:"required,min=1,dive"`
}

type tierRequest struct {
	MinQuantity       int  `json:"min_quantity" validate:"required,min=1"`
	MaxQuantity       *int `json:"max_quantity,omitempty" validate:"omitempty,min=1"`
	PricePerUnitCents int  `json:"price_per_unit_cents" validate:"min=0"`
	TierPriority      int  `json:"tier_priority"`
}

type priceListResponse struct {
	ID               uuid.UUID          `json:"id"`
	Name             string             `json:"name"`
	Type             string             `json:"type"`
	Status           string             `json:"status"`
	StartsAt         *time.Time         `json:"starts_at,omitempty"`
	EndsAt           *time.Time         `json:"ends_at,omitempty"`
	CustomerGroupIDs []uuid.UUID        `json:"customer_group_ids"`
	CustomerIDs      []uuid.UUID        `json:"customer_ids"`
	Priority         int                `json:"priority"`
	CurrencyCode     string             `json:"currency_code"`
	Tiers            []tierResponse     `json:"tiers"`
	Variants         []string           `json:"variants,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

type tierResponse struct {
	ID                uuid.UUID `json:"id"`
	MinQuantity       int       `json:"min_quantity"`
	MaxQuantity       *int      `json:"max_quantity,omitempty"`
	PricePerUnitCents int       `json:"price_per_unit_cents"`
	TierPriority      int       `json:"tier_priority"`
}

type priceListEnvelope struct {
	PriceList priceListResponse `json:"price_list"`
	Warnings  []string          `json:"warnings,omitempty"`
}

func toPriceListResponse(record *models.VolumePriceList) priceListResponse {
	out := priceListResponse{
		ID:               record.ID,
		Name:             record.Name,
		Type:             string(record.Type),
		Status:           string(record.Status),
		StartsAt:         record.StartsAt,
		EndsAt:           record.EndsAt,
		CustomerGroupIDs: record.CustomerGroupIDs,
		CustomerIDs:      record.CustomerIDs,
		Priority:         record.Priority,
		CurrencyCode:     string(record.CurrencyCode),
		CreatedAt:        record.CreatedAt,
		UpdatedAt:        record.UpdatedAt,
	}
	for _, tier := range record.Tiers {
		out.Tiers = append(out.Tiers, tierResponse{
			ID:                tier.ID,
			MinQuantity:       tier.MinQuantity,
			MaxQuantity:       tier.MaxQuantity,
			PricePerUnitCents: tier.PricePerUnitCents,
			TierPriority:      tier.TierPriority,
		})
	}
	for _, variant := range record.Variants {
		out.Variants = append(out.Variants, variant.VariantID)
	}
	return out
}

func (r priceListRequest) toInput() (pricelistsvc.PriceListInput, error) {
	listType, err := enums.ParsePriceListType(strings.TrimSpace(r.Type))
	if err != nil {
		return pricelistsvc.PriceListInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price list type")
	}
	status, err := enums.ParsePriceListStatus(strings.TrimSpace(r.Status))
	if err != nil {
		return pricelistsvc.PriceListInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price list status")
	}
	currency, err := enums.ParseCurrency(strings.TrimSpace(r.CurrencyCode))
	if err != nil {
		return pricelistsvc.PriceListInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid currency code")
	}

	groupIDs, err := parseUUIDs(r.CustomerGroupIDs, "invalid customer group id")
	if err != nil {
		return pricelistsvc.PriceListInput{}, err
	}
	customerIDs, err := parseUUIDs(r.CustomerIDs, "invalid customer id")
	if err != nil {
		return pricelistsvc.PriceListInput{}, err
	}

	input := pricelistsvc.PriceListInput{
		Name:             r.Name,
		Type:             listType,
		Status:           status,
		StartsAt:         r.StartsAt,
		EndsAt:           r.EndsAt,
		CustomerGroupIDs: groupIDs,
		CustomerIDs:      customerIDs,
		Priority:         r.Priority,
		CurrencyCode:     currency,
	}
	for _, tier := range r.Tiers {
		input.Tiers = append(input.Tiers, pricelistsvc.TierInput{
			MinQuantity:       tier.MinQuantity,
			MaxQuantity:       tier.MaxQuantity,
			PricePerUnitCents: tier.PricePerUnitCents,
			TierPriority:      tier.TierPriority,
		})
	}
	return input, nil
}

func parseUUIDs(raw []string, msg string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, msg)
		}
		out = append(out, id)
	}
	return out, nil
}

// AdminPriceListCreate persists a new price list with its tiers. Overlapping
// tier ranges are accepted and echoed back as warnings.
func AdminPriceListCreate(svc pricelistsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload priceListRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, warnings, err := svc.CreatePriceList(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, priceListEnvelope{
			PriceList: toPriceListResponse(record),
			Warnings:  warnings,
		})
	}
}

// AdminPriceListUpdate replaces a price list and its tier set.
func AdminPriceListUpdate(svc pricelistsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := priceListID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload priceListRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, warnings, err := svc.UpdatePriceList(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, priceListEnvelope{
			PriceList: toPriceListResponse(record),
			Warnings:  warnings,
		})
	}
}

func AdminPriceListDelete(svc pricelistsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := priceListID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeletePriceList(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func AdminPriceListGet(svc pricelistsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := priceListID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.GetPriceList(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toPriceListResponse(record))
	}
}

func AdminPriceListList(svc pricelistsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := svc.ListPriceLists(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]priceListResponse, 0, len(records))
		for i := range records {
			out = append(out, toPriceListResponse(&records[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

type variantAttachRequest struct {
	VariantID string `json:"variant_id" validate:"required"`
}

// AdminPriceListAttachVariant links a platform variant to the price list.
func AdminPriceListAttachVariant(svc pricelistsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := priceListID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload variantAttachRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.AttachVariant(r.Context(), id, payload.VariantID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"status": "attached"})
	}
}

func AdminPriceListDetachVariant(svc pricelistsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := priceListID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		variantID := chi.URLParam(r, "variantId")
		if variantID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "variant id required"))
			return
		}

		if err := svc.DetachVariant(r.Context(), id, variantID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "detached"})
	}
}

func priceListID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "priceListId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price list id")
	}
	return id, nil
}
