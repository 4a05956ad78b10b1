package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pixelastronauts/matwise-backend/api/responses"
	"github.com/pixelastronauts/matwise-backend/api/validators"
	"github.com/pixelastronauts/matwise-backend/internal/pricelists"
	quotesvc "github.com/pixelastronauts/matwise-backend/internal/quotes"
	pkgerrors "github.com/pixelastronauts/matwise-backend/pkg/errors"
	"github.com/pixelastronauts/matwise-backend/pkg/logger"
)

type quoteRequest struct {
	VariantID   string               `json:"variant_id" validate:"required"`
	Quantity    int                  `json:"quantity" validate:"required,min=1"`
	WidthValue  float64              `json:"width_value" validate:"required,gt=0"`
	LengthValue float64              `json:"length_value" validate:"required,gt=0"`
	PricePerSqm float64              `json:"price_per_sqm" validate:"omitempty,gte=0"`
	FormulaID   *string              `json:"formula_id,omitempty" validate:"omitempty,uuid4"`
	Customer    quoteCustomerRequest `json:"customer"`
	Tax         quoteTaxRequest      `json:"tax"`
}

type quoteCustomerRequest struct {
	CustomerID *string  `json:"customer_id,omitempty" validate:"omitempty,uuid4"`
	GroupIDs   []string `json:"group_ids,omitempty" validate:"omitempty,dive,uuid4"`
}

type quoteTaxRequest struct {
	ShippingCountry    string `json:"shipping_country"`
	IsBusinessCheckout bool   `json:"is_business_checkout"`
	VATNumber          string `json:"vat_number,omitempty"`
	VATNumberValidated bool   `json:"vat_number_validated,omitempty"`
}

// QuoteLine prices one storefront line.
func QuoteLine(svc quotesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Quote(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}

func (r quoteRequest) toInput() (quotesvc.QuoteInput, error) {
	input := quotesvc.QuoteInput{
		VariantID:   r.VariantID,
		Quantity:    r.Quantity,
		WidthValue:  r.WidthValue,
		LengthValue: r.LengthValue,
		PricePerSqm: r.PricePerSqm,
		Tax: quotesvc.TaxInput{
			ShippingCountry:    r.Tax.ShippingCountry,
			IsBusinessCheckout: r.Tax.IsBusinessCheckout,
			VATNumber:          r.Tax.VATNumber,
			VATNumberValidated: r.Tax.VATNumberValidated,
		},
	}

	if r.FormulaID != nil {
		id, err := uuid.Parse(*r.FormulaID)
		if err != nil {
			return quotesvc.QuoteInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid formula id")
		}
		input.FormulaID = &id
	}

	customer, err := r.Customer.toContext()
	if err != nil {
		return quotesvc.QuoteInput{}, err
	}
	input.Customer = customer

	return input, nil
}

func (r quoteCustomerRequest) toContext() (pricelists.CustomerContext, error) {
	var customer pricelists.CustomerContext

	if r.CustomerID != nil {
		id, err := uuid.Parse(*r.CustomerID)
		if err != nil {
			return pricelists.CustomerContext{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id")
		}
		customer.ID = id
	}

	for _, raw := range r.GroupIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return pricelists.CustomerContext{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer group id")
		}
		customer.GroupIDs = append(customer.GroupIDs, id)
	}

	return customer, nil
}

type formulaPreviewRequest struct {
	FormulaString string             `json:"formula_string" validate:"required"`
	Parameters    map[string]float64 `json:"parameters,omitempty"`
	WidthValue    float64            `json:"width_value" validate:"required,gt=0"`
	LengthValue   float64            `json:"length_value" validate:"required,gt=0"`
	PricePerSqm   float64            `json:"price_per_sqm" validate:"omitempty,gte=0"`
	Quantity      int                `json:"quantity" validate:"omitempty,min=1"`
	TaxFraction   float64            `json:"tax_fraction" validate:"omitempty,gte=0,lte=1"`
}

// PreviewFormula evaluates an unsaved formula body against explicit bindings.
func PreviewFormula(svc quotesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		var payload formulaPreviewRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.PreviewFormula(r.Context(), quotesvc.PreviewInput{
			FormulaString: payload.FormulaString,
			Parameters:    payload.Parameters,
			WidthValue:    payload.WidthValue,
			LengthValue:   payload.LengthValue,
			PricePerSqm:   payload.PricePerSqm,
			Quantity:      payload.Quantity,
			TaxFraction:   payload.TaxFraction,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
