package controllers

import (
	"net/http"

	"github.com/pixelastronauts/matwise-backend/api/responses"
	"github.com/pixelastronauts/matwise-backend/api/validators"
	"github.com/pixelastronauts/matwise-backend/internal/tax"
	"github.com/pixelastronauts/matwise-backend/pkg/config"
	"github.com/pixelastronauts/matwise-backend/pkg/enums"
	"github.com/pixelastronauts/matwise-backend/pkg/logger"
	"github.com/pixelastronauts/matwise-backend/pkg/metrics"
)

type taxDecisionRequest struct {
	ShippingCountry    string `json:"shipping_country" validate:"omitempty,len=2"`
	IsBusinessCheckout bool   `json:"is_business_checkout"`
	VATNumber          string `json:"vat_number,omitempty"`
	VATNumberValidated bool   `json:"vat_number_validated,omitempty"`
}

type taxDecisionResponse struct {
	ChargeTax   bool          `json:"charge_tax"`
	RatePercent float64       `json:"rate_percent"`
	Code        enums.TaxCode `json:"code"`
}

// TaxDecision evaluates the reverse-charge decision table for one checkout.
func TaxDecision(cfg config.TaxConfig, mtr *metrics.PricingMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload taxDecisionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		decision := tax.Decide(tax.Context{
			ShippingCountry:    payload.ShippingCountry,
			HomeCountry:        cfg.HomeCountry,
			IsBusinessCheckout: payload.IsBusinessCheckout,
			VATNumber:          payload.VATNumber,
			VATNumberValidated: payload.VATNumberValidated,
			DefaultRatePercent: cfg.DefaultRatePercent,
		})
		mtr.IncTaxDecision(string(decision.Code))

		responses.WriteSuccess(w, taxDecisionResponse{
			ChargeTax:   decision.ChargeTax,
			RatePercent: decision.RatePercent,
			Code:        decision.Code,
		})
	}
}
