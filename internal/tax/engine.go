package tax

import (
	"strings"

	"github.com/pixelastronauts/matwise-backend/pkg/enums"
)

// Context carries the per-checkout inputs the decision is made from. It is a
// derived record, not a persisted entity; checkout orchestration builds one
// per line. VAT number validation against the registry happens upstream, only
// the outcome flag and the number's country prefix are consumed here.
type Context struct {
	ShippingCountry    string
	HomeCountry        string
	IsBusinessCheckout bool
	VATNumber          string
	VATNumberValidated bool
	DefaultRatePercent float64
}

// Decision is the outcome applied to a checkout line.
type Decision struct {
	ChargeTax   bool
	RatePercent float64
	Code        enums.TaxCode
}

// Decide evaluates the reverse-charge decision table. Branches are ordered
// and the first match wins:
//
//  1. unknown shipping country: withhold tax rather than mischarge
//  2. domestic shipment: standard rate
//  3. consumer checkout: standard rate
//  4. business checkout without a VAT number: standard rate
//  5. business checkout with a VAT number whose country prefix matches a
//     foreign shipping country: reverse charge
//
// Consumer sales abroad are taxed at the home rate; per-destination B2C
// rates are out of scope of this engine.
func Decide(ctx Context) Decision {
	shipping := normalizeCountry(ctx.ShippingCountry)
	home := normalizeCountry(ctx.HomeCountry)

	if shipping == "" {
		return Decision{ChargeTax: false, RatePercent: 0, Code: enums.TaxCodeNoTax}
	}
	if shipping == home {
		return standard(ctx)
	}
	if !ctx.IsBusinessCheckout {
		return standard(ctx)
	}

	vatNumber := strings.TrimSpace(ctx.VATNumber)
	if vatNumber == "" {
		return standard(ctx)
	}
	if vatCountryPrefix(vatNumber) == shipping {
		return Decision{ChargeTax: false, RatePercent: 0, Code: enums.TaxCodeReverseCharge}
	}
	return standard(ctx)
}

func standard(ctx Context) Decision {
	return Decision{
		ChargeTax:   true,
		RatePercent: ctx.DefaultRatePercent,
		Code:        enums.TaxCodeStandard,
	}
}

func normalizeCountry(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

// vatCountryPrefix returns the two-letter member-state prefix of an EU VAT
// number, e.g. "DE" for DE123456789.
func vatCountryPrefix(vatNumber string) string {
	if len(vatNumber) < 2 {
		return ""
	}
	return strings.ToUpper(vatNumber[:2])
}
