package enums

import "fmt"

// TaxCode labels the outcome of a tax decision for a checkout line.
type TaxCode string

const (
	TaxCodeStandard      TaxCode = "STANDARD"
	TaxCodeReverseCharge TaxCode = "REVERSE_CHARGE"
	TaxCodeNoTax         TaxCode = "NO_TAX"
)

var validTaxCodes = []TaxCode{
	TaxCodeStandard,
	TaxCodeReverseCharge,
	TaxCodeNoTax,
}

// String implements fmt.Stringer.
func (t TaxCode) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TaxCode.
func (t TaxCode) IsValid() bool {
	for _, candidate := range validTaxCodes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTaxCode converts raw input into a TaxCode.
func ParseTaxCode(value string) (TaxCode, error) {
	for _, candidate := range validTaxCodes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tax code %q", value)
}
