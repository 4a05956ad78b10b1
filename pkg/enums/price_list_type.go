package enums

import "fmt"

// PriceListType distinguishes standing price lists from time-boxed sales.
type PriceListType string

const (
	PriceListTypeDefault PriceListType = "default"
	PriceListTypeSale    PriceListType = "sale"
)

var validPriceListTypes = []PriceListType{
	PriceListTypeDefault,
	PriceListTypeSale,
}

// String implements fmt.Stringer.
func (t PriceListType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known PriceListType.
func (t PriceListType) IsValid() bool {
	for _, candidate := range validPriceListTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParsePriceListType converts raw input into a PriceListType.
func ParsePriceListType(value string) (PriceListType, error) {
	for _, candidate := range validPriceListTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid price list type %q", value)
}
