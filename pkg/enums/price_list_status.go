package enums

import "fmt"

// PriceListStatus tracks whether a price list participates in resolution.
type PriceListStatus string

const (
	PriceListStatusActive   PriceListStatus = "active"
	PriceListStatusDraft    PriceListStatus = "draft"
	PriceListStatusArchived PriceListStatus = "archived"
)

var validPriceListStatuses = []PriceListStatus{
	PriceListStatusActive,
	PriceListStatusDraft,
	PriceListStatusArchived,
}

// String implements fmt.Stringer.
func (s PriceListStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known PriceListStatus.
func (s PriceListStatus) IsValid() bool {
	for _, candidate := range validPriceListStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParsePriceListStatus converts raw input into a PriceListStatus.
func ParsePriceListStatus(value string) (PriceListStatus, error) {
	for _, candidate := range validPriceListStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid price list status %q", value)
}
