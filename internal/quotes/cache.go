package quotes

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/google/uuid"
)

// hashedQuoteInput is the canonical form a quote request is hashed from.
// Group ids are sorted so membership order does not split the cache.
type hashedQuoteInput struct {
	VariantID   string     `json:"variant_id"`
	Quantity    int        `json:"quantity"`
	WidthValue  float64    `json:"width_value"`
	LengthValue float64    `json:"length_value"`
	PricePerSqm float64    `json:"price_per_sqm"`
	FormulaID   *uuid.UUID `json:"formula_id,omitempty"`
	CustomerID  string     `json:"customer_id,omitempty"`
	GroupIDs    []string   `json:"group_ids,omitempty"`
	Tax         TaxInput   `json:"tax"`
}

func hashQuoteInput(input QuoteInput) (string, error) {
	canonical := hashedQuoteInput{
		VariantID:   input.VariantID,
		Quantity:    input.Quantity,
		WidthValue:  input.WidthValue,
		LengthValue: input.LengthValue,
		PricePerSqm: input.PricePerSqm,
		FormulaID:   input.FormulaID,
		Tax:         input.Tax,
	}
	if input.Customer.ID != uuid.Nil {
		canonical.CustomerID = input.Customer.ID.String()
	}
	if len(input.Customer.GroupIDs) > 0 {
		groups := make([]string, 0, len(input.Customer.GroupIDs))
		for _, groupID := range input.Customer.GroupIDs {
			groups = append(groups, groupID.String())
		}
		sort.Strings(groups)
		canonical.GroupIDs = groups
	}

	payload, err := json.Marshal(canonical)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
