package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// NumberMap stores a string-to-number map in a jsonb column. Formula
// parameters use it: keys are identifiers, values are the numbers bound at
// evaluation time.
type NumberMap map[string]float64

func (m *NumberMap) Scan(src any) error {
	if src == nil {
		*m = NumberMap{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return m.parseJSON(v)
	case string:
		return m.parseJSON([]byte(v))
	default:
		return fmt.Errorf("NumberMap: unsupported Scan type %T", src)
	}
}

func (m NumberMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("NumberMap: marshal: %w", err)
	}
	return string(raw), nil
}

func (m *NumberMap) parseJSON(raw []byte) error {
	if len(raw) == 0 {
		*m = NumberMap{}
		return nil
	}
	parsed := map[string]float64{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("NumberMap: unmarshal: %w", err)
	}
	*m = parsed
	return nil
}
