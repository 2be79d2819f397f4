package split

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// RawValue is a per-member split value exactly as the client entered it.
// It decodes from either a JSON string or a JSON number.
type RawValue string

// UnmarshalJSON keeps the literal text of numbers and the contents of strings
func (v *RawValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*v = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = RawValue(s)
		return nil
	}
	*v = RawValue(b)
	return nil
}

// Decimal parses the value; missing or unparseable input counts as zero
func (v RawValue) Decimal() decimal.Decimal {
	d, err := parseDecimal(string(v))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseAmount parses an expense total rounded to cents. Non-numeric input and
// amounts that round to zero or below are rejected with ErrInvalidAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := parseDecimal(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = round2(d)
	if d.Sign() <= 0 {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// parseDecimal accepts both dot (12.34) and comma (12,34) separators
func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	return decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
}
