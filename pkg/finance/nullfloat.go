package finance

import (
	"encoding/json"
	"math"
)

// NullFloat is a float64 that may be undefined. An undefined value is distinct
// from zero and must be checked before formatting.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Defined wraps a value known to be defined. NaN and infinities stay undefined.
func Defined(v float64) NullFloat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NullFloat{}
	}
	return NullFloat{Float64: v, Valid: true}
}

// Undefined returns the undefined value.
func Undefined() NullFloat {
	return NullFloat{}
}

// Map applies fn to a defined value and leaves an undefined one alone.
func (n NullFloat) Map(fn func(float64) float64) NullFloat {
	if !n.Valid {
		return n
	}
	return Defined(fn(n.Float64))
}

// MarshalJSON encodes an undefined value as null.
func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Float64)
}

// UnmarshalJSON decodes null as undefined.
func (n *NullFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = NullFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Defined(v)
	return nil
}
