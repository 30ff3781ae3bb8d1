package scoring

import (
	"encoding/json"
	"fmt"
	"math"
)

// Metric is a derived value that may be undefined because its inputs were.
type Metric struct {
	Value   float64
	Defined bool
}

// DefinedMetric wraps v as a defined metric.
func DefinedMetric(v float64) Metric {
	return Metric{Value: v, Defined: true}
}

// Undefined returns an undefined metric.
func Undefined() Metric {
	return Metric{}
}

// ratio returns num/den, undefined when den is zero.
func ratio(num, den float64) Metric {
	if den == 0 {
		return Undefined()
	}
	return DefinedMetric(num / den)
}

// Err returns ErrUndefinedMetric for an undefined metric.
func (m Metric) Err() error {
	if !m.Defined {
		return ErrUndefinedMetric
	}
	return nil
}

// Format renders the value with two decimals, or "n/a".
func (m Metric) Format() string {
	if !m.Defined {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", m.Value)
}

func (m Metric) String() string { return m.Format() }

// MarshalJSON encodes an undefined metric as null.
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Defined || math.IsNaN(m.Value) || math.IsInf(m.Value, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON decodes null as undefined.
func (m *Metric) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*m = Undefined()
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*m = DefinedMetric(v)
	return nil
}
