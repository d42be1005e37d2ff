package aggregate

import "encoding/json"

// Metric is a derived statistic that may be undefined: a shooting percentage
// with zero attempts, or a per-game figure with no games behind it. Undefined
// is distinct from a true numeric 0 and marshals as JSON null so consumers
// render a placeholder instead of "0".
type Metric struct {
	Value float64
	Valid bool
}

// DefinedMetric wraps a computed value.
func DefinedMetric(v float64) Metric {
	return Metric{Value: v, Valid: true}
}

// Ratio divides made by attempted, undefined when attempted is 0.
func Ratio(made, attempted float64) Metric {
	if attempted == 0 {
		return Metric{}
	}
	return DefinedMetric(made / attempted)
}

func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

func (m *Metric) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Metric{}
		return nil
	}
	m.Valid = true
	return json.Unmarshal(data, &m.Value)
}

// Or returns the value, or fallback when the metric is undefined. Sort keys
// use this so undefined sorts below every real value.
func (m Metric) Or(fallback float64) float64 {
	if !m.Valid {
		return fallback
	}
	return m.Value
}
