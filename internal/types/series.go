package types

import "github.com/moznion/go-optional"

// Series is an indicator output aligned to a bar sequence.
// Values[k] belongs to bar Offset+k; bars before Offset have no value.
type Series struct {
	Offset int       `json:"offset"`
	Values []float64 `json:"values"`
}

// At returns the value for bar i, or None if the bar has no value.
func (s Series) At(i int) optional.Option[float64] {
	k := i - s.Offset
	if k < 0 || k >= len(s.Values) {
		return optional.None[float64]()
	}

	return optional.Some(s.Values[k])
}

// Len is the number of bars the series spans, including the leading bars without value.
func (s Series) Len() int {
	return s.Offset + len(s.Values)
}

// Last returns the value of the final bar.
func (s Series) Last() optional.Option[float64] {
	return s.At(s.Len() - 1)
}
