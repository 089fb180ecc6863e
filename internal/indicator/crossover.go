package indicator

import "github.com/moznion/go-optional"

type Cross string

const (
	CrossNone   Cross = "NONE"
	CrossGolden Cross = "GOLDEN"
	CrossDeath  Cross = "DEATH"
)

// SignChange classifies the move of a value across zero between two consecutive bars.
// Golden is prev <= 0 to curr > 0, death is prev >= 0 to curr < 0.
func SignChange(prev, curr optional.Option[float64]) Cross {
	if prev.IsNone() || curr.IsNone() {
		return CrossNone
	}

	p, c := prev.Unwrap(), curr.Unwrap()

	switch {
	case p <= 0 && c > 0:
		return CrossGolden
	case p >= 0 && c < 0:
		return CrossDeath
	default:
		return CrossNone
	}
}

// CrossAt classifies the crossing of short over long between two consecutive bars.
func CrossAt(prevShort, prevLong, short, long optional.Option[float64]) Cross {
	return SignChange(difference(prevShort, prevLong), difference(short, long))
}

func difference(a, b optional.Option[float64]) optional.Option[float64] {
	if a.IsNone() || b.IsNone() {
		return optional.None[float64]()
	}

	return optional.Some(a.Unwrap() - b.Unwrap())
}
