package types

import (
	"testing"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
)

type SeriesTestSuite struct {
	suite.Suite
}

func TestSeriesSuite(t *testing.T) {
	suite.Run(t, new(SeriesTestSuite))
}

func (suite *SeriesTestSuite) TestAt() {
	series := Series{Offset: 2, Values: []float64{10, 11, 12}}

	tests := []struct {
		name     string
		index    int
		expected optional.Option[float64]
	}{
		{"before offset", 0, optional.None[float64]()},
		{"last warmup bar", 1, optional.None[float64]()},
		{"first value", 2, optional.Some(10.0)},
		{"last value", 4, optional.Some(12.0)},
		{"past the end", 5, optional.None[float64]()},
		{"negative index", -1, optional.None[float64]()},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.expected, series.At(tc.index))
		})
	}
}

func (suite *SeriesTestSuite) TestLenAndLast() {
	series := Series{Offset: 3, Values: []float64{1, 2}}
	suite.Equal(5, series.Len())
	suite.Equal(optional.Some(2.0), series.Last())

	suite.True(Series{}.Last().IsNone())
}
