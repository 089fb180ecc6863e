package datasource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/cuanbot-engine/internal/logger"
	"github.com/rxtech-lab/cuanbot-engine/internal/types"
	"github.com/rxtech-lab/cuanbot-engine/mocks"
	"github.com/rxtech-lab/cuanbot-engine/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type DuckDBSourceTestSuite struct {
	suite.Suite
	source *DuckDBSource
	bars   map[string][]types.Bar
}

func TestDuckDBSourceSuite(t *testing.T) {
	suite.Run(t, new(DuckDBSourceTestSuite))
}

func (suite *DuckDBSourceTestSuite) SetupTest() {
	config := mocks.DefaultConfig()
	config.Count = 50
	suite.bars = mocks.NewDataGenerator(3).GenerateMultiSymbol([]string{"BBCA.JK", "TLKM.JK"}, config)

	var sb strings.Builder
	sb.WriteString("time,symbol,open,high,low,close,volume\n")

	// TLKM first so ordering comes from the query
	for _, symbol := range []string{"TLKM.JK", "BBCA.JK"} {
		bars := suite.bars[symbol]
		for i := len(bars) - 1; i >= 0; i-- {
			bar := bars[i]
			fmt.Fprintf(&sb, "%s,%s,%.4f,%.4f,%.4f,%.4f,%.0f\n",
				bar.Time.Format("2006-01-02 15:04:05"), symbol, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)
		}
	}

	path := filepath.Join(suite.T().TempDir(), "bars.csv")
	suite.Require().NoError(os.WriteFile(path, []byte(sb.String()), 0o600))

	source, err := NewDuckDBSource(logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.Require().NoError(source.Initialize(path))

	suite.source = source
}

func (suite *DuckDBSourceTestSuite) TearDownTest() {
	suite.NoError(suite.source.Close())
}

func (suite *DuckDBSourceTestSuite) TestBars() {
	bars, err := suite.source.Bars(context.Background(), "BBCA.JK")
	suite.Require().NoError(err)

	expected := suite.bars["BBCA.JK"]
	suite.Require().Len(bars, len(expected))
	suite.NoError(types.ValidateBars(bars))

	for i := range bars {
		suite.True(expected[i].Time.Equal(bars[i].Time))
		suite.InDelta(expected[i].Close, bars[i].Close, 1e-4)
		suite.InDelta(expected[i].Volume, bars[i].Volume, 1)
	}
}

func (suite *DuckDBSourceTestSuite) TestRange() {
	expected := suite.bars["TLKM.JK"]
	start := expected[10].Time
	end := expected[19].Time

	bars, err := suite.source.Range(context.Background(), "TLKM.JK", optional.Some(start), optional.Some(end))
	suite.Require().NoError(err)
	suite.Require().Len(bars, 10)
	suite.True(bars[0].Time.Equal(start))
	suite.True(bars[9].Time.Equal(end))

	bars, err = suite.source.Range(context.Background(), "TLKM.JK", optional.Some(start), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Len(bars, len(expected)-10)
}

func (suite *DuckDBSourceTestSuite) TestUnknownSymbol() {
	_, err := suite.source.Bars(context.Background(), "ZZZZ.JK")
	suite.True(errors.HasCode(err, errors.ErrCodeDataNotFound))
}

func (suite *DuckDBSourceTestSuite) TestSymbolsAndCount() {
	symbols, err := suite.source.Symbols(context.Background())
	suite.Require().NoError(err)
	suite.Equal([]string{"BBCA.JK", "TLKM.JK"}, symbols)

	count, err := suite.source.Count(context.Background(), "TLKM.JK")
	suite.Require().NoError(err)
	suite.Equal(50, count)
}

func (suite *DuckDBSourceTestSuite) TestInitializeMissingFile() {
	source, err := NewDuckDBSource(logger.NewNopLogger())
	suite.Require().NoError(err)
	defer source.Close()

	err = source.Initialize(filepath.Join(suite.T().TempDir(), "missing.parquet"))
	suite.True(errors.HasCode(err, errors.ErrCodeDataSourceUnavailable))
}

type FundamentalsFileTestSuite struct {
	suite.Suite
}

func TestFundamentalsFileSuite(t *testing.T) {
	suite.Run(t, new(FundamentalsFileTestSuite))
}

func (suite *FundamentalsFileTestSuite) TestLoad() {
	path := filepath.Join(suite.T().TempDir(), "fundamentals.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte(`
BBCA.JK:
  pe: 24.1
  pbv: 4.6
  market_cap: 1.2e15
  sector: Banking
GOTO.JK:
  pe: -12.5
  sector: Technology
`), 0o600))

	file, err := LoadFundamentals(path)
	suite.Require().NoError(err)
	suite.Equal([]string{"BBCA.JK", "GOTO.JK"}, file.Symbols())

	bbca, err := file.Fundamentals(context.Background(), "BBCA.JK")
	suite.Require().NoError(err)
	suite.Require().NotNil(bbca.PE)
	suite.Equal(24.1, *bbca.PE)
	suite.Equal(4.6, *bbca.PBV)
	suite.Equal("Banking", bbca.Sector)

	tech, err := file.Fundamentals(context.Background(), "GOTO.JK")
	suite.Require().NoError(err)
	suite.Equal(-12.5, *tech.PE)
	suite.Nil(tech.PBV)

	_, err = file.Fundamentals(context.Background(), "TLKM.JK")
	suite.True(errors.HasCode(err, errors.ErrCodeDataNotFound))
}

func (suite *FundamentalsFileTestSuite) TestLoadErrors() {
	_, err := LoadFundamentals(filepath.Join(suite.T().TempDir(), "missing.yaml"))
	suite.True(errors.HasCode(err, errors.ErrCodeDataSourceUnavailable))

	path := filepath.Join(suite.T().TempDir(), "broken.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte("BBCA.JK: [1, 2"), 0o600))

	_, err = LoadFundamentals(path)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}
