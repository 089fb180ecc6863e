package writer

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/cuanbot-engine/internal/logger"
	"github.com/rxtech-lab/cuanbot-engine/internal/types"
	"github.com/rxtech-lab/cuanbot-engine/pkg/errors"
	"go.uber.org/zap"
)

const (
	TradesFile = "trades.parquet"
	EquityFile = "equity.parquet"
	StatsFile  = "stats.yaml"

	insertBatchSize = 500
)

// ResultWriter exports backtest results under <dir>/<result id>/.
type ResultWriter struct {
	dir string
	log *logger.Logger
	sq  squirrel.StatementBuilderType
	mu  sync.Mutex
}

func NewResultWriter(dir string, log *logger.Logger) *ResultWriter {
	return &ResultWriter{
		dir: dir,
		log: log.Named("writer"),
		sq:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Write stores the trade log and equity curve as parquet and the scalar
// statistics as stats.yaml. It returns the result directory.
func (w *ResultWriter) Write(result types.BacktestResult) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if result.ID == "" {
		return "", errors.New(errors.ErrCodeInvalidParameter, "result has no id")
	}

	outDir := filepath.Join(w.dir, result.ID)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", errors.Wrapf(errors.ErrCodeBacktestWriteFailed, err, "failed to create %s", outDir)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to open duckdb", err)
	}
	defer db.Close()

	if err := w.writeTrades(db, result, filepath.Join(outDir, TradesFile)); err != nil {
		return "", err
	}

	if err := w.writeEquity(db, result, filepath.Join(outDir, EquityFile)); err != nil {
		return "", err
	}

	if err := types.WriteBacktestStats(filepath.Join(outDir, StatsFile), []types.BacktestResult{result}); err != nil {
		return "", errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to write stats", err)
	}

	w.log.Info("backtest result written",
		zap.String("id", result.ID),
		zap.String("symbol", result.Symbol),
		zap.String("dir", outDir),
		zap.Int("trades", len(result.Trades)),
	)

	return outDir, nil
}

func (w *ResultWriter) writeTrades(db *sql.DB, result types.BacktestResult, path string) error {
	_, err := db.Exec(`
		CREATE TABLE trades (
			backtest_id TEXT,
			symbol TEXT,
			strategy TEXT,
			entry_index INTEGER,
			entry_time TIMESTAMP,
			entry_price DOUBLE,
			exit_index INTEGER,
			exit_time TIMESTAMP,
			exit_price DOUBLE,
			quantity DOUBLE,
			fees DOUBLE,
			pnl DOUBLE,
			pnl_percent DOUBLE,
			holding_bars INTEGER,
			exit_reason TEXT
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to create trades table", err)
	}

	rows := make([][]any, 0, len(result.Trades))
	for _, trade := range result.Trades {
		rows = append(rows, []any{
			result.ID, result.Symbol, string(result.Strategy.ID),
			trade.EntryIndex, trade.EntryTime, trade.EntryPrice,
			trade.ExitIndex, trade.ExitTime, trade.ExitPrice,
			trade.Quantity, trade.Fees, trade.PnL, trade.PnLPercent,
			trade.HoldingBars, string(trade.ExitReason),
		})
	}

	columns := []string{
		"backtest_id", "symbol", "strategy",
		"entry_index", "entry_time", "entry_price",
		"exit_index", "exit_time", "exit_price",
		"quantity", "fees", "pnl", "pnl_percent",
		"holding_bars", "exit_reason",
	}

	if err := w.insert(db, "trades", columns, rows); err != nil {
		return err
	}

	return exportParquet(db, "SELECT * FROM trades ORDER BY entry_index ASC", path)
}

func (w *ResultWriter) writeEquity(db *sql.DB, result types.BacktestResult, path string) error {
	_, err := db.Exec(`
		CREATE TABLE equity (
			backtest_id TEXT,
			time TIMESTAMP,
			equity DOUBLE
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to create equity table", err)
	}

	rows := make([][]any, 0, len(result.EquityCurve))
	for _, point := range result.EquityCurve {
		rows = append(rows, []any{result.ID, point.Time, point.Equity})
	}

	if err := w.insert(db, "equity", []string{"backtest_id", "time", "equity"}, rows); err != nil {
		return err
	}

	return exportParquet(db, "SELECT * FROM equity ORDER BY time ASC", path)
}

func (w *ResultWriter) insert(db *sql.DB, table string, columns []string, rows [][]any) error {
	for start := 0; start < len(rows); start += insertBatchSize {
		end := min(start+insertBatchSize, len(rows))

		builder := w.sq.Insert(table).Columns(columns...)
		for _, row := range rows[start:end] {
			builder = builder.Values(row...)
		}

		query, args, err := builder.ToSql()
		if err != nil {
			return errors.Wrapf(errors.ErrCodeBacktestWriteFailed, err, "failed to build %s insert", table)
		}

		if _, err := db.Exec(query, args...); err != nil {
			return errors.Wrapf(errors.ErrCodeBacktestWriteFailed, err, "failed to insert into %s", table)
		}
	}

	return nil
}

func exportParquet(db *sql.DB, selectQuery, path string) error {
	quoted := strings.ReplaceAll(path, "'", "''")

	_, err := db.Exec(fmt.Sprintf(`COPY (%s) TO '%s' (FORMAT PARQUET)`, selectQuery, quoted))
	if err != nil {
		return errors.Wrapf(errors.ErrCodeBacktestWriteFailed, err, "failed to export %s", path)
	}

	return nil
}
