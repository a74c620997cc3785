package writer

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/rxtech-lab/index-history/internal/logger"
	"github.com/rxtech-lab/index-history/internal/types"
)

const priceTableName = "prices"

// DuckDBWriter stages bars in an in-memory DuckDB table and exports them as Parquet.
type DuckDBWriter struct {
	db         *sql.DB
	tx         *sql.Tx
	stmt       *sql.Stmt
	schema     types.Schema
	outputPath string // Path of the final Parquet file
	log        *logger.Logger
}

// NewDuckDBWriter creates a new DuckDBWriter.
// outputPath specifies where the final Parquet file will be saved.
func NewDuckDBWriter(outputPath string, log *logger.Logger) MarketDataWriter {
	return &DuckDBWriter{
		outputPath: outputPath,
		log:        log,
	}
}

// sqlColumnName maps a table column to its Parquet column name.
func sqlColumnName(column types.Column) string {
	return strings.ToLower(strings.ReplaceAll(string(column), " ", "_"))
}

func sqlColumnType(column types.Column) string {
	if column == types.ColumnVolume {
		return "BIGINT"
	}

	return "DOUBLE"
}

// Initialize opens an in-memory database, creates the price table for schema,
// begins a transaction, and prepares the insert statement.
func (w *DuckDBWriter) Initialize(schema types.Schema) (err error) {
	w.db, err = sql.Open("duckdb", ":memory:")
	if err != nil {
		return fmt.Errorf("failed to open DuckDB connection: %w", err)
	}

	definitions := []string{"id TEXT", "ticker TEXT", "time TIMESTAMPTZ"}
	columns := []string{"id", "ticker", "time"}

	for _, column := range schema.Columns {
		definitions = append(definitions, sqlColumnName(column)+" "+sqlColumnType(column))
		columns = append(columns, sqlColumnName(column))
	}

	_, err = w.db.Exec(fmt.Sprintf("CREATE TABLE %s (%s)", priceTableName, strings.Join(definitions, ", ")))
	if err != nil {
		w.db.Close()
		w.db = nil

		return fmt.Errorf("failed to create table: %w", err)
	}

	placeholders := make([]any, len(columns))

	insertSQL, _, err := sq.Insert(priceTableName).Columns(columns...).Values(placeholders...).ToSql()
	if err != nil {
		w.db.Close()
		w.db = nil

		return fmt.Errorf("failed to build insert statement: %w", err)
	}

	w.tx, err = w.db.Begin()
	if err != nil {
		w.db.Close()
		w.db = nil

		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	w.stmt, err = w.tx.Prepare(insertSQL)
	if err != nil {
		w.tx.Rollback()
		w.db.Close()
		w.tx = nil
		w.db = nil

		return fmt.Errorf("failed to prepare statement: %w", err)
	}

	w.schema = schema

	return nil
}

// Write inserts a single bar using the prepared statement within the transaction.
func (w *DuckDBWriter) Write(bar types.Bar) error {
	if w.stmt == nil {
		return fmt.Errorf("writer not initialized or statement is nil")
	}

	args := make([]any, 0, len(w.schema.Columns)+3)
	args = append(args, uuid.New().String(), w.schema.Ticker, bar.Time)

	for _, column := range w.schema.Columns {
		switch column {
		case types.ColumnOpen:
			args = append(args, bar.Open.InexactFloat64())
		case types.ColumnHigh:
			args = append(args, bar.High.InexactFloat64())
		case types.ColumnLow:
			args = append(args, bar.Low.InexactFloat64())
		case types.ColumnClose:
			args = append(args, bar.Close.InexactFloat64())
		case types.ColumnAdjClose:
			args = append(args, bar.AdjClose.InexactFloat64())
		case types.ColumnVolume:
			args = append(args, bar.Volume)
		}
	}

	if _, err := w.stmt.Exec(args...); err != nil {
		// Don't rollback here, let Finalize or Close handle it
		return fmt.Errorf("failed to insert data: %w", err)
	}

	return nil
}

// Finalize commits the transaction and exports the data ordered by time to a
// temporary Parquet file next to the output, then renames it into place.
func (w *DuckDBWriter) Finalize() (outputPath string, err error) {
	if w.tx == nil {
		return "", fmt.Errorf("writer not initialized or transaction is nil")
	}

	if err = w.tx.Commit(); err != nil {
		w.tx.Rollback()
		w.tx = nil

		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	w.tx = nil

	tempPath := filepath.Join(filepath.Dir(w.outputPath), "."+filepath.Base(w.outputPath)+"."+uuid.NewString()+".tmp")
	escapedPath := strings.ReplaceAll(tempPath, "'", "''")

	_, err = w.db.Exec(fmt.Sprintf(`COPY (SELECT * FROM %s ORDER BY time) TO '%s' (FORMAT PARQUET)`, priceTableName, escapedPath))
	if err != nil {
		_ = os.Remove(tempPath)

		return "", fmt.Errorf("failed to export to Parquet: %w", err)
	}

	if err = os.Rename(tempPath, w.outputPath); err != nil {
		_ = os.Remove(tempPath)

		return "", fmt.Errorf("failed to move %s to %s: %w", tempPath, w.outputPath, err)
	}

	w.log.Debug("Exported Parquet file", zap.String("path", w.outputPath))

	return w.outputPath, nil
}

// Close cleans up the statement, any open transaction and the database connection.
func (w *DuckDBWriter) Close() error {
	var closeErrors []error

	if w.stmt != nil {
		if err := w.stmt.Close(); err != nil {
			closeErrors = append(closeErrors, fmt.Errorf("failed to close statement: %w", err))
		}

		w.stmt = nil
	}

	// If transaction is still active (e.g., Finalize wasn't called or failed), rollback
	if w.tx != nil {
		if err := w.tx.Rollback(); err != nil {
			w.log.Warn("Failed to rollback transaction during close", zap.Error(err))
		}

		w.tx = nil
	}

	if w.db != nil {
		if err := w.db.Close(); err != nil {
			closeErrors = append(closeErrors, fmt.Errorf("failed to close db connection: %w", err))
		}

		w.db = nil
	}

	if len(closeErrors) > 0 {
		errMsg := "errors occurred during close:"
		for _, e := range closeErrors {
			errMsg += fmt.Sprintf("\n- %v", e)
		}

		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (w *DuckDBWriter) GetOutputPath() string {
	return w.outputPath
}
