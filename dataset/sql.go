package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-sql-driver/mysql"

	"github.com/spektr-org/sleeplens/schema"
)

// ============================================================================
// SQL LOADER — Same dataset read from a MySQL table
// ============================================================================
// Rows are pulled as text, NULL becomes a missing token, and the result goes
// through the same DataFrame path as the CSV loader.
// ============================================================================

var tableNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// OpenMySQL opens and pings a pooled MySQL connection.
func OpenMySQL(ctx context.Context, dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

// LoadSQL reads every row of table and normalizes it.
func LoadSQL(ctx context.Context, db *sql.DB, table string, opts ...LoadOption) (*Table, error) {
	if !tableNameRegex.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM `%s`", table))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	var cells [][]string
	for rows.Next() {
		raw := make([]sql.NullString, len(header))
		dest := make([]any, len(raw))
		for i := range raw {
			dest[i] = &raw[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(cells)+1, err)
		}
		cells = append(cells, nullsToCells(raw))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return loadRecords(header, cells, applyLoadOptions(opts))
}

func nullsToCells(raw []sql.NullString) []string {
	row := make([]string, len(raw))
	for i, v := range raw {
		if v.Valid {
			row[i] = v.String
		} else {
			row[i] = missingTokens[1]
		}
	}
	return row
}

func loadRecords(header []string, cells [][]string, s *loadSettings) (*Table, error) {
	if len(cells) == 0 {
		if err := schema.SleepHealth().ValidateHeaders(header); err != nil {
			return nil, err
		}
		return nil, ErrEmptyDataset
	}

	records := append([][]string{header}, cells...)
	df := dataframe.LoadRecords(records, gotaOptions()...)
	if df.Err != nil {
		return nil, fmt.Errorf("load rows: %w", df.Err)
	}
	return fromDataFrame(df, s)
}
