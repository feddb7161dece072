// Package sqlstore reads whole tables over database/sql. The postgres driver
// talks directly to the database behind a Supabase project; mysql and
// sqlite3 serve self-hosted copies.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Velocidex/ordereddict"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vsinha/pharmadash/pkg/domain/repositories"
	"github.com/vsinha/pharmadash/pkg/domain/table"
)

// Supported driver names
const (
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite3"
)

// Store runs "select all rows" queries against one database
type Store struct {
	db     *sql.DB
	driver string
}

// Verify interface compliance
var _ repositories.Fetcher = (*Store)(nil)

// Open connects to the database described by dsn
func Open(driver, dsn string) (*Store, error) {
	switch driver {
	case Postgres, MySQL, SQLite:
	default:
		return nil, errors.Errorf("sqlstore: unsupported driver %s", driver)
	}
	if dsn == "" {
		return nil, errors.Errorf("sqlstore: dsn required for %s driver", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "sqlstore: open %s", driver)
	}
	if driver == MySQL {
		// Important settings according to mysql driver README
		db.SetConnMaxLifetime(time.Minute * 3)
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
	}
	return NewStore(db, driver), nil
}

// NewStore wraps an existing connection pool
func NewStore(db *sql.DB, driver string) *Store {
	return &Store{db: db, driver: driver}
}

// Source names the backend
func (s *Store) Source() string {
	return s.driver
}

// Close releases the connection pool
func (s *Store) Close() error {
	return s.db.Close()
}

// Fetch selects every row of the named table
func (s *Store) Fetch(ctx context.Context, name string) (*table.Table, error) {
	if !table.ValidName(name) {
		return nil, errors.Errorf("sqlstore: invalid table name %q", name)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT * FROM "+s.quote(name))
	if err != nil {
		return nil, errors.Wrapf(err, "sqlstore: query %s", name)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrapf(err, "sqlstore: columns of %s", name)
	}

	result := table.New(name, columns...)
	for rows.Next() {
		rowValues := make([]interface{}, len(columns))
		rowPointers := make([]interface{}, len(columns))
		for i := range columns {
			rowPointers[i] = &rowValues[i]
		}

		if err := rows.Scan(rowPointers...); err != nil {
			return nil, errors.Wrapf(err, "sqlstore: scan %s", name)
		}

		row := ordereddict.NewDict()
		for i, column := range columns {
			value := rowValues[i]
			// Special case raw []bytes to be strings.
			if b, ok := value.([]byte); ok {
				value = string(b)
			}
			row.Set(column, value)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "sqlstore: read %s", name)
	}

	return result, nil
}

func (s *Store) quote(name string) string {
	if s.driver == MySQL {
		return fmt.Sprintf("`%s`", name)
	}
	return fmt.Sprintf(`"%s"`, name)
}
