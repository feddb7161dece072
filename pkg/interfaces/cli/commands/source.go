package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/vsinha/pharmadash/pkg/config"
	"github.com/vsinha/pharmadash/pkg/domain/repositories"
	"github.com/vsinha/pharmadash/pkg/infrastructure/logging"
	"github.com/vsinha/pharmadash/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/pharmadash/pkg/infrastructure/repositories/sqlstore"
	"github.com/vsinha/pharmadash/pkg/infrastructure/repositories/supabase"
)

var sqlDrivers = map[string]string{
	config.SourcePostgres: sqlstore.Postgres,
	config.SourceMySQL:    sqlstore.MySQL,
	config.SourceSQLite:   sqlstore.SQLite,
}

func noClose() error { return nil }

// OpenSource builds the table fetcher for source.Kind
func OpenSource(source config.SourceConfig, logger logrus.FieldLogger) (repositories.Fetcher, func() error, error) {
	switch source.Kind {
	case config.SourceSupabase:
		client, err := supabase.NewClient(supabase.Config{
			URL:      source.URL,
			Key:      source.Key,
			Timeout:  source.Timeout,
			RetryMax: source.RetryMax,
		}, logging.Component(logger, "supabase"))
		if err != nil {
			return nil, nil, err
		}
		return client, noClose, nil

	case config.SourcePostgres, config.SourceMySQL, config.SourceSQLite:
		store, err := sqlstore.Open(sqlDrivers[source.Kind], source.DSN)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	case config.SourceCSV:
		return csv.NewLoader(source.DataDir), noClose, nil

	default:
		return nil, nil, fmt.Errorf("unsupported source kind: %q", source.Kind)
	}
}
