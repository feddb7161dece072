package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Velocidex/ordereddict"

	"github.com/vsinha/pharmadash/pkg/domain/repositories"
	"github.com/vsinha/pharmadash/pkg/domain/table"
)

// Loader reads dashboard tables from <dir>/<table>.csv
type Loader struct {
	dir string
}

// NewLoader creates a new CSV loader rooted at dir
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Verify interface compliance
var _ repositories.Fetcher = (*Loader)(nil)

// Source names the backend
func (l *Loader) Source() string {
	return "csv"
}

// Fetch reads every row of the named table
func (l *Loader) Fetch(ctx context.Context, name string) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l.ReadTable(name, filepath.Join(l.dir, name+".csv"))
}

// ReadTable reads a CSV file with a header row into a table
func (l *Loader) ReadTable(name, filename string) (*table.Table, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", name, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", name, err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("%s CSV must have a header row", name)
	}

	header := normalizeHeader(records[0])
	result := table.New(name, header...)
	for i, record := range records[1:] {
		if len(record) != len(header) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", name, i+2, len(header), len(record))
		}

		row := ordereddict.NewDict()
		for j, col := range header {
			row.Set(col, record[j])
		}
		result.Rows = append(result.Rows, row)
	}

	return result, nil
}

// Helper functions for parsing CSV records

func normalizeHeader(header []string) []string {
	result := make([]string, len(header))
	for i, col := range header {
		result[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
	}
	return result
}
