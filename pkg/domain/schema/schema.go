// Package schema checks fetched tables against the typed column layout of
// each entity and decodes them.
package schema

import (
	"fmt"
	"time"

	"github.com/vsinha/pharmadash/pkg/domain/entities"
	"github.com/vsinha/pharmadash/pkg/domain/table"
)

// Column describes one typed column of an entity table
type Column struct {
	Name     string
	Kind     Kind
	Nullable bool
}

// Items is the column layout of the items table
var Items = []Column{
	{Name: "id", Kind: Int},
	{Name: "product_id", Kind: String, Nullable: true},
	{Name: "label", Kind: String},
}

// Batches is the column layout of the batches table
var Batches = []Column{
	{Name: "batch_number", Kind: String},
	{Name: "item_id", Kind: Int, Nullable: true},
	{Name: "product", Kind: String},
	{Name: "quantity", Kind: Int},
	{Name: "expiry_date", Kind: Date, Nullable: true},
	{Name: "date_receipt_warehouse", Kind: Date, Nullable: true},
	{Name: "date_in_market_release", Kind: Date, Nullable: true},
}

// Check verifies the table is non-empty and carries every schema column
func Check(t *table.Table, columns []Column) error {
	if t.Len() == 0 {
		return &EmptyTableError{Table: t.Name}
	}
	for _, c := range columns {
		if !t.HasColumn(c.Name) {
			return &MissingColumnError{Table: t.Name, Column: c.Name}
		}
	}
	return nil
}

// record is one row coerced to the schema types
type record map[string]interface{}

func (r record) int(name string) int64 {
	v, _ := r[name].(int64)
	return v
}

func (r record) str(name string) string {
	v, _ := r[name].(string)
	return v
}

func (r record) date(name string) *time.Time {
	v, ok := r[name].(time.Time)
	if !ok {
		return nil
	}
	return &v
}

func decode(t *table.Table, columns []Column, fn func(row int, r record) error) error {
	if err := Check(t, columns); err != nil {
		return err
	}

	for i, row := range t.Rows {
		r := make(record, len(columns))
		for _, c := range columns {
			raw, _ := row.Get(c.Name)
			if isNull(raw) {
				if c.Nullable {
					continue
				}
				return &TypeMismatchError{Table: t.Name, Column: c.Name, Row: i + 1, Value: raw, Want: "non-null " + c.Kind.String()}
			}

			var (
				v  interface{}
				ok bool
			)
			switch c.Kind {
			case Int:
				v, ok = asInt(raw)
			case String:
				v, ok = asString(raw)
			case Date:
				v, ok = asDate(raw)
			}
			if !ok {
				return &TypeMismatchError{Table: t.Name, Column: c.Name, Row: i + 1, Value: raw, Want: c.Kind.String()}
			}
			r[c.Name] = v
		}

		if err := fn(i+1, r); err != nil {
			return fmt.Errorf("table %s row %d: %w", t.Name, i+1, err)
		}
	}
	return nil
}

// DecodeItems decodes the items table
func DecodeItems(t *table.Table) ([]*entities.Item, error) {
	items := make([]*entities.Item, 0, t.Len())
	err := decode(t, Items, func(_ int, r record) error {
		item, err := entities.NewItem(entities.ItemID(r.int("id")), r.str("product_id"), r.str("label"))
		if err != nil {
			return err
		}
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// DecodeBatches decodes the batches table
func DecodeBatches(t *table.Table) ([]*entities.Batch, error) {
	batches := make([]*entities.Batch, 0, t.Len())
	err := decode(t, Batches, func(_ int, r record) error {
		batch, err := entities.NewBatch(
			entities.BatchNumber(r.str("batch_number")),
			entities.ItemID(r.int("item_id")),
			r.str("product"),
			entities.Quantity(r.int("quantity")),
			r.date("expiry_date"),
			r.date("date_receipt_warehouse"),
			r.date("date_in_market_release"),
		)
		if err != nil {
			return err
		}
		batches = append(batches, batch)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return batches, nil
}
