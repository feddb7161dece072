package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/pharmadash/pkg/domain/entities"
)

// ExpiryPoint is one batch plotted on an expiry timeline
type ExpiryPoint struct {
	ProductID   string               `json:"product_id"`
	Label       string               `json:"label"`
	BatchNumber entities.BatchNumber `json:"batch_number"`
	Product     string               `json:"product"`
	ExpiryDate  time.Time            `json:"expiry_date"`
	Quantity    entities.Quantity    `json:"quantity"`
}

// TimeToMarket is the mean receipt-to-release delay of one product
type TimeToMarket struct {
	Product     string          `json:"product"`
	AverageDays decimal.Decimal `json:"average_time_to_market_days"`
	Batches     int             `json:"batches"`
}

// QuantityTotal is the summed quantity of one group. ProductID is empty when
// grouping by label only.
type QuantityTotal struct {
	ProductID     string            `json:"product_id,omitempty"`
	Label         string            `json:"label"`
	TotalQuantity entities.Quantity `json:"total_quantity"`
}

// Overview contains the unfiltered result sets of the first tab
type Overview struct {
	GeneratedAt   time.Time       `json:"generated_at"`
	ExpiryCutoff  time.Time       `json:"expiry_cutoff"`
	Expiring      []ExpiryPoint   `json:"expiring"`
	TimeToMarket  []TimeToMarket  `json:"time_to_market"`
	TopQuantities []QuantityTotal `json:"top_quantities"`
	ItemCount     int             `json:"item_count"`
	BatchCount    int             `json:"batch_count"`
}

// ProductView contains the result sets of the second tab for one selection
type ProductView struct {
	Product         string          `json:"product"`
	Products        []string        `json:"products"`
	Expiry          []ExpiryPoint   `json:"expiry"`
	LabelQuantities []QuantityTotal `json:"label_quantities"`
}

// Notes are optional captions shown under the dashboard section headers
type Notes struct {
	Expiry          string `yaml:"expiry" json:"expiry,omitempty"`
	TimeToMarket    string `yaml:"time_to_market" json:"time_to_market,omitempty"`
	TopQuantities   string `yaml:"top_quantities" json:"top_quantities,omitempty"`
	ProductExpiry   string `yaml:"product_expiry" json:"product_expiry,omitempty"`
	LabelQuantities string `yaml:"label_quantities" json:"label_quantities,omitempty"`
}
