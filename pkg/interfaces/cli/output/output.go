package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/vsinha/pharmadash/pkg/application/dto"
	"github.com/vsinha/pharmadash/pkg/interfaces/charts"
)

const dateFormat = "2006-01-02"

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	// Out receives text and JSON output, os.Stdout when nil
	Out io.Writer
}

func (c Config) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Report is one render of both dashboard tabs
type Report struct {
	Overview *dto.Overview    `json:"overview"`
	Product  *dto.ProductView `json:"product"`
}

// Generate writes the report in the configured format
func Generate(report *Report, config Config) error {
	switch config.Format {
	case "", "text":
		return generateTextOutput(report, config)
	case "json":
		return generateJSONOutput(report, config)
	case "csv":
		return generateCSVOutput(report, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

func newTable(out io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	return table
}

// generateTextOutput prints every result set as a table
func generateTextOutput(report *Report, config Config) error {
	out := config.out()
	overview, view := report.Overview, report.Product

	fmt.Fprintf(out, "Simple Pharma Analysis\n")
	fmt.Fprintf(out, "======================\n\n")
	fmt.Fprintf(out, "Items: %s\n", humanize.Comma(int64(overview.ItemCount)))
	fmt.Fprintf(out, "Batches: %s\n", humanize.Comma(int64(overview.BatchCount)))
	fmt.Fprintf(out, "Generated: %s\n\n", overview.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	fmt.Fprintf(out, "Item Expiry Dates (until %s)\n", overview.ExpiryCutoff.Format(dateFormat))
	expiryTable(out, overview.Expiring)

	fmt.Fprintf(out, "\nAverage Time to Market by Product\n")
	table := newTable(out, "Product", "Average Days", "Batches")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})
	for _, row := range overview.TimeToMarket {
		table.Append([]string{row.Product, row.AverageDays.StringFixed(1), strconv.Itoa(row.Batches)})
	}
	table.Render()

	fmt.Fprintf(out, "\nTop 10 Products by Total Quantity\n")
	quantityTable(out, overview.TopQuantities, true)

	if view != nil {
		fmt.Fprintf(out, "\nProduct View: %s\n", view.Product)
		expiryTable(out, view.Expiry)

		fmt.Fprintf(out, "\nTop Labels by Quantity\n")
		quantityTable(out, view.LabelQuantities, false)
	}

	return nil
}

func expiryTable(out io.Writer, points []dto.ExpiryPoint) {
	table := newTable(out, "Expiry Date", "Batch", "Product", "Label", "Quantity")
	for _, p := range points {
		table.Append([]string{
			p.ExpiryDate.Format(dateFormat),
			string(p.BatchNumber),
			p.Product,
			p.Label,
			humanize.Comma(int64(p.Quantity)),
		})
	}
	table.Render()
}

// quantityTable lists totals largest first, the order a reader expects
func quantityTable(out io.Writer, rows []dto.QuantityTotal, withProductID bool) {
	header := []string{"Label", "Total Quantity"}
	if withProductID {
		header = append([]string{"Product ID"}, header...)
	}
	table := newTable(out, header...)
	for i := len(rows) - 1; i >= 0; i-- {
		record := []string{rows[i].Label, humanize.Comma(int64(rows[i].TotalQuantity))}
		if withProductID {
			record = append([]string{rows[i].ProductID}, record...)
		}
		table.Append(record)
	}
	table.Render()
}

// generateJSONOutput creates JSON output
func generateJSONOutput(report *Report, config Config) error {
	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(config.out(), string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "dashboard.json")
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.out(), "JSON results saved to: %s\n", filename)
	}
	return nil
}

// generateCSVOutput writes one file per result set
func generateCSVOutput(report *Report, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	files := map[string][][]string{
		"expiring.csv":       expiryRecords(report.Overview.Expiring),
		"time_to_market.csv": timeToMarketRecords(report.Overview.TimeToMarket),
		"top_quantities.csv": quantityRecords(report.Overview.TopQuantities),
	}
	if report.Product != nil {
		files["product_expiry.csv"] = expiryRecords(report.Product.Expiry)
		files["label_quantities.csv"] = quantityRecords(report.Product.LabelQuantities)
	}

	for name, records := range files {
		filename := filepath.Join(config.OutputDir, name)
		if err := writeCSV(filename, records); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		if config.Verbose {
			fmt.Fprintf(config.out(), "CSV saved to: %s\n", filename)
		}
	}
	return nil
}

func expiryRecords(points []dto.ExpiryPoint) [][]string {
	records := [][]string{{"product_id", "label", "batch_number", "product", "expiry_date", "quantity"}}
	for _, p := range points {
		records = append(records, []string{
			p.ProductID,
			p.Label,
			string(p.BatchNumber),
			p.Product,
			p.ExpiryDate.Format(dateFormat),
			strconv.FormatInt(int64(p.Quantity), 10),
		})
	}
	return records
}

func timeToMarketRecords(rows []dto.TimeToMarket) [][]string {
	records := [][]string{{"product", "average_time_to_market_days", "batches"}}
	for _, row := range rows {
		records = append(records, []string{row.Product, row.AverageDays.String(), strconv.Itoa(row.Batches)})
	}
	return records
}

func quantityRecords(rows []dto.QuantityTotal) [][]string {
	records := [][]string{{"product_id", "label", "total_quantity"}}
	for _, row := range rows {
		records = append(records, []string{row.ProductID, row.Label, strconv.FormatInt(int64(row.TotalQuantity), 10)})
	}
	return records
}

func writeCSV(filename string, records [][]string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(records); err != nil {
		return err
	}
	return file.Close()
}

// WriteCharts renders every figure as dir/<name>.svg and returns the paths
func WriteCharts(figures []*charts.Figure, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make([]string, 0, len(figures))
	for _, fig := range figures {
		filename := filepath.Join(dir, fig.Name+".svg")
		if err := writeSVG(fig, filename); err != nil {
			return paths, fmt.Errorf("failed to export %s: %w", fig.Name, err)
		}
		paths = append(paths, filename)
	}
	return paths, nil
}

func writeSVG(fig *charts.Figure, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := charts.RenderSVG(fig, file); err != nil {
		return err
	}
	return file.Close()
}
