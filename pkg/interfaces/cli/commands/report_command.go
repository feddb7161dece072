package commands

import (
	"context"
	"fmt"

	"github.com/vsinha/pharmadash/pkg/interfaces/cli/output"
)

// ReportCommand prints the dashboard aggregates
type ReportCommand struct {
	env       *Env
	product   string
	format    string
	outputDir string
	verbose   bool
}

// NewReportCommand creates a report command for the given product selection.
// verbose lists every file written to outputDir.
func NewReportCommand(env *Env, product, format, outputDir string, verbose bool) *ReportCommand {
	return &ReportCommand{env: env, product: product, format: format, outputDir: outputDir, verbose: verbose}
}

// Execute runs one render and writes it in the requested format
func (c *ReportCommand) Execute(ctx context.Context) error {
	dashboard, closeFn, err := c.env.Dashboard()
	if err != nil {
		return err
	}
	defer closeFn()

	overview, view, err := dashboard.Dashboard(ctx, c.product)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	return output.Generate(&output.Report{Overview: overview, Product: view}, output.Config{
		Format:    c.format,
		OutputDir: c.outputDir,
		Verbose:   c.verbose,
		Out:       c.env.out(),
	})
}
