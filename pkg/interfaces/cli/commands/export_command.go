package commands

import (
	"context"
	"fmt"

	"github.com/vsinha/pharmadash/pkg/interfaces/charts"
	"github.com/vsinha/pharmadash/pkg/interfaces/cli/output"
)

// ExportCommand writes every chart of one render as SVG
type ExportCommand struct {
	env     *Env
	product string
	outDir  string
}

// NewExportCommand creates an export command writing into outDir
func NewExportCommand(env *Env, product, outDir string) *ExportCommand {
	return &ExportCommand{env: env, product: product, outDir: outDir}
}

// Execute renders the charts and reports the written files
func (c *ExportCommand) Execute(ctx context.Context) error {
	if c.outDir == "" {
		return fmt.Errorf("output directory required for export")
	}

	dashboard, closeFn, err := c.env.Dashboard()
	if err != nil {
		return err
	}
	defer closeFn()

	overview, view, err := dashboard.Dashboard(ctx, c.product)
	if err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}

	figures := append(charts.Overview(overview), charts.ProductView(view)...)
	paths, err := output.WriteCharts(figures, c.outDir)
	if err != nil {
		return err
	}

	for _, path := range paths {
		fmt.Fprintln(c.env.out(), path)
	}
	c.env.Logger.WithField("charts", len(paths)).Info("exported charts")
	return nil
}
