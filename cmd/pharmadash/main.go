package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"

	"github.com/vsinha/pharmadash/pkg/interfaces/cli/commands"
)

var (
	app = kingpin.New("pharmadash", "Pharma items and batches analytics dashboard.")

	configFile = app.Flag("config", "The configuration file.").Short('c').
			Envar("PHARMADASH_CONFIG").String()
	logLevel = app.Flag("log-level", "Log level (debug, info, warn, error).").String()
	source   = app.Flag("source", "Data source: supabase, postgres, mysql, sqlite or csv.").
			Enum("supabase", "postgres", "mysql", "sqlite", "csv")
	dataDir = app.Flag("data-dir", "Directory of items.csv and batches.csv for the csv source.").String()

	serveCommand = app.Command("serve", "Run the HTTP dashboard.").Default()
	serveListen  = serveCommand.Flag("listen", "Address to listen on.").String()

	reportCommand = app.Command("report", "Print the dashboard aggregates.")
	reportProduct = reportCommand.Flag("product", "Product shown in the product view.").String()
	reportFormat  = reportCommand.Flag("format", "Output format.").Default("text").Enum("text", "json", "csv")
	reportOutput  = reportCommand.Flag("output", "Output directory (required for csv).").String()
	reportVerbose = reportCommand.Flag("verbose", "List the files written to the output directory.").Short('v').Bool()

	exportCommand = app.Command("export", "Write every chart as SVG.")
	exportOut     = exportCommand.Flag("out", "Output directory.").Required().String()
	exportProduct = exportCommand.Flag("product", "Product shown in the product view.").String()
)

func main() {
	app.HelpFlag.Short('h')
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	env, err := commands.NewEnv(commands.GlobalFlags{
		ConfigFile: *configFile,
		LogLevel:   *logLevel,
		Source:     *source,
		DataDir:    *dataDir,
	})
	kingpin.FatalIfError(err, "Unable to start")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch command {
	case serveCommand.FullCommand():
		err = commands.NewServeCommand(env, *serveListen).Execute(ctx)
	case reportCommand.FullCommand():
		err = commands.NewReportCommand(env, *reportProduct, *reportFormat, *reportOutput, *reportVerbose).Execute(ctx)
	case exportCommand.FullCommand():
		err = commands.NewExportCommand(env, *exportProduct, *exportOut).Execute(ctx)
	}
	kingpin.FatalIfError(err, command)
}
