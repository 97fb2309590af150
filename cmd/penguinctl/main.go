package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"penguinexplorer/adapters/dataset"
	"penguinexplorer/app"
	"penguinexplorer/domain/penguin"
	"penguinexplorer/internal"
	"penguinexplorer/internal/config"
	"penguinexplorer/internal/container"
	"penguinexplorer/internal/errors"
	"penguinexplorer/internal/export"
	"penguinexplorer/internal/profiling"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cliOptions are the flags shared by every subcommand
type cliOptions struct {
	dataFile string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:           "penguinctl",
		Short:         "Penguin Explorer dashboard and dataset tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// .env is optional; the environment wins over it
			_ = godotenv.Load()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.dataFile, "data", "", "Dataset file (.csv or .xlsx); defaults to DATA_FILE")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "ERROR, WARN, INFO, DEBUG or TRACE; defaults to LOG_LEVEL")

	rootCmd.AddCommand(
		newServeCmd(opts),
		newSummaryCmd(opts),
		newFilterCmd(opts),
	)
	return rootCmd
}

// loadConfig applies the flag overrides on top of the environment
func (o *cliOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.dataFile != "" {
		cfg.Data.File = o.dataFile
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	return cfg, nil
}

func (o *cliOptions) logger(cfg *config.Config, w io.Writer) *internal.Logger {
	return internal.NewLoggerTo(w, internal.ParseLogLevel(cfg.Log.Level))
}

func newServeCmd(opts *cliOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard web server",
		Long: `Run the dashboard and, unless OPS_ENABLED=false, the ops listener with
/metrics, /healthz and /debug/pprof.

Example: penguinctl serve --data penguins_size.csv --port 8501`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}
			gin.SetMode(cfg.Server.GinMode)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c, err := container.New(cfg, opts.logger(cfg, cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			if err := c.Init(ctx); err != nil {
				return err
			}
			return c.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Dashboard port; defaults to PORT")
	return cmd
}

func newSummaryCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Load and clean the dataset, then describe it",
		Long: `Load the dataset the way the dashboard does, filling missing body mass
with the median, and print what was loaded.

Example: penguinctl summary --data penguins_size.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			return runSummary(cmd.Context(), cmd.OutOrStdout(), cfg.Data.File, opts.logger(cfg, cmd.ErrOrStderr()))
		},
	}
}

// filterFlags mirror the three dashboard widgets
type filterFlags struct {
	species string
	islands []string
	massMin float64
	massMax float64
	format  string
	output  string
}

func newFilterCmd(opts *cliOptions) *cobra.Command {
	flags := &filterFlags{}

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Print the filtered table the dashboard would show",
		Long: `Apply the species, island and body mass filters and print the result.
Unset filters take the dashboard defaults: the first species, every island
and the full body mass range.

Example: penguinctl filter --species Gentoo --mass-min 3000 --mass-max 6300 --format csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			logger := opts.logger(cfg, cmd.ErrOrStderr())

			ds, err := dataset.NewSource(cfg.Data.File, logger, nil).Load(cmd.Context())
			if err != nil {
				return err
			}

			sel := penguin.DefaultSelection(ds)
			if cmd.Flags().Changed("species") {
				sel.Species = flags.species
			}
			if cmd.Flags().Changed("mass-min") {
				sel.MassMin = flags.massMin
			}
			if cmd.Flags().Changed("mass-max") {
				sel.MassMax = flags.massMax
			}
			sel = penguin.NewSelection(sel.Species, flags.islands, sel.MassMin, sel.MassMax)

			return runFilter(cmd.OutOrStdout(), flags.output, app.NewDashboardService(ds, logger, nil), sel, flags.format)
		},
	}

	cmd.Flags().StringVar(&flags.species, "species", "", "Species to show")
	cmd.Flags().StringArrayVar(&flags.islands, "island", nil, "Island to include; repeat for several, omit for all")
	cmd.Flags().Float64Var(&flags.massMin, "mass-min", 0, "Lowest body mass in grams, inclusive")
	cmd.Flags().Float64Var(&flags.massMax, "mass-max", 0, "Highest body mass in grams, inclusive")
	cmd.Flags().StringVar(&flags.format, "format", "table", "Output format: table, csv or xlsx")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func runSummary(ctx context.Context, w io.Writer, path string, logger *internal.Logger) error {
	source := dataset.NewSource(path, logger, nil)
	ds, err := source.Load(ctx)
	if err != nil {
		return err
	}
	report := source.Report()
	min, max := ds.MassBounds()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "File:\t%s\n", path)
	fmt.Fprintf(tw, "Records:\t%d\n", ds.Len())
	fmt.Fprintf(tw, "Missing body mass:\t%d\n", report.MissingBodyMass)
	if report.MissingBodyMass > 0 {
		fmt.Fprintf(tw, "Filled with median:\t%g g\n", report.BodyMassMedian)
	}
	if !math.IsNaN(min) {
		fmt.Fprintf(tw, "Body mass range:\t%g to %g g\n", min, max)
	}
	fmt.Fprintf(tw, "Islands:\t%s\n", strings.Join(ds.Islands(), ", "))
	fmt.Fprintln(tw, "\t")

	counts := make(map[string]int)
	for _, r := range ds.Records() {
		counts[r.Species]++
	}
	fmt.Fprintln(tw, "SPECIES\tRECORDS")
	for _, species := range ds.Species() {
		fmt.Fprintf(tw, "%s\t%d\n", species, counts[species])
	}
	fmt.Fprintln(tw, "\t")

	fmt.Fprintln(tw, "COLUMN\tCOUNT\tMISSING\tMEAN\tSTD\tMIN\tMEDIAN\tMAX")
	for _, p := range profiling.Describe(ds.Records()) {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f\t%.2f\t%g\t%g\t%g\n",
			p.Column, p.Count, p.Missing, p.Mean, p.StdDev, p.Min, p.Median, p.Max)
	}
	return tw.Flush()
}

type viewWriter func(io.Writer, penguin.FilteredView) error

func formatWriter(format string) (viewWriter, error) {
	switch format {
	case "csv":
		return export.WriteCSV, nil
	case "xlsx":
		return export.WriteXLSX, nil
	case "table":
		return writeTable, nil
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unknown format %q, want table, csv or xlsx", format))
	}
}

// runFilter writes the filtered view to output, or to stdout when output is
// empty. The format and selection are checked before any file is touched.
func runFilter(stdout io.Writer, output string, svc *app.DashboardService, sel penguin.Selection, format string) error {
	write, err := formatWriter(format)
	if err != nil {
		return err
	}
	view, err := svc.View(sel)
	if err != nil {
		return err
	}
	if output == "" {
		return write(stdout, view)
	}
	return writeFile(output, view, write)
}

// writeFile only creates path once the view is ready, and reports a failed
// close since that is where buffered writes surface.
func writeFile(path string, view penguin.FilteredView, write viewWriter) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "failed to close %s", path)
		}
	}()
	return write(f, view)
}

func writeTable(w io.Writer, view penguin.FilteredView) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, view.Summary)
	fmt.Fprintln(tw, strings.Join(penguin.TableColumns, "\t"))
	for _, r := range view.Records {
		row := export.Row(r)
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = export.FormatCell(v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	fmt.Fprintf(tw, "Total records: %d\n", view.Count)
	return tw.Flush()
}
