package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Rhymond/go-money"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/app"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/config"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/logging"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/model"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/service"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/version"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/yahoo"
)

// newProvider builds the FX provider; tests replace it.
var newProvider = func() service.RateProvider { return yahoo.NewFinanceClient() }

type rootOptions struct {
	portfolio string
	dataDir   string
	jsonOut   bool
	verbose   bool
}

func newRootCommand(out io.Writer) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:     "allocctl",
		Short:   "Cross-broker allocation reports",
		Version: version.Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	cmd.SetOut(out)

	cmd.PersistentFlags().StringVar(&opts.portfolio, "portfolio", "", "portfolio file (overrides PORTFOLIO_FILE)")
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "document directory (overrides DATA_DIR)")
	cmd.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "print JSON instead of tables")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr")

	cmd.AddCommand(
		newReportCommand(opts),
		newHoldingsCommand(opts),
		newRateCommand(opts),
		newAppendCommand(opts),
	)
	return cmd
}

func (o *rootOptions) build(cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.portfolio != "" {
		cfg.Portfolio.File = o.portfolio
	}
	if o.dataDir != "" {
		cfg.Portfolio.DataDir = o.dataDir
	}

	logger := zerolog.Nop()
	if o.verbose {
		logger = logging.NewWithWriter(logging.Config{Level: cfg.Log.Level, Pretty: true}, cmd.ErrOrStderr())
	}
	return app.New(cfg, newProvider(), logger)
}

func newReportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the allocation and rebalance suggestions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.build(cmd)
			if err != nil {
				return err
			}
			alloc, report := a.Services.Allocation.Rebalance(context.Background())
			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"allocation": alloc, "report": report})
			}
			return writeReport(cmd.OutOrStdout(), alloc, report)
		},
	}
}

func newHoldingsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "holdings <source-id>",
		Short: "Print the normalized holdings of one source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.build(cmd)
			if err != nil {
				return err
			}
			ds, err := a.Services.Holdings.Holdings(context.Background(), args[0])
			if err != nil {
				return err
			}
			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), ds)
			}
			return writeHoldings(cmd.OutOrStdout(), ds)
		},
	}
}

func newRateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rate <currency>",
		Short: "Print the rate of a currency in the reporting currency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.build(cmd)
			if err != nil {
				return err
			}
			quote, warning := a.Services.Currency.Quote(context.Background(), args[0])
			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"quote": quote, "warning": warning})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %g\n", quote.Pair(), quote.Rate)
			if warning != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", warning.Message)
			}
			return nil
		},
	}
}

func newAppendCommand(opts *rootOptions) *cobra.Command {
	var sheetName string
	var rows []string

	cmd := &cobra.Command{
		Use:   "append <source-id>",
		Short: "Append rows to a source document",
		Long: `Append one or more rows to a source document. Each --row is a
comma separated list of cells; dates and numbers are typed by the transport.

Examples:
  allocctl append tw-broker --row 2024-01-02,0050,10,135.5
  allocctl append tw-broker --sheet Trades --row a,1 --row b,2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.build(cmd)
			if err != nil {
				return err
			}
			result, err := a.Services.Ledger.Append(context.Background(), args[0], sheetName, parseRows(rows))
			if err != nil {
				return err
			}
			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "appended %d row(s) to %s (%s)\n", result.Rows, result.SourceID, result.OperationID)
			return nil
		},
	}

	cmd.Flags().StringVar(&sheetName, "sheet", "", "target sheet (default: the source's range sheet)")
	cmd.Flags().StringArrayVar(&rows, "row", nil, "comma separated cells, repeatable")
	_ = cmd.MarkFlagRequired("row")
	return cmd
}

func parseRows(lines []string) [][]any {
	rows := make([][]any, 0, len(lines))
	for _, line := range lines {
		cells := strings.Split(line, ",")
		row := make([]any, len(cells))
		for i, c := range cells {
			row[i] = strings.TrimSpace(c)
		}
		rows = append(rows, row)
	}
	return rows
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeReport(w io.Writer, alloc model.Allocation, report model.RebalanceReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "CATEGORY\tVALUE\tACTUAL %\tTARGET %\tDELTA\t")
	for _, row := range report.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\t%+.2f\t\n",
			row.Category, display(row.ActualValue, alloc.ReportingCurrency), row.ActualPercentage, row.TargetPercentage, row.Delta)
	}
	fmt.Fprintf(tw, "TOTAL\t%s\t\t%.2f\t\t\n", display(alloc.Total, alloc.ReportingCurrency), report.TargetTotal)
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, s := range report.Suggestions {
		fmt.Fprintf(w, "%s %s by %s\n", s.Direction, s.Category, display(abs(s.Adjustment), alloc.ReportingCurrency))
	}
	for _, warning := range alloc.Warnings {
		fmt.Fprintf(w, "warning [%s] %s\n", warning.Kind, warning.Message)
	}
	return nil
}

func writeHoldings(w io.Writer, ds service.Dataset) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tNAME\tCATEGORY\tQUANTITY\tMARKET VALUE\tP/L\tRETURN %")
	for _, r := range ds.Records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%s\t%s\t%.2f\n",
			r.Symbol, r.Name, r.Category, r.Quantity,
			display(r.MarketValue, r.Currency), display(r.UnrealizedPL, r.Currency), r.ReturnRate)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, warning := range ds.Warnings {
		fmt.Fprintf(w, "warning [%s] %s\n", warning.Kind, warning.Message)
	}
	return nil
}

// display formats an amount with the currency's symbol and minor units.
func display(amount float64, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return fmt.Sprintf("%.2f %s", amount, currency)
	}
	minor := decimal.NewFromFloat(amount).Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, currency).Display()
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
