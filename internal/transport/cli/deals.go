package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"transfer_scanner/internal/application"
	"transfer_scanner/internal/domain/entity"
	"transfer_scanner/internal/domain/service/evaluator"
)

const dayLayout = "20060102"

func newDealsCommand() *cobra.Command {
	var day string

	cmd := &cobra.Command{
		Use:   "deals",
		Short: "Print the deals recorded for a day.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			date := time.Now()

			if day != "" {
				parsed, err := time.ParseInLocation(dayLayout, day, time.Local)
				if err != nil {
					return fmt.Errorf("--day: %w", err)
				}

				date = parsed
			}

			records, err := application.Deals(cmd.Context(), envFrom(cmd), date)
			if err != nil {
				return err
			}

			RenderDeals(cmd.OutOrStdout(), records)

			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "day as YYYYMMDD, today by default")

	return cmd
}

// RenderDeals prints records as a table, one row per deal.
func RenderDeals(w io.Writer, records []entity.DealRecord) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Player", "Deadline", "Price", "Wage", "Median", "Recorded"})

	for _, r := range records {
		wage := "-"
		if r.Wage != nil {
			wage = fmt.Sprint(*r.Wage)
		}

		t.AppendRow(table.Row{
			r.PlayerID,
			r.Deadline.Format("02.01 15:04"),
			r.Price,
			wage,
			r.ReferenceValue,
			r.RecordedAt.Format(time.TimeOnly),
		})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	t.AppendFooter(table.Row{"", "", "", "", "Total", len(records)})
	t.Render()
}

func newEvaluateCommand() *cobra.Command {
	var price, wage, median int64

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Check a price against a median with the configured deal rules.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings := envFrom(cmd).Settings

			isDeal, factor := evaluator.Evaluate(price, wage, median, settings.DealRules, settings.MinimumMedianForDeal)

			verdict := "no deal"
			if isDeal {
				verdict = "deal"
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: (%d + %d) x %.2f vs median %d\n", verdict, price, wage, factor, median)

			return nil
		},
	}

	cmd.Flags().Int64Var(&price, "price", 0, "asking price or highest bid")
	cmd.Flags().Int64Var(&wage, "wage", 0, "weekly wage")
	cmd.Flags().Int64Var(&median, "median", 0, "transfer compare median")
	_ = cmd.MarkFlagRequired("median")

	return cmd
}
