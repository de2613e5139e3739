package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"fluxo/internal/chart"
	"fluxo/internal/cli"
	"fluxo/internal/core"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "report",
		Aliases: []string{"relatorio"},
		Short:   "Balance, monthly flow and expense distribution",
	}

	cmd.AddCommand(balanceReportCmd())
	cmd.AddCommand(flowReportCmd())
	cmd.AddCommand(distributionReportCmd())
	cmd.AddCommand(dashboardCmd())

	return cmd
}

func balanceReportCmd() *cobra.Command {
	var (
		period   core.Period
		kindFlag string
	)

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Income, expense and net balance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			kind, err := optionalKind(kindFlag)
			if err != nil {
				return err
			}

			ledger, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer ledger.Close()

			b, err := ledger.Balance(ctx, core.TransactionFilter{Period: period, Kind: kind})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderBalance(b))
			return nil
		},
	}

	periodFlags(cmd, &period)
	cmd.Flags().StringVar(&kindFlag, "kind", "", "only this kind (entrada, saida)")
	return cmd
}

func renderBalance(b core.Balance) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "Entradas\t%s\t\n", cli.IncomeStyle.Render(b.Income.String()))
	fmt.Fprintf(w, "Saídas\t%s\t\n", cli.ExpenseStyle.Render(b.Expense.String()))
	fmt.Fprintf(w, "%s\t%s\t\n", cli.BoldStyle.Render("Saldo"), styledNet(b.Net()))
	_ = w.Flush()
	return cli.TitleStyle.Render("Saldo") + "\n" + strings.TrimRight(sb.String(), "\n")
}

func flowReportCmd() *cobra.Command {
	var (
		year  int
		table bool
	)

	cmd := &cobra.Command{
		Use:   "flow",
		Short: "Income and expense per month (last 12 months with data)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			ledger, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer ledger.Close()

			rows, err := ledger.MonthlyFlow(ctx, year)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !table {
				fmt.Fprintln(out, chart.MonthlyFlow(rows, cfg.ChartWidth))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
				cli.TableHeaderStyle.Render("Período"),
				cli.TableHeaderStyle.Render("Entradas"),
				cli.TableHeaderStyle.Render("Saídas"),
				cli.TableHeaderStyle.Render("Saldo"))
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", r.Period,
					cli.IncomeStyle.Render(r.Income.String()),
					cli.ExpenseStyle.Render(r.Expense.String()),
					styledNet(r.Net()))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "only this year (0 = any)")
	cmd.Flags().BoolVar(&table, "table", false, "print a table instead of the chart")
	return cmd
}

func distributionReportCmd() *cobra.Command {
	var period core.Period

	cmd := &cobra.Command{
		Use:   "distribution",
		Short: "Expense totals per category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			ledger, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer ledger.Close()

			rows, err := ledger.ExpenseDistribution(ctx, period)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), chart.Distribution(rows, cfg.ChartWidth))
			return nil
		},
	}

	periodFlags(cmd, &period)
	return cmd
}

func dashboardCmd() *cobra.Command {
	var period core.Period

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Balance and both charts for a period (default: current month)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if !cmd.Flags().Changed("month") && !cmd.Flags().Changed("year") {
				now := time.Now()
				period = core.Period{Month: int(now.Month()), Year: now.Year()}
			}

			ledger, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer ledger.Close()

			balance, err := ledger.Balance(ctx, core.TransactionFilter{Period: period})
			if err != nil {
				return err
			}
			flow, err := ledger.MonthlyFlow(ctx, period.Year)
			if err != nil {
				return err
			}
			dist, err := ledger.ExpenseDistribution(ctx, period)
			if err != nil {
				return err
			}

			title := "Dashboard"
			if period.Month > 0 && period.Year > 0 {
				title = fmt.Sprintf("Dashboard %02d/%d", period.Month, period.Year)
			}

			width := cfg.ChartWidth / 2
			panels := lipgloss.JoinHorizontal(lipgloss.Top,
				cli.BoxStyle.Render(chart.MonthlyFlow(flow, width)),
				cli.BoxStyle.Render(chart.Distribution(dist, width)),
			)
			fmt.Fprintln(cmd.OutOrStdout(), lipgloss.JoinVertical(lipgloss.Left,
				cli.TitleStyle.Render(title),
				cli.BoxStyle.Render(renderBalance(balance)),
				panels,
			))
			return nil
		},
	}

	periodFlags(cmd, &period)
	return cmd
}
