package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"fluxo/internal/cli"
	"fluxo/internal/core"
	"fluxo/internal/services"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transactions", "transacoes"},
		Short:   "Record, list, edit and delete transactions",
	}

	cmd.AddCommand(addTransactionCmd())
	cmd.AddCommand(listTransactionsCmd())
	cmd.AddCommand(editTransactionCmd())
	cmd.AddCommand(deleteTransactionCmd())

	return cmd
}

type txFlags struct {
	date          string
	desc          string
	category      string
	amount        string
	kind          string
	clearCategory bool
}

func (f *txFlags) register(cmd *cobra.Command, edit bool) {
	cmd.Flags().StringVar(&f.date, "date", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&f.desc, "desc", "", "description")
	cmd.Flags().StringVar(&f.category, "category", "", "category name or id")
	cmd.Flags().StringVar(&f.amount, "amount", "", "positive amount, e.g. 150,50, 1.234,56 or 1500.50 (1.500 is ambiguous and rejected)")
	cmd.Flags().StringVar(&f.kind, "kind", "", "entrada or saida")
	if edit {
		cmd.Flags().BoolVar(&f.clearCategory, "clear-category", false, "leave the transaction uncategorized")
	}
}

// resolveCategory accepts an exact name within kind or, failing that, an
// id. A category named "2024" wins over the id 2024.
func resolveCategory(ctx context.Context, ledger *services.LedgerService, ref string, kind core.Kind) (*int64, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, nil
	}
	c, err := ledger.GetCategoryByName(ctx, ref, kind)
	if err == nil {
		return &c.ID, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}
	if id, perr := strconv.ParseInt(ref, 10, 64); perr == nil {
		return &id, nil
	}
	return nil, &core.FieldError{Field: "categoria", Err: fmt.Errorf("%q (%s): %w", ref, kind, core.ErrNotFound)}
}

func addTransactionCmd() *cobra.Command {
	var f txFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if f.date == "" {
				f.date = time.Now().Format(core.DateLayout)
			}
			date, err := core.ParseDate(f.date)
			if err != nil {
				return err
			}
			cents, err := core.ParseDecimalToCents(f.amount)
			if err != nil {
				return &core.FieldError{Field: "valor", Err: err}
			}
			kind, err := core.ParseKind(f.kind)
			if err != nil {
				return err
			}

			ledger, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer ledger.Close()

			catID, err := resolveCategory(ctx, ledger, f.category, kind)
			if err != nil {
				return err
			}

			id, err := ledger.AddTransaction(ctx, core.Transaction{
				Date:        date,
				Description: f.desc,
				CategoryID:  catID,
				Amount:      core.Money{Cents: cents},
				Kind:        kind,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.SuccessStyle.Render(
				fmt.Sprintf("✓ Transação %d registrada: %s %s", id, kind.Label(), core.Money{Cents: cents})))
			return nil
		},
	}

	f.register(cmd, false)
	_ = cmd.MarkFlagRequired("desc")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func listTransactionsCmd() *cobra.Command {
	var (
		period   core.Period
		kindFlag string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			kind, err := optionalKind(kindFlag)
			if err != nil {
				return err
			}
			filter := core.TransactionFilter{Period: period, Kind: kind}

			ledger, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer ledger.Close()

			txs, err := ledger.Transactions(ctx, filter)
			if err != nil {
				return err
			}
			balance, err := ledger.Balance(ctx, filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(txs) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("Nenhuma transação encontrada."))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
				cli.TableHeaderStyle.Render("ID"),
				cli.TableHeaderStyle.Render("Data"),
				cli.TableHeaderStyle.Render("Descrição"),
				cli.TableHeaderStyle.Render("Categoria"),
				cli.TableHeaderStyle.Render("Valor"),
				cli.TableHeaderStyle.Render("Tipo"))
			for _, t := range txs {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t\n",
					t.ID, t.Date, t.Description, categoryLabel(t),
					styledAmount(t.Amount, t.Kind), t.Kind.Label())
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(out, "\n%d transação(ões)  Entradas %s  Saídas %s  Saldo %s\n",
				len(txs),
				cli.IncomeStyle.Render(balance.Income.String()),
				cli.ExpenseStyle.Render(balance.Expense.String()),
				styledNet(balance.Net()))
			return nil
		},
	}

	periodFlags(cmd, &period)
	cmd.Flags().StringVar(&kindFlag, "kind", "", "only this kind (entrada, saida)")
	return cmd
}

func editTransactionCmd() *cobra.Command {
	var f txFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			flags := cmd.Flags()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ledger, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer ledger.Close()

			t, err := ledger.Transaction(ctx, id)
			if err != nil {
				return err
			}

			if flags.Changed("date") {
				if t.Date, err = core.ParseDate(f.date); err != nil {
					return err
				}
			}
			if flags.Changed("desc") {
				t.Description = f.desc
			}
			if flags.Changed("amount") {
				cents, err := core.ParseDecimalToCents(f.amount)
				if err != nil {
					return &core.FieldError{Field: "valor", Err: err}
				}
				t.Amount = core.Money{Cents: cents}
			}
			if flags.Changed("kind") {
				if t.Kind, err = core.ParseKind(f.kind); err != nil {
					return err
				}
			}
			switch {
			case f.clearCategory:
				t.CategoryID = nil
			case flags.Changed("category"):
				if t.CategoryID, err = resolveCategory(ctx, ledger, f.category, t.Kind); err != nil {
					return err
				}
			}

			if err := ledger.EditTransaction(ctx, t); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.SuccessStyle.Render(fmt.Sprintf("✓ Transação %d atualizada", id)))
			return nil
		},
	}

	f.register(cmd, true)
	return cmd
}

func deleteTransactionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ledger, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer ledger.Close()

			if err := ledger.RemoveTransaction(ctx, id); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.SuccessStyle.Render(fmt.Sprintf("✓ Transação %d excluída", id)))
			return nil
		},
	}
}
