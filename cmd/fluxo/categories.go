package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fluxo/internal/cli"
	"fluxo/internal/core"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"categorias", "cat"},
		Short:   "Manage income and expense categories",
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(renameCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	var kindFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories ordered by name",
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

			categories, err := ledger.Categories(ctx, kind)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(categories) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("Nenhuma categoria encontrada. Use 'fluxo categories add' para criar uma."))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("ID"),
				cli.TableHeaderStyle.Render("Nome"),
				cli.TableHeaderStyle.Render("Tipo"))
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				strings.Repeat("-", 4),
				strings.Repeat("-", 20),
				strings.Repeat("-", 7))
			for _, c := range categories {
				fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Name, c.Kind.Label())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "", "only categories of this kind (entrada, saida)")
	return cmd
}

func addCategoryCmd() *cobra.Command {
	var kindFlag string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			kind, err := core.ParseKind(kindFlag)
			if err != nil {
				return err
			}

			ledger, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer ledger.Close()

			c, err := ledger.AddCategory(ctx, args[0], kind)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.SuccessStyle.Render(
				fmt.Sprintf("✓ Categoria %q criada (ID: %d, %s)", c.Name, c.ID, c.Kind.Label())))
			return nil
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "", "category kind: entrada or saida (required)")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func renameCategoryCmd() *cobra.Command {
	var kindFlag string

	cmd := &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a category and optionally change its kind",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			kind, err := optionalKind(kindFlag)
			if err != nil {
				return err
			}

			ledger, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer ledger.Close()

			if err := ledger.RenameCategory(ctx, id, args[1], kind); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.SuccessStyle.Render(
				fmt.Sprintf("✓ Categoria %d atualizada", id)))
			return nil
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "", "new kind (keeps the current one when empty)")
	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category; its transactions become uncategorized",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ledger, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer ledger.Close()

			c, err := ledger.Category(ctx, id)
			if err != nil {
				return err
			}
			used, err := ledger.CategoryUsage(ctx, id)
			if err != nil {
				return err
			}

			if used > 0 && !yes {
				q := fmt.Sprintf("A categoria %q está sendo usada em %d transação(ões), que ficarão sem categoria. Deseja continuar?", c.Name, used)
				if !confirm(cmd.InOrStdin(), out, q) {
					fmt.Fprintln(out, cli.SubtleStyle.Render("Operação cancelada."))
					return nil
				}
			}

			detached, err := ledger.RemoveCategory(ctx, id)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, cli.SuccessStyle.Render(fmt.Sprintf("✓ Categoria %q excluída", c.Name)))
			if detached > 0 {
				fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("  %d transação(ões) agora sem categoria", detached)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation when the category is in use")
	return cmd
}
