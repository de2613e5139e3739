package main

import (
	"errors"
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"fluxo/internal/cli"
	"fluxo/internal/importer"
	"fluxo/internal/log"
	"fluxo/internal/sheets"
	"fluxo/internal/sheets/file"
	"fluxo/internal/sheets/google"
)

func importCmd() *cobra.Command {
	var (
		fromSheet bool
		sheetName string
	)

	cmd := &cobra.Command{
		Use:   "import [file.csv|file.xlsx]",
		Short: "Import transactions from a spreadsheet (all rows or none)",
		Long: `Import reads a table with the columns Data, Descrição, Categoria, Valor
and Tipo. Every row is validated first; if any row is invalid nothing is
imported. Categories must already exist with the same name and kind.

With --sheet the table is read from the Google Sheets range configured by
GOOGLE_SPREADSHEET_ID and GOOGLE_SHEET_RANGE.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			var (
				src    sheets.TableReader
				source string
			)
			switch {
			case fromSheet && len(args) > 0:
				return errors.New("use either a file or --sheet, not both")
			case fromSheet:
				if err := cfg.ValidateSheets(); err != nil {
					return err
				}
				client, err := google.New(ctx, google.Config{
					SpreadsheetID:   cfg.GoogleSpreadsheetID,
					Range:           cfg.GoogleSheetRange,
					CredentialsJSON: cfg.GoogleServiceAccountJSON,
					CredentialsFile: cfg.GoogleServiceAccountFile,
				})
				if err != nil {
					return fmt.Errorf("google sheets: %w", err)
				}
				src = client
				source = "google:" + cfg.GoogleSpreadsheetID
			case len(args) == 1:
				r := file.New(args[0])
				r.Sheet = sheetName
				src = r
				source = args[0]
			default:
				return errors.New("missing file to import (or use --sheet)")
			}

			ledger, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer ledger.Close()

			importLog := logger.WithComponent(log.ComponentImporter).With(log.FieldSource, source)
			im := importer.New(ledger, importLog)

			var bar *progressbar.ProgressBar
			im.Progress = func(done, total int) {
				if bar == nil {
					bar = progressbar.NewOptions(total,
						progressbar.OptionSetWriter(cmd.ErrOrStderr()),
						progressbar.OptionShowCount(),
						progressbar.OptionSetWidth(40),
						progressbar.OptionSetDescription("Validando linhas"),
						progressbar.OptionClearOnFinish(),
					)
				}
				_ = bar.Set(done)
			}

			res, err := im.Import(ctx, src)
			if bar != nil {
				_ = bar.Finish()
			}
			if err != nil {
				return errors.New(res.Message)
			}

			fmt.Fprintln(out, cli.SuccessStyle.Render("✓ "+res.Message))
			fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("  %d transação(ões) importada(s)", res.Imported)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromSheet, "sheet", false, "read from Google Sheets instead of a file")
	cmd.Flags().StringVar(&sheetName, "sheet-name", "", "workbook sheet to read (default: the first)")
	return cmd
}
