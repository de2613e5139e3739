package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"fluxo/internal/cli"
	"fluxo/internal/core"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// optionalKind parses a --kind flag where empty means "any".
func optionalKind(s string) (core.Kind, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	return core.ParseKind(s)
}

// periodFlags registers --month and --year on cmd.
func periodFlags(cmd *cobra.Command, p *core.Period) {
	cmd.Flags().IntVar(&p.Month, "month", 0, "month 1-12 (0 = any)")
	cmd.Flags().IntVar(&p.Year, "year", 0, "four-digit year (0 = any)")
}

func styledAmount(m core.Money, kind core.Kind) string {
	if kind == core.KindExpense {
		return cli.ExpenseStyle.Render(m.String())
	}
	return cli.IncomeStyle.Render(m.String())
}

func styledNet(m core.Money) string {
	if m.Cents < 0 {
		return cli.ExpenseStyle.Render(m.String())
	}
	return cli.IncomeStyle.Render(m.String())
}

func categoryLabel(t core.Transaction) string {
	if !t.HasCategory() {
		return cli.SubtleStyle.Render("(sem categoria)")
	}
	return t.CategoryName
}

// confirm asks a yes/no question on in; anything but y/s/yes/sim is no.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprint(out, cli.WarningStyle.Render(question)+" (s/N): ")
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "sim", "y", "yes":
		return true
	}
	return false
}
