// Package chart draws the dashboard charts as terminal bar charts.
package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"fluxo/internal/core"
)

// Placeholder is rendered instead of an empty chart.
const Placeholder = "Nenhum dado disponível"

const DefaultWidth = 40

var (
	IncomeColor  = lipgloss.Color("#2ecc71")
	ExpenseColor = lipgloss.Color("#e74c3c")

	// Palette colors the distribution slices in order, wrapping around.
	Palette = []lipgloss.Color{
		"#2ecc71", "#3498db", "#e74c3c", "#f1c40f", "#9b59b6",
		"#1abc9c", "#e67e22", "#34495e", "#7f8c8d", "#16a085",
	}

	titleStyle       = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	labelStyle       = lipgloss.NewStyle().Bold(true)
	placeholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).Italic(true)
)

const barRune = "█"

// MonthlyFlow draws income and expense bars for each month, oldest first.
// rows come from the store newest first.
func MonthlyFlow(rows []core.MonthlyFlow, width int) string {
	title := titleStyle.Render("Fluxo de Caixa Mensal")
	if len(rows) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, placeholderStyle.Render(Placeholder))
	}
	if width <= 0 {
		width = DefaultWidth
	}

	var peak int64
	for _, r := range rows {
		peak = max(peak, r.Income.Cents, r.Expense.Cents)
	}

	income := lipgloss.NewStyle().Foreground(IncomeColor)
	expense := lipgloss.NewStyle().Foreground(ExpenseColor)

	lines := []string{title}
	for i := len(rows) - 1; i >= 0; i-- {
		r := rows[i]
		lines = append(lines,
			fmt.Sprintf("%s %s %s",
				labelStyle.Render(r.MonthLabel()),
				income.Render(bar(r.Income.Cents, peak, width)),
				r.Income),
			fmt.Sprintf("%s %s %s",
				strings.Repeat(" ", len(r.MonthLabel())),
				expense.Render(bar(r.Expense.Cents, peak, width)),
				r.Expense),
		)
	}
	lines = append(lines, "",
		income.Render(barRune)+" "+core.KindIncome.Label()+"s   "+
			expense.Render(barRune)+" "+core.KindExpense.Label()+"s")
	return strings.Join(lines, "\n")
}

// Distribution draws one bar per category with its share of the total.
func Distribution(rows []core.CategoryTotal, width int) string {
	title := titleStyle.Render("Distribuição de Gastos por Categoria")

	var total int64
	nameWidth := 0
	for _, r := range rows {
		total += r.Total.Cents
		nameWidth = max(nameWidth, lipgloss.Width(r.Name))
	}
	if len(rows) == 0 || total <= 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, placeholderStyle.Render(Placeholder))
	}
	if width <= 0 {
		width = DefaultWidth
	}

	lines := []string{title}
	for i, r := range rows {
		style := lipgloss.NewStyle().Foreground(Palette[i%len(Palette)])
		name := labelStyle.Width(nameWidth).Render(r.Name)
		lines = append(lines, fmt.Sprintf("%s %s %s (%s)",
			name,
			style.Render(bar(r.Total.Cents, total, width)),
			Percent(r.Total.Cents, total),
			r.Total))
	}
	return strings.Join(lines, "\n")
}

// Percent formats part/total with one decimal place.
func Percent(part, total int64) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)*100/float64(total))
}

// bar scales v against peak; any positive value gets at least one cell.
func bar(v, peak int64, width int) string {
	if v <= 0 || peak <= 0 {
		return ""
	}
	n := int(math.Round(float64(v) / float64(peak) * float64(width)))
	return strings.Repeat(barRune, max(n, 1))
}
