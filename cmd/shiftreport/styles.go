package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Simplici0/shiftreport/internal/history"
	"github.com/Simplici0/shiftreport/internal/lines"
	"github.com/Simplici0/shiftreport/internal/settings"
)

var (
	titleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#dddddd"}).
		Bold(true)

	headerStyle = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#005577", Dark: "#00aadd"}).
		Bold(true).
		Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	successStyle = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#859900", Dark: "#50fa7b"}).
		Bold(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#dc322f", Dark: "#ff5555"}).
		Bold(true)
)

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#626262", Dark: "#a8a8a8"})).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}

func renderHistory(items []history.Summary) string {
	if len(items) == 0 {
		return "No reports found."
	}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
		item.ID,
		item.ReportDate,
		item.Operator,
		fmt.Sprintf("%d", item.Shift),
		fmt.Sprintf("$%.2f", item.Contribution),
		item.OutputPath,
		})
	}
	return renderTable([]string{"ID", "Date", "Operator", "Shift", "Contribution", "File"}, rows)
}

func renderSettings(c settings.Configuration) string {
	var b strings.Builder

	fmt.Fprintln(&b, titleStyle.Render("Settings"))
	fmt.Fprintf(&b, "Wage: $%.2f   Quantity threshold: %d\n", c.Wage, c.QtyThreshold)
	if len(c.RecentNames) > 0 {
		fmt.Fprintf(&b, "Recent names: %s\n", strings.Join(c.RecentNames, ", "))
	}

	prices := make([][]string, 0, len(c.Prices))
	for _, id := range lines.Metered() {
		pair, ok := c.Prices[id]
		if !ok {
		prices = append(prices, []string{string(id), "-", "-"})
		continue
		}
		prices = append(prices, []string{string(id), fmt.Sprintf("%.4f", pair.Over()), fmt.Sprintf("%.4f", pair.Under())})
	}
	fmt.Fprintln(&b, renderTable([]string{"Line", "Over", "Under"}, prices))

	if len(c.Handpacks) == 0 {
		fmt.Fprint(&b, "No hand-pack products.")
		return b.String()
	}
	names := make([]string, 0, len(c.Handpacks))
	for name := range c.Handpacks {
		names = append(names, name)
	}
	sort.Strings(names)
	handpacks := make([][]string, 0, len(names))
	for _, name := range names {
		handpacks = append(handpacks, []string{name, fmt.Sprintf("%.4f", c.Handpacks[name])})
	}
	fmt.Fprint(&b, renderTable([]string{"Hand-pack", "Price"}, handpacks))
	return b.String()
}
