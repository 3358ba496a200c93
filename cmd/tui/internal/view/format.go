package view

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/facturas/internal/invoice"
)

const dbTimeout = 5 * time.Second

var (
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

var rowColumns = []table.Column{
	{Title: "Number", Width: 10},
	{Title: "Date", Width: 11},
	{Title: "Concept", Width: 26},
	{Title: "Gross", Width: 10},
	{Title: "Net", Width: 10},
	{Title: "Payment", Width: 22},
	{Title: "Client", Width: 22},
}

func newRowTable(height int) table.Model {
	t := table.New(
		table.WithColumns(rowColumns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func draftRow(d invoice.Draft) table.Row {
	return table.Row{
		d.Number,
		invoice.FormatDate(d.Date),
		d.Concept,
		invoice.FormatAmount(d.Gross),
		invoice.FormatAmount(d.Net),
		string(d.PaymentMethod),
		d.Client,
	}
}

func draftRows(drafts []invoice.Draft) []table.Row {
	rows := make([]table.Row, 0, len(drafts))
	for _, d := range drafts {
		rows = append(rows, draftRow(d))
	}

	return rows
}

func boxed(s string) string {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(s)
}
