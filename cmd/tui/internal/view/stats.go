package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/facturas/internal/ledger"
	"github.com/MrJamesThe3rd/facturas/internal/stats"
)

type StatsModel struct {
	CommonModel
	session *ledger.Session

	summary stats.Summary
	loading bool
	err     error
}

func NewStatsModel(session *ledger.Session) StatsModel {
	return StatsModel{session: session, loading: true}
}

func (m StatsModel) Title() string     { return "Statistics" }
func (m StatsModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m StatsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		m.loading = false
		m.summary = msg.summary
		m.err = msg.err

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	return m, nil
}

var sectionStyle = lipgloss.NewStyle().
	Padding(0, 2).
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("63"))

func (m StatsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading statistics...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	s := m.summary
	if s.Count == 0 {
		return lipgloss.NewStyle().Padding(2).Render("The ledger is empty.")
	}

	avg, _ := s.AverageCents()

	overview := fmt.Sprintf("Invoices: %s\nRevenue:  %s\nAverage:  %s",
		accentStyle.Render(fmt.Sprint(s.Count)),
		accentStyle.Render(stats.FormatEUR(s.Total)),
		accentStyle.Render(stats.FormatEUR(avg)),
	)

	var concepts strings.Builder
	concepts.WriteString("By service\n\n")

	for _, c := range s.Concepts {
		fmt.Fprintf(&concepts, "%-26s %4d  %s\n", c.Concept, c.Count, stats.FormatEUR(c.Revenue))
	}

	var clients strings.Builder
	clients.WriteString("Top clients\n\n")

	for _, c := range s.TopClients {
		fmt.Fprintf(&clients, "%-22s %3d visits  %s\n", c.Client, c.Visits, stats.FormatEUR(c.Revenue))
	}

	var months strings.Builder
	months.WriteString("By month\n\n")

	for _, mo := range s.Months {
		fmt.Fprintf(&months, "%s  %4d  %s\n", mo.Period, mo.Count, stats.FormatEUR(mo.Revenue))
	}

	var payments strings.Builder
	payments.WriteString("By payment method\n\n")

	for _, p := range s.Payments {
		fmt.Fprintf(&payments, "%-24s %4d\n", p.Method, p.Count)
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render(overview),
		lipgloss.JoinHorizontal(lipgloss.Top,
			sectionStyle.Render(strings.TrimRight(concepts.String(), "\n")),
			sectionStyle.Render(strings.TrimRight(clients.String(), "\n")),
		),
		lipgloss.JoinHorizontal(lipgloss.Top,
			sectionStyle.Render(strings.TrimRight(months.String(), "\n")),
			sectionStyle.Render(strings.TrimRight(payments.String(), "\n")),
		),
	))
}

type statsLoadedMsg struct {
	summary stats.Summary
	err     error
}

func (m StatsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		summary, err := m.session.Stats(ctx)

		return statsLoadedMsg{summary: summary, err: err}
	}
}
