package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/facturas/internal/invoice"
	"github.com/MrJamesThe3rd/facturas/internal/ledger"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateSearch
	listStateEdit
	listStateConfirm
)

type deleteScope int

const (
	deleteOne deleteScope = iota
	deletePeriod
)

type ListModel struct {
	CommonModel
	session *ledger.Session

	state listState
	table table.Model
	invs  []*invoice.Invoice
	form  *huh.Form

	period  string
	loading bool
	err     error
	status  string
	scope   deleteScope

	// Form bindings live behind a pointer so they survive model copies.
	fields *listFields
}

type listFields struct {
	query     string
	concept   string
	client    string
	method    invoice.PaymentMethod
	confirmed bool
}

func NewListModel(session *ledger.Session) ListModel {
	return ListModel{
		session: session,
		table:   newRowTable(15),
		loading: true,
		fields:  &listFields{},
	}
}

func (m ListModel) Title() string { return "Ledger" }

func (m ListModel) ShortHelp() string {
	if m.state != listStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | /: search | m: this month | e: edit | x: delete | p: delete month | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.invs = msg.invs
		m.refreshTable()

		return m, nil

	case listSaveMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-10, 5))
		return m, nil
	}

	switch m.state {
	case listStateBrowse:
		return m.updateBrowse(msg)
	case listStateSearch, listStateEdit, listStateConfirm:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			if m.fields.query != "" || m.period != "" {
				m.fields.query, m.period = "", ""
				return m, m.loadCmd()
			}

			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "/":
			return m.enterSearch()
		case "m":
			if inv := m.selected(); inv != nil {
				m.period = invoice.Period(inv.Date)
				return m, m.loadCmd()
			}
		case "e":
			return m.enterEdit()
		case "x":
			return m.enterConfirm(deleteOne)
		case "p":
			return m.enterConfirm(deletePeriod)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) selected() *invoice.Invoice {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.invs) {
		return nil
	}

	return m.invs[idx]
}

func (m ListModel) enterSearch() (tea.Model, tea.Cmd) {
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("query").
				Title("Search").
				Description("Invoice number, client or concept").
				Value(&m.fields.query),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateSearch
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) enterEdit() (tea.Model, tea.Cmd) {
	inv := m.selected()
	if inv == nil {
		return m, nil
	}

	m.fields.concept = inv.Concept
	m.fields.client = inv.Client
	m.fields.method = inv.PaymentMethod

	options := make([]huh.Option[invoice.PaymentMethod], 0, len(invoice.PaymentMethods))
	for _, pm := range invoice.PaymentMethods {
		options = append(options, huh.NewOption(string(pm), pm))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("concept").
				Title("Concept").
				Value(&m.fields.concept).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("concept cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("client").
				Title("Client").
				Placeholder(invoice.WalkInClient).
				Value(&m.fields.client),

			huh.NewSelect[invoice.PaymentMethod]().
				Key("payment").
				Title("Payment method").
				Options(options...).
				Value(&m.fields.method),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) enterConfirm(scope deleteScope) (tea.Model, tea.Cmd) {
	inv := m.selected()
	if inv == nil {
		return m, nil
	}

	title := fmt.Sprintf("Delete invoice %s?", inv.Number)
	if scope == deletePeriod {
		title = fmt.Sprintf("Delete every invoice of %s?", invoice.Period(inv.Date))
	}

	m.scope = scope
	m.fields.confirmed = false
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(title).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&m.fields.confirmed),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateConfirm
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = listStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	switch m.state {
	case listStateSearch:
		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()
	case listStateEdit:
		return m, m.saveCmd()
	case listStateConfirm:
		if !m.fields.confirmed {
			m.state = listStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}

		return m, m.deleteCmd()
	}

	return m, nil
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading ledger...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	var total int64
	for _, inv := range m.invs {
		total += inv.Gross
	}

	query, period := m.fields.query, m.period
	if query == "" {
		query = "-"
	}

	if period == "" {
		period = "all"
	}

	header := fmt.Sprintf("[/] Search: %s | [m] Period: %s | %d invoices | %s",
		accentStyle.Render(query),
		accentStyle.Render(period),
		len(m.invs),
		invoice.FormatAmount(total),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		boxed(m.table.View()),
	)

	if m.state != listStateBrowse && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ListModel) refreshTable() {
	m.table.SetRows(draftRows(invoice.Drafts(m.invs)))
	m.table.SetCursor(min(m.table.Cursor(), max(len(m.invs)-1, 0)))
}

// Messages

type loadListMsg struct {
	invs []*invoice.Invoice
	err  error
}

func (m ListModel) loadCmd() tea.Cmd {
	query, period := m.fields.query, m.period

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		invs, err := m.session.Search(ctx, query, period)

		return loadListMsg{invs: invs, err: err}
	}
}

type listSaveMsg struct {
	status string
	err    error
}

func (m ListModel) saveCmd() tea.Cmd {
	inv := m.selected()
	if inv == nil {
		return nil
	}

	d := inv.Draft()
	d.Concept = strings.TrimSpace(m.fields.concept)
	d.PaymentMethod = m.fields.method

	d.Client = strings.TrimSpace(m.fields.client)
	if d.Client == "" {
		d.Client = invoice.WalkInClient
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.session.Update(ctx, inv.Number, d); err != nil {
			return listSaveMsg{err: err}
		}

		return listSaveMsg{status: fmt.Sprintf("Updated %s.", inv.Number)}
	}
}

func (m ListModel) deleteCmd() tea.Cmd {
	inv := m.selected()
	if inv == nil {
		return nil
	}

	scope := m.scope

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if scope == deletePeriod {
			n, err := m.session.DeletePeriod(ctx, inv.Date.Month(), inv.Date.Year())
			if err != nil {
				return listSaveMsg{err: err}
			}

			return listSaveMsg{status: fmt.Sprintf("Deleted %d invoices of %s.", n, invoice.Period(inv.Date))}
		}

		if err := m.session.Delete(ctx, inv.Number); err != nil {
			return listSaveMsg{err: err}
		}

		return listSaveMsg{status: fmt.Sprintf("Deleted %s.", inv.Number)}
	}
}
