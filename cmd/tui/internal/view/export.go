package view

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/facturas/internal/export"
	"github.com/MrJamesThe3rd/facturas/internal/invoice"
	"github.com/MrJamesThe3rd/facturas/internal/ledger"
)

type exportState int

const (
	exportStateForm exportState = iota
	exportStateExporting
	exportStateResult
)

type exportSource string

const (
	sourceLedger  exportSource = "ledger"
	sourcePending exportSource = "pending"
)

type exportFields struct {
	source exportSource
	format string
	path   string
}

type ExportModel struct {
	CommonModel
	session *ledger.Session

	state   exportState
	form    *huh.Form
	fields  *exportFields
	spinner spinner.Model

	written string
	rows    int
	err     error
}

func NewExportModel(session *ledger.Session) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = accentStyle

	m := ExportModel{
		session: session,
		fields:  &exportFields{source: sourceLedger, format: "csv", path: "./exports"},
		spinner: s,
	}
	m.form = m.buildForm()

	return m
}

func (m ExportModel) Title() string { return "Export" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to menu"
	case exportStateExporting:
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.state != exportStateExporting {
		return m, Back
	}

	switch m.state {
	case exportStateForm:
		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}

		if m.form.State != huh.StateCompleted {
			return m, cmd
		}

		m.state = exportStateExporting

		return m, tea.Batch(m.spinner.Tick, m.runExportCmd(*m.fields))

	case exportStateExporting:
		if result, ok := msg.(exportResultMsg); ok {
			m.state = exportStateResult
			m.err = result.err
			m.written = result.path
			m.rows = result.rows

			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m ExportModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[exportSource]().
				Title("Rows").
				Options(
					huh.NewOption("Saved ledger", sourceLedger),
					huh.NewOption("Pending import", sourcePending),
				).
				Value(&m.fields.source),

			huh.NewSelect[string]().
				Title("Format").
				Options(
					huh.NewOption("CSV", "csv"),
					huh.NewOption("Excel (.xlsx)", "xlsx"),
				).
				Value(&m.fields.format),

			huh.NewInput().
				Title("Output Path").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports").
				Value(&m.fields.path),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case exportStateExporting:
		return lipgloss.NewStyle().Padding(1).Render(fmt.Sprintf("%s Exporting...", m.spinner.View()))

	case exportStateResult:
		if m.err != nil {
			return lipgloss.NewStyle().Padding(1).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		}

		return lipgloss.NewStyle().Padding(1).Render(
			okStyle.Bold(true).Render("Export Complete!") +
				fmt.Sprintf("\n\n%d rows written to %s", m.rows, m.written),
		)
	}

	return ""
}

type exportResultMsg struct {
	path string
	rows int
	err  error
}

func (m ExportModel) runExportCmd(fields exportFields) tea.Cmd {
	return func() tea.Msg {
		var drafts []invoice.Draft

		if fields.source == sourcePending {
			drafts = m.session.Pending()
		} else {
			ctx, cancel := DbCtx()
			defer cancel()

			invs, err := m.session.Invoices(ctx)
			if err != nil {
				return exportResultMsg{err: err}
			}

			drafts = invoice.Drafts(invs)
		}

		write := export.WriteCSV
		if fields.format == "xlsx" {
			write = export.WriteXLSX
		}

		path, err := writeExport(fields.path, fields.format, drafts, write)

		return exportResultMsg{path: path, rows: len(drafts), err: err}
	}
}

func writeExport(dir, ext string, drafts []invoice.Draft, write func(io.Writer, []invoice.Draft) error) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}

	path := filepath.Join(dir, export.Filename(ext, time.Now()))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if err := write(f, drafts); err != nil {
		return "", err
	}

	return path, f.Close()
}
