package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/facturas/internal/importer"
	"github.com/MrJamesThe3rd/facturas/internal/invoice"
	"github.com/MrJamesThe3rd/facturas/internal/ledger"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStatePreview
	importStateCommitting
	importStateResult
)

type ImportModel struct {
	CommonModel
	session *ledger.Session

	state      importState
	filePicker filepicker.Model
	preview    table.Model
	result     *importer.Result
	file       string

	status string
	err    error
}

func NewImportModel(session *ledger.Session) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".xlsx", ".xls"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		session:    session,
		filePicker: fp,
		preview:    newRowTable(15),
	}
}

func (m ImportModel) Title() string { return "Import Till Export" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStatePreview {
		return "c: commit | d: discard | Esc: back"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStatePreview {
			return m.updatePreview(msg)
		}

	case importResultMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.result = msg.result
		m.preview.SetRows(draftRows(msg.result.Drafts))
		m.preview.Focus()
		m.state = importStatePreview

		return m, nil

	case commitResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			// Pending rows survive a failed commit; go back to the preview to retry.
			m.state = importStatePreview
			m.status = fmt.Sprintf("Commit failed: %v", msg.err)

			return m, nil
		}

		m.err = nil
		m.status = commitStatus(msg.result)

		return m, nil

	case tea.WindowSizeMsg:
		m.preview.SetHeight(max(msg.Height-12, 5))
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.file = filepath.Base(path)
		m.status = fmt.Sprintf("Processing %s...", m.file)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func commitStatus(res *invoice.CommitResult) string {
	if res.NoneNew() {
		return fmt.Sprintf("No new invoices: all %d were already saved.", len(res.Skipped))
	}

	s := fmt.Sprintf("Saved %d invoices.", len(res.Inserted))
	if len(res.Skipped) > 0 {
		s += fmt.Sprintf(" %d already existed.", len(res.Skipped))
	}

	return s
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStatePreview, importStateResult:
		m.state = importStateFilePick
		m.err = nil
		m.status = ""

		return m, m.filePicker.Init()
	}

	return m, Back
}

func (m ImportModel) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "c":
		m.state = importStateCommitting
		m.status = "Saving..."

		return m, m.commitCmd()
	case "d":
		m.session.DiscardPending()
		m.result = nil
		m.state = importStateFilePick
		m.status = "Pending rows discarded."

		return m, m.filePicker.Init()
	}

	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return m.viewFilePick()
	case importStateImporting, importStateCommitting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStatePreview:
		return m.viewPreview()
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewFilePick() string {
	s := "Select file to import (.csv, .xlsx, .xls):\n\n" + m.filePicker.View()
	if m.status != "" {
		s = faintStyle.Render(m.status) + "\n" + s
	}

	return lipgloss.NewStyle().Padding(1).Render(s)
}

func (m ImportModel) viewPreview() string {
	var total int64
	for _, d := range m.result.Drafts {
		total += d.Gross
	}

	header := fmt.Sprintf("%s  %s rows  %s layout  total %s",
		accentStyle.Render(m.file),
		accentStyle.Render(fmt.Sprint(len(m.result.Drafts))),
		m.result.Shape,
		invoice.FormatAmount(total),
	)

	if n := m.result.Dropped(); n > 0 {
		header += errorStyle.Render(fmt.Sprintf("  (%d rows without a valid amount)", n))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		boxed(m.preview.View()),
	)

	if m.status != "" {
		content = errorStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errorStyle.Render(m.status) + "\n\n(Esc to go back)")
	}

	return style.Render(okStyle.Render(m.status) + "\n\n(Esc to go back)")
}

// Messages

type importResultMsg struct {
	result *importer.Result
	err    error
}

type commitResultMsg struct {
	result *invoice.CommitResult
	err    error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return importResultMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.session.Import(ctx, filepath.Base(path), data)

		return importResultMsg{result: result, err: err}
	}
}

func (m ImportModel) commitCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.session.Commit(ctx)

		return commitResultMsg{result: result, err: err}
	}
}
