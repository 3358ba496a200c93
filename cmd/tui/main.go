package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/facturas/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/facturas/internal/concept"
	conceptStore "github.com/MrJamesThe3rd/facturas/internal/concept/store"
	"github.com/MrJamesThe3rd/facturas/internal/config"
	"github.com/MrJamesThe3rd/facturas/internal/database"
	"github.com/MrJamesThe3rd/facturas/internal/importer"
	"github.com/MrJamesThe3rd/facturas/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/facturas/internal/invoice/store"
	"github.com/MrJamesThe3rd/facturas/internal/ledger"
)

type model struct {
	appName string
	session *ledger.Session

	currentView View

	importView view.ImportModel
	listView   view.ListModel
	statsView  view.StatsModel
	exportView view.ExportModel
}

type View int

const (
	ViewMenu   View = 0
	ViewImport View = 1
	ViewList   View = 2
	ViewStats  View = 3
	ViewExport View = 4
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	ledgers := ledger.NewManager(
		invoice.NewService(invoiceStore.New(db)),
		concept.NewService(conceptStore.New(db)),
		importer.NewService(),
		ledger.Config{
			Prefix:      cfg.Invoice.Prefix,
			Start:       cfg.Invoice.Start,
			PaymentSeed: cfg.Invoice.PaymentSeed,
		},
	)

	session := ledgers.Session(cfg.Tenant)

	return model{
		appName:     cfg.App.Name,
		session:     session,
		currentView: ViewMenu,
		importView:  view.NewImportModel(session),
		listView:    view.NewListModel(session),
		statsView:   view.NewStatsModel(session),
		exportView:  view.NewExportModel(session),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.session)

				return m, m.importView.Init()
			case "2":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.session)

				return m, m.listView.Init()
			case "3":
				m.currentView = ViewStats
				m.statsView = view.NewStatsModel(m.session)

				return m, m.statsView.Init()
			case "4":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.session)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewStats:
		var newModel tea.Model
		newModel, cmd = m.statsView.Update(msg)
		m.statsView = newModel.(view.StatsModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		pending := ""
		if n := len(m.session.Pending()); n > 0 {
			pending = lipgloss.NewStyle().Faint(true).Render(
				fmt.Sprintf("\n%s: %d rows waiting to be committed\n", m.session.PendingFile(), n),
			)
		}

		return lipgloss.NewStyle().Padding(2).Render(
			m.appName + " TUI (" + m.session.Tenant() + ")\n" + pending + "\n" +
				"1. Import Till Export\n" +
				"2. Browse Ledger\n" +
				"3. Statistics\n" +
				"4. Export\n\n" +
				"q. Quit",
		)
	case ViewImport:
		return m.importView.View()
	case ViewList:
		return m.listView.View()
	case ViewStats:
		return m.statsView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
