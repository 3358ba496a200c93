package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/facturas/internal/concept"
	conceptStore "github.com/MrJamesThe3rd/facturas/internal/concept/store"
	"github.com/MrJamesThe3rd/facturas/internal/config"
	"github.com/MrJamesThe3rd/facturas/internal/database"
	facturasHttp "github.com/MrJamesThe3rd/facturas/internal/http"
	conceptHandler "github.com/MrJamesThe3rd/facturas/internal/http/concept"
	exportHandler "github.com/MrJamesThe3rd/facturas/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/facturas/internal/http/importfile"
	invoiceHandler "github.com/MrJamesThe3rd/facturas/internal/http/invoice"
	statsHandler "github.com/MrJamesThe3rd/facturas/internal/http/stats"
	"github.com/MrJamesThe3rd/facturas/internal/importer"
	"github.com/MrJamesThe3rd/facturas/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/facturas/internal/invoice/store"
	"github.com/MrJamesThe3rd/facturas/internal/ledger"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	var (
		invoiceService = invoice.NewService(invoiceStore.New(db))
		conceptService = concept.NewService(conceptStore.New(db))
		importService  = importer.NewService()
	)

	ledgers := ledger.NewManager(invoiceService, conceptService, importService, ledger.Config{
		Prefix:      cfg.Invoice.Prefix,
		Start:       cfg.Invoice.Start,
		PaymentSeed: cfg.Invoice.PaymentSeed,
	})

	router := facturasHttp.New(
		facturasHttp.Options{
			AuthSecret:  cfg.Auth.Secret,
			CORSOrigins: cfg.Server.CORSOrigins,
		},
		importHandler.NewHandler(ledgers),
		invoiceHandler.NewHandler(ledgers),
		statsHandler.NewHandler(ledgers),
		conceptHandler.NewHandler(conceptService),
		exportHandler.NewHandler(ledgers, nil),
	)

	if cfg.Auth.Secret == "" {
		slog.Warn("AUTH_SECRET is empty, tenants are taken from the X-Tenant header")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
