package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/facturas/internal/http/concept"
	"github.com/MrJamesThe3rd/facturas/internal/http/export"
	"github.com/MrJamesThe3rd/facturas/internal/http/importfile"
	"github.com/MrJamesThe3rd/facturas/internal/http/invoice"
	"github.com/MrJamesThe3rd/facturas/internal/http/stats"
	"github.com/MrJamesThe3rd/facturas/internal/http/tenant"
)

type Options struct {
	AuthSecret  string
	CORSOrigins []string
}

func New(
	opts Options,
	importV1 *importfile.Handler,
	invoicesV1 *invoice.Handler,
	statsV1 *stats.Handler,
	conceptsV1 *concept.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", tenant.Header},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(tenant.Middleware(opts.AuthSecret))

		r.Route("/import", importV1.Routes)

		r.Route("/invoices", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			invoicesV1.Routes(r)
		})

		r.Route("/stats", statsV1.Routes)

		r.Route("/concepts", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			conceptsV1.Routes(r)
		})

		r.Group(exportV1.Routes)
	})

	return router
}
