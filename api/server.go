/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the dashboard frontend

ROUTE GROUPS:
  /api/inventory/*        Inventory list, add batch, transfer requests
  /api/analytics          Headline counts
  /api/monitor            Latest expiry report
  /api/dashboard/*        Usage and demand charts
  /api/logistics/*        Shipments
  /api/emergency-requests Emergency requests
  /api/donor-alerts       Donor alerts
  /api/scenarios/*        Seed inventories
  /metrics                Prometheus gauges
  /*                      Static files (frontend)

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	AllowedOrigins []string
	StaticDir      string // built dashboard; empty or missing serves an index page
	Monitor        *ExpiryMonitor
	Metrics        *MonitorMetrics
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", h.ListInventory)
			r.Post("/", h.AddBatch)
			r.Get("/{id}", h.GetUnit)
			r.Post("/{id}/transfer-request", h.PrepareTransfer)
			r.Post("/{id}/transfer-request/confirm", h.ConfirmTransfer)
		})

		r.Get("/analytics", h.GetAnalytics)
		if opts.Monitor != nil {
			r.Method(http.MethodGet, "/monitor", opts.Monitor)
		}

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/usage", h.GetUsageTrend)
			r.Get("/demand", h.GetDemandHotspots)
		})

		r.Get("/facilities", h.ListFacilities)
		r.Get("/blood-types", h.ListBloodTypes)
		r.Get("/logistics/shipments", h.ListShipments)

		r.Route("/emergency-requests", func(r chi.Router) {
			r.Get("/prompt", h.GetEmergencyPrompt)
			r.Post("/", h.SendEmergencyRequest)
		})

		r.Route("/donor-alerts", func(r chi.Router) {
			r.Get("/prompt", h.GetDonorAlertPrompt)
			r.Post("/", h.SendDonorAlert)
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
	})

	mountStatic(r, opts.StaticDir)
	return r
}

// mountStatic serves the built dashboard with SPA fallback to index.html.
func mountStatic(r chi.Router, staticDir string) {
	if staticDir != "" {
		if _, err := os.Stat(staticDir); os.IsNotExist(err) && !filepath.IsAbs(staticDir) {
			// Try relative to executable
			exe, _ := os.Executable()
			staticDir = filepath.Join(filepath.Dir(exe), staticDir)
		}
	}

	if _, err := os.Stat(staticDir); staticDir != "" && err == nil {
		fileServer := http.FileServer(http.Dir(staticDir))
		r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
			fullPath := filepath.Join(staticDir, r.URL.Path)
			if _, err := os.Stat(fullPath); os.IsNotExist(err) {
				http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
				return
			}
			fileServer.ServeHTTP(w, r)
		})
		return
	}

	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>PlateLink</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>PlateLink Network API</h1>
<p>The dashboard frontend is not built.</p>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/inventory">/api/inventory</a> - Inventory network</li>
<li><a href="/api/analytics">/api/analytics</a> - Dashboard analytics</li>
<li><a href="/api/logistics/shipments">/api/logistics/shipments</a> - Logistics</li>
<li><a href="/api/scenarios">/api/scenarios</a> - Seed scenarios</li>
</ul>
</body>
</html>`))
	})
}
