/*
monitor.go - Periodic expiry report

PURPOSE:
  Periodically re-derives the expiry tiers of the whole network and logs
  them, so operators see stock crossing into the critical tier without
  opening the dashboard. Nothing is sent anywhere; the latest report is
  kept in memory and served at GET /api/monitor, and exported as
  Prometheus gauges at GET /metrics when Metrics is set.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Runs once immediately on Start
  - Reads the collection through the Inventory service each tick

USAGE:
  monitor := NewExpiryMonitor(inventory, logger)
  monitor.Start()
  // ... later
  monitor.Stop()

SEE ALSO:
  - platelet/analytics.go: Summarize
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/platelink/network-engine/platelet"
)

// ExpiryReport is the outcome of one monitor check.
type ExpiryReport struct {
	CheckedAt time.Time
	AsOf      time.Time
	Summary   platelet.Summary
	Critical  []string // ids of critical units, soonest first
}

// ExpiryMonitor periodically summarizes the network.
type ExpiryMonitor struct {
	Inventory     *platelet.Inventory
	Logger        *slog.Logger
	CheckInterval time.Duration
	Enabled       bool
	Clock         func() time.Time
	Metrics       *MonitorMetrics // optional

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
	latest *ExpiryReport
}

// NewExpiryMonitor creates a new monitor.
func NewExpiryMonitor(inv *platelet.Inventory, logger *slog.Logger) *ExpiryMonitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpiryMonitor{
		Inventory:     inv,
		Logger:        logger,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		Clock:         time.Now,
	}
}

// Start begins the monitor.
func (m *ExpiryMonitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.Enabled {
		m.Logger.Info("Expiry monitor disabled, not starting")
		return
	}
	if m.ticker != nil {
		return
	}

	m.ticker = time.NewTicker(m.CheckInterval)
	m.stop = make(chan struct{})
	m.wg.Add(1)

	go m.run(m.ticker, m.stop)

	m.Logger.Info("Expiry monitor started", slog.Duration("interval", m.CheckInterval))
}

// Stop stops the monitor and waits for the running check to finish.
func (m *ExpiryMonitor) Stop() {
	m.mu.Lock()
	ticker, stop := m.ticker, m.stop
	m.ticker, m.stop = nil, nil
	m.mu.Unlock()

	if ticker == nil {
		return
	}
	ticker.Stop()
	close(stop)
	m.wg.Wait()
	m.Logger.Info("Expiry monitor stopped")
}

func (m *ExpiryMonitor) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer m.wg.Done()

	m.Check(context.Background())

	for {
		select {
		case <-ticker.C:
			m.Check(context.Background())
		case <-stop:
			return
		}
	}
}

// Check derives a fresh report, logs it and keeps it as the latest.
func (m *ExpiryMonitor) Check(ctx context.Context) (*ExpiryReport, error) {
	now := m.Clock()
	today := platelet.TruncateToDay(now)

	units, err := m.Inventory.Units(ctx)
	if err != nil {
		m.Logger.Error("Expiry check failed", slog.String("error", err.Error()))
		if m.Metrics != nil {
			m.Metrics.observeError()
		}
		return nil, err
	}

	report := &ExpiryReport{
		CheckedAt: now,
		AsOf:      today,
		Summary:   platelet.Summarize(units, today),
		Critical:  []string{},
	}
	for _, u := range platelet.Query(units, platelet.QueryParams{Filter: platelet.FilterAll}, today) {
		if u.Status() == platelet.StatusCritical {
			report.Critical = append(report.Critical, u.ID)
		}
	}

	m.mu.Lock()
	m.latest = report
	m.mu.Unlock()
	if m.Metrics != nil {
		m.Metrics.observe(report)
	}

	level := slog.LevelInfo
	if len(report.Critical) > 0 {
		level = slog.LevelWarn
	}
	m.Logger.Log(ctx, level, "Expiry check",
		slog.String("as_of", platelet.FormatDate(today)),
		slog.Int("total_units", report.Summary.TotalUnits),
		slog.Int("expiring_today", report.Summary.ExpiringToday),
		slog.Int("critical", report.Summary.ByStatus[platelet.StatusCritical]),
		slog.Int("warning", report.Summary.ByStatus[platelet.StatusWarning]),
		slog.Int("stable", report.Summary.ByStatus[platelet.StatusStable]))
	return report, nil
}

// Latest returns the most recent report, or nil before the first check.
func (m *ExpiryMonitor) Latest() *ExpiryReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latest
}

// ExpiryReportDTO is the JSON form of ExpiryReport.
type ExpiryReportDTO struct {
	CheckedAt string       `json:"checked_at"`
	Analytics AnalyticsDTO `json:"analytics"`
	Critical  []string     `json:"critical"`
}

// ServeHTTP returns the latest report, or null before the first check.
func (m *ExpiryMonitor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	report := m.Latest()
	if report == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, ExpiryReportDTO{
		CheckedAt: report.CheckedAt.UTC().Format(time.RFC3339),
		Analytics: toAnalyticsDTO(report.Summary, report.AsOf),
		Critical:  report.Critical,
	})
}
