package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/platelink/network-engine/network"
	"github.com/platelink/network-engine/platelet"
	"github.com/platelink/network-engine/platelet/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMonitor(t *testing.T, units []platelet.InventoryUnit) *ExpiryMonitor {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mem := store.NewMemory()
	require.NoError(t, mem.Replace(context.Background(), units))

	m := NewExpiryMonitor(platelet.NewInventory(mem, network.CityGeneral, logger), logger)
	m.Clock = func() time.Time { return testToday }
	return m
}

func TestExpiryMonitor_Check(t *testing.T) {
	// GIVEN: The crisis network
	m := newTestMonitor(t, network.CrisisInventory(testToday))
	assert.Nil(t, m.Latest())

	// WHEN: Running a check
	report, err := m.Check(context.Background())

	// THEN: Critical units are listed soonest first
	require.NoError(t, err)
	assert.Equal(t, []string{"c5", "c1", "c2", "c3"}, report.Critical)
	assert.Equal(t, 14, report.Summary.ByStatus[platelet.StatusCritical])
	assert.Equal(t, platelet.TruncateToDay(testToday), report.AsOf)
	assert.Same(t, report, m.Latest())
}

func TestExpiryMonitor_NoCriticalStock(t *testing.T) {
	m := newTestMonitor(t, []platelet.InventoryUnit{})

	report, err := m.Check(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, report.Critical)
	assert.Empty(t, report.Critical)
}

func TestExpiryMonitor_StartRunsImmediately(t *testing.T) {
	m := newTestMonitor(t, network.DemoInventory())
	m.CheckInterval = time.Hour

	m.Start()
	defer m.Stop()

	assert.Eventually(t, func() bool { return m.Latest() != nil }, time.Second, 10*time.Millisecond)
}

func TestExpiryMonitor_DisabledDoesNothing(t *testing.T) {
	m := newTestMonitor(t, network.DemoInventory())
	m.Enabled = false

	m.Start()
	m.Stop()

	assert.Nil(t, m.Latest())
}

func TestExpiryMonitor_StopIsIdempotent(t *testing.T) {
	m := newTestMonitor(t, network.DemoInventory())
	m.CheckInterval = 10 * time.Millisecond

	m.Start()
	m.Start()
	m.Stop()
	m.Stop()
}

func TestExpiryMonitor_ServeHTTP(t *testing.T) {
	h, _ := newTestServer(t, "demo")
	m := NewExpiryMonitor(h.Inventory, h.Logger)
	m.Clock = func() time.Time { return testToday }
	srv := NewRouter(h, RouterOptions{Monitor: m})

	rec := doRequest(t, srv, http.MethodGet, "/api/monitor", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "null", rec.Body.String())

	_, err := m.Check(context.Background())
	require.NoError(t, err)

	rec = doRequest(t, srv, http.MethodGet, "/api/monitor", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	report := decode[ExpiryReportDTO](t, rec)
	assert.Equal(t, []string{"p4"}, report.Critical)
	assert.Equal(t, 47, report.Analytics.TotalUnits)
}

func TestMonitorMetrics_ExportsLatestCheck(t *testing.T) {
	// GIVEN: A monitor over the crisis network with metrics attached
	m := newTestMonitor(t, network.CrisisInventory(testToday))
	m.Metrics = NewMonitorMetrics(prometheus.NewRegistry())
	h, _ := newTestServer(t, "")
	srv := NewRouter(h, RouterOptions{Monitor: m, Metrics: m.Metrics})

	// WHEN: A check runs and /metrics is scraped
	_, err := m.Check(context.Background())
	require.NoError(t, err)
	rec := doRequest(t, srv, http.MethodGet, "/metrics", nil)

	// THEN: The gauges reflect the report
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `platelink_units{status="critical"} 14`)
	assert.Contains(t, body, `platelink_units{status="warning"} 11`)
	assert.Contains(t, body, `platelink_units{status="stable"} 2`)
	assert.Contains(t, body, "platelink_units_expiring_today 25")
	assert.Contains(t, body, "platelink_locations 3")
	assert.Contains(t, body, "platelink_expiry_checks_total 1")
}
