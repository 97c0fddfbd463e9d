package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListScenarios(t *testing.T) {
	_, srv := newTestServer(t, "")

	list := decode[[]ScenarioDTO](t, doRequest(t, srv, http.MethodGet, "/api/scenarios", nil))

	require.Len(t, list, 4)
	assert.Equal(t, "rolling", list[0].ID)
}

func TestLoadScenario_ReplacesInventory(t *testing.T) {
	// GIVEN: The demo network with one added batch
	_, srv := newTestServer(t, "demo")
	rec := doRequest(t, srv, http.MethodPost, "/api/inventory", AddBatchRequest{BloodType: "A+", Quantity: 1, Expiry: "2030-01-01"})
	require.Equal(t, http.StatusCreated, rec.Code)

	// WHEN: Loading the crisis scenario
	rec = doRequest(t, srv, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "crisis"})
	require.Equal(t, http.StatusOK, rec.Code)

	// THEN: Only crisis stock remains and it is the current scenario
	units := decode[[]UnitDTO](t, doRequest(t, srv, http.MethodGet, "/api/inventory", nil))
	assert.Len(t, units, 7)
	for _, u := range units {
		assert.Equal(t, byte('c'), u.ID[0])
	}

	current := decode[ScenarioDTO](t, doRequest(t, srv, http.MethodGet, "/api/scenarios/current", nil))
	assert.Equal(t, "crisis", current.ID)
}

func TestLoadScenario_Unknown(t *testing.T) {
	_, srv := newTestServer(t, "demo")

	rec := doRequest(t, srv, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "apocalypse"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	units := decode[[]UnitDTO](t, doRequest(t, srv, http.MethodGet, "/api/inventory", nil))
	assert.Len(t, units, 6)
}

func TestGetCurrentScenario_NoneLoaded(t *testing.T) {
	_, srv := newTestServer(t, "")

	rec := doRequest(t, srv, http.MethodGet, "/api/scenarios/current", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "null", rec.Body.String())
}

func TestRollingScenario_TracksClock(t *testing.T) {
	h, _ := newTestServer(t, "")
	require.NoError(t, h.LoadScenarioByID(context.Background(), "rolling"))

	summary, err := h.Inventory.Summary(context.Background(), h.today())

	require.NoError(t, err)
	assert.Equal(t, 47, summary.TotalUnits)
	assert.Equal(t, 12, summary.ExpiringToday)
}

func TestLoadScenarioByID_Unknown(t *testing.T) {
	h, _ := newTestServer(t, "")

	err := h.LoadScenarioByID(context.Background(), "nope")

	assert.ErrorIs(t, err, ErrUnknownScenario)
}
