/*
scenarios.go - Seed inventories for demos and tests

PURPOSE:

	Provides pre-built inventories that replace the whole collection. All
	data is fabricated; loading a scenario discards any added batches.

AVAILABLE SCENARIOS:

	rolling:  The six-batch demo network, expiries relative to today
	demo:     The same network with its original fixed November 2025 dates
	crisis:   Most stock expired or expiring within a day
	empty:    No stock at all

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "rolling"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Add a case to scenarioUnits

SEE ALSO:
  - network/catalog.go: Seed unit definitions
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/platelink/network-engine/network"
	"github.com/platelink/network-engine/platelet"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "rolling",
		Name:        "Rolling Demo Network",
		Description: "Three hospitals, six batches, expiries spread over the next week",
	},
	{
		ID:          "demo",
		Name:        "Fixed Demo Network",
		Description: "The six-batch network with its original November 2025 expiry dates",
	},
	{
		ID:          "crisis",
		Name:        "Expiry Crisis",
		Description: "Most stock expired or expiring within a day",
	},
	{
		ID:          "empty",
		Name:        "Empty Network",
		Description: "No stock anywhere",
	},
}

// ErrUnknownScenario is returned for a scenario id not in the list.
var ErrUnknownScenario = errors.New("unknown scenario")

func scenarioUnits(id string, today time.Time) ([]platelet.InventoryUnit, error) {
	switch id {
	case "rolling":
		return network.RollingInventory(today), nil
	case "demo":
		return network.DemoInventory(), nil
	case "crisis":
		return network.CrisisInventory(today), nil
	case "empty":
		return []platelet.InventoryUnit{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, id)
	}
}

// LoadScenarioByID replaces the inventory with the named scenario.
func (h *Handler) LoadScenarioByID(ctx context.Context, id string) error {
	units, err := scenarioUnits(id, h.today())
	if err != nil {
		return err
	}
	if err := h.Inventory.Load(ctx, units); err != nil {
		return err
	}

	h.mu.Lock()
	h.currentScenario = id
	h.mu.Unlock()

	h.Logger.Info("Scenario loaded", slog.String("scenario", id), slog.Int("units", len(units)))
	return nil
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	current := h.currentScenario
	h.mu.RUnlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}

	writeJSON(w, http.StatusOK, ScenarioDTO{
		ID:          current,
		Name:        current,
		Description: "Currently loaded scenario",
	})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.LoadScenarioByID(r.Context(), req.ScenarioID); err != nil {
		if errors.Is(err, ErrUnknownScenario) {
			writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}
