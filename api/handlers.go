/*
handlers.go - HTTP API handlers for the platelet network dashboard

PURPOSE:
  Exposes the inventory engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the platelet and network packages.

ENDPOINTS:
  Inventory:
    GET    /api/inventory                        Annotated, filtered, sorted list
    POST   /api/inventory                        Add a new batch
    GET    /api/inventory/{id}                   Single annotated unit
    POST   /api/inventory/{id}/transfer-request  Transfer confirmation prompt
    POST   /api/inventory/{id}/transfer-request/confirm  Send (no-op) transfer

  Dashboard:
    GET    /api/analytics                        Headline counts
    GET    /api/dashboard/usage                  7-day usage chart
    GET    /api/dashboard/demand                 Demand hotspots

  Network:
    GET    /api/facilities                       Partner hospitals
    GET    /api/blood-types                      Accepted blood types
    GET    /api/logistics/shipments              Logistics panel
    GET    /api/emergency-requests/prompt        Emergency prompt
    POST   /api/emergency-requests               Send (no-op) emergency request
    GET    /api/donor-alerts/prompt              Donor alert prompt
    POST   /api/donor-alerts                     Send (no-op) donor alert

QUERY PARAMETERS (GET /api/inventory):
  search   Case-insensitive substring of hospital or blood type
  filter   all | expiring | my_location (my_hospital accepted)

DERIVE, DON'T CACHE:
  Every handler reads the collection from the store and recomputes the view.
  "Today" comes from the handler clock so tests can pin it.

ERROR HANDLING:
  - 400: Validation errors, invalid input
  - 404: Unit not found
  - 409: Id conflict
  - 500: Internal errors

SECURITY NOTE:
  No authentication. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Seed inventories
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/platelink/network-engine/network"
	"github.com/platelink/network-engine/platelet"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Inventory *platelet.Inventory
	Desk      *network.Desk
	Logger    *slog.Logger

	// Clock supplies "today". Defaults to time.Now.
	Clock func() time.Time

	mu              sync.RWMutex
	currentScenario string
}

// NewHandler creates a new handler over the given inventory.
func NewHandler(inv *platelet.Inventory, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Inventory: inv,
		Desk:      network.NewDesk(inv, logger),
		Logger:    logger,
		Clock:     time.Now,
	}
}

func (h *Handler) today() time.Time {
	return platelet.TruncateToDay(h.Clock())
}

// =============================================================================
// INVENTORY HANDLERS
// =============================================================================

// ListInventory returns the annotated inventory view.
func (h *Handler) ListInventory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := platelet.ParseFilterMode(q.Get("filter"))
	if err != nil {
		writeDomainError(w, "Invalid filter", err)
		return
	}

	units, err := h.Inventory.Query(r.Context(), q.Get("search"), filter, h.today())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list inventory", err)
		return
	}

	writeJSON(w, http.StatusOK, toUnitDTOs(units))
}

// GetUnit returns a single annotated unit.
func (h *Handler) GetUnit(w http.ResponseWriter, r *http.Request) {
	unit, err := h.Inventory.Get(r.Context(), chi.URLParam(r, "id"), h.today())
	if err != nil {
		writeDomainError(w, "Failed to get unit", err)
		return
	}

	writeJSON(w, http.StatusOK, toUnitDTO(unit))
}

// AddBatch creates a new batch at the home facility.
func (h *Handler) AddBatch(w http.ResponseWriter, r *http.Request) {
	var req AddBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	unit, err := h.Inventory.AddBatch(r.Context(), platelet.BatchInput{
		BloodType: req.BloodType,
		Quantity:  req.Quantity,
		Expiry:    req.Expiry,
	})
	if err != nil {
		writeDomainError(w, "Failed to add batch", err)
		return
	}

	writeJSON(w, http.StatusCreated, toUnitDTO(platelet.Annotate(unit, h.today())))
}

// PrepareTransfer returns the confirmation prompt for a transfer.
func (h *Handler) PrepareTransfer(w http.ResponseWriter, r *http.Request) {
	prompt, err := h.Desk.PrepareTransfer(r.Context(), chi.URLParam(r, "id"), h.today())
	if err != nil {
		writeDomainError(w, "Failed to prepare transfer", err)
		return
	}

	writeJSON(w, http.StatusOK, toPromptDTO(prompt))
}

// ConfirmTransfer acknowledges a transfer. Inventory is not changed.
func (h *Handler) ConfirmTransfer(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.Desk.ConfirmTransfer(r.Context(), chi.URLParam(r, "id"), h.today())
	if err != nil {
		writeDomainError(w, "Failed to send transfer request", err)
		return
	}

	writeJSON(w, http.StatusAccepted, toReceiptDTO(receipt))
}

// =============================================================================
// DASHBOARD HANDLERS
// =============================================================================

// GetAnalytics returns the headline counts.
func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	today := h.today()
	summary, err := h.Inventory.Summary(r.Context(), today)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute analytics", err)
		return
	}

	writeJSON(w, http.StatusOK, toAnalyticsDTO(summary, today))
}

// GetUsageTrend returns the 7-day usage chart.
func (h *Handler) GetUsageTrend(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toUsageTrendDTO(network.LastWeekUsage()))
}

// GetDemandHotspots returns the regional demand grid.
func (h *Handler) GetDemandHotspots(w http.ResponseWriter, r *http.Request) {
	regions := network.DemandHotspots()
	dtos := make([]DemandRegionDTO, len(regions))
	for i, reg := range regions {
		dtos[i] = DemandRegionDTO{Name: reg.Name, Level: string(reg.Level)}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// NETWORK HANDLERS
// =============================================================================

// ListFacilities returns the partner hospitals, marking the home facility.
func (h *Handler) ListFacilities(w http.ResponseWriter, r *http.Request) {
	home := h.Inventory.Home
	dtos := make([]FacilityDTO, 0, len(network.Facilities)+1)
	seenHome := false
	for _, f := range network.Facilities {
		isHome := f.Name == home.Name
		seenHome = seenHome || isHome
		dtos = append(dtos, FacilityDTO{Name: f.Name, Lat: f.Lat, Lon: f.Lon, Home: isHome})
	}
	if !seenHome {
		dtos = append(dtos, FacilityDTO{Name: home.Name, Lat: home.Lat, Lon: home.Lon, Home: true})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListBloodTypes returns the accepted blood types in display order.
func (h *Handler) ListBloodTypes(w http.ResponseWriter, r *http.Request) {
	types := make([]string, len(platelet.BloodTypes))
	for i, bt := range platelet.BloodTypes {
		types[i] = string(bt)
	}
	writeJSON(w, http.StatusOK, types)
}

// ListShipments returns the logistics panel rows.
func (h *Handler) ListShipments(w http.ResponseWriter, r *http.Request) {
	shipments := network.ActiveShipments()
	dtos := make([]ShipmentDTO, len(shipments))
	for i, s := range shipments {
		dtos[i] = ShipmentDTO{
			ID:           s.ID,
			BloodType:    s.BloodType,
			From:         s.From,
			To:           s.To,
			Status:       string(s.Status),
			TemperatureF: s.TemperatureF,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmergencyPrompt returns the emergency request dialog.
func (h *Handler) GetEmergencyPrompt(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toPromptDTO(network.EmergencyPrompt()))
}

// SendEmergencyRequest acknowledges an emergency request.
func (h *Handler) SendEmergencyRequest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusAccepted, toReceiptDTO(h.Desk.ConfirmEmergency(r.Context())))
}

// GetDonorAlertPrompt returns the donor alert dialog (blood_type defaults to A+).
func (h *Handler) GetDonorAlertPrompt(w http.ResponseWriter, r *http.Request) {
	bt := donorBloodType(r.URL.Query().Get("blood_type"))
	if !bt.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid blood_type", platelet.ErrInvalidBloodType)
		return
	}
	writeJSON(w, http.StatusOK, toPromptDTO(network.DonorAlertPrompt(bt)))
}

// SendDonorAlert acknowledges a donor alert.
func (h *Handler) SendDonorAlert(w http.ResponseWriter, r *http.Request) {
	var req DonorAlertRequest
	// An empty body is a plain alert with no blood type
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	receipt, err := h.Desk.ConfirmDonorAlert(r.Context(), donorBloodType(req.BloodType))
	if err != nil {
		writeDomainError(w, "Failed to send donor alert", err)
		return
	}
	writeJSON(w, http.StatusAccepted, toReceiptDTO(receipt))
}

func donorBloodType(s string) platelet.BloodType {
	if s == "" {
		return platelet.BloodAPos
	}
	return platelet.BloodType(s)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps platelet errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	var vErr *platelet.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   message,
			Code:    "invalid_" + vErr.Field,
			Details: vErr.Message,
		})
	case platelet.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Unit not found", err)
	case platelet.IsConflict(err):
		writeError(w, http.StatusConflict, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
