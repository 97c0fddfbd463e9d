/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the platelet domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Inventory:
    UnitDTO, AddBatchRequest

  Analytics:
    AnalyticsDTO, UsageTrendDTO, DemandRegionDTO

  Requests:
    PromptDTO, ReceiptDTO, DonorAlertRequest

  Logistics:
    ShipmentDTO

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Validation is done by the platelet package, not in DTOs.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/platelink/network-engine/network"
	"github.com/platelink/network-engine/platelet"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// UnitDTO represents an annotated inventory unit.
type UnitDTO struct {
	ID           string  `json:"id"`
	Hospital     string  `json:"hospital"`
	BloodType    string  `json:"blood_type"`
	Quantity     int     `json:"quantity"`
	Expiry       string  `json:"expiry"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	DaysToExpiry int     `json:"days_to_expiry"`
	Status       string  `json:"status"`
	Label        string  `json:"label"`
}

// AddBatchRequest is the "add new batch" form.
type AddBatchRequest struct {
	BloodType string `json:"blood_type"`
	Quantity  int    `json:"quantity"`
	Expiry    string `json:"expiry"` // YYYY-MM-DD
}

// AnalyticsDTO carries the dashboard headline cards.
type AnalyticsDTO struct {
	TotalUnits       int            `json:"total_units"`
	ExpiringToday    int            `json:"expiring_today"`
	TotalHospitals   int            `json:"total_hospitals"`
	WastageReduction float64        `json:"wastage_reduction"`
	ByStatus         map[string]int `json:"by_status"`
	AsOf             string         `json:"as_of"`
}

// UsageTrendDTO is the 7-day usage chart.
type UsageTrendDTO struct {
	Labels []string  `json:"labels"`
	Values []int     `json:"values"`
	Shares []float64 `json:"shares"`
	Max    int       `json:"max"`
	Avg    float64   `json:"avg"`
}

// DemandRegionDTO is one cell of the demand hotspot grid.
type DemandRegionDTO struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

// ShipmentDTO is one row of the logistics panel.
type ShipmentDTO struct {
	ID           string `json:"id"`
	BloodType    string `json:"blood_type"`
	From         string `json:"from"`
	To           string `json:"to"`
	Status       string `json:"status"`
	TemperatureF *int   `json:"temperature_f,omitempty"`
}

// FacilityDTO is a partner hospital.
type FacilityDTO struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Home bool    `json:"home"`
}

// PromptDTO is the confirmation dialog for a request.
type PromptDTO struct {
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	ConfirmText string `json:"confirm_text"`
}

// ReceiptDTO acknowledges a confirmed request.
type ReceiptDTO struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	SentAt  string `json:"sent_at"`
}

// DonorAlertRequest selects the blood type donors are alerted about.
type DonorAlertRequest struct {
	BloodType string `json:"blood_type"`
}

// ScenarioDTO represents a seed inventory.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toUnitDTO(a platelet.AnnotatedUnit) UnitDTO {
	return UnitDTO{
		ID:           a.ID,
		Hospital:     a.Hospital,
		BloodType:    string(a.BloodType),
		Quantity:     a.Quantity,
		Expiry:       platelet.FormatDate(a.Expiry),
		Lat:          a.Lat,
		Lon:          a.Lon,
		DaysToExpiry: a.DaysToExpiry,
		Status:       string(a.Status()),
		Label:        a.Label(),
	}
}

func toUnitDTOs(units []platelet.AnnotatedUnit) []UnitDTO {
	dtos := make([]UnitDTO, len(units))
	for i, u := range units {
		dtos[i] = toUnitDTO(u)
	}
	return dtos
}

func toAnalyticsDTO(s platelet.Summary, asOf time.Time) AnalyticsDTO {
	wastage, _ := network.WastageReduction.Float64()
	byStatus := make(map[string]int, len(s.ByStatus))
	for st, qty := range s.ByStatus {
		byStatus[string(st)] = qty
	}
	return AnalyticsDTO{
		TotalUnits:       s.TotalUnits,
		ExpiringToday:    s.ExpiringToday,
		TotalHospitals:   s.DistinctLocations,
		WastageReduction: wastage,
		ByStatus:         byStatus,
		AsOf:             platelet.FormatDate(asOf),
	}
}

func toUsageTrendDTO(u network.UsageTrend) UsageTrendDTO {
	avg, _ := u.Avg().Float64()
	shares := u.Share()
	floats := make([]float64, len(shares))
	for i, s := range shares {
		floats[i], _ = s.Float64()
	}
	return UsageTrendDTO{Labels: u.Labels, Values: u.Values, Shares: floats, Max: u.Max(), Avg: avg}
}

func toPromptDTO(p network.Prompt) PromptDTO {
	return PromptDTO{Kind: string(p.Kind), Title: p.Title, Message: p.Message, ConfirmText: p.ConfirmText}
}

func toReceiptDTO(r network.Receipt) ReceiptDTO {
	return ReceiptDTO{ID: r.ID, Kind: string(r.Kind), Message: r.Message, SentAt: r.SentAt.Format(time.RFC3339)}
}
