package network

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/platelink/network-engine/platelet"
)

// =============================================================================
// CONFIRMATION-ONLY REQUESTS
// =============================================================================
// Transfers, emergency requests and donor alerts are acknowledged and logged.
// None of them changes the inventory or delivers anything.

type RequestKind string

const (
	KindTransfer   RequestKind = "transfer"
	KindEmergency  RequestKind = "emergency"
	KindDonorAlert RequestKind = "donor_alert"
)

// Prompt is what the user is asked before a request is sent.
type Prompt struct {
	Kind        RequestKind
	Title       string
	Message     string
	ConfirmText string
}

// Receipt acknowledges a confirmed request.
type Receipt struct {
	ID      string
	Kind    RequestKind
	Message string
	SentAt  time.Time
}

func TransferPrompt(unit platelet.InventoryUnit) Prompt {
	return Prompt{
		Kind:        KindTransfer,
		Title:       "Confirm Platelet Transfer",
		Message:     fmt.Sprintf("Request %d units of %s from %s?", unit.Quantity, unit.BloodType, unit.Hospital),
		ConfirmText: "Confirm Request",
	}
}

func EmergencyPrompt() Prompt {
	return Prompt{
		Kind:        KindEmergency,
		Title:       "Emergency Transfer Request",
		Message:     "Are you sure you want to initiate an emergency platelet transfer request across the network?",
		ConfirmText: "Send Request",
	}
}

func DonorAlertPrompt(bt platelet.BloodType) Prompt {
	return Prompt{
		Kind:        KindDonorAlert,
		Title:       "Alert Donors in Your Area",
		Message:     fmt.Sprintf("Send a push notification to registered donors in your vicinity about low %s platelet supply?", bt),
		ConfirmText: "Send Alert",
	}
}

// Desk issues prompts and receipts, looking units up through the inventory.
type Desk struct {
	Inventory *platelet.Inventory
	Logger    *slog.Logger
	Now       func() time.Time
}

func NewDesk(inv *platelet.Inventory, logger *slog.Logger) *Desk {
	if logger == nil {
		logger = slog.Default()
	}
	return &Desk{Inventory: inv, Logger: logger, Now: time.Now}
}

// PrepareTransfer returns the confirmation prompt for moving a unit.
func (d *Desk) PrepareTransfer(ctx context.Context, unitID string, today time.Time) (Prompt, error) {
	unit, err := d.Inventory.Get(ctx, unitID, today)
	if err != nil {
		return Prompt{}, err
	}
	return TransferPrompt(unit.InventoryUnit), nil
}

// ConfirmTransfer acknowledges a transfer request. The unit stays where it is.
func (d *Desk) ConfirmTransfer(ctx context.Context, unitID string, today time.Time) (Receipt, error) {
	unit, err := d.Inventory.Get(ctx, unitID, today)
	if err != nil {
		return Receipt{}, err
	}
	r := d.receipt(KindTransfer, fmt.Sprintf("Transfer request for %s sent!", unit.BloodType))
	d.Logger.Info("Transfer requested",
		slog.String("request_id", r.ID),
		slog.String("unit_id", unit.ID),
		slog.String("from", unit.Hospital),
		slog.Int("quantity", unit.Quantity))
	return r, nil
}

// ConfirmEmergency acknowledges a network-wide emergency request.
func (d *Desk) ConfirmEmergency(_ context.Context) Receipt {
	r := d.receipt(KindEmergency, "Emergency request sent!")
	d.Logger.Warn("Emergency transfer requested", slog.String("request_id", r.ID))
	return r
}

// ConfirmDonorAlert acknowledges a donor alert for a blood type.
func (d *Desk) ConfirmDonorAlert(_ context.Context, bt platelet.BloodType) (Receipt, error) {
	if !bt.Valid() {
		return Receipt{}, &platelet.ValidationError{
			Field:   "blood_type",
			Message: fmt.Sprintf("%q is not an ABO/Rh type", bt),
			Err:     platelet.ErrInvalidBloodType,
		}
	}
	r := d.receipt(KindDonorAlert, "Donor alert sent!")
	d.Logger.Info("Donor alert requested", slog.String("request_id", r.ID), slog.String("blood_type", bt.String()))
	return r, nil
}

func (d *Desk) receipt(kind RequestKind, msg string) Receipt {
	return Receipt{ID: uuid.NewString(), Kind: kind, Message: msg, SentAt: d.Now().UTC()}
}
