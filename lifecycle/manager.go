package lifecycle

import (
	"context"
	"time"

	"github.com/lacasadelchilaquil/chilaquiles-app/models"
	"github.com/lacasadelchilaquil/chilaquiles-app/utils"
)

// Manager is the single choke point every status-changing operation goes
// through: permission check, transition check, then a conditional persist.
// It has no side effects beyond the persisted state change; broadcasting to
// dashboards is the caller's concern.
type Manager struct {
	store OrderStore
}

func NewManager(store OrderStore) *Manager {
	return &Manager{store: store}
}

// TransitionRequest carries everything a transition needs. Role is resolved
// once at the request boundary and passed in explicitly; the manager never
// reads ambient auth state.
type TransitionRequest struct {
	OrderID       string
	Target        Status
	Role          Role
	PaymentMethod PaymentMethod // only consulted for the PAID transition
}

// ApplyTransition validates and applies a status transition.
//
// Order of checks: permission first (a forbidden role never touches the
// store), then load, then the transition graph, then a compare-and-swap
// persist keyed on the status that was read. When the swap fails because a
// concurrent actor transitioned the order first, the call fails with
// ErrConflict and the caller should reload and decide whether to retry.
func (m *Manager) ApplyTransition(ctx context.Context, req TransitionRequest) (*models.Order, error) {
	if !RoleMaySet(req.Role, req.Target) {
		utils.ErrorLogger.Printf("transition denied: role=%s target=%s order=%s",
			req.Role, req.Target, req.OrderID)
		return nil, ErrForbidden
	}

	order, err := m.store.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	current := Status(order.Status)
	if !CanTransition(current, req.Target) {
		return nil, &InvalidTransitionError{Current: current, Requested: req.Target}
	}

	now := time.Now()

	// The PAID transition also records how and when the customer paid, in the
	// same conditional write so status and payment metadata never diverge.
	var blob *string
	if req.Target == StatusPaid {
		if !req.PaymentMethod.Valid() {
			return nil, ErrInvalidPaymentMethod
		}
		meta, err := DecodeMetadata(order.Metadata)
		if err != nil {
			return nil, err
		}
		meta.PaymentMethod = req.PaymentMethod
		meta.PaidAt = &now
		encoded, err := meta.Encode()
		if err != nil {
			return nil, err
		}
		blob = &encoded
	}

	swapped, err := m.store.UpdateStatusCAS(ctx, req.OrderID, current, req.Target, blob, now)
	if err != nil {
		return nil, err
	}
	if !swapped {
		// The status changed between our read and our write. Orders are never
		// deleted by normal operation, so this is a race, not a vanished row.
		return nil, ErrConflict
	}

	order.Status = req.Target.String()
	order.UpdatedAt = now
	if blob != nil {
		order.Metadata = *blob
	}

	utils.InfoLogger.Printf("order %s: %s -> %s (by %s)", order.ID, current, req.Target, req.Role)
	return order, nil
}
