package lifecycle

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the order id does not exist.
	ErrNotFound = errors.New("order not found")

	// ErrForbidden means the actor's role may not request the target status.
	ErrForbidden = errors.New("role is not allowed to perform this transition")

	// ErrInvalidPaymentMethod means the PAID transition was requested without
	// a payment method, or with one outside CASH/CARD/TRANSFER.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrConflict means another actor transitioned the order between our read
	// and our conditional write. Retryable after reloading the order.
	ErrConflict = errors.New("order was modified concurrently, reload and retry")
)

// InvalidTransitionError reports a request for an edge that is not in the
// transition graph, carrying both statuses for client-side diagnostics.
type InvalidTransitionError struct {
	Current   Status
	Requested Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.Current, e.Requested)
}

// IsInvalidTransition reports whether err is an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var ite *InvalidTransitionError
	return errors.As(err, &ite)
}
