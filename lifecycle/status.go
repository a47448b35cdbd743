package lifecycle

import "fmt"

// Status is the closed set of order lifecycle states. Orders are created as
// StatusPending by the ordering flow and afterwards move only along the
// transition graph below.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusPreparing Status = "PREPARING"
	StatusReady     Status = "READY"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// Statuses lists every valid status, in lifecycle order.
var Statuses = []Status{
	StatusPending,
	StatusPaid,
	StatusPreparing,
	StatusReady,
	StatusDelivered,
	StatusCancelled,
}

// ParseStatus validates a raw string coming from a request or the database.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown order status %q", raw)
	}
	return s, nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status has no outgoing transitions.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

func (s Status) String() string {
	return string(s)
}

// allowedTransitions is the directed transition graph. PAID -> READY is
// intentional: the kitchen may mark an order ready without ever marking it
// preparing first.
var allowedTransitions = map[Status][]Status{
	StatusPending:   {StatusPaid, StatusCancelled},
	StatusPaid:      {StatusPreparing, StatusReady, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

// CanTransition reports whether the edge from -> to exists in the graph,
// independent of who is asking.
func CanTransition(from, to Status) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedTargets returns the legal next statuses for the given status.
func AllowedTargets(from Status) []Status {
	return allowedTransitions[from]
}
