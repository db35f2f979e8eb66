package order

import (
	"fmt"
	"strings"

	"marketplace/domain/shared"
)

// Status Order status enum
type Status string

const (
	StatusPaid       Status = "paid" // Pre-state set at checkout, never settable by a seller
	StatusProcessing Status = "processing"
	StatusPacked     Status = "packed"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// sellerStatuses are the statuses a seller may set through Transition.
var sellerStatuses = []Status{StatusProcessing, StatusPacked, StatusShipped, StatusDelivered, StatusCancelled}

// ParseStatus accepts only the exact lowercase names of the seller-settable statuses.
func ParseStatus(s string) (Status, error) {
	for _, st := range sellerStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", NewInvalidStatusError(s)
}

func (s Status) String() string { return string(s) }

// PayoutStatus tracks whether an order's proceeds were paid to its artisans.
type PayoutStatus string

const (
	PayoutPending PayoutStatus = "pending"
	PayoutPaid    PayoutStatus = "paid"
)

// ============================================================================
// Transition Policy
// ============================================================================

// TransitionPolicy decides whether a status change is allowed.
type TransitionPolicy interface {
	Allow(from, to Status) bool
}

// Unconstrained lets an authorized seller move an order between any statuses, backwards included.
type Unconstrained struct{}

func (Unconstrained) Allow(_, _ Status) bool { return true }

// TransitionTable only permits the listed edges. Statuses without an entry are terminal.
type TransitionTable map[Status][]Status

func (t TransitionTable) Allow(from, to Status) bool {
	for _, next := range t[from] {
		if next == to {
			return true
		}
	}
	return false
}

// DefaultTransitionTable is the forward-only lifecycle enabled by order.strict_transitions.
func DefaultTransitionTable() TransitionTable {
	return TransitionTable{
		StatusPaid:       {StatusProcessing, StatusCancelled},
		StatusProcessing: {StatusPacked, StatusShipped, StatusCancelled},
		StatusPacked:     {StatusShipped, StatusCancelled},
		StatusShipped:    {StatusDelivered},
	}
}

// PolicyFor returns the table when strict is set, otherwise Unconstrained.
func PolicyFor(strict bool) TransitionPolicy {
	if strict {
		return DefaultTransitionTable()
	}
	return Unconstrained{}
}

// ============================================================================
// Status details
// ============================================================================

// TransitionDetails carries the optional free-form input of a status change.
type TransitionDetails struct {
	Carrier        string
	TrackingNumber string
	Reason         string
}

// renderDetails builds the history note for a status. Only shipped and cancelled carry one.
func renderDetails(status Status, d TransitionDetails) string {
	switch status {
	case StatusShipped:
		carrier := strings.TrimSpace(d.Carrier)
		tracking := strings.TrimSpace(d.TrackingNumber)
		if tracking == "" {
			return ""
		}
		if carrier == "" {
			return "Tracking number " + tracking
		}
		return fmt.Sprintf("Shipped via %s, tracking number %s", carrier, tracking)
	case StatusCancelled:
		if reason := strings.TrimSpace(d.Reason); reason != "" {
			return "Reason: " + reason
		}
	}
	return ""
}

func invalidTransition(from, to Status) error {
	return shared.NewInvalidTransitionError("order", string(from), string(to))
}
