// Package order holds the read model of gig orders needed by listing rules.
package order

import "time"

// RefundCompleted is the status of a settled refund request.
const RefundCompleted = "completed"

// Refund is a buyer refund request on an order.
type Refund struct {
	ID     uint
	Status string
}

// Order is a purchase of a gig.
type Order struct {
	ID              uint
	GigID           uint
	BuyerID         uint
	Completed       bool
	MutualCompleted bool
	Refunds         []Refund
	CreatedAt       time.Time
}

// Settled reports whether the order no longer blocks edits of its gig: it is
// still open, both parties marked it complete, or every refund request is completed.
func (o Order) Settled() bool {
	if !o.Completed || o.MutualCompleted {
		return true
	}
	for _, r := range o.Refunds {
		if r.Status != RefundCompleted {
			return false
		}
	}
	return true
}

// AllSettled reports whether every order is settled.
func AllSettled(orders []Order) bool {
	for _, o := range orders {
		if !o.Settled() {
			return false
		}
	}
	return true
}
