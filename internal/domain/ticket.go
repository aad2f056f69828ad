package domain

import "time"

// EventTicket is a ticket type offered for an event (e.g. "VIP").
// Amount is the total number of units ever offered and never changes
// after creation. Stock is derived: amount minus sold tickets, written
// only by the stock reconciler.
type EventTicket struct {
	ID          int64
	EventID     int64
	Title       string
	Description string
	Price       float64
	Amount      int
	Stock       int
}

// EventTicketPatch carries the optional fields of a partial update.
// Amount and Stock are deliberately absent: amount is an immutable
// business input and stock belongs to the reconciler.
type EventTicketPatch struct {
	Title       *string
	Description *string
	Price       *float64
}

// Empty reports whether the patch would change nothing.
func (p EventTicketPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Price == nil
}

// Ticket is one sold unit in the sales ledger. Rows are created on
// purchase and deleted on refund, never updated in place.
type Ticket struct {
	ID            int64
	EventTicketID int64
	UserID        string
	CreatedAt     time.Time
}
