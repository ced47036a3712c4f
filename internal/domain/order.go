package domain

import (
	"fmt"
	"strings"
)

// Order is the cosmetic record built when the assistant places an order.
// The number is a display identifier only, not a key: it is drawn at random
// and collisions across orders are acceptable.
type Order struct {
	Number int
	Items  []string
}

// Confirmation renders the human-readable outcome line. It is what the model
// receives as the tool result, and what the transcript shows verbatim when
// the model's follow-up reply comes back empty.
func (o Order) Confirmation() string {
	return fmt.Sprintf("Your order for %s has been placed. Your order number is %d.",
		strings.Join(o.Items, ", "), o.Number)
}

// PlacedOrder is the record kept for each order the tool placed, the
// kitchen-side trace of the conversation. It lives in memory only and dies
// with the process.
type PlacedOrder struct {
	ID            OrderID
	Number        int
	Items         []string
	CorrelationID string
	PlacedAt      Timestamp
}
