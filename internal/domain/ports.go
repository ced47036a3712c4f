package domain

import "context"

// ConversationClient maintains one long-lived dialogue with the hosted model
// and mediates every request and response.
type ConversationClient interface {
	// Initialize establishes the session with a fixed behavioral instruction
	// and the declared tools. It must be called exactly once before any send.
	Initialize(ctx context.Context, systemPrompt string, tools []ToolDefinition) error

	// Send forwards one user turn and returns either plain text or a
	// requested action.
	Send(ctx context.Context, userText string) (*Response, error)

	// SendToolResult reports the outcome of an invocation the service asked
	// for, reusing its correlation token, and returns the follow-up reply.
	SendToolResult(ctx context.Context, result ToolResult) (*Response, error)
}

// TranscriptStore owns the ordered message log and its single pending slot.
type TranscriptStore interface {
	// Append adds a resolved record. It fails while a pending entry exists,
	// which keeps the pending entry the last one.
	Append(msg *Message) error

	// BeginPending places the in-flight placeholder at the end of the log.
	// At most one pending entry may exist.
	BeginPending(msg *Message) error

	// ResolvePending rewrites the pending entry in place as a bot message
	// and returns the resolved record.
	ResolvePending(text string, at Timestamp) (*Message, error)

	// Messages returns a snapshot of the last limit entries (all of them
	// when limit <= 0).
	Messages(limit int) []*Message

	HasPending() bool
}

// OrderStore records the orders the tool has placed.
type OrderStore interface {
	AppendOrder(order *PlacedOrder) error

	// ListOrders returns the last limit placed orders in placement order
	// (all of them when limit <= 0).
	ListOrders(limit int) ([]*PlacedOrder, error)
}
