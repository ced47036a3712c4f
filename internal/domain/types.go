package domain

import "time"

type MessageID string

type OrderID string

type Role string

const (
	RoleUser    Role = "user"
	RoleBot     Role = "bot"
	RolePending Role = "pending"
)

// TurnState tracks where the active user turn is in its lifecycle.
// Resolved and failed are transient: both collapse back to idle.
type TurnState string

const (
	TurnIdle               TurnState = "idle"
	TurnSending            TurnState = "sending"
	TurnAwaitingToolResult TurnState = "awaiting_tool_result"
	TurnResolved           TurnState = "resolved"
	TurnFailed             TurnState = "failed"
)

type Timestamp = time.Time
