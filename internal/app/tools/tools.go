package tools

import (
	"context"

	"github.com/PabloGalante/comanda-agent/internal/domain"
)

// ToolContext brings metadata of the call to the tool
type ToolContext struct {
	RequestID     string
	CorrelationID string
}

// Tool represents a tool the assistant can invoke mid-turn. Call returns the
// outcome as plain text, which is what the model receives back. A nil error
// with a failure-worded outcome is how a tool reports a domain-level refusal;
// a non-nil error means the turn itself is broken.
type Tool interface {
	Name() string
	Definition() domain.ToolDefinition
	Call(ctx context.Context, tctx ToolContext, args map[string]any) (string, error)
}
