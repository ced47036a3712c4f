package tools

import (
	"context"
	"testing"

	"github.com/PabloGalante/comanda-agent/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTool struct {
	name string
}

func (t *staticTool) Name() string { return t.name }

func (t *staticTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{Name: t.name}
}

func (t *staticTool) Call(ctx context.Context, tctx ToolContext, args map[string]any) (string, error) {
	return "ok", nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.Register(&staticTool{name: "placeOrder"}))

	tool, err := reg.Get("placeOrder")
	require.NoError(t, err)
	assert.Equal(t, "placeOrder", tool.Name())
}

func TestRegistry_DuplicateName(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.Register(&staticTool{name: "placeOrder"}))

	err := reg.Register(&staticTool{name: "placeOrder"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistry_UnknownTool(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Get("cancelOrder")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRegistry_RejectsInvalidTools(t *testing.T) {
	reg := NewRegistry()

	require.Error(t, reg.Register(nil))
	require.Error(t, reg.Register(&staticTool{name: ""}))
}

func TestRegistry_DefinitionsSorted(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.Register(&staticTool{name: "zebra"}))
	require.NoError(t, reg.Register(&staticTool{name: "alpha"}))

	defs := reg.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "alpha", defs[0].Name)
	assert.Equal(t, "zebra", defs[1].Name)
}
