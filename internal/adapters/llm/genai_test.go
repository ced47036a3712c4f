package llm

import (
	"context"
	"testing"

	"github.com/PabloGalante/comanda-agent/internal/config"
	"github.com/PabloGalante/comanda-agent/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func textResponse(texts ...string) *genai.GenerateContentResponse {
	parts := make([]*genai.Part, 0, len(texts))
	for _, t := range texts {
		parts = append(parts, &genai.Part{Text: t})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: parts}},
		},
	}
}

func callResponse(calls ...*genai.FunctionCall) *genai.GenerateContentResponse {
	parts := make([]*genai.Part, 0, len(calls))
	for _, c := range calls {
		parts = append(parts, &genai.Part{FunctionCall: c})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: parts}},
		},
	}
}

func TestMapResponse_PlainText(t *testing.T) {
	resp := mapResponse(context.Background(), textResponse("We have pizza and pasta."))

	assert.Equal(t, domain.ResponsePlainText, resp.Kind)
	assert.Equal(t, "We have pizza and pasta.", resp.Text)
	assert.Nil(t, resp.Invocation)
}

func TestMapResponse_FunctionCall(t *testing.T) {
	resp := mapResponse(context.Background(), callResponse(&genai.FunctionCall{
		ID:   "call-1",
		Name: "placeOrder",
		Args: map[string]any{"items": []any{"Pizza"}},
	}))

	assert.Equal(t, domain.ResponseActionRequested, resp.Kind)
	require.NotNil(t, resp.Invocation)
	assert.Equal(t, "call-1", resp.Invocation.ID)
	assert.Equal(t, "placeOrder", resp.Invocation.Name)
	assert.Equal(t, map[string]any{"items": []any{"Pizza"}}, resp.Invocation.Args)
}

func TestMapResponse_CallWinsOverText(t *testing.T) {
	res := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{
				{Text: "Let me place that for you."},
				{FunctionCall: &genai.FunctionCall{Name: "placeOrder"}},
			}}},
		},
	}

	resp := mapResponse(context.Background(), res)

	assert.Equal(t, domain.ResponseActionRequested, resp.Kind)
	assert.Empty(t, resp.Text, "accompanying text is dropped when a call is present")
}

func TestMapResponse_FirstCallWins(t *testing.T) {
	resp := mapResponse(context.Background(), callResponse(
		&genai.FunctionCall{ID: "first", Name: "placeOrder"},
		&genai.FunctionCall{ID: "second", Name: "placeOrder"},
	))

	require.NotNil(t, resp.Invocation)
	assert.Equal(t, "first", resp.Invocation.ID)
}

func TestMapResponse_EmptyResponse(t *testing.T) {
	resp := mapResponse(context.Background(), &genai.GenerateContentResponse{})

	assert.Equal(t, domain.ResponsePlainText, resp.Kind)
	assert.Empty(t, resp.Text)
}

func TestFunctionDeclaration(t *testing.T) {
	decl := functionDeclaration(domain.ToolDefinition{
		Name:        "placeOrder",
		Description: "Places a food order.",
		Parameters: domain.ParameterSchema{
			Properties: map[string]domain.PropertySpec{
				"items": {
					Type:        domain.ParamArray,
					Description: "The items to order.",
					Items:       &domain.PropertySpec{Type: domain.ParamString},
				},
			},
			Required: []string{"items"},
		},
	})

	assert.Equal(t, "placeOrder", decl.Name)
	assert.Equal(t, "Places a food order.", decl.Description)

	require.NotNil(t, decl.Parameters)
	assert.Equal(t, genai.TypeObject, decl.Parameters.Type)
	assert.Equal(t, []string{"items"}, decl.Parameters.Required)

	items, ok := decl.Parameters.Properties["items"]
	require.True(t, ok)
	assert.Equal(t, genai.TypeArray, items.Type)
	assert.Equal(t, "The items to order.", items.Description)
	require.NotNil(t, items.Items)
	assert.Equal(t, genai.TypeString, items.Items.Type)
}

func TestGenAIClient_ReadinessGuards(t *testing.T) {
	ctx := context.Background()
	c := &GenAIClient{}

	_, err := c.Send(ctx, "hello")
	require.ErrorIs(t, err, domain.ErrNotInitialized)

	_, err = c.SendToolResult(ctx, domain.ToolResult{ID: "x"})
	require.ErrorIs(t, err, domain.ErrNotInitialized)
}

func TestGenAIClient_CorrelationMismatch(t *testing.T) {
	ctx := context.Background()
	c := &GenAIClient{chat: &genai.Chat{}}

	// Nothing outstanding: any report is a protocol violation.
	_, err := c.SendToolResult(ctx, domain.ToolResult{ID: "call-1"})
	require.ErrorIs(t, err, domain.ErrCorrelationMismatch)

	// An outstanding id only matches itself.
	c.trackCorrelation(&domain.Response{
		Kind:       domain.ResponseActionRequested,
		Invocation: &domain.ToolInvocation{ID: "call-1"},
	})
	_, err = c.SendToolResult(ctx, domain.ToolResult{ID: "call-2"})
	require.ErrorIs(t, err, domain.ErrCorrelationMismatch)
}

func TestNewGenAIClient_RejectsIncompleteConfig(t *testing.T) {
	ctx := context.Background()

	_, err := NewGenAIClient(ctx, &config.Config{Backend: config.BackendGemini})
	require.Error(t, err, "gemini backend needs an API key")

	_, err = NewGenAIClient(ctx, &config.Config{Backend: config.BackendVertex})
	require.Error(t, err, "vertex backend needs a project")

	_, err = NewGenAIClient(ctx, &config.Config{Backend: "nonsense"})
	require.Error(t, err)
}
