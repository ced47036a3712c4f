package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/PabloGalante/comanda-agent/internal/domain"
	"github.com/google/uuid"
)

// MockClient is a scripted stand-in for the hosted model, used in local mode
// and in tests. It follows the same session and correlation rules as the
// real client, so the rest of the stack cannot tell them apart.
type MockClient struct {
	mu             sync.Mutex
	initialized    bool
	tools          []domain.ToolDefinition
	outstanding    string
	hasOutstanding bool
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Initialize(ctx context.Context, systemPrompt string, tools []domain.ToolDefinition) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return domain.ErrAlreadyInitialized
	}

	m.initialized = true
	m.tools = append([]domain.ToolDefinition(nil), tools...)
	return nil
}

func (m *MockClient) Send(ctx context.Context, userText string) (*domain.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return nil, domain.ErrNotInitialized
	}

	m.outstanding = ""
	m.hasOutstanding = false

	// Menu questions stay conversational even when politely phrased.
	if len(m.tools) > 0 && !mentionsMenu(userText) && wantsOrder(userText) {
		if items := orderItems(userText); len(items) > 0 {
			id := uuid.NewString()
			m.outstanding = id
			m.hasOutstanding = true
			return &domain.Response{
				Kind: domain.ResponseActionRequested,
				Invocation: &domain.ToolInvocation{
					ID:   id,
					Name: m.tools[0].Name,
					Args: map[string]any{"items": toAnySlice(items)},
				},
			}, nil
		}
	}

	return &domain.Response{
		Kind: domain.ResponsePlainText,
		Text: cannedReply(userText),
	}, nil
}

func (m *MockClient) SendToolResult(ctx context.Context, result domain.ToolResult) (*domain.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return nil, domain.ErrNotInitialized
	}
	if !m.hasOutstanding || result.ID != m.outstanding {
		return nil, domain.ErrCorrelationMismatch
	}

	m.outstanding = ""
	m.hasOutstanding = false

	// Relay the outcome verbatim, like a model repeating the confirmation
	// back to the customer.
	return &domain.Response{
		Kind: domain.ResponsePlainText,
		Text: result.Outcome,
	}, nil
}

// --- scripted behavior --- //

var orderLeads = []string{
	"i'd like", "i would like", "i want",
	"can i have", "could i have", "can i get", "could i get",
	"give me", "get me", "order",
}

func mentionsMenu(text string) bool {
	return strings.Contains(strings.ToLower(text), "menu")
}

func wantsOrder(text string) bool {
	t := strings.ToLower(text)
	if strings.Contains(t, "please") {
		return true
	}
	for _, lead := range orderLeads {
		if strings.Contains(t, lead) {
			return true
		}
	}
	return false
}

// orderItems pulls a naive item list out of free text. Good enough for a
// mock: "I want to order a pizza and a Coke" becomes ["pizza", "Coke"].
func orderItems(text string) []string {
	t := strings.TrimSpace(text)

	for {
		lower := strings.ToLower(t)
		matched := false
		for _, lead := range orderLeads {
			if idx := strings.Index(lower, lead); idx >= 0 {
				t = t[idx+len(lead):]
				matched = true
				break
			}
		}
		if !matched {
			break
		}
	}

	t = strings.ReplaceAll(t, " and ", ",")
	t = strings.ReplaceAll(t, " And ", ",")

	var items []string
	for _, part := range strings.Split(t, ",") {
		part = strings.TrimSpace(strings.Trim(part, ".!?"))
		part = strings.TrimSuffix(part, " please")
		lower := strings.ToLower(part)
		if lower == "" || lower == "please" {
			continue
		}
		for _, article := range []string{"a ", "an ", "the ", "some "} {
			if strings.HasPrefix(lower, article) {
				part = part[len(article):]
				break
			}
		}
		items = append(items, part)
	}
	return items
}

func cannedReply(userText string) string {
	t := strings.ToLower(userText)
	switch {
	case strings.Contains(t, "menu"):
		return "We have wood-fired pizzas, fresh pastas, salads and soft drinks. What can I get you?"
	case strings.Contains(t, "hello") || strings.HasPrefix(t, "hi"):
		return "Hello! What would you like to order today?"
	default:
		return fmt.Sprintf("You said %q. When you are ready, tell me what you would like to order.", userText)
	}
}

func toAnySlice(items []string) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
