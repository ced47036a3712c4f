package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/PabloGalante/comanda-agent/internal/config"
	"github.com/PabloGalante/comanda-agent/internal/domain"
	"github.com/PabloGalante/comanda-agent/internal/observability"
	"google.golang.org/genai"
)

// GenAIClient implements domain.ConversationClient on top of the Gemini API,
// through either the API-key backend or Vertex AI. The hosted service keeps
// the conversation history; this client only holds the chat handle and the
// id of the function call it still owes an answer for.
type GenAIClient struct {
	client    *genai.Client
	modelName string

	mu             sync.Mutex
	chat           *genai.Chat
	outstanding    string // correlation id of the unanswered function call
	hasOutstanding bool   // separate flag because ids may legitimately be ""
}

// NewGenAIClient creates the client for the configured backend. No network
// traffic happens here; the session starts on Initialize.
func NewGenAIClient(ctx context.Context, cfg *config.Config) (*GenAIClient, error) {
	var cc *genai.ClientConfig
	switch cfg.Backend {
	case config.BackendVertex:
		if cfg.GCPProjectID == "" || cfg.GCPLocation == "" {
			return nil, fmt.Errorf("COMANDA_GCP_PROJECT and COMANDA_GCP_LOCATION must be set for the vertex backend")
		}
		cc = &genai.ClientConfig{
			Project:  cfg.GCPProjectID,
			Location: cfg.GCPLocation,
			Backend:  genai.BackendVertexAI,
		}
	case config.BackendGemini:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY must be set for the gemini backend")
		}
		cc = &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		}
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	modelName := cfg.ModelName
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	return &GenAIClient{
		client:    client,
		modelName: modelName,
	}, nil
}

// Initialize opens the chat session with the system prompt and the tool
// declarations. It can be called once per client.
func (c *GenAIClient) Initialize(ctx context.Context, systemPrompt string, tools []domain.ToolDefinition) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.chat != nil {
		return domain.ErrAlreadyInitialized
	}

	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, def := range tools {
		decls = append(decls, functionDeclaration(def))
	}

	// Model config (without genai.Ptr to avoid generic issues)
	temp := float32(0.7)
	topP := float32(0.9)

	outputTokens := int32(8192)

	cfg := &genai.GenerateContentConfig{
		// According to official examples, the role here is usually RoleUser, not "system"
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       &temp,
		TopP:              &topP,
		MaxOutputTokens:   outputTokens,
	}
	if len(decls) > 0 {
		cfg.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	chat, err := c.client.Chats.Create(ctx, c.modelName, cfg, nil)
	if err != nil {
		return fmt.Errorf("creating chat session: %w", err)
	}

	c.chat = chat
	return nil
}

// Send delivers a user message and maps the reply. A new user turn
// supersedes any function call left unanswered by an earlier failed turn.
func (c *GenAIClient) Send(ctx context.Context, userText string) (*domain.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.chat == nil {
		return nil, domain.ErrNotInitialized
	}

	c.outstanding = ""
	c.hasOutstanding = false

	res, err := c.chat.SendMessage(ctx, genai.Part{Text: userText})
	if err != nil {
		return nil, fmt.Errorf("genai send message: %w", err)
	}

	resp := mapResponse(ctx, res)
	c.trackCorrelation(resp)
	return resp, nil
}

// SendToolResult reports a tool outcome for the function call this client is
// waiting on. The slot is consumed before the network call, so a result is
// never delivered twice for the same call even if the caller retries after a
// failure.
func (c *GenAIClient) SendToolResult(ctx context.Context, result domain.ToolResult) (*domain.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.chat == nil {
		return nil, domain.ErrNotInitialized
	}
	if !c.hasOutstanding || result.ID != c.outstanding {
		return nil, domain.ErrCorrelationMismatch
	}

	c.outstanding = ""
	c.hasOutstanding = false

	part := genai.Part{
		FunctionResponse: &genai.FunctionResponse{
			ID:       result.ID,
			Name:     result.Name,
			Response: map[string]any{"result": result.Outcome},
		},
	}

	res, err := c.chat.SendMessage(ctx, part)
	if err != nil {
		return nil, fmt.Errorf("genai send tool result: %w", err)
	}

	resp := mapResponse(ctx, res)
	c.trackCorrelation(resp)
	return resp, nil
}

func (c *GenAIClient) trackCorrelation(resp *domain.Response) {
	if resp.Kind == domain.ResponseActionRequested && resp.Invocation != nil {
		c.outstanding = resp.Invocation.ID
		c.hasOutstanding = true
	}
}

// --- response and schema mapping --- //

// mapResponse translates a raw model response into the domain shape. When
// the model returns function calls, the first one wins: extra calls and any
// accompanying text are dropped.
func mapResponse(ctx context.Context, res *genai.GenerateContentResponse) *domain.Response {
	calls := res.FunctionCalls()
	if len(calls) == 0 {
		return &domain.Response{
			Kind: domain.ResponsePlainText,
			Text: res.Text(),
		}
	}

	call := calls[0]
	if len(calls) > 1 {
		observability.LoggerFromContext(ctx).Warn().
			Int("dropped", len(calls)-1).
			Str("kept", call.Name).
			Msg("model returned multiple function calls")
	}

	return &domain.Response{
		Kind: domain.ResponseActionRequested,
		Invocation: &domain.ToolInvocation{
			ID:   call.ID,
			Name: call.Name,
			Args: call.Args,
		},
	}
}

func functionDeclaration(def domain.ToolDefinition) *genai.FunctionDeclaration {
	props := make(map[string]*genai.Schema, len(def.Parameters.Properties))
	for name, spec := range def.Parameters.Properties {
		props[name] = schemaFromSpec(spec)
	}

	return &genai.FunctionDeclaration{
		Name:        def.Name,
		Description: def.Description,
		Parameters: &genai.Schema{
			Type:       genai.TypeObject,
			Properties: props,
			Required:   def.Parameters.Required,
		},
	}
}

func schemaFromSpec(spec domain.PropertySpec) *genai.Schema {
	s := &genai.Schema{Description: spec.Description}
	switch spec.Type {
	case domain.ParamArray:
		s.Type = genai.TypeArray
		if spec.Items != nil {
			s.Items = schemaFromSpec(*spec.Items)
		}
	default:
		s.Type = genai.TypeString
	}
	return s
}
