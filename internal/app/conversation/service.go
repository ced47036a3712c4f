package conversation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PabloGalante/comanda-agent/internal/app/tools"
	"github.com/PabloGalante/comanda-agent/internal/domain"
	"github.com/PabloGalante/comanda-agent/internal/observability"
	"github.com/google/uuid"
)

const (
	// pendingText is the placeholder shown while a turn is in flight.
	pendingText = "..."

	// apologyText replaces the pending record when a turn fails. One fixed
	// message for every failure class, the user is not told which one.
	apologyText = "Sorry, something went wrong. Please try again."
)

// GreetingText renders the opening message posted before any user turn.
func GreetingText(restaurant string) string {
	return fmt.Sprintf("Welcome to %s! What can I get you today?", restaurant)
}

// Service runs the user-message handling cycle: append the user record and a
// pending placeholder, exchange with the model, execute at most one tool
// invocation, and resolve the placeholder with the final bot text.
//
// Turns are strictly sequential. While one is in flight new sends are
// rejected, they are not queued.
type Service struct {
	client     domain.ConversationClient
	transcript domain.TranscriptStore
	registry   *tools.Registry
	now        func() time.Time

	mu    sync.Mutex
	state domain.TurnState
}

func NewService(
	client domain.ConversationClient,
	transcript domain.TranscriptStore,
	registry *tools.Registry,
) *Service {
	return &Service{
		client:     client,
		transcript: transcript,
		registry:   registry,
		now:        time.Now,
		state:      domain.TurnIdle,
	}
}

// Greet appends a bot message without a model round-trip. Used once at
// startup so the transcript never opens empty.
func (s *Service) Greet(ctx context.Context, text string) error {
	msg := s.newMessage(domain.RoleBot, text)
	if err := s.transcript.Append(msg); err != nil {
		return err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("message_id", string(msg.ID)).
		Msg("greeting posted")
	return nil
}

type SendInput struct {
	Text string
}

type SendOutput struct {
	UserMessage *domain.Message
	BotMessage  *domain.Message
}

// Send runs one full turn. Empty or whitespace-only text is rejected before
// anything is recorded. Remote and tool failures do not surface as errors:
// they resolve the turn with the fixed apology text instead.
func (s *Service) Send(ctx context.Context, in SendInput) (*SendOutput, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, domain.ErrEmptyMessage
	}

	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.finish()

	log := observability.LoggerFromContext(ctx)
	log.Info().Str("text", text).Msg("turn started")

	userMsg := s.newMessage(domain.RoleUser, text)
	if err := s.transcript.Append(userMsg); err != nil {
		return nil, err
	}
	if err := s.transcript.BeginPending(s.newMessage(domain.RolePending, pendingText)); err != nil {
		return nil, err
	}

	finalText, err := s.runTurn(ctx, text)
	state := domain.TurnResolved
	if err != nil {
		log.Error().Err(err).Msg("turn failed")
		state = domain.TurnFailed
		finalText = apologyText
	}
	s.setState(state)

	botMsg, err := s.transcript.ResolvePending(finalText, s.now())
	if err != nil {
		return nil, err
	}

	log.Info().Str("turn_state", string(state)).Msg("turn finished")

	return &SendOutput{
		UserMessage: userMsg,
		BotMessage:  botMsg,
	}, nil
}

type TranscriptOutput struct {
	Messages []*domain.Message
	Busy     bool
}

// Transcript returns the last limit messages (all of them when limit <= 0)
// and whether a turn is currently in flight.
func (s *Service) Transcript(ctx context.Context, limit int) *TranscriptOutput {
	return &TranscriptOutput{
		Messages: s.transcript.Messages(limit),
		Busy:     s.transcript.HasPending(),
	}
}

// State reports the turn state at this instant.
func (s *Service) State() domain.TurnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// --- turn internals --- //

func (s *Service) runTurn(ctx context.Context, userText string) (string, error) {
	resp, err := s.client.Send(ctx, userText)
	if err != nil {
		return "", err
	}

	switch resp.Kind {
	case domain.ResponsePlainText:
		return resp.Text, nil
	case domain.ResponseActionRequested:
		return s.runAction(ctx, resp.Invocation)
	default:
		return "", fmt.Errorf("unexpected response kind %q", resp.Kind)
	}
}

func (s *Service) runAction(ctx context.Context, inv *domain.ToolInvocation) (string, error) {
	if inv == nil {
		return "", fmt.Errorf("action requested without invocation")
	}

	s.setState(domain.TurnAwaitingToolResult)

	log := observability.LoggerFromContext(ctx)
	log.Info().
		Str("tool", inv.Name).
		Str("correlation_id", inv.ID).
		Msg("tool invocation requested")

	tool, err := s.registry.Get(inv.Name)
	if err != nil {
		return "", err
	}

	tctx := tools.ToolContext{
		RequestID:     observability.RequestIDFromContext(ctx),
		CorrelationID: inv.ID,
	}

	outcome, err := tool.Call(ctx, tctx, inv.Args)
	if err != nil {
		return "", fmt.Errorf("tool %s failed: %w", inv.Name, err)
	}

	resp, err := s.client.SendToolResult(ctx, domain.ToolResult{
		ID:      inv.ID,
		Name:    inv.Name,
		Outcome: outcome,
	})
	if err != nil {
		return "", err
	}

	// The model normally repeats the confirmation in its own words. When it
	// answers with nothing usable, the tool outcome stands in verbatim.
	if resp.Kind != domain.ResponsePlainText || strings.TrimSpace(resp.Text) == "" {
		log.Warn().
			Str("kind", string(resp.Kind)).
			Msg("follow-up reply unusable, using tool outcome")
		return outcome, nil
	}
	return resp.Text, nil
}

func (s *Service) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.TurnIdle {
		return domain.ErrTurnInFlight
	}
	s.state = domain.TurnSending
	return nil
}

func (s *Service) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = domain.TurnIdle
}

func (s *Service) setState(state domain.TurnState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

func (s *Service) newMessage(sender domain.Role, text string) *domain.Message {
	return &domain.Message{
		ID:        domain.MessageID(uuid.NewString()),
		Sender:    sender,
		Text:      text,
		CreatedAt: s.now(),
	}
}
