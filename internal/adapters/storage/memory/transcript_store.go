package memory

import (
	"fmt"
	"sync"

	"github.com/PabloGalante/comanda-agent/internal/domain"
)

// TranscriptStore keeps the conversation transcript in memory, in insertion
// order. At most one entry may be pending at a time and it is always the
// last one; resolving rewrites that entry in place, so no splicing happens.
//
// The store owns its entries: messages are copied on the way in and on the
// way out, so callers can never mutate stored state through a shared pointer.
type TranscriptStore struct {
	mu      sync.RWMutex
	entries []*domain.Message
	pending int // index of the pending entry, -1 when none
}

func NewTranscriptStore() *TranscriptStore {
	return &TranscriptStore{pending: -1}
}

func (s *TranscriptStore) Append(msg *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending >= 0 {
		return domain.ErrPendingExists
	}
	if msg.Sender == domain.RolePending {
		return fmt.Errorf("append: pending entries go through BeginPending")
	}

	s.entries = append(s.entries, cloneMessage(msg))
	return nil
}

func (s *TranscriptStore) BeginPending(msg *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending >= 0 {
		return domain.ErrPendingExists
	}
	if msg.Sender != domain.RolePending {
		return fmt.Errorf("begin pending: sender must be %q, got %q", domain.RolePending, msg.Sender)
	}

	s.entries = append(s.entries, cloneMessage(msg))
	s.pending = len(s.entries) - 1
	return nil
}

// ResolvePending turns the pending entry into a final bot message, keeping
// its ID and position. Returns a copy of the resolved message.
func (s *TranscriptStore) ResolvePending(text string, at domain.Timestamp) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending < 0 {
		return nil, domain.ErrNoPending
	}

	entry := s.entries[s.pending]
	entry.Sender = domain.RoleBot
	entry.Text = text
	entry.CreatedAt = at
	s.pending = -1

	return cloneMessage(entry), nil
}

func (s *TranscriptStore) Messages(limit int) []*domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.entries
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}

	out := make([]*domain.Message, len(msgs))
	for i, m := range msgs {
		out[i] = cloneMessage(m)
	}
	return out
}

func (s *TranscriptStore) HasPending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.pending >= 0
}

func cloneMessage(msg *domain.Message) *domain.Message {
	c := *msg
	return &c
}
