package conversation

import "sync"

// Store is the ordered, append-only message log of one conversation.
// It is safe for concurrent use; overlapping reveal loops write to it
// through UpdateContent keyed by message id.
type Store struct {
	mu       sync.RWMutex
	messages []Message
	index    map[string]int
}

func NewStore() *Store {
	return &Store{index: make(map[string]int)}
}

// Append adds msg to the end of the log. A message whose id is already
// present is ignored so identities never collide.
func (s *Store) Append(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msg.ID == "" {
		msg.ID = NewID()
	}
	if _, exists := s.index[msg.ID]; exists {
		return
	}
	s.index[msg.ID] = len(s.messages)
	s.messages = append(s.messages, msg)
}

// UpdateContent replaces the content of the message with the given id.
// Unknown ids are ignored because a cancelled reveal may race a final write.
// User messages never change after creation.
func (s *Store) UpdateContent(id, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok || s.messages[i].Role == RoleUser {
		return
	}
	s.messages[i].Content = content
}

// MarkDone clears IsGenerating on the message. Calling it twice is harmless.
func (s *Store) MarkDone(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[id]; ok {
		s.messages[i].IsGenerating = false
	}
}

// Get returns a copy of the message with the given id.
func (s *Store) Get(id string) (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return Message{}, false
	}
	return s.messages[i], true
}

// Snapshot returns a copy of the log in insertion order.
func (s *Store) Snapshot() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Generating reports whether any message is still being revealed.
func (s *Store) Generating() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.messages {
		if m.IsGenerating {
			return true
		}
	}
	return false
}

// ToHistory exports completed turns in order. Messages that are still
// generating are left out.
func (s *Store) ToHistory() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return historyOf(s.messages)
}

// HistoryBefore exports the completed turns that precede the message with
// the given id. An unknown id yields the full history.
func (s *Store) HistoryBefore(id string) []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i, ok := s.index[id]; ok {
		return historyOf(s.messages[:i])
	}
	return historyOf(s.messages)
}

// HistoryWithout exports the completed turns, skipping the listed ids.
func (s *Store) HistoryWithout(ids map[string]struct{}) []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	kept := make([]Message, 0, len(s.messages))
	for _, m := range s.messages {
		if _, skip := ids[m.ID]; !skip {
			kept = append(kept, m)
		}
	}
	return historyOf(kept)
}

func historyOf(messages []Message) []Turn {
	turns := make([]Turn, 0, len(messages))
	for _, m := range messages {
		if m.IsGenerating {
			continue
		}
		turns = append(turns, Turn{Role: HistoryRoleFor(m.Role), Text: m.Content})
	}
	return turns
}
