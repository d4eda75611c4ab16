package conversation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAppendPreservesOrder(t *testing.T) {
	s := NewStore()
	first := NewUserMessage("hello")
	second := NewAssistantPlaceholder()
	third := NewUserMessage("again")

	s.Append(first)
	s.Append(second)
	s.Append(third)

	got := s.Snapshot()
	require.Len(t, got, 3)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, second.ID, got[1].ID)
	assert.Equal(t, third.ID, got[2].ID)
}

func TestStoreAppendIgnoresDuplicateID(t *testing.T) {
	s := NewStore()
	msg := NewUserMessage("hello")
	s.Append(msg)
	s.Append(Message{ID: msg.ID, Role: RoleUser, Content: "other"})

	require.Equal(t, 1, s.Len())
	got, ok := s.Get(msg.ID)
	require.True(t, ok)
	assert.Equal(t, "hello", got.Content)
}

func TestStoreUpdateContent(t *testing.T) {
	tests := []struct {
		name    string
		msg     Message
		id      string
		content string
		want    string
	}{
		{
			name:    "assistant content is replaced",
			msg:     Message{ID: "a", Role: RoleAssistant, IsGenerating: true},
			id:      "a",
			content: "Hel",
			want:    "Hel",
		},
		{
			name:    "unknown id is ignored",
			msg:     Message{ID: "a", Role: RoleAssistant, Content: "kept"},
			id:      "missing",
			content: "lost",
			want:    "kept",
		},
		{
			name:    "user content is immutable",
			msg:     Message{ID: "u", Role: RoleUser, Content: "question"},
			id:      "u",
			content: "rewritten",
			want:    "question",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			s.Append(tt.msg)
			assert.NotPanics(t, func() { s.UpdateContent(tt.id, tt.content) })

			got, ok := s.Get(tt.msg.ID)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.Content)
		})
	}
}

func TestStoreMarkDoneIsIdempotent(t *testing.T) {
	s := NewStore()
	msg := NewAssistantPlaceholder()
	s.Append(msg)
	s.UpdateContent(msg.ID, "done")

	s.MarkDone(msg.ID)
	before := s.Snapshot()
	s.MarkDone(msg.ID)
	s.MarkDone("missing")

	assert.Equal(t, before, s.Snapshot())
	assert.False(t, before[0].IsGenerating)
	assert.False(t, s.Generating())
}

func TestStoreToHistoryExcludesGenerating(t *testing.T) {
	s := NewStore()
	s.Append(Message{ID: "1", Role: RoleUser, Content: "Hi"})
	s.Append(Message{ID: "2", Role: RoleAssistant, Content: "Hello!"})
	s.Append(Message{ID: "3", Role: RoleUser, Content: "Visa?"})
	s.Append(Message{ID: "4", Role: RoleAssistant, Content: "PS", IsGenerating: true})

	want := []Turn{
		{Role: HistoryUser, Text: "Hi"},
		{Role: HistoryModel, Text: "Hello!"},
		{Role: HistoryUser, Text: "Visa?"},
	}
	assert.Equal(t, want, s.ToHistory())
	assert.True(t, s.Generating())
}

func TestStoreHistoryBefore(t *testing.T) {
	s := NewStore()
	s.Append(Message{ID: "1", Role: RoleUser, Content: "Hi"})
	s.Append(Message{ID: "2", Role: RoleAssistant, Content: "Hello!"})
	s.Append(Message{ID: "3", Role: RoleUser, Content: "Notice period?"})

	assert.Equal(t, []Turn{
		{Role: HistoryUser, Text: "Hi"},
		{Role: HistoryModel, Text: "Hello!"},
	}, s.HistoryBefore("3"))
	assert.Empty(t, s.HistoryBefore("1"))
	assert.Len(t, s.HistoryBefore("missing"), 3)
}

func TestStoreHistoryWithout(t *testing.T) {
	s := NewStore()
	s.Append(Message{ID: "1", Role: RoleUser, Content: "Hi"})
	s.Append(Message{ID: "2", Role: RoleUser, Content: "Visa?"})
	s.Append(Message{ID: "3", Role: RoleAssistant, Content: "Hello!"})

	assert.Equal(t, []Turn{
		{Role: HistoryUser, Text: "Hi"},
		{Role: HistoryModel, Text: "Hello!"},
	}, s.HistoryWithout(map[string]struct{}{"2": {}}))
	assert.Len(t, s.HistoryWithout(nil), 3)
}

func TestNewIDIsUniqueAndOrdered(t *testing.T) {
	seen := make(map[string]bool)
	prev := ""
	for i := 0; i < 1000; i++ {
		id := NewID()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
		if prev != "" {
			assert.GreaterOrEqual(t, id, prev)
		}
		prev = id
	}
}

func TestStoreConcurrentUpdates(t *testing.T) {
	s := NewStore()
	ids := make([]string, 8)
	for i := range ids {
		msg := NewAssistantPlaceholder()
		ids[i] = msg.ID
		s.Append(msg)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for _, prefix := range []string{"H", "He", "Hel", "Hell", "Hello"} {
				s.UpdateContent(id, prefix)
			}
			s.MarkDone(id)
		}(id)
	}
	wg.Wait()

	for _, m := range s.Snapshot() {
		assert.Equal(t, "Hello", m.Content)
		assert.False(t, m.IsGenerating)
	}
}
