package session

import (
	"sync"
	"testing"

	"pdf-study-buddy/internal/core/chat"
	"pdf-study-buddy/internal/core/retriever"
)

func TestStore_CreateAndGet(t *testing.T) {
	st := NewStore()

	s := st.Create()
	if s.ID == "" {
		t.Fatal("created session has no ID")
	}
	if s.Quiz == nil {
		t.Fatal("created session has no quiz")
	}
	if s.CreatedAt.IsZero() {
		t.Error("created session has no timestamp")
	}

	got, ok := st.Get(s.ID)
	if !ok {
		t.Fatal("created session not found by ID")
	}
	if got != s {
		t.Error("get returned a different session instance")
	}

	if _, ok := st.Get("nope"); ok {
		t.Error("unknown ID resolved to a session")
	}
}

func TestStore_Delete(t *testing.T) {
	st := NewStore()
	s := st.Create()

	st.Delete(s.ID)
	if _, ok := st.Get(s.ID); ok {
		t.Error("deleted session still resolvable")
	}
	if st.Len() != 0 {
		t.Errorf("store length %d after deleting the only session", st.Len())
	}

	// deleting twice is a no-op
	st.Delete(s.ID)
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	st := NewStore()
	a := st.Create()
	b := st.Create()

	if a.ID == b.ID {
		t.Fatal("two sessions share an ID")
	}

	a.Lock()
	a.Index = retriever.NewIndex([]retriever.Chunk{{Index: 0, Text: "alpha"}})
	a.Chat = append(a.Chat, chat.Message{Role: "user", Content: "hello"})
	a.Unlock()

	if b.Index != nil {
		t.Error("index leaked into the other session")
	}
	if len(b.Chat) != 0 {
		t.Error("chat history leaked into the other session")
	}
}

func TestStore_ConcurrentCreate(t *testing.T) {
	st := NewStore()

	const n = 50
	var wg sync.WaitGroup
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = st.Create().ID
		}(i)
	}
	wg.Wait()

	if st.Len() != n {
		t.Fatalf("store length %d, want %d", st.Len(), n)
	}
	for _, id := range ids {
		if _, ok := st.Get(id); !ok {
			t.Errorf("session %s lost", id)
		}
	}
}
