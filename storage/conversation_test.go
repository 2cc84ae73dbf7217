package storage

import (
	"fmt"
	"sync"
	"testing"

	"github.com/liuqitech/codeagent/llm"
)

func TestConversationStoreAppendAndHistory(t *testing.T) {
	store := NewConversationStore(10)

	store.Append("s1", llm.UserMessage("Hello"), llm.AssistantMessage("Hi there"))

	history := store.History("s1")
	if len(history) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(history))
	}
	if history[0].Role != "user" || history[0].Content != "Hello" {
		t.Errorf("unexpected first message: %+v", history[0])
	}
	if history[1].Role != "assistant" || history[1].Content != "Hi there" {
		t.Errorf("unexpected second message: %+v", history[1])
	}
}

func TestConversationStoreUnknownSession(t *testing.T) {
	store := NewConversationStore(10)

	history := store.History("nonexistent")
	if len(history) != 0 {
		t.Errorf("expected empty slice, got %d messages", len(history))
	}
	if store.Len("nonexistent") != 0 {
		t.Errorf("expected Len 0, got %d", store.Len("nonexistent"))
	}
}

func TestConversationStoreTrimsOldest(t *testing.T) {
	store := NewConversationStore(4)

	for i := 0; i < 6; i++ {
		store.Append("s1", llm.UserMessage(fmt.Sprintf("msg-%d", i)))
	}

	history := store.History("s1")
	if len(history) != 4 {
		t.Fatalf("expected window of 4, got %d", len(history))
	}
	if history[0].Content != "msg-2" {
		t.Errorf("expected oldest surviving message 'msg-2', got %q", history[0].Content)
	}
	if history[3].Content != "msg-5" {
		t.Errorf("expected newest message 'msg-5', got %q", history[3].Content)
	}
}

func TestConversationStoreBatchLargerThanWindow(t *testing.T) {
	store := NewConversationStore(2)

	store.Append("s1",
		llm.UserMessage("a"),
		llm.AssistantMessage("b"),
		llm.UserMessage("c"),
	)

	history := store.History("s1")
	if len(history) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(history))
	}
	if history[0].Content != "b" || history[1].Content != "c" {
		t.Errorf("expected [b c], got [%s %s]", history[0].Content, history[1].Content)
	}
}

func TestConversationStoreClear(t *testing.T) {
	store := NewConversationStore(10)

	store.Append("s1", llm.UserMessage("Test"))
	if store.Len("s1") != 1 {
		t.Fatalf("expected 1 message before clear, got %d", store.Len("s1"))
	}

	store.Clear("s1")
	if store.Len("s1") != 0 {
		t.Errorf("expected 0 messages after clear, got %d", store.Len("s1"))
	}
}

func TestConversationStoreSessionsAreIndependent(t *testing.T) {
	store := NewConversationStore(10)

	store.Append("s1", llm.UserMessage("one"))
	store.Append("s2", llm.UserMessage("two"), llm.AssistantMessage("three"))

	if store.Len("s1") != 1 {
		t.Errorf("expected s1 to hold 1 message, got %d", store.Len("s1"))
	}
	if store.Len("s2") != 2 {
		t.Errorf("expected s2 to hold 2 messages, got %d", store.Len("s2"))
	}

	store.Clear("s1")
	if store.Len("s2") != 2 {
		t.Errorf("clearing s1 must not touch s2, got %d messages", store.Len("s2"))
	}
}

func TestConversationStoreHistoryReturnsCopy(t *testing.T) {
	store := NewConversationStore(10)
	store.Append("s1", llm.UserMessage("original"))

	history := store.History("s1")
	history[0].Content = "mutated"

	fresh := store.History("s1")
	if fresh[0].Content != "original" {
		t.Errorf("external mutation leaked into store: %q", fresh[0].Content)
	}
}

func TestConversationStoreDefaultWindow(t *testing.T) {
	store := NewConversationStore(0)
	if store.MaxMessages() != DefaultMaxMessages {
		t.Errorf("expected default window %d, got %d", DefaultMaxMessages, store.MaxMessages())
	}
}

func TestConversationStoreConcurrentAppend(t *testing.T) {
	store := NewConversationStore(1000)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				store.Append("shared", llm.UserMessage(fmt.Sprintf("%d-%d", n, j)))
			}
		}(i)
	}
	wg.Wait()

	if store.Len("shared") != 200 {
		t.Errorf("expected 200 messages, got %d", store.Len("shared"))
	}
}

func TestConversationStoreConcurrentSessionsStayIsolated(t *testing.T) {
	store := NewConversationStore(1000)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("session-%d", n)
			for j := 0; j < 50; j++ {
				store.Append(id, llm.UserMessage(fmt.Sprintf("%d-%d", n, j)))
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 8; i++ {
		id := fmt.Sprintf("session-%d", i)
		history := store.History(id)
		if len(history) != 50 {
			t.Fatalf("%s: expected 50 messages, got %d", id, len(history))
		}
		for j, msg := range history {
			if want := fmt.Sprintf("%d-%d", i, j); msg.Content != want {
				t.Fatalf("%s: message %d is %q, want %q", id, j, msg.Content, want)
			}
		}
	}
}

func TestNewSessionID(t *testing.T) {
	id := NewSessionID()
	if len(id) != 8 {
		t.Errorf("expected 8-char session ID, got %q", id)
	}
	if id == NewSessionID() {
		t.Error("expected distinct session IDs")
	}
}
