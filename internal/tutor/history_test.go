package tutor

import (
	"fmt"
	"reflect"
	"testing"
)

func TestHistoryAppendAndRecent(t *testing.T) {
	h := NewHistory(10, 100)

	h.Append("u1_topic", Turn{Role: "user", Content: "What is demand?"})
	h.Append("u1_topic", Turn{Role: "assistant", Content: "Demand is..."})
	h.Append("u1_topic", Turn{Role: "user", Content: "And supply?"})

	got := h.Recent("u1_topic", 2)
	want := []Turn{
		{Role: "assistant", Content: "Demand is..."},
		{Role: "user", Content: "And supply?"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Recent = %v, want %v", got, want)
	}

	if got := h.Recent("unknown", 5); got != nil {
		t.Errorf("Recent for missing conversation = %v, want nil", got)
	}
}

func TestHistoryTurnCap(t *testing.T) {
	h := NewHistory(10, 3)

	for i := 1; i <= 5; i++ {
		h.Append("conv", Turn{Role: "user", Content: fmt.Sprintf("msg %d", i)})
	}

	got := h.Recent("conv", 100)
	if len(got) != 3 {
		t.Fatalf("kept %d turns, want 3", len(got))
	}
	if got[0].Content != "msg 3" || got[2].Content != "msg 5" {
		t.Errorf("oldest turns were not dropped: %v", got)
	}
}

func TestHistoryEvictsLeastRecentlyUsed(t *testing.T) {
	h := NewHistory(2, 10)

	h.Append("a", Turn{Role: "user", Content: "1"})
	h.Append("b", Turn{Role: "user", Content: "2"})
	h.Recent("a", 1) // touch a so b becomes the eviction candidate
	h.Append("c", Turn{Role: "user", Content: "3"})

	if h.Len() != 2 {
		t.Fatalf("Len = %d, want 2", h.Len())
	}
	if h.Recent("b", 1) != nil {
		t.Error("b should have been evicted")
	}
	if h.Recent("a", 1) == nil || h.Recent("c", 1) == nil {
		t.Error("a and c should survive")
	}
}

func TestHistoryMinimumBounds(t *testing.T) {
	h := NewHistory(0, 0)

	h.Append("x", Turn{Role: "user", Content: "first"})
	h.Append("x", Turn{Role: "user", Content: "second"})
	h.Append("y", Turn{Role: "user", Content: "third"})

	if h.Len() != 1 {
		t.Errorf("Len = %d, want 1", h.Len())
	}
	if got := h.Recent("y", 10); len(got) != 1 || got[0].Content != "third" {
		t.Errorf("Recent(y) = %v", got)
	}
}

func TestHistoryRecentReturnsCopy(t *testing.T) {
	h := NewHistory(5, 10)
	h.Append("k", Turn{Role: "user", Content: "original"})

	got := h.Recent("k", 10)
	got[0].Content = "mutated"

	if again := h.Recent("k", 10); again[0].Content != "original" {
		t.Error("Recent must not expose internal state")
	}
}
