package models

import (
	"fmt"
	"testing"
	"time"
)

func TestPushHistory(t *testing.T) {
	t.Run("Prepends Newest First", func(t *testing.T) {
		entries := []HistoryEntry{{SetID: "1"}, {SetID: "2"}}
		entries = PushHistory(entries, HistoryEntry{SetID: "3"})

		if len(entries) != 3 {
			t.Fatalf("expected 3 entries, got %d", len(entries))
		}
		if entries[0].SetID != "3" {
			t.Errorf("expected newest entry first, got %q", entries[0].SetID)
		}
	})

	t.Run("Caps At 100 Evicting Oldest", func(t *testing.T) {
		var entries []HistoryEntry
		for i := 0; i < HistoryCap; i++ {
			entries = PushHistory(entries, HistoryEntry{SetID: fmt.Sprintf("%d", i)})
		}
		if len(entries) != HistoryCap {
			t.Fatalf("expected %d entries, got %d", HistoryCap, len(entries))
		}

		entries = PushHistory(entries, HistoryEntry{SetID: "overflow"})
		if len(entries) != HistoryCap {
			t.Fatalf("expected history to stay at %d entries, got %d", HistoryCap, len(entries))
		}
		if entries[0].SetID != "overflow" {
			t.Errorf("expected newest entry first, got %q", entries[0].SetID)
		}
		if entries[len(entries)-1].SetID != "1" {
			t.Errorf("expected oldest entry (0) evicted, tail is %q", entries[len(entries)-1].SetID)
		}
	})

	t.Run("Does Not Mutate Input", func(t *testing.T) {
		orig := []HistoryEntry{{SetID: "keep"}}
		_ = PushHistory(orig, HistoryEntry{SetID: "new"})
		if orig[0].SetID != "keep" {
			t.Error("input slice was mutated")
		}
	})
}

func TestBeatmapsetClone(t *testing.T) {
	set := Beatmapset{
		ID:           "123",
		Artist:       "artist",
		Title:        "title",
		Modes:        []string{"0", "3"},
		Difficulties: []Difficulty{{Name: "Insane", Stars: 5.2}},
		AddedAt:      time.Now(),
	}

	dup := set.Clone()
	dup.Modes[0] = "1"
	dup.Difficulties[0].Name = "Extra"

	if set.Modes[0] != "0" {
		t.Error("Clone shares the modes slice")
	}
	if set.Difficulties[0].Name != "Insane" {
		t.Error("Clone shares the difficulties slice")
	}
}

func TestBeatmapsetValidate(t *testing.T) {
	set := Beatmapset{}
	if err := set.Validate(); err == nil {
		t.Error("expected error for missing id")
	}
	set.ID = "99"
	if err := set.Validate(); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}
