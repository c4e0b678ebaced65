package history

import (
	"fmt"
	"testing"

	"github.com/wfunc/robotserver/models"
)

func record(command string) models.CommandRecord {
	return models.CommandRecord{Command: command, Outcome: "ok"}
}

func TestMemoryRecentNewestFirst(t *testing.T) {
	store := NewMemory(10)

	for i := 0; i < 5; i++ {
		if err := store.Append(record(fmt.Sprintf("cmd-%d", i))); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	records, err := store.Recent(3)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Recent returned %d records, want 3", len(records))
	}
	for i, want := range []string{"cmd-4", "cmd-3", "cmd-2"} {
		if records[i].Command != want {
			t.Errorf("records[%d].Command = %q, want %q", i, records[i].Command, want)
		}
	}
}

func TestMemoryCapacityDropsOldest(t *testing.T) {
	store := NewMemory(3)

	for i := 0; i < 5; i++ {
		store.Append(record(fmt.Sprintf("cmd-%d", i)))
	}

	records, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Recent returned %d records, want 3", len(records))
	}
	if records[0].Command != "cmd-4" || records[2].Command != "cmd-2" {
		t.Errorf("unexpected window: %+v", records)
	}
}

func TestMemoryRecentEdgeCases(t *testing.T) {
	store := NewMemory(0) // falls back to the default capacity

	if records, err := store.Recent(5); err != nil || records != nil {
		t.Errorf("Recent on empty store = (%v, %v), want (nil, nil)", records, err)
	}

	store.Append(record("cmd"))
	if records, err := store.Recent(0); err != nil || records != nil {
		t.Errorf("Recent(0) = (%v, %v), want (nil, nil)", records, err)
	}
	if records, _ := store.Recent(100); len(records) != 1 {
		t.Errorf("Recent(100) returned %d records, want 1", len(records))
	}
}
