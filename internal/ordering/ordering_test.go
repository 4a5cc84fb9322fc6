package ordering_test

import (
	"testing"

	"github.com/nikbrunner/nav/internal/errs"
	"github.com/nikbrunner/nav/internal/ordering"
)

func entries(orders ...int) []ordering.Entry {
	result := make([]ordering.Entry, len(orders))
	for i, o := range orders {
		result[i] = ordering.Entry{ID: string(rune('a' + i)), SortOrder: o}
	}
	return result
}

func TestReindex_OnlyChangedEntries(t *testing.T) {
	current := []ordering.Entry{
		{ID: "a", SortOrder: 0},
		{ID: "b", SortOrder: 1},
		{ID: "c", SortOrder: 2},
	}

	writes := ordering.Reindex(current, []string{"c", "a", "b"})

	if len(writes) != 3 {
		t.Fatalf("expected 3 writes, got %d", len(writes))
	}
	want := map[string]int{"c": 0, "a": 1, "b": 2}
	for _, w := range writes {
		if want[w.ID] != w.SortOrder {
			t.Errorf("expected %s at %d, got %d", w.ID, want[w.ID], w.SortOrder)
		}
	}
}

func TestReindex_Unchanged(t *testing.T) {
	current := []ordering.Entry{
		{ID: "a", SortOrder: 0},
		{ID: "b", SortOrder: 1},
	}

	writes := ordering.Reindex(current, []string{"a", "b"})
	if len(writes) != 0 {
		t.Errorf("expected no writes for unchanged order, got %d", len(writes))
	}
}

func TestReindex_PartialChange(t *testing.T) {
	current := []ordering.Entry{
		{ID: "a", SortOrder: 0},
		{ID: "b", SortOrder: 1},
		{ID: "c", SortOrder: 2},
	}

	// Swap the last two; "a" keeps its position and must not be written.
	writes := ordering.Reindex(current, []string{"a", "c", "b"})

	if len(writes) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(writes))
	}
	for _, w := range writes {
		if w.ID == "a" {
			t.Error("unchanged entry must not produce a write")
		}
	}
}

func TestReindex_EmptySequence(t *testing.T) {
	writes := ordering.Reindex(entries(0, 1, 2), nil)
	if len(writes) != 0 {
		t.Errorf("expected no writes for empty sequence, got %d", len(writes))
	}
}

func TestReindex_UnplacedEntry(t *testing.T) {
	current := []ordering.Entry{{ID: "a", SortOrder: 0}}

	// "b" is not in the group yet; it must always get a write.
	writes := ordering.Reindex(current, []string{"a", "b"})

	if len(writes) != 1 {
		t.Fatalf("expected 1 write, got %d", len(writes))
	}
	if writes[0].ID != "b" || writes[0].SortOrder != 1 {
		t.Errorf("expected b at 1, got %s at %d", writes[0].ID, writes[0].SortOrder)
	}
}

func TestRenumber_ClosesGaps(t *testing.T) {
	current := []ordering.Entry{
		{ID: "a", SortOrder: 0},
		{ID: "b", SortOrder: 3},
		{ID: "c", SortOrder: 7},
	}

	writes := ordering.Renumber(current)

	if len(writes) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(writes))
	}
	want := map[string]int{"b": 1, "c": 2}
	for _, w := range writes {
		if want[w.ID] != w.SortOrder {
			t.Errorf("expected %s at %d, got %d", w.ID, want[w.ID], w.SortOrder)
		}
	}
}

func TestNext(t *testing.T) {
	if got := ordering.Next(nil); got != 0 {
		t.Errorf("expected 0 for empty group, got %d", got)
	}
	if got := ordering.Next(entries(0, 1, 2)); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
	// Non-contiguous groups still append after the maximum.
	if got := ordering.Next(entries(0, 9)); got != 10 {
		t.Errorf("expected 10, got %d", got)
	}
}

func TestValidateSequence(t *testing.T) {
	group := []string{"a", "b", "c"}

	if err := ordering.ValidateSequence(group, []string{"c", "a", "b"}); err != nil {
		t.Errorf("unexpected error for valid permutation: %v", err)
	}
	if err := ordering.ValidateSequence(group, []string{"a", "b"}); !errs.IsValidation(err) {
		t.Errorf("expected validation error for short sequence, got %v", err)
	}
	if err := ordering.ValidateSequence(group, []string{"a", "b", "x"}); !errs.IsValidation(err) {
		t.Errorf("expected validation error for foreign id, got %v", err)
	}
	if err := ordering.ValidateSequence(group, []string{"a", "b", "b"}); !errs.IsValidation(err) {
		t.Errorf("expected validation error for duplicate id, got %v", err)
	}
}
