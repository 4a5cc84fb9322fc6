// Package ordering maintains dense, zero-based sort_order sequences within
// sibling groups (links in one category, categories under one parent).
// Reordering always recomputes the whole group from a materialized sequence
// rather than shifting single items, so client and store orderings cannot
// drift apart.
package ordering

import "github.com/nikbrunner/nav/internal/errs"

// Entry is an entity's current position within its sibling group.
type Entry struct {
	ID        string
	SortOrder int
}

// Write is a pending sort_order assignment for one entity.
type Write struct {
	ID        string
	SortOrder int
}

// Reindex assigns positions 0..n-1 following the desired sequence and
// returns a write per entity whose position actually changed. Entities in
// desired but absent from current are treated as unplaced and always
// produce a write. An empty desired sequence yields no writes.
func Reindex(current []Entry, desired []string) []Write {
	existing := make(map[string]int, len(current))
	for _, e := range current {
		existing[e.ID] = e.SortOrder
	}

	var writes []Write
	for i, id := range desired {
		order, ok := existing[id]
		if !ok || order != i {
			writes = append(writes, Write{ID: id, SortOrder: i})
		}
	}
	return writes
}

// Renumber compacts the group to 0..n-1 preserving the current slice order,
// returning only changed entries. Used after deletions or moves leave gaps.
func Renumber(current []Entry) []Write {
	var writes []Write
	for i, e := range current {
		if e.SortOrder != i {
			writes = append(writes, Write{ID: e.ID, SortOrder: i})
		}
	}
	return writes
}

// ValidateSequence verifies that desired is a permutation of the group's
// ids: every sibling listed exactly once, nothing foreign.
func ValidateSequence(group, desired []string) error {
	if len(group) != len(desired) {
		return errs.Validationf("sequence lists %d of %d siblings", len(desired), len(group))
	}
	members := make(map[string]bool, len(group))
	for _, id := range group {
		members[id] = true
	}
	seen := make(map[string]bool, len(desired))
	for _, id := range desired {
		if !members[id] {
			return errs.Validationf("id %s is not part of the sibling group", id)
		}
		if seen[id] {
			return errs.Validationf("id %s listed twice", id)
		}
		seen[id] = true
	}
	return nil
}

// Next returns the sort_order for an append: max(sort_order)+1, or 0 for an
// empty group. The group is not assumed contiguous.
func Next(current []Entry) int {
	next := 0
	for _, e := range current {
		if e.SortOrder >= next {
			next = e.SortOrder + 1
		}
	}
	return next
}
