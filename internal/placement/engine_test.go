package placement_test

import (
	"path/filepath"
	"testing"

	"github.com/nikbrunner/nav/internal/errs"
	"github.com/nikbrunner/nav/internal/model"
	"github.com/nikbrunner/nav/internal/placement"
	"github.com/nikbrunner/nav/internal/storage"
)

func newTestEngine(t *testing.T) (*placement.Engine, *storage.Store) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "nav.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return placement.NewEngine(store, nil), store
}

func seedCategory(t *testing.T, store *storage.Store, name string) string {
	t.Helper()
	cat := model.NewCategory(model.NewCategoryParams{Name: name})
	if err := store.Reader().InsertCategory(cat); err != nil {
		t.Fatalf("InsertCategory failed: %v", err)
	}
	return cat.ID
}

func seedLinks(t *testing.T, e *placement.Engine, categoryID string, urls ...string) []string {
	t.Helper()
	ids := make([]string, len(urls))
	for i, url := range urls {
		link, err := e.Add(model.NewLinkParams{URL: url, Title: url, CategoryID: categoryID})
		if err != nil {
			t.Fatalf("Add(%s) failed: %v", url, err)
		}
		ids[i] = link.ID
	}
	return ids
}

func assertSequence(t *testing.T, store *storage.Store, categoryID string, want []string) {
	t.Helper()
	links, err := store.Reader().LinksIn(categoryID)
	if err != nil {
		t.Fatalf("LinksIn failed: %v", err)
	}
	if len(links) != len(want) {
		t.Fatalf("got %d links, want %d", len(links), len(want))
	}
	for i, link := range links {
		if link.ID != want[i] {
			t.Errorf("position %d: got link %s, want %s", i, link.ID, want[i])
		}
		if link.SortOrder != i {
			t.Errorf("link %s: sort order %d, want %d", link.ID, link.SortOrder, i)
		}
	}
}

func TestAdd_AppendsToCategory(t *testing.T) {
	e, store := newTestEngine(t)
	catID := seedCategory(t, store, "Tools")

	ids := seedLinks(t, e, catID, "https://a.example", "https://b.example")
	assertSequence(t, store, catID, ids)
}

func TestAdd_DefaultsCategory(t *testing.T) {
	e, store := newTestEngine(t)

	link, err := e.Add(model.NewLinkParams{URL: "https://a.example", Title: "A"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	defaultID, err := store.Reader().DefaultCategoryID()
	if err != nil {
		t.Fatalf("DefaultCategoryID failed: %v", err)
	}
	if link.CategoryID != defaultID {
		t.Errorf("link placed in %s, want default category %s", link.CategoryID, defaultID)
	}
}

func TestAdd_EmptyURL(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.Add(model.NewLinkParams{Title: "no url"})
	if !errs.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAdd_UnknownCategory(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.Add(model.NewLinkParams{URL: "https://a.example", CategoryID: "nope"})
	if !errs.IsNotFound(err) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestMove_RequiresTarget(t *testing.T) {
	e, _ := newTestEngine(t)

	if err := e.Move("whatever", nil, nil); !errs.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMove_AcrossCategories(t *testing.T) {
	e, store := newTestEngine(t)
	src := seedCategory(t, store, "Source")
	dst := seedCategory(t, store, "Dest")

	srcIDs := seedLinks(t, e, src, "https://a.example", "https://b.example", "https://c.example")
	dstIDs := seedLinks(t, e, dst, "https://x.example", "https://y.example")

	// Splice B into the destination at position 1.
	pos := 1
	if err := e.Move(srcIDs[1], &dst, &pos); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	assertSequence(t, store, dst, []string{dstIDs[0], srcIDs[1], dstIDs[1]})
	assertSequence(t, store, src, []string{srcIDs[0], srcIDs[2]})
}

func TestMove_AcrossCategoriesAppends(t *testing.T) {
	e, store := newTestEngine(t)
	src := seedCategory(t, store, "Source")
	dst := seedCategory(t, store, "Dest")

	srcIDs := seedLinks(t, e, src, "https://a.example")
	dstIDs := seedLinks(t, e, dst, "https://x.example")

	if err := e.Move(srcIDs[0], &dst, nil); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	assertSequence(t, store, dst, []string{dstIDs[0], srcIDs[0]})
	assertSequence(t, store, src, nil)
}

func TestMove_WithinCategory(t *testing.T) {
	e, store := newTestEngine(t)
	catID := seedCategory(t, store, "Tools")

	ids := seedLinks(t, e, catID, "https://a.example", "https://b.example", "https://c.example")

	pos := 0
	if err := e.Move(ids[2], nil, &pos); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	assertSequence(t, store, catID, []string{ids[2], ids[0], ids[1]})
}

func TestMove_OntoCurrentPositionIsNoop(t *testing.T) {
	e, store := newTestEngine(t)
	catID := seedCategory(t, store, "Tools")

	ids := seedLinks(t, e, catID, "https://a.example", "https://b.example")

	pos := 1
	if err := e.Move(ids[1], &catID, &pos); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	assertSequence(t, store, catID, ids)
}

func TestMove_ClampsPosition(t *testing.T) {
	e, store := newTestEngine(t)
	src := seedCategory(t, store, "Source")
	dst := seedCategory(t, store, "Dest")

	srcIDs := seedLinks(t, e, src, "https://a.example")
	dstIDs := seedLinks(t, e, dst, "https://x.example")

	pos := 99
	if err := e.Move(srcIDs[0], &dst, &pos); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	assertSequence(t, store, dst, []string{dstIDs[0], srcIDs[0]})
}

func TestReorder(t *testing.T) {
	e, store := newTestEngine(t)
	catID := seedCategory(t, store, "Tools")

	ids := seedLinks(t, e, catID, "https://a.example", "https://b.example", "https://c.example")

	want := []string{ids[2], ids[0], ids[1]}
	if err := e.Reorder(catID, want); err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}
	assertSequence(t, store, catID, want)
}

func TestReorder_RejectsForeignID(t *testing.T) {
	e, store := newTestEngine(t)
	catID := seedCategory(t, store, "Tools")

	ids := seedLinks(t, e, catID, "https://a.example", "https://b.example")

	err := e.Reorder(catID, []string{ids[0], "foreign"})
	if !errs.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdate_CategoryChangeRenumbersSource(t *testing.T) {
	e, store := newTestEngine(t)
	src := seedCategory(t, store, "Source")
	dst := seedCategory(t, store, "Dest")

	srcIDs := seedLinks(t, e, src, "https://a.example", "https://b.example")

	if err := e.Update(srcIDs[0], placement.Update{CategoryID: &dst}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	assertSequence(t, store, dst, []string{srcIDs[0]})
	assertSequence(t, store, src, []string{srcIDs[1]})
}

func TestUpdate_Metadata(t *testing.T) {
	e, store := newTestEngine(t)
	catID := seedCategory(t, store, "Tools")
	ids := seedLinks(t, e, catID, "https://a.example")

	title := "Renamed"
	tags := []string{"go", "dev"}
	if err := e.Update(ids[0], placement.Update{Title: &title, Tags: tags}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	link, err := e.Get(ids[0])
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if link.Title != "Renamed" {
		t.Errorf("title = %q, want %q", link.Title, "Renamed")
	}
	if len(link.Tags) != 2 || link.Tags[0] != "go" {
		t.Errorf("tags = %v, want %v", link.Tags, tags)
	}
	// Placement untouched by a metadata edit
	if link.CategoryID != catID || link.SortOrder != 0 {
		t.Errorf("placement changed: category %s order %d", link.CategoryID, link.SortOrder)
	}
}

func TestDelete_ClosesGap(t *testing.T) {
	e, store := newTestEngine(t)
	catID := seedCategory(t, store, "Tools")

	ids := seedLinks(t, e, catID, "https://a.example", "https://b.example", "https://c.example")

	if err := e.Delete(ids[1]); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	assertSequence(t, store, catID, []string{ids[0], ids[2]})
}

func TestDelete_Unknown(t *testing.T) {
	e, _ := newTestEngine(t)

	if err := e.Delete("nope"); !errs.IsNotFound(err) {
		t.Fatalf("expected not found error, got %v", err)
	}
}
