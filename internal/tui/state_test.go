package tui

import (
	"testing"
	"time"

	"github.com/contactdesk/contactdesk/internal/contacts"
)

func seedState() ListState {
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	s := NewListState()
	s.Replace([]*contacts.Contact{
		{ID: "1", Name: "John Doe", Email: "john@example.com", Phone: "+1 555-111-2222", CreatedAt: base},
		{ID: "2", Name: "Jane Smith", Email: "jane@example.com", Phone: "+1 555-333-4444", CreatedAt: base.Add(time.Hour)},
		{ID: "3", Name: "Bob Johnson", Email: "bob@work.org", Phone: "+1 555-555-6666", CreatedAt: base.Add(2 * time.Hour)},
	})
	return s
}

func visibleIDs(s ListState) []string {
	rows := s.Visible()
	ids := make([]string, len(rows))
	for i, c := range rows {
		ids[i] = c.ID
	}
	return ids
}

func assertIDs(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected ids %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected ids %v, got %v", want, got)
		}
	}
}

func TestVisibleDefaultsToNewestFirst(t *testing.T) {
	s := seedState()
	assertIDs(t, visibleIDs(s), []string{"3", "2", "1"})
}

func TestVisibleFiltersByNameCaseInsensitive(t *testing.T) {
	s := seedState()

	s.Search = "john"
	// Matches John Doe (name) and Bob Johnson (name), not Jane Smith.
	assertIDs(t, visibleIDs(s), []string{"3", "1"})

	s.Search = ""
	assertIDs(t, visibleIDs(s), []string{"3", "2", "1"})
}

func TestVisibleFiltersByEmailAndPhone(t *testing.T) {
	s := seedState()

	s.Search = "work.org"
	assertIDs(t, visibleIDs(s), []string{"3"})

	s.Search = "555-333"
	assertIDs(t, visibleIDs(s), []string{"2"})
}

func TestVisibleNoMatches(t *testing.T) {
	s := seedState()
	s.Search = "zzz"
	if rows := s.Visible(); len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestToggleSort(t *testing.T) {
	s := seedState()

	s.ToggleSort(contacts.SortFieldName)
	if s.SortField != contacts.SortFieldName || !s.SortAsc {
		t.Fatalf("expected ascending name sort, got %s asc=%v", s.SortField, s.SortAsc)
	}
	assertIDs(t, visibleIDs(s), []string{"3", "2", "1"}) // Bob, Jane, John

	s.ToggleSort(contacts.SortFieldName)
	if s.SortAsc {
		t.Fatal("expected second toggle to flip to descending")
	}
	assertIDs(t, visibleIDs(s), []string{"1", "2", "3"})

	s.ToggleSort(contacts.SortFieldEmail)
	if s.SortField != contacts.SortFieldEmail || !s.SortAsc {
		t.Fatalf("expected switching columns to reset to ascending, got %s asc=%v", s.SortField, s.SortAsc)
	}
}

func TestPrependAndRemove(t *testing.T) {
	s := seedState()

	s.Prepend(&contacts.Contact{ID: "4", Name: "New Person", Email: "new@example.com", Phone: "+1 555-777-8888",
		CreatedAt: time.Date(2026, 8, 1, 13, 0, 0, 0, time.UTC)})
	assertIDs(t, visibleIDs(s), []string{"4", "3", "2", "1"})

	s.Remove("2")
	assertIDs(t, visibleIDs(s), []string{"4", "3", "1"})

	s.Remove("2") // already gone
	assertIDs(t, visibleIDs(s), []string{"4", "3", "1"})
}
