package tui

import (
	"strings"

	"github.com/contactdesk/contactdesk/internal/contacts"
)

// ListState holds the client-side view of the contact list: the full list
// as last fetched from the server, the free-text search term, and the
// current sort spec. The displayed rows are always derived, never stored.
type ListState struct {
	Contacts  []*contacts.Contact
	Search    string
	SortField string
	SortAsc   bool
}

// NewListState starts with the server's default ordering: newest first.
func NewListState() ListState {
	return ListState{
		SortField: contacts.SortFieldCreatedAt,
		SortAsc:   false,
	}
}

// Visible derives the rows to display: the full list filtered by the
// search term, then ordered by the current sort spec. Name and email
// match case-insensitively; phone matches on the raw string.
func (s ListState) Visible() []*contacts.Contact {
	term := strings.TrimSpace(s.Search)
	out := make([]*contacts.Contact, 0, len(s.Contacts))
	if term == "" {
		out = append(out, s.Contacts...)
	} else {
		lower := strings.ToLower(term)
		for _, c := range s.Contacts {
			if strings.Contains(strings.ToLower(c.Name), lower) ||
				strings.Contains(strings.ToLower(c.Email), lower) ||
				strings.Contains(c.Phone, term) {
				out = append(out, c)
			}
		}
	}

	sortSpec := s.SortField
	if !s.SortAsc {
		sortSpec = "-" + sortSpec
	}
	contacts.SortContacts(out, contacts.ListFilter{Sort: sortSpec})
	return out
}

// ToggleSort flips the direction when the active column is clicked again
// and resets to ascending when a new column is chosen.
func (s *ListState) ToggleSort(field string) {
	if s.SortField == field {
		s.SortAsc = !s.SortAsc
		return
	}
	s.SortField = field
	s.SortAsc = true
}

// Replace swaps in the authoritative list from the server, discarding any
// local-only state.
func (s *ListState) Replace(list []*contacts.Contact) {
	s.Contacts = list
}

// Prepend optimistically adds a just-created contact to the top.
func (s *ListState) Prepend(c *contacts.Contact) {
	s.Contacts = append([]*contacts.Contact{c}, s.Contacts...)
}

// Remove optimistically drops a deleted contact.
func (s *ListState) Remove(id string) {
	out := s.Contacts[:0]
	for _, c := range s.Contacts {
		if c.ID != id {
			out = append(out, c)
		}
	}
	s.Contacts = out
}
