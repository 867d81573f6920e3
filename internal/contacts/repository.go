package contacts

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for contact storage. Every operation is
// a single-document call; there is no update and no transaction.
type Repository interface {
	Create(ctx context.Context, req *CreateContactRequest) (*Contact, error)
	List(ctx context.Context, filter ListFilter) ([]*Contact, error)
	GetByID(ctx context.Context, id string) (*Contact, error)
	// Delete removes and returns the deleted contact, or ErrContactNotFound.
	Delete(ctx context.Context, id string) (*Contact, error)
}

// InMemoryRepository keeps contacts in memory. It backs local development
// and the handler tests.
type InMemoryRepository struct {
	mu       sync.RWMutex
	contacts map[string]*Contact
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		contacts: make(map[string]*Contact),
	}
}

// Create validates the request and stores a new contact. Validation runs
// here as well as in the handler so the constraints hold even when the
// repository is driven directly.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateContactRequest) (*Contact, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	contact := &Contact{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.mu.Lock()
	r.contacts[contact.ID] = contact
	r.mu.Unlock()

	return contact, nil
}

// List returns contacts ordered by the filter's sort spec, truncated to
// its limit.
func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter) ([]*Contact, error) {
	filter = filter.normalize()

	r.mu.RLock()
	out := make([]*Contact, 0, len(r.contacts))
	for _, c := range r.contacts {
		out = append(out, c)
	}
	r.mu.RUnlock()

	SortContacts(out, filter)
	if len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// GetByID retrieves a contact by id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.contacts[id]
	if !ok {
		return nil, ErrContactNotFound
	}
	return c, nil
}

// Delete removes a contact and returns it. Repeated deletes of the same id
// keep returning ErrContactNotFound.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) (*Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.contacts[id]
	if !ok {
		return nil, ErrContactNotFound
	}
	delete(r.contacts, id)
	return c, nil
}

// SortContacts orders contacts in place per the filter: case-insensitive
// lexicographic for text fields, chronological for createdAt. The terminal
// client reuses it so both sides order identically.
func SortContacts(list []*Contact, filter ListFilter) {
	field, desc := filter.sortSpec()
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if desc {
			a, b = b, a
		}
		switch field {
		case SortFieldName:
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case SortFieldEmail:
			return strings.ToLower(a.Email) < strings.ToLower(b.Email)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})
}
