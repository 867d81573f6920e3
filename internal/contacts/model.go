package contacts

import "time"

// Contact is a single address-book entry submitted through the web form.
type Contact struct {
	ID        string    `json:"id" dynamodbav:"id"`
	Name      string    `json:"name" dynamodbav:"name"`
	Email     string    `json:"email" dynamodbav:"email"`
	Phone     string    `json:"phone" dynamodbav:"phone"`
	Message   string    `json:"message" dynamodbav:"message"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" dynamodbav:"updatedAt"`
}

// CreateContactRequest is the request body for creating a contact.
type CreateContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Sortable fields accepted by List. A leading '-' on the sort string
// requests descending order, e.g. "-createdAt".
const (
	SortFieldName      = "name"
	SortFieldEmail     = "email"
	SortFieldCreatedAt = "createdAt"

	DefaultSort  = "-" + SortFieldCreatedAt
	DefaultLimit = 100
	MaxLimit     = 100
)

// ListFilter narrows and orders a List call.
type ListFilter struct {
	Sort  string
	Limit int
}

// normalize fills defaults and clamps the limit.
func (f ListFilter) normalize() ListFilter {
	if f.Sort == "" {
		f.Sort = DefaultSort
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	return f
}

// sortSpec splits the sort string into field and direction. Unknown
// fields fall back to the default ordering.
func (f ListFilter) sortSpec() (field string, descending bool) {
	s := f.Sort
	if len(s) > 0 && s[0] == '-' {
		descending = true
		s = s[1:]
	}
	switch s {
	case SortFieldName, SortFieldEmail, SortFieldCreatedAt:
		return s, descending
	default:
		return SortFieldCreatedAt, true
	}
}
