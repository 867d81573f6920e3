package contacts

import (
	"errors"
	"strings"
)

// ErrContactNotFound is returned when no contact exists for the given id.
var ErrContactNotFound = errors.New("contact not found")

// fieldOrder fixes the order in which aggregated validation messages are
// reported, independent of map iteration.
var fieldOrder = []string{"name", "email", "phone", "message"}

// ValidationError aggregates every failing field constraint of a request.
type ValidationError struct {
	Fields map[string]string
}

// Error joins all field messages with ", " in stable field order.
func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range fieldOrder {
		if msg, ok := e.Fields[f]; ok {
			msgs = append(msgs, msg)
		}
	}
	return strings.Join(msgs, ", ")
}
