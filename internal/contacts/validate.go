package contacts

import (
	"regexp"
	"strings"
)

const (
	nameMinLen    = 2
	nameMaxLen    = 100
	messageMaxLen = 500
	phoneMinDigit = 10
)

var (
	// Deliberately loose: local@domain.tld shaped, nothing more.
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phonePattern = regexp.MustCompile(`^[\d\s\-\+\(\)]+$`)
)

// ValidateName returns "" for a valid name, otherwise the reason.
// The value is expected to be trimmed already.
func ValidateName(v string) string {
	switch {
	case v == "":
		return "Name is required"
	case len(v) < nameMinLen:
		return "Name must be at least 2 characters"
	case len(v) > nameMaxLen:
		return "Name cannot exceed 100 characters"
	}
	return ""
}

// ValidateEmail returns "" for a valid email, otherwise the reason.
func ValidateEmail(v string) string {
	switch {
	case v == "":
		return "Email is required"
	case !emailPattern.MatchString(v):
		return "Please provide a valid email address"
	}
	return ""
}

// ValidatePhone returns "" for a valid phone number, otherwise the reason.
// Allowed characters are digits, spaces, '-', '+', '(' and ')'; at least
// ten of them must be digits.
func ValidatePhone(v string) string {
	if v == "" {
		return "Phone number is required"
	}
	if !phonePattern.MatchString(v) {
		return "Please provide a valid phone number"
	}
	digits := 0
	for _, r := range v {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < phoneMinDigit {
		return "Phone number must be at least 10 digits"
	}
	return ""
}

// ValidateMessage returns "" for a valid message, otherwise the reason.
// Messages are optional.
func ValidateMessage(v string) string {
	if len(v) > messageMaxLen {
		return "Message cannot exceed 500 characters"
	}
	return ""
}

// Normalize trims every field and lower-cases the email, mirroring what
// the store persists.
func (r *CreateContactRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Message = strings.TrimSpace(r.Message)
}

// Validate normalizes the request and checks every field, aggregating all
// failures into a single *ValidationError.
func (r *CreateContactRequest) Validate() error {
	r.Normalize()

	verr := &ValidationError{Fields: map[string]string{}}
	if msg := ValidateName(r.Name); msg != "" {
		verr.Fields["name"] = msg
	}
	if msg := ValidateEmail(r.Email); msg != "" {
		verr.Fields["email"] = msg
	}
	if msg := ValidatePhone(r.Phone); msg != "" {
		verr.Fields["phone"] = msg
	}
	if msg := ValidateMessage(r.Message); msg != "" {
		verr.Fields["message"] = msg
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}
