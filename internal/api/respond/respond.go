// Package respond writes the JSON envelope every endpoint answers with.
package respond

import (
	"encoding/json"
	"net/http"
)

// Failure is the envelope body for any failed request.
type Failure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Fail writes a failure envelope with the given status and message.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Failure{Success: false, Message: message})
}
