package contacts

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/contactdesk/contactdesk/internal/api/respond"
	"github.com/contactdesk/contactdesk/pkg/logging"
)

// Handler handles HTTP requests for contacts.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new contacts handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

// Routes mounts the contact resource on a chi router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Delete("/{id}", h.Delete)
	return r
}

// CreateResponse is the success envelope for POST /contacts.
type CreateResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Contact *Contact `json:"contact"`
}

// Create handles POST /contacts.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		respond.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if msg := missingFields(&req); msg != "" {
		respond.Fail(w, http.StatusBadRequest, msg)
		return
	}

	contact, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.logger.Info("contact created", "id", contact.ID, "name", contact.Name)

	respond.JSON(w, http.StatusCreated, CreateResponse{
		Success: true,
		Message: "Contact created successfully",
		Contact: contact,
	})
}

// ListResponse is the success envelope for GET /contacts. The collection
// field is always named "contacts".
type ListResponse struct {
	Success  bool       `json:"success"`
	Count    int        `json:"count"`
	Contacts []*Contact `json:"contacts"`
}

// List handles GET /contacts with optional sort and limit query params.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Sort:  r.URL.Query().Get("sort"),
		Limit: DefaultLimit,
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}

	list, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list contacts", "error", err)
		h.respondError(w, err)
		return
	}
	if list == nil {
		list = []*Contact{}
	}

	respond.JSON(w, http.StatusOK, ListResponse{
		Success:  true,
		Count:    len(list),
		Contacts: list,
	})
}

// GetResponse is the success envelope for GET /contacts/{id}.
type GetResponse struct {
	Success bool     `json:"success"`
	Contact *Contact `json:"contact"`
}

// Get handles GET /contacts/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	contact, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, GetResponse{Success: true, Contact: contact})
}

// DeleteResponse is the success envelope for DELETE /contacts/{id}.
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Delete handles DELETE /contacts/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	contact, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.logger.Info("contact deleted", "id", contact.ID)

	respond.JSON(w, http.StatusOK, DeleteResponse{
		Success: true,
		Message: "Contact deleted successfully",
	})
}

// respondError maps store failures onto the response taxonomy: aggregated
// validation failures at 400, missing documents at 404, everything else a
// generic 500. A failing request never takes the process down.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Fail(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, ErrContactNotFound):
		respond.Fail(w, http.StatusNotFound, "Contact not found")
	default:
		h.logger.Error("request failed", "error", err)
		respond.Fail(w, http.StatusInternalServerError, "Something went wrong")
	}
}

// missingFields reports absent required fields before the store runs its
// own constraint checks.
func missingFields(req *CreateContactRequest) string {
	var missing []string
	if strings.TrimSpace(req.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(req.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(req.Phone) == "" {
		missing = append(missing, "phone")
	}
	if len(missing) == 0 {
		return ""
	}
	return "Missing required fields: " + strings.Join(missing, ", ")
}
