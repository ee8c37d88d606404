package httpx

import (
	"net/http"
	"strconv"

	"github.com/vmelnyk/contacts-api/internal/domain/model"
	"github.com/vmelnyk/contacts-api/internal/service"
)

// ContactHandlers provides HTTP handlers for contact CRUD. All routes
// run behind RequireAuth; every operation is scoped to the caller.
type ContactHandlers struct {
	Svc *service.ContactService
}

// Create handles POST /contacts/.
func (h *ContactHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateContactRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	contact, err := h.Svc.Create(r.Context(), UserFromContext(r.Context()).ID, req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, contact)
}

// List handles GET /contacts/ with optional name, surname, and email
// filters plus limit/skip pagination.
func (h *ContactHandlers) List(w http.ResponseWriter, r *http.Request) {
	opts := model.ContactListOptions{
		Name:    optionalQuery(r, "name"),
		Surname: optionalQuery(r, "surname"),
		Email:   optionalQuery(r, "email"),
	}
	opts.Limit, opts.Offset = ParseLimitSkip(r, 10, 100)

	contacts, err := h.Svc.List(r.Context(), UserFromContext(r.Context()).ID, opts)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, contacts)
}

// GetByID handles GET /contacts/{id}.
func (h *ContactHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	contactID, ok := pathID(w, r)
	if !ok {
		return
	}

	contact, err := h.Svc.Get(r.Context(), UserFromContext(r.Context()).ID, contactID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, contact)
}

// Replace handles PUT /contacts/{id}.
func (h *ContactHandlers) Replace(w http.ResponseWriter, r *http.Request) {
	contactID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req model.CreateContactRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	contact, err := h.Svc.Replace(r.Context(), UserFromContext(r.Context()).ID, contactID, req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, contact)
}

// Update handles PATCH /contacts/{id}.
func (h *ContactHandlers) Update(w http.ResponseWriter, r *http.Request) {
	contactID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req model.UpdateContactRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	contact, err := h.Svc.Update(r.Context(), UserFromContext(r.Context()).ID, contactID, req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, contact)
}

// Delete handles DELETE /contacts/{id}.
func (h *ContactHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	contactID, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Svc.Delete(r.Context(), UserFromContext(r.Context()).ID, contactID); err != nil {
		WriteServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpcomingBirthdays handles GET /contacts/birthdays.
func (h *ContactHandlers) UpcomingBirthdays(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.Svc.UpcomingBirthdays(r.Context(), UserFromContext(r.Context()).ID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, contacts)
}

// pathID parses the {id} path segment, writing a 404 for values that can
// never name a contact.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		WriteDetail(w, http.StatusNotFound, service.ErrContactNotFound.Message)
		return 0, false
	}
	return id, true
}

func optionalQuery(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}
