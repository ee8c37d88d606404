// Package httpx provides HTTP handlers and utilities for the contacts API.
package httpx

import (
	"net/http"

	"github.com/vmelnyk/contacts-api/internal/domain/model"
	"github.com/vmelnyk/contacts-api/internal/service"
)

// AuthHandlers provides HTTP handlers for registration, login, and email
// confirmation.
type AuthHandlers struct {
	Svc *service.AuthService
}

// Register handles POST /auth/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.Svc.Register(r.Context(), req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, user)
}

// Login handles POST /auth/login. The request is form-encoded in the
// OAuth2 password-flow shape: username and password fields.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		WriteDetail(w, http.StatusBadRequest, "malformed form body")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		WriteDetail(w, http.StatusUnprocessableEntity, "username and password are required")
		return
	}

	token, err := h.Svc.Login(r.Context(), username, password)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, token)
}

// ConfirmEmail handles GET /auth/confirmed_email/{token}.
func (h *AuthHandlers) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	msg, err := h.Svc.ConfirmEmail(r.Context(), r.PathValue("token"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": msg})
}

// RequestEmailBody is the request payload for RequestEmail.
type RequestEmailBody struct {
	Email string `json:"email"`
}

// RequestEmail handles POST /auth/request_email. The response does not
// reveal whether the address is registered.
func (h *AuthHandlers) RequestEmail(w http.ResponseWriter, r *http.Request) {
	var body RequestEmailBody
	if !DecodeJSON(w, r, &body) {
		return
	}

	msg, err := h.Svc.RequestEmail(r.Context(), body.Email)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": msg})
}
