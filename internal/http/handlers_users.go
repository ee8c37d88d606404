package httpx

import (
	"net/http"

	"github.com/vmelnyk/contacts-api/internal/service"
)

// maxAvatarBytes bounds avatar uploads.
const maxAvatarBytes = 5 << 20

// UserHandlers provides HTTP handlers for profile operations. Both
// endpoints run behind RequireAuth.
type UserHandlers struct {
	Svc *service.UserService
}

// Me handles GET /users/me.
func (h *UserHandlers) Me(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, UserFromContext(r.Context()))
}

// UpdateAvatar handles PATCH /users/avatar. The image arrives as the
// "file" part of a multipart form.
func (h *UserHandlers) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		WriteDetail(w, http.StatusBadRequest, "malformed multipart body")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		WriteDetail(w, http.StatusUnprocessableEntity, "file field is required")
		return
	}
	defer file.Close()

	updated, err := h.Svc.UpdateAvatar(r.Context(), UserFromContext(r.Context()), file)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, updated)
}
