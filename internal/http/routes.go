package httpx

import (
	"log/slog"
	"net/http"

	"github.com/vmelnyk/contacts-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth     *service.AuthService
	Users    *service.UserService
	Contacts *service.ContactService
	Identity *service.IdentityService
	Logger   *slog.Logger // Logger for request logging and panic reports (optional)
}

// NewRouter creates and configures a new HTTP router with the standard
// middleware chain applied.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	registerAuthRoutes(mux, &AuthHandlers{Svc: services.Auth})

	requireAuth := RequireAuth(services.Identity)
	registerUserRoutes(mux, &UserHandlers{Svc: services.Users}, requireAuth)
	registerContactRoutes(mux, &ContactHandlers{Svc: services.Contacts}, requireAuth)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	var handler http.Handler = mux
	handler = Logging(logger)(handler)
	handler = RequestID()(handler)
	handler = Recover(logger)(handler)
	return handler
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("POST /auth/register", h.Register)
	mux.HandleFunc("POST /auth/login", h.Login)
	mux.HandleFunc("GET /auth/confirmed_email/{token}", h.ConfirmEmail)
	mux.HandleFunc("POST /auth/request_email", h.RequestEmail)
}

func registerUserRoutes(
	mux *http.ServeMux,
	h *UserHandlers,
	requireAuth func(http.Handler) http.Handler,
) {
	mux.Handle("GET /users/me", requireAuth(http.HandlerFunc(h.Me)))
	mux.Handle("PATCH /users/avatar", requireAuth(http.HandlerFunc(h.UpdateAvatar)))
}

func registerContactRoutes(
	mux *http.ServeMux,
	h *ContactHandlers,
	requireAuth func(http.Handler) http.Handler,
) {
	mux.Handle("POST /contacts/{$}", requireAuth(http.HandlerFunc(h.Create)))
	mux.Handle("GET /contacts/{$}", requireAuth(http.HandlerFunc(h.List)))
	mux.Handle("GET /contacts/birthdays", requireAuth(http.HandlerFunc(h.UpcomingBirthdays)))
	mux.Handle("GET /contacts/{id}", requireAuth(http.HandlerFunc(h.GetByID)))
	mux.Handle("PUT /contacts/{id}", requireAuth(http.HandlerFunc(h.Replace)))
	mux.Handle("PATCH /contacts/{id}", requireAuth(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /contacts/{id}", requireAuth(http.HandlerFunc(h.Delete)))
}
