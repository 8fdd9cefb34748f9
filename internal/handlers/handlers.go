package handlers

import (
	"context"
	"errors"
	"html/template"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"task-manager/internal/models"
	"task-manager/internal/service"
	"task-manager/internal/storage"
)

// Context key type to avoid collisions.
type contextKey string

const (
	// IdentityContextKey is the context key for the authenticated identity.
	IdentityContextKey contextKey = "identity"
	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "session"
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	auth         *service.AuthService
	categories   *service.CategoryService
	tasks        *service.TaskService
	accounts     *service.AccountService
	dashboard    *service.DashboardService
	templateDir  string
	secureCookie bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *storage.DB, templateDir string, secureCookie bool) *Handlers {
	return &Handlers{
		auth:         service.NewAuthService(db),
		categories:   service.NewCategoryService(db),
		tasks:        service.NewTaskService(db),
		accounts:     service.NewAccountService(db),
		dashboard:    service.NewDashboardService(db),
		templateDir:  templateDir,
		secureCookie: secureCookie,
	}
}

// GetIdentityFromContext retrieves the authenticated identity from request context.
func GetIdentityFromContext(r *http.Request) *models.Identity {
	if identity, ok := r.Context().Value(IdentityContextKey).(*models.Identity); ok {
		return identity
	}
	return nil
}

// RequireAuth wraps handlers to require a valid session. Renewed sessions
// get their cookie refreshed on the way through.
func (h *Handlers) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		identity, renewedAt, err := h.auth.ValidateSession(cookie.Value)
		if err != nil {
			// Invalid or expired session, clear the cookie
			h.clearSessionCookie(w)
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		if renewedAt != nil {
			h.setSessionCookie(w, cookie.Value, *renewedAt)
		}

		ctx := context.WithValue(r.Context(), IdentityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin wraps handlers to require an authenticated admin. A
// non-admin identity gets a 403, not a login redirect.
func (h *Handlers) RequireAdmin(next http.Handler) http.Handler {
	return h.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := GetIdentityFromContext(r)
		if identity == nil || !identity.IsAdmin() {
			http.Error(w, "Access Denied: Admin only", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// RequireGuest wraps handlers that only make sense without a session,
// like the login and register pages.
func (h *Handlers) RequireGuest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
			if _, _, err := h.auth.ValidateSession(cookie.Value); err == nil {
				http.Redirect(w, r, "/dashboard", http.StatusFound)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// LoginViewModel holds data for the login page.
type LoginViewModel struct {
	Error string
}

// RegisterViewModel holds data for the register page.
type RegisterViewModel struct {
	Error   string
	Success string
}

// LoginForm renders the login page.
func (h *Handlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login.html", LoginViewModel{})
}

// Login handles the login form submission.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, "login.html", LoginViewModel{Error: "Invalid form submission"})
		return
	}

	identifier := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	if identifier == "" || password == "" {
		h.render(w, r, "login.html", LoginViewModel{Error: "Username and password are required"})
		return
	}

	result, err := h.auth.Login(identifier, password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			h.render(w, r, "login.html", LoginViewModel{Error: "Username or email not found"})
		case errors.Is(err, service.ErrInvalidCredentials):
			h.render(w, r, "login.html", LoginViewModel{Error: "Wrong password"})
		default:
			log.Printf("Login error: %v", err)
			h.render(w, r, "login.html", LoginViewModel{Error: "An error occurred. Please try again."})
		}
		return
	}

	h.setSessionCookie(w, result.Token, result.ExpiresAt)
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// RegisterForm renders the register page.
func (h *Handlers) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "register.html", RegisterViewModel{})
}

// Register handles the registration form submission. Success does not
// log the account in; the user is pointed back at the login page.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, "register.html", RegisterViewModel{Error: "Invalid form submission"})
		return
	}

	_, err := h.auth.Register(
		strings.TrimSpace(r.FormValue("username")),
		strings.TrimSpace(r.FormValue("email")),
		r.FormValue("password"),
		r.FormValue("confirm_password"),
	)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			h.render(w, r, "register.html", RegisterViewModel{Error: verr.Msg})
		case errors.Is(err, service.ErrConflict):
			h.render(w, r, "register.html", RegisterViewModel{Error: "Username or email already registered"})
		default:
			log.Printf("Register error: %v", err)
			h.render(w, r, "register.html", RegisterViewModel{Error: "An error occurred. Please try again."})
		}
		return
	}

	h.render(w, r, "register.html", RegisterViewModel{Success: "Registration successful! Please log in."})
}

// Logout handles user logout. A session destruction failure is logged by
// the service and the user is redirected to login regardless.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		h.auth.Logout(cookie.Value)
	}
	h.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

// Home redirects to the dashboard or the login page depending on whether
// a valid session exists.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if _, _, err := h.auth.ValidateSession(cookie.Value); err == nil {
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *Handlers) setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, viewName string, data any) {
	tmpl, err := template.ParseFiles(filepath.Join(h.templateDir, "base.html"), filepath.Join(h.templateDir, viewName))
	if err != nil {
		log.Printf("Template error: %v", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		log.Printf("Template execution error: %v", err)
	}
}
