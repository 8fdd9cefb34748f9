package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"task-manager/internal/models"
	"task-manager/internal/service"
)

// UsersViewModel is the data passed to the admin users page template.
type UsersViewModel struct {
	User  *models.Identity
	Users []models.UserWithTaskCount
}

// ListUsers renders the admin user list with task counts.
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	identity := GetIdentityFromContext(r)

	users, err := h.accounts.ListAll()
	if err != nil {
		log.Printf("ListUsers error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "users.html", UsersViewModel{
		User:  identity,
		Users: users,
	})
}

// CreateUser handles admin account creation with an explicit role.
func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	_, err := h.accounts.CreateAccount(
		strings.TrimSpace(r.FormValue("username")),
		strings.TrimSpace(r.FormValue("email")),
		r.FormValue("password"),
		r.FormValue("role"),
	)
	if err != nil {
		h.domainError(w, err, "CreateUser")
		return
	}
	http.Redirect(w, r, "/users", http.StatusFound)
}

// UpdateUser handles admin account updates. The password is only replaced
// when the form supplies a non-empty one.
func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := h.accounts.UpdateAccount(
		id,
		strings.TrimSpace(r.FormValue("username")),
		strings.TrimSpace(r.FormValue("email")),
		r.FormValue("role"),
		r.FormValue("password"),
	)
	if err != nil {
		h.domainError(w, err, "UpdateUser")
		return
	}
	http.Redirect(w, r, "/users", http.StatusFound)
}

// DeleteUser removes an account and everything it owns. Admins cannot
// delete themselves.
func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	identity := GetIdentityFromContext(r)
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

	if err := h.accounts.DeleteAccount(identity.ID, id); err != nil {
		h.domainError(w, err, "DeleteUser")
		return
	}
	http.Redirect(w, r, "/users", http.StatusFound)
}

// UserJSON returns a single account as JSON, without the password hash.
func (h *Handlers) UserJSON(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

	user, err := h.accounts.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("UserJSON error: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "Server Error")
		return
	}

	writeJSON(w, user)
}
