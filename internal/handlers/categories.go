package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"task-manager/internal/models"
	"task-manager/internal/service"
)

// CategoriesViewModel is the data passed to the categories page template.
type CategoriesViewModel struct {
	User       *models.Identity
	Categories []models.CategoryWithTaskCount
}

// ListCategories renders the category list with task counts.
func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	identity := GetIdentityFromContext(r)

	categories, err := h.categories.ListForOwner(identity.ID)
	if err != nil {
		log.Printf("ListCategories error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "categories.html", CategoriesViewModel{
		User:       identity,
		Categories: categories,
	})
}

// CreateCategory handles the creation of a new category.
func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	identity := GetIdentityFromContext(r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	_, err := h.categories.Create(identity.ID, r.FormValue("name"), r.FormValue("color"), r.FormValue("icon"))
	if err != nil {
		h.domainError(w, err, "CreateCategory")
		return
	}
	http.Redirect(w, r, "/categories", http.StatusFound)
}

// UpdateCategory handles the update of an existing category.
func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	identity := GetIdentityFromContext(r)
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := h.categories.Update(identity.ID, id, r.FormValue("name"), r.FormValue("color"), r.FormValue("icon"))
	if err != nil {
		h.domainError(w, err, "UpdateCategory")
		return
	}
	http.Redirect(w, r, "/categories", http.StatusFound)
}

// DeleteCategory removes a category after detaching its tasks. The tasks
// themselves survive as uncategorized.
func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	identity := GetIdentityFromContext(r)
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

	if err := h.categories.Delete(identity.ID, id); err != nil {
		h.domainError(w, err, "DeleteCategory")
		return
	}
	http.Redirect(w, r, "/categories", http.StatusFound)
}

// CategoryJSON returns a single category as JSON, used by the edit dialog.
func (h *Handlers) CategoryJSON(w http.ResponseWriter, r *http.Request) {
	identity := GetIdentityFromContext(r)
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

	category, err := h.categories.GetByID(identity.ID, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "Category not found")
			return
		}
		log.Printf("CategoryJSON error: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "Server Error")
		return
	}

	writeJSON(w, category)
}
