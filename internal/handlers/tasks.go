package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"task-manager/internal/models"
	"task-manager/internal/service"
)

// DeadlineFormat is the date layout used by the task forms.
const DeadlineFormat = "2006-01-02"

// TasksViewModel is the data passed to the tasks page template.
type TasksViewModel struct {
	User       *models.Identity
	Tasks      []models.TaskWithCategory
	Categories []models.CategoryWithTaskCount
	Error      string
}

// ListTasks renders the task list with the category picker.
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	identity := GetIdentityFromContext(r)

	tasks, err := h.tasks.ListForOwner(identity.ID)
	if err != nil {
		log.Printf("ListTasks error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	categories, err := h.categories.ListForOwner(identity.ID)
	if err != nil {
		log.Printf("ListTasks categories error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "tasks.html", TasksViewModel{
		User:       identity,
		Tasks:      tasks,
		Categories: categories,
	})
}

// CreateTask handles the creation of a new task.
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	identity := GetIdentityFromContext(r)

	input, _, err := parseTaskForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.tasks.Create(identity.ID, input); err != nil {
		h.domainError(w, err, "CreateTask")
		return
	}
	http.Redirect(w, r, "/tasks", http.StatusFound)
}

// UpdateTask handles the update of an existing task.
func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	identity := GetIdentityFromContext(r)
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

	input, status, err := parseTaskForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.tasks.Update(identity.ID, id, input, status); err != nil {
		h.domainError(w, err, "UpdateTask")
		return
	}
	http.Redirect(w, r, "/tasks", http.StatusFound)
}

// ToggleTask flips a task between pending and completed.
func (h *Handlers) ToggleTask(w http.ResponseWriter, r *http.Request) {
	identity := GetIdentityFromContext(r)
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

	if err := h.tasks.ToggleStatus(identity.ID, id); err != nil {
		h.domainError(w, err, "ToggleTask")
		return
	}
	http.Redirect(w, r, "/tasks", http.StatusFound)
}

// DeleteTask removes a task.
func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	identity := GetIdentityFromContext(r)
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

	if err := h.tasks.Delete(identity.ID, id); err != nil {
		h.domainError(w, err, "DeleteTask")
		return
	}
	http.Redirect(w, r, "/tasks", http.StatusFound)
}

// TaskJSON returns a single task as JSON, used by the edit dialog.
func (h *Handlers) TaskJSON(w http.ResponseWriter, r *http.Request) {
	identity := GetIdentityFromContext(r)
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

	task, err := h.tasks.GetByID(identity.ID, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "Task not found")
			return
		}
		log.Printf("TaskJSON error: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "Server Error")
		return
	}

	writeJSON(w, task)
}

func parseTaskForm(r *http.Request) (service.TaskInput, string, error) {
	if err := r.ParseForm(); err != nil {
		return service.TaskInput{}, "", err
	}

	input := service.TaskInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Priority:    r.FormValue("priority"),
	}

	if deadlineStr := r.FormValue("deadline"); deadlineStr != "" {
		deadline, err := time.Parse(DeadlineFormat, deadlineStr)
		if err != nil {
			return service.TaskInput{}, "", err
		}
		input.Deadline = deadline
	}

	if categoryStr := r.FormValue("category_id"); categoryStr != "" && categoryStr != "none" {
		categoryID, err := strconv.ParseInt(categoryStr, 10, 64)
		if err != nil {
			return service.TaskInput{}, "", err
		}
		input.CategoryID = &categoryID
	}

	return input, r.FormValue("status"), nil
}

// domainError maps service errors to HTTP responses for the form routes.
func (h *Handlers) domainError(w http.ResponseWriter, err error, operation string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		http.Error(w, verr.Msg, http.StatusBadRequest)
	case errors.Is(err, service.ErrConflict):
		http.Error(w, "Username or email already registered", http.StatusBadRequest)
	case errors.Is(err, service.ErrSelfDeletion):
		http.Error(w, "Cannot delete your own account", http.StatusBadRequest)
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	default:
		log.Printf("%s error: %v", operation, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("JSON encode error: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": msg}); err != nil {
		log.Printf("JSON encode error: %v", err)
	}
}
