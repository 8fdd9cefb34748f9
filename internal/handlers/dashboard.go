package handlers

import (
	"log"
	"net/http"

	"task-manager/internal/models"
	"task-manager/internal/service"
)

// DashboardViewModel is the data passed to the dashboard template.
type DashboardViewModel struct {
	User       *models.Identity
	Tasks      []models.TaskWithCategory
	Categories []models.CategoryWithTaskCount
	Stats      models.Stats
}

// Dashboard renders the dashboard: the task list ordered by deadline then
// priority, the category list, and the summary counters. The counters are
// computed from the same task snapshot the page displays.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	identity := GetIdentityFromContext(r)

	tasks, err := h.tasks.ListForDashboard(identity.ID)
	if err != nil {
		log.Printf("Dashboard tasks error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	categories, err := h.categories.ListForOwner(identity.ID)
	if err != nil {
		log.Printf("Dashboard categories error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "dashboard.html", DashboardViewModel{
		User:       identity,
		Tasks:      tasks,
		Categories: categories,
		Stats:      service.ComputeStats(tasks),
	})
}
