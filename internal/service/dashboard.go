package service

import (
	"fmt"

	"task-manager/internal/models"
	"task-manager/internal/storage"
)

// DashboardService computes summary statistics over an account's tasks.
// It keeps no state of its own.
type DashboardService struct {
	db *storage.DB
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(db *storage.DB) *DashboardService {
	return &DashboardService{db: db}
}

// Summarize reads the account's current task list and computes the
// dashboard counters.
func (s *DashboardService) Summarize(accountID int64) (models.Stats, error) {
	tasks, err := s.db.ListTasks(accountID)
	if err != nil {
		return models.Stats{}, fmt.Errorf("listing tasks: %w", err)
	}
	return ComputeStats(tasks), nil
}

// ComputeStats counts total, pending, completed and high-priority-pending
// tasks in a snapshot. A task is pending when its status is exactly the
// pending value and completed otherwise, so the two always sum to the total.
func ComputeStats(tasks []models.TaskWithCategory) models.Stats {
	stats := models.Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Status != models.StatusPending {
			stats.Completed++
			continue
		}
		stats.Pending++
		if t.Priority == models.PriorityHigh {
			stats.High++
		}
	}
	return stats
}
