package service

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"task-manager/internal/models"
	"task-manager/internal/storage"
)

// TaskInput carries the mutable fields of a task.
type TaskInput struct {
	Title       string
	Description string
	Deadline    time.Time
	Priority    string
	CategoryID  *int64
}

// TaskService owns task records, scoped per account.
type TaskService struct {
	db *storage.DB
}

// NewTaskService creates a new TaskService.
func NewTaskService(db *storage.DB) *TaskService {
	return &TaskService{db: db}
}

// ListForOwner returns the account's tasks joined with their category's
// name and color, ordered by deadline ascending.
func (s *TaskService) ListForOwner(accountID int64) ([]models.TaskWithCategory, error) {
	tasks, err := s.db.ListTasks(accountID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

// ListForDashboard returns the account's tasks ordered by deadline
// ascending, then priority descending among equal deadlines.
func (s *TaskService) ListForDashboard(accountID int64) ([]models.TaskWithCategory, error) {
	tasks, err := s.db.ListTasksForDashboard(accountID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

// Create inserts a task with the pending status. The category reference,
// when present, must belong to the same account.
func (s *TaskService) Create(accountID int64, in TaskInput) (*models.Task, error) {
	if err := s.validateInput(accountID, in); err != nil {
		return nil, err
	}

	task, err := s.db.CreateTask(accountID, in.Title, in.Description, in.Deadline, in.Priority, in.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}
	return task, nil
}

// Update replaces all mutable fields of the task matching both id and
// owner. Status must be one of the two canonical values.
func (s *TaskService) Update(accountID, taskID int64, in TaskInput, status string) error {
	if err := s.validateInput(accountID, in); err != nil {
		return err
	}
	if status != models.StatusPending && status != models.StatusCompleted {
		return validationf("invalid status %q", status)
	}

	if err := s.db.UpdateTask(accountID, taskID, in.Title, in.Description, in.Deadline, in.Priority, in.CategoryID, status); err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return nil
}

// ToggleStatus flips the task's status: pending becomes completed,
// everything else becomes pending.
func (s *TaskService) ToggleStatus(accountID, taskID int64) error {
	if err := s.db.ToggleTaskStatus(accountID, taskID); err != nil {
		return fmt.Errorf("toggling task status: %w", err)
	}
	return nil
}

// Delete removes the task matching both id and owner.
func (s *TaskService) Delete(accountID, taskID int64) error {
	if err := s.db.DeleteTask(accountID, taskID); err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

// GetByID returns the task, or ErrNotFound when no row matches both id
// and owner.
func (s *TaskService) GetByID(accountID, taskID int64) (*models.Task, error) {
	task, err := s.db.GetTask(accountID, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting task: %w", err)
	}
	return task, nil
}

func (s *TaskService) validateInput(accountID int64, in TaskInput) error {
	if in.Title == "" {
		return validationf("title is required")
	}
	if in.Deadline.IsZero() {
		return validationf("deadline is required")
	}
	switch in.Priority {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
	default:
		return validationf("invalid priority %q", in.Priority)
	}
	if in.CategoryID != nil {
		if _, err := s.db.GetCategory(accountID, *in.CategoryID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return validationf("category does not belong to this account")
			}
			return fmt.Errorf("checking category: %w", err)
		}
	}
	return nil
}
