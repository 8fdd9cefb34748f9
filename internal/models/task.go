package models

import "time"

// Role values for User.Role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Task status values. The canonical pair is inherited from the original
// schema: "belum selesai" (pending) and "sudah selesai" (completed).
const (
	StatusPending   = "belum selesai"
	StatusCompleted = "sudah selesai"
)

// Task priority values.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Display defaults for categories created without explicit styling.
const (
	DefaultCategoryColor = "#007bff"
	DefaultCategoryIcon  = "fa-folder"
)

// User represents a user account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserWithTaskCount is a user annotated with its total task count,
// as shown on the admin user list.
type UserWithTaskCount struct {
	User
	TaskCount int `json:"task_count"`
}

// Category represents a task category owned by a user.
type Category struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Color  string `json:"color"`
	Icon   string `json:"icon"`
	UserID int64  `json:"user_id"`
}

// CategoryWithTaskCount is a category annotated with the number of
// the owner's tasks that reference it.
type CategoryWithTaskCount struct {
	Category
	TaskCount int `json:"task_count"`
}

// CategorySeed describes one of the default categories provisioned for
// every new account.
type CategorySeed struct {
	Name  string
	Color string
	Icon  string
}

// DefaultCategories returns the four seed categories every new account
// starts with.
func DefaultCategories() []CategorySeed {
	return []CategorySeed{
		{Name: "Personal", Color: "#28a745", Icon: "fa-user"},
		{Name: "Work", Color: "#007bff", Icon: "fa-briefcase"},
		{Name: "Study", Color: "#ffc107", Icon: "fa-book"},
		{Name: "Health", Color: "#dc3545", Icon: "fa-heartbeat"},
	}
}

// Task represents a single task. CategoryID is nil for uncategorized tasks.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	CategoryID  *int64    `json:"category_id,omitempty"`
	UserID      int64     `json:"user_id"`
}

// Completed reports whether the task has the completed status.
func (t *Task) Completed() bool {
	return t.Status == StatusCompleted
}

// TaskWithCategory is a task joined with its category's display fields.
// CategoryName and CategoryColor are nil when the task is uncategorized.
type TaskWithCategory struct {
	Task
	CategoryName  *string `json:"category_name,omitempty"`
	CategoryColor *string `json:"category_color,omitempty"`
}

// Identity is the session-scoped view of an authenticated account. It is
// passed explicitly into every domain call that acts on behalf of a user.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i *Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Session represents a login session.
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Stats summarizes a user's tasks for the dashboard.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	High      int `json:"high"`
}
