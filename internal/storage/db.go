package storage

import (
	"database/sql"
	"time"

	"task-manager/internal/models"

	// Import sqlite driver
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection.
type DB struct {
	conn *sql.DB
}

// NewDB opens a database connection and runs migrations.
func NewDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		return nil, err
	}

	return db, nil
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			color TEXT NOT NULL DEFAULT '#007bff',
			icon TEXT NOT NULL DEFAULT 'fa-folder',
			user_id INTEGER NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			deadline DATETIME NOT NULL,
			priority TEXT NOT NULL DEFAULT 'medium',
			status TEXT NOT NULL DEFAULT 'belum selesai',
			category_id INTEGER,
			user_id INTEGER NOT NULL,
			FOREIGN KEY (category_id) REFERENCES categories(id),
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			expires_at DATETIME NOT NULL,
			last_activity DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return err
		}
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// CreateUser inserts a new user and provisions the given seed categories
// for it in a single transaction.
func (db *DB) CreateUser(username, email, passwordHash, role string, seeds []models.CategorySeed) (*models.User, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		"INSERT INTO users (username, email, password_hash, role) VALUES (?, ?, ?, ?)",
		username, email, passwordHash, role,
	)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	for _, seed := range seeds {
		if _, err := tx.Exec(
			"INSERT INTO categories (name, color, icon, user_id) VALUES (?, ?, ?, ?)",
			seed.Name, seed.Color, seed.Icon, id,
		); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return db.GetUserByID(id)
}

// GetUserByID retrieves a user by ID.
func (db *DB) GetUserByID(id int64) (*models.User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, email, password_hash, role, created_at FROM users WHERE id = ?",
		id,
	)
	return scanUser(row)
}

// GetUserByIdentifier retrieves a user whose username or email exactly
// matches the identifier.
func (db *DB) GetUserByIdentifier(identifier string) (*models.User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, email, password_hash, role, created_at FROM users WHERE username = ? OR email = ?",
		identifier, identifier,
	)
	return scanUser(row)
}

// UserExists reports whether any user already holds the username or email.
func (db *DB) UserExists(username, email string) (bool, error) {
	var count int
	err := db.conn.QueryRow(
		"SELECT COUNT(*) FROM users WHERE username = ? OR email = ?",
		username, email,
	).Scan(&count)
	return count > 0, err
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers retrieves all users ordered most-recently-created first, each
// annotated with its total task count.
func (db *DB) ListUsers() ([]models.UserWithTaskCount, error) {
	rows, err := db.conn.Query(`
		SELECT u.id, u.username, u.email, u.password_hash, u.role, u.created_at,
		       (SELECT COUNT(*) FROM tasks t WHERE t.user_id = u.id) AS task_count
		FROM users u
		ORDER BY u.created_at DESC, u.id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.UserWithTaskCount
	for rows.Next() {
		var u models.UserWithTaskCount
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.TaskCount); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// UpdateUser updates a user's profile fields, leaving the password hash untouched.
func (db *DB) UpdateUser(id int64, username, email, role string) error {
	_, err := db.conn.Exec(
		"UPDATE users SET username = ?, email = ?, role = ? WHERE id = ?",
		username, email, role, id,
	)
	return err
}

// UpdateUserWithPassword updates a user's profile fields and replaces the
// password hash.
func (db *DB) UpdateUserWithPassword(id int64, username, email, role, passwordHash string) error {
	_, err := db.conn.Exec(
		"UPDATE users SET username = ?, email = ?, role = ?, password_hash = ? WHERE id = ?",
		username, email, role, passwordHash, id,
	)
	return err
}

// DeleteUser removes a user together with its sessions, tasks and
// categories in a single transaction.
func (db *DB) DeleteUser(id int64) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	statements := []string{
		"DELETE FROM sessions WHERE user_id = ?",
		"DELETE FROM tasks WHERE user_id = ?",
		"DELETE FROM categories WHERE user_id = ?",
		"DELETE FROM users WHERE id = ?",
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(stmt, id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListCategories retrieves a user's categories ordered by name, each
// annotated with the number of the user's tasks referencing it.
func (db *DB) ListCategories(userID int64) ([]models.CategoryWithTaskCount, error) {
	rows, err := db.conn.Query(`
		SELECT c.id, c.name, c.color, c.icon, c.user_id,
		       (SELECT COUNT(*) FROM tasks t WHERE t.category_id = c.id AND t.user_id = c.user_id) AS task_count
		FROM categories c
		WHERE c.user_id = ?
		ORDER BY c.name ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.CategoryWithTaskCount
	for rows.Next() {
		var c models.CategoryWithTaskCount
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.Icon, &c.UserID, &c.TaskCount); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// CreateCategory inserts a new category for the user.
func (db *DB) CreateCategory(userID int64, name, color, icon string) (*models.Category, error) {
	result, err := db.conn.Exec(
		"INSERT INTO categories (name, color, icon, user_id) VALUES (?, ?, ?, ?)",
		name, color, icon, userID,
	)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetCategory(userID, id)
}

// GetCategory retrieves a category scoped to its owner.
func (db *DB) GetCategory(userID, id int64) (*models.Category, error) {
	row := db.conn.QueryRow(
		"SELECT id, name, color, icon, user_id FROM categories WHERE id = ? AND user_id = ?",
		id, userID,
	)

	var c models.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Color, &c.Icon, &c.UserID); err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateCategory updates a category scoped to its owner. A mismatched id
// or owner affects zero rows and is not an error.
func (db *DB) UpdateCategory(userID, id int64, name, color, icon string) error {
	_, err := db.conn.Exec(
		"UPDATE categories SET name = ?, color = ?, icon = ? WHERE id = ? AND user_id = ?",
		name, color, icon, id, userID,
	)
	return err
}

// DeleteCategory detaches the owner's tasks that reference the category
// and then deletes the row. Both steps run in one transaction so a
// failure cannot leave tasks pointing at a deleted category.
func (db *DB) DeleteCategory(userID, id int64) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"UPDATE tasks SET category_id = NULL WHERE category_id = ? AND user_id = ?",
		id, userID,
	); err != nil {
		return err
	}

	if _, err := tx.Exec(
		"DELETE FROM categories WHERE id = ? AND user_id = ?",
		id, userID,
	); err != nil {
		return err
	}

	return tx.Commit()
}

const taskWithCategorySelect = `
	SELECT t.id, t.title, t.description, t.deadline, t.priority, t.status, t.category_id, t.user_id,
	       c.name AS category_name, c.color AS category_color
	FROM tasks t
	LEFT JOIN categories c ON t.category_id = c.id
	WHERE t.user_id = ?`

// ListTasks retrieves a user's tasks joined with their category's
// name and color, ordered by deadline ascending.
func (db *DB) ListTasks(userID int64) ([]models.TaskWithCategory, error) {
	return db.queryTasks(taskWithCategorySelect+" ORDER BY t.deadline ASC", userID)
}

// ListTasksForDashboard retrieves a user's tasks ordered by deadline
// ascending, then priority descending among equal deadlines.
func (db *DB) ListTasksForDashboard(userID int64) ([]models.TaskWithCategory, error) {
	return db.queryTasks(taskWithCategorySelect+`
		ORDER BY t.deadline ASC,
		         CASE t.priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END DESC`,
		userID)
}

func (db *DB) queryTasks(query string, userID int64) ([]models.TaskWithCategory, error) {
	rows, err := db.conn.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.TaskWithCategory
	for rows.Next() {
		var t models.TaskWithCategory
		var categoryID sql.NullInt64
		var name, color sql.NullString
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Deadline, &t.Priority, &t.Status,
			&categoryID, &t.UserID, &name, &color); err != nil {
			return nil, err
		}
		if categoryID.Valid {
			t.CategoryID = &categoryID.Int64
		}
		if name.Valid {
			t.CategoryName = &name.String
		}
		if color.Valid {
			t.CategoryColor = &color.String
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

// CreateTask inserts a new task with the pending status.
func (db *DB) CreateTask(userID int64, title, description string, deadline time.Time, priority string, categoryID *int64) (*models.Task, error) {
	result, err := db.conn.Exec(
		"INSERT INTO tasks (title, description, deadline, priority, status, category_id, user_id) VALUES (?, ?, ?, ?, ?, ?, ?)",
		title, description, deadline, priority, models.StatusPending, nullableID(categoryID), userID,
	)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetTask(userID, id)
}

// GetTask retrieves a task scoped to its owner.
func (db *DB) GetTask(userID, id int64) (*models.Task, error) {
	row := db.conn.QueryRow(
		"SELECT id, title, description, deadline, priority, status, category_id, user_id FROM tasks WHERE id = ? AND user_id = ?",
		id, userID,
	)

	var t models.Task
	var categoryID sql.NullInt64
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Deadline, &t.Priority, &t.Status, &categoryID, &t.UserID); err != nil {
		return nil, err
	}
	if categoryID.Valid {
		t.CategoryID = &categoryID.Int64
	}
	return &t, nil
}

// UpdateTask replaces all mutable fields of a task, scoped to its owner.
func (db *DB) UpdateTask(userID, id int64, title, description string, deadline time.Time, priority string, categoryID *int64, status string) error {
	_, err := db.conn.Exec(
		`UPDATE tasks
		 SET title = ?, description = ?, deadline = ?, priority = ?, category_id = ?, status = ?
		 WHERE id = ? AND user_id = ?`,
		title, description, deadline, priority, nullableID(categoryID), status, id, userID,
	)
	return err
}

// ToggleTaskStatus flips a task's status between pending and completed.
// Anything other than the canonical pending value flips to pending.
func (db *DB) ToggleTaskStatus(userID, id int64) error {
	_, err := db.conn.Exec(
		`UPDATE tasks
		 SET status = CASE
		     WHEN status = ? THEN ?
		     ELSE ?
		 END
		 WHERE id = ? AND user_id = ?`,
		models.StatusPending, models.StatusCompleted, models.StatusPending, id, userID,
	)
	return err
}

// DeleteTask removes a task scoped to its owner.
func (db *DB) DeleteTask(userID, id int64) error {
	_, err := db.conn.Exec("DELETE FROM tasks WHERE id = ? AND user_id = ?", id, userID)
	return err
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

// CreateSession creates a new session for a user.
func (db *DB) CreateSession(token string, userID int64, expiresAt time.Time) error {
	now := time.Now()
	_, err := db.conn.Exec(
		"INSERT INTO sessions (token, user_id, expires_at, last_activity) VALUES (?, ?, ?, ?)",
		token, userID, expiresAt, now,
	)
	return err
}

// SessionInfo holds session validation data.
type SessionInfo struct {
	Identity     *models.Identity
	LastActivity time.Time
	ExpiresAt    time.Time
}

// ValidateSession checks if a session token is valid and returns the
// associated identity.
func (db *DB) ValidateSession(token string) (*models.Identity, error) {
	info, err := db.ValidateSessionWithInfo(token)
	if err != nil {
		return nil, err
	}
	return info.Identity, nil
}

// ValidateSessionWithInfo checks if a session token is valid and returns
// session details.
func (db *DB) ValidateSessionWithInfo(token string) (*SessionInfo, error) {
	row := db.conn.QueryRow(`
		SELECT u.id, u.username, u.email, u.role, s.last_activity, s.expires_at
		FROM sessions s
		JOIN users u ON s.user_id = u.id
		WHERE s.token = ? AND s.expires_at > CURRENT_TIMESTAMP
	`, token)

	var identity models.Identity
	var lastActivity, expiresAt time.Time
	if err := row.Scan(&identity.ID, &identity.Username, &identity.Email, &identity.Role, &lastActivity, &expiresAt); err != nil {
		return nil, err
	}
	return &SessionInfo{
		Identity:     &identity,
		LastActivity: lastActivity,
		ExpiresAt:    expiresAt,
	}, nil
}

// RenewSession updates the last_activity and expires_at for a session.
func (db *DB) RenewSession(token string, newExpiresAt time.Time) error {
	now := time.Now()
	_, err := db.conn.Exec(
		"UPDATE sessions SET last_activity = ?, expires_at = ? WHERE token = ?",
		now, newExpiresAt, token,
	)
	return err
}

// DeleteSession removes a session by token.
func (db *DB) DeleteSession(token string) error {
	_, err := db.conn.Exec("DELETE FROM sessions WHERE token = ?", token)
	return err
}

// CleanExpiredSessions removes all expired sessions.
func (db *DB) CleanExpiredSessions() error {
	_, err := db.conn.Exec("DELETE FROM sessions WHERE expires_at <= CURRENT_TIMESTAMP")
	return err
}
