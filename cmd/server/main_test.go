package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"task-manager/internal/handlers"
	"task-manager/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupRouter(t *testing.T) {
	// Setup dependencies
	db, err := storage.NewDB(":memory:")
	require.NoError(t, err, "failed to create database")
	defer db.Close()

	// Use relative paths for tests running in cmd/server
	h := handlers.NewHandlers(db, "../../web/templates", false)

	if _, err := os.Stat("../../web/templates"); os.IsNotExist(err) {
		t.Skip("Template directory not found, skipping router test")
	}

	// Create router - this triggers the panic if routing conflict exists
	mux := setupRouter(h, "../../web/static")

	// Verify routes
	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		allowAlt   []int // Alternative acceptable status codes
	}{
		{
			name:       "Root redirects guests to login",
			method:     "GET",
			path:       "/",
			wantStatus: http.StatusFound,
		},
		{
			name:       "Login form is public",
			method:     "GET",
			path:       "/login",
			wantStatus: http.StatusOK,
		},
		{
			name:       "Register form is public",
			method:     "GET",
			path:       "/register",
			wantStatus: http.StatusOK,
		},
		{
			name:       "Static file access",
			method:     "GET",
			path:       "/static/style.css",
			wantStatus: http.StatusOK,
			allowAlt:   []int{http.StatusNotFound}, // File might not exist in test env
		},
		{
			name:       "Dashboard requires auth",
			method:     "GET",
			path:       "/dashboard",
			wantStatus: http.StatusFound, // Should redirect to login
		},
		{
			name:       "Task list requires auth",
			method:     "GET",
			path:       "/tasks",
			wantStatus: http.StatusFound,
		},
		{
			name:       "Category list requires auth",
			method:     "GET",
			path:       "/categories",
			wantStatus: http.StatusFound,
		},
		{
			name:       "User admin requires auth",
			method:     "GET",
			path:       "/users",
			wantStatus: http.StatusFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			// Check if status matches expected or any alternative
			if len(tt.allowAlt) > 0 {
				acceptableStatuses := append([]int{tt.wantStatus}, tt.allowAlt...)
				assert.Contains(t, acceptableStatuses, w.Code,
					"%s %s returned unexpected status", tt.method, tt.path)
			} else {
				assert.Equal(t, tt.wantStatus, w.Code,
					"%s %s returned unexpected status", tt.method, tt.path)
			}
		})
	}
}

func TestBootstrapAdmin(t *testing.T) {
	db, err := storage.NewDB(":memory:")
	require.NoError(t, err, "failed to create database")
	defer db.Close()

	t.Setenv("ADMIN_USER", "root")
	t.Setenv("ADMIN_PASSWORD", "rootsecret")
	t.Setenv("ADMIN_EMAIL", "root@example.com")

	require.NoError(t, bootstrapAdmin(db))

	user, err := db.GetUserByIdentifier("root")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Role)
	assert.Equal(t, "root@example.com", user.Email)

	// Running twice must not fail or duplicate
	require.NoError(t, bootstrapAdmin(db))
	users, err := db.ListUsers()
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
