package main

import (
	"log"
	"net/http"
	"os"

	"task-manager/internal/handlers"
	"task-manager/internal/service"
	"task-manager/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	dbPath := envOr("DB_PATH", "tasks.db")
	port := envOr("PORT", "8080")
	templateDir := envOr("TEMPLATE_DIR", "web/templates")
	staticDir := envOr("STATIC_DIR", "web/static")
	secureCookie := os.Getenv("SECURE_COOKIE") == "true"

	db, err := storage.NewDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := bootstrapAdmin(db); err != nil {
		log.Fatalf("Failed to bootstrap admin account: %v", err)
	}

	if err := db.CleanExpiredSessions(); err != nil {
		log.Printf("Failed to clean expired sessions: %v", err)
	}

	h := handlers.NewHandlers(db, templateDir, secureCookie)
	mux := setupRouter(h, staticDir)

	log.Printf("Server running on http://localhost:%s", port)
	log.Fatal(http.ListenAndServe(":"+port, mux))
}

// bootstrapAdmin creates an admin account from ADMIN_USER/ADMIN_PASSWORD
// when both are set and the account does not exist yet.
func bootstrapAdmin(db *storage.DB) error {
	username := os.Getenv("ADMIN_USER")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		return nil
	}

	email := envOr("ADMIN_EMAIL", username+"@localhost")

	exists, err := db.UserExists(username, email)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	accounts := service.NewAccountService(db)
	if _, err := accounts.CreateAccount(username, email, password, "admin"); err != nil {
		return err
	}
	log.Printf("Created admin account %q", username)
	return nil
}

func setupRouter(h *handlers.Handlers, staticDir string) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))

	mux.HandleFunc("GET /{$}", h.Home)
	mux.Handle("GET /login", h.RequireGuest(http.HandlerFunc(h.LoginForm)))
	mux.HandleFunc("POST /login", h.Login)
	mux.Handle("GET /register", h.RequireGuest(http.HandlerFunc(h.RegisterForm)))
	mux.HandleFunc("POST /register", h.Register)
	mux.HandleFunc("GET /logout", h.Logout)

	mux.Handle("GET /dashboard", h.RequireAuth(http.HandlerFunc(h.Dashboard)))

	mux.Handle("GET /tasks", h.RequireAuth(http.HandlerFunc(h.ListTasks)))
	mux.Handle("POST /tasks/create", h.RequireAuth(http.HandlerFunc(h.CreateTask)))
	mux.Handle("POST /tasks/update/{id}", h.RequireAuth(http.HandlerFunc(h.UpdateTask)))
	mux.Handle("POST /tasks/toggle/{id}", h.RequireAuth(http.HandlerFunc(h.ToggleTask)))
	mux.Handle("POST /tasks/delete/{id}", h.RequireAuth(http.HandlerFunc(h.DeleteTask)))
	mux.Handle("GET /tasks/api/{id}", h.RequireAuth(http.HandlerFunc(h.TaskJSON)))

	mux.Handle("GET /categories", h.RequireAuth(http.HandlerFunc(h.ListCategories)))
	mux.Handle("POST /categories/create", h.RequireAuth(http.HandlerFunc(h.CreateCategory)))
	mux.Handle("POST /categories/update/{id}", h.RequireAuth(http.HandlerFunc(h.UpdateCategory)))
	mux.Handle("POST /categories/delete/{id}", h.RequireAuth(http.HandlerFunc(h.DeleteCategory)))
	mux.Handle("GET /categories/api/{id}", h.RequireAuth(http.HandlerFunc(h.CategoryJSON)))

	mux.Handle("GET /users", h.RequireAdmin(http.HandlerFunc(h.ListUsers)))
	mux.Handle("POST /users/create", h.RequireAdmin(http.HandlerFunc(h.CreateUser)))
	mux.Handle("POST /users/update/{id}", h.RequireAdmin(http.HandlerFunc(h.UpdateUser)))
	mux.Handle("POST /users/delete/{id}", h.RequireAdmin(http.HandlerFunc(h.DeleteUser)))
	mux.Handle("GET /users/api/{id}", h.RequireAdmin(http.HandlerFunc(h.UserJSON)))

	return mux
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
