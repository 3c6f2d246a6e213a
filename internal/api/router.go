package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/lostfound/internal/auth"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, sessions *auth.Sessions, cookieSecure bool) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{Sessions: sessions, CookieSecure: cookieSecure}
	itemsHandler := &ItemsHandler{DB: db}
	messagesHandler := &MessagesHandler{DB: db}
	adminHandler := &AdminHandler{DB: db}
	healthHandler := &HealthHandler{DB: db}

	optional := OptionalUser(sessions)
	requireUser := RequireUser(sessions)
	requireAdmin := RequireAdmin(sessions)

	// Public.
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/categories", itemsHandler.Categories)
	mux.HandleFunc("GET /healthz", healthHandler.Check)

	// Guests see the same data with owner contact details removed.
	mux.Handle("GET /api/auth/me", optional(http.HandlerFunc(authHandler.Me)))
	mux.Handle("GET /api/items", optional(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("GET /api/items/{id}", optional(http.HandlerFunc(itemsHandler.Get)))

	// Signed-in users.
	mux.Handle("POST /api/items", requireUser(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("PUT /api/items/{id}/status", requireUser(http.HandlerFunc(itemsHandler.UpdateStatus)))
	mux.Handle("DELETE /api/items/{id}", requireUser(http.HandlerFunc(itemsHandler.Delete)))
	mux.Handle("GET /api/me/items", requireUser(http.HandlerFunc(itemsHandler.Mine)))
	mux.Handle("GET /api/me/dashboard", requireUser(http.HandlerFunc(itemsHandler.Dashboard)))
	mux.Handle("GET /api/messages", requireUser(http.HandlerFunc(messagesHandler.List)))
	mux.Handle("POST /api/messages", requireUser(http.HandlerFunc(messagesHandler.Create)))
	mux.Handle("PUT /api/messages/{id}/read", requireUser(http.HandlerFunc(messagesHandler.MarkRead)))

	// Admin only.
	mux.Handle("GET /api/admin/dashboard", requireAdmin(http.HandlerFunc(adminHandler.Dashboard)))
	mux.Handle("GET /api/admin/users", requireAdmin(http.HandlerFunc(adminHandler.Users)))
	mux.Handle("DELETE /api/admin/users/{id}", requireAdmin(http.HandlerFunc(adminHandler.DeleteUser)))
	mux.Handle("GET /api/admin/messages", requireAdmin(http.HandlerFunc(adminHandler.Messages)))

	return mux
}
