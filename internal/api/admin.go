package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/stats"
	"github.com/erazemk/lostfound/internal/store"
)

// AdminHandler handles admin-only endpoints.
type AdminHandler struct {
	DB *sql.DB
}

// Dashboard handles GET /api/admin/dashboard.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	overview, err := stats.LoadAdmin(r.Context(), h.DB)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, overview)
}

// Users handles GET /api/admin/users.
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := store.ListUsers(r.Context(), h.DB)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	jsonResponse(w, http.StatusOK, users)
}

// DeleteUser handles DELETE /api/admin/users/{id}. The user's items and
// messages go with them.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	admin := CurrentUser(r.Context())
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if id == admin.ID {
		jsonError(w, http.StatusBadRequest, "cannot delete yourself")
		return
	}

	if err := store.DeleteUser(r.Context(), h.DB, id); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("user deleted", "user_id", id, "by", admin.ID)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

// Messages handles GET /api/admin/messages.
func (h *AdminHandler) Messages(w http.ResponseWriter, r *http.Request) {
	msgs, err := store.ListAllMessages(r.Context(), h.DB)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if msgs == nil {
		msgs = []model.Message{}
	}
	jsonResponse(w, http.StatusOK, msgs)
}
