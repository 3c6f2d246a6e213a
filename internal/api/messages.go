package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/lostfound/internal/apperr"
	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/store"
)

// MessagesHandler handles messages between users about an item.
type MessagesHandler struct {
	DB *sql.DB
}

type sendMessageRequest struct {
	ItemID     int64  `json:"itemId" validate:"required,gt=0"`
	ReceiverID int64  `json:"receiverId" validate:"required,gt=0"`
	Subject    string `json:"subject" validate:"required,max=200"`
	Message    string `json:"message" validate:"required,max=5000"`
}

// List handles GET /api/messages.
func (h *MessagesHandler) List(w http.ResponseWriter, r *http.Request) {
	msgs, err := store.ListMessagesForUser(r.Context(), h.DB, CurrentUser(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if msgs == nil {
		msgs = []model.Message{}
	}
	jsonResponse(w, http.StatusOK, msgs)
}

// Create handles POST /api/messages. Either the sender or the receiver must
// own the item the message is about.
func (h *MessagesHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())

	var req sendMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Subject = strings.TrimSpace(req.Subject)
	if err := apperr.Check(req); err != nil {
		writeError(w, r, err)
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, req.ItemID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if req.ReceiverID == user.ID {
		jsonError(w, http.StatusBadRequest, "cannot send message to yourself")
		return
	}
	if item.UserID != user.ID && item.UserID != req.ReceiverID {
		jsonError(w, http.StatusBadRequest, "message must involve the item's owner")
		return
	}

	msg, err := store.CreateMessage(r.Context(), h.DB, store.NewMessage{
		ItemID:     req.ItemID,
		SenderID:   user.ID,
		ReceiverID: req.ReceiverID,
		Subject:    req.Subject,
		Body:       req.Message,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("message sent", "message_id", msg.ID, "item_id", msg.ItemID)
	jsonResponse(w, http.StatusCreated, map[string]any{
		"message":   "Message sent successfully",
		"messageId": msg.ID,
	})
}

// MarkRead handles PUT /api/messages/{id}/read. Only the receiver may mark a
// message read.
func (h *MessagesHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid message id")
		return
	}

	if err := store.MarkMessageReadFor(r.Context(), h.DB, id, CurrentUser(r.Context()).ID); err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "message marked read"})
}
