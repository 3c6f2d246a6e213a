package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/lostfound/internal/apperr"
	"github.com/erazemk/lostfound/internal/model"
)

// NewMessage holds the fields of a message being sent.
type NewMessage struct {
	ItemID     int64
	SenderID   int64
	ReceiverID int64
	Subject    string
	Body       string
}

const messageSelect = `SELECT m.id, m.item_id, m.sender_id, m.receiver_id, m.subject, m.message,
	       m.is_read, m.created_at,
	       s.name AS sender_name, r.name AS receiver_name, i.title AS item_title
	FROM messages m
	JOIN users s ON s.id = m.sender_id
	JOIN users r ON r.id = m.receiver_id
	JOIN items i ON i.id = m.item_id`

const messageOrder = ` ORDER BY m.created_at DESC, m.id DESC`

// CreateMessage stores a new unread message. A message to oneself is
// rejected before anything is written.
func CreateMessage(ctx context.Context, db *sql.DB, in NewMessage) (*model.Message, error) {
	if in.SenderID == in.ReceiverID {
		return nil, apperr.Validation("cannot send message to yourself")
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO messages (item_id, sender_id, receiver_id, subject, message) VALUES (?, ?, ?, ?, ?)`,
		in.ItemID, in.SenderID, in.ReceiverID, in.Subject, in.Body,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperr.NotFound("item or recipient not found")
		}
		return nil, fmt.Errorf("creating message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting message id: %w", err)
	}

	return GetMessage(ctx, db, id)
}

// GetMessage returns a message by ID.
func GetMessage(ctx context.Context, db *sql.DB, id int64) (*model.Message, error) {
	m, err := scanMessage(db.QueryRowContext(ctx, messageSelect+` WHERE m.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting message: %w", err)
	}
	return m, nil
}

// ListMessagesForUser returns messages the user sent or received, newest
// first.
func ListMessagesForUser(ctx context.Context, db *sql.DB, userID int64) ([]model.Message, error) {
	rows, err := db.QueryContext(ctx,
		messageSelect+` WHERE m.receiver_id = ? OR m.sender_id = ?`+messageOrder,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing messages for user: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

// ListAllMessages returns every message, newest first.
func ListAllMessages(ctx context.Context, db *sql.DB) ([]model.Message, error) {
	rows, err := db.QueryContext(ctx, messageSelect+messageOrder)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

// CountUnreadForUser counts unread messages addressed to the user.
func CountUnreadForUser(ctx context.Context, db *sql.DB, userID int64) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE receiver_id = ? AND is_read = FALSE`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting unread messages: %w", err)
	}
	return count, nil
}

// MarkMessageRead flags a message as read. The flag never goes back to
// unread.
func MarkMessageRead(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `UPDATE messages SET is_read = TRUE WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("marking message read: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("marking message read: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("message not found")
	}
	return nil
}

// MarkMessageReadFor flags a message as read on behalf of its receiver.
// Anyone else gets apperr.KindForbidden.
func MarkMessageReadFor(ctx context.Context, db *sql.DB, id, receiverID int64) error {
	result, err := db.ExecContext(ctx,
		`UPDATE messages SET is_read = TRUE WHERE id = ? AND receiver_id = ?`, id, receiverID,
	)
	if err != nil {
		return fmt.Errorf("marking message read: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("marking message read: %w", err)
	}
	if n > 0 {
		return nil
	}

	m, err := GetMessage(ctx, db, id)
	if err != nil {
		return err
	}
	if m == nil {
		return apperr.NotFound("message not found")
	}
	return apperr.Forbidden("only the receiver can mark a message read")
}

func scanMessages(rows *sql.Rows) ([]model.Message, error) {
	var messages []model.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		messages = append(messages, *m)
	}
	return messages, rows.Err()
}

func scanMessage(row rowScanner) (*model.Message, error) {
	m := &model.Message{}
	err := row.Scan(&m.ID, &m.ItemID, &m.SenderID, &m.ReceiverID, &m.Subject, &m.Body,
		&m.IsRead, &m.CreatedAt,
		&m.SenderName, &m.ReceiverName, &m.ItemTitle)
	if err != nil {
		return nil, err
	}
	return m, nil
}
