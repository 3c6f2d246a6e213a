package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/lostfound/internal/apperr"
	"github.com/erazemk/lostfound/internal/model"
)

// NewItem holds the caller-supplied fields of a new report.
type NewItem struct {
	UserID       int64
	Type         model.ItemType
	Title        string
	Description  string
	Category     string
	Location     string
	DateOccurred string
	ImageURL     string
}

// itemSelect reads items joined with their owner's contact fields.
const itemSelect = `SELECT i.id, i.user_id, i.type, i.title, i.description, i.category, i.location,
	       i.date_occurred, i.image_url, i.status, i.created_at, i.updated_at,
	       u.name AS user_name, u.email AS user_email, u.phone AS user_phone
	FROM items i
	JOIN users u ON u.id = i.user_id`

const itemOrder = ` ORDER BY i.created_at DESC, i.id DESC`

// CreateItem creates a new active item owned by in.UserID.
func CreateItem(ctx context.Context, db *sql.DB, in NewItem) (*model.Item, error) {
	if !in.Type.Valid() {
		return nil, apperr.Validation("invalid item type")
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO items (user_id, type, title, description, category, location, date_occurred, image_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.UserID, string(in.Type), in.Title, in.Description, in.Category, in.Location, in.DateOccurred, nullString(in.ImageURL),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperr.NotFound("owner not found")
		}
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item with its owner's contact fields, regardless of
// status.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item, err := scanItem(db.QueryRowContext(ctx, itemSelect+` WHERE i.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListActiveItems returns the public feed: active items only, newest first.
func ListActiveItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	return queryItems(ctx, db, "listing active items",
		itemSelect+` WHERE i.status = ?`+itemOrder, string(model.ItemStatusActive))
}

// ListItemsByOwner returns every item of one user, whatever its status.
func ListItemsByOwner(ctx context.Context, db *sql.DB, ownerID int64) ([]model.Item, error) {
	return queryItems(ctx, db, "listing items by owner",
		itemSelect+` WHERE i.user_id = ?`+itemOrder, ownerID)
}

// ListAllItems returns every item in every status.
func ListAllItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	return queryItems(ctx, db, "listing all items", itemSelect+itemOrder)
}

// SearchItems returns active items whose title, description or location
// contains term, ignoring ASCII case.
func SearchItems(ctx context.Context, db *sql.DB, term string) ([]model.Item, error) {
	pattern := "%" + escapeLike(term) + "%"
	return queryItems(ctx, db, "searching items",
		itemSelect+` WHERE i.status = ?
		   AND (i.title LIKE ? ESCAPE '\' OR i.description LIKE ? ESCAPE '\' OR i.location LIKE ? ESCAPE '\')`+itemOrder,
		string(model.ItemStatusActive), pattern, pattern, pattern)
}

// FilterItemsByCategory returns active items in exactly the given category.
func FilterItemsByCategory(ctx context.Context, db *sql.DB, category string) ([]model.Item, error) {
	return queryItems(ctx, db, "filtering items by category",
		itemSelect+` WHERE i.status = ? AND i.category = ?`+itemOrder, string(model.ItemStatusActive), category)
}

// FilterItemsByType returns active items of the given type.
func FilterItemsByType(ctx context.Context, db *sql.DB, itemType model.ItemType) ([]model.Item, error) {
	return queryItems(ctx, db, "filtering items by type",
		itemSelect+` WHERE i.status = ? AND i.type = ?`+itemOrder, string(model.ItemStatusActive), string(itemType))
}

// UpdateItemStatus sets an item's status and bumps updated_at. It does not
// check who is acting; use UpdateItemStatusIfOwner on behalf of a user.
func UpdateItemStatus(ctx context.Context, db *sql.DB, id int64, status model.ItemStatus) error {
	if !status.Valid() {
		return apperr.Validation("invalid item status")
	}

	result, err := db.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		string(status), id,
	)
	if err != nil {
		return fmt.Errorf("updating item status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating item status: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("item not found")
	}
	return nil
}

// UpdateItemStatusIfOwner sets an item's status only if ownerID owns it.
// When nothing is updated a second query tells a missing item
// (apperr.KindNotFound) from someone else's (apperr.KindForbidden).
func UpdateItemStatusIfOwner(ctx context.Context, db *sql.DB, id, ownerID int64, status model.ItemStatus) error {
	if !status.Valid() {
		return apperr.Validation("invalid item status")
	}

	result, err := db.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND user_id = ?`,
		string(status), id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("updating item status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating item status: %w", err)
	}
	if n > 0 {
		return nil
	}

	var actualOwner int64
	err = db.QueryRowContext(ctx, `SELECT user_id FROM items WHERE id = ?`, id).Scan(&actualOwner)
	if err == sql.ErrNoRows {
		return apperr.NotFound("item not found")
	}
	if err != nil {
		return fmt.Errorf("checking item owner: %w", err)
	}
	return apperr.Forbidden("only the owner can change this item")
}

// DeleteItem deletes an item and, by cascade, its messages.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("item not found")
	}
	return nil
}

func queryItems(ctx context.Context, db *sql.DB, op, query string, args ...any) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func scanItem(row rowScanner) (*model.Item, error) {
	item := &model.Item{}
	var imageURL, phone sql.NullString
	err := row.Scan(&item.ID, &item.UserID, &item.Type, &item.Title, &item.Description, &item.Category,
		&item.Location, &item.DateOccurred, &imageURL, &item.Status, &item.CreatedAt, &item.UpdatedAt,
		&item.UserName, &item.UserEmail, &phone)
	if err != nil {
		return nil, err
	}
	item.ImageURL = imageURL.String
	item.UserPhone = phone.String
	return item, nil
}
