package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/erazemk/lostfound/internal/model"
)

func mustCreateUser(t *testing.T, database *sql.DB, email, name string) *model.User {
	t.Helper()
	u, err := CreateUser(context.Background(), database, email, "hash", name, "")
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", email, err)
	}
	return u
}

func mustCreateItem(t *testing.T, database *sql.DB, ownerID int64, itemType model.ItemType, title string) *model.Item {
	t.Helper()
	item, err := CreateItem(context.Background(), database, NewItem{
		UserID:       ownerID,
		Type:         itemType,
		Title:        title,
		Description:  "description of " + title,
		Category:     "Other",
		Location:     "Main Street",
		DateOccurred: "2024-01-01",
	})
	if err != nil {
		t.Fatalf("CreateItem(%s): %v", title, err)
	}
	return item
}
