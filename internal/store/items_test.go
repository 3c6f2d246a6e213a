package store

import (
	"context"
	"testing"

	"github.com/erazemk/lostfound/internal/apperr"
	"github.com/erazemk/lostfound/internal/db"
	"github.com/erazemk/lostfound/internal/model"
)

func TestCreateAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	owner, _ := CreateUser(ctx, database, "a@x.com", "hash", "Alice", "555-0100")

	item, err := CreateItem(ctx, database, NewItem{
		UserID:       owner.ID,
		Type:         model.ItemTypeLost,
		Title:        "Blue Backpack",
		Description:  "Navy blue with a laptop sleeve",
		Category:     "Personal Items",
		Location:     "Central Park",
		DateOccurred: "2024-01-01",
		ImageURL:     "https://example.com/backpack.jpg",
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.Status != model.ItemStatusActive {
		t.Errorf("expected status 'active', got %q", item.Status)
	}
	if item.UserName != "Alice" || item.UserEmail != "a@x.com" || item.UserPhone != "555-0100" {
		t.Errorf("expected owner contact fields joined, got %+v", item)
	}
	if item.DateOccurred != "2024-01-01" {
		t.Errorf("expected date_occurred '2024-01-01', got %q", item.DateOccurred)
	}
	if item.ImageURL != "https://example.com/backpack.jpg" {
		t.Errorf("unexpected image url %q", item.ImageURL)
	}
}

func TestCreateItemInvalidType(t *testing.T) {
	database := db.NewTestDB(t)
	owner := mustCreateUser(t, database, "a@x.com", "Alice")

	_, err := CreateItem(context.Background(), database, NewItem{
		UserID: owner.ID, Type: "stolen", Title: "t", Description: "d",
		Category: "c", Location: "l", DateOccurred: "2024-01-01",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreateItemUnknownOwner(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := CreateItem(context.Background(), database, NewItem{
		UserID: 99, Type: model.ItemTypeFound, Title: "t", Description: "d",
		Category: "c", Location: "l", DateOccurred: "2024-01-01",
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected not found for missing owner, got %v", err)
	}
}

func TestGetItemMissing(t *testing.T) {
	database := db.NewTestDB(t)

	item, err := GetItem(context.Background(), database, 1)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item != nil {
		t.Error("expected nil for missing item")
	}
}

func TestListActiveItemsExcludesResolvedAndInactive(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	owner := mustCreateUser(t, database, "a@x.com", "Alice")
	active := mustCreateItem(t, database, owner.ID, model.ItemTypeLost, "Active")
	resolved := mustCreateItem(t, database, owner.ID, model.ItemTypeLost, "Resolved")
	inactive := mustCreateItem(t, database, owner.ID, model.ItemTypeFound, "Inactive")

	UpdateItemStatus(ctx, database, resolved.ID, model.ItemStatusResolved)
	UpdateItemStatus(ctx, database, inactive.ID, model.ItemStatusInactive)

	items, err := ListActiveItems(ctx, database)
	if err != nil {
		t.Fatalf("ListActiveItems: %v", err)
	}
	if len(items) != 1 || items[0].ID != active.ID {
		t.Fatalf("expected only the active item, got %+v", items)
	}
	for _, item := range items {
		if item.Status != model.ItemStatusActive {
			t.Errorf("public feed contains %s item %d", item.Status, item.ID)
		}
	}
}

func TestListActiveItemsNewestFirst(t *testing.T) {
	database := db.NewTestDB(t)
	owner := mustCreateUser(t, database, "a@x.com", "Alice")

	first := mustCreateItem(t, database, owner.ID, model.ItemTypeLost, "First")
	second := mustCreateItem(t, database, owner.ID, model.ItemTypeLost, "Second")

	items, _ := ListActiveItems(context.Background(), database)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != second.ID || items[1].ID != first.ID {
		t.Errorf("expected newest first, got ids %d, %d", items[0].ID, items[1].ID)
	}
}

func TestListItemsByOwner(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := mustCreateUser(t, database, "a@x.com", "Alice")
	bob := mustCreateUser(t, database, "b@x.com", "Bob")

	a1 := mustCreateItem(t, database, alice.ID, model.ItemTypeLost, "A1")
	a2 := mustCreateItem(t, database, alice.ID, model.ItemTypeFound, "A2")
	mustCreateItem(t, database, bob.ID, model.ItemTypeLost, "B1")

	UpdateItemStatus(ctx, database, a1.ID, model.ItemStatusResolved)
	UpdateItemStatus(ctx, database, a2.ID, model.ItemStatusInactive)

	items, err := ListItemsByOwner(ctx, database, alice.ID)
	if err != nil {
		t.Fatalf("ListItemsByOwner: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items for alice, got %d", len(items))
	}
	for _, item := range items {
		if item.UserID != alice.ID {
			t.Errorf("item %d belongs to user %d", item.ID, item.UserID)
		}
	}
}

func TestSearchItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	owner := mustCreateUser(t, database, "a@x.com", "Alice")
	backpack, _ := CreateItem(ctx, database, NewItem{
		UserID: owner.ID, Type: model.ItemTypeLost, Title: "Blue Backpack",
		Description: "Navy", Category: "Personal Items", Location: "Central Park",
		DateOccurred: "2024-01-01",
	})
	mustCreateItem(t, database, owner.ID, model.ItemTypeFound, "Gloves")

	for _, term := range []string{"backpack", "BACKPACK", "BackPack", "pack"} {
		items, err := SearchItems(ctx, database, term)
		if err != nil {
			t.Fatalf("SearchItems(%q): %v", term, err)
		}
		if len(items) != 1 || items[0].ID != backpack.ID {
			t.Errorf("SearchItems(%q): expected the backpack, got %+v", term, items)
		}
	}

	// Location and description are searched too.
	if items, _ := SearchItems(ctx, database, "central park"); len(items) != 1 {
		t.Errorf("expected location match, got %d items", len(items))
	}
	if items, _ := SearchItems(ctx, database, "navy"); len(items) != 1 {
		t.Errorf("expected description match, got %d items", len(items))
	}

	items, err := SearchItems(ctx, database, "umbrella")
	if err != nil {
		t.Fatalf("SearchItems: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no results for 'umbrella', got %d", len(items))
	}
}

func TestSearchItemsIgnoresInactive(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	owner := mustCreateUser(t, database, "a@x.com", "Alice")
	item := mustCreateItem(t, database, owner.ID, model.ItemTypeLost, "Umbrella")
	UpdateItemStatus(ctx, database, item.ID, model.ItemStatusResolved)

	items, _ := SearchItems(ctx, database, "umbrella")
	if len(items) != 0 {
		t.Errorf("expected resolved item hidden from search, got %d", len(items))
	}
}

func TestSearchItemsTreatsWildcardsLiterally(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	owner := mustCreateUser(t, database, "a@x.com", "Alice")
	mustCreateItem(t, database, owner.ID, model.ItemTypeLost, "Phone")
	discount := mustCreateItem(t, database, owner.ID, model.ItemTypeFound, "100% wool scarf")

	items, _ := SearchItems(ctx, database, "%")
	if len(items) != 1 || items[0].ID != discount.ID {
		t.Errorf("expected '%%' to match literally, got %+v", items)
	}

	items, _ = SearchItems(ctx, database, "_")
	if len(items) != 0 {
		t.Errorf("expected '_' to match literally, got %d items", len(items))
	}
}

func TestFilterItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	owner := mustCreateUser(t, database, "a@x.com", "Alice")
	keys, _ := CreateItem(ctx, database, NewItem{
		UserID: owner.ID, Type: model.ItemTypeFound, Title: "Car keys", Description: "d",
		Category: "Keys", Location: "l", DateOccurred: "2024-02-02",
	})
	mustCreateItem(t, database, owner.ID, model.ItemTypeLost, "Wallet")
	hidden, _ := CreateItem(ctx, database, NewItem{
		UserID: owner.ID, Type: model.ItemTypeFound, Title: "House keys", Description: "d",
		Category: "Keys", Location: "l", DateOccurred: "2024-02-03",
	})
	UpdateItemStatus(ctx, database, hidden.ID, model.ItemStatusInactive)

	byCategory, err := FilterItemsByCategory(ctx, database, "Keys")
	if err != nil {
		t.Fatalf("FilterItemsByCategory: %v", err)
	}
	if len(byCategory) != 1 || byCategory[0].ID != keys.ID {
		t.Errorf("expected only active keys, got %+v", byCategory)
	}

	found, err := FilterItemsByType(ctx, database, model.ItemTypeFound)
	if err != nil {
		t.Fatalf("FilterItemsByType: %v", err)
	}
	if len(found) != 1 || found[0].ID != keys.ID {
		t.Errorf("expected only active found items, got %+v", found)
	}

	lost, _ := FilterItemsByType(ctx, database, model.ItemTypeLost)
	if len(lost) != 1 || lost[0].Title != "Wallet" {
		t.Errorf("expected the wallet, got %+v", lost)
	}
}

func TestUpdateItemStatus(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	owner := mustCreateUser(t, database, "a@x.com", "Alice")
	item := mustCreateItem(t, database, owner.ID, model.ItemTypeLost, "Watch")

	if err := UpdateItemStatus(ctx, database, item.ID, model.ItemStatusResolved); err != nil {
		t.Fatalf("UpdateItemStatus: %v", err)
	}
	got, _ := GetItem(ctx, database, item.ID)
	if got.Status != model.ItemStatusResolved {
		t.Errorf("expected resolved, got %q", got.Status)
	}
	if got.UpdatedAt.Before(item.UpdatedAt) {
		t.Error("updated_at went backwards")
	}

	if err := UpdateItemStatus(ctx, database, item.ID, "lost"); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("expected validation error for bad status, got %v", err)
	}
	if err := UpdateItemStatus(ctx, database, 999, model.ItemStatusActive); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestUpdateItemStatusIfOwner(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := mustCreateUser(t, database, "a@x.com", "Alice")
	bob := mustCreateUser(t, database, "b@x.com", "Bob")
	item := mustCreateItem(t, database, alice.ID, model.ItemTypeLost, "Watch")

	err := UpdateItemStatusIfOwner(ctx, database, item.ID, bob.ID, model.ItemStatusResolved)
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden for non-owner, got %v", err)
	}
	got, _ := GetItem(ctx, database, item.ID)
	if got.Status != model.ItemStatusActive {
		t.Errorf("non-owner changed status to %q", got.Status)
	}

	if err := UpdateItemStatusIfOwner(ctx, database, item.ID, alice.ID, model.ItemStatusResolved); err != nil {
		t.Fatalf("owner update: %v", err)
	}
	got, _ = GetItem(ctx, database, item.ID)
	if got.Status != model.ItemStatusResolved {
		t.Errorf("expected resolved, got %q", got.Status)
	}

	err = UpdateItemStatusIfOwner(ctx, database, 999, alice.ID, model.ItemStatusResolved)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestDeleteItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := mustCreateUser(t, database, "a@x.com", "Alice")
	bob := mustCreateUser(t, database, "b@x.com", "Bob")
	item := mustCreateItem(t, database, alice.ID, model.ItemTypeLost, "Delete Me")
	CreateMessage(ctx, database, NewMessage{
		ItemID: item.ID, SenderID: bob.ID, ReceiverID: alice.ID, Subject: "s", Body: "b",
	})

	if err := DeleteItem(ctx, database, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if got, _ := GetItem(ctx, database, item.ID); got != nil {
		t.Error("expected item gone")
	}
	if msgs, _ := ListMessagesForUser(ctx, database, bob.ID); len(msgs) != 0 {
		t.Errorf("expected messages about the item gone, got %d", len(msgs))
	}

	if err := DeleteItem(ctx, database, item.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

func TestListAllItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	owner := mustCreateUser(t, database, "a@x.com", "Alice")
	mustCreateItem(t, database, owner.ID, model.ItemTypeLost, "One")
	two := mustCreateItem(t, database, owner.ID, model.ItemTypeLost, "Two")
	UpdateItemStatus(ctx, database, two.ID, model.ItemStatusInactive)

	items, err := ListAllItems(ctx, database)
	if err != nil {
		t.Fatalf("ListAllItems: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 items, got %d", len(items))
	}
}
