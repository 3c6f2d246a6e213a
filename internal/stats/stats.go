// Package stats derives dashboard figures from the store's list operations.
package stats

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/store"
)

// RecentLimit is how many users and items the admin dashboard shows.
const RecentLimit = 5

// Admin is the site-wide overview shown to administrators.
type Admin struct {
	TotalUsers     int          `json:"total_users"`
	TotalAdmins    int          `json:"total_admins"`
	TotalItems     int          `json:"total_items"`
	ActiveItems    int          `json:"active_items"`
	ResolvedItems  int          `json:"resolved_items"`
	TotalMessages  int          `json:"total_messages"`
	UnreadMessages int          `json:"unread_messages"`
	SuccessRate    int          `json:"success_rate"`
	RecentUsers    []model.User `json:"recent_users"`
	RecentItems    []model.Item `json:"recent_items"`
}

// Owner summarises one user's own postings and inbox.
type Owner struct {
	ActiveItems    int `json:"active_items"`
	ResolvedItems  int `json:"resolved_items"`
	TotalItems     int `json:"total_items"`
	UnreadMessages int `json:"unread_messages"`
}

// ForAdmin computes the admin overview. The slices are expected newest
// first, as the store returns them.
func ForAdmin(users []model.User, items []model.Item, messages []model.Message) Admin {
	a := Admin{
		TotalUsers:    len(users),
		TotalItems:    len(items),
		TotalMessages: len(messages),
		RecentUsers:   head(users, RecentLimit),
		RecentItems:   head(items, RecentLimit),
	}
	for _, u := range users {
		if u.IsAdmin {
			a.TotalAdmins++
		}
	}
	a.ActiveItems, a.ResolvedItems = countStatuses(items)
	for _, m := range messages {
		if !m.IsRead {
			a.UnreadMessages++
		}
	}
	a.SuccessRate = percent(a.ResolvedItems, a.TotalItems)
	return a
}

// ForOwner computes a user's dashboard from their items and unread count.
func ForOwner(items []model.Item, unread int) Owner {
	o := Owner{TotalItems: len(items), UnreadMessages: unread}
	o.ActiveItems, o.ResolvedItems = countStatuses(items)
	return o
}

// LoadAdmin reads everything the admin overview needs.
func LoadAdmin(ctx context.Context, db *sql.DB) (*Admin, error) {
	users, err := store.ListUsers(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("loading admin stats: %w", err)
	}
	items, err := store.ListAllItems(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("loading admin stats: %w", err)
	}
	messages, err := store.ListAllMessages(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("loading admin stats: %w", err)
	}

	a := ForAdmin(users, items, messages)
	return &a, nil
}

// LoadOwner reads the dashboard for userID.
func LoadOwner(ctx context.Context, db *sql.DB, userID int64) (*Owner, error) {
	items, err := store.ListItemsByOwner(ctx, db, userID)
	if err != nil {
		return nil, fmt.Errorf("loading user stats: %w", err)
	}
	unread, err := store.CountUnreadForUser(ctx, db, userID)
	if err != nil {
		return nil, fmt.Errorf("loading user stats: %w", err)
	}

	o := ForOwner(items, unread)
	return &o, nil
}

func countStatuses(items []model.Item) (active, resolved int) {
	for _, it := range items {
		switch it.Status {
		case model.ItemStatusActive:
			active++
		case model.ItemStatusResolved:
			resolved++
		}
	}
	return active, resolved
}

// percent returns part/total as a whole percentage, 0 when total is 0.
func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		s = s[:n]
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
