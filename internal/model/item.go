package model

import (
	"fmt"
	"time"
)

// ItemType says whether a report is about something lost or something found.
type ItemType string

// Item types.
const (
	ItemTypeLost  ItemType = "lost"
	ItemTypeFound ItemType = "found"
)

// Valid reports whether t is a known item type.
func (t ItemType) Valid() bool {
	return t == ItemTypeLost || t == ItemTypeFound
}

// ParseItemType converts s into an ItemType.
func ParseItemType(s string) (ItemType, error) {
	t := ItemType(s)
	if !t.Valid() {
		return "", fmt.Errorf("invalid item type %q", s)
	}
	return t, nil
}

// ItemStatus is the lifecycle state of a report.
type ItemStatus string

// Item statuses. Only active items appear in public listings.
const (
	ItemStatusActive   ItemStatus = "active"
	ItemStatusResolved ItemStatus = "resolved"
	ItemStatusInactive ItemStatus = "inactive"
)

// Valid reports whether s is a known item status.
func (s ItemStatus) Valid() bool {
	switch s {
	case ItemStatusActive, ItemStatusResolved, ItemStatusInactive:
		return true
	}
	return false
}

// ParseItemStatus converts s into an ItemStatus.
func ParseItemStatus(s string) (ItemStatus, error) {
	st := ItemStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("invalid item status %q", s)
	}
	return st, nil
}

// Categories is the suggested category list offered to posters. It is not
// enforced; any non-empty category is stored as given.
var Categories = []string{
	"Electronics",
	"Personal Items",
	"Clothing",
	"Jewelry",
	"Documents",
	"Keys",
	"Pets",
	"Sports Equipment",
	"Books",
	"Other",
}

// DateLayout is the format of Item.DateOccurred.
const DateLayout = "2006-01-02"

// Item is a lost or found report.
type Item struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	Type         ItemType   `json:"type"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Category     string     `json:"category"`
	Location     string     `json:"location"`
	DateOccurred string     `json:"date_occurred"`
	ImageURL     string     `json:"image_url,omitempty"`
	Status       ItemStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Joined owner fields (not always populated).
	UserName  string `json:"user_name,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
	UserPhone string `json:"user_phone,omitempty"`
}

// WithoutContact returns a copy of the item with the owner's contact
// details removed, for visitors who are not signed in.
func (i Item) WithoutContact() Item {
	i.UserEmail = ""
	i.UserPhone = ""
	return i
}
