package api

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/erazemk/lostfound/internal/apperr"
	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/stats"
	"github.com/erazemk/lostfound/internal/store"
)

// ItemsHandler handles item reports.
type ItemsHandler struct {
	DB *sql.DB
}

type createItemRequest struct {
	Type         string `json:"type" validate:"required,oneof=lost found"`
	Title        string `json:"title" validate:"required,max=200"`
	Description  string `json:"description" validate:"required,max=5000"`
	Category     string `json:"category" validate:"required,max=100"`
	Location     string `json:"location" validate:"required,max=200"`
	DateOccurred string `json:"date_occurred" validate:"required,datetime=2006-01-02"`
	ImageURL     string `json:"image_url" validate:"omitempty,url,max=2048"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active resolved inactive"`
}

// List handles GET /api/items. The feed holds active items only and can be
// narrowed with ?q= (substring search), ?category= and ?type=.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	term := strings.TrimSpace(q.Get("q"))
	category := strings.TrimSpace(q.Get("category"))

	var itemType model.ItemType
	if t := q.Get("type"); t != "" {
		parsed, err := model.ParseItemType(t)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "type must be lost or found")
			return
		}
		itemType = parsed
	}

	var (
		items []model.Item
		err   error
	)
	ctx := r.Context()
	switch {
	case term != "":
		items, err = store.SearchItems(ctx, h.DB, term)
	case category != "":
		items, err = store.FilterItemsByCategory(ctx, h.DB, category)
	case itemType != "":
		items, err = store.FilterItemsByType(ctx, h.DB, itemType)
	default:
		items, err = store.ListActiveItems(ctx, h.DB)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	jsonResponse(w, http.StatusOK, visibleItems(r, filterItems(items, category, itemType)))
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())

	var req createItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Category = strings.TrimSpace(req.Category)
	req.Location = strings.TrimSpace(req.Location)
	if err := apperr.Check(req); err != nil {
		writeError(w, r, err)
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, store.NewItem{
		UserID:       user.ID,
		Type:         model.ItemType(req.Type),
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Location:     req.Location,
		DateOccurred: req.DateOccurred,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	jsonResponse(w, http.StatusCreated, map[string]any{
		"message": "Item created successfully",
		"itemId":  item.ID,
	})
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	if CurrentUser(r.Context()) == nil {
		public := item.WithoutContact()
		item = &public
	}
	jsonResponse(w, http.StatusOK, item)
}

// UpdateStatus handles PUT /api/items/{id}/status. Owners may change their
// own items; admins may change any.
func (h *ItemsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req updateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := apperr.Check(req); err != nil {
		writeError(w, r, err)
		return
	}
	status := model.ItemStatus(req.Status)

	var err error
	if user.IsAdmin {
		err = store.UpdateItemStatus(r.Context(), h.DB, id, status)
	} else {
		err = store.UpdateItemStatusIfOwner(r.Context(), h.DB, id, user.ID, status)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if item.UserID != user.ID && !user.IsAdmin {
		jsonError(w, http.StatusForbidden, "only the owner can delete this item")
		return
	}

	if err := store.DeleteItem(r.Context(), h.DB, id); err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// Mine handles GET /api/me/items.
func (h *ItemsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItemsByOwner(r.Context(), h.DB, CurrentUser(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Dashboard handles GET /api/me/dashboard.
func (h *ItemsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := stats.LoadOwner(r.Context(), h.DB, CurrentUser(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, summary)
}

// Categories handles GET /api/categories.
func (h *ItemsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, model.Categories)
}

// filterItems applies the category and type filters that the store query
// did not already apply. Both are no-ops when empty.
func filterItems(items []model.Item, category string, itemType model.ItemType) []model.Item {
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if category != "" && it.Category != category {
			continue
		}
		if itemType != "" && it.Type != itemType {
			continue
		}
		out = append(out, it)
	}
	return out
}

// visibleItems strips owner contact details when nobody is signed in.
func visibleItems(r *http.Request, items []model.Item) []model.Item {
	if CurrentUser(r.Context()) != nil {
		return items
	}
	for i := range items {
		items[i] = items[i].WithoutContact()
	}
	return items
}
