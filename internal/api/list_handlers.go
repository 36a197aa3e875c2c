package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/tgoncalves/listly/internal/middleware"
	"github.com/tgoncalves/listly/internal/models"
	"github.com/tgoncalves/listly/internal/service"
)

type createListRequest struct {
	Title       string           `json:"title" validate:"required,max=58"`
	Description string           `json:"description" validate:"max=255"`
	IsPublic    bool             `json:"isPublic"`
	Threshold   *decimal.Decimal `json:"threshold"`
}

type updateListRequest struct {
	Title       string           `json:"title" validate:"required,max=58"`
	Description string           `json:"description" validate:"max=255"`
	IsPublic    bool             `json:"isPublic"`
	IsActive    bool             `json:"isActive"`
	Threshold   *decimal.Decimal `json:"threshold"`
}

type participantRequest struct {
	UserID string `json:"userId" validate:"required"`
}

type addItemRequest struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Description string           `json:"description" validate:"max=255"`
	Quantity    int64            `json:"quantity" validate:"min=0"`
	UserID      string           `json:"userId"`
	Value       *decimal.Decimal `json:"value"`
	Weight      *decimal.Decimal `json:"weight"`
}

type removeItemsRequest struct {
	ItemIDs []string `json:"itemIds" validate:"required,min=1"`
}

type removeItemsResponse struct {
	Removed bool `json:"removed"`
}

// listResponse augments the list with its derived money fields. Reserve is
// omitted entirely when no threshold is set.
type listResponse struct {
	*models.List
	Subtotal decimal.Decimal  `json:"subtotal"`
	Reserve  *decimal.Decimal `json:"reserve,omitempty"`
}

func toListResponse(l *models.List) listResponse {
	resp := listResponse{List: l, Subtotal: l.Subtotal()}
	if reserve, ok := l.Reserve(); ok {
		resp.Reserve = &reserve
	}
	return resp
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

// CreateList handles POST /api/v1/lists.
func (h *Handler) CreateList(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if !h.decode(w, r, &req) {
		return
	}

	list, err := h.lists.CreateList(r.Context(), middleware.GetUserID(r.Context()), service.CreateListInput{
		Title:       req.Title,
		Description: req.Description,
		IsPublic:    req.IsPublic,
		Threshold:   toNullDecimal(req.Threshold),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toListResponse(list))
}

// GetList handles GET /api/v1/lists/{listID}.
func (h *Handler) GetList(w http.ResponseWriter, r *http.Request) {
	list, err := h.lists.GetList(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "listID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListResponse(list))
}

// UpdateList handles PUT /api/v1/lists/{listID}.
func (h *Handler) UpdateList(w http.ResponseWriter, r *http.Request) {
	var req updateListRequest
	if !h.decode(w, r, &req) {
		return
	}

	list, err := h.lists.UpdateList(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "listID"), service.UpdateListInput{
		Title:       req.Title,
		Description: req.Description,
		IsPublic:    req.IsPublic,
		IsActive:    req.IsActive,
		Threshold:   toNullDecimal(req.Threshold),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListResponse(list))
}

// MyLists handles GET /api/v1/lists.
func (h *Handler) MyLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.lists.MyLists(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]listResponse, 0, len(lists))
	for _, l := range lists {
		resp = append(resp, toListResponse(l))
	}
	writeJSON(w, http.StatusOK, resp)
}

// AddParticipant handles POST /api/v1/lists/{listID}/participants.
func (h *Handler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	var req participantRequest
	if !h.decode(w, r, &req) {
		return
	}

	list, err := h.lists.AddParticipant(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "listID"), req.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListResponse(list))
}

// RemoveParticipant handles DELETE /api/v1/lists/{listID}/participants/{userID}.
func (h *Handler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	list, err := h.lists.RemoveParticipant(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "listID"), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListResponse(list))
}

// PromoteToAdmin handles POST /api/v1/lists/{listID}/participants/{userID}/promote.
func (h *Handler) PromoteToAdmin(w http.ResponseWriter, r *http.Request) {
	list, err := h.lists.PromoteToAdmin(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "listID"), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListResponse(list))
}

// AddItem handles POST /api/v1/lists/{listID}/items.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	item, err := h.lists.AddItem(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "listID"), service.AddItemInput{
		Name:        req.Name,
		Description: req.Description,
		Quantity:    req.Quantity,
		UserID:      req.UserID,
		Value:       toNullDecimal(req.Value),
		Weight:      toNullDecimal(req.Weight),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// RemoveItems handles POST /api/v1/lists/{listID}/items/remove. Removal is
// a batch deactivation; the response reports whether every requested item
// was found and flipped.
func (h *Handler) RemoveItems(w http.ResponseWriter, r *http.Request) {
	var req removeItemsRequest
	if !h.decode(w, r, &req) {
		return
	}

	removed, err := h.lists.RemoveItems(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "listID"), req.ItemIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, removeItemsResponse{Removed: removed})
}
