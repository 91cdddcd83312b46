package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/steritrack/pkg/errhttp"
	"github.com/ghuser/steritrack/pkg/httpx"
	pkgvalidator "github.com/ghuser/steritrack/pkg/validator"
	appsvcs "github.com/ghuser/steritrack/services/tracking/application/services"
	"github.com/ghuser/steritrack/services/tracking/domain"
	"github.com/ghuser/steritrack/services/tracking/domain/models"
	"github.com/ghuser/steritrack/services/tracking/domain/repositories"
)

// RegisterItemsRequest is the request body for POST /items.
type RegisterItemsRequest struct {
	CompanyPrefix string `json:"company_prefix" validate:"required,numeric,max=10" example:"123456"`
	TypeCode      string `json:"type_code"      validate:"required,alphanum,max=10" example:"001"`
	Name          string `json:"name"           validate:"required,min=1,max=100"   example:"Scalpel"`
	Quantity      int    `json:"quantity"       validate:"required,gte=1,lte=100"   example:"3"`
} // @name RegisterItemsRequest

// RegisterItemsResponse is returned on successful registration.
type RegisterItemsResponse struct {
	Items []ItemResponse `json:"items"`
} // @name RegisterItemsResponse

// ItemListResponse is returned by item list endpoints.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Total int            `json:"total" example:"42"`
} // @name ItemListResponse

// RegisterItemsHandler handles POST /items requests.
type RegisterItemsHandler struct {
	svc *appsvcs.Services
}

// NewRegisterItemsHandler returns a RegisterItemsHandler backed by the given services.
func NewRegisterItemsHandler(svc *appsvcs.Services) *RegisterItemsHandler {
	return &RegisterItemsHandler{svc: svc}
}

// Execute registers a batch of new instruments.
//
//	@Summary		Register items
//	@Description	Registers one or more instruments of a type, assigning sequential serials
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RegisterItemsRequest	true	"Item registration request"
//	@Success		201		{object}	RegisterItemsResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/items [post]
func (h *RegisterItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[RegisterItemsRequest](w, r)
	if !ok {
		return
	}

	items, err := h.svc.Registry.Register(r.Context(), actor, req.CompanyPrefix, req.TypeCode, req.Name, req.Quantity)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, RegisterItemsResponse{Items: toItemResponses(items)})
}

// GetItemHandler handles GET /items/{id} requests.
type GetItemHandler struct {
	svc *appsvcs.Services
}

// NewGetItemHandler returns a GetItemHandler backed by the given services.
func NewGetItemHandler(svc *appsvcs.Services) *GetItemHandler {
	return &GetItemHandler{svc: svc}
}

// Execute fetches one item by ID.
//
//	@Summary		Get item
//	@Description	Fetches a single instrument by its composite ID
//	@Tags			items
//	@Produce		json
//	@Param			id	path		string	true	"Item ID"	example(123456-001-00001)
//	@Success		200	{object}	ItemResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/items/{id} [get]
func (h *GetItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	item, err := h.svc.Registry.GetItem(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toItemResponse(item))
}

// ListItemsHandler handles GET /items requests.
type ListItemsHandler struct {
	svc *appsvcs.Services
}

// NewListItemsHandler returns a ListItemsHandler backed by the given services.
func NewListItemsHandler(svc *appsvcs.Services) *ListItemsHandler {
	return &ListItemsHandler{svc: svc}
}

// Execute lists items matching the query filters.
//
//	@Summary		List items
//	@Description	Lists instruments. Location-bound roles only see their own location.
//	@Tags			items
//	@Produce		json
//	@Param			location		query		string	false	"Filter by location"	example(msu)
//	@Param			status			query		string	false	"Filter by status"		example(finished)
//	@Param			company_prefix	query		string	false	"Filter by company prefix"
//	@Param			type_code		query		string	false	"Filter by type code"
//	@Param			include_removed	query		bool	false	"Include removed items (elevated roles only)"
//	@Param			ungrouped		query		bool	false	"Only items not in any group"
//	@Param			limit			query		int		false	"Page size"
//	@Param			offset			query		int		false	"Page offset"
//	@Success		200	{object}	ItemListResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Router			/items [get]
func (h *ListItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	filter, err := itemFilterFromQuery(r)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	items, total, err := h.svc.Registry.ListItems(r.Context(), actor, filter, queryOpts(r))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, ItemListResponse{Items: toItemResponses(items), Total: total})
}

// DeleteItemHandler handles DELETE /items/{id} requests.
type DeleteItemHandler struct {
	svc *appsvcs.Services
}

// NewDeleteItemHandler returns a DeleteItemHandler backed by the given services.
func NewDeleteItemHandler(svc *appsvcs.Services) *DeleteItemHandler {
	return &DeleteItemHandler{svc: svc}
}

// Execute removes an item from the active inventory.
//
//	@Summary		Remove item
//	@Description	Marks an instrument as removed. Its audit history is retained.
//	@Tags			items
//	@Produce		json
//	@Param			id	path	string	true	"Item ID"	example(123456-001-00001)
//	@Success		204
//	@Failure		401	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/items/{id} [delete]
func (h *DeleteItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.svc.Registry.RemoveItem(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClearAllHandler handles DELETE /items requests.
type ClearAllHandler struct {
	svc *appsvcs.Services
}

// NewClearAllHandler returns a ClearAllHandler backed by the given services.
func NewClearAllHandler(svc *appsvcs.Services) *ClearAllHandler {
	return &ClearAllHandler{svc: svc}
}

// Execute wipes the whole inventory including the audit trail.
//
//	@Summary		Clear all items
//	@Description	Deletes all items and audit records. Head admin only.
//	@Tags			items
//	@Produce		json
//	@Success		204
//	@Failure		401	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Router			/items [delete]
func (h *ClearAllHandler) Execute(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.svc.Registry.ClearAll(r.Context(), actor); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// itemFilterFromQuery parses the list filter query parameters.
func itemFilterFromQuery(r *http.Request) (repositories.ItemFilter, error) {
	q := r.URL.Query()
	filter := repositories.ItemFilter{
		CompanyPrefix:  q.Get("company_prefix"),
		TypeCode:       q.Get("type_code"),
		IncludeRemoved: q.Get("include_removed") == "true",
		Ungrouped:      q.Get("ungrouped") == "true",
	}
	if s := q.Get("location"); s != "" {
		loc, err := models.ParseLocation(s)
		if err != nil {
			return repositories.ItemFilter{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		filter.Location = &loc
	}
	if s := q.Get("status"); s != "" {
		status, err := models.ParseStatus(s)
		if err != nil {
			return repositories.ItemFilter{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		filter.Status = &status
	}
	return filter, nil
}
