package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/steritrack/pkg/errhttp"
	"github.com/ghuser/steritrack/pkg/httpx"
	pkgvalidator "github.com/ghuser/steritrack/pkg/validator"
	appsvcs "github.com/ghuser/steritrack/services/tracking/application/services"
	"github.com/ghuser/steritrack/services/tracking/domain"
)

// CreateGroupRequest is the request body for POST /groups.
type CreateGroupRequest struct {
	Name    string   `json:"name"     validate:"required,min=1,max=100"        example:"Tray A"`
	ItemIDs []string `json:"item_ids" validate:"required,min=1,dive,required" example:"123456-001-00001"`
} // @name CreateGroupRequest

// GroupListResponse is returned by GET /groups.
type GroupListResponse struct {
	Groups []GroupResponse `json:"groups"`
	Total  int             `json:"total" example:"7"`
} // @name GroupListResponse

// CreateGroupHandler handles POST /groups requests.
type CreateGroupHandler struct {
	svc *appsvcs.Services
}

// NewCreateGroupHandler returns a CreateGroupHandler backed by the given services.
func NewCreateGroupHandler(svc *appsvcs.Services) *CreateGroupHandler {
	return &CreateGroupHandler{svc: svc}
}

// Execute bundles items into a named group.
//
//	@Summary		Create group
//	@Description	Bundles co-located items with matching sterilization state into one group
//	@Tags			groups
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateGroupRequest	true	"Group creation request"
//	@Success		201		{object}	GroupResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/groups [post]
func (h *CreateGroupHandler) Execute(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[CreateGroupRequest](w, r)
	if !ok {
		return
	}

	group, err := h.svc.Grouping.CreateGroup(r.Context(), actor, req.Name, req.ItemIDs)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toGroupResponse(group, nil))
}

// ListGroupsHandler handles GET /groups requests.
type ListGroupsHandler struct {
	svc *appsvcs.Services
}

// NewListGroupsHandler returns a ListGroupsHandler backed by the given services.
func NewListGroupsHandler(svc *appsvcs.Services) *ListGroupsHandler {
	return &ListGroupsHandler{svc: svc}
}

// Execute lists groups visible to the actor.
//
//	@Summary		List groups
//	@Description	Lists groups. Location-bound roles only see their own location.
//	@Tags			groups
//	@Produce		json
//	@Param			limit	query		int	false	"Page size"
//	@Param			offset	query		int	false	"Page offset"
//	@Success		200		{object}	GroupListResponse
//	@Failure		401		{object}	ErrorResponse
//	@Router			/groups [get]
func (h *ListGroupsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	groups, total, err := h.svc.Grouping.ListGroups(r.Context(), actor, queryOpts(r))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	out := make([]GroupResponse, len(groups))
	for i, g := range groups {
		out[i] = toGroupResponse(g, nil)
	}
	httpx.JSON(w, http.StatusOK, GroupListResponse{Groups: out, Total: total})
}

// GetGroupHandler handles GET /groups/{id} requests.
type GetGroupHandler struct {
	svc *appsvcs.Services
}

// NewGetGroupHandler returns a GetGroupHandler backed by the given services.
func NewGetGroupHandler(svc *appsvcs.Services) *GetGroupHandler {
	return &GetGroupHandler{svc: svc}
}

// Execute fetches one group with its member items.
//
//	@Summary		Get group
//	@Description	Fetches a group and its member items
//	@Tags			groups
//	@Produce		json
//	@Param			id	path		string	true	"Group ID"	example(123e4567-e89b-12d3-a456-426614174000)
//	@Success		200	{object}	GroupResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Router			/groups/{id} [get]
func (h *GetGroupHandler) Execute(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	groupID, ok := groupIDFromPath(w, r)
	if !ok {
		return
	}

	group, items, err := h.svc.Grouping.GetGroup(r.Context(), actor, groupID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toGroupResponse(group, items))
}

// DissolveGroupHandler handles DELETE /groups/{id} requests.
type DissolveGroupHandler struct {
	svc *appsvcs.Services
}

// NewDissolveGroupHandler returns a DissolveGroupHandler backed by the given services.
func NewDissolveGroupHandler(svc *appsvcs.Services) *DissolveGroupHandler {
	return &DissolveGroupHandler{svc: svc}
}

// Execute dissolves a group, leaving its items in place.
//
//	@Summary		Dissolve group
//	@Description	Deletes a group and its memberships. Member items keep their status and location.
//	@Tags			groups
//	@Produce		json
//	@Param			id	path	string	true	"Group ID"
//	@Success		204
//	@Failure		401	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Router			/groups/{id} [delete]
func (h *DissolveGroupHandler) Execute(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	groupID, ok := groupIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.svc.Grouping.DissolveGroup(r.Context(), actor, groupID); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveGroupItemHandler handles DELETE /groups/{id}/items/{itemID} requests.
type RemoveGroupItemHandler struct {
	svc *appsvcs.Services
}

// NewRemoveGroupItemHandler returns a RemoveGroupItemHandler backed by the given services.
func NewRemoveGroupItemHandler(svc *appsvcs.Services) *RemoveGroupItemHandler {
	return &RemoveGroupItemHandler{svc: svc}
}

// Execute removes a single item from a group.
//
//	@Summary		Remove item from group
//	@Description	Removes one item from a group. A group emptied this way is deleted.
//	@Tags			groups
//	@Produce		json
//	@Param			id		path	string	true	"Group ID"
//	@Param			itemID	path	string	true	"Item ID"
//	@Success		204
//	@Failure		401	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Router			/groups/{id}/items/{itemID} [delete]
func (h *RemoveGroupItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	groupID, ok := groupIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.svc.Grouping.RemoveItemFromGroup(r.Context(), actor, groupID, chi.URLParam(r, "itemID")); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SterilizableItemsHandler handles GET /groups/{id}/sterilizable requests.
type SterilizableItemsHandler struct {
	svc *appsvcs.Services
}

// NewSterilizableItemsHandler returns a SterilizableItemsHandler backed by the given services.
func NewSterilizableItemsHandler(svc *appsvcs.Services) *SterilizableItemsHandler {
	return &SterilizableItemsHandler{svc: svc}
}

// Execute lists the group members eligible for a sterilization run.
//
//	@Summary		List sterilizable group items
//	@Description	Lists member items at the central unit that are not yet fully sterilized
//	@Tags			groups
//	@Produce		json
//	@Param			id	path		string	true	"Group ID"
//	@Success		200	{object}	ItemListResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Router			/groups/{id}/sterilizable [get]
func (h *SterilizableItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	groupID, ok := groupIDFromPath(w, r)
	if !ok {
		return
	}

	items, err := h.svc.Grouping.SterilizableItems(r.Context(), actor, groupID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, ItemListResponse{Items: toItemResponses(items), Total: len(items)})
}

// groupIDFromPath parses the {id} path parameter as a group UUID.
func groupIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		errhttp.WriteError(w, fmt.Errorf("%w: invalid group id", domain.ErrValidation))
		return uuid.Nil, false
	}
	return id, true
}
