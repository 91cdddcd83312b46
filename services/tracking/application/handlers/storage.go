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

// AssignSlotRequest is the request body for POST /storage/slots.
type AssignSlotRequest struct {
	SubjectID string `json:"subject_id" validate:"required"          example:"123456-001-00001"`
	Position  string `json:"position"   validate:"required,max=4" example:"A12"`
} // @name AssignSlotRequest

// SlotListResponse is returned by GET /storage/slots.
type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
	Total int            `json:"total" example:"12"`
} // @name SlotListResponse

// AssignSlotHandler handles POST /storage/slots requests.
type AssignSlotHandler struct {
	svc *appsvcs.Services
}

// NewAssignSlotHandler returns an AssignSlotHandler backed by the given services.
func NewAssignSlotHandler(svc *appsvcs.Services) *AssignSlotHandler {
	return &AssignSlotHandler{svc: svc}
}

// Execute assigns a shelf position to a stored item or group.
//
//	@Summary		Assign storage slot
//	@Description	Assigns a shelf position to an item or group currently in storage. Reassignment supersedes the previous slot.
//	@Tags			storage
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AssignSlotRequest	true	"Slot assignment request"
//	@Success		201		{object}	SlotResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/storage/slots [post]
func (h *AssignSlotHandler) Execute(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[AssignSlotRequest](w, r)
	if !ok {
		return
	}

	slot, err := h.svc.Storage.AssignSlot(r.Context(), actor, req.SubjectID, req.Position)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toSlotResponse(slot))
}

// ListSlotsHandler handles GET /storage/slots requests.
type ListSlotsHandler struct {
	svc *appsvcs.Services
}

// NewListSlotsHandler returns a ListSlotsHandler backed by the given services.
func NewListSlotsHandler(svc *appsvcs.Services) *ListSlotsHandler {
	return &ListSlotsHandler{svc: svc}
}

// Execute lists the current storage slot assignments.
//
//	@Summary		List storage slots
//	@Description	Lists slot assignments in the storage room
//	@Tags			storage
//	@Produce		json
//	@Param			limit	query		int	false	"Page size"
//	@Param			offset	query		int	false	"Page offset"
//	@Success		200		{object}	SlotListResponse
//	@Failure		401		{object}	ErrorResponse
//	@Router			/storage/slots [get]
func (h *ListSlotsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	slots, total, err := h.svc.Storage.ListSlots(r.Context(), actor, queryOpts(r))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	out := make([]SlotResponse, len(slots))
	for i, slot := range slots {
		out[i] = toSlotResponse(slot)
	}
	httpx.JSON(w, http.StatusOK, SlotListResponse{Slots: out, Total: total})
}

// RemoveSlotHandler handles DELETE /storage/slots/{id} requests.
type RemoveSlotHandler struct {
	svc *appsvcs.Services
}

// NewRemoveSlotHandler returns a RemoveSlotHandler backed by the given services.
func NewRemoveSlotHandler(svc *appsvcs.Services) *RemoveSlotHandler {
	return &RemoveSlotHandler{svc: svc}
}

// Execute frees a storage slot without moving the subject.
//
//	@Summary		Remove storage slot
//	@Description	Frees a slot assignment. The stored subject keeps its location.
//	@Tags			storage
//	@Produce		json
//	@Param			id	path	string	true	"Slot ID"
//	@Success		204
//	@Failure		401	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Router			/storage/slots/{id} [delete]
func (h *RemoveSlotHandler) Execute(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	slotID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		errhttp.WriteError(w, fmt.Errorf("%w: invalid slot id", domain.ErrValidation))
		return
	}

	if err := h.svc.Storage.RemoveSlot(r.Context(), actor, slotID); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
