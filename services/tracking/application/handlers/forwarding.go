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
	"github.com/ghuser/steritrack/services/tracking/domain/models"
)

// CreateRequestRequest is the request body for POST /forwarding.
type CreateRequestRequest struct {
	SubjectID string `json:"subject_id" validate:"required" example:"123456-001-00001"`
	To        string `json:"to"         validate:"required" example:"storage"`
} // @name CreateRequestRequest

// RejectRequestRequest is the request body for POST /forwarding/{id}/reject.
type RejectRequestRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=255" example:"not_properly_packaged"`
} // @name RejectRequestRequest

// RequestListResponse is returned by GET /forwarding.
type RequestListResponse struct {
	Requests []RequestResponse `json:"requests"`
	Total    int               `json:"total" example:"3"`
} // @name RequestListResponse

// CreateRequestHandler handles POST /forwarding requests.
type CreateRequestHandler struct {
	svc *appsvcs.Services
}

// NewCreateRequestHandler returns a CreateRequestHandler backed by the given services.
func NewCreateRequestHandler(svc *appsvcs.Services) *CreateRequestHandler {
	return &CreateRequestHandler{svc: svc}
}

// Execute opens a handoff request for an item or group.
//
//	@Summary		Request forwarding
//	@Description	Opens a pending handoff of an item or group to another location. At most one pending request may exist per subject.
//	@Tags			forwarding
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateRequestRequest	true	"Forwarding request"
//	@Success		201		{object}	RequestResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/forwarding [post]
func (h *CreateRequestHandler) Execute(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[CreateRequestRequest](w, r)
	if !ok {
		return
	}

	to, err := models.ParseLocation(req.To)
	if err != nil {
		errhttp.WriteError(w, fmt.Errorf("%w: %w", domain.ErrValidation, err))
		return
	}

	created, err := h.svc.Forwarding.CreateRequest(r.Context(), actor, req.SubjectID, to)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toRequestResponse(created))
}

// AcceptRequestHandler handles POST /forwarding/{id}/accept requests.
type AcceptRequestHandler struct {
	svc *appsvcs.Services
}

// NewAcceptRequestHandler returns an AcceptRequestHandler backed by the given services.
func NewAcceptRequestHandler(svc *appsvcs.Services) *AcceptRequestHandler {
	return &AcceptRequestHandler{svc: svc}
}

// Execute accepts a pending handoff, transferring custody.
//
//	@Summary		Accept forwarding
//	@Description	Accepts a pending handoff. The subject moves to the destination and the transfer is recorded per item.
//	@Tags			forwarding
//	@Produce		json
//	@Param			id	path		string	true	"Request ID"
//	@Success		200	{object}	RequestResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Router			/forwarding/{id}/accept [post]
func (h *AcceptRequestHandler) Execute(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	requestID, ok := requestIDFromPath(w, r)
	if !ok {
		return
	}

	req, err := h.svc.Forwarding.Accept(r.Context(), actor, requestID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toRequestResponse(req))
}

// RejectRequestHandler handles POST /forwarding/{id}/reject requests.
type RejectRequestHandler struct {
	svc *appsvcs.Services
}

// NewRejectRequestHandler returns a RejectRequestHandler backed by the given services.
func NewRejectRequestHandler(svc *appsvcs.Services) *RejectRequestHandler {
	return &RejectRequestHandler{svc: svc}
}

// Execute rejects a pending handoff.
//
//	@Summary		Reject forwarding
//	@Description	Rejects a pending handoff with a reason. A not_properly_packaged rejection returns the subject to the central unit and resets its sterilization state.
//	@Tags			forwarding
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Request ID"
//	@Param			request	body		RejectRequestRequest	true	"Rejection reason"
//	@Success		200		{object}	RequestResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/forwarding/{id}/reject [post]
func (h *RejectRequestHandler) Execute(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	requestID, ok := requestIDFromPath(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[RejectRequestRequest](w, r)
	if !ok {
		return
	}

	resolved, err := h.svc.Forwarding.Reject(r.Context(), actor, requestID, req.Reason)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toRequestResponse(resolved))
}

// ListRequestsHandler handles GET /forwarding requests.
type ListRequestsHandler struct {
	svc *appsvcs.Services
}

// NewListRequestsHandler returns a ListRequestsHandler backed by the given services.
func NewListRequestsHandler(svc *appsvcs.Services) *ListRequestsHandler {
	return &ListRequestsHandler{svc: svc}
}

// Execute lists forwarding requests visible to the actor.
//
//	@Summary		List forwarding requests
//	@Description	Lists handoff requests. Location-bound roles only see requests addressed to their home location.
//	@Tags			forwarding
//	@Produce		json
//	@Param			status	query		string	false	"Filter by status"	example(pending)
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Success		200		{object}	RequestListResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/forwarding [get]
func (h *ListRequestsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var status *models.RequestStatus
	if s := r.URL.Query().Get("status"); s != "" {
		switch models.RequestStatus(s) {
		case models.RequestPending, models.RequestAccepted, models.RequestRejected:
			st := models.RequestStatus(s)
			status = &st
		default:
			errhttp.WriteError(w, fmt.Errorf("%w: unknown request status %q", domain.ErrValidation, s))
			return
		}
	}

	requests, total, err := h.svc.Forwarding.ListRequests(r.Context(), actor, status, queryOpts(r))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	out := make([]RequestResponse, len(requests))
	for i, req := range requests {
		out[i] = toRequestResponse(req)
	}
	httpx.JSON(w, http.StatusOK, RequestListResponse{Requests: out, Total: total})
}

// requestIDFromPath parses the {id} path parameter as a request UUID.
func requestIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		errhttp.WriteError(w, fmt.Errorf("%w: invalid request id", domain.ErrValidation))
		return uuid.Nil, false
	}
	return id, true
}
