package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/steritrack/pkg/errhttp"
	"github.com/ghuser/steritrack/pkg/httpx"
	appsvcs "github.com/ghuser/steritrack/services/tracking/application/services"
	"github.com/ghuser/steritrack/services/tracking/domain"
	"github.com/ghuser/steritrack/services/tracking/domain/models"
	"github.com/ghuser/steritrack/services/tracking/domain/repositories"
)

// AuditListResponse is returned by GET /history.
type AuditListResponse struct {
	Records []AuditRecordResponse `json:"records"`
	Total   int                   `json:"total" example:"128"`
} // @name AuditListResponse

// ListHistoryHandler handles GET /history requests.
type ListHistoryHandler struct {
	svc *appsvcs.Services
}

// NewListHistoryHandler returns a ListHistoryHandler backed by the given services.
func NewListHistoryHandler(svc *appsvcs.Services) *ListHistoryHandler {
	return &ListHistoryHandler{svc: svc}
}

// Execute lists audit records matching the query filters.
//
//	@Summary		List audit history
//	@Description	Lists the append-only audit trail, newest first
//	@Tags			history
//	@Produce		json
//	@Param			item_id		query		string	false	"Filter by item ID"
//	@Param			action		query		string	false	"Filter by action"	example(forwarded)
//	@Param			actor_id	query		string	false	"Filter by actor ID"
//	@Param			from		query		string	false	"Records at or after this RFC 3339 time"
//	@Param			to			query		string	false	"Records at or before this RFC 3339 time"
//	@Param			limit		query		int		false	"Page size"
//	@Param			offset		query		int		false	"Page offset"
//	@Success		200	{object}	AuditListResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Router			/history [get]
func (h *ListHistoryHandler) Execute(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	filter, err := auditFilterFromQuery(r)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	records, total, err := h.svc.History.ListRecords(r.Context(), actor, filter, queryOpts(r))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	out := make([]AuditRecordResponse, len(records))
	for i, rec := range records {
		out[i] = toAuditResponse(rec)
	}
	httpx.JSON(w, http.StatusOK, AuditListResponse{Records: out, Total: total})
}

// ClearHistoryHandler handles DELETE /history requests.
type ClearHistoryHandler struct {
	svc *appsvcs.Services
}

// NewClearHistoryHandler returns a ClearHistoryHandler backed by the given services.
func NewClearHistoryHandler(svc *appsvcs.Services) *ClearHistoryHandler {
	return &ClearHistoryHandler{svc: svc}
}

// Execute wipes the audit trail.
//
//	@Summary		Clear audit history
//	@Description	Deletes all audit records. Head admin only.
//	@Tags			history
//	@Produce		json
//	@Success		204
//	@Failure		401	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Router			/history [delete]
func (h *ClearHistoryHandler) Execute(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.svc.History.ClearHistory(r.Context(), actor); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// auditFilterFromQuery parses the history filter query parameters.
func auditFilterFromQuery(r *http.Request) (repositories.AuditFilter, error) {
	q := r.URL.Query()
	filter := repositories.AuditFilter{ItemID: q.Get("item_id")}

	if s := q.Get("action"); s != "" {
		action, err := models.ParseAction(s)
		if err != nil {
			return repositories.AuditFilter{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		filter.Action = &action
	}
	if s := q.Get("actor_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return repositories.AuditFilter{}, fmt.Errorf("%w: invalid actor id", domain.ErrValidation)
		}
		filter.ActorID = id
	}
	if s := q.Get("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return repositories.AuditFilter{}, fmt.Errorf("%w: invalid from time", domain.ErrValidation)
		}
		filter.From = &t
	}
	if s := q.Get("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return repositories.AuditFilter{}, fmt.Errorf("%w: invalid to time", domain.ErrValidation)
		}
		filter.To = &t
	}
	return filter, nil
}
