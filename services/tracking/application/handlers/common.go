package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/steritrack/pkg/auth"
	"github.com/ghuser/steritrack/pkg/httpx"
	"github.com/ghuser/steritrack/services/tracking/domain/models"
	"github.com/ghuser/steritrack/services/tracking/domain/repositories"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"item 123456-001-00001 not found"`
} // @name ErrorResponse

// ItemResponse is the wire representation of a tracked instrument.
type ItemResponse struct {
	ID            string    `json:"id"             example:"123456-001-00001"`
	CompanyPrefix string    `json:"company_prefix" example:"123456"`
	TypeCode      string    `json:"type_code"      example:"001"`
	Serial        int       `json:"serial"         example:"1"`
	Name          string    `json:"name"           example:"Scalpel"`
	Status        string    `json:"status"         example:"not_sterilized"`
	Location      string    `json:"location"       example:"msu"`
	CreatedAt     time.Time `json:"created_at"     example:"2024-01-15T10:30:00Z"`
	UpdatedAt     time.Time `json:"updated_at"     example:"2024-01-15T10:30:00Z"`
} // @name ItemResponse

// GroupResponse is the wire representation of an item group.
type GroupResponse struct {
	ID        uuid.UUID      `json:"id"              example:"123e4567-e89b-12d3-a456-426614174000"`
	Name      string         `json:"name"            example:"Tray A"`
	Location  string         `json:"location"        example:"msu"`
	CreatedAt time.Time      `json:"created_at"      example:"2024-01-15T10:30:00Z"`
	Items     []ItemResponse `json:"items,omitempty"`
} // @name GroupResponse

// RequestResponse is the wire representation of a forwarding request.
type RequestResponse struct {
	ID              uuid.UUID  `json:"id"                         example:"123e4567-e89b-12d3-a456-426614174000"`
	SubjectKind     string     `json:"subject_kind"               example:"item"`
	SubjectID       string     `json:"subject_id"                 example:"123456-001-00001"`
	From            string     `json:"from"                       example:"msu"`
	To              string     `json:"to"                         example:"storage"`
	Status          string     `json:"status"                     example:"pending"`
	RejectionReason string     `json:"rejection_reason,omitempty" example:"not_properly_packaged"`
	RequestedBy     uuid.UUID  `json:"requested_by"               example:"550e8400-e29b-41d4-a716-446655440000"`
	ResolvedBy      *uuid.UUID `json:"resolved_by,omitempty"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"                 example:"2024-01-15T10:30:00Z"`
} // @name RequestResponse

// SlotResponse is the wire representation of a storage slot assignment.
type SlotResponse struct {
	ID          uuid.UUID `json:"id"           example:"123e4567-e89b-12d3-a456-426614174000"`
	SubjectKind string    `json:"subject_kind" example:"item"`
	SubjectID   string    `json:"subject_id"   example:"123456-001-00001"`
	SubjectName string    `json:"subject_name" example:"Scalpel"`
	Position    string    `json:"position"     example:"A12"`
	AssignedBy  uuid.UUID `json:"assigned_by"  example:"550e8400-e29b-41d4-a716-446655440000"`
	CreatedAt   time.Time `json:"created_at"   example:"2024-01-15T10:30:00Z"`
} // @name SlotResponse

// AuditRecordResponse is the wire representation of one audit trail entry.
type AuditRecordResponse struct {
	ID            uuid.UUID `json:"id"             example:"123e4567-e89b-12d3-a456-426614174000"`
	ItemID        string    `json:"item_id"        example:"123456-001-00001"`
	ItemName      string    `json:"item_name"      example:"Scalpel"`
	CompanyPrefix string    `json:"company_prefix" example:"123456"`
	Action        string    `json:"action"         example:"forwarded"`
	From          string    `json:"from"           example:"msu"`
	To            string    `json:"to"             example:"storage"`
	ActorID       uuid.UUID `json:"actor_id"       example:"550e8400-e29b-41d4-a716-446655440000"`
	ActorUsername string    `json:"actor_username" example:"nurse1"`
	ActorRole     string    `json:"actor_role"     example:"msu"`
	Timestamp     time.Time `json:"timestamp"      example:"2024-01-15T10:30:00Z"`
} // @name AuditRecordResponse

// actorFromRequest converts the session actor into a domain actor.
// Writes 401 when unauthenticated and 403 when the stored role is unknown.
func actorFromRequest(w http.ResponseWriter, r *http.Request) (models.Actor, bool) {
	a, err := auth.ActorFromCtx(r.Context())
	if err != nil {
		httpx.JSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return models.Actor{}, false
	}
	role, err := models.ParseRole(a.Role)
	if err != nil {
		httpx.JSON(w, http.StatusForbidden, ErrorResponse{Error: "unknown role"})
		return models.Actor{}, false
	}
	return models.Actor{ID: a.ID, Username: a.Username, Role: role, Room: a.Room}, true
}

// queryOpts reads limit/offset pagination parameters with sane bounds.
func queryOpts(r *http.Request) repositories.QueryOpts {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}
	return repositories.QueryOpts{Limit: limit, Offset: offset}
}

func toItemResponse(item *models.Item) ItemResponse {
	return ItemResponse{
		ID:            item.ID,
		CompanyPrefix: item.CompanyPrefix,
		TypeCode:      item.TypeCode,
		Serial:        item.Serial,
		Name:          item.Name,
		Status:        item.Status.String(),
		Location:      item.Location.String(),
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}

func toItemResponses(items []*models.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i, item := range items {
		out[i] = toItemResponse(item)
	}
	return out
}

func toGroupResponse(group *models.Group, items []*models.Item) GroupResponse {
	resp := GroupResponse{
		ID:        group.ID,
		Name:      group.Name,
		Location:  group.Location.String(),
		CreatedAt: group.CreatedAt,
	}
	if items != nil {
		resp.Items = toItemResponses(items)
	}
	return resp
}

func toRequestResponse(req *models.ForwardingRequest) RequestResponse {
	resp := RequestResponse{
		ID:              req.ID,
		SubjectKind:     string(req.SubjectKind),
		SubjectID:       req.SubjectID,
		From:            req.From.String(),
		To:              req.To.String(),
		Status:          string(req.Status),
		RejectionReason: req.RejectionReason,
		RequestedBy:     req.RequestedBy,
		ResolvedAt:      req.ResolvedAt,
		CreatedAt:       req.CreatedAt,
	}
	if req.ResolvedBy != uuid.Nil {
		id := req.ResolvedBy
		resp.ResolvedBy = &id
	}
	return resp
}

func toSlotResponse(slot *models.StorageSlot) SlotResponse {
	return SlotResponse{
		ID:          slot.ID,
		SubjectKind: string(slot.SubjectKind),
		SubjectID:   slot.SubjectID,
		SubjectName: slot.SubjectName,
		Position:    slot.Position,
		AssignedBy:  slot.AssignedBy,
		CreatedAt:   slot.CreatedAt,
	}
}

func toAuditResponse(rec *models.AuditRecord) AuditRecordResponse {
	return AuditRecordResponse{
		ID:            rec.ID,
		ItemID:        rec.ItemID,
		ItemName:      rec.ItemName,
		CompanyPrefix: rec.CompanyPrefix,
		Action:        string(rec.Action),
		From:          rec.From.String(),
		To:            rec.To.String(),
		ActorID:       rec.ActorID,
		ActorUsername: rec.ActorUsername,
		ActorRole:     string(rec.ActorRole),
		Timestamp:     rec.Timestamp,
	}
}
