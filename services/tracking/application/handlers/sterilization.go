package handlers

import (
	"fmt"
	"net/http"

	"github.com/ghuser/steritrack/pkg/errhttp"
	pkgvalidator "github.com/ghuser/steritrack/pkg/validator"
	appsvcs "github.com/ghuser/steritrack/services/tracking/application/services"
	"github.com/ghuser/steritrack/services/tracking/domain"
	"github.com/ghuser/steritrack/services/tracking/domain/models"
)

// AdvanceStatusRequest is the request body for POST /items/status.
type AdvanceStatusRequest struct {
	ItemIDs []string `json:"item_ids" validate:"required,min=1,dive,required" example:"123456-001-00001"`
	Target  string   `json:"target"   validate:"required"                     example:"washing_by_hand"`
} // @name AdvanceStatusRequest

// SteamSterilizeRequest is the request body for POST /items/steam.
type SteamSterilizeRequest struct {
	ItemIDs     []string `json:"item_ids"    validate:"required,min=1,dive,required" example:"123456-001-00001"`
	Temperature float64  `json:"temperature" validate:"required"                     example:"134"`
	Pressure    float64  `json:"pressure"    validate:"required"                     example:"30"`
	Duration    float64  `json:"duration"    validate:"required"                     example:"45"`
} // @name SteamSterilizeRequest

// MarkUnsterilizedRequest is the request body for POST /items/unsterilized.
type MarkUnsterilizedRequest struct {
	ItemIDs []string `json:"item_ids" validate:"required,min=1,dive,required" example:"123456-001-00001"`
} // @name MarkUnsterilizedRequest

// AdvanceStatusHandler handles POST /items/status requests.
type AdvanceStatusHandler struct {
	svc *appsvcs.Services
}

// NewAdvanceStatusHandler returns an AdvanceStatusHandler backed by the given services.
func NewAdvanceStatusHandler(svc *appsvcs.Services) *AdvanceStatusHandler {
	return &AdvanceStatusHandler{svc: svc}
}

// Execute moves items one step along the sterilization pipeline.
//
//	@Summary		Advance status
//	@Description	Moves items to the named step. Only the immediate successor (or the current step, as a no-op) is allowed. Cooling cannot be entered here; use the steam endpoint.
//	@Tags			sterilization
//	@Accept			json
//	@Produce		json
//	@Param			request	body	AdvanceStatusRequest	true	"Status advance request"
//	@Success		204
//	@Failure		401	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Failure		412	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Router			/items/status [post]
func (h *AdvanceStatusHandler) Execute(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[AdvanceStatusRequest](w, r)
	if !ok {
		return
	}

	target, err := models.ParseStatus(req.Target)
	if err != nil {
		errhttp.WriteError(w, fmt.Errorf("%w: %w", domain.ErrValidation, err))
		return
	}

	if err := h.svc.Sterilization.AdvanceStatus(r.Context(), actor, req.ItemIDs, target); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SteamSterilizeHandler handles POST /items/steam requests.
type SteamSterilizeHandler struct {
	svc *appsvcs.Services
}

// NewSteamSterilizeHandler returns a SteamSterilizeHandler backed by the given services.
func NewSteamSterilizeHandler(svc *appsvcs.Services) *SteamSterilizeHandler {
	return &SteamSterilizeHandler{svc: svc}
}

// Execute records a steam sterilization run and moves items into cooling.
//
//	@Summary		Steam sterilize
//	@Description	Validates cycle parameters (at least 121°C, 15 PSI, 30 minutes) and moves items from steam_sterilization to cooling
//	@Tags			sterilization
//	@Accept			json
//	@Produce		json
//	@Param			request	body	SteamSterilizeRequest	true	"Steam cycle parameters"
//	@Success		204
//	@Failure		401	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Router			/items/steam [post]
func (h *SteamSterilizeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[SteamSterilizeRequest](w, r)
	if !ok {
		return
	}

	params := appsvcs.SteamParams{
		Temperature: req.Temperature,
		Pressure:    req.Pressure,
		Duration:    req.Duration,
	}
	if err := h.svc.Sterilization.SteamSterilize(r.Context(), actor, req.ItemIDs, params); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MarkUnsterilizedHandler handles POST /items/unsterilized requests.
type MarkUnsterilizedHandler struct {
	svc *appsvcs.Services
}

// NewMarkUnsterilizedHandler returns a MarkUnsterilizedHandler backed by the given services.
func NewMarkUnsterilizedHandler(svc *appsvcs.Services) *MarkUnsterilizedHandler {
	return &MarkUnsterilizedHandler{svc: svc}
}

// Execute resets items to the start of the pipeline after use.
//
//	@Summary		Mark unsterilized
//	@Description	Resets items to not_sterilized from any step
//	@Tags			sterilization
//	@Accept			json
//	@Produce		json
//	@Param			request	body	MarkUnsterilizedRequest	true	"Items to reset"
//	@Success		204
//	@Failure		401	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Router			/items/unsterilized [post]
func (h *MarkUnsterilizedHandler) Execute(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[MarkUnsterilizedRequest](w, r)
	if !ok {
		return
	}

	if err := h.svc.Sterilization.MarkUnsterilized(r.Context(), actor, req.ItemIDs); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
