package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"bountyhub-backend/core/bounty"
	bountymw "bountyhub-backend/middleware/bounty"
	"bountyhub-backend/models"
	"bountyhub-backend/services"
)

// BaseHandler provides common functionality for all handlers
type BaseHandler struct{}

// NewBaseHandler creates a new base handler
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// sendJSON sends a JSON response
func (h *BaseHandler) sendJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// sendError sends an error response
func (h *BaseHandler) sendError(w http.ResponseWriter, statusCode int, message string) {
	errorResp := models.NewErrorResponse(message, statusCode)
	h.sendJSON(w, statusCode, errorResp)
}

// sendSuccess sends a success response
func (h *BaseHandler) sendSuccess(w http.ResponseWriter, data interface{}) {
	successResp := models.NewSuccessResponse(data)
	h.sendJSON(w, http.StatusOK, successResp)
}

// parseJSON parses JSON from request
func (h *BaseHandler) parseJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// sendEngineError maps a core error to its HTTP status and error code.
func (h *BaseHandler) sendEngineError(w http.ResponseWriter, err error) {
	status, code := statusForError(err)
	resp := models.NewErrorResponseWithHint(code, status, err.Error())
	h.sendJSON(w, status, resp)
}

func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, bounty.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, bounty.ErrUnauthorized):
		return http.StatusForbidden, "unauthorized"
	case errors.Is(err, bounty.ErrWrongStage):
		return http.StatusConflict, "wrong_stage"
	case errors.Is(err, bounty.ErrAlreadyAccepted):
		return http.StatusConflict, "already_accepted"
	case errors.Is(err, bounty.ErrAlreadyPaid):
		return http.StatusConflict, "already_paid"
	case errors.Is(err, bounty.ErrNotAccepted):
		return http.StatusConflict, "not_accepted"
	case errors.Is(err, bounty.ErrUnderfunded):
		return http.StatusPaymentRequired, "underfunded"
	case errors.Is(err, bounty.ErrTransferFailed):
		return http.StatusBadGateway, "transfer_failed"
	case errors.Is(err, bounty.ErrPastDeadline):
		return http.StatusBadRequest, "past_deadline"
	case errors.Is(err, bounty.ErrInvalidDeadline):
		return http.StatusBadRequest, "invalid_deadline"
	case errors.Is(err, bounty.ErrZeroAmount):
		return http.StatusBadRequest, "zero_amount"
	case errors.Is(err, bounty.ErrValueMismatch):
		return http.StatusBadRequest, "value_mismatch"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// HealthHandler handles health check requests
type HealthHandler struct {
	*BaseHandler
	healthService *services.HealthService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(healthService *services.HealthService) *HealthHandler {
	return &HealthHandler{
		BaseHandler:   NewBaseHandler(),
		healthService: healthService,
	}
}

// HandleHealth handles health check requests
// @Summary Health check
// @Description Report service liveness
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /api/health [get]
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.sendError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	health := h.healthService.GetHealthStatus()
	h.sendSuccess(w, health)
}

// EventsHandler serves the recent activity feed.
type EventsHandler struct {
	*BaseHandler
	recorder *bountymw.Recorder
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(recorder *bountymw.Recorder) *EventsHandler {
	return &EventsHandler{
		BaseHandler: NewBaseHandler(),
		recorder:    recorder,
	}
}

// HandleEvents handles GET /api/events
// @Summary Recent bounty notifications
// @Description List recent bounty and fulfillment notifications, newest last
// @Tags Events
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /api/events [get]
func (h *EventsHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.sendError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	limit := intFromQuery(r, "limit", 50)
	events := h.recorder.Recent(limit)
	h.sendSuccess(w, map[string]interface{}{
		"events": events,
		"total":  len(events),
	})
}

// AdminHandler serves owner-only engine statistics.
type AdminHandler struct {
	*BaseHandler
	engine *bounty.Engine
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(engine *bounty.Engine) *AdminHandler {
	return &AdminHandler{
		BaseHandler: NewBaseHandler(),
		engine:      engine,
	}
}

// HandleStats handles GET /api/admin/stats
// @Summary Engine totals
// @Description Owner-only escrow and obligation totals
// @Tags Admin
// @Produce json
// @Success 200 {object} models.APIResponse
// @Failure 403 {object} models.APIResponse
// @Router /api/admin/stats [get]
func (h *AdminHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.sendError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if !h.engine.IsOwner(r.URL.Query().Get("caller")) {
		h.sendError(w, http.StatusForbidden, "owner identity required")
		return
	}

	balance, owed := h.engine.Totals()
	h.sendSuccess(w, map[string]interface{}{
		"num_bounties":     h.engine.NumBounties(),
		"balance_sats":     balance,
		"owed_amount_sats": owed,
	})
}
