package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"bountyhub-backend/core/bounty"
	"bountyhub-backend/metrics"
	"bountyhub-backend/models"
	"bountyhub-backend/services"
)

// BountyHandler handles bounty and fulfillment HTTP endpoints.
type BountyHandler struct {
	*BaseHandler
	engine   *bounty.Engine
	payments *services.PaymentService
}

// NewBountyHandler creates a new bounty handler.
func NewBountyHandler(engine *bounty.Engine, payments *services.PaymentService) *BountyHandler {
	return &BountyHandler{
		BaseHandler: NewBaseHandler(),
		engine:      engine,
		payments:    payments,
	}
}

func intFromQuery(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// txContext builds the explicit transaction context for one request.
func txContext(caller string, attached int64) bounty.TxContext {
	return bounty.TxContext{Caller: caller, Now: time.Now().UTC(), Attached: attached}
}

// Bounties routes /api/bounties and everything below it.
func (h *BountyHandler) Bounties(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/bounties")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.handleListBounties(w, r)
		case http.MethodPost:
			h.handleIssueBounty(w, r)
		default:
			h.sendError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	parts := strings.Split(path, "/")
	id, err := strconv.Atoi(parts[0])
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "bounty id must be an integer")
		return
	}

	if len(parts) >= 2 && parts[1] == "fulfillments" {
		h.routeFulfillments(w, r, id, parts[2:])
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.handleGetBounty(w, r, id)
	case len(parts) == 1 && r.Method == http.MethodPatch:
		h.handleChangeBounty(w, r, id)
	case len(parts) == 2 && r.Method == http.MethodGet && parts[1] == "qr":
		h.handleFundingQR(w, r, id)
	case len(parts) == 2 && r.Method == http.MethodPost:
		switch parts[1] {
		case "contribute":
			h.handleContribute(w, r, id)
		case "activate":
			h.handleActivate(w, r, id)
		case "kill":
			h.handleKill(w, r, id)
		case "transfer":
			h.handleTransferIssuer(w, r, id)
		case "extend-deadline":
			h.handleExtendDeadline(w, r, id)
		case "increase-payout":
			h.handleIncreasePayout(w, r, id)
		default:
			h.sendError(w, http.StatusNotFound, "unknown bounty action")
		}
	default:
		h.sendError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *BountyHandler) routeFulfillments(w http.ResponseWriter, r *http.Request, id int, rest []string) {
	switch {
	case len(rest) == 0 && r.Method == http.MethodGet:
		h.handleListFulfillments(w, r, id)
	case len(rest) == 0 && r.Method == http.MethodPost:
		h.handleFulfillBounty(w, r, id)
	case len(rest) >= 1:
		fid, err := strconv.Atoi(rest[0])
		if err != nil {
			h.sendError(w, http.StatusBadRequest, "fulfillment id must be an integer")
			return
		}
		switch {
		case len(rest) == 1 && r.Method == http.MethodGet:
			h.handleGetFulfillment(w, r, id, fid)
		case len(rest) == 1 && r.Method == http.MethodPut:
			h.handleUpdateFulfillment(w, r, id, fid)
		case len(rest) == 2 && r.Method == http.MethodPost && rest[1] == "accept":
			h.handleAcceptFulfillment(w, r, id, fid)
		case len(rest) == 2 && r.Method == http.MethodPost && rest[1] == "pay":
			h.handleFulfillmentPayment(w, r, id, fid)
		default:
			h.sendError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	default:
		h.sendError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleListBounties handles GET /api/bounties
// @Summary List bounties
// @Description List bounty summaries, filterable by stage and issuer
// @Tags Bounties
// @Produce json
// @Param stage query string false "Filter by stage (draft|active|dead)"
// @Param issuer query string false "Filter by issuer"
// @Success 200 {object} models.APIResponse
// @Router /api/bounties [get]
func (h *BountyHandler) handleListBounties(w http.ResponseWriter, r *http.Request) {
	filter := bounty.Filter{
		Stage:  bounty.Stage(r.URL.Query().Get("stage")),
		Issuer: r.URL.Query().Get("issuer"),
		Limit:  intFromQuery(r, "limit", 50),
		Offset: intFromQuery(r, "offset", 0),
	}
	if filter.Stage != "" && !filter.Stage.Valid() {
		h.sendError(w, http.StatusBadRequest, "unknown stage filter")
		return
	}

	bounties := h.engine.ListBounties(filter)
	h.sendSuccess(w, map[string]interface{}{
		"bounties": bounties,
		"total":    len(bounties),
	})
}

// handleIssueBounty handles POST /api/bounties
// @Summary Issue a bounty
// @Description Create a bounty in draft, or directly active when a deposit is supplied
// @Tags Bounties
// @Accept json
// @Produce json
// @Param request body models.IssueBountyRequest true "Bounty definition"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /api/bounties [post]
func (h *BountyHandler) handleIssueBounty(w http.ResponseWriter, r *http.Request) {
	var req models.IssueBountyRequest
	if err := h.parseJSON(r, &req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	tx := txContext(req.Caller, req.AttachedSats)
	deadline := time.Unix(req.Deadline, 0).UTC()

	var (
		id  int
		err error
		op  = "issue_bounty"
	)
	if req.Activate {
		op = "issue_and_activate_bounty"
		id, err = h.engine.IssueAndActivateBounty(r.Context(), tx, deadline, req.Data,
			req.FulfillmentAmount, req.Arbiter, req.PaysTokens, req.TokenRef, req.DepositSats)
	} else {
		id, err = h.engine.IssueBounty(r.Context(), tx, deadline, req.Data,
			req.FulfillmentAmount, req.Arbiter, req.PaysTokens, req.TokenRef)
	}
	metrics.ObserveOp(op, err)
	if err != nil {
		h.sendEngineError(w, err)
		return
	}

	summary, err := h.engine.GetBounty(id)
	if err != nil {
		h.sendEngineError(w, err)
		return
	}
	h.sendSuccess(w, summary)
}

// handleGetBounty handles GET /api/bounties/{id}
// @Summary Get a bounty
// @Tags Bounties
// @Produce json
// @Param id path int true "Bounty id"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /api/bounties/{id} [get]
func (h *BountyHandler) handleGetBounty(w http.ResponseWriter, _ *http.Request, id int) {
	summary, err := h.engine.GetBounty(id)
	if err != nil {
		h.sendEngineError(w, err)
		return
	}
	h.sendSuccess(w, summary)
}

// handleContribute handles POST /api/bounties/{id}/contribute
// @Summary Contribute to a bounty
// @Description Add funds to a bounty's escrowed balance. Contributions are irrevocable.
// @Tags Bounties
// @Accept json
// @Produce json
// @Param id path int true "Bounty id"
// @Param request body models.FundBountyRequest true "Contribution"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /api/bounties/{id}/contribute [post]
func (h *BountyHandler) handleContribute(w http.ResponseWriter, r *http.Request, id int) {
	var req models.FundBountyRequest
	if err := h.parseJSON(r, &req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	err := h.engine.Contribute(r.Context(), txContext(req.Caller, req.AttachedSats), id, req.ValueSats)
	metrics.ObserveOp("contribute", err)
	if err != nil {
		h.sendEngineError(w, err)
		return
	}
	h.respondWithBounty(w, id)
}

// handleActivate handles POST /api/bounties/{id}/activate
// @Summary Activate a draft bounty
// @Tags Bounties
// @Accept json
// @Produce json
// @Param id path int true "Bounty id"
// @Param request body models.FundBountyRequest true "Activation funds"
// @Success 200 {object} models.APIResponse
// @Failure 402 {object} models.APIResponse
// @Router /api/bounties/{id}/activate [post]
func (h *BountyHandler) handleActivate(w http.ResponseWriter, r *http.Request, id int) {
	var req models.FundBountyRequest
	if err := h.parseJSON(r, &req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	err := h.engine.ActivateBounty(r.Context(), txContext(req.Caller, req.AttachedSats), id, req.ValueSats)
	metrics.ObserveOp("activate_bounty", err)
	if err != nil {
		h.sendEngineError(w, err)
		return
	}
	h.respondWithBounty(w, id)
}

// handleKill handles POST /api/bounties/{id}/kill
// @Summary Kill a bounty
// @Description Drain the uncommitted balance back to the issuer and end the bounty
// @Tags Bounties
// @Accept json
// @Produce json
// @Param id path int true "Bounty id"
// @Param request body models.CallerRequest true "Caller identity"
// @Success 200 {object} models.APIResponse
// @Failure 403 {object} models.APIResponse
// @Router /api/bounties/{id}/kill [post]
func (h *BountyHandler) handleKill(w http.ResponseWriter, r *http.Request, id int) {
	var req models.CallerRequest
	if err := h.parseJSON(r, &req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	err := h.engine.KillBounty(r.Context(), txContext(req.Caller, 0), id)
	metrics.ObserveOp("kill_bounty", err)
	if err != nil {
		h.sendEngineError(w, err)
		return
	}
	h.respondWithBounty(w, id)
}

// handleTransferIssuer handles POST /api/bounties/{id}/transfer
// @Summary Transfer bounty ownership
// @Tags Bounties
// @Accept json
// @Produce json
// @Param id path int true "Bounty id"
// @Param request body models.TransferIssuerRequest true "New issuer"
// @Success 200 {object} models.APIResponse
// @Router /api/bounties/{id}/transfer [post]
func (h *BountyHandler) handleTransferIssuer(w http.ResponseWriter, r *http.Request, id int) {
	var req models.TransferIssuerRequest
	if err := h.parseJSON(r, &req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	err := h.engine.TransferIssuer(r.Context(), txContext(req.Caller, 0), id, req.NewIssuer)
	metrics.ObserveOp("transfer_issuer", err)
	if err != nil {
		h.sendEngineError(w, err)
		return
	}
	h.respondWithBounty(w, id)
}

// handleExtendDeadline handles POST /api/bounties/{id}/extend-deadline
// @Summary Extend the deadline
// @Tags Bounties
// @Accept json
// @Produce json
// @Param id path int true "Bounty id"
// @Param request body models.ExtendDeadlineRequest true "New deadline"
// @Success 200 {object} models.APIResponse
// @Router /api/bounties/{id}/extend-deadline [post]
func (h *BountyHandler) handleExtendDeadline(w http.ResponseWriter, r *http.Request, id int) {
	var req models.ExtendDeadlineRequest
	if err := h.parseJSON(r, &req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	err := h.engine.ExtendDeadline(r.Context(), txContext(req.Caller, 0), id, time.Unix(req.NewDeadline, 0).UTC())
	metrics.ObserveOp("extend_deadline", err)
	if err != nil {
		h.sendEngineError(w, err)
		return
	}
	h.respondWithBounty(w, id)
}

// handleIncreasePayout handles POST /api/bounties/{id}/increase-payout
// @Summary Increase the fulfillment amount
// @Description Raise the per-fulfillment reward; accepted-but-unpaid work is topped up to the new rate
// @Tags Bounties
// @Accept json
// @Produce json
// @Param id path int true "Bounty id"
// @Param request body models.IncreasePayoutRequest true "New amount"
// @Success 200 {object} models.APIResponse
// @Failure 402 {object} models.APIResponse
// @Router /api/bounties/{id}/increase-payout [post]
func (h *BountyHandler) handleIncreasePayout(w http.ResponseWriter, r *http.Request, id int) {
	var req models.IncreasePayoutRequest
	if err := h.parseJSON(r, &req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	err := h.engine.IncreasePayout(r.Context(), txContext(req.Caller, 0), id, req.NewAmount)
	metrics.ObserveOp("increase_payout", err)
	if err != nil {
		h.sendEngineError(w, err)
		return
	}
	h.respondWithBounty(w, id)
}

// handleChangeBounty handles PATCH /api/bounties/{id}
// @Summary Edit a draft bounty
// @Description Apply draft-stage field edits; only fields present in the body are written
// @Tags Bounties
// @Accept json
// @Produce json
// @Param id path int true "Bounty id"
// @Param request body models.ChangeBountyRequest true "Field edits"
// @Success 200 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /api/bounties/{id} [patch]
func (h *BountyHandler) handleChangeBounty(w http.ResponseWriter, r *http.Request, id int) {
	var req models.ChangeBountyRequest
	if err := h.parseJSON(r, &req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx := r.Context()
	tx := txContext(req.Caller, 0)

	apply := func(op string, err error) bool {
		metrics.ObserveOp(op, err)
		if err != nil {
			h.sendEngineError(w, err)
			return false
		}
		return true
	}

	if req.Data != nil {
		if !apply("change_data", h.engine.ChangeData(ctx, tx, id, *req.Data)) {
			return
		}
	}
	if req.Deadline != nil {
		if !apply("change_deadline", h.engine.ChangeDeadline(ctx, tx, id, time.Unix(*req.Deadline, 0).UTC())) {
			return
		}
	}
	if req.Arbiter != nil {
		if !apply("change_arbiter", h.engine.ChangeArbiter(ctx, tx, id, *req.Arbiter)) {
			return
		}
	}
	if req.FulfillmentAmount != nil {
		if !apply("change_fulfillment_amount", h.engine.ChangeFulfillmentAmount(ctx, tx, id, *req.FulfillmentAmount)) {
			return
		}
	}
	if req.PaysTokens != nil {
		ref := ""
		if req.TokenRef != nil {
			ref = *req.TokenRef
		}
		if !apply("change_pays_tokens", h.engine.ChangePaysTokens(ctx, tx, id, *req.PaysTokens, ref)) {
			return
		}
	}

	h.respondWithBounty(w, id)
}

// handleFundingQR handles GET /api/bounties/{id}/qr
// @Summary Funding QR code
// @Description Render the bounty's funding reference as a PNG QR code
// @Tags Bounties
// @Produce png
// @Param id path int true "Bounty id"
// @Success 200 {file} binary
// @Failure 404 {object} models.APIResponse
// @Router /api/bounties/{id}/qr [get]
func (h *BountyHandler) handleFundingQR(w http.ResponseWriter, _ *http.Request, id int) {
	summary, err := h.engine.GetBounty(id)
	if err != nil {
		h.sendEngineError(w, err)
		return
	}

	img, err := h.payments.GenerateFundingQR(id, summary.FulfillmentAmount)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(img)
}

// handleFulfillBounty handles POST /api/bounties/{id}/fulfillments
// @Summary Submit a fulfillment
// @Tags Fulfillments
// @Accept json
// @Produce json
// @Param id path int true "Bounty id"
// @Param request body models.FulfillmentRequest true "Submission"
// @Success 200 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /api/bounties/{id}/fulfillments [post]
func (h *BountyHandler) handleFulfillBounty(w http.ResponseWriter, r *http.Request, id int) {
	var req models.FulfillmentRequest
	if err := h.parseJSON(r, &req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	fid, err := h.engine.FulfillBounty(r.Context(), txContext(req.Caller, 0), id, req.Data)
	metrics.ObserveOp("fulfill_bounty", err)
	if err != nil {
		h.sendEngineError(w, err)
		return
	}
	h.respondWithFulfillment(w, id, fid)
}

// handleListFulfillments handles GET /api/bounties/{id}/fulfillments
// @Summary List fulfillments of a bounty
// @Tags Fulfillments
// @Produce json
// @Param id path int true "Bounty id"
// @Success 200 {object} models.APIResponse
// @Router /api/bounties/{id}/fulfillments [get]
func (h *BountyHandler) handleListFulfillments(w http.ResponseWriter, _ *http.Request, id int) {
	count, err := h.engine.NumFulfillments(id)
	if err != nil {
		h.sendEngineError(w, err)
		return
	}

	out := make([]bounty.FulfillmentView, 0, count)
	for fid := 0; fid < count; fid++ {
		f, err := h.engine.GetFulfillment(id, fid)
		if err != nil {
			h.sendEngineError(w, err)
			return
		}
		out = append(out, f)
	}
	h.sendSuccess(w, map[string]interface{}{
		"fulfillments": out,
		"total":        count,
	})
}

// handleGetFulfillment handles GET /api/bounties/{id}/fulfillments/{fid}
// @Summary Get a fulfillment
// @Tags Fulfillments
// @Produce json
// @Param id path int true "Bounty id"
// @Param fid path int true "Fulfillment id"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /api/bounties/{id}/fulfillments/{fid} [get]
func (h *BountyHandler) handleGetFulfillment(w http.ResponseWriter, _ *http.Request, id, fid int) {
	f, err := h.engine.GetFulfillment(id, fid)
	if err != nil {
		h.sendEngineError(w, err)
		return
	}
	h.sendSuccess(w, f)
}

// handleUpdateFulfillment handles PUT /api/bounties/{id}/fulfillments/{fid}
// @Summary Update a fulfillment
// @Description Revise submission data before acceptance
// @Tags Fulfillments
// @Accept json
// @Produce json
// @Param id path int true "Bounty id"
// @Param fid path int true "Fulfillment id"
// @Param request body models.FulfillmentRequest true "Revised submission"
// @Success 200 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /api/bounties/{id}/fulfillments/{fid} [put]
func (h *BountyHandler) handleUpdateFulfillment(w http.ResponseWriter, r *http.Request, id, fid int) {
	var req models.FulfillmentRequest
	if err := h.parseJSON(r, &req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	err := h.engine.UpdateFulfillment(r.Context(), txContext(req.Caller, 0), id, fid, req.Data)
	metrics.ObserveOp("update_fulfillment", err)
	if err != nil {
		h.sendEngineError(w, err)
		return
	}
	h.respondWithFulfillment(w, id, fid)
}

// handleAcceptFulfillment handles POST /api/bounties/{id}/fulfillments/{fid}/accept
// @Summary Accept a fulfillment
// @Description Commit one fulfillment amount of the balance to the fulfiller
// @Tags Fulfillments
// @Accept json
// @Produce json
// @Param id path int true "Bounty id"
// @Param fid path int true "Fulfillment id"
// @Param request body models.CallerRequest true "Caller identity"
// @Success 200 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /api/bounties/{id}/fulfillments/{fid}/accept [post]
func (h *BountyHandler) handleAcceptFulfillment(w http.ResponseWriter, r *http.Request, id, fid int) {
	var req models.CallerRequest
	if err := h.parseJSON(r, &req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	err := h.engine.AcceptFulfillment(r.Context(), txContext(req.Caller, 0), id, fid)
	metrics.ObserveOp("accept_fulfillment", err)
	if err != nil {
		h.sendEngineError(w, err)
		return
	}
	h.respondWithFulfillment(w, id, fid)
}

// handleFulfillmentPayment handles POST /api/bounties/{id}/fulfillments/{fid}/pay
// @Summary Collect a fulfillment payment
// @Description Pay the accepted fulfiller their committed share
// @Tags Fulfillments
// @Accept json
// @Produce json
// @Param id path int true "Bounty id"
// @Param fid path int true "Fulfillment id"
// @Param request body models.CallerRequest true "Caller identity"
// @Success 200 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /api/bounties/{id}/fulfillments/{fid}/pay [post]
func (h *BountyHandler) handleFulfillmentPayment(w http.ResponseWriter, r *http.Request, id, fid int) {
	var req models.CallerRequest
	if err := h.parseJSON(r, &req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	err := h.engine.FulfillmentPayment(r.Context(), txContext(req.Caller, 0), id, fid)
	metrics.ObserveOp("fulfillment_payment", err)
	if err != nil {
		h.sendEngineError(w, err)
		return
	}
	h.respondWithFulfillment(w, id, fid)
}

func (h *BountyHandler) respondWithBounty(w http.ResponseWriter, id int) {
	summary, err := h.engine.GetBounty(id)
	if err != nil {
		h.sendEngineError(w, err)
		return
	}
	h.sendSuccess(w, summary)
}

func (h *BountyHandler) respondWithFulfillment(w http.ResponseWriter, id, fid int) {
	f, err := h.engine.GetFulfillment(id, fid)
	if err != nil {
		h.sendEngineError(w, err)
		return
	}
	h.sendSuccess(w, f)
}
