package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/activityhub/backend/api/transport"
	"github.com/activityhub/backend/pkg/httpcontext"
	facadeUC "github.com/activityhub/backend/usecase/facade"
)

type DonationHandler struct {
	baseHandler
	hub *facadeUC.Facade
}

func NewDonationHandler(hub *facadeUC.Facade, adapter *httpcontext.Adapter, logger *zap.Logger) *DonationHandler {
	return &DonationHandler{
		baseHandler: newBaseHandler(adapter, logger),
		hub:         hub,
	}
}

// @Summary Donate to an activity
// @Tags donations
// @Router /api/v1/activities/{id}/donations [post]
func (h *DonationHandler) Donate(ctx *fasthttp.RequestCtx) {
	caller := h.callerAddress(ctx)
	if caller.IsZero() {
		return
	}
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}

	var req transport.DonateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.hub.Donate(stdCtx, caller, id, req.DonorPublicID, req.Amount); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}

// @Summary Withdraw from the custodial balance; zero or missing amount drains it
// @Tags donations
// @Router /api/v1/activities/{id}/withdrawals [post]
func (h *DonationHandler) Withdraw(ctx *fasthttp.RequestCtx) {
	caller := h.callerAddress(ctx)
	if caller.IsZero() {
		return
	}
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}

	var req transport.WithdrawRequest
	if body := ctx.PostBody(); len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			h.respondInvalid(ctx, "invalid payload")
			return
		}
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if req.Amount <= 0 {
		amount, err := h.hub.WithdrawAll(stdCtx, caller, id)
		if err != nil {
			h.respondError(ctx, err)
			return
		}
		h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{"withdrawn": amount})
		return
	}

	if err := h.hub.Withdraw(stdCtx, caller, id, req.Amount); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{"withdrawn": req.Amount})
}
