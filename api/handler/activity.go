package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/activityhub/backend/api/transport"
	"github.com/activityhub/backend/domain"
	"github.com/activityhub/backend/pkg/httpcontext"
	"github.com/activityhub/backend/usecase"
	facadeUC "github.com/activityhub/backend/usecase/facade"
)

type ActivityHandler struct {
	baseHandler
	hub *facadeUC.Facade
}

func NewActivityHandler(hub *facadeUC.Facade, adapter *httpcontext.Adapter, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		baseHandler: newBaseHandler(adapter, logger),
		hub:         hub,
	}
}

// @Summary Create an activity
// @Tags activities
// @Router /api/v1/activities [post]
func (h *ActivityHandler) Create(ctx *fasthttp.RequestCtx) {
	caller := h.callerAddress(ctx)
	if caller.IsZero() {
		return
	}

	var req transport.CreateActivityRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	activity, err := h.hub.CreateActivity(stdCtx, caller, usecase.CreateActivityParams{
		PublicID:              req.PublicID,
		Username:              req.Username,
		Title:                 req.Title,
		Description:           req.Description,
		TotalTimeInMonths:     req.TotalTimeInMonths,
		FiatPrice:             req.FiatPrice,
		Level:                 domain.Level(req.Level),
		MaxMembers:            req.MaxMembers,
		WaitingPeriodInMonths: req.WaitingPeriodInMonths,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, activity)
}

// @Summary Join an activity
// @Tags activities
// @Router /api/v1/activities/{id}/join [post]
func (h *ActivityHandler) Join(ctx *fasthttp.RequestCtx) {
	caller := h.callerAddress(ctx)
	if caller.IsZero() {
		return
	}
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}

	var req transport.JoinActivityRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	err := h.hub.JoinActivity(stdCtx, caller, usecase.JoinActivityParams{
		ActivityID:     id,
		DisplayName:    req.DisplayName,
		TenureInMonths: req.TenureInMonths,
		Payment:        req.Payment,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}

// @Summary Append a term record
// @Tags activities
// @Router /api/v1/activities/{id}/terms [post]
func (h *ActivityHandler) AddTerm(ctx *fasthttp.RequestCtx) {
	caller := h.callerAddress(ctx)
	if caller.IsZero() {
		return
	}
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}

	var req transport.AddTermRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.hub.AddTerm(stdCtx, caller, id, req.Titles, req.Descriptions); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, nil)
}

// @Summary List term records
// @Tags activities
// @Router /api/v1/activities/{id}/terms [get]
func (h *ActivityHandler) Terms(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	terms, err := h.hub.TermsFor(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, terms)
}

// @Summary Extend the join whitelist
// @Tags activities
// @Router /api/v1/activities/{id}/whitelist [post]
func (h *ActivityHandler) Whitelist(ctx *fasthttp.RequestCtx) {
	caller := h.callerAddress(ctx)
	if caller.IsZero() {
		return
	}
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}

	var req transport.WhitelistRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || len(req.Addresses) == 0 {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	addrs := make([]domain.Address, 0, len(req.Addresses))
	for _, a := range req.Addresses {
		addrs = append(addrs, domain.Address(a))
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.hub.AddToWhitelist(stdCtx, caller, id, addrs); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}

// @Summary Check whether an address may join via the relayed path
// @Tags activities
// @Router /api/v1/activities/{id}/whitelist/{address} [get]
func (h *ActivityHandler) WhitelistCheck(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}
	addr, _ := ctx.UserValue("address").(string)
	if addr == "" {
		h.respondInvalid(ctx, "missing address")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	allowed, err := h.hub.HasJoinPermission(stdCtx, id, domain.Address(addr))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"address": addr,
		"allowed": allowed,
	})
}

// @Summary Fetch a single activity
// @Tags activities
// @Router /api/v1/activities/{id} [get]
func (h *ActivityHandler) Get(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	activity, err := h.hub.GetActivity(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, activity)
}

// @Summary Total activities created
// @Tags activities
// @Router /api/v1/activities/count [get]
func (h *ActivityHandler) Count(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	count, err := h.hub.ActivityCount(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{"count": count})
}

// @Summary Current join price in native units
// @Tags activities
// @Router /api/v1/activities/{id}/join-price [get]
func (h *ActivityHandler) JoinPrice(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	price, err := h.hub.JoinPriceInNative(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{"join_price": price})
}
