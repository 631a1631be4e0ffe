package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/activityhub/backend/domain"
	"github.com/activityhub/backend/pkg/httpcontext"
	facadeUC "github.com/activityhub/backend/usecase/facade"
)

type RegistrationHandler struct {
	baseHandler
	hub *facadeUC.Facade
}

func NewRegistrationHandler(hub *facadeUC.Facade, adapter *httpcontext.Adapter, logger *zap.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		baseHandler: newBaseHandler(adapter, logger),
		hub:         hub,
	}
}

// @Summary Register the authenticated address
// @Tags registration
// @Router /api/v1/users [post]
func (h *RegistrationHandler) Register(ctx *fasthttp.RequestCtx) {
	caller := h.callerAddress(ctx)
	if caller.IsZero() {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.hub.Register(stdCtx, caller)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, user)
}

// @Summary Read credit balance and registration state of an address
// @Tags registration
// @Router /api/v1/users/{address}/credits [get]
func (h *RegistrationHandler) Credits(ctx *fasthttp.RequestCtx) {
	addr, _ := ctx.UserValue("address").(string)
	if addr == "" {
		h.respondInvalid(ctx, "missing address")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	credits, registered, err := h.hub.Credits(stdCtx, domain.Address(addr))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"address":    addr,
		"credits":    credits,
		"registered": registered,
	})
}

// @Summary Total registered users
// @Tags registration
// @Router /api/v1/users/count [get]
func (h *RegistrationHandler) Count(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	count, err := h.hub.UserCount(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{"count": count})
}
