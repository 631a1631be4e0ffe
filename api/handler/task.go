package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/activityhub/backend/api/transport"
	"github.com/activityhub/backend/domain"
	"github.com/activityhub/backend/pkg/httpcontext"
	"github.com/activityhub/backend/usecase"
	facadeUC "github.com/activityhub/backend/usecase/facade"
)

type TaskHandler struct {
	baseHandler
	hub *facadeUC.Facade
}

func NewTaskHandler(hub *facadeUC.Facade, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		hub:         hub,
	}
}

// @Summary Create a task with an escrowed reward
// @Tags tasks
// @Router /api/v1/activities/{id}/tasks [post]
func (h *TaskHandler) Create(ctx *fasthttp.RequestCtx) {
	caller := h.callerAddress(ctx)
	if caller.IsZero() {
		return
	}
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}

	var req transport.CreateTaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.hub.CreateTask(stdCtx, caller, usecase.CreateTaskParams{
		ActivityID:        id,
		Assignee:          domain.Address(req.Assignee),
		Title:             req.Title,
		Description:       req.Description,
		FiatReward:        req.FiatReward,
		DueInDays:         req.DueInDays,
		CreditScoreReward: req.CreditScoreReward,
		Payment:           req.Payment,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, task)
}

// @Summary Complete a task and release its reward
// @Tags tasks
// @Router /api/v1/activities/{id}/tasks/{taskId}/complete [post]
func (h *TaskHandler) Complete(ctx *fasthttp.RequestCtx) {
	caller := h.callerAddress(ctx)
	if caller.IsZero() {
		return
	}
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}
	taskID, ok := h.pathID(ctx, "taskId")
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.hub.CompleteTask(stdCtx, caller, id, taskID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}

// @Summary List an activity's tasks
// @Tags tasks
// @Router /api/v1/activities/{id}/tasks [get]
func (h *TaskHandler) List(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.hub.TasksFor(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Platform tax on a task reward amount
// @Tags tasks
// @Router /api/v1/tasks/tax-amount [get]
func (h *TaskHandler) TaxAmount(ctx *fasthttp.RequestCtx) {
	amount, err := strconv.ParseInt(string(ctx.QueryArgs().Peek("amount")), 10, 64)
	if err != nil || amount < 0 {
		h.respondInvalid(ctx, "invalid amount")
		return
	}

	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"amount": amount,
		"tax":    h.hub.TaxAmountForTask(amount),
	})
}
