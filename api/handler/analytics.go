package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/ayush17112005/TaskWiseAI/pkg/httpcontext"
	"github.com/ayush17112005/TaskWiseAI/usecase/analytics"
)

type AnalyticsHandler struct {
	baseHandler
	analytics *analytics.UseCase
}

func NewAnalyticsHandler(uc *analytics.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		analytics:   uc,
	}
}

func (h *AnalyticsHandler) TeamWorkload(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	workload, err := h.analytics.TeamWorkload(reqCtx, userID, pathParam(ctx, "teamId"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, workload)
}

func (h *AnalyticsHandler) ProjectStats(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	stats, err := h.analytics.ProjectStats(reqCtx, userID, pathParam(ctx, "projectId"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, stats)
}

func (h *AnalyticsHandler) Dashboard(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	dashboard, err := h.analytics.UserDashboard(reqCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, dashboard)
}

func (h *AnalyticsHandler) MemberPerformance(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	perf, err := h.analytics.MemberPerformanceHistory(reqCtx, userID, pathParam(ctx, "teamId"), pathParam(ctx, "userId"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, perf)
}

func (h *AnalyticsHandler) CompletionTrends(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	trends, err := h.analytics.TaskCompletionTrends(reqCtx, userID, pathParam(ctx, "projectId"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, trends)
}
