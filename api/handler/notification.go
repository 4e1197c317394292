package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/ayush17112005/TaskWiseAI/pkg/httpcontext"
	"github.com/ayush17112005/TaskWiseAI/usecase/notification"
)

type NotificationHandler struct {
	baseHandler
	notifications *notification.UseCase
}

func NewNotificationHandler(uc *notification.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		baseHandler:   newBaseHandler(adapter, logger),
		notifications: uc,
	}
}

func (h *NotificationHandler) List(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	limit, offset := pagination(ctx)
	items, err := h.notifications.List(reqCtx, userID, queryBool(ctx, "unread"), limit, offset)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, items)
}

func (h *NotificationHandler) UnreadCount(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	count, err := h.notifications.UnreadCount(reqCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]int{"unread": count})
}

func (h *NotificationHandler) MarkRead(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	updated, err := h.notifications.MarkRead(reqCtx, userID, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

func (h *NotificationHandler) MarkAllRead(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	count, err := h.notifications.MarkAllRead(reqCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]int{"marked": count})
}
