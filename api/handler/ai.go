package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/ayush17112005/TaskWiseAI/domain"
	"github.com/ayush17112005/TaskWiseAI/pkg/httpcontext"
	"github.com/ayush17112005/TaskWiseAI/usecase/suggest"
)

type AIHandler struct {
	baseHandler
	suggest *suggest.UseCase
}

func NewAIHandler(uc *suggest.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AIHandler {
	return &AIHandler{
		baseHandler: newBaseHandler(adapter, logger),
		suggest:     uc,
	}
}

func (h *AIHandler) SuggestAssignee(ctx *fasthttp.RequestCtx) {
	h.run(ctx, domain.SuggestionAssignee)
}

func (h *AIHandler) SuggestDeadline(ctx *fasthttp.RequestCtx) {
	h.run(ctx, domain.SuggestionDeadline)
}

func (h *AIHandler) SuggestPriority(ctx *fasthttp.RequestCtx) {
	h.run(ctx, domain.SuggestionPriority)
}

func (h *AIHandler) SuggestBreakdown(ctx *fasthttp.RequestCtx) {
	h.run(ctx, domain.SuggestionBreakdown)
}

func (h *AIHandler) run(ctx *fasthttp.RequestCtx, kind domain.SuggestionKind) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	result, err := h.suggest.Suggest(reqCtx, userID, pathParam(ctx, "id"), kind)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, result)
}
