package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/ayush17112005/TaskWiseAI/api/transport"
	"github.com/ayush17112005/TaskWiseAI/domain"
	"github.com/ayush17112005/TaskWiseAI/pkg/httpcontext"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(data, nil))
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status, code := mapError(err)
	h.respondJSON(ctx, status, transport.NewError(code, err.Error(), nil))
}

// userID reads the authenticated user injected by the JWT middleware.
func (h baseHandler) userID(ctx *fasthttp.RequestCtx) (string, bool) {
	id := string(ctx.Request.Header.Peek("X-User-ID"))
	if id == "" {
		h.respondError(ctx, domain.ErrUnauthorized)
		return "", false
	}
	return id, true
}

func (h baseHandler) decodeBody(ctx *fasthttp.RequestCtx, dst interface{}) bool {
	if err := json.Unmarshal(ctx.PostBody(), dst); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return false
	}
	return true
}

func pathParam(ctx *fasthttp.RequestCtx, name string) string {
	if v, ok := ctx.UserValue(name).(string); ok {
		return v
	}
	return ""
}

func queryString(ctx *fasthttp.RequestCtx, name string) string {
	return string(ctx.QueryArgs().Peek(name))
}

func queryInt(ctx *fasthttp.RequestCtx, name string, fallback int) int {
	if v, err := ctx.QueryArgs().GetUint(name); err == nil {
		return v
	}
	return fallback
}

func queryBool(ctx *fasthttp.RequestCtx, name string) bool {
	return ctx.QueryArgs().GetBool(name)
}

// pagination applies the default page size for list endpoints.
func pagination(ctx *fasthttp.RequestCtx) (limit, offset int) {
	return queryInt(ctx, "limit", 20), queryInt(ctx, "offset", 0)
}

func mapError(err error) (int, string) {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusUnauthorized, string(domain.ErrCodeUnauthorized)
	case domain.IsDomainError(err, domain.ErrCodeForbidden):
		return http.StatusForbidden, string(domain.ErrCodeForbidden)
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest, string(domain.ErrCodeInvalid)
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, string(domain.ErrCodeNotFound)
	case domain.IsDomainError(err, domain.ErrCodeConflict):
		return http.StatusConflict, string(domain.ErrCodeConflict)
	case domain.IsDomainError(err, domain.ErrCodeAIResponse):
		return http.StatusUnprocessableEntity, string(domain.ErrCodeAIResponse)
	case domain.IsDomainError(err, domain.ErrCodeExternal):
		return http.StatusBadGateway, string(domain.ErrCodeExternal)
	default:
		return http.StatusInternalServerError, string(domain.ErrCodeInternal)
	}
}

