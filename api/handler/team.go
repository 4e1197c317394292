package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/ayush17112005/TaskWiseAI/api/transport"
	"github.com/ayush17112005/TaskWiseAI/domain"
	"github.com/ayush17112005/TaskWiseAI/pkg/httpcontext"
	"github.com/ayush17112005/TaskWiseAI/usecase/team"
)

type TeamHandler struct {
	baseHandler
	teams *team.UseCase
}

func NewTeamHandler(uc *team.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TeamHandler {
	return &TeamHandler{
		baseHandler: newBaseHandler(adapter, logger),
		teams:       uc,
	}
}

type createTeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *TeamHandler) Create(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	var req createTeamRequest
	if !h.decodeBody(ctx, &req) {
		return
	}
	created, err := h.teams.Create(reqCtx, userID, team.CreateInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

func (h *TeamHandler) List(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	limit, offset := pagination(ctx)
	teams, total, err := h.teams.ListMine(reqCtx, userID, queryString(ctx, "search"), limit, offset)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(teams, transport.ListMeta(total, limit, offset)))
}

func (h *TeamHandler) Get(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	found, err := h.teams.Get(reqCtx, userID, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, found)
}

type updateTeamRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *TeamHandler) Update(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	var req updateTeamRequest
	if !h.decodeBody(ctx, &req) {
		return
	}
	updated, err := h.teams.Update(reqCtx, userID, pathParam(ctx, "id"), team.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

func (h *TeamHandler) Delete(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	if err := h.teams.Delete(reqCtx, userID, pathParam(ctx, "id")); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"message": "team deleted"})
}

type addMemberRequest struct {
	UserID string          `json:"user_id"`
	Email  string          `json:"email"`
	Role   domain.TeamRole `json:"role"`
}

func (h *TeamHandler) AddMember(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	var req addMemberRequest
	if !h.decodeBody(ctx, &req) {
		return
	}
	updated, err := h.teams.AddMember(reqCtx, userID, pathParam(ctx, "id"), team.AddMemberInput{
		UserID: req.UserID,
		Email:  req.Email,
		Role:   req.Role,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

func (h *TeamHandler) RemoveMember(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	updated, err := h.teams.RemoveMember(reqCtx, userID, pathParam(ctx, "id"), pathParam(ctx, "userId"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

type changeRoleRequest struct {
	Role domain.TeamRole `json:"role"`
}

func (h *TeamHandler) ChangeRole(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	var req changeRoleRequest
	if !h.decodeBody(ctx, &req) {
		return
	}
	updated, err := h.teams.ChangeRole(reqCtx, userID, pathParam(ctx, "id"), pathParam(ctx, "userId"), req.Role)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}
