package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/ayush17112005/TaskWiseAI/api/transport"
	"github.com/ayush17112005/TaskWiseAI/domain"
	"github.com/ayush17112005/TaskWiseAI/pkg/httpcontext"
	"github.com/ayush17112005/TaskWiseAI/usecase/project"
)

type ProjectHandler struct {
	baseHandler
	projects *project.UseCase
}

func NewProjectHandler(uc *project.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		baseHandler: newBaseHandler(adapter, logger),
		projects:    uc,
	}
}

type createProjectRequest struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	TeamID      string               `json:"team_id"`
	Status      domain.ProjectStatus `json:"status"`
	Priority    domain.Priority      `json:"priority"`
	StartDate   *time.Time           `json:"start_date"`
	EndDate     *time.Time           `json:"end_date"`
	Tags        []string             `json:"tags"`
}

func (h *ProjectHandler) Create(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	var req createProjectRequest
	if !h.decodeBody(ctx, &req) {
		return
	}
	created, err := h.projects.Create(reqCtx, userID, project.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		TeamID:      req.TeamID,
		Status:      req.Status,
		Priority:    req.Priority,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Tags:        req.Tags,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

func (h *ProjectHandler) List(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	limit, offset := pagination(ctx)
	projects, total, err := h.projects.List(reqCtx, userID, project.ListInput{
		TeamID:   queryString(ctx, "team_id"),
		Status:   domain.ProjectStatus(queryString(ctx, "status")),
		Priority: domain.Priority(queryString(ctx, "priority")),
		Search:   queryString(ctx, "search"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(projects, transport.ListMeta(total, limit, offset)))
}

func (h *ProjectHandler) Get(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	projectID := pathParam(ctx, "id")
	found, err := h.projects.Get(reqCtx, userID, projectID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	rollup, err := h.projects.StatusRollup(reqCtx, userID, projectID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"project":     found,
		"task_counts": rollup,
	})
}

type updateProjectRequest struct {
	Name        *string               `json:"name"`
	Description *string               `json:"description"`
	Status      *domain.ProjectStatus `json:"status"`
	Priority    *domain.Priority      `json:"priority"`
	StartDate   *time.Time            `json:"start_date"`
	EndDate     *time.Time            `json:"end_date"`
	ClearDates  bool                  `json:"clear_dates"`
	Tags        []string              `json:"tags"`
}

func (h *ProjectHandler) Update(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	var req updateProjectRequest
	if !h.decodeBody(ctx, &req) {
		return
	}
	updated, err := h.projects.Update(reqCtx, userID, pathParam(ctx, "id"), project.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		ClearDates:  req.ClearDates,
		Tags:        req.Tags,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

func (h *ProjectHandler) Delete(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	if err := h.projects.Delete(reqCtx, userID, pathParam(ctx, "id")); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"message": "project deleted"})
}
