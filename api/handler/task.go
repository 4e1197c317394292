package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/ayush17112005/TaskWiseAI/api/transport"
	"github.com/ayush17112005/TaskWiseAI/domain"
	"github.com/ayush17112005/TaskWiseAI/pkg/httpcontext"
	"github.com/ayush17112005/TaskWiseAI/repository"
	"github.com/ayush17112005/TaskWiseAI/usecase/task"
)

type TaskHandler struct {
	baseHandler
	tasks *task.UseCase
}

func NewTaskHandler(uc *task.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		tasks:       uc,
	}
}

// taskView decorates a task with the computed overdue flag. The flag is never
// stored; it is evaluated against the clock on every read.
type taskView struct {
	domain.Task
	IsOverdue bool `json:"is_overdue"`
}

func newTaskView(t domain.Task, now time.Time) taskView {
	return taskView{Task: t, IsOverdue: t.IsOverdue(now)}
}

func taskViews(tasks []domain.Task) []taskView {
	now := time.Now()
	views := make([]taskView, 0, len(tasks))
	for i := range tasks {
		views = append(views, newTaskView(tasks[i], now))
	}
	return views
}

type createTaskRequest struct {
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	ProjectID      string            `json:"project_id"`
	AssignedTo     string            `json:"assigned_to"`
	Status         domain.TaskStatus `json:"status"`
	Priority       domain.Priority   `json:"priority"`
	Deadline       *time.Time        `json:"deadline"`
	EstimatedHours float64           `json:"estimated_hours"`
	Tags           []string          `json:"tags"`
	ParentID       string            `json:"parent_task"`
}

func (h *TaskHandler) Create(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	var req createTaskRequest
	if !h.decodeBody(ctx, &req) {
		return
	}
	created, err := h.tasks.Create(reqCtx, userID, task.CreateInput{
		Title:          req.Title,
		Description:    req.Description,
		ProjectID:      req.ProjectID,
		AssignedTo:     req.AssignedTo,
		Status:         req.Status,
		Priority:       req.Priority,
		Deadline:       req.Deadline,
		EstimatedHours: req.EstimatedHours,
		Tags:           req.Tags,
		ParentID:       req.ParentID,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, newTaskView(*created, time.Now()))
}

func (h *TaskHandler) List(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	limit, offset := pagination(ctx)
	in := task.ListInput{
		ProjectID:  queryString(ctx, "project_id"),
		AssigneeID: queryString(ctx, "assigned_to"),
		Status:     domain.TaskStatus(queryString(ctx, "status")),
		Priority:   domain.Priority(queryString(ctx, "priority")),
		Overdue:    queryBool(ctx, "overdue"),
		Search:     queryString(ctx, "search"),
		Sort:       repository.TaskSort(queryString(ctx, "sort")),
		Limit:      limit,
		Offset:     offset,
	}
	if tags := queryString(ctx, "tags"); tags != "" {
		in.Tags = strings.Split(tags, ",")
	}
	tasks, total, err := h.tasks.List(reqCtx, userID, in)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(taskViews(tasks), transport.ListMeta(total, limit, offset)))
}

func (h *TaskHandler) Get(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	found, subtasks, err := h.tasks.Get(reqCtx, userID, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"task":     newTaskView(*found, time.Now()),
		"subtasks": taskViews(subtasks),
	})
}

func (h *TaskHandler) MyAssigned(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	limit, offset := pagination(ctx)
	tasks, total, err := h.tasks.MyAssigned(reqCtx, userID, domain.TaskStatus(queryString(ctx, "status")), limit, offset)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(taskViews(tasks), transport.ListMeta(total, limit, offset)))
}

func (h *TaskHandler) MyCreated(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	limit, offset := pagination(ctx)
	tasks, total, err := h.tasks.MyCreated(reqCtx, userID, domain.TaskStatus(queryString(ctx, "status")), limit, offset)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(taskViews(tasks), transport.ListMeta(total, limit, offset)))
}

type updateTaskRequest struct {
	Title          *string            `json:"title"`
	Description    *string            `json:"description"`
	AssignedTo     *string            `json:"assigned_to"`
	Status         *domain.TaskStatus `json:"status"`
	Priority       *domain.Priority   `json:"priority"`
	Deadline       *time.Time         `json:"deadline"`
	ClearDeadline  bool               `json:"clear_deadline"`
	EstimatedHours *float64           `json:"estimated_hours"`
	ActualHours    *float64           `json:"actual_hours"`
	Tags           []string           `json:"tags"`
}

func (h *TaskHandler) Update(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	var req updateTaskRequest
	if !h.decodeBody(ctx, &req) {
		return
	}
	updated, err := h.tasks.Update(reqCtx, userID, pathParam(ctx, "id"), task.UpdateInput{
		Title:          req.Title,
		Description:    req.Description,
		AssignedTo:     req.AssignedTo,
		Status:         req.Status,
		Priority:       req.Priority,
		Deadline:       req.Deadline,
		ClearDeadline:  req.ClearDeadline,
		EstimatedHours: req.EstimatedHours,
		ActualHours:    req.ActualHours,
		Tags:           req.Tags,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, newTaskView(*updated, time.Now()))
}

func (h *TaskHandler) Delete(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	if err := h.tasks.Delete(reqCtx, userID, pathParam(ctx, "id")); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"message": "task deleted"})
}

type addCommentRequest struct {
	Content string `json:"content"`
}

func (h *TaskHandler) AddComment(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	var req addCommentRequest
	if !h.decodeBody(ctx, &req) {
		return
	}
	updated, err := h.tasks.AddComment(reqCtx, userID, pathParam(ctx, "id"), req.Content)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, newTaskView(*updated, time.Now()))
}

type dependencyRequest struct {
	DependencyID string `json:"dependency_id"`
}

func (h *TaskHandler) AddDependency(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	var req dependencyRequest
	if !h.decodeBody(ctx, &req) {
		return
	}
	updated, err := h.tasks.AddDependency(reqCtx, userID, pathParam(ctx, "id"), req.DependencyID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, newTaskView(*updated, time.Now()))
}

func (h *TaskHandler) RemoveDependency(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	updated, err := h.tasks.RemoveDependency(reqCtx, userID, pathParam(ctx, "id"), pathParam(ctx, "depId"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, newTaskView(*updated, time.Now()))
}
