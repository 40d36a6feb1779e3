package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	dom "github.com/seowalex/cvwo/internal/domain"
	"github.com/seowalex/cvwo/internal/dto"
	"github.com/seowalex/cvwo/internal/query"
	"github.com/seowalex/cvwo/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	paramCompleted = "filter[completed]"
	paramSearch    = "filter[search]"
	paramSort      = "sort"
)

type TaskHandler struct {
	svc      *service.TaskService
	log      *slog.Logger
	basePath string
}

// NewTaskHandler returns a handler whose resource links are rooted at basePath.
func NewTaskHandler(svc *service.TaskService, log *slog.Logger, basePath string) *TaskHandler {
	return &TaskHandler{svc: svc, log: log, basePath: basePath}
}

// List godoc
// @Summary      List the caller's tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        filter[completed]  query     bool    false  "Only completed (true) or open (false) tasks"
// @Param        filter[search]     query     string  false  "Title substring; #tag tokens require tags"
// @Param        sort               query     string  false  "title, priority, due_date; prefix - for descending"
// @Success      200  {object}  dto.TaskListDocument
// @Failure      400  {object}  dto.ErrorDocument
// @Failure      401  {object}  dto.ErrorDocument
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	params, err := parseListParams(c)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	list, err := h.svc.List(c.Request.Context(), identity(c).UserID, params)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	data := make([]dto.TaskResource, len(list))
	for i := range list {
		data[i] = h.resource(list[i])
	}
	writeDocument(c, http.StatusOK, dto.TaskListDocument{Data: data, Meta: dto.ListMeta{Count: len(data)}})
}

func parseListParams(c *gin.Context) (query.Params, error) {
	var p query.Params
	if raw, ok := c.GetQuery(paramCompleted); ok {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return p, dom.NewParameterError(paramCompleted, "must be true or false")
		}
		p.Completed = &v
	}
	p.Search = c.Query(paramSearch)
	fields, err := query.ParseSort(paramSort, c.Query(paramSort))
	if err != nil {
		return p, err
	}
	p.Sort = fields
	return p, nil
}

// GetByID godoc
// @Summary      Get one of the caller's tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  dto.TaskDocument
// @Failure      401  {object}  dto.ErrorDocument
// @Failure      404  {object}  dto.ErrorDocument
// @Router       /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		writeError(c, h.log, service.ErrNotFound)
		return
	}
	t, err := h.svc.Get(c.Request.Context(), identity(c).UserID, id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	writeDocument(c, http.StatusOK, dto.TaskDocument{Data: h.resource(t)})
}

// Create godoc
// @Summary      Create a task owned by the caller
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreateTaskDocument  true  "Task document"
// @Success      201   {object}  dto.TaskDocument
// @Failure      400   {object}  dto.ErrorDocument
// @Failure      401   {object}  dto.ErrorDocument
// @Failure      409   {object}  dto.ErrorDocument
// @Failure      422   {object}  dto.ErrorDocument
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskDocument
	if err := bindDocument(c, &req); err != nil {
		writeError(c, h.log, err)
		return
	}
	if err := checkResource(req.Data.Type, dto.TaskType, "", ""); err != nil {
		writeError(c, h.log, err)
		return
	}
	t, err := h.svc.Create(c.Request.Context(), identity(c).UserID, req.Data.Attributes.ToDomain())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	res := h.resource(t)
	c.Header("Location", res.Links.Self)
	writeDocument(c, http.StatusCreated, dto.TaskDocument{Data: res})
}

// Update godoc
// @Summary      Partially update one of the caller's tasks
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "Task ID"
// @Param        body  body      dto.UpdateTaskDocument  true  "Partial task document"
// @Success      200   {object}  dto.TaskDocument
// @Failure      400   {object}  dto.ErrorDocument
// @Failure      401   {object}  dto.ErrorDocument
// @Failure      404   {object}  dto.ErrorDocument
// @Failure      409   {object}  dto.ErrorDocument
// @Failure      422   {object}  dto.ErrorDocument
// @Router       /tasks/{id} [patch]
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		writeError(c, h.log, service.ErrNotFound)
		return
	}
	var req dto.UpdateTaskDocument
	if err := bindDocument(c, &req); err != nil {
		writeError(c, h.log, err)
		return
	}
	if err := checkResource(req.Data.Type, dto.TaskType, req.Data.ID, c.Param("id")); err != nil {
		writeError(c, h.log, err)
		return
	}
	t, err := h.svc.Update(c.Request.Context(), identity(c).UserID, id, req.Data.Attributes.ToDomain())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	writeDocument(c, http.StatusOK, dto.TaskDocument{Data: h.resource(t)})
}

// Delete godoc
// @Summary      Delete one of the caller's tasks
// @Tags         tasks
// @Security     BearerAuth
// @Param        id   path  string  true  "Task ID"
// @Success      204
// @Failure      401  {object}  dto.ErrorDocument
// @Failure      404  {object}  dto.ErrorDocument
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		writeError(c, h.log, service.ErrNotFound)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), identity(c).UserID, id); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) resource(t dom.Task) dto.TaskResource {
	id := strconv.FormatInt(t.ID, 10)
	tags := t.TagList
	if tags == nil {
		tags = []string{}
	}
	return dto.TaskResource{
		ID:   id,
		Type: dto.TaskType,
		Attributes: dto.TaskAttributes{
			Title:       t.Title,
			Description: t.Description,
			Completed:   t.Completed,
			Priority:    t.Priority,
			Position:    t.Position,
			DueDate:     t.DueDate,
			TagList:     tags,
		},
		Links: dto.Links{Self: h.basePath + "/tasks/" + id},
	}
}
