package dto

import dom "github.com/seowalex/cvwo/internal/domain"

// TaskType is the JSON:API resource type of tasks.
const TaskType = "tasks"

type TaskAttributes struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	Priority    *int      `json:"priority"`
	Position    int       `json:"position"`
	DueDate     *dom.Date `json:"due_date"`
	TagList     []string  `json:"tag_list"`
}

type TaskResource struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Attributes TaskAttributes `json:"attributes"`
	Links      Links          `json:"links"`
}

type TaskDocument struct {
	Data TaskResource `json:"data"`
}

type TaskListDocument struct {
	Data []TaskResource `json:"data"`
	Meta ListMeta       `json:"meta"`
}

// CreateTaskDocument is the body of POST /tasks.
type CreateTaskDocument struct {
	Data *CreateTaskData `json:"data" binding:"required"`
}

type CreateTaskData struct {
	Type       string               `json:"type" binding:"required"`
	Attributes CreateTaskAttributes `json:"attributes"`
}

type CreateTaskAttributes struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	Priority    *int      `json:"priority"`
	Position    *int      `json:"position"`
	DueDate     *dom.Date `json:"due_date"` // "2026-02-19" or RFC3339
	TagList     []string  `json:"tag_list"`
}

// UpdateTaskDocument is the body of PATCH /tasks/{id}. Absent attributes
// are left alone; null clears nullable ones.
type UpdateTaskDocument struct {
	Data *UpdateTaskData `json:"data" binding:"required"`
}

type UpdateTaskData struct {
	Type       string               `json:"type" binding:"required"`
	ID         string               `json:"id"`
	Attributes UpdateTaskAttributes `json:"attributes"`
}

type UpdateTaskAttributes struct {
	Title       dom.Optional[string]   `json:"title"`
	Description dom.Optional[string]   `json:"description"`
	Completed   dom.Optional[bool]     `json:"completed"`
	Priority    dom.Optional[int]      `json:"priority"`
	Position    dom.Optional[int]      `json:"position"`
	DueDate     dom.Optional[dom.Date] `json:"due_date"`
	TagList     dom.Optional[[]string] `json:"tag_list"`
}

func (a CreateTaskAttributes) ToDomain() dom.NewTask {
	return dom.NewTask{
		Title:       a.Title,
		Description: a.Description,
		Completed:   a.Completed,
		Priority:    a.Priority,
		Position:    a.Position,
		DueDate:     a.DueDate,
		TagList:     a.TagList,
	}
}

func (a UpdateTaskAttributes) ToDomain() dom.TaskPatch {
	return dom.TaskPatch(a)
}
