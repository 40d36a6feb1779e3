package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Priority bounds: 1 is the most urgent.
const (
	PriorityHigh = 1
	PriorityLow  = 3
)

// Task is a to-do item owned by exactly one user. It carries no storage or
// transport concerns; repositories and DTOs convert to and from it.
type Task struct {
	ID          int64
	OwnerID     int64
	Title       string
	Description string
	Completed   bool
	Priority    *int
	Position    int
	DueDate     *Date
	TagList     []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasTags reports whether every tag in want is present on the task.
func (t Task) HasTags(want []string) bool {
	if len(want) == 0 {
		return true
	}
	have := make(map[string]struct{}, len(t.TagList))
	for _, tag := range t.TagList {
		have[tag] = struct{}{}
	}
	for _, tag := range want {
		if _, ok := have[tag]; !ok {
			return false
		}
	}
	return true
}

// NewTask carries the attributes accepted on create.
type NewTask struct {
	Title       string
	Description string
	Completed   bool
	Priority    *int
	Position    *int
	DueDate     *Date
	TagList     []string
}

// TaskPatch is a partial update. Only fields with Set are applied.
type TaskPatch struct {
	Title       Optional[string]
	Description Optional[string]
	Completed   Optional[bool]
	Priority    Optional[int]
	Position    Optional[int]
	DueDate     Optional[Date]
	TagList     Optional[[]string]
}

// Validate checks the attribute invariants of a create request.
func (n NewTask) Validate() error {
	var v ValidationError
	if strings.TrimSpace(n.Title) == "" {
		v.Add("title", "must not be blank")
	}
	if n.Priority != nil {
		if err := ValidatePriority(*n.Priority); err != nil {
			v.Add("priority", err.Error())
		}
	}
	if err := validateTags(n.TagList); err != nil {
		v.Add("tag_list", err.Error())
	}
	return v.OrNil()
}

// Validate checks the attribute invariants of a patch.
func (p TaskPatch) Validate() error {
	var v ValidationError
	if p.Title.Set && (p.Title.Value == nil || strings.TrimSpace(*p.Title.Value) == "") {
		v.Add("title", "must not be blank")
	}
	if p.Completed.Set && p.Completed.Value == nil {
		v.Add("completed", "must not be null")
	}
	if p.Position.Set && p.Position.Value == nil {
		v.Add("position", "must not be null")
	}
	if p.Priority.Set && p.Priority.Value != nil {
		if err := ValidatePriority(*p.Priority.Value); err != nil {
			v.Add("priority", err.Error())
		}
	}
	if p.TagList.Set && p.TagList.Value != nil {
		if err := validateTags(*p.TagList.Value); err != nil {
			v.Add("tag_list", err.Error())
		}
	}
	return v.OrNil()
}

// Apply returns a copy of t with the patch applied. The patch must be valid.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title.Set {
		t.Title = strings.TrimSpace(*p.Title.Value)
	}
	if p.Description.Set {
		t.Description = ""
		if p.Description.Value != nil {
			t.Description = strings.TrimSpace(*p.Description.Value)
		}
	}
	if p.Completed.Set {
		t.Completed = *p.Completed.Value
	}
	if p.Priority.Set {
		t.Priority = p.Priority.Value
	}
	if p.Position.Set {
		t.Position = *p.Position.Value
	}
	if p.DueDate.Set {
		t.DueDate = p.DueDate.Value
	}
	if p.TagList.Set {
		t.TagList = nil
		if p.TagList.Value != nil {
			t.TagList = NormalizeTags(*p.TagList.Value)
		}
	}
	return t
}

// ValidatePriority rejects anything outside 1..3.
func ValidatePriority(p int) error {
	if p < PriorityHigh || p > PriorityLow {
		return fmt.Errorf("must be one of 1, 2 or 3, got %d", p)
	}
	return nil
}

func validateTags(tags []string) error {
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if strings.IndexFunc(tag, unicode.IsSpace) >= 0 {
			return fmt.Errorf("tag %q must not contain whitespace", tag)
		}
	}
	return nil
}

// NormalizeTags trims tags, drops empty ones and collapses duplicates,
// keeping the first occurrence order. The result is never nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
