package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptional_AbsentNullValue(t *testing.T) {
	var doc struct {
		Absent Optional[int] `json:"absent"`
		Null   Optional[int] `json:"null"`
		Value  Optional[int] `json:"value"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"null":null,"value":3}`), &doc))

	assert.False(t, doc.Absent.Set)
	assert.True(t, doc.Null.Set)
	assert.Nil(t, doc.Null.Value)
	assert.True(t, doc.Value.Set)
	require.NotNil(t, doc.Value.Value)
	assert.Equal(t, 3, *doc.Value.Value)

	var bad struct {
		P Optional[int] `json:"p"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"p":"high"}`), &bad))
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2026-03-09")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-09", d.String())

	d2, err := ParseDate("2026-03-09T23:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 0, d.Compare(d2))
	assert.Equal(t, -1, d.Compare(NewDate(2026, time.March, 10)))

	_, err = ParseDate("09/03/2026")
	assert.Error(t, err)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `"2026-03-09"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, d, back)
	for _, raw := range []string{`20260309`, `"tomorrow"`} {
		var typeErr *json.UnmarshalTypeError
		require.ErrorAs(t, json.Unmarshal([]byte(raw), &back), &typeErr, raw)
		assert.True(t, IsDateType(typeErr.Type))
	}

	var doc struct {
		Attributes struct {
			DueDate Optional[Date] `json:"due_date"`
		} `json:"attributes"`
	}
	var typeErr *json.UnmarshalTypeError
	require.ErrorAs(t, json.Unmarshal([]byte(`{"attributes":{"due_date":"soon"}}`), &doc), &typeErr)
	assert.Equal(t, "attributes.due_date", typeErr.Field)

	assert.Nil(t, DatePtr(nil))
	assert.Nil(t, (*Date)(nil).TimePtr())
	assert.Equal(t, d, *DatePtr(d.TimePtr()))
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"a", "B", "b"}, NormalizeTags([]string{" a", "B", "", "a", "b ", "  "}))
	assert.NotNil(t, NormalizeTags(nil))
	assert.Empty(t, NormalizeTags(nil))
}

func TestTask_HasTags(t *testing.T) {
	task := Task{TagList: []string{"work", "urgent"}}
	assert.True(t, task.HasTags(nil))
	assert.True(t, task.HasTags([]string{"urgent"}))
	assert.True(t, task.HasTags([]string{"urgent", "work"}))
	assert.False(t, task.HasTags([]string{"Work"}))
	assert.False(t, task.HasTags([]string{"work", "home"}))
}

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var v *ValidationError
	require.True(t, errors.As(err, &v), "got %v", err)
	names := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		names[i] = f.Field
	}
	return names
}

func TestNewTask_Validate(t *testing.T) {
	five := 5
	assert.NoError(t, NewTask{Title: "ok", TagList: []string{" padded "}}.Validate())

	err := NewTask{Title: " ", Priority: &five, TagList: []string{"two words"}}.Validate()
	assert.Equal(t, []string{"title", "priority", "tag_list"}, fieldNames(t, err))
}

func TestTaskPatch_ValidateAndApply(t *testing.T) {
	two := 2
	due := NewDate(2026, time.May, 1)
	task := Task{
		ID: 1, OwnerID: 7, Title: "Draft", Description: "notes",
		Priority: &two, Position: 3, DueDate: &due, TagList: []string{"a"},
	}

	err := TaskPatch{Title: Null[string](), Completed: Null[bool](), Position: Null[int](), Priority: Some(4)}.Validate()
	assert.Equal(t, []string{"title", "completed", "position", "priority"}, fieldNames(t, err))

	p := TaskPatch{
		Description: Null[string](),
		Priority:    Null[int](),
		DueDate:     Null[Date](),
		TagList:     Some([]string{"b", "b", " c"}),
		Completed:   Some(true),
	}
	require.NoError(t, p.Validate())
	got := p.Apply(task)

	assert.Equal(t, "Draft", got.Title)
	assert.Empty(t, got.Description)
	assert.Nil(t, got.Priority)
	assert.Nil(t, got.DueDate)
	assert.True(t, got.Completed)
	assert.Equal(t, 3, got.Position)
	assert.Equal(t, []string{"b", "c"}, got.TagList)
	assert.Equal(t, int64(7), got.OwnerID)
	assert.Equal(t, []string{"a"}, task.TagList, "original untouched")

	assert.Equal(t, task, TaskPatch{}.Apply(task))
}

func TestUserPatch_Apply(t *testing.T) {
	u := User{Name: "Alice", Settings: Settings{HideCompleted: true, Sort: "title"}}

	got := UserPatch{AddToBottom: Some(true), Sort: Null[string]()}.Apply(u)
	assert.Equal(t, "Alice", got.Name)
	assert.True(t, got.Settings.HideCompleted)
	assert.True(t, got.Settings.AddToBottom)
	assert.Empty(t, got.Settings.Sort)
}
