package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dom "github.com/seowalex/cvwo/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func ids(tasks []dom.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func lovecraft() []dom.Task {
	a := dom.NewDate(2024, time.January, 1)
	b := dom.NewDate(2023, time.January, 1)
	return []dom.Task{
		{ID: 1, Title: "Call of Cthulhu", TagList: []string{"horror"}, Position: 2, DueDate: &a},
		{ID: 2, Title: "Dreams", TagList: []string{"horror", "mythos"}, Completed: true, Position: 1, DueDate: &b},
	}
}

func TestParseSort(t *testing.T) {
	fields, err := ParseSort("sort", "-priority, title,due_date")
	require.NoError(t, err)
	assert.Equal(t, []SortField{
		{Key: SortPriority, Desc: true},
		{Key: SortTitle},
		{Key: SortDueDate},
	}, fields)
	assert.Equal(t, "-priority,title,due_date", FormatSort(fields))

	fields, err = ParseSort("sort", "  ")
	require.NoError(t, err)
	assert.Nil(t, fields)
}

func TestParseSort_UnknownKey(t *testing.T) {
	_, err := ParseSort("sort", "title,-position")
	require.Error(t, err)

	var verr *dom.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Parameter)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "sort", verr.Fields[0].Field)
	assert.Contains(t, verr.Fields[0].Message, `"position"`)
}

func TestApply_SearchScenario(t *testing.T) {
	got := Apply(lovecraft(), Params{Search: "cthulhu #horror"})
	assert.Equal(t, []int64{1}, ids(got))

	got = Apply(lovecraft(), Params{Search: "#mythos"})
	assert.Equal(t, []int64{2}, ids(got))

	got = Apply(lovecraft(), Params{Search: "#horror"})
	assert.Equal(t, []int64{2, 1}, ids(got), "unsorted results follow position")
}

func TestApply_CompletedFilter(t *testing.T) {
	assert.Equal(t, []int64{1}, ids(Apply(lovecraft(), Params{Completed: ptr(false)})))
	assert.Equal(t, []int64{2}, ids(Apply(lovecraft(), Params{Completed: ptr(true)})))
}

func TestApply_SortKeepsIncompleteFirst(t *testing.T) {
	for _, key := range []SortKey{SortTitle, SortPriority, SortDueDate} {
		for _, desc := range []bool{false, true} {
			got := Apply(lovecraft(), Params{Sort: []SortField{{Key: key, Desc: desc}}})
			assert.Equal(t, []int64{1, 2}, ids(got), "key=%s desc=%v", key, desc)
		}
	}
}

func TestApply_SortWithinGroup(t *testing.T) {
	d1 := dom.NewDate(2024, time.March, 1)
	d2 := dom.NewDate(2024, time.April, 1)
	tasks := []dom.Task{
		{ID: 1, Title: "banana", Priority: ptr(2), DueDate: &d2, Position: 1},
		{ID: 2, Title: "Apple", Priority: nil, DueDate: nil, Position: 2},
		{ID: 3, Title: "cherry", Priority: ptr(1), DueDate: &d1, Position: 3},
		{ID: 4, Title: "aardvark", Priority: ptr(3), Completed: true, Position: 4},
	}

	tests := []struct {
		sort string
		want []int64
	}{
		{"title", []int64{2, 1, 3, 4}},
		{"-title", []int64{3, 1, 2, 4}},
		{"priority", []int64{3, 1, 2, 4}},
		{"-priority", []int64{2, 1, 3, 4}},
		{"due_date", []int64{3, 1, 2, 4}},
		{"-due_date", []int64{2, 1, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.sort, func(t *testing.T) {
			fields, err := ParseSort("sort", tt.sort)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(Apply(tasks, Params{Sort: fields})))
		})
	}
}

func TestApply_MultiKeySort(t *testing.T) {
	tasks := []dom.Task{
		{ID: 1, Title: "b", Priority: ptr(1), Position: 1},
		{ID: 2, Title: "a", Priority: ptr(2), Position: 2},
		{ID: 3, Title: "a", Priority: ptr(1), Position: 3},
	}
	fields, err := ParseSort("sort", "title,-priority")
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 1}, ids(Apply(tasks, Params{Sort: fields})))
}

func TestApply_DueDateScenario(t *testing.T) {
	got := Apply(lovecraft(), Params{Sort: []SortField{{Key: SortDueDate}}})
	assert.Equal(t, []int64{1, 2}, ids(got))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	tasks := lovecraft()
	_ = Apply(tasks, Params{Sort: []SortField{{Key: SortTitle, Desc: true}}})
	assert.Equal(t, []int64{1, 2}, ids(tasks))

	got := Apply(tasks, Params{})
	got[0].Title = "changed"
	assert.Equal(t, "Call of Cthulhu", tasks[0].Title)
}

func TestApply_ReplacedTagsAreSearchable(t *testing.T) {
	task := dom.Task{ID: 7, Title: "Refile"}
	patch := dom.TaskPatch{TagList: dom.Some([]string{"home", "errand", "weekly"})}
	task = patch.Apply(task)

	for _, search := range []string{"#home", "#errand #weekly", "#weekly #home #errand"} {
		assert.Len(t, Apply([]dom.Task{task}, Params{Search: search}), 1, search)
	}
	assert.Empty(t, Apply([]dom.Task{task}, Params{Search: "#work"}))
}
