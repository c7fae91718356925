package board

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kanbanColumns = []string{"To Do", "In Progress", "Review", "Done"}

func TestLocateColumn_Basic(t *testing.T) {
	text := "To Do (2) Implement auth Fix bug In Progress (1) Design updates Done (0)"

	col, err := LocateColumn(text, "Fix bug", kanbanColumns)
	require.NoError(t, err)
	assert.Equal(t, "To Do", col)

	col, err = LocateColumn(text, "Design updates", kanbanColumns)
	require.NoError(t, err)
	assert.Equal(t, "In Progress", col)

	col, err = LocateColumn(text, "Implement auth", kanbanColumns)
	require.NoError(t, err)
	assert.Equal(t, "To Do", col)
}

func TestLocateColumn_NotFound(t *testing.T) {
	text := "To Do (2) Implement auth Fix bug In Progress (1) Design updates Done (0)"

	col, err := LocateColumn(text, "Missing task", kanbanColumns)
	require.Error(t, err)
	assert.Empty(t, col)

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Missing task", nf.Task)
	assert.Contains(t, err.Error(), "Missing task")
}

func TestLocateColumn_TaskBeforeAnyColumn(t *testing.T) {
	// Text before the first marker belongs to no column span.
	text := "Orphan task To Do (1) Real task Done (0)"

	_, err := LocateColumn(text, "Orphan task", kanbanColumns)
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
}

func TestLocateColumn_MissingHeaderExcluded(t *testing.T) {
	// "Review" header is absent; its tasks were never rendered. The span of
	// "In Progress" must extend all the way to the "Done" marker.
	text := "To Do (0) In Progress (2) Fix login Polish UI Done (1) Ship it"

	col, err := LocateColumn(text, "Polish UI", kanbanColumns)
	require.NoError(t, err)
	assert.Equal(t, "In Progress", col)

	col, err = LocateColumn(text, "Ship it", kanbanColumns)
	require.NoError(t, err)
	assert.Equal(t, "Done", col)
}

func TestLocateColumn_DocumentOrderDiffersFromFixedOrder(t *testing.T) {
	// "Done" renders before "To Do" in raw text. The end boundary is the
	// nearest marker strictly after a column's own start, so earlier columns
	// in the fixed order still get correct spans.
	text := "Done (1) Shipped thing To Do (1) Fresh thing"

	col, err := LocateColumn(text, "Shipped thing", kanbanColumns)
	require.NoError(t, err)
	assert.Equal(t, "Done", col)

	col, err = LocateColumn(text, "Fresh thing", kanbanColumns)
	require.NoError(t, err)
	assert.Equal(t, "To Do", col)
}

func TestLocateColumn_BoundaryAdjacentToNextMarker(t *testing.T) {
	// Task name ends immediately before the next column's marker. It is
	// attributed to the span containing its start index.
	text := "To Do (1) Edge taskIn Progress (0) Done (0)"

	col, err := LocateColumn(text, "Edge task", kanbanColumns)
	require.NoError(t, err)
	assert.Equal(t, "To Do", col)
}

func TestLocateColumn_FixedOrderWinsOnDuplicates(t *testing.T) {
	// The same task text appears in two spans; fixed column order decides
	// which span is searched first, not document order.
	text := "Review (1) Dup task To Do (1) Dup task Done (0)"

	col, err := LocateColumn(text, "Dup task", kanbanColumns)
	require.NoError(t, err)
	assert.Equal(t, "To Do", col)
}

func TestLocateColumn_SubstringMatchIsAccepted(t *testing.T) {
	// "Fix" is a substring of "Fix bug"; the heuristic does not do whole-word
	// matching and this false positive is accepted behavior.
	text := "To Do (1) Fix bug Done (0)"

	col, err := LocateColumn(text, "Fix", kanbanColumns)
	require.NoError(t, err)
	assert.Equal(t, "To Do", col)
}

func TestLocateColumn_CaseSensitive(t *testing.T) {
	text := "To Do (1) Fix bug Done (0)"

	_, err := LocateColumn(text, "fix bug", kanbanColumns)
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
}

func TestLocateColumn_HeaderPatternRequired(t *testing.T) {
	// A bare column name without the " (" suffix is not a header marker.
	text := "To Do Fix bug Done (1) Other"

	_, err := LocateColumn(text, "Fix bug", kanbanColumns)
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
}

func TestLocateColumn_Idempotent(t *testing.T) {
	text := "To Do (2) Implement auth In Progress (1) Design updates Done (0)"

	first, err1 := LocateColumn(text, "Design updates", kanbanColumns)
	second, err2 := LocateColumn(text, "Design updates", kanbanColumns)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
}

func TestLocateTags_Basic(t *testing.T) {
	candidates := []string{"Feature", "Bug", "Design", "High Priority"}
	text := "To Do (1) Implement auth Feature Bug Done (0)"

	tags := LocateTags(text, candidates)

	want := []string{"Bug", "Feature"}
	if diff := cmp.Diff(want, tags.Sorted()); diff != "" {
		t.Errorf("tag set mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, tags.Has("Feature"))
	assert.False(t, tags.Has("Design"))
}

func TestLocateTags_SubsetAndMonotonic(t *testing.T) {
	candidates := []string{"Feature", "Bug", "Design"}
	base := "To Do (1) Something Feature"

	tags := LocateTags(base, candidates)
	for tag := range tags {
		assert.Contains(t, candidates, tag, "result must be a subset of candidates")
	}

	// Adding more literal occurrences never removes a tag.
	grown := LocateTags(base+" Bug Feature", candidates)
	for tag := range tags {
		assert.True(t, grown.Has(tag))
	}
	assert.True(t, grown.Has("Bug"))
}

func TestLocateTags_EmptyInputs(t *testing.T) {
	assert.Empty(t, LocateTags("", []string{"Feature"}))
	assert.Empty(t, LocateTags("Feature everywhere", nil))
}

func TestTagSet_Missing(t *testing.T) {
	tags := LocateTags("Feature Bug", []string{"Feature", "Bug", "Design", "High Priority"})

	missing := tags.Missing([]string{"Feature", "Design", "High Priority"})
	assert.Equal(t, []string{"Design", "High Priority"}, missing)
	assert.Nil(t, tags.Missing([]string{"Feature", "Bug"}))
}

func TestLocateColumn_LongBoard(t *testing.T) {
	// A fuller board snapshot resembling real rendered text.
	var sb strings.Builder
	sb.WriteString("Projects Web Application Mobile Application ")
	sb.WriteString("To Do (2) Implement user authentication Feature High Priority ")
	sb.WriteString("Fix navigation bug Bug ")
	sb.WriteString("In Progress (1) Design system updates Design ")
	sb.WriteString("Review (0) ")
	sb.WriteString("Done (1) Setup CI pipeline Feature")
	text := sb.String()

	for task, want := range map[string]string{
		"Implement user authentication": "To Do",
		"Fix navigation bug":            "To Do",
		"Design system updates":         "In Progress",
		"Setup CI pipeline":             "Done",
	} {
		col, err := LocateColumn(text, task, kanbanColumns)
		require.NoError(t, err, "task %q", task)
		assert.Equal(t, want, col, "task %q", task)
	}
}
