// Package board infers task placement on a rendered kanban board from a
// flattened visible-text snapshot. The heuristic works on text alone, with no
// DOM structure: column headers are located by their "<Name> (<count>)"
// markers and a task is attributed to the span between markers.
package board

import (
	"fmt"
	"sort"
	"strings"
)

// headerSuffix is the literal that follows a column name in a rendered
// header, e.g. "To Do (3)". The header format is part of the page contract.
const headerSuffix = " ("

// NotFoundError reports that a task name was not found inside any column
// span. Callers must treat it as a hard failure, not an empty result.
type NotFoundError struct {
	Task string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %q not found in any board column", e.Task)
}

// TagSet is a membership-only set of tag labels present on a board.
type TagSet map[string]struct{}

// Has reports whether the tag is in the set.
func (s TagSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Sorted returns the tags in lexical order for deterministic reporting.
func (s TagSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for tag := range s {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// Missing returns the expected tags absent from the set, in input order.
func (s TagSet) Missing(expected []string) []string {
	var missing []string
	for _, tag := range expected {
		if !s.Has(tag) {
			missing = append(missing, tag)
		}
	}
	return missing
}

// LocateColumn determines which column of the board the given task name is
// rendered under. columns is the fixed ordered vocabulary of column names;
// it is not discovered from the page.
//
// Each column's span starts at its header marker and ends at the nearest
// other column marker strictly after it (end of text if none follows).
// Columns are tried in their fixed enumerated order, not document order, and
// the first span containing taskName wins. Matching is case-sensitive exact
// substring, so a task name contained in another can produce a false match;
// that is an accepted limitation of the heuristic.
func LocateColumn(boardText, taskName string, columns []string) (string, error) {
	starts := make([]int, len(columns))
	for i, name := range columns {
		starts[i] = strings.Index(boardText, name+headerSuffix)
	}

	for i, name := range columns {
		start := starts[i]
		if start < 0 {
			// Header not rendered; column excluded from consideration.
			continue
		}
		end := len(boardText)
		for j, other := range starts {
			if j == i || other < 0 {
				continue
			}
			if other > start && other < end {
				end = other
			}
		}
		if strings.Contains(boardText[start:end], taskName) {
			return name, nil
		}
	}
	return "", &NotFoundError{Task: taskName}
}

// LocateTags reports which candidate tag labels occur verbatim anywhere in
// the board text. Detection is page-global, not task-scoped: two tasks with
// different tag sets on the same page are indistinguishable by this method
// alone. It never fails; an absent tag is simply excluded from the result.
func LocateTags(boardText string, candidates []string) TagSet {
	tags := make(TagSet, len(candidates))
	for _, tag := range candidates {
		if strings.Contains(boardText, tag) {
			tags[tag] = struct{}{}
		}
	}
	return tags
}
