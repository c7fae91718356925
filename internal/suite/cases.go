// Package suite executes JSON-driven board verification cases against a live
// application and reports per-case verdicts.
package suite

import (
	"encoding/json"
	"fmt"
	"os"
)

// Case is one verification: a task expected in a column with a set of tags.
type Case struct {
	Name    string   `json:"name"`
	Project string   `json:"project"`
	Task    string   `json:"task"`
	Column  string   `json:"column"`
	Tags    []string `json:"tags"`
}

// File is the on-disk test-data format. Columns is the fixed ordered column
// vocabulary of the board; Tags is the candidate tag vocabulary.
type File struct {
	Columns []string `json:"columns"`
	Tags    []string `json:"tags"`
	Cases   []Case   `json:"cases"`
}

// LoadCases reads and validates a cases file.
func LoadCases(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cases file: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse cases file: %w", err)
	}

	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("invalid cases file %s: %w", path, err)
	}
	return &f, nil
}

func (f *File) validate() error {
	if len(f.Columns) == 0 {
		return fmt.Errorf("columns vocabulary is empty")
	}
	if len(f.Cases) == 0 {
		return fmt.Errorf("no cases defined")
	}

	columns := make(map[string]bool, len(f.Columns))
	for _, c := range f.Columns {
		columns[c] = true
	}
	tags := make(map[string]bool, len(f.Tags))
	for _, tag := range f.Tags {
		tags[tag] = true
	}

	for i, c := range f.Cases {
		if c.Name == "" {
			return fmt.Errorf("case %d: name is required", i)
		}
		if c.Project == "" {
			return fmt.Errorf("case %q: project is required", c.Name)
		}
		if c.Task == "" {
			return fmt.Errorf("case %q: task is required", c.Name)
		}
		if !columns[c.Column] {
			return fmt.Errorf("case %q: column %q is not in the column vocabulary %v", c.Name, c.Column, f.Columns)
		}
		for _, tag := range c.Tags {
			if !tags[tag] {
				return fmt.Errorf("case %q: tag %q is not in the tag vocabulary %v", c.Name, tag, f.Tags)
			}
		}
	}
	return nil
}
