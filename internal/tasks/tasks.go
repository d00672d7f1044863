// Package tasks reads the task file that describes what to collect from
// each submission.
package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/programme-lv/answers/api"
)

// specRoot maps to [[tasks]] entries in TOML, or {"tasks": [...]} in JSON.
type specRoot struct {
	Tasks []api.Task `toml:"tasks" json:"tasks"`
}

// Parse reads a task file. Files ending in .json are read as JSON, anything
// else as TOML.
func Parse(path string) ([]api.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read task file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(data)
	}
	return ParseTOML(data)
}

func ParseTOML(data []byte) ([]api.Task, error) {
	var root specRoot
	if err := toml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	return normalize(root.Tasks)
}

// ParseJSON accepts either {"tasks": [...]} or a bare array of tasks.
func ParseJSON(data []byte) ([]api.Task, error) {
	var list []api.Task
	if err := json.Unmarshal(data, &list); err == nil {
		return normalize(list)
	}
	var root specRoot
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return normalize(root.Tasks)
}

func normalize(list []api.Task) ([]api.Task, error) {
	if len(list) == 0 {
		return nil, errors.New("task file has no tasks")
	}

	seen := mapset.NewThreadUnsafeSet[string]()
	res := make([]api.Task, 0, len(list))
	for i, t := range list {
		t.Name = strings.TrimSpace(t.Name)
		if t.Name == "" {
			return nil, fmt.Errorf("task #%d has no name", i+1)
		}
		if !seen.Add(t.Name) {
			return nil, fmt.Errorf("duplicate task name %q", t.Name)
		}
		t.Lang = strings.ToLower(strings.TrimSpace(t.Lang))

		if len(t.Inputs) == 0 {
			t.Inputs = []api.Input{{Input: ""}}
		}
		if len(t.Args) == 0 {
			t.Args = []api.Arg{{Arg: []string{}}}
		}
		for j := range t.Args {
			if t.Args[j].Arg == nil {
				t.Args[j].Arg = []string{}
			}
		}
		res = append(res, t)
	}
	return res, nil
}
