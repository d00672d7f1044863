package api

// Task describes one submission to collect from every submission directory.
type Task struct {
	Name string `toml:"name" json:"name"`
	// Lang is "jar", "zip", "java" or any other tag. Only languages with a
	// configured command are executed.
	Lang string `toml:"lang" json:"lang"`
	// File is the artifact location, relative to the submission directory or
	// an S3 https URL. Defaults to Name.
	File string `toml:"file,omitempty" json:"file,omitempty"`

	Inputs []Input `toml:"inputs,omitempty" json:"inputs,omitempty"`
	Args   []Arg   `toml:"args,omitempty" json:"args,omitempty"`
}

// Input is the stdin content of one test case.
type Input struct {
	Input string `toml:"input" json:"input"`
}

// Arg is one argument-list variant.
type Arg struct {
	Arg []string `toml:"arg" json:"arg"`
}

// Location returns the artifact location of the task.
func (t Task) Location() string {
	if t.File != "" {
		return t.File
	}
	return t.Name
}

// InputStrings returns the configured inputs, or a single empty input.
func (t Task) InputStrings() []string {
	if len(t.Inputs) == 0 {
		return []string{""}
	}
	res := make([]string, len(t.Inputs))
	for i, in := range t.Inputs {
		res[i] = in.Input
	}
	return res
}

// ArgLists returns the configured argument lists, or a single empty list.
func (t Task) ArgLists() [][]string {
	if len(t.Args) == 0 {
		return [][]string{{}}
	}
	res := make([][]string, len(t.Args))
	for i, a := range t.Args {
		if a.Arg == nil {
			res[i] = []string{}
			continue
		}
		res[i] = a.Arg
	}
	return res
}
