// Package answer extracts and executes a single submission for one task.
package answer

import (
	"fmt"
	"strings"

	"github.com/programme-lv/answers/api"
)

// Task languages with special handling.
const (
	LangJar  = "jar"
	LangZip  = "zip"
	LangJava = "java"
)

// IsArchive reports whether lang denotes a zip container.
func IsArchive(lang string) bool {
	return lang == LangJar || lang == LangZip
}

// Answer is the state of processing one task for one submission.
type Answer struct {
	FilePath   string
	CodeText   string
	ResultText string

	TaskName string
	TaskLang string
	Inputs   []string
	Args     [][]string

	// FileList starts with the task name, followed by extracted archive members.
	FileList []string
	Cases    []Case
}

// Case is one executed (argument list, input) pair.
type Case struct {
	Args   []string
	Input  string
	Output string
	Err    error
}

func New(filePath string, task api.Task) *Answer {
	return &Answer{
		FilePath: filePath,
		TaskName: task.Name,
		TaskLang: strings.ToLower(task.Lang),
		Inputs:   task.InputStrings(),
		Args:     task.ArgLists(),
		FileList: []string{task.Name},
	}
}

// MarkOpenError replaces the code text with the manual-check placeholder.
func (a *Answer) MarkOpenError(err error) *OpenError {
	a.CodeText = strings.TrimSpace(fmt.Sprintf(openErrorFmt, a.FilePath))
	return &OpenError{Path: a.FilePath, Err: err}
}

func (a *Answer) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "FilePath = %q\n", a.FilePath)
	fmt.Fprintf(&sb, "CodeText = %q\n", a.CodeText)
	fmt.Fprintf(&sb, "ResultText = %q\n", a.ResultText)
	fmt.Fprintf(&sb, "TaskName = %q\n", a.TaskName)
	fmt.Fprintf(&sb, "TaskLang = %q\n", a.TaskLang)
	fmt.Fprintf(&sb, "Inputs = %q\n", a.Inputs)
	fmt.Fprintf(&sb, "Args = %q\n", a.Args)
	fmt.Fprintf(&sb, "FileList = %q\n", a.FileList)
	return sb.String()
}
