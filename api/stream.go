package api

import "time"

// MsgType is a message type for streamed batch events
type MsgType string

const (
	StartBatchMsg    MsgType = "batch_start"
	StartTaskMsg     MsgType = "task_start"
	FinishExtractMsg MsgType = "extract_finish"
	FinishCaseMsg    MsgType = "case_finish"
	FinishTaskMsg    MsgType = "task_finish"
	FinishBatchMsg   MsgType = "batch_finish"
)

// Size constraints for streamed text fields
const (
	MaxTextHeight = 40
	MaxTextWidth  = 120
)

// Header is the common header for all streamed messages
type Header struct {
	RunID   string  `json:"run_id"`
	MsgType MsgType `json:"msg_type"`
}

type StartBatch struct {
	Header
	Submissions int    `json:"submissions"`
	Tasks       int    `json:"tasks"`
	StartedTime string `json:"started_time"`
}

type StartTask struct {
	Header
	Submission string `json:"submission"`
	Task       string `json:"task"`
	Lang       string `json:"lang"`
}

type FinishExtract struct {
	Header
	Submission string   `json:"submission"`
	Task       string   `json:"task"`
	Files      []string `json:"files"`
	Code       string   `json:"code"`
	Error      *string  `json:"error"`
}

type FinishCase struct {
	Header
	Submission string   `json:"submission"`
	Task       string   `json:"task"`
	CaseIdx    int      `json:"case_idx"`
	Args       []string `json:"args"`
	Input      string   `json:"input"`
	Output     string   `json:"output"`
	Error      *string  `json:"error"`
}

type FinishTask struct {
	Header
	Submission string  `json:"submission"`
	Task       string  `json:"task"`
	Report     string  `json:"report"`
	Error      *string `json:"error"`
}

type FinishBatch struct {
	Header
	Summary BatchSummary `json:"summary"`
}

func NewStartBatch(runID string, submissions, tasks int) *StartBatch {
	return &StartBatch{
		Header:      Header{RunID: runID, MsgType: StartBatchMsg},
		Submissions: submissions,
		Tasks:       tasks,
		StartedTime: time.Now().Format(time.RFC3339),
	}
}

func NewStartTask(runID, subm string, task Task) *StartTask {
	return &StartTask{
		Header:     Header{RunID: runID, MsgType: StartTaskMsg},
		Submission: subm,
		Task:       task.Name,
		Lang:       task.Lang,
	}
}

func NewFinishExtract(runID, subm, task string, files []string, code string, err error) *FinishExtract {
	return &FinishExtract{
		Header:     Header{RunID: runID, MsgType: FinishExtractMsg},
		Submission: subm,
		Task:       task,
		Files:      files,
		Code:       code,
		Error:      errString(err),
	}
}

func NewFinishCase(runID, subm, task string, idx int, args []string, input, output string, err error) *FinishCase {
	return &FinishCase{
		Header:     Header{RunID: runID, MsgType: FinishCaseMsg},
		Submission: subm,
		Task:       task,
		CaseIdx:    idx,
		Args:       args,
		Input:      input,
		Output:     output,
		Error:      errString(err),
	}
}

func NewFinishTask(runID, subm, task, report string, err error) *FinishTask {
	return &FinishTask{
		Header:     Header{RunID: runID, MsgType: FinishTaskMsg},
		Submission: subm,
		Task:       task,
		Report:     report,
		Error:      errString(err),
	}
}

func NewFinishBatch(summary BatchSummary) *FinishBatch {
	return &FinishBatch{
		Header:  Header{RunID: summary.RunID, MsgType: FinishBatchMsg},
		Summary: summary,
	}
}

func errString(err error) *string {
	if err == nil {
		return nil
	}
	s := err.Error()
	return &s
}
