// Package gatherer defines the events a batch run reports and fans them out
// to result sinks.
package gatherer

import (
	"github.com/programme-lv/answers/api"
	"github.com/programme-lv/answers/internal/answer"
)

// Gatherer receives batch progress. Implementations must be safe for
// concurrent use because submissions may be processed in parallel.
type Gatherer interface {
	StartBatch(runID string, submissions, tasks int)

	StartTask(subm string, task api.Task)
	FinishExtract(subm string, a *answer.Answer, err error)
	FinishCase(subm, task string, idx int, c answer.Case)
	FinishTask(subm string, a *answer.Answer, err error)

	FinishBatch(summary api.BatchSummary)
}

// Multi forwards every event to each gatherer in order.
type Multi []Gatherer

func (m Multi) StartBatch(runID string, submissions, tasks int) {
	for _, g := range m {
		g.StartBatch(runID, submissions, tasks)
	}
}

func (m Multi) StartTask(subm string, task api.Task) {
	for _, g := range m {
		g.StartTask(subm, task)
	}
}

func (m Multi) FinishExtract(subm string, a *answer.Answer, err error) {
	for _, g := range m {
		g.FinishExtract(subm, a, err)
	}
}

func (m Multi) FinishCase(subm, task string, idx int, c answer.Case) {
	for _, g := range m {
		g.FinishCase(subm, task, idx, c)
	}
}

func (m Multi) FinishTask(subm string, a *answer.Answer, err error) {
	for _, g := range m {
		g.FinishTask(subm, a, err)
	}
}

func (m Multi) FinishBatch(summary api.BatchSummary) {
	for _, g := range m {
		g.FinishBatch(summary)
	}
}
