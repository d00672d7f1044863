package gatherer

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/programme-lv/answers/api"
	"github.com/programme-lv/answers/internal/answer"
)

// Sender delivers one encoded api message.
type Sender interface {
	Send(body []byte) error
}

// Stream turns batch events into api messages. Long texts are trimmed to
// api.MaxTextHeight x api.MaxTextWidth.
type Stream struct {
	sender Sender
	logger *slog.Logger

	mu    sync.Mutex
	runID string
}

func NewStream(sender Sender, logger *slog.Logger) *Stream {
	if logger == nil {
		logger = slog.Default()
	}
	return &Stream{sender: sender, logger: logger}
}

func (s *Stream) StartBatch(runID string, submissions, tasks int) {
	s.mu.Lock()
	s.runID = runID
	s.mu.Unlock()
	s.send(api.NewStartBatch(runID, submissions, tasks))
}

func (s *Stream) StartTask(subm string, task api.Task) {
	s.send(api.NewStartTask(s.id(), subm, task))
}

func (s *Stream) FinishExtract(subm string, a *answer.Answer, err error) {
	s.send(api.NewFinishExtract(s.id(), subm, a.TaskName, a.FileList, trim(a.CodeText), err))
}

func (s *Stream) FinishCase(subm, task string, idx int, c answer.Case) {
	s.send(api.NewFinishCase(s.id(), subm, task, idx, c.Args, trim(c.Input), trim(c.Output), c.Err))
}

func (s *Stream) FinishTask(subm string, a *answer.Answer, err error) {
	s.send(api.NewFinishTask(s.id(), subm, a.TaskName, trim(a.ResultText), err))
}

func (s *Stream) FinishBatch(summary api.BatchSummary) {
	s.send(api.NewFinishBatch(summary))
}

func (s *Stream) id() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runID
}

func (s *Stream) send(msg any) {
	b, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("failed to marshal message", "error", err)
		return
	}
	if err := s.sender.Send(b); err != nil {
		s.logger.Error("failed to send message", "error", err)
	}
}

func trim(s string) string {
	return TrimToRect(s, api.MaxTextHeight, api.MaxTextWidth)
}
