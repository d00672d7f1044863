package termgath

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/programme-lv/answers/api"
	"github.com/programme-lv/answers/internal/answer"
	"github.com/stretchr/testify/assert"
)

func TestPrintsProgress(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	g := New(&buf)
	g.Verbose = true

	a := answer.New("alice/App.jar", api.Task{Name: "App", Lang: "jar"})
	a.FileList = append(a.FileList, "Main.java", "Util.java")

	g.StartBatch("run-1", 1, 1)
	g.StartTask("alice", api.Task{Name: "App", Lang: "jar"})
	g.FinishExtract("alice", a, nil)
	g.FinishCase("alice", "App", 0, answer.Case{Args: []string{"x"}, Output: "hello\nworld"})
	g.FinishCase("alice", "App", 1, answer.Case{Err: errors.New("fork failed")})
	g.FinishTask("alice", a, errors.New("fork failed"))
	g.FinishBatch(api.BatchSummary{RunID: "run-1", Answers: 1, ExecErrors: 1})

	out := buf.String()
	assert.Contains(t, out, "== Batch run-1 started: 1 submission(s) x 1 task(s) ==")
	assert.Contains(t, out, "-> alice / App (jar)")
	assert.Contains(t, out, "files: Main.java, Util.java")
	assert.Contains(t, out, `case 1 args=["x"] hello ...`)
	assert.Contains(t, out, "exec error alice / App case 2: fork failed")
	assert.Contains(t, out, "<- alice / App needs manual check")
	assert.Contains(t, out, "1 answer(s), 0 open error(s), 1 exec error(s)")
}

func TestOpenError(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	g := New(&buf)
	a := answer.New("bob/Main.java", api.Task{Name: "Main", Lang: "java"})

	g.FinishExtract("bob", a, errors.New("no such file"))
	g.FinishTask("bob", a, nil)

	assert.Contains(t, buf.String(), "open error bob / Main: no such file")
	assert.Contains(t, buf.String(), "<- bob / Main done")
}
