package natsgath

import (
	"encoding/json"
	"testing"

	"github.com/programme-lv/answers/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	subjects []string
	data     [][]byte
}

func (f *fakeConn) Publish(subj string, data []byte) error {
	f.subjects = append(f.subjects, subj)
	f.data = append(f.data, data)
	return nil
}

func TestPublishesToSubject(t *testing.T) {
	nc := &fakeConn{}
	g := New(nc, "answers.results", nil)

	g.StartBatch("run-7", 1, 2)
	g.StartTask("alice", api.Task{Name: "Main", Lang: "java"})

	require.Len(t, nc.data, 2)
	assert.Equal(t, []string{"answers.results", "answers.results"}, nc.subjects)

	var msg api.StartTask
	require.NoError(t, json.Unmarshal(nc.data[1], &msg))
	assert.Equal(t, "run-7", msg.RunID)
	assert.Equal(t, api.StartTaskMsg, msg.MsgType)
	assert.Equal(t, "alice", msg.Submission)
	assert.Equal(t, "java", msg.Lang)
}
