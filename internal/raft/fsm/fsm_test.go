package fsm

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/hashicorp/raft"
	"github.com/masterkusok/greetings/internal/command"
	"github.com/masterkusok/greetings/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memorySink struct {
	bytes.Buffer
	closed    bool
	cancelled bool
}

func (s *memorySink) ID() string    { return "test" }
func (s *memorySink) Close() error  { s.closed = true; return nil }
func (s *memorySink) Cancel() error { s.cancelled = true; return nil }

func logOf(t *testing.T, cmd command.Command) *raft.Log {
	t.Helper()
	data, err := json.Marshal(cmd)
	require.NoError(t, err)
	return &raft.Log{Index: 1, Data: data}
}

func applyErr(t *testing.T, f *FSM, cmd command.Command) error {
	t.Helper()
	resp := f.Apply(logOf(t, cmd))
	if resp == nil {
		return nil
	}
	err, ok := resp.(error)
	require.True(t, ok, "unexpected response %T", resp)
	return err
}

func TestApplyCommands(t *testing.T) {
	storage := store.NewSeededStorage()
	f := New(storage, zap.NewNop())

	require.NoError(t, applyErr(t, f, command.NewCreateCommand(6, "Yo")))
	msg, err := storage.Get(6)
	require.NoError(t, err)
	assert.Equal(t, "Yo", msg)

	require.NoError(t, applyErr(t, f, command.NewUpdateCommand(6, "Hey")))
	msg, err = storage.Get(6)
	require.NoError(t, err)
	assert.Equal(t, "Hey", msg)

	require.NoError(t, applyErr(t, f, command.NewDeleteCommand(6)))
	_, err = storage.Get(6)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestApplyReturnsDomainErrors(t *testing.T) {
	f := New(store.NewSeededStorage(), zap.NewNop())

	assert.ErrorIs(t, applyErr(t, f, command.NewCreateCommand(1, "dup")), store.ErrAlreadyExists)
	assert.ErrorIs(t, applyErr(t, f, command.NewUpdateCommand(99, "x")), store.ErrNotFound)
	assert.ErrorIs(t, applyErr(t, f, command.NewDeleteCommand(99)), store.ErrNotFound)
	assert.Error(t, applyErr(t, f, command.Command{Action: "rename", ID: 1}))
}

func TestApplyMalformedLog(t *testing.T) {
	f := New(store.NewSeededStorage(), zap.NewNop())

	resp := f.Apply(&raft.Log{Index: 3, Data: []byte("{not json")})
	err, ok := resp.(error)
	require.True(t, ok)
	assert.Error(t, err)
}

func TestSnapshotRestore(t *testing.T) {
	source := store.NewSeededStorage()
	require.NoError(t, source.Delete(1))
	_, err := source.Create(8, "eight")
	require.NoError(t, err)

	snap, err := New(source, zap.NewNop()).Snapshot()
	require.NoError(t, err)

	sink := &memorySink{}
	require.NoError(t, snap.Persist(sink))
	snap.Release()
	assert.True(t, sink.closed)
	assert.False(t, sink.cancelled)

	target := store.NewInMemoryStorage()
	require.NoError(t, New(target, zap.NewNop()).Restore(io.NopCloser(&sink.Buffer)))
	assert.Equal(t, source.List(), target.List())
}

func TestRestoreMalformed(t *testing.T) {
	target := store.NewSeededStorage()
	err := New(target, zap.NewNop()).Restore(io.NopCloser(bytes.NewBufferString("garbage")))
	assert.Error(t, err)
	assert.Equal(t, store.Seed(), target.List())
}
