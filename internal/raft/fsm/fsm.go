package fsm

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hashicorp/raft"
	"github.com/masterkusok/greetings/internal/command"
	"github.com/masterkusok/greetings/internal/store"
	"go.uber.org/zap"
)

// FSM applies committed greeting commands to a storage. Raft calls Apply from
// a single goroutine, so each command's presence check and write is atomic
// with respect to every other replicated write.
type FSM struct {
	storage store.Storage
	logger  *zap.Logger
}

func New(storage store.Storage, logger *zap.Logger) *FSM {
	return &FSM{
		storage: storage,
		logger:  logger,
	}
}

func (f *FSM) applyCommand(cmd command.Command) error {
	switch cmd.Action {
	case command.CreateAction:
		if _, err := f.storage.Create(cmd.ID, cmd.Message); err != nil {
			return fmt.Errorf("create greeting %d: %w", cmd.ID, err)
		}
	case command.UpdateAction:
		if err := f.storage.Update(cmd.ID, cmd.Message); err != nil {
			return fmt.Errorf("update greeting %d: %w", cmd.ID, err)
		}
	case command.DeleteAction:
		if err := f.storage.Delete(cmd.ID); err != nil {
			return fmt.Errorf("delete greeting %d: %w", cmd.ID, err)
		}
	default:
		return fmt.Errorf("unknown action %q", cmd.Action)
	}
	return nil
}

// Apply returns the command's error, or nil, as the log response.
func (f *FSM) Apply(log *raft.Log) interface{} {
	var cmd command.Command
	if err := json.Unmarshal(log.Data, &cmd); err != nil {
		f.logger.Error("unmarshal command", zap.Uint64("index", log.Index), zap.Error(err))
		return fmt.Errorf("unmarshal command: %w", err)
	}

	if err := f.applyCommand(cmd); err != nil {
		f.logger.Debug("command rejected",
			zap.Uint64("index", log.Index),
			zap.String("action", string(cmd.Action)),
			zap.Int("id", cmd.ID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (f *FSM) Snapshot() (raft.FSMSnapshot, error) {
	return &snapshot{
		Data: f.storage.List(),
	}, nil
}

func (f *FSM) Restore(rc io.ReadCloser) error {
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("read snapshot data: %w", err)
	}

	var snapshot snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("unmarshal snapshot data: %w", err)
	}
	f.storage.Replace(snapshot.Data)
	return nil
}
