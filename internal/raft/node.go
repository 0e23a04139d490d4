package raft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/raft"
	"github.com/masterkusok/greetings/internal/command"
	"github.com/masterkusok/greetings/internal/store"
	"go.uber.org/zap"
)

const (
	raftTimeout = time.Second * 3
)

var ErrNotLeader = errors.New("node is not the leader")

// Node serves greetings from a replicated store. Reads hit the local copy,
// writes go through the raft log.
type Node struct {
	fsm     raft.FSM
	storage store.Storage
	raft    *raft.Raft
	logger  *zap.Logger

	nodeID       string
	leaderAPIUrl string
}

func NewNode(storage store.Storage, fsm raft.FSM, logger *zap.Logger, leaderUrl, nodeID string) *Node {
	return &Node{
		storage:      storage,
		fsm:          fsm,
		logger:       logger,
		leaderAPIUrl: leaderUrl,
		nodeID:       nodeID,
	}
}

// Open starts raft over TCP. Log, stable and snapshot stores live in memory.
func (n *Node) Open(config Config) error {
	addr, err := net.ResolveTCPAddr("tcp", config.RaftAddr)
	if err != nil {
		return fmt.Errorf("resolve raft address: %w", err)
	}

	transport, err := raft.NewTCPTransport(config.RaftAddr, addr, config.MaxPool, config.Timeout, n.logWriter("transport"))
	if err != nil {
		return fmt.Errorf("open tcp transport: %w", err)
	}

	return n.open(config, transport)
}

func (n *Node) open(config Config, transport raft.Transport) error {
	cfg := raft.DefaultConfig()
	cfg.LocalID = raft.ServerID(config.LocalID)
	cfg.LogOutput = n.logWriter("raft")
	if config.HeartbeatTimeout > 0 {
		cfg.HeartbeatTimeout = config.HeartbeatTimeout
		cfg.LeaderLeaseTimeout = config.HeartbeatTimeout
	}
	if config.ElectionTimeout > 0 {
		cfg.ElectionTimeout = config.ElectionTimeout
	}

	logStore := raft.NewInmemStore()
	stableStore := raft.NewInmemStore()
	snapshotStore := raft.NewInmemSnapshotStore()

	r, err := raft.NewRaft(cfg, n.fsm, logStore, stableStore, snapshotStore, transport)
	if err != nil {
		return fmt.Errorf("create raft: %w", err)
	}

	n.raft = r

	future := r.GetConfiguration()
	if err := future.Error(); err != nil {
		return fmt.Errorf("get cluster configuration: %w", err)
	}

	if len(future.Configuration().Servers) != 0 || config.LeaderAddr != "" {
		return nil
	}

	if err := n.bootstrapCluster(config.LocalID, transport.LocalAddr()); err != nil {
		return fmt.Errorf("bootstrap cluster: %w", err)
	}
	n.logger.Info("bootstrapped single node cluster", zap.String("node_id", config.LocalID))
	return nil
}

func (n *Node) logWriter(name string) *zapWriter {
	return &zapWriter{logger: n.logger.Named(name)}
}

func (n *Node) bootstrapCluster(nodeID string, addr raft.ServerAddress) error {
	configuration := raft.Configuration{
		Servers: []raft.Server{
			{
				ID:      raft.ServerID(nodeID),
				Address: addr,
			},
		},
	}
	return n.raft.BootstrapCluster(configuration).Error()
}

func (n *Node) Join(nodeID, addr string) error {
	if !n.IsLeader() {
		return ErrNotLeader
	}

	configFuture := n.raft.GetConfiguration()
	if err := configFuture.Error(); err != nil {
		return fmt.Errorf("get raft configuration: %w", err)
	}

	for _, server := range configFuture.Configuration().Servers {
		if server.ID == raft.ServerID(nodeID) || server.Address == raft.ServerAddress(addr) {
			if server.Address == raft.ServerAddress(addr) && server.ID == raft.ServerID(nodeID) {
				n.logger.Info("node already member", zap.String("node_id", nodeID), zap.String("addr", addr))
				return nil
			}

			future := n.raft.RemoveServer(server.ID, 0, 0)
			if err := future.Error(); err != nil {
				return fmt.Errorf("remove existing node %s at %s: %w", nodeID, addr, err)
			}
		}
	}

	f := n.raft.AddVoter(raft.ServerID(nodeID), raft.ServerAddress(addr), 0, 0)
	if err := f.Error(); err != nil {
		return fmt.Errorf("add voter: %w", err)
	}
	n.logger.Info("node joined", zap.String("node_id", nodeID), zap.String("addr", addr))
	return nil
}

func (n *Node) List() map[int]string {
	return n.storage.List()
}

func (n *Node) Get(id int) (string, error) {
	msg, err := n.storage.Get(id)
	if err != nil {
		return "", fmt.Errorf("get greeting %d: %w", id, err)
	}
	return msg, nil
}

func (n *Node) Create(id int, message string) (store.Greeting, error) {
	if err := n.applyCommand(command.NewCreateCommand(id, message)); err != nil {
		return store.Greeting{}, err
	}
	return store.Greeting{ID: id, Message: message}, nil
}

func (n *Node) Update(id int, message string) error {
	return n.applyCommand(command.NewUpdateCommand(id, message))
}

func (n *Node) Delete(id int) error {
	return n.applyCommand(command.NewDeleteCommand(id))
}

func (n *Node) IsLeader() bool {
	return n.raft.State() == raft.Leader
}

// applyCommand replicates cmd and returns the error the FSM produced for it.
func (n *Node) applyCommand(cmd command.Command) error {
	if !n.IsLeader() {
		return ErrNotLeader
	}

	marshaled, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("marshal command: %w", err)
	}

	future := n.raft.Apply(marshaled, raftTimeout)
	if err = future.Error(); err != nil {
		if errors.Is(err, raft.ErrNotLeader) {
			return ErrNotLeader
		}
		return fmt.Errorf("call apply: %w", err)
	}

	if err, ok := future.Response().(error); ok && err != nil {
		return err
	}
	return nil
}

func (n *Node) Shutdown(ctx context.Context) error {
	if n.IsLeader() {
		// Fails when there is no other voter to hand over to.
		if err := n.raft.LeadershipTransfer().Error(); err != nil {
			n.logger.Warn("transfer leadership", zap.Error(err))
		}
	}

	if n.leaderAPIUrl != "" {
		// The leader may already be gone; raft still has to stop.
		if err := n.removeNode(ctx); err != nil {
			n.logger.Warn("leave cluster", zap.String("leader", n.leaderAPIUrl), zap.Error(err))
		}
	}

	if err := n.raft.Shutdown().Error(); err != nil {
		return fmt.Errorf("shutdown raft node: %w", err)
	}
	return nil
}

func (n *Node) removeNode(ctx context.Context) error {
	url := fmt.Sprintf("%s/api/v1/node/%s", n.leaderAPIUrl, n.nodeID)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("send delete request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("leader responded %s", resp.Status)
	}
	return nil
}

func (n *Node) RemoveNodeFromCluster(nodeID string) error {
	if !n.IsLeader() {
		return ErrNotLeader
	}

	if err := n.raft.RemoveServer(raft.ServerID(nodeID), 0, 0).Error(); err != nil {
		return fmt.Errorf("remove server: %w", err)
	}
	n.logger.Info("node removed", zap.String("node_id", nodeID))
	return nil
}
