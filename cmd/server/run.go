package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/masterkusok/greetings/internal/api"
	"github.com/masterkusok/greetings/internal/config"
	"github.com/masterkusok/greetings/internal/logging"
	"github.com/masterkusok/greetings/internal/raft"
	"github.com/masterkusok/greetings/internal/raft/fsm"
	"github.com/masterkusok/greetings/internal/store"
	"go.uber.org/zap"
)

const shutdownTimeout = 3 * time.Second

func run(ctx context.Context, cfg config.Config) error {
	logger, err := logging.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		return err
	}
	defer logger.Sync()

	storage := store.NewSeededStorage()

	var (
		greetings api.Greetings = storage
		cluster   api.Cluster
		node      *raft.Node
	)

	if cfg.Raft.Enabled {
		node = raft.NewNode(storage, fsm.New(storage, logger.Named("fsm")), logger.Named("node"),
			cfg.Raft.LeaderApiEndpoint, cfg.Raft.LocalID)
		if err := node.Open(cfg.Raft); err != nil {
			return fmt.Errorf("start node: %w", err)
		}
		greetings, cluster = node, node

		if cfg.Raft.LeaderAddr != "" {
			joinCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			err := join(joinCtx, cfg.Raft.LeaderApiEndpoint, cfg.Raft.RaftAddr, cfg.Raft.LocalID)
			cancel()
			if err != nil {
				return fmt.Errorf("join cluster: %w", err)
			}
			logger.Info("joined cluster", zap.String("leader", cfg.Raft.LeaderApiEndpoint))
		}
	}

	server := api.NewServer(greetings, cluster, logger.Named("api"))
	server.Start(cfg.Addr())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("stop http server", zap.Error(err))
	}

	if node != nil {
		if err := node.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("cleanup node: %w", err)
		}
	}

	logger.Info("server stopped")
	return nil
}

func join(ctx context.Context, endpoint, addr, nodeID string) error {
	request := api.JoinRequest{
		Addr:   addr,
		NodeID: nodeID,
	}

	data, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("marshal join request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/node", endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("do http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("leader responded %s", resp.Status)
	}

	return nil
}
