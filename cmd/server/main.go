package main

import (
	"fmt"
	"os"

	"github.com/masterkusok/greetings/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	cfg := config.Default()

	root := &cobra.Command{
		Use:           "greetings",
		Short:         "In-memory greetings service over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, &loaded, cfg)

			if err := loaded.Finalize(); err != nil {
				return err
			}
			return run(cmd.Context(), loaded)
		},
	}

	flags := root.Flags()
	flags.StringVar(&configPath, "config", "", "path to a YAML config file")
	flags.StringVar(&cfg.Port, "port", cfg.Port, "HTTP port (overrides $PORT)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	flags.BoolVar(&cfg.Development, "development", cfg.Development, "human readable logs")
	flags.BoolVar(&cfg.Raft.Enabled, "raft", cfg.Raft.Enabled, "replicate greetings with raft")
	flags.StringVar(&cfg.Raft.LocalID, "local-id", cfg.Raft.LocalID, "local raft node ID, generated when empty")
	flags.StringVar(&cfg.Raft.RaftAddr, "raft-addr", cfg.Raft.RaftAddr, "raft server address")
	flags.StringVar(&cfg.Raft.LeaderAddr, "leader-addr", cfg.Raft.LeaderAddr, "leader raft address for joining a cluster")
	flags.StringVar(&cfg.Raft.LeaderApiEndpoint, "leader-api-endpoint", cfg.Raft.LeaderApiEndpoint, "leader HTTP endpoint for joining a cluster")
	flags.IntVar(&cfg.Raft.MaxPool, "max-pool", cfg.Raft.MaxPool, "maximum raft connection pool size")
	flags.DurationVar(&cfg.Raft.Timeout, "timeout", cfg.Raft.Timeout, "raft transport timeout")

	return root
}

// applyFlags copies explicitly set flags over the loaded configuration.
func applyFlags(cmd *cobra.Command, dst *config.Config, src config.Config) {
	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}

	set("port", func() { dst.Port = src.Port })
	set("log-level", func() { dst.LogLevel = src.LogLevel })
	set("development", func() { dst.Development = src.Development })
	set("raft", func() { dst.Raft.Enabled = src.Raft.Enabled })
	set("local-id", func() { dst.Raft.LocalID = src.Raft.LocalID })
	set("raft-addr", func() { dst.Raft.RaftAddr = src.Raft.RaftAddr })
	set("leader-addr", func() { dst.Raft.LeaderAddr = src.Raft.LeaderAddr })
	set("leader-api-endpoint", func() { dst.Raft.LeaderApiEndpoint = src.Raft.LeaderApiEndpoint })
	set("max-pool", func() { dst.Raft.MaxPool = src.Raft.MaxPool })
	set("timeout", func() { dst.Raft.Timeout = src.Raft.Timeout })
}
