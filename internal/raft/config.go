package raft

import "time"

type Config struct {
	Enabled           bool          `yaml:"enabled"`
	LocalID           string        `yaml:"local-id"`
	RaftAddr          string        `yaml:"raft-addr"`
	LeaderAddr        string        `yaml:"leader-addr,omitempty"`
	LeaderApiEndpoint string        `yaml:"leader-api-endpoint"`
	MaxPool           int           `yaml:"max-pool"`
	Timeout           time.Duration `yaml:"timeout"`

	// Zero values keep hashicorp/raft defaults.
	HeartbeatTimeout time.Duration `yaml:"heartbeat-timeout,omitempty"`
	ElectionTimeout  time.Duration `yaml:"election-timeout,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		RaftAddr: "localhost:8081",
		MaxPool:  3,
		Timeout:  3 * time.Second,
	}
}
