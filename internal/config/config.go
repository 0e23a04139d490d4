package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/masterkusok/greetings/internal/raft"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort = "8000"
	PortEnv     = "PORT"
)

var ErrInvalidPort = errors.New("invalid port")

type Config struct {
	Port        string      `yaml:"port"`
	LogLevel    string      `yaml:"log-level"`
	Development bool        `yaml:"development"`
	Raft        raft.Config `yaml:"raft"`
}

func Default() Config {
	return Config{
		Port:     DefaultPort,
		LogLevel: "info",
		Raft:     raft.DefaultConfig(),
	}
}

// Load reads defaults, then the YAML file at path (if any), then the PORT
// environment variable.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if port, ok := os.LookupEnv(PortEnv); ok && port != "" {
		cfg.Port = port
	}

	return cfg, nil
}

// Finalize fills derived values and checks the result.
func (c *Config) Finalize() error {
	if c.Raft.LocalID == "" {
		c.Raft.LocalID = uuid.NewString()
	}

	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w %q", ErrInvalidPort, c.Port)
	}
	return nil
}

func (c Config) Addr() string {
	return ":" + c.Port
}
