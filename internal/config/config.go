// Package config loads at2d configuration from defaults, an optional
// at2d.toml file and AT2D_-prefixed environment variables, in that
// priority order.
package config

import (
	"errors"
	"fmt"
)

// Config is the full at2d configuration.
type Config struct {
	// DataDir is the root directory for persistent state.
	DataDir string `mapstructure:"data_dir"`

	Storage StorageConfig `mapstructure:"storage"`
	Group   GroupConfig   `mapstructure:"group"`
	Demo    DemoConfig    `mapstructure:"demo"`
}

// StorageConfig selects the event store backend.
type StorageConfig struct {
	// Backend is one of pebble, leveldb, memory.
	Backend string `mapstructure:"backend"`

	// SyncWrites forces a durable sync on every appended event.
	SyncWrites bool `mapstructure:"sync_writes"`
}

// GroupConfig describes the simulated replica groups used by the demo.
type GroupConfig struct {
	// Size is the number of replicas per group.
	Size int `mapstructure:"size"`

	// Threshold is t; a quorum is t+1 signature shares.
	Threshold int `mapstructure:"threshold"`
}

// DemoConfig holds the balances and amount used by the demo command.
type DemoConfig struct {
	SenderBalance    uint64 `mapstructure:"sender_balance"`
	RecipientBalance uint64 `mapstructure:"recipient_balance"`
	Amount           uint64 `mapstructure:"amount"`
}

// ErrInvalidConfig indicates configuration that fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "pebble", "leveldb", "memory":
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidConfig, c.Storage.Backend)
	}
	if c.Group.Size < 1 {
		return fmt.Errorf("%w: group size %d", ErrInvalidConfig, c.Group.Size)
	}
	if c.Group.Threshold < 0 || c.Group.Threshold >= c.Group.Size {
		return fmt.Errorf("%w: threshold %d for group of %d", ErrInvalidConfig, c.Group.Threshold, c.Group.Size)
	}
	if c.Demo.Amount > c.Demo.SenderBalance {
		return fmt.Errorf("%w: demo amount %d exceeds sender balance %d", ErrInvalidConfig, c.Demo.Amount, c.Demo.SenderBalance)
	}
	return nil
}
