package queue

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Queue backend kinds.
const (
	KindMemory   = "memory"
	KindRedis    = "redis"
	KindRabbitMQ = "rabbitmq"
)

// Config holds queue backend selection and connection parameters.
// Address is the Redis address or RabbitMQ URL depending on Kind.
type Config struct {
	Kind       string `toml:"kind"`
	Name       string `toml:"name"`
	Address    string `toml:"address"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	Workers    int    `toml:"workers"`
	BufferSize int    `toml:"buffer_size"`
	Prefetch   int    `toml:"prefetch"`
	BlockWait  string `toml:"block_wait"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Kind     string
	Name     string
	Address  string
	Password string
	Workers  string
}

// BlockWaitDuration returns BlockWait as a time.Duration.
func (c *Config) BlockWaitDuration() time.Duration {
	d, _ := time.ParseDuration(c.BlockWait)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Kind != "" {
		c.Kind = overlay.Kind
	}
	if overlay.Name != "" {
		c.Name = overlay.Name
	}
	if overlay.Address != "" {
		c.Address = overlay.Address
	}
	if overlay.Password != "" {
		c.Password = overlay.Password
	}
	if overlay.DB != 0 {
		c.DB = overlay.DB
	}
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.BufferSize != 0 {
		c.BufferSize = overlay.BufferSize
	}
	if overlay.Prefetch != 0 {
		c.Prefetch = overlay.Prefetch
	}
	if overlay.BlockWait != "" {
		c.BlockWait = overlay.BlockWait
	}
}

func (c *Config) loadDefaults() {
	if c.Kind == "" {
		c.Kind = KindMemory
	}
	if c.Name == "" {
		c.Name = "foundry:generations"
	}
	if c.Workers == 0 {
		c.Workers = 2
	}
	if c.BufferSize == 0 {
		c.BufferSize = 64
	}
	if c.Prefetch == 0 {
		c.Prefetch = c.Workers
	}
	if c.BlockWait == "" {
		c.BlockWait = "5s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Kind != "" {
		if v := os.Getenv(env.Kind); v != "" {
			c.Kind = v
		}
	}
	if env.Name != "" {
		if v := os.Getenv(env.Name); v != "" {
			c.Name = v
		}
	}
	if env.Address != "" {
		if v := os.Getenv(env.Address); v != "" {
			c.Address = v
		}
	}
	if env.Password != "" {
		if v := os.Getenv(env.Password); v != "" {
			c.Password = v
		}
	}
	if env.Workers != "" {
		if v := os.Getenv(env.Workers); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.Workers = n
			}
		}
	}
}

func (c *Config) validate() error {
	switch c.Kind {
	case KindMemory:
	case KindRedis, KindRabbitMQ:
		if c.Address == "" {
			return fmt.Errorf("address required for %s queue", c.Kind)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKind, c.Kind)
	}

	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive")
	}
	if _, err := time.ParseDuration(c.BlockWait); err != nil {
		return fmt.Errorf("invalid block_wait: %w", err)
	}

	return nil
}
