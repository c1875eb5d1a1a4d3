package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/stateroom/stateroom/session"
)

const (
	defaultAddr           = ":8090"
	defaultCountdownStart = 3
)

// config holds server initialization parameters. The Session section is
// forwarded to the session manager and, through it, to every driver.
type config struct {
	Addr           string         `json:"addr,omitempty"`
	CountdownStart int            `json:"countdown_start,omitempty"`
	Session        session.Config `json:"session"`
}

func defaultConfig() config {
	return config{
		Addr:           defaultAddr,
		CountdownStart: defaultCountdownStart,
		Session:        session.DefaultConfig(),
	}
}

func (c *config) merge(source *config) {
	if source.Addr != "" {
		c.Addr = source.Addr
	}
	if source.CountdownStart > 0 {
		c.CountdownStart = source.CountdownStart
	}
	c.Session.Merge(&source.Session)
}

// loadConfig reads a JSON config file and merges it with defaults.
func loadConfig(filename string) (*config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.merge(&loaded)
	return &cfg, nil
}
