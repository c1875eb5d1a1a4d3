package session

import "github.com/stateroom/stateroom/driver"

// Config holds session initialization parameters. The Driver section is
// passed to every session's driver.
type Config struct {
	Driver driver.Config `json:"driver"`
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		Driver: driver.DefaultConfig(),
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	c.Driver.Merge(&source.Driver)
}
