package config

import (
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLibrary(); err != nil {
		return err
	}
	if err := c.validatePlayer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLibrary() error {
	switch c.Library.Kind {
	case "audio", "video", "any":
		return nil
	default:
		return fmt.Errorf("library.kind must be audio, video, or any (got %q)", c.Library.Kind)
	}
}

func (c *Config) validatePlayer() error {
	if c.Player.TickIntervalMS <= 0 {
		return fmt.Errorf("player.tick_interval_ms must be positive")
	}
	if c.Player.TickIntervalMS > 10000 {
		return fmt.Errorf("player.tick_interval_ms must be at most 10000 (got %d)", c.Player.TickIntervalMS)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not recognized", c.Logging.Level)
	}
}
