package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// Defaults is the optional TOML file with operator-tunable defaults that
// do not warrant their own environment variable.
type Defaults struct {
	Search struct {
		// Limit is the result count used when a search request carries no
		// limit parameter.
		Limit int `toml:"limit"`
	} `toml:"search"`
	Thread struct {
		// Limit is the reply count used when a thread request carries no
		// limit parameter.
		Limit int `toml:"limit"`
	} `toml:"thread"`
	Presence struct {
		// RetentionDays bounds the lifetime of remote presence records.
		// Zero keeps the built-in window; negative disables expiry.
		RetentionDays int `toml:"retention_days"`
	} `toml:"presence"`
}

// LoadDefaults reads and validates the defaults file.
func LoadDefaults(path string) (*Defaults, error) {
	// #nosec G304 -- path comes from CLI flag, not user input
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrConfigNotFound, "defaults file not found", goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read defaults file", goerr.V("path", path))
	}

	var cfg Defaults
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse defaults file",
			goerr.V("path", path), goerr.V("cause", err.Error()))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the value ranges.
func (x *Defaults) Validate() error {
	if x.Search.Limit < 0 {
		return goerr.Wrap(ErrInvalidConfig, "search.limit must not be negative", goerr.V("limit", x.Search.Limit))
	}
	if x.Thread.Limit < 0 {
		return goerr.Wrap(ErrInvalidConfig, "thread.limit must not be negative", goerr.V("limit", x.Thread.Limit))
	}
	return nil
}
