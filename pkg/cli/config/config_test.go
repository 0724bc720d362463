package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/Caleb5Mathew/slack-search-proxy/pkg/cli/config"
)

func writeDefaultsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "defaults.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeDefaultsFile(t, `
[search]
limit = 30

[thread]
limit = 200

[presence]
retention_days = 30
`)

	cfg, err := config.LoadDefaults(path)
	gt.NoError(t, err).Required()
	gt.Number(t, cfg.Search.Limit).Equal(30)
	gt.Number(t, cfg.Thread.Limit).Equal(200)
	gt.Number(t, cfg.Presence.RetentionDays).Equal(30)
}

func TestLoadDefaultsPartialFile(t *testing.T) {
	path := writeDefaultsFile(t, `
[search]
limit = 10
`)

	cfg, err := config.LoadDefaults(path)
	gt.NoError(t, err).Required()
	gt.Number(t, cfg.Search.Limit).Equal(10)
	gt.Number(t, cfg.Thread.Limit).Equal(0)
}

func TestLoadDefaultsMissingFile(t *testing.T) {
	_, err := config.LoadDefaults(filepath.Join(t.TempDir(), "nope.toml"))
	gt.Value(t, err).NotNil()
	gt.Bool(t, errors.Is(err, config.ErrConfigNotFound)).True()
}

func TestLoadDefaultsMalformedFile(t *testing.T) {
	path := writeDefaultsFile(t, `not toml at all ===`)

	_, err := config.LoadDefaults(path)
	gt.Value(t, err).NotNil()
	gt.Bool(t, errors.Is(err, config.ErrInvalidConfig)).True()
}

func TestLoadDefaultsRejectsNegativeLimits(t *testing.T) {
	path := writeDefaultsFile(t, `
[search]
limit = -1
`)

	_, err := config.LoadDefaults(path)
	gt.Value(t, err).NotNil()
	gt.Bool(t, errors.Is(err, config.ErrInvalidConfig)).True()
}
