package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/Caleb5Mathew/slack-search-proxy/pkg/repository/presence"
)

// Redis holds configuration for the shared presence store.
type Redis struct {
	url       string
	retention time.Duration
}

func (r *Redis) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "redis-url",
			Usage:       "Redis connection URL for the presence store (e.g. redis://host:6379/0)",
			Category:    "Redis",
			Sources:     cli.EnvVars("SLACK_SEARCH_PROXY_REDIS_URL", "REDIS_URL"),
			Destination: &r.url,
		},
		&cli.DurationFlag{
			Name:        "redis-retention",
			Usage:       "Retention period for presence records",
			Category:    "Redis",
			Value:       presence.DefaultRetention,
			Sources:     cli.EnvVars("SLACK_SEARCH_PROXY_REDIS_RETENTION"),
			Destination: &r.retention,
		},
	}
}

func (r Redis) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("url", r.url != ""),
		slog.Duration("retention", r.retention),
	)
}

// SetRetention overrides the retention period unless the flag already set
// a non-default value.
func (r *Redis) SetRetention(d time.Duration) {
	if r.retention == presence.DefaultRetention && d > 0 {
		r.retention = d
	}
}

// Configure connects to Redis, or returns (nil, nil) when no URL is set.
func (r *Redis) Configure(ctx context.Context) (*presence.Redis, error) {
	if r.url == "" {
		return nil, nil
	}

	store, err := presence.NewRedis(ctx, r.url, presence.WithRetention(r.retention))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to connect to Redis presence store")
	}
	return store, nil
}
