package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/Caleb5Mathew/slack-search-proxy/pkg/service/session"
)

// Session holds the signing configuration for the bearer credential codec.
type Session struct {
	secret string
	ttl    time.Duration
}

func (x *Session) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "session-secret",
			Usage:       "Secret used to sign bearer credentials",
			Category:    "Session",
			Sources:     cli.EnvVars("SLACK_SEARCH_PROXY_SESSION_SECRET"),
			Destination: &x.secret,
		},
		&cli.DurationFlag{
			Name:        "session-ttl",
			Usage:       "Lifetime of issued credentials",
			Category:    "Session",
			Value:       session.DefaultTTL,
			Sources:     cli.EnvVars("SLACK_SEARCH_PROXY_SESSION_TTL"),
			Destination: &x.ttl,
		},
	}
}

func (x Session) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("secret.len", len(x.secret)),
		slog.Duration("ttl", x.ttl),
	)
}

// Configure creates the codec. The secret is mandatory.
func (x *Session) Configure() (*session.Codec, error) {
	if x.secret == "" {
		return nil, goerr.New("session signing secret is required: set --session-secret")
	}
	return session.New(x.secret, session.WithTTL(x.ttl))
}
