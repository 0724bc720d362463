package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	slacksvc "github.com/Caleb5Mathew/slack-search-proxy/pkg/service/slack"
)

// Slack holds the OAuth app credentials for the Slack gateway.
type Slack struct {
	clientID     string
	clientSecret string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-client-id",
			Usage:       "Slack OAuth client ID",
			Category:    "Slack",
			Sources:     cli.EnvVars("SLACK_SEARCH_PROXY_SLACK_CLIENT_ID"),
			Destination: &x.clientID,
		},
		&cli.StringFlag{
			Name:        "slack-client-secret",
			Usage:       "Slack OAuth client secret",
			Category:    "Slack",
			Sources:     cli.EnvVars("SLACK_SEARCH_PROXY_SLACK_CLIENT_SECRET"),
			Destination: &x.clientSecret,
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("client-id", x.clientID),
		slog.Int("client-secret.len", len(x.clientSecret)),
	)
}

// Configure creates the Slack gateway. Both credentials are required: the
// proxy cannot issue tokens without them.
func (x *Slack) Configure() (*slacksvc.Client, error) {
	if x.clientID == "" || x.clientSecret == "" {
		return nil, goerr.New("Slack OAuth configuration is required: set --slack-client-id and --slack-client-secret")
	}
	return slacksvc.New(x.clientID, x.clientSecret)
}
