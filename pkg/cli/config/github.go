package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	ghsvc "github.com/Caleb5Mathew/slack-search-proxy/pkg/service/github"
)

// GitHub holds configuration for the file-backed usage ledger. Either a
// personal access token or a GitHub App key pair authenticates the writes.
type GitHub struct {
	token          string
	appID          int64
	installationID int64
	privateKey     string
	owner          string
	repo           string
	path           string
	branch         string
}

func (g *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub personal access token for the ledger file",
			Category:    "GitHub",
			Sources:     cli.EnvVars("SLACK_SEARCH_PROXY_GITHUB_TOKEN"),
			Destination: &g.token,
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID (alternative to --github-token)",
			Category:    "GitHub",
			Sources:     cli.EnvVars("SLACK_SEARCH_PROXY_GITHUB_APP_ID"),
			Destination: &g.appID,
		},
		&cli.Int64Flag{
			Name:        "github-app-installation-id",
			Usage:       "GitHub App Installation ID",
			Category:    "GitHub",
			Sources:     cli.EnvVars("SLACK_SEARCH_PROXY_GITHUB_APP_INSTALLATION_ID"),
			Destination: &g.installationID,
		},
		&cli.StringFlag{
			Name:        "github-app-private-key",
			Usage:       "GitHub App Private Key (PEM string or file path)",
			Category:    "GitHub",
			Sources:     cli.EnvVars("SLACK_SEARCH_PROXY_GITHUB_APP_PRIVATE_KEY"),
			Destination: &g.privateKey,
		},
		&cli.StringFlag{
			Name:        "github-owner",
			Usage:       "Repository owner of the ledger file",
			Category:    "GitHub",
			Sources:     cli.EnvVars("SLACK_SEARCH_PROXY_GITHUB_OWNER"),
			Destination: &g.owner,
		},
		&cli.StringFlag{
			Name:        "github-repo",
			Usage:       "Repository holding the ledger file",
			Category:    "GitHub",
			Sources:     cli.EnvVars("SLACK_SEARCH_PROXY_GITHUB_REPO"),
			Destination: &g.repo,
		},
		&cli.StringFlag{
			Name:        "github-path",
			Usage:       "Path of the ledger file within the repository",
			Category:    "GitHub",
			Value:       "questions.csv",
			Sources:     cli.EnvVars("SLACK_SEARCH_PROXY_GITHUB_PATH"),
			Destination: &g.path,
		},
		&cli.StringFlag{
			Name:        "github-branch",
			Usage:       "Branch of the ledger file",
			Category:    "GitHub",
			Value:       "main",
			Sources:     cli.EnvVars("SLACK_SEARCH_PROXY_GITHUB_BRANCH"),
			Destination: &g.branch,
		},
	}
}

func (g GitHub) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("owner", g.owner),
		slog.String("repo", g.repo),
		slog.String("path", g.path),
		slog.String("branch", g.branch),
		slog.Bool("token", g.token != ""),
		slog.Int64("app_id", g.appID),
	)
}

// IsConfigured returns true when a repository location and one auth mode
// are fully set. A half-configured ledger is treated as absent: the file
// ledger degrades to a no-op rather than failing searches.
func (g *GitHub) IsConfigured() bool {
	if g.owner == "" || g.repo == "" || g.path == "" {
		return false
	}
	return g.token != "" || (g.appID != 0 && g.installationID != 0 && g.privateKey != "")
}

// Configure creates the content store, or (nil, nil) when the ledger is
// not configured.
func (g *GitHub) Configure() (*ghsvc.Client, error) {
	if !g.IsConfigured() {
		return nil, nil
	}

	loc := ghsvc.Location{
		Owner:  g.owner,
		Repo:   g.repo,
		Path:   g.path,
		Branch: g.branch,
	}

	if g.token != "" {
		client, err := ghsvc.NewWithToken(g.token, loc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create GitHub content store")
		}
		return client, nil
	}

	client, err := ghsvc.NewWithAppAuth(g.appID, g.installationID, g.privateKey, loc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub content store")
	}
	return client, nil
}
