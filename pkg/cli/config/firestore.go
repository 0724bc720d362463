package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	fsrepo "github.com/Caleb5Mathew/slack-search-proxy/pkg/repository/firestore"
)

// Firestore holds configuration for the document-backed usage store.
type Firestore struct {
	projectID  string
	databaseID string
	collection string
}

func (f *Firestore) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Google Cloud project ID for the usage store",
			Category:    "Firestore",
			Sources:     cli.EnvVars("SLACK_SEARCH_PROXY_FIRESTORE_PROJECT_ID"),
			Destination: &f.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore database ID (empty means the default database)",
			Category:    "Firestore",
			Sources:     cli.EnvVars("SLACK_SEARCH_PROXY_FIRESTORE_DATABASE_ID"),
			Destination: &f.databaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection",
			Usage:       "Collection holding per-user usage documents",
			Category:    "Firestore",
			Value:       "questions",
			Sources:     cli.EnvVars("SLACK_SEARCH_PROXY_FIRESTORE_COLLECTION"),
			Destination: &f.collection,
		},
	}
}

func (f Firestore) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("project_id", f.projectID),
		slog.String("database_id", f.databaseID),
		slog.String("collection", f.collection),
	)
}

// Configure creates the Firestore usage store, or (nil, nil) when no
// project ID is set.
func (f *Firestore) Configure(ctx context.Context) (*fsrepo.Firestore, error) {
	if f.projectID == "" {
		return nil, nil
	}

	client, err := fsrepo.New(ctx, f.projectID, f.databaseID,
		fsrepo.WithCollection(f.collection),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Firestore usage store")
	}
	return client, nil
}
