package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"

	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/interfaces"
)

const defaultCollection = "questions"

// Firestore is the document-backed usage ledger: one aggregate record per
// (team_id, user_id), updated transactionally.
type Firestore struct {
	client     *firestore.Client
	collection string
}

var _ interfaces.UsageStore = &Firestore{}

type Option func(*Firestore)

// WithCollection overrides the usage collection name.
func WithCollection(name string) Option {
	return func(f *Firestore) {
		f.collection = name
	}
}

// New creates a Firestore-backed usage store. databaseID may be empty for
// the default database.
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID == "" {
		client, err = firestore.NewClient(ctx, projectID)
	} else {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:     client,
		collection: defaultCollection,
	}
	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

// Collection returns the usage collection name.
func (f *Firestore) Collection() string {
	return f.collection
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
