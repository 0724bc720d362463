package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/model"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/types"
)

// RecordQuestion creates or increments the usage entry for the identity
// inside a single transaction. Two concurrent increments both succeed:
// each transaction re-reads before writing. The "first" timestamps are set
// once and never moved.
func (f *Firestore) RecordQuestion(ctx context.Context, id model.Identity, now time.Time) (*model.UsageEntry, error) {
	if err := id.Validate(); err != nil {
		return nil, goerr.Wrap(err, "cannot record question")
	}

	ref := f.client.Collection(f.collection).Doc(id.Key())

	var entry *model.UsageEntry
	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				entry = model.NewUsageEntry(id, now)
				return tx.Set(ref, entry)
			}
			return goerr.Wrap(err, "failed to get usage entry")
		}

		entry = &model.UsageEntry{}
		if err := doc.DataTo(entry); err != nil {
			return goerr.Wrap(err, "failed to unmarshal usage entry")
		}
		entry.RecordQuestion(now)
		return tx.Set(ref, entry)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to record question", goerr.V("key", id.Key()))
	}

	return entry, nil
}

// GetUsage returns the entry for the identity, or types.ErrNotFound.
func (f *Firestore) GetUsage(ctx context.Context, id model.Identity) (*model.UsageEntry, error) {
	if err := id.Validate(); err != nil {
		return nil, goerr.Wrap(err, "cannot get usage")
	}

	doc, err := f.client.Collection(f.collection).Doc(id.Key()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(types.ErrNotFound, "no usage entry", goerr.V("key", id.Key()))
		}
		return nil, goerr.Wrap(err, "failed to get usage entry", goerr.V("key", id.Key()))
	}

	var entry model.UsageEntry
	if err := doc.DataTo(&entry); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal usage entry")
	}

	return &entry, nil
}

// ListUsage returns every usage entry in the collection.
func (f *Firestore) ListUsage(ctx context.Context) ([]*model.UsageEntry, error) {
	iter := f.client.Collection(f.collection).Documents(ctx)
	defer iter.Stop()

	var entries []*model.UsageEntry
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate usage entries")
		}

		var entry model.UsageEntry
		if err := doc.DataTo(&entry); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal usage entry", goerr.V("doc", doc.Ref.ID))
		}
		entries = append(entries, &entry)
	}

	return entries, nil
}

// Ping performs a live write/delete round-trip so the diagnostic probe can
// verify the integration end to end.
func (f *Firestore) Ping(ctx context.Context) error {
	ref := f.client.Collection(f.collection).Doc("_diag:" + uuid.NewString())

	if _, err := ref.Set(ctx, map[string]interface{}{"probedAt": time.Now().UTC()}); err != nil {
		return goerr.Wrap(err, "diagnostic write failed")
	}
	if _, err := ref.Delete(ctx); err != nil {
		return goerr.Wrap(err, "diagnostic delete failed")
	}

	return nil
}
