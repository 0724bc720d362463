package interfaces

import (
	"context"
	"time"

	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/model"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/types"
)

// SlackGateway is the slice of the Slack Web API the core depends on.
type SlackGateway interface {
	// ExchangeCode trades a single-use authorization code for a
	// user-scoped access token. Never retried: a failed exchange requires
	// a fresh code.
	ExchangeCode(ctx context.Context, code, redirectURI string) (string, error)

	// ResolveIdentity confirms a token's validity and returns the
	// (team, user) identity it belongs to.
	ResolveIdentity(ctx context.Context, token string) (*model.Identity, error)

	// SearchMessages runs a workspace search with the user's token and
	// returns the upstream JSON verbatim.
	SearchMessages(ctx context.Context, token, query string, limit int) ([]byte, error)

	// ThreadReplies fetches a thread with the user's token and returns the
	// upstream JSON verbatim.
	ThreadReplies(ctx context.Context, token, channel, ts string, limit int) ([]byte, error)

	// AuthorizeURL builds the provider's authorize redirect target with
	// the fixed read-only scope set.
	AuthorizeURL(redirectURI, state string) string
}

// ContentStore is a single remote text blob with optimistic concurrency.
// Read returns the blob and its revision tag; Write only succeeds when the
// supplied tag still matches the stored one, failing with
// types.ErrRevisionConflict otherwise. An absent blob reads as (nil, "").
type ContentStore interface {
	Read(ctx context.Context) ([]byte, types.Revision, error)
	Write(ctx context.Context, data []byte, rev types.Revision) (types.Revision, error)
}

// UsageStore is the document-backed usage ledger.
type UsageStore interface {
	// RecordQuestion atomically creates or increments the entry for the
	// identity within a single transaction.
	RecordQuestion(ctx context.Context, id model.Identity, now time.Time) (*model.UsageEntry, error)

	// GetUsage returns the entry for the identity, or types.ErrNotFound.
	GetUsage(ctx context.Context, id model.Identity) (*model.UsageEntry, error)

	// ListUsage returns all entries.
	ListUsage(ctx context.Context) ([]*model.UsageEntry, error)

	// Ping performs a live write/delete round-trip against the backend.
	Ping(ctx context.Context) error

	Close() error
}

// PresenceStore is one backend of the presence registry.
type PresenceStore interface {
	Exists(ctx context.Context, id model.Identity) (bool, error)
	Put(ctx context.Context, rec *model.PresenceRecord) error
	Touch(ctx context.Context, id model.Identity, now time.Time) error
	List(ctx context.Context) ([]*model.PresenceRecord, error)
}
