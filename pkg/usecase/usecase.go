package usecase

import (
	"time"

	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/interfaces"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/service/session"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/utils/async"
)

const (
	// DefaultSearchLimit caps a search when the client sends no limit.
	DefaultSearchLimit = 50
	// DefaultThreadLimit caps a thread fetch when the client sends no limit.
	DefaultThreadLimit = 100
)

// UseCases wires the proxy's core operations: OAuth token issuance,
// session authentication, the search/thread facade and the usage ledgers.
type UseCases struct {
	slack    interfaces.SlackGateway
	codec    *session.Codec
	presence *PresenceRegistry
	ledger   *FileLedger
	usage    interfaces.UsageStore
	dispatch async.Dispatcher
	now      func() time.Time

	searchLimit int
	threadLimit int
}

// Option is a functional option for UseCases
type Option func(*UseCases)

// WithSlack sets the Slack gateway.
func WithSlack(gw interfaces.SlackGateway) Option {
	return func(uc *UseCases) {
		uc.slack = gw
	}
}

// WithCodec sets the session token codec.
func WithCodec(codec *session.Codec) Option {
	return func(uc *UseCases) {
		uc.codec = codec
	}
}

// WithPresence sets the presence registry.
func WithPresence(reg *PresenceRegistry) Option {
	return func(uc *UseCases) {
		uc.presence = reg
	}
}

// WithContentStore enables the file-backed usage ledger. Without it every
// ledger call is a silent no-op.
func WithContentStore(store interfaces.ContentStore) Option {
	return func(uc *UseCases) {
		uc.ledger = NewFileLedger(store)
	}
}

// WithUsageStore enables the document-backed usage ledger. Without it
// every ledger call is a no-op.
func WithUsageStore(store interfaces.UsageStore) Option {
	return func(uc *UseCases) {
		uc.usage = store
	}
}

// WithLimits overrides the default search/thread limits.
func WithLimits(search, thread int) Option {
	return func(uc *UseCases) {
		if search > 0 {
			uc.searchLimit = search
		}
		if thread > 0 {
			uc.threadLimit = thread
		}
	}
}

// WithDispatcher replaces the background dispatcher; tests use a
// synchronous one to observe ledger side effects deterministically.
func WithDispatcher(d async.Dispatcher) Option {
	return func(uc *UseCases) {
		uc.dispatch = d
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

// New creates the use case set. Presence falls back to an in-process-only
// registry when none is supplied.
func New(opts ...Option) *UseCases {
	uc := &UseCases{
		dispatch:    async.Dispatch,
		now:         time.Now,
		searchLimit: DefaultSearchLimit,
		threadLimit: DefaultThreadLimit,
	}
	for _, opt := range opts {
		opt(uc)
	}

	if uc.presence == nil {
		uc.presence = NewPresenceRegistry(nil)
	}

	return uc
}

// Presence exposes the registry for the admin listing.
func (uc *UseCases) Presence() *PresenceRegistry {
	return uc.presence
}
