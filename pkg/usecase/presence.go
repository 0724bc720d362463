package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/interfaces"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/model"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/repository/presence"
)

// PresenceRegistry tracks which identities completed authentication and
// when they were last active, across an in-process cache and an optional
// remote key/value backend. The two copies can diverge transiently and are
// never reconciled; the remote one, when configured, is the source of
// truth for listing.
type PresenceRegistry struct {
	local  interfaces.PresenceStore
	remote interfaces.PresenceStore
	now    func() time.Time
}

// RegistryOption is a functional option for PresenceRegistry
type RegistryOption func(*PresenceRegistry)

// WithRegistryClock overrides the time source, for tests.
func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *PresenceRegistry) {
		r.now = now
	}
}

// NewPresenceRegistry creates a registry. remote may be nil, in which case
// the in-process cache is authoritative and contents do not survive a
// restart.
func NewPresenceRegistry(remote interfaces.PresenceStore, opts ...RegistryOption) *PresenceRegistry {
	r := &PresenceRegistry{
		local:  presence.NewMemory(),
		remote: remote,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RemoteActive reports whether a remote backend is configured.
func (r *PresenceRegistry) RemoteActive() bool {
	return r.remote != nil
}

// RecordConnect registers a successful OAuth exchange. A known identity
// only gets its last_seen refreshed; existence is checked in the remote
// backend first so a reconnect never overwrites the original connect time.
func (r *PresenceRegistry) RecordConnect(ctx context.Context, id model.Identity) error {
	if err := id.Validate(); err != nil {
		return goerr.Wrap(err, "cannot record connect")
	}

	authoritative := r.local
	if r.remote != nil {
		authoritative = r.remote
	}

	exists, err := authoritative.Exists(ctx, id)
	if err != nil {
		return goerr.Wrap(err, "failed to check presence", goerr.V("key", id.Key()))
	}
	if exists {
		return r.Touch(ctx, id)
	}

	rec := model.NewPresenceRecord(id, r.now().UTC())
	if err := r.local.Put(ctx, rec); err != nil {
		return goerr.Wrap(err, "failed to store presence record locally")
	}
	if r.remote != nil {
		if err := r.remote.Put(ctx, rec); err != nil {
			return goerr.Wrap(err, "failed to store presence record remotely")
		}
	}

	return nil
}

// Touch refreshes last_seen in both backends unconditionally.
func (r *PresenceRegistry) Touch(ctx context.Context, id model.Identity) error {
	now := r.now().UTC()

	if err := r.local.Touch(ctx, id, now); err != nil {
		return goerr.Wrap(err, "failed to touch local presence", goerr.V("key", id.Key()))
	}
	if r.remote != nil {
		if err := r.remote.Touch(ctx, id, now); err != nil {
			return goerr.Wrap(err, "failed to touch remote presence", goerr.V("key", id.Key()))
		}
	}

	return nil
}

// ListAll returns every known presence record, from the remote backend
// when one is configured.
func (r *PresenceRegistry) ListAll(ctx context.Context) ([]*model.PresenceRecord, error) {
	store := r.local
	if r.remote != nil {
		store = r.remote
	}

	records, err := store.List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list presence records")
	}

	return records, nil
}
