package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/interfaces"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/model"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/types"
)

// FileLedger maintains the sorted counter table persisted as one text blob
// in the content store, under an optimistic revision protocol: read blob
// and tag, modify, write back with the tag. Concurrent writers race by
// design; a rejected write is retried once against a fresh read and then
// dropped. Best-effort accounting, not a lock.
type FileLedger struct {
	store interfaces.ContentStore
}

// NewFileLedger wraps a content store. A nil store yields a ledger whose
// every call is a silent no-op.
func NewFileLedger(store interfaces.ContentStore) *FileLedger {
	return &FileLedger{store: store}
}

// RecordQuestion increments the identity's row, inserting it with
// questions = 1 when absent. An absent blob is an empty table.
func (l *FileLedger) RecordQuestion(ctx context.Context, id model.Identity) error {
	if l == nil || l.store == nil {
		return nil
	}
	if err := id.Validate(); err != nil {
		return goerr.Wrap(err, "cannot record question")
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		data, rev, err := l.store.Read(ctx)
		if err != nil {
			return goerr.Wrap(err, "failed to read ledger")
		}

		table, err := model.ParseLedgerTable(data)
		if err != nil {
			return goerr.Wrap(err, "failed to parse ledger")
		}
		table.Increment(id)

		out, err := table.Marshal()
		if err != nil {
			return goerr.Wrap(err, "failed to serialize ledger")
		}

		if _, err := l.store.Write(ctx, out, rev); err != nil {
			if errors.Is(err, types.ErrRevisionConflict) {
				lastErr = err
				continue
			}
			return goerr.Wrap(err, "failed to write ledger")
		}
		return nil
	}

	return goerr.Wrap(lastErr, "ledger update lost to concurrent writers", goerr.V("key", id.Key()))
}

// recordQuestion fans one search out to both ledgers. Both calls run
// behind the dispatcher: the response path never waits for them and their
// failures end up in the error log, not in the response.
func (uc *UseCases) recordQuestion(ctx context.Context, id model.Identity) {
	uc.dispatch(ctx, func(ctx context.Context) error {
		return uc.ledger.RecordQuestion(ctx, id)
	})

	uc.dispatch(ctx, func(ctx context.Context) error {
		if uc.usage == nil {
			return nil
		}
		if _, err := uc.usage.RecordQuestion(ctx, id, uc.now().UTC()); err != nil {
			return err
		}
		return nil
	})
}

// UsageStatus is the diagnostic probe's view of the document-store
// integration.
type UsageStatus struct {
	Configured bool   `json:"configured"`
	Ping       string `json:"ping,omitempty"`
	PingError  string `json:"ping_error,omitempty"`
}

// ProbeUsageStore reports whether the document ledger is configured and,
// if so, performs a live write/delete round-trip.
func (uc *UseCases) ProbeUsageStore(ctx context.Context) *UsageStatus {
	if uc.usage == nil {
		return &UsageStatus{Configured: false}
	}

	status := &UsageStatus{Configured: true}
	if err := uc.usage.Ping(ctx); err != nil {
		status.PingError = err.Error()
	} else {
		status.Ping = "ok"
	}

	return status
}
