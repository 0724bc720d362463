package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/interfaces"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/model"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/types"
)

// Memory is the in-process usage store used in development and tests. It
// mirrors the Firestore store's semantics; contents do not survive a
// process restart.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*model.UsageEntry
}

var _ interfaces.UsageStore = &Memory{}

// New creates an empty in-memory usage store.
func New() *Memory {
	return &Memory{
		entries: make(map[string]*model.UsageEntry),
	}
}

func copyEntry(e *model.UsageEntry) *model.UsageEntry {
	copied := *e
	return &copied
}

// RecordQuestion creates or increments the entry for the identity under a
// lock, matching the transactional semantics of the Firestore store.
func (m *Memory) RecordQuestion(ctx context.Context, id model.Identity, now time.Time) (*model.UsageEntry, error) {
	if err := id.Validate(); err != nil {
		return nil, goerr.Wrap(err, "cannot record question")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.entries[id.Key()]
	if !exists {
		entry = model.NewUsageEntry(id, now)
		m.entries[id.Key()] = entry
	} else {
		entry.RecordQuestion(now)
	}

	return copyEntry(entry), nil
}

// GetUsage returns the entry for the identity, or types.ErrNotFound.
func (m *Memory) GetUsage(ctx context.Context, id model.Identity) (*model.UsageEntry, error) {
	if err := id.Validate(); err != nil {
		return nil, goerr.Wrap(err, "cannot get usage")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, exists := m.entries[id.Key()]
	if !exists {
		return nil, goerr.Wrap(types.ErrNotFound, "no usage entry", goerr.V("key", id.Key()))
	}

	return copyEntry(entry), nil
}

// ListUsage returns every entry.
func (m *Memory) ListUsage(ctx context.Context) ([]*model.UsageEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]*model.UsageEntry, 0, len(m.entries))
	for _, entry := range m.entries {
		entries = append(entries, copyEntry(entry))
	}

	return entries, nil
}

// Ping always succeeds for the in-memory store.
func (m *Memory) Ping(ctx context.Context) error {
	return nil
}

func (m *Memory) Close() error {
	return nil
}
