package presence

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/interfaces"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/model"
)

// Memory is the in-process presence backend. It is always active; when no
// remote backend is configured it is authoritative, which means registry
// contents do not survive a process restart.
type Memory struct {
	mu      sync.RWMutex
	records map[string]*model.PresenceRecord
}

var _ interfaces.PresenceStore = &Memory{}

// NewMemory creates an empty in-process presence backend.
func NewMemory() *Memory {
	return &Memory{
		records: make(map[string]*model.PresenceRecord),
	}
}

func copyRecord(rec *model.PresenceRecord) *model.PresenceRecord {
	copied := *rec
	return &copied
}

func (m *Memory) Exists(ctx context.Context, id model.Identity) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.records[id.Key()]
	return exists, nil
}

func (m *Memory) Put(ctx context.Context, rec *model.PresenceRecord) error {
	if err := rec.Identity().Validate(); err != nil {
		return goerr.Wrap(err, "cannot store presence record")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[rec.Identity().Key()] = copyRecord(rec)
	return nil
}

// Touch refreshes last_seen. An unknown key is materialized with
// connected_at = now so the record is never half-empty.
func (m *Memory) Touch(ctx context.Context, id model.Identity, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, exists := m.records[id.Key()]
	if !exists {
		m.records[id.Key()] = model.NewPresenceRecord(id, now)
		return nil
	}

	rec.LastSeen = now
	return nil
}

func (m *Memory) List(ctx context.Context) ([]*model.PresenceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*model.PresenceRecord, 0, len(m.records))
	for _, rec := range m.records {
		records = append(records, copyRecord(rec))
	}

	return records, nil
}
