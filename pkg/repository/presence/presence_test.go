package presence_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/interfaces"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/model"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/types"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/repository/presence"
)

func presenceIdentity(suffix string) model.Identity {
	return model.Identity{
		TeamID:   types.TeamID("T" + suffix),
		TeamName: "Acme Corp",
		UserID:   types.UserID("U" + suffix),
		UserName: "Jane Smith",
	}
}

func runPresenceStoreTest(t *testing.T, newStore func(t *testing.T) interfaces.PresenceStore) {
	t.Helper()

	t.Run("Put then Exists and List", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		id := presenceIdentity(fmt.Sprintf("%d", time.Now().UnixNano()))
		now := time.Now().UTC().Truncate(time.Second)

		exists, err := store.Exists(ctx, id)
		gt.NoError(t, err).Required()
		gt.Bool(t, exists).False()

		gt.NoError(t, store.Put(ctx, model.NewPresenceRecord(id, now))).Required()

		exists, err = store.Exists(ctx, id)
		gt.NoError(t, err).Required()
		gt.Bool(t, exists).True()

		records, err := store.List(ctx)
		gt.NoError(t, err).Required()

		var found *model.PresenceRecord
		for _, rec := range records {
			if rec.Identity().Key() == id.Key() {
				found = rec
			}
		}
		gt.Value(t, found).NotNil().Required()
		gt.Bool(t, found.ConnectedAt.Equal(now)).True()
		gt.Bool(t, found.LastSeen.Equal(now)).True()
	})

	t.Run("Touch refreshes last_seen but not connected_at", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		id := presenceIdentity(fmt.Sprintf("%d", time.Now().UnixNano()))
		connected := time.Now().UTC().Truncate(time.Second)
		later := connected.Add(time.Minute)

		gt.NoError(t, store.Put(ctx, model.NewPresenceRecord(id, connected))).Required()
		gt.NoError(t, store.Touch(ctx, id, later)).Required()

		records, err := store.List(ctx)
		gt.NoError(t, err).Required()

		var found *model.PresenceRecord
		for _, rec := range records {
			if rec.Identity().Key() == id.Key() {
				found = rec
			}
		}
		gt.Value(t, found).NotNil().Required()
		gt.Bool(t, found.ConnectedAt.Equal(connected)).True()
		gt.Bool(t, found.LastSeen.Equal(later)).True()
	})

	t.Run("Touch materializes an unknown identity", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		id := presenceIdentity(fmt.Sprintf("%d", time.Now().UnixNano()))
		now := time.Now().UTC().Truncate(time.Second)

		gt.NoError(t, store.Touch(ctx, id, now)).Required()

		exists, err := store.Exists(ctx, id)
		gt.NoError(t, err).Required()
		gt.Bool(t, exists).True()
	})

	t.Run("Put rejects incomplete identity", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		rec := model.NewPresenceRecord(model.Identity{UserID: "U001"}, time.Now().UTC())
		gt.Value(t, store.Put(ctx, rec)).NotNil()
	})
}

func TestMemoryPresenceStore(t *testing.T) {
	runPresenceStoreTest(t, func(t *testing.T) interfaces.PresenceStore {
		return presence.NewMemory()
	})
}

func TestRedisPresenceStore(t *testing.T) {
	runPresenceStoreTest(t, func(t *testing.T) interfaces.PresenceStore {
		t.Helper()

		rawURL := os.Getenv("TEST_REDIS_URL")
		if rawURL == "" {
			t.Skip("TEST_REDIS_URL not set")
		}

		store, err := presence.NewRedis(context.Background(), rawURL)
		gt.NoError(t, err).Required()
		t.Cleanup(func() {
			gt.NoError(t, store.Close())
		})
		return store
	})
}
