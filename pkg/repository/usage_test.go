package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/interfaces"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/model"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/types"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/repository/firestore"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/repository/memory"
)

func usageIdentity(suffix string) model.Identity {
	return model.Identity{
		TeamID:   types.TeamID("T" + suffix),
		TeamName: "Acme Corp",
		UserID:   types.UserID("U" + suffix),
		UserName: "Jane Smith",
	}
}

func runUsageStoreTest(t *testing.T, newStore func(t *testing.T) interfaces.UsageStore) {
	t.Helper()

	t.Run("RecordQuestion creates entry with count 1", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		id := usageIdentity(fmt.Sprintf("%d", time.Now().UnixNano()))
		now := time.Now().UTC().Truncate(time.Millisecond)

		entry, err := store.RecordQuestion(ctx, id, now)
		gt.NoError(t, err).Required()

		gt.Value(t, entry.QuestionCount).Equal(int64(1))
		gt.Value(t, entry.UserID).Equal(id.UserID.String())
		gt.Value(t, entry.TeamID).Equal(id.TeamID.String())
		gt.Value(t, entry.UserName).Equal("Jane Smith")
		gt.Value(t, entry.FirstName).Equal("Jane")
		gt.Value(t, entry.LastName).Equal("Smith")
		gt.Bool(t, entry.FirstQuestionAt.Equal(entry.LastQuestionAt)).True()
		gt.Bool(t, entry.FirstSeen.Equal(entry.LastSeen)).True()
	})

	t.Run("RecordQuestion increments and keeps first timestamps", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		id := usageIdentity(fmt.Sprintf("%d", time.Now().UnixNano()))
		first := time.Now().UTC().Truncate(time.Millisecond)
		second := first.Add(time.Minute)

		created, err := store.RecordQuestion(ctx, id, first)
		gt.NoError(t, err).Required()

		updated, err := store.RecordQuestion(ctx, id, second)
		gt.NoError(t, err).Required()

		gt.Value(t, updated.QuestionCount).Equal(int64(2))
		gt.Bool(t, updated.FirstQuestionAt.Equal(created.FirstQuestionAt)).True()
		gt.Bool(t, updated.FirstSeen.Equal(created.FirstSeen)).True()
		gt.Bool(t, updated.LastQuestionAt.After(updated.FirstQuestionAt)).True()
		gt.Bool(t, updated.LastSeen.After(updated.FirstSeen)).True()
	})

	t.Run("GetUsage returns stored entry", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		id := usageIdentity(fmt.Sprintf("%d", time.Now().UnixNano()))
		_, err := store.RecordQuestion(ctx, id, time.Now().UTC())
		gt.NoError(t, err).Required()

		entry, err := store.GetUsage(ctx, id)
		gt.NoError(t, err).Required()
		gt.Value(t, entry.QuestionCount).Equal(int64(1))
	})

	t.Run("GetUsage returns ErrNotFound for unknown identity", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		_, err := store.GetUsage(ctx, usageIdentity(fmt.Sprintf("%d", time.Now().UnixNano())))
		gt.Value(t, err).NotNil()
		gt.Bool(t, errors.Is(err, types.ErrNotFound)).True()
	})

	t.Run("RecordQuestion rejects incomplete identity", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		_, err := store.RecordQuestion(ctx, model.Identity{UserID: "U001"}, time.Now().UTC())
		gt.Value(t, err).NotNil()
	})

	t.Run("Concurrent questions from distinct users keep separate counts", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		const users = 8
		const questionsPerUser = 5
		base := fmt.Sprintf("%d", time.Now().UnixNano())

		var wg sync.WaitGroup
		for i := 0; i < users; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				id := usageIdentity(fmt.Sprintf("%s-%d", base, i))
				for j := 0; j < questionsPerUser; j++ {
					_, err := store.RecordQuestion(ctx, id, time.Now().UTC())
					gt.NoError(t, err)
				}
			}(i)
		}
		wg.Wait()

		for i := 0; i < users; i++ {
			id := usageIdentity(fmt.Sprintf("%s-%d", base, i))
			entry, err := store.GetUsage(ctx, id)
			gt.NoError(t, err).Required()
			gt.Value(t, entry.QuestionCount).Equal(int64(questionsPerUser))
		}
	})

	t.Run("Ping succeeds", func(t *testing.T) {
		store := newStore(t)
		gt.NoError(t, store.Ping(context.Background()))
	})
}

func TestMemoryUsageStore(t *testing.T) {
	runUsageStoreTest(t, func(t *testing.T) interfaces.UsageStore {
		return memory.New()
	})
}

func TestFirestoreUsageStore(t *testing.T) {
	runUsageStoreTest(t, func(t *testing.T) interfaces.UsageStore {
		t.Helper()

		projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
		if projectID == "" {
			t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
		}
		databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

		ctx := context.Background()
		store, err := firestore.New(ctx, projectID, databaseID)
		gt.NoError(t, err).Required()
		t.Cleanup(func() {
			gt.NoError(t, store.Close())
		})
		return store
	})
}
