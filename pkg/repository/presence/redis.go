package presence

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/interfaces"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/model"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/types"
)

const (
	userKeyPrefix = "slack-search-proxy:user:"
	indexKey      = "slack-search-proxy:users"

	// DefaultRetention bounds how long the remote copy of a presence
	// record outlives its last refresh. The in-process copy carries no
	// such window.
	DefaultRetention = 90 * 24 * time.Hour

	listConcurrency = 8
)

// Redis is the remote presence backend: one hash per user plus one set of
// all user keys as the listing index. When configured it is the source of
// truth for ListAll.
type Redis struct {
	rdb       *redis.Client
	retention time.Duration
}

var _ interfaces.PresenceStore = &Redis{}

// RedisOption is a functional option for Redis configuration
type RedisOption func(*Redis)

// WithRetention overrides the expiry window on remote records. Zero
// disables expiry.
func WithRetention(retention time.Duration) RedisOption {
	return func(r *Redis) {
		r.retention = retention
	}
}

// NewRedis connects to the key/value store given a redis:// URL and
// verifies the connection with a ping.
func NewRedis(ctx context.Context, rawURL string, opts ...RedisOption) (*Redis, error) {
	redisOpts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid redis URL")
	}

	r := &Redis{
		rdb:       redis.NewClient(redisOpts),
		retention: DefaultRetention,
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.rdb.Ping(ctx).Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to ping redis")
	}

	return r, nil
}

func userKey(id model.Identity) string {
	return userKeyPrefix + id.Key()
}

func (r *Redis) Exists(ctx context.Context, id model.Identity) (bool, error) {
	n, err := r.rdb.Exists(ctx, userKey(id)).Result()
	if err != nil {
		return false, goerr.Wrap(err, "failed to check presence record", goerr.V("key", id.Key()))
	}
	return n > 0, nil
}

func (r *Redis) Put(ctx context.Context, rec *model.PresenceRecord) error {
	id := rec.Identity()
	if err := id.Validate(); err != nil {
		return goerr.Wrap(err, "cannot store presence record")
	}

	key := userKey(id)
	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"team_id":      id.TeamID.String(),
		"user_id":      id.UserID.String(),
		"team_name":    id.TeamName,
		"user_name":    id.UserName,
		"connected_at": rec.ConnectedAt.UTC().Format(time.RFC3339),
		"last_seen":    rec.LastSeen.UTC().Format(time.RFC3339),
	})
	pipe.SAdd(ctx, indexKey, key)
	if r.retention > 0 {
		pipe.Expire(ctx, key, r.retention)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return goerr.Wrap(err, "failed to store presence record", goerr.V("key", id.Key()))
	}
	return nil
}

// Touch refreshes last_seen unconditionally and re-arms the retention
// window. The key is re-added to the index in case expiry removed the hash
// but not the index entry.
func (r *Redis) Touch(ctx context.Context, id model.Identity, now time.Time) error {
	key := userKey(id)
	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, key,
		"team_id", id.TeamID.String(),
		"user_id", id.UserID.String(),
		"last_seen", now.UTC().Format(time.RFC3339),
	)
	pipe.SAdd(ctx, indexKey, key)
	if r.retention > 0 {
		pipe.Expire(ctx, key, r.retention)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return goerr.Wrap(err, "failed to touch presence record", goerr.V("key", id.Key()))
	}
	return nil
}

// List reads the index set and fetches each user hash, a few in parallel.
// Keys whose hash expired are skipped.
func (r *Redis) List(ctx context.Context) ([]*model.PresenceRecord, error) {
	keys, err := r.rdb.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read presence index")
	}

	records := make([]*model.PresenceRecord, len(keys))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(listConcurrency)

	for i, key := range keys {
		eg.Go(func() error {
			fields, err := r.rdb.HGetAll(egCtx, key).Result()
			if err != nil {
				return goerr.Wrap(err, "failed to read presence record", goerr.V("key", key))
			}
			if len(fields) == 0 {
				return nil
			}
			records[i] = recordFromFields(fields)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := make([]*model.PresenceRecord, 0, len(records))
	for _, rec := range records {
		if rec != nil {
			out = append(out, rec)
		}
	}

	return out, nil
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	return r.rdb.Close()
}

func recordFromFields(fields map[string]string) *model.PresenceRecord {
	rec := &model.PresenceRecord{
		TeamID:   types.TeamID(fields["team_id"]),
		UserID:   types.UserID(fields["user_id"]),
		TeamName: fields["team_name"],
		UserName: fields["user_name"],
	}
	if t, err := time.Parse(time.RFC3339, fields["connected_at"]); err == nil {
		rec.ConnectedAt = t
	}
	if t, err := time.Parse(time.RFC3339, fields["last_seen"]); err == nil {
		rec.LastSeen = t
	}
	return rec
}
