package usecase_test

import (
	"context"
	"strconv"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/model"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/types"
)

// syncDispatch runs background work inline so tests observe ledger and
// presence side effects deterministically.
func syncDispatch(ctx context.Context, handler func(ctx context.Context) error) {
	_ = handler(ctx)
}

func stubIdentity() model.Identity {
	return model.Identity{
		TeamID:   types.TeamID("T0123456789"),
		TeamName: "Acme Corp",
		UserID:   types.UserID("U0123456789"),
		UserName: "Jane Smith",
	}
}

type stubGateway struct {
	mu sync.Mutex

	token       string
	identity    model.Identity
	exchangeErr error
	resolveErr  error

	searchBody  []byte
	searchErr   error
	searchCalls int
	searchLimit int

	threadBody  []byte
	threadErr   error
	threadCalls int
	threadLimit int
}

func (s *stubGateway) ExchangeCode(ctx context.Context, code, redirectURI string) (string, error) {
	if s.exchangeErr != nil {
		return "", s.exchangeErr
	}
	return s.token, nil
}

func (s *stubGateway) ResolveIdentity(ctx context.Context, token string) (*model.Identity, error) {
	if s.resolveErr != nil {
		return nil, s.resolveErr
	}
	id := s.identity
	return &id, nil
}

func (s *stubGateway) SearchMessages(ctx context.Context, token, query string, limit int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchCalls++
	s.searchLimit = limit
	return s.searchBody, s.searchErr
}

func (s *stubGateway) ThreadReplies(ctx context.Context, token, channel, ts string, limit int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threadCalls++
	s.threadLimit = limit
	return s.threadBody, s.threadErr
}

func (s *stubGateway) AuthorizeURL(redirectURI, state string) string {
	return "https://slack.example.com/authorize?state=" + state
}

// stubContentStore is an in-memory single-blob store with the revision
// protocol, able to inject a fixed number of write conflicts.
type stubContentStore struct {
	mu        sync.Mutex
	data      []byte
	rev       int
	conflicts int
	writes    int
}

func (s *stubContentStore) Read(ctx context.Context) ([]byte, types.Revision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, "", nil
	}
	return s.data, types.Revision(strconv.Itoa(s.rev)), nil
}

func (s *stubContentStore) Write(ctx context.Context, data []byte, rev types.Revision) (types.Revision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++

	if s.conflicts > 0 {
		s.conflicts--
		return "", goerr.Wrap(types.ErrRevisionConflict, "stale revision")
	}

	current := types.Revision("")
	if s.data != nil {
		current = types.Revision(strconv.Itoa(s.rev))
	}
	if rev != current {
		return "", goerr.Wrap(types.ErrRevisionConflict, "stale revision")
	}

	s.data = data
	s.rev++
	return types.Revision(strconv.Itoa(s.rev)), nil
}
