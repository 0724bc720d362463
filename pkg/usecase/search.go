package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/model"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/types"
)

// Search forwards the query to the upstream search API with the session's
// embedded Slack token and returns the upstream JSON verbatim. Once the
// upstream call has been issued, both usage ledgers are updated in the
// background regardless of its outcome.
func (uc *UseCases) Search(ctx context.Context, sess *model.Session, query string, limit int) ([]byte, error) {
	if query == "" {
		return nil, goerr.Wrap(types.ErrBadRequest, "query parameter q is required")
	}
	if limit <= 0 {
		limit = uc.searchLimit
	}

	body, err := uc.slack.SearchMessages(ctx, sess.SlackToken, query, limit)

	uc.recordQuestion(ctx, sess.Identity)

	if err != nil {
		return nil, goerr.Wrap(err, "upstream search failed")
	}
	return body, nil
}

// Thread fetches a thread's replies and returns the upstream JSON
// verbatim. Thread retrieval does not count as a question, so neither
// ledger is touched.
func (uc *UseCases) Thread(ctx context.Context, sess *model.Session, channel, ts string, limit int) ([]byte, error) {
	if channel == "" {
		return nil, goerr.Wrap(types.ErrBadRequest, "channel parameter is required")
	}
	if ts == "" {
		return nil, goerr.Wrap(types.ErrBadRequest, "ts parameter is required")
	}
	if limit <= 0 {
		limit = uc.threadLimit
	}

	body, err := uc.slack.ThreadReplies(ctx, sess.SlackToken, channel, ts, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "upstream thread fetch failed")
	}
	return body, nil
}
