package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/model"
)

// AuthorizeURL returns the identity provider's authorize endpoint for the
// OAuth redirect, carrying the fixed read-only scope set.
func (uc *UseCases) AuthorizeURL(redirectURI, state string) string {
	return uc.slack.AuthorizeURL(redirectURI, state)
}

// IssueToken runs the OAuth exchange end to end: trade the single-use code
// for a Slack user token, resolve the (team, user) identity behind it, and
// wrap both inside a signed bearer credential. The Slack token lives only
// inside that credential afterwards; the server stores nothing.
//
// On success the presence registry records the connection without blocking
// the response. The exchange itself is never retried.
func (uc *UseCases) IssueToken(ctx context.Context, code, redirectURI string) (*model.TokenGrant, error) {
	slackToken, err := uc.slack.ExchangeCode(ctx, code, redirectURI)
	if err != nil {
		return nil, err
	}

	id, err := uc.slack.ResolveIdentity(ctx, slackToken)
	if err != nil {
		return nil, err
	}

	credential, err := uc.codec.Mint(*id, slackToken)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to mint credential")
	}

	uc.dispatch(ctx, func(ctx context.Context) error {
		return uc.presence.RecordConnect(ctx, *id)
	})

	return &model.TokenGrant{
		AccessToken: credential,
		TokenType:   "bearer",
		ExpiresIn:   int64(uc.codec.TTL().Seconds()),
	}, nil
}

// Authenticate verifies a bearer credential and reconstructs the session.
// A valid credential also refreshes the caller's last-seen record; that
// update is fire-and-forget and never re-fails the request.
func (uc *UseCases) Authenticate(ctx context.Context, credential string) (*model.Session, error) {
	sess, err := uc.codec.Verify(credential)
	if err != nil {
		return nil, err
	}

	uc.dispatch(ctx, func(ctx context.Context) error {
		return uc.presence.Touch(ctx, sess.Identity)
	})

	return sess, nil
}
