package model

import (
	"context"
	"time"
)

// Session is the verified content of a bearer credential: the caller's
// identity plus the Slack user token embedded at mint time. Downstream
// calls use the embedded token and never re-contact Slack for auth.
type Session struct {
	Identity   Identity
	SlackToken string `masq:"secret"`
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// TokenGrant is the response body of a successful token exchange.
type TokenGrant struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type ctxSessionKey struct{}

// ContextWithSession returns a context carrying the verified session.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, ctxSessionKey{}, sess)
}

// SessionFromContext returns the session attached by the request gate.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(ctxSessionKey{}).(*Session)
	return sess, ok
}
