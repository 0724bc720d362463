package types

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for the request-facing taxonomy. Handlers map these to
// HTTP statuses; anything else from a persistence backend is swallowed at
// the component boundary after logging.
var (
	// ErrUpstreamAuth: Slack rejected the authorization code exchange or
	// returned no user token. Surfaced as 400 with the upstream detail.
	ErrUpstreamAuth = goerr.New("upstream authorization failed")

	// ErrIdentityResolution: the freshly issued token did not resolve to a
	// valid (team, user) identity. Surfaced as 400.
	ErrIdentityResolution = goerr.New("identity resolution failed")

	// ErrInvalidCredential: bad, malformed or expired bearer credential.
	// Surfaced as 401 without detail.
	ErrInvalidCredential = goerr.New("invalid credential")

	// ErrBadRequest: a required request parameter is missing.
	ErrBadRequest = goerr.New("bad request")

	// ErrNotFound: repository-level absence of a record.
	ErrNotFound = goerr.New("not found")

	// ErrRevisionConflict: a content-store write was rejected because the
	// supplied revision tag no longer matches. The caller may retry
	// against a fresh read.
	ErrRevisionConflict = goerr.New("revision conflict")
)
