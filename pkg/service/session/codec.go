package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"

	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/model"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/types"
)

const (
	// DefaultTTL is the fixed lifetime of a minted credential. There is no
	// server-side revocation; expiry is purely time based.
	DefaultTTL = 7 * 24 * time.Hour

	issuer = "slack-search-proxy"

	claimTeamID     = "team_id"
	claimTeamName   = "team_name"
	claimUserID     = "user_id"
	claimUserName   = "user_name"
	claimSlackToken = "slack_token"
)

// Codec mints and verifies the signed bearer credential that wraps a Slack
// user token and its resolved identity. The codec is stateless: it holds no
// registry of issued tokens.
type Codec struct {
	key jwk.Key
	ttl time.Duration
	now func() time.Time
}

// Option is a functional option for Codec configuration
type Option func(*Codec)

// WithTTL overrides the credential lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *Codec) {
		c.ttl = ttl
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

// New creates a Codec signing with the operator-supplied secret.
func New(secret string, opts ...Option) (*Codec, error) {
	if secret == "" {
		return nil, goerr.New("session signing secret is required")
	}

	key, err := jwk.FromRaw([]byte(secret))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build signing key")
	}

	c := &Codec{
		key: key,
		ttl: DefaultTTL,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// TTL returns the configured credential lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Mint produces a signed credential embedding the identity and the Slack
// user token. The payload round-trips exactly through Verify.
func (c *Codec) Mint(id model.Identity, slackToken string) (string, error) {
	if err := id.Validate(); err != nil {
		return "", goerr.Wrap(err, "cannot mint credential")
	}
	if slackToken == "" {
		return "", goerr.New("cannot mint credential without a Slack token")
	}

	now := c.now().UTC()
	tok, err := jwt.NewBuilder().
		Issuer(issuer).
		JwtID(uuid.NewString()).
		IssuedAt(now).
		Expiration(now.Add(c.ttl)).
		Claim(claimTeamID, id.TeamID.String()).
		Claim(claimTeamName, id.TeamName).
		Claim(claimUserID, id.UserID.String()).
		Claim(claimUserName, id.UserName).
		Claim(claimSlackToken, slackToken).
		Build()
	if err != nil {
		return "", goerr.Wrap(err, "failed to build credential")
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, c.key))
	if err != nil {
		return "", goerr.Wrap(err, "failed to sign credential")
	}

	return string(signed), nil
}

// Verify checks signature, structure and expiry, and reconstructs the
// session. Failures collapse into types.ErrInvalidCredential; the raw
// Slack token is never part of a returned error.
func (c *Codec) Verify(credential string) (*model.Session, error) {
	tok, err := jwt.Parse([]byte(credential),
		jwt.WithKey(jwa.HS256, c.key),
		jwt.WithValidate(true),
		jwt.WithIssuer(issuer),
		jwt.WithClock(jwt.ClockFunc(c.now)),
		jwt.WithAcceptableSkew(10*time.Second),
	)
	if err != nil {
		return nil, goerr.Wrap(types.ErrInvalidCredential, "credential rejected", goerr.V("cause", err.Error()))
	}

	teamID, err := stringClaim(tok, claimTeamID)
	if err != nil {
		return nil, err
	}
	teamName, err := stringClaim(tok, claimTeamName)
	if err != nil {
		return nil, err
	}
	userID, err := stringClaim(tok, claimUserID)
	if err != nil {
		return nil, err
	}
	userName, err := stringClaim(tok, claimUserName)
	if err != nil {
		return nil, err
	}
	slackToken, err := stringClaim(tok, claimSlackToken)
	if err != nil {
		return nil, err
	}

	return &model.Session{
		Identity: model.Identity{
			TeamID:   types.TeamID(teamID),
			TeamName: teamName,
			UserID:   types.UserID(userID),
			UserName: userName,
		},
		SlackToken: slackToken,
		IssuedAt:   tok.IssuedAt(),
		ExpiresAt:  tok.Expiration(),
	}, nil
}

func stringClaim(tok jwt.Token, name string) (string, error) {
	val, ok := tok.Get(name)
	if !ok {
		return "", goerr.Wrap(types.ErrInvalidCredential, "credential claim missing", goerr.V("claim", name))
	}
	s, ok := val.(string)
	if !ok || s == "" {
		return "", goerr.Wrap(types.ErrInvalidCredential, "credential claim malformed", goerr.V("claim", name))
	}
	return s, nil
}
