package slack

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/interfaces"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/model"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/types"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/utils/safe"
)

const (
	authorizeURL = "https://slack.com/oauth/v2/authorize"

	// userScope is the fixed read-only permission set requested for the
	// user token. Search and thread retrieval need nothing else.
	userScope = "search:read"
)

// Client talks to the Slack Web API: OAuth code exchange, identity
// resolution and the two passthrough endpoints.
type Client struct {
	clientID     string
	clientSecret string
	apiURL       string
	httpClient   *http.Client
}

var _ interfaces.SlackGateway = &Client{}

// Option is a functional option for Client configuration
type Option func(*Client)

// WithAPIURL overrides the Slack API base URL, for tests. Must end with a
// slash.
func WithAPIURL(apiURL string) Option {
	return func(c *Client) {
		c.apiURL = apiURL
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a Slack gateway with the app's OAuth client credentials.
func New(clientID, clientSecret string, opts ...Option) (*Client, error) {
	if clientID == "" || clientSecret == "" {
		return nil, goerr.New("Slack client ID and secret are required")
	}

	c := &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		apiURL:       slack.APIURL,
		httpClient:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// AuthorizeURL builds the redirect target for the OAuth authorization
// flow with the fixed read-only user scope.
func (c *Client) AuthorizeURL(redirectURI, state string) string {
	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("user_scope", userScope)
	if redirectURI != "" {
		params.Set("redirect_uri", redirectURI)
	}
	if state != "" {
		params.Set("state", state)
	}
	return authorizeURL + "?" + params.Encode()
}

// ExchangeCode trades the authorization code for a user-scoped access
// token via oauth.v2.access. OAuth codes are single-use, so a failed
// exchange is never retried; the upstream error detail is preserved for
// the caller's diagnosis.
func (c *Client) ExchangeCode(ctx context.Context, code, redirectURI string) (string, error) {
	resp, err := slack.GetOAuthV2ResponseContext(ctx, c.httpClient, c.clientID, c.clientSecret, code, redirectURI)
	if err != nil {
		return "", goerr.Wrap(types.ErrUpstreamAuth, "Slack rejected the code exchange", goerr.V("detail", err.Error()))
	}
	if resp.AuthedUser.AccessToken == "" {
		return "", goerr.Wrap(types.ErrUpstreamAuth, "Slack grant carries no user token", goerr.V("detail", resp.Error))
	}

	return resp.AuthedUser.AccessToken, nil
}

// ResolveIdentity confirms the token with auth.test and returns the stable
// (team, user) identity it belongs to.
func (c *Client) ResolveIdentity(ctx context.Context, token string) (*model.Identity, error) {
	api := slack.New(token,
		slack.OptionAPIURL(c.apiURL),
		slack.OptionHTTPClient(c.httpClient),
	)

	resp, err := api.AuthTestContext(ctx)
	if err != nil {
		return nil, goerr.Wrap(types.ErrIdentityResolution, "auth.test did not confirm the token", goerr.V("detail", err.Error()))
	}

	id := &model.Identity{
		TeamID:   types.TeamID(resp.TeamID),
		TeamName: resp.Team,
		UserID:   types.UserID(resp.UserID),
		UserName: resp.User,
	}
	if err := id.Validate(); err != nil {
		return nil, goerr.Wrap(types.ErrIdentityResolution, "auth.test returned an incomplete identity")
	}

	return id, nil
}

// SearchMessages forwards the query to search.messages and returns the
// upstream response body verbatim, ok or not.
func (c *Client) SearchMessages(ctx context.Context, token, query string, limit int) ([]byte, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("count", strconv.Itoa(limit))
	return c.get(ctx, token, "search.messages", params)
}

// ThreadReplies forwards to conversations.replies and returns the upstream
// response body verbatim.
func (c *Client) ThreadReplies(ctx context.Context, token, channel, ts string, limit int) ([]byte, error) {
	params := url.Values{}
	params.Set("channel", channel)
	params.Set("ts", ts)
	params.Set("limit", strconv.Itoa(limit))
	return c.get(ctx, token, "conversations.replies", params)
}

// get performs a raw Web API call. The typed slack-go client is bypassed
// here on purpose: the facade contract is to relay the upstream JSON
// without re-encoding it.
func (c *Client) get(ctx context.Context, token, method string, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+method+"?"+params.Encode(), nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request", goerr.V("method", method))
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to call Slack API", goerr.V("method", method))
	}
	defer safe.Close(ctx, resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read Slack API response", goerr.V("method", method))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("Slack API returned an error status",
			goerr.V("method", method), goerr.V("status", resp.StatusCode))
	}

	return body, nil
}
