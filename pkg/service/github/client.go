package github

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/oauth2"

	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/interfaces"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/types"
)

const commitMessage = "Update question counts"

// Client stores one text blob at a fixed path in a GitHub repository,
// using the blob SHA as the revision tag for optimistic concurrency. There
// is no cross-process exclusivity: a write whose tag went stale fails with
// types.ErrRevisionConflict and the caller decides whether to retry.
type Client struct {
	gh     *github.Client
	owner  string
	repo   string
	path   string
	branch string
}

var _ interfaces.ContentStore = &Client{}

// Location pins the repository file the store reads and writes.
type Location struct {
	Owner  string
	Repo   string
	Path   string
	Branch string
}

func (x Location) validate() error {
	if x.Owner == "" || x.Repo == "" || x.Path == "" {
		return goerr.New("content store location requires owner, repo and path",
			goerr.V("owner", x.Owner), goerr.V("repo", x.Repo), goerr.V("path", x.Path))
	}
	return nil
}

// NewWithToken creates a content store authenticated by a personal access
// token.
func NewWithToken(token string, loc Location) (*Client, error) {
	if token == "" {
		return nil, goerr.New("GitHub token is required")
	}
	if err := loc.validate(); err != nil {
		return nil, err
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(context.Background(), src)

	return newClient(github.NewClient(httpClient), loc), nil
}

// NewWithAppAuth creates a content store authenticated as a GitHub App
// installation. privateKey can be a PEM string or a path to a PEM file.
func NewWithAppAuth(appID, installationID int64, privateKey string, loc Location) (*Client, error) {
	if err := loc.validate(); err != nil {
		return nil, err
	}

	var key []byte
	// #nosec G304 -- path comes from CLI flag, not user input
	if data, err := os.ReadFile(privateKey); err == nil {
		key = data
	} else {
		key = []byte(privateKey)
	}

	tr, err := ghinstallation.New(http.DefaultTransport, appID, installationID, key)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport")
	}

	return newClient(github.NewClient(&http.Client{Transport: tr}), loc), nil
}

func newClient(gh *github.Client, loc Location) *Client {
	branch := loc.Branch
	if branch == "" {
		branch = "main"
	}
	return &Client{
		gh:     gh,
		owner:  loc.Owner,
		repo:   loc.Repo,
		path:   loc.Path,
		branch: branch,
	}
}

// Read fetches the blob and its revision tag. An absent file is not an
// error: it reads as an empty blob with an empty tag.
func (c *Client) Read(ctx context.Context) ([]byte, types.Revision, error) {
	file, _, _, err := c.gh.Repositories.GetContents(ctx, c.owner, c.repo, c.path,
		&github.RepositoryContentGetOptions{Ref: c.branch})
	if err != nil {
		if statusOf(err) == http.StatusNotFound {
			return nil, "", nil
		}
		return nil, "", goerr.Wrap(err, "failed to read content",
			goerr.V("repo", c.owner+"/"+c.repo), goerr.V("path", c.path))
	}
	if file == nil {
		return nil, "", goerr.New("path is not a file", goerr.V("path", c.path))
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to decode content", goerr.V("path", c.path))
	}

	return []byte(content), types.Revision(file.GetSHA()), nil
}

// Write stores the blob, supplying the revision tag obtained on Read. A
// stale tag fails with types.ErrRevisionConflict; an empty tag creates the
// file.
func (c *Client) Write(ctx context.Context, data []byte, rev types.Revision) (types.Revision, error) {
	opts := &github.RepositoryContentFileOptions{
		Message: github.Ptr(commitMessage),
		Content: data,
		Branch:  github.Ptr(c.branch),
	}

	var resp *github.RepositoryContentResponse
	var err error
	if rev == "" {
		resp, _, err = c.gh.Repositories.CreateFile(ctx, c.owner, c.repo, c.path, opts)
	} else {
		opts.SHA = github.Ptr(rev.String())
		resp, _, err = c.gh.Repositories.UpdateFile(ctx, c.owner, c.repo, c.path, opts)
	}
	if err != nil {
		switch statusOf(err) {
		case http.StatusConflict, http.StatusUnprocessableEntity:
			return "", goerr.Wrap(types.ErrRevisionConflict, "content changed since last read",
				goerr.V("path", c.path), goerr.V("rev", rev))
		}
		return "", goerr.Wrap(err, "failed to write content",
			goerr.V("repo", c.owner+"/"+c.repo), goerr.V("path", c.path))
	}

	return types.Revision(resp.Content.GetSHA()), nil
}

func statusOf(err error) int {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return errResp.Response.StatusCode
	}
	return 0
}
