package http

import (
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/types"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/usecase"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/utils/errutil"
)

type tokenErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// authorizeHandler starts the OAuth flow: a 302 to the identity provider's
// authorize endpoint with the fixed read-only scope set. redirect_uri and
// state are relayed as supplied by the client.
func authorizeHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		redirectURI := r.URL.Query().Get("redirect_uri")
		state := r.URL.Query().Get("state")

		http.Redirect(w, r, uc.AuthorizeURL(redirectURI, state), http.StatusFound)
	}
}

// tokenHandler exchanges an authorization code for the proxy's own bearer
// credential. Upstream failure detail is surfaced so the client can
// diagnose a bad exchange, but the request is never retried here: OAuth
// codes are single-use and the client must restart the flow.
func tokenHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeTokenError(w, r, goerr.Wrap(types.ErrBadRequest, "malformed request body"))
			return
		}

		code := r.PostFormValue("code")
		redirectURI := r.PostFormValue("redirect_uri")
		if code == "" {
			writeTokenError(w, r, goerr.Wrap(types.ErrBadRequest, "code parameter is required"))
			return
		}

		grant, err := uc.IssueToken(r.Context(), code, redirectURI)
		if err != nil {
			writeTokenError(w, r, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, grant)
	}
}

func writeTokenError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		errutil.HandleHTTP(r.Context(), w, err, status)
		return
	}

	resp := tokenErrorResponse{Error: "oauth_failed"}
	switch {
	case errors.Is(err, types.ErrBadRequest):
		resp.Error = "invalid_request"
	case errors.Is(err, types.ErrIdentityResolution):
		resp.Error = "identity_unresolved"
	}

	var ge *goerr.Error
	if errors.As(err, &ge) {
		if detail, ok := ge.Values()["detail"]; ok {
			if s, ok := detail.(string); ok {
				resp.Details = s
			}
		}
	}
	if resp.Details == "" {
		resp.Details = err.Error()
	}

	_ = errutil.Handle(r.Context(), err, "token exchange failed")
	writeJSON(r.Context(), w, status, resp)
}
