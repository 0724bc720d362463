package http

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/model"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/usecase"
)

// adminSecretHeader carries the static shared secret for admin endpoints.
const adminSecretHeader = "X-Admin-Secret"

// authMiddleware is the authenticated request gate: it verifies the bearer
// credential, attaches the reconstructed session to the request context
// and stops with 401 on any failure. No fallback. The last-seen refresh
// happens inside Authenticate and never blocks the request.
func authMiddleware(uc *usecase.UseCases) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential, ok := bearerToken(r)
			if !ok {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			sess, err := uc.Authenticate(r.Context(), credential)
			if err != nil {
				// No detail leaks about why the credential was rejected.
				http.Error(w, "Invalid credential", http.StatusUnauthorized)
				return
			}

			ctx := model.ContextWithSession(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

// adminMiddleware gates the admin endpoints behind the shared secret,
// compared in constant time.
func adminMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(adminSecretHeader)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
