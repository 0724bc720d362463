package http

import (
	"net/http"
	"strconv"

	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/model"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/usecase"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/utils/errutil"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/utils/safe"
)

// searchHandler relays a workspace search. The upstream JSON is returned
// verbatim; usage accounting happens in the background and cannot delay or
// fail this response.
func searchHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := model.SessionFromContext(r.Context())
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		query := r.URL.Query().Get("q")
		limit := intParam(r, "limit")

		body, err := uc.Search(r.Context(), sess, query, limit)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusFor(err))
			return
		}

		relayJSON(w, r, body)
	}
}

// threadHandler relays a thread fetch. channel and ts are required; thread
// retrieval does not count as a question.
func threadHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := model.SessionFromContext(r.Context())
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		channel := r.URL.Query().Get("channel")
		ts := r.URL.Query().Get("ts")
		limit := intParam(r, "limit")

		body, err := uc.Thread(r.Context(), sess, channel, ts, limit)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusFor(err))
			return
		}

		relayJSON(w, r, body)
	}
}

func relayJSON(w http.ResponseWriter, r *http.Request, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	safe.Write(r.Context(), w, body)
}

func intParam(r *http.Request, name string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		return 0
	}
	return val
}
