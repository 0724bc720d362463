package http

import (
	"net/http"

	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/model"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/usecase"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/utils/errutil"
)

type adminUsersResponse struct {
	Users []*model.PresenceRecord `json:"users"`
	Redis bool                    `json:"redis"`
}

// adminUsersHandler lists every known presence record. The remote backend
// is the source of truth when configured; the redis flag tells the
// operator which mode they are looking at.
func adminUsersHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := uc.Presence().ListAll(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, adminUsersResponse{
			Users: records,
			Redis: uc.Presence().RemoteActive(),
		})
	}
}

// adminFirestoreHandler reports the document-store integration state and,
// when configured, runs a live write/delete round-trip.
func adminFirestoreHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(r.Context(), w, http.StatusOK, uc.ProbeUsageStore(r.Context()))
	}
}
