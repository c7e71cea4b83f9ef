package rest

import (
	"net/http"

	"github.com/bwise1/phishblock/util"
	"github.com/bwise1/phishblock/util/tracing"
	"github.com/bwise1/phishblock/util/values"
	"github.com/go-chi/chi/v5"
)

func (api *API) StatsRoutes() chi.Router {
	mux := chi.NewRouter()
	mux.Method(http.MethodGet, "/", Handler(api.GetStats))
	return mux
}

func (api *API) GetStats(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	stats, status, message, err := api.GetStatsHelper(r.Context())
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       stats,
	}
}
