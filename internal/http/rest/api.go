package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bwise1/phishblock/config"
	deps "github.com/bwise1/phishblock/internal/debs"
	"github.com/bwise1/phishblock/util/values"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	defaultIdleTimeout    = time.Minute
	defaultReadTimeout    = 5 * time.Second
	defaultWriteTimeout   = 10 * time.Second
	defaultShutdownPeriod = 30 * time.Second
)

type Handler func(w http.ResponseWriter, r *http.Request) *ServerResponse

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := h(w, r)
	respByte, err := json.Marshal(resp)
	if err != nil {
		writeErrorResponse(w, err, values.Error, "unable to marshal server response")
		return
	}
	writeJSONResponse(w, respByte, resp.StatusCode)
}

// PgxIface is the subset of pgxpool.Pool the repos use. Declared as an
// interface so tests can swap in a pgxmock pool.
type PgxIface interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type API struct {
	Server *http.Server
	Config *config.Config
	Deps   *deps.Dependencies
	DB     PgxIface
}

func (api *API) Serve() error {
	api.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", api.Config.Port),
		IdleTimeout:  defaultIdleTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		Handler:      api.setUpServerHandler(),
	}
	return api.Server.ListenAndServe()
}

func (api *API) setUpServerHandler() http.Handler {
	mux := chi.NewRouter()
	mux.Use(RequestTracing)

	mux.Get("/",
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("PhishBlock API - Decentralized Anti-Phishing Database"))
		},
	)

	mux.Mount("/reports", api.ReportRoutes())
	mux.Mount("/stats", api.StatsRoutes())
	mux.Mount("/ml", api.AnalyzerRoutes())
	mux.Get("/ws", api.Deps.WebSocket.HandleConnections)

	return mux
}

func (a *API) Shutdown() error {
	err := a.Server.Shutdown(context.Background())
	if err != nil {
		return err
	}
	return nil
}
