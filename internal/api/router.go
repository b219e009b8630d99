package api

import (
	"io"
	"net/http"

	"GasSentinel/internal/pipeline"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// ResultProvider exposes the result of the latest scheduled run.
type ResultProvider interface {
	Latest() *pipeline.Result
}

// NewRouter wires the dashboard endpoints.
func NewRouter(provider ResultProvider, runner *pipeline.CachedRunner, maxUpload int64) *mux.Router {
	s := &Server{provider: provider, runner: runner, maxUpload: maxUpload}
	if s.maxUpload <= 0 {
		s.maxUpload = DefaultMaxUpload
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.HandleFunc("/forecast", s.forecast).Methods(http.MethodGet)
	r.HandleFunc("/plan", s.plan).Methods(http.MethodGet)
	r.HandleFunc("/problems", s.problems).Methods(http.MethodGet)
	r.HandleFunc("/analyze", s.analyze).Methods(http.MethodPost)
	return r
}

// NewHandler wraps the router with request logging and panic recovery.
func NewHandler(router http.Handler, logOut io.Writer) http.Handler {
	recovered := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(router)
	return handlers.LoggingHandler(logOut, recovered)
}
