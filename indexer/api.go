package indexer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewAPI returns HTTP handler serving the directory from the Store:
//
//	GET /scorers            all scorers
//	GET /scorers/{address}  single scorer, address is either Neo address or LE hex
//	GET /healthz            database health
//	GET /metrics            metrics from the given gatherer
func NewAPI(s *Store, g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/scorers", func(w http.ResponseWriter, r *http.Request) {
		res, err := s.Scorers(r.Context())
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to fetch scorers: %v", err), http.StatusInternalServerError)
			return
		}
		if res == nil {
			res = []ScorerRecord{}
		}

		writeJSON(w, res)
	})

	r.Get("/scorers/{address}", func(w http.ResponseWriter, r *http.Request) {
		addr, err := parseAddress(chi.URLParam(r, "address"))
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid address: %v", err), http.StatusBadRequest)
			return
		}

		res, err := s.Scorer(r.Context(), addr)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "Scorer not found", http.StatusNotFound)
				return
			}
			http.Error(w, fmt.Sprintf("Failed to fetch scorer: %v", err), http.StatusInternalServerError)
			return
		}

		writeJSON(w, res)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := s.Ping(r.Context()); err != nil {
			http.Error(w, fmt.Sprintf("Database is unavailable: %v", err), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	return r
}

func parseAddress(s string) (util.Uint160, error) {
	if h, err := address.StringToUint160(s); err == nil {
		return h, nil
	}
	return util.Uint160DecodeStringLE(s)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, fmt.Sprintf("Failed to encode response: %v", err), http.StatusInternalServerError)
	}
}

// Serve listens on the given address and serves h until the context is done.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve HTTP: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	<-errCh // http.ErrServerClosed

	return err
}
