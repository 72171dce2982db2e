package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tablemeta/metaindex/pkg/metrics"
)

// Server exposes the operational HTTP surface for a running metaindex
// process.
type Server struct {
	records *RecordStore
	mux     *http.ServeMux
}

// New creates an HTTP server wired to the given RecordStore.
func New(records *RecordStore) *Server {
	mux := http.NewServeMux()
	s := &Server{records: records, mux: mux}

	mux.HandleFunc("/healthz", adaptHandler(metrics.HealthHandler()))
	mux.HandleFunc("/readyz", adaptHandler(metrics.ReadyHandler()))
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/records", s.recordsHandler)

	return s
}

// adaptHandler lets an http.HandlerFunc be registered without losing the
// method-not-allowed guard the other handlers apply.
func adaptHandler(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

// Start runs the HTTP server, blocking until it exits or errors.
func (s *Server) Start(addr string) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      s.mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return server.ListenAndServe()
}

// Handler returns the HTTP handler for embedding in another server, e.g.
// an httptest.Server in tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// recordsResponse is the /records payload: the flattened records for one
// partition type, across all of its file groups.
type recordsResponse struct {
	PartitionType string      `json:"partition_type"`
	RecordCount   int         `json:"record_count"`
	Records       interface{} `json:"records"`
}

func (s *Server) recordsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	pt := r.URL.Query().Get("partition_type")
	if pt == "" {
		http.Error(w, "partition_type query parameter is required", http.StatusBadRequest)
		return
	}

	records := s.records.Get(pt)
	response := recordsResponse{
		PartitionType: pt,
		RecordCount:   len(records),
		Records:       records,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}
