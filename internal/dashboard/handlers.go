package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Printf("Failed to encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"clients": s.ClientCount(),
	})
}

// handleSummary returns the current word-count summary.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.tracker.Summary(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

// handleCollection returns the full contents of one collection,
// straight from the store.
func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	records, err := s.tracker.Store.GetCollectionContext(r.Context(), name)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"collection": name,
		"records":    records,
	})
}

// handleSnapshots lists the snapshot artifacts.
func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	infos, err := s.tracker.Snapshots.List()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, infos)
}

// handleRoot returns basic server information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>Novelforge Tracker</title>
</head>
<body>
    <h1>Novelforge Tracker</h1>
    <p>Summary: <a href="/api/summary">/api/summary</a></p>
    <p>Collections: <code>/api/collections/{chapters|todos|edit_passes}</code></p>
    <p>Snapshots: <a href="/api/snapshots">/api/snapshots</a></p>
    <p>Live updates: <code>ws://` + r.Host + `/ws</code></p>
</body>
</html>`))
}
