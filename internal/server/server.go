package server

import (
	"context"
	"net/http"
	"os"

	"github.com/pterm/pterm"
)

// Server exposes the snapshot to dashboard clients: GET /api/rules returns
// the current snapshot JSON and /api/scan reruns the scanner before
// acknowledging. ScanFunc is expected to rewrite the snapshot file.
type Server struct {
	SnapshotPath string
	ScanFunc     func(ctx context.Context) error
}

func New(snapshotPath string, scanFunc func(ctx context.Context) error) *Server {
	return &Server{SnapshotPath: snapshotPath, ScanFunc: scanFunc}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/rules", s.handleRules)
	mux.HandleFunc("/api/scan", s.handleScan)
	return mux
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(s.SnapshotPath)
	if err != nil {
		// No snapshot yet still yields a valid (empty) dataset.
		data = []byte("[]")
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if s.ScanFunc == nil {
		http.Error(w, "scanning not configured", http.StatusServiceUnavailable)
		return
	}
	pterm.Info.Println("Running security group scan...")
	if err := s.ScanFunc(r.Context()); err != nil {
		pterm.Error.Printf("Scan failed: %v\n", err)
		http.Error(w, "scan failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Scan completed"))
}
