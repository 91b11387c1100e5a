package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/sgdash/sgdash/internal/models"
)

// Loader fetches one raw-record snapshot per call, from an HTTP endpoint when
// URL is set and from a local file otherwise. Either way the result is a
// single complete snapshot, never a stream.
type Loader struct {
	Path string
	URL  string

	// ScanURL, when set, is the rescan trigger endpoint.
	ScanURL string

	HTTPClient *http.Client
}

func (l *Loader) client() *http.Client {
	if l.HTTPClient != nil {
		return l.HTTPClient
	}
	return http.DefaultClient
}

// Fetch returns the raw rule records of the current snapshot. Transport,
// read and decode failures all surface as errors so the caller can drive the
// store into its explicit error state.
func (l *Loader) Fetch(ctx context.Context) ([]models.RawRule, error) {
	var data []byte
	var err error
	if l.URL != "" {
		data, err = l.fetchHTTP(ctx)
	} else {
		data, err = os.ReadFile(l.Path)
		if err != nil {
			err = fmt.Errorf("failed to read snapshot file: %w", err)
		}
	}
	if err != nil {
		return nil, err
	}

	var raw []models.RawRule
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return raw, nil
}

func (l *Loader) fetchHTTP(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build snapshot request: %w", err)
	}
	resp, err := l.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("snapshot endpoint returned status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot response: %w", err)
	}
	return data, nil
}

// Rescan hits the scan trigger endpoint and waits for it to finish. The core
// observes nothing beyond completed or failed; a successful trigger is
// normally followed by a fresh Fetch.
func (l *Loader) Rescan(ctx context.Context) error {
	if l.ScanURL == "" {
		return fmt.Errorf("no scan endpoint configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.ScanURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build scan request: %w", err)
	}
	resp, err := l.client().Do(req)
	if err != nil {
		return fmt.Errorf("failed to trigger scan: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("scan endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// WriteSnapshot persists classified rules as the snapshot file the loader and
// HTTP server read back, creating the data directory on demand.
func WriteSnapshot(path string, rules []models.Rule) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	if rules == nil {
		rules = []models.Rule{}
	}
	data, err := json.MarshalIndent(rules, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}
