package view

import (
	"sync"

	"github.com/sgdash/sgdash/internal/classify"
	"github.com/sgdash/sgdash/internal/metrics"
	"github.com/sgdash/sgdash/internal/models"
)

// ViewModel is the read-only snapshot the presentation adapter renders after
// every command. Slices are rebuilt on each recomputation, so a snapshot is
// never mutated once handed out.
type ViewModel struct {
	Metrics       models.MetricsSnapshot
	PageRows      []models.Rule
	Controls      []PageControl
	Slices        []Slice
	Legend        []LegendEntry
	SortColumn    SortColumn
	SortDirection SortDirection
	SearchQuery   string
	CurrentPage   int
	TotalPages    int
	TotalFiltered int

	// DataWarnings counts raw records whose incoming risk label was not a
	// recognizable variant of the two canonical labels.
	DataWarnings int

	// Err is set when the last load failed; the dataset is empty then.
	Err string
}

// Store owns the canonical dataset and cursor. Every command performs a full
// read-modify-publish cycle under one lock, so readers only ever observe a
// completely recomputed view. Loads carry a generation token: a slow fetch
// that finishes after a newer one cannot overwrite the newer snapshot.
type Store struct {
	mu      sync.Mutex
	rules   []models.Rule
	summary models.MetricsSnapshot
	cursor  Cursor

	warnings int
	errMsg   string

	nextGen    uint64
	appliedGen uint64

	vm ViewModel
}

func NewStore(itemsPerPage int) *Store {
	s := &Store{cursor: DefaultCursor(itemsPerPage)}
	s.recompute()
	return s
}

// BeginLoad reserves a generation token for an in-flight fetch.
func (s *Store) BeginLoad() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextGen++
	return s.nextGen
}

// CompleteLoad installs a fetched snapshot: every record is reclassified, the
// previous dataset is discarded, metrics are recomputed and the cursor drops
// back to page 1 while keeping the sort and search settings. Returns false
// when a newer load already completed, in which case nothing changes.
func (s *Store) CompleteLoad(gen uint64, raw []models.RawRule) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen <= s.appliedGen {
		return false
	}
	s.appliedGen = gen

	s.rules, s.warnings = classify.Ingest(raw)
	s.summary = metrics.Aggregate(s.rules)
	s.errMsg = ""
	s.cursor.CurrentPage = 1
	s.recompute()
	return true
}

// FailLoad drives the store into the explicit empty/error state. Stale
// failures (a newer load already landed) are ignored.
func (s *Store) FailLoad(gen uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen <= s.appliedGen {
		return false
	}
	s.appliedGen = gen

	s.rules = nil
	s.warnings = 0
	s.summary = models.MetricsSnapshot{}
	s.errMsg = err.Error()
	s.cursor.CurrentPage = 1
	s.recompute()
	return true
}

// LoadDataset is the synchronous form of BeginLoad + CompleteLoad.
func (s *Store) LoadDataset(raw []models.RawRule) {
	s.CompleteLoad(s.BeginLoad(), raw)
}

// LoadError is the synchronous form of BeginLoad + FailLoad.
func (s *Store) LoadError(err error) {
	s.FailLoad(s.BeginLoad(), err)
}

// SetSearchQuery replaces the filter and resets to the first page.
func (s *Store) SetSearchQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor.SearchQuery = q
	s.cursor.CurrentPage = 1
	s.recompute()
}

// SetSort activates a sort column. Re-activating the current column flips the
// direction; switching columns starts ascending. Either way the cursor drops
// back to page 1.
func (s *Store) SetSort(col SortColumn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if col == s.cursor.SortColumn {
		if s.cursor.SortDirection == Ascending {
			s.cursor.SortDirection = Descending
		} else {
			s.cursor.SortDirection = Ascending
		}
	} else {
		s.cursor.SortColumn = col
		s.cursor.SortDirection = Ascending
	}
	s.cursor.CurrentPage = 1
	s.recompute()
}

// SetPage moves to an absolute page, clamped to the valid range. Requests
// beyond either edge land on the nearest valid page, never an error.
func (s *Store) SetPage(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor.CurrentPage = clampPage(n, s.vm.TotalPages)
	s.recompute()
}

// NextPage advances one page, a no-op on the last page.
func (s *Store) NextPage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor.CurrentPage = clampPage(s.cursor.CurrentPage+1, s.vm.TotalPages)
	s.recompute()
}

// PrevPage steps back one page, a no-op on the first page.
func (s *Store) PrevPage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor.CurrentPage = clampPage(s.cursor.CurrentPage-1, s.vm.TotalPages)
	s.recompute()
}

// Snapshot returns the current view model.
func (s *Store) Snapshot() ViewModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vm
}

func clampPage(n, totalPages int) int {
	if totalPages < 1 {
		return 1
	}
	if n < 1 {
		return 1
	}
	if n > totalPages {
		return totalPages
	}
	return n
}

// recompute rebuilds the derived view and publishes a fresh view model.
// Callers hold s.mu. When the filtered set shrank under the cursor the page
// resets to 1 and the derivation runs once more, so a published snapshot
// never points past the last page.
func (s *Store) recompute() {
	d := Derive(s.rules, s.cursor)
	if s.cursor.CurrentPage > d.TotalPages && d.TotalPages > 0 {
		s.cursor.CurrentPage = 1
		d = Derive(s.rules, s.cursor)
	}
	if s.cursor.CurrentPage < 1 {
		s.cursor.CurrentPage = 1
		d = Derive(s.rules, s.cursor)
	}

	slices, legend := Project(s.summary.AllowedRules, s.summary.HighRiskRules)

	s.vm = ViewModel{
		Metrics:       s.summary,
		PageRows:      d.PageRows,
		Controls:      PageControls(s.cursor.CurrentPage, d.TotalPages),
		Slices:        slices,
		Legend:        legend,
		SortColumn:    s.cursor.SortColumn,
		SortDirection: s.cursor.SortDirection,
		SearchQuery:   s.cursor.SearchQuery,
		CurrentPage:   s.cursor.CurrentPage,
		TotalPages:    d.TotalPages,
		TotalFiltered: d.TotalFiltered,
		DataWarnings:  s.warnings,
		Err:           s.errMsg,
	}
}
