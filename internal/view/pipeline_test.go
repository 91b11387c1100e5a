package view_test

import (
	"testing"

	"github.com/sgdash/sgdash/internal/models"
	"github.com/sgdash/sgdash/internal/view"
)

func mkRule(name, id, proto, port, openTo string, risk models.RiskLevel) models.Rule {
	return models.Rule{
		SecurityGroupName: name,
		SecurityGroupID:   id,
		Protocol:          proto,
		PortRange:         port,
		OpenTo:            openTo,
		Risk:              risk,
	}
}

func cursor(overrides ...func(*view.Cursor)) view.Cursor {
	c := view.DefaultCursor(10)
	for _, fn := range overrides {
		fn(&c)
	}
	return c
}

// ── filtering ─────────────────────────────────────────────────────────────────

func TestDerive_EmptyQueryKeepsEverything(t *testing.T) {
	rules := []models.Rule{
		mkRule("web", "sg-1", "tcp", "80", "0.0.0.0/0", models.RiskAllowed),
		mkRule("db", "sg-2", "tcp", "5432", "0.0.0.0/0", models.RiskHigh),
	}
	d := view.Derive(rules, cursor())
	if d.TotalFiltered != 2 {
		t.Errorf("TotalFiltered = %d, want 2", d.TotalFiltered)
	}
}

func TestDerive_QueryMatchesCaseInsensitively(t *testing.T) {
	rules := []models.Rule{
		mkRule("Web-Frontend", "sg-1", "tcp", "80", "0.0.0.0/0", models.RiskAllowed),
		mkRule("db", "sg-2", "tcp", "5432", "0.0.0.0/0", models.RiskHigh),
	}
	d := view.Derive(rules, cursor(func(c *view.Cursor) { c.SearchQuery = "WEB" }))
	if d.TotalFiltered != 1 || d.PageRows[0].SecurityGroupName != "Web-Frontend" {
		t.Errorf("query WEB: got %d rows %+v, want only Web-Frontend", d.TotalFiltered, d.PageRows)
	}
}

func TestDerive_QueryMatchesRiskLabel(t *testing.T) {
	rules := []models.Rule{
		mkRule("web", "sg-1", "tcp", "80", "0.0.0.0/0", models.RiskAllowed),
		mkRule("ssh", "sg-2", "tcp", "22", "0.0.0.0/0", models.RiskHigh),
	}
	d := view.Derive(rules, cursor(func(c *view.Cursor) { c.SearchQuery = "high" }))
	if d.TotalFiltered != 1 || d.PageRows[0].SecurityGroupID != "sg-2" {
		t.Errorf("query 'high': got %+v, want only sg-2", d.PageRows)
	}
}

func TestDerive_OpenToMatchedCaseSensitively(t *testing.T) {
	rules := []models.Rule{
		mkRule("a", "sg-1", "tcp", "22", "pl-ABC123", models.RiskHigh),
	}
	// The query is lower-cased before matching; OpenTo keeps its raw casing,
	// so an upper-case token in the CIDR field cannot match.
	d := view.Derive(rules, cursor(func(c *view.Cursor) { c.SearchQuery = "ABC" }))
	if d.TotalFiltered != 0 {
		t.Errorf("upper-case OpenTo token matched lower-cased query, want no match")
	}

	d = view.Derive(rules, cursor(func(c *view.Cursor) { c.SearchQuery = "123" }))
	if d.TotalFiltered != 1 {
		t.Errorf("digit substring of OpenTo should match, got %d rows", d.TotalFiltered)
	}
}

func TestDerive_NoMatchYieldsEmptyDerivation(t *testing.T) {
	rules := []models.Rule{
		mkRule("web", "sg-1", "tcp", "80", "0.0.0.0/0", models.RiskAllowed),
	}
	d := view.Derive(rules, cursor(func(c *view.Cursor) { c.SearchQuery = "zzz" }))
	if d.TotalFiltered != 0 || d.TotalPages != 0 || len(d.PageRows) != 0 {
		t.Errorf("no-match derivation = %+v, want empty", d)
	}
}

// ── sorting ───────────────────────────────────────────────────────────────────

func TestDerive_PortRangeSortsNumerically(t *testing.T) {
	rules := []models.Rule{
		mkRule("a", "sg-1", "tcp", "443", "0.0.0.0/0", models.RiskAllowed),
		mkRule("b", "sg-2", "tcp", "22", "0.0.0.0/0", models.RiskHigh),
		mkRule("c", "sg-3", "tcp", "80", "0.0.0.0/0", models.RiskAllowed),
	}
	d := view.Derive(rules, cursor(func(c *view.Cursor) {
		c.SortColumn = view.SortPortRange
		c.SortDirection = view.Ascending
	}))

	got := []string{d.PageRows[0].PortRange, d.PageRows[1].PortRange, d.PageRows[2].PortRange}
	want := []string{"22", "80", "443"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("numeric port order = %v, want %v", got, want)
		}
	}
}

func TestDerive_NonNumericPortTokensSortLowest(t *testing.T) {
	rules := []models.Rule{
		mkRule("a", "sg-1", "tcp", "22", "0.0.0.0/0", models.RiskHigh),
		mkRule("b", "sg-2", "all", "all", "0.0.0.0/0", models.RiskHigh),
		mkRule("c", "sg-3", "tcp", "1000-2000", "0.0.0.0/0", models.RiskHigh),
	}
	d := view.Derive(rules, cursor(func(c *view.Cursor) {
		c.SortColumn = view.SortPortRange
		c.SortDirection = view.Ascending
	}))
	if d.PageRows[0].PortRange != "all" {
		t.Errorf("non-numeric token should sort first ascending, got %q", d.PageRows[0].PortRange)
	}
	if d.PageRows[1].PortRange != "22" || d.PageRows[2].PortRange != "1000-2000" {
		t.Errorf("range tokens must sort by leading number: got %q then %q",
			d.PageRows[1].PortRange, d.PageRows[2].PortRange)
	}
}

func TestDerive_StringSortIsCaseInsensitive(t *testing.T) {
	rules := []models.Rule{
		mkRule("beta", "sg-1", "tcp", "22", "0.0.0.0/0", models.RiskHigh),
		mkRule("Alpha", "sg-2", "tcp", "22", "0.0.0.0/0", models.RiskHigh),
	}
	d := view.Derive(rules, cursor(func(c *view.Cursor) {
		c.SortColumn = view.SortGroupName
		c.SortDirection = view.Ascending
	}))
	if d.PageRows[0].SecurityGroupName != "Alpha" {
		t.Errorf("ascending name order starts with %q, want Alpha", d.PageRows[0].SecurityGroupName)
	}
}

func TestDerive_SortIsStableForEqualKeys(t *testing.T) {
	rules := []models.Rule{
		mkRule("a", "sg-1", "tcp", "22", "0.0.0.0/0", models.RiskHigh),
		mkRule("b", "sg-2", "tcp", "22", "0.0.0.0/0", models.RiskHigh),
		mkRule("c", "sg-3", "tcp", "22", "0.0.0.0/0", models.RiskHigh),
	}
	d := view.Derive(rules, cursor(func(c *view.Cursor) {
		c.SortColumn = view.SortPortRange
		c.SortDirection = view.Ascending
	}))
	got := []string{d.PageRows[0].SecurityGroupID, d.PageRows[1].SecurityGroupID, d.PageRows[2].SecurityGroupID}
	want := []string{"sg-1", "sg-2", "sg-3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("equal-key order = %v, want original %v", got, want)
		}
	}

	// Sorting again must not reshuffle.
	d2 := view.Derive(rules, cursor(func(c *view.Cursor) {
		c.SortColumn = view.SortPortRange
		c.SortDirection = view.Ascending
	}))
	for i := range d.PageRows {
		if d.PageRows[i].SecurityGroupID != d2.PageRows[i].SecurityGroupID {
			t.Fatalf("repeated sort changed order at %d", i)
		}
	}
}

func TestDerive_DescendingReversesDistinctKeys(t *testing.T) {
	rules := []models.Rule{
		mkRule("a", "sg-1", "tcp", "22", "0.0.0.0/0", models.RiskHigh),
		mkRule("b", "sg-2", "tcp", "80", "0.0.0.0/0", models.RiskAllowed),
		mkRule("c", "sg-3", "tcp", "443", "0.0.0.0/0", models.RiskAllowed),
	}
	asc := view.Derive(rules, cursor(func(c *view.Cursor) {
		c.SortColumn = view.SortPortRange
		c.SortDirection = view.Ascending
	}))
	desc := view.Derive(rules, cursor(func(c *view.Cursor) {
		c.SortColumn = view.SortPortRange
		c.SortDirection = view.Descending
	}))
	n := len(asc.PageRows)
	for i := 0; i < n; i++ {
		if asc.PageRows[i].SecurityGroupID != desc.PageRows[n-1-i].SecurityGroupID {
			t.Fatalf("descending is not the exact reverse of ascending:\nasc:  %+v\ndesc: %+v", asc.PageRows, desc.PageRows)
		}
	}
}

func TestDerive_DoesNotMutateInput(t *testing.T) {
	rules := []models.Rule{
		mkRule("b", "sg-2", "tcp", "443", "0.0.0.0/0", models.RiskAllowed),
		mkRule("a", "sg-1", "tcp", "22", "0.0.0.0/0", models.RiskHigh),
	}
	view.Derive(rules, cursor(func(c *view.Cursor) {
		c.SortColumn = view.SortGroupName
		c.SortDirection = view.Ascending
	}))
	if rules[0].SecurityGroupID != "sg-2" {
		t.Errorf("Derive reordered the caller's slice")
	}
}

// ── pagination ────────────────────────────────────────────────────────────────

func TestDerive_PaginationExactness(t *testing.T) {
	var rules []models.Rule
	for i := 0; i < 23; i++ {
		rules = append(rules, mkRule("g", "sg-x", "tcp", "22", "0.0.0.0/0", models.RiskHigh))
	}

	d := view.Derive(rules, cursor())
	if d.TotalPages != 3 {
		t.Errorf("23 rules / 10 per page: TotalPages = %d, want 3", d.TotalPages)
	}

	d = view.Derive(rules, cursor(func(c *view.Cursor) { c.CurrentPage = 3 }))
	if len(d.PageRows) != 3 {
		t.Errorf("page 3 has %d rows, want 3", len(d.PageRows))
	}
}

func TestDerive_OutOfRangePageYieldsEmptyRows(t *testing.T) {
	rules := []models.Rule{
		mkRule("g", "sg-1", "tcp", "22", "0.0.0.0/0", models.RiskHigh),
	}
	d := view.Derive(rules, cursor(func(c *view.Cursor) { c.CurrentPage = 5 }))
	if len(d.PageRows) != 0 {
		t.Errorf("out-of-range page returned %d rows, want 0 (clamping is the store's job)", len(d.PageRows))
	}
	if d.TotalFiltered != 1 || d.TotalPages != 1 {
		t.Errorf("totals must still be reported: %+v", d)
	}
}

// ── pagination controls ───────────────────────────────────────────────────────

func kinds(controls []view.PageControl) []view.ControlKind {
	out := make([]view.ControlKind, len(controls))
	for i, c := range controls {
		out[i] = c.Kind
	}
	return out
}

func TestPageControls_NoneForSinglePage(t *testing.T) {
	if got := view.PageControls(1, 1); got != nil {
		t.Errorf("PageControls(1,1) = %v, want nil", got)
	}
	if got := view.PageControls(1, 0); got != nil {
		t.Errorf("PageControls(1,0) = %v, want nil", got)
	}
}

func TestPageControls_WindowWithBothGaps(t *testing.T) {
	controls := view.PageControls(5, 10)

	want := []view.ControlKind{
		view.ControlPrev,
		view.ControlPage, view.ControlGap,
		view.ControlPage, view.ControlPage, view.ControlPage, view.ControlPage, view.ControlPage,
		view.ControlGap, view.ControlPage,
		view.ControlNext,
	}
	got := kinds(controls)
	if len(got) != len(want) {
		t.Fatalf("control sequence %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("control sequence %v, want %v", got, want)
		}
	}

	// Window pages are 3..7 with 5 active; boundaries are 1 and 10.
	if controls[1].Page != 1 || controls[3].Page != 3 || controls[7].Page != 7 || controls[9].Page != 10 {
		t.Errorf("window misplaced: %+v", controls)
	}
	if !controls[5].Active || controls[5].Page != 5 {
		t.Errorf("current page not marked active: %+v", controls[5])
	}
}

func TestPageControls_FirstPageDisablesPrev(t *testing.T) {
	controls := view.PageControls(1, 3)
	if controls[0].Kind != view.ControlPrev || !controls[0].Disabled {
		t.Errorf("prev must be disabled on page 1: %+v", controls[0])
	}
	last := controls[len(controls)-1]
	if last.Kind != view.ControlNext || last.Disabled {
		t.Errorf("next must be enabled on page 1 of 3: %+v", last)
	}
}

func TestPageControls_LastPageDisablesNext(t *testing.T) {
	controls := view.PageControls(3, 3)
	last := controls[len(controls)-1]
	if !last.Disabled {
		t.Errorf("next must be disabled on the last page: %+v", last)
	}
}

func TestPageControls_WindowClampedAtStart(t *testing.T) {
	controls := view.PageControls(1, 10)

	// Window is 1..5, then a gap and the last page. No duplicate page 1.
	pages := map[int]int{}
	for _, c := range controls {
		if c.Kind == view.ControlPage {
			pages[c.Page]++
		}
	}
	for p, n := range pages {
		if n > 1 {
			t.Errorf("page %d emitted %d times", p, n)
		}
	}
	for p := 1; p <= 5; p++ {
		if pages[p] != 1 {
			t.Errorf("expected page %d in clamped window, got %v", p, pages)
		}
	}
	if pages[10] != 1 {
		t.Errorf("expected boundary page 10, got %v", pages)
	}
}

func TestPageControls_NoGapWhenWindowTouchesBoundary(t *testing.T) {
	// total 6, current 3: window 1..5 plus page 6. End gap would collapse to
	// nothing, so no gap marker should be emitted.
	for _, c := range view.PageControls(3, 6) {
		if c.Kind == view.ControlGap {
			t.Errorf("unexpected gap marker in %+v", view.PageControls(3, 6))
			break
		}
	}
}
