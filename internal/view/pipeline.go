package view

import (
	"sort"
	"strconv"
	"strings"

	"github.com/sgdash/sgdash/internal/models"
)

type SortColumn string

const (
	SortGroupName SortColumn = "name"
	SortGroupID   SortColumn = "id"
	SortProtocol  SortColumn = "protocol"
	SortPortRange SortColumn = "port"
	SortOpenTo    SortColumn = "source"
	SortRisk      SortColumn = "risk"
)

type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// Cursor is the UI state driving the derived view: search query, sort key and
// direction, and the pagination position.
type Cursor struct {
	SortColumn    SortColumn
	SortDirection SortDirection
	SearchQuery   string
	CurrentPage   int
	ItemsPerPage  int
}

const DefaultItemsPerPage = 10

// DefaultCursor is the initial UI state: high-risk rules first, no filter,
// first page.
func DefaultCursor(itemsPerPage int) Cursor {
	if itemsPerPage <= 0 {
		itemsPerPage = DefaultItemsPerPage
	}
	return Cursor{
		SortColumn:    SortRisk,
		SortDirection: Descending,
		CurrentPage:   1,
		ItemsPerPage:  itemsPerPage,
	}
}

// Derivation is the visible slice of the dataset for one cursor position.
type Derivation struct {
	PageRows      []models.Rule
	TotalFiltered int
	TotalPages    int
}

// Derive filters, sorts and paginates the full dataset for the given cursor.
// It is a pure function of its inputs: an out-of-range CurrentPage simply
// yields an empty page, clamping is the store's job.
func Derive(rules []models.Rule, cur Cursor) Derivation {
	filtered := filterRules(rules, cur.SearchQuery)
	sortRules(filtered, cur.SortColumn, cur.SortDirection)

	per := cur.ItemsPerPage
	if per <= 0 {
		per = DefaultItemsPerPage
	}

	total := len(filtered)
	totalPages := (total + per - 1) / per

	start := (cur.CurrentPage - 1) * per
	end := start + per
	if start < 0 || start >= total {
		return Derivation{TotalFiltered: total, TotalPages: totalPages}
	}
	if end > total {
		end = total
	}

	return Derivation{
		PageRows:      filtered[start:end],
		TotalFiltered: total,
		TotalPages:    totalPages,
	}
}

// filterRules retains rules containing the query in at least one searchable
// field. The query is lower-cased once; every field except OpenTo is matched
// case-insensitively. OpenTo is matched against the raw value so CIDR and
// prefix-list tokens keep their exact casing.
func filterRules(rules []models.Rule, query string) []models.Rule {
	out := make([]models.Rule, 0, len(rules))
	if query == "" {
		return append(out, rules...)
	}
	q := strings.ToLower(query)
	for _, r := range rules {
		if strings.Contains(strings.ToLower(r.SecurityGroupName), q) ||
			strings.Contains(strings.ToLower(r.SecurityGroupID), q) ||
			strings.Contains(strings.ToLower(r.Protocol), q) ||
			strings.Contains(strings.ToLower(r.PortRange), q) ||
			strings.Contains(r.OpenTo, q) ||
			strings.Contains(strings.ToLower(string(r.Risk)), q) {
			out = append(out, r)
		}
	}
	return out
}

func sortRules(rules []models.Rule, col SortColumn, dir SortDirection) {
	sign := 1
	if dir == Descending {
		sign = -1
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return sign*compareRules(rules[i], rules[j], col) < 0
	})
}

func compareRules(a, b models.Rule, col SortColumn) int {
	if col == SortPortRange {
		pa, pb := leadingInt(a.PortRange), leadingInt(b.PortRange)
		switch {
		case pa < pb:
			return -1
		case pa > pb:
			return 1
		}
		return 0
	}
	return strings.Compare(
		strings.ToLower(sortKey(a, col)),
		strings.ToLower(sortKey(b, col)),
	)
}

func sortKey(r models.Rule, col SortColumn) string {
	switch col {
	case SortGroupName:
		return r.SecurityGroupName
	case SortGroupID:
		return r.SecurityGroupID
	case SortProtocol:
		return r.Protocol
	case SortOpenTo:
		return r.OpenTo
	default:
		return string(r.Risk)
	}
}

// leadingInt parses the leading digit run of a port range ("1000-2000" sorts
// by 1000). Tokens with no leading digits parse to 0 so they sort lowest.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

type ControlKind string

const (
	ControlPrev ControlKind = "prev"
	ControlNext ControlKind = "next"
	ControlPage ControlKind = "page"
	ControlGap  ControlKind = "gap"
)

// PageControl is one element of the pagination bar.
type PageControl struct {
	Kind     ControlKind
	Page     int // set for ControlPage
	Active   bool
	Disabled bool
}

// pageWindow is the number of contiguous page controls shown around the
// current page.
const pageWindow = 5

// PageControls produces the ordered pagination bar for a cursor position:
// prev, a window of up to five pages centered on the current one with
// boundary pages and gap markers injected, then next. A single page needs no
// bar at all.
func PageControls(current, total int) []PageControl {
	if total <= 1 {
		return nil
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	start := current - pageWindow/2
	end := current + pageWindow/2
	if start < 1 {
		end += 1 - start
		start = 1
	}
	if end > total {
		start -= end - total
		end = total
		if start < 1 {
			start = 1
		}
	}

	controls := []PageControl{{Kind: ControlPrev, Disabled: current == 1}}

	if start > 1 {
		controls = append(controls, PageControl{Kind: ControlPage, Page: 1})
		if start > 2 {
			controls = append(controls, PageControl{Kind: ControlGap})
		}
	}
	for p := start; p <= end; p++ {
		controls = append(controls, PageControl{Kind: ControlPage, Page: p, Active: p == current})
	}
	if end < total {
		if end < total-1 {
			controls = append(controls, PageControl{Kind: ControlGap})
		}
		controls = append(controls, PageControl{Kind: ControlPage, Page: total})
	}

	controls = append(controls, PageControl{Kind: ControlNext, Disabled: current == total})
	return controls
}
