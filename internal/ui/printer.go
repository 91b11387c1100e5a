package ui

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/sgdash/sgdash/internal/models"
	"github.com/sgdash/sgdash/internal/view"
)

// RenderDashboard prints one full view model: metrics, donut legend, the
// current table page and the pagination bar.
func RenderDashboard(vm view.ViewModel) {
	if vm.Err != "" {
		pterm.Error.Printf("Data source error: %s\n", vm.Err)
		pterm.Info.Println("Showing an empty dataset. Use 'rescan' or reload once the source recovers.")
		pterm.Println()
	}
	if vm.DataWarnings > 0 {
		pterm.Warning.Printf("%d records carried an unrecognized risk label (risk was recomputed from the port range)\n", vm.DataWarnings)
	}

	printMetrics(vm.Metrics)
	for _, line := range DonutLines(vm.Slices, vm.Legend) {
		pterm.Println(line)
	}
	pterm.Println()

	printTable(vm)

	if bar := PaginationBar(vm.Controls); bar != "" {
		pterm.Println(bar)
	}
	if vm.TotalFiltered > 0 {
		pterm.FgGray.Printf("Page %d of %d (%d matching rules)\n", vm.CurrentPage, vm.TotalPages, vm.TotalFiltered)
	}
}

func printMetrics(m models.MetricsSnapshot) {
	pterm.DefaultSection.Println("Public Exposure Summary")
	pterm.Printf("  Security Groups: %s   Public Rules: %s   Allowed: %s   High Risk: %s\n\n",
		pterm.FgCyan.Sprintf("%d", m.TotalGroups),
		pterm.FgCyan.Sprintf("%d", m.TotalRules),
		pterm.FgGreen.Sprintf("%d", m.AllowedRules),
		pterm.FgRed.Sprintf("%d", m.HighRiskRules),
	)
}

func printTable(vm view.ViewModel) {
	if vm.TotalFiltered == 0 {
		if vm.SearchQuery != "" {
			pterm.Info.Printf("No rules match %q.\n", vm.SearchQuery)
		} else {
			pterm.Success.Println("No publicly reachable rules in this snapshot.")
		}
		return
	}

	data := [][]string{{
		columnHeader("Group Name", view.SortGroupName, vm),
		columnHeader("Group ID", view.SortGroupID, vm),
		columnHeader("Protocol", view.SortProtocol, vm),
		columnHeader("Port Range", view.SortPortRange, vm),
		columnHeader("Open To", view.SortOpenTo, vm),
		columnHeader("Risk", view.SortRisk, vm),
	}}

	for _, r := range vm.PageRows {
		data = append(data, []string{
			r.SecurityGroupName,
			pterm.FgCyan.Sprint(r.SecurityGroupID),
			r.Protocol,
			r.PortRange,
			r.OpenTo,
			riskCell(r.Risk),
		})
	}

	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func riskCell(risk models.RiskLevel) string {
	if risk == models.RiskAllowed {
		return pterm.FgGreen.Sprint(string(risk))
	}
	return pterm.FgRed.Sprint(string(risk))
}

// columnHeader appends the sort indicator to the active sort column.
func columnHeader(label string, col view.SortColumn, vm view.ViewModel) string {
	if col != vm.SortColumn {
		return label
	}
	if vm.SortDirection == view.Ascending {
		return label + " ▲"
	}
	return label + " ▼"
}

// donutBarWidth is the character width of a full circle in the textual donut.
const donutBarWidth = 30

// DonutLines renders the chart slices as proportional bar lines with a
// legend. Pure string assembly so it stays testable; colors come from the
// slice labels.
func DonutLines(slices []view.Slice, legend []view.LegendEntry) []string {
	var lines []string
	for _, s := range slices {
		cells := int(s.Fraction*donutBarWidth + 0.5)
		if cells < 1 {
			cells = 1
		}
		bar := strings.Repeat("█", cells)
		lines = append(lines, fmt.Sprintf("  %s %s %.1f%%", paintSwatch(s.Label, bar), s.Label, s.Fraction*100))
	}
	for _, l := range legend {
		lines = append(lines, fmt.Sprintf("  %s %s: %d", paintSwatch(l.Label, "■"), l.Label, l.Count))
	}
	return lines
}

func paintSwatch(label, s string) string {
	switch label {
	case string(models.RiskAllowed):
		return pterm.FgGreen.Sprint(s)
	case string(models.RiskHigh):
		return pterm.FgRed.Sprint(s)
	}
	return pterm.FgGray.Sprint(s)
}

// PaginationBar renders the control sequence as a single line, e.g.
// "‹ 1 … 4 [5] 6 … 9 ›". Empty when there are no controls.
func PaginationBar(controls []view.PageControl) string {
	if len(controls) == 0 {
		return ""
	}
	parts := make([]string, 0, len(controls))
	for _, c := range controls {
		switch c.Kind {
		case view.ControlPrev:
			parts = append(parts, dimIf("‹", c.Disabled))
		case view.ControlNext:
			parts = append(parts, dimIf("›", c.Disabled))
		case view.ControlGap:
			parts = append(parts, "…")
		case view.ControlPage:
			label := fmt.Sprintf("%d", c.Page)
			if c.Active {
				label = pterm.FgLightCyan.Sprintf("[%d]", c.Page)
			}
			parts = append(parts, label)
		}
	}
	return strings.Join(parts, " ")
}

func dimIf(s string, disabled bool) string {
	if disabled {
		return pterm.FgGray.Sprint(s)
	}
	return s
}

func StartSpinner(text string) *pterm.SpinnerPrinter {
	spinner, _ := pterm.DefaultSpinner.Start(text)
	return spinner
}

func UpdateSpinner(spinner *pterm.SpinnerPrinter, text string) {
	if spinner != nil {
		spinner.UpdateText(text)
	}
}
