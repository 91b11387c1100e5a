package view

import (
	"math"

	"github.com/sgdash/sgdash/internal/models"
)

// chartStartAngle is the top of the circle in a frame where 0 points at
// 3 o'clock and angles grow clockwise.
const chartStartAngle = -math.Pi / 2

const emptyChartLabel = "No data"

// Slice is one angular segment of the risk donut.
type Slice struct {
	Label      string
	Fraction   float64
	StartAngle float64
	EndAngle   float64
}

// LegendEntry pairs a risk label with its count. Zero-count categories keep
// their legend entry even though they emit no slice.
type LegendEntry struct {
	Label    string
	Count    int
	Fraction float64
}

// Project turns the two aggregate counts into donut geometry plus a legend.
// Slices are emitted in fixed order (allowed first), start at the top of the
// circle and tile it exactly: the final slice always ends at startAngle + 2π
// so accumulated float error cannot leave a gap. With both counts zero a
// single neutral full-circle slice is returned instead.
func Project(allowed, highRisk int) ([]Slice, []LegendEntry) {
	total := allowed + highRisk

	if total == 0 {
		slices := []Slice{{
			Label:      emptyChartLabel,
			Fraction:   1,
			StartAngle: chartStartAngle,
			EndAngle:   chartStartAngle + 2*math.Pi,
		}}
		legend := []LegendEntry{
			{Label: string(models.RiskAllowed)},
			{Label: string(models.RiskHigh)},
		}
		return slices, legend
	}

	type segment struct {
		label string
		count int
	}
	segments := []segment{
		{string(models.RiskAllowed), allowed},
		{string(models.RiskHigh), highRisk},
	}

	var slices []Slice
	legend := make([]LegendEntry, 0, len(segments))
	angle := chartStartAngle
	for _, seg := range segments {
		fraction := float64(seg.count) / float64(total)
		legend = append(legend, LegendEntry{Label: seg.label, Count: seg.count, Fraction: fraction})
		if seg.count == 0 {
			continue
		}
		end := angle + fraction*2*math.Pi
		slices = append(slices, Slice{
			Label:      seg.label,
			Fraction:   fraction,
			StartAngle: angle,
			EndAngle:   end,
		})
		angle = end
	}
	if len(slices) > 0 {
		slices[len(slices)-1].EndAngle = chartStartAngle + 2*math.Pi
	}
	return slices, legend
}
