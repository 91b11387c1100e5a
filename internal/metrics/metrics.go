package metrics

import (
	"github.com/sgdash/sgdash/internal/models"
)

// Aggregate computes summary counts over the full classified dataset in one
// pass. It always runs against every rule, not the filtered view, so the
// numbers stay stable while the user searches. An empty dataset yields
// all-zero metrics.
func Aggregate(rules []models.Rule) models.MetricsSnapshot {
	snap := models.MetricsSnapshot{TotalRules: len(rules)}

	seen := map[string]struct{}{}
	for _, r := range rules {
		if _, ok := seen[r.SecurityGroupID]; !ok {
			seen[r.SecurityGroupID] = struct{}{}
			snap.TotalGroups++
		}
		if r.Risk == models.RiskAllowed {
			snap.AllowedRules++
		} else {
			snap.HighRiskRules++
		}
	}
	return snap
}
