package classify

import (
	"strings"

	"github.com/sgdash/sgdash/internal/models"
)

// allowedPorts are the only port ranges considered safe for public exposure.
// Comparison is on the trimmed string, so "80-90" or "0080" do not qualify.
var allowedPorts = map[string]struct{}{
	"80":  {},
	"443": {},
}

// Classify maps a port range onto a risk level. It is total: any input,
// however malformed, yields a deterministic answer.
func Classify(portRange string) models.RiskLevel {
	if _, ok := allowedPorts[strings.TrimSpace(portRange)]; ok {
		return models.RiskAllowed
	}
	return models.RiskHigh
}

// Ingest coerces raw records into Rules and classifies each one, overwriting
// whatever risk label the payload carried. The second return counts records
// whose incoming label was non-empty but not a recognizable variant of the
// two canonical labels, surfaced as a data-quality signal.
func Ingest(raw []models.RawRule) ([]models.Rule, int) {
	rules := make([]models.Rule, 0, len(raw))
	unknownLabels := 0
	for _, rr := range raw {
		rule := rr.Coerce()
		if label := rr.RawRiskLabel(); label != "" {
			if _, ok := models.ParseRiskLevel(label); !ok {
				unknownLabels++
			}
		}
		rule.Risk = Classify(rule.PortRange)
		rules = append(rules, rule)
	}
	return rules, unknownLabels
}
