package models

import (
	"strconv"
	"strings"
)

type RiskLevel string

const (
	RiskAllowed  RiskLevel = "ALLOWED"   // port 80 or 443, expected public exposure
	RiskHigh     RiskLevel = "HIGH RISK" // anything else open to the internet
)

// ParseRiskLevel maps a risk label from an upstream payload onto one of the
// two variants. Matching ignores case, spacing, underscores and hyphens, and
// accepts the annotated form "ALLOWED (80/443)" the scan backend emits.
// The second return is false for empty or unrecognized labels.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	norm := strings.ToLower(s)
	norm = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '_', '-':
			return -1
		}
		return r
	}, norm)

	switch {
	case strings.HasPrefix(norm, "allowed"):
		return RiskAllowed, true
	case strings.HasPrefix(norm, "highrisk"), norm == "high":
		return RiskHigh, true
	}
	return "", false
}

// Rule is one ingress permission open to the public internet. Risk is always
// derived from PortRange on ingest; a value carried in the raw payload is
// never trusted.
type Rule struct {
	SecurityGroupName string    `json:"SecurityGroupName"`
	SecurityGroupID   string    `json:"SecurityGroupId"`
	Protocol          string    `json:"Protocol"`
	PortRange         string    `json:"PortRange"`
	OpenTo            string    `json:"OpenTo"`
	Risk              RiskLevel `json:"Risk"`
}

// RawRule is the wire shape of one record in a scan snapshot. Fields are
// decoded loosely because upstream payloads are not guaranteed to carry
// strings everywhere (a bare numeric port range is common).
type RawRule struct {
	SecurityGroupName any `json:"SecurityGroupName"`
	SecurityGroupID   any `json:"SecurityGroupId"`
	Protocol          any `json:"Protocol"`
	PortRange         any `json:"PortRange"`
	OpenTo            any `json:"OpenTo"`
	Risk              any `json:"Risk"`
}

// Coerce normalizes a raw record into the strict Rule shape. Missing or
// unexpectedly typed fields become empty strings; numbers are rendered
// without an exponent so a numeric port range stays searchable. The Risk
// field is left empty here, classification fills it in.
func (r RawRule) Coerce() Rule {
	return Rule{
		SecurityGroupName: coerceString(r.SecurityGroupName),
		SecurityGroupID:   coerceString(r.SecurityGroupID),
		Protocol:          coerceString(r.Protocol),
		PortRange:         coerceString(r.PortRange),
		OpenTo:            coerceString(r.OpenTo),
	}
}

// RawRiskLabel returns the incoming risk label as text, empty when absent.
func (r RawRule) RawRiskLabel() string {
	return coerceString(r.Risk)
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// MetricsSnapshot summarizes a full classified dataset. AllowedRules and
// HighRiskRules always sum to TotalRules; TotalGroups counts distinct
// security group IDs.
type MetricsSnapshot struct {
	TotalGroups   int `json:"total_groups"`
	TotalRules    int `json:"total_rules"`
	AllowedRules  int `json:"allowed_rules"`
	HighRiskRules int `json:"high_risk_rules"`
}
