package domain

// RiskLevel buckets a numeric risk score.
type RiskLevel string

// Risk levels.
const (
	RiskHigh   RiskLevel = "HIGH"
	RiskMedium RiskLevel = "MEDIUM"
	RiskLow    RiskLevel = "LOW"
)

// RiskReport is the outcome of an external token risk check.
type RiskReport struct {
	Mint  string
	Score float64
	Risks []string
}

// Level maps the score onto a coarse risk level: HIGH at 7 and above,
// MEDIUM at 4 and above, LOW otherwise.
func (r *RiskReport) Level() RiskLevel {
	switch {
	case r.Score >= 7:
		return RiskHigh
	case r.Score >= 4:
		return RiskMedium
	default:
		return RiskLow
	}
}
