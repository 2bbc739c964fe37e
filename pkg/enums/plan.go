package enums

import "strings"

// Plan is the subscription tier a restaurant signed up with.
type Plan string

const PlanGoupromo Plan = "goupromo"

func (p Plan) String() string {
	return string(p)
}

// NormalizePlan returns the default plan for blank input.
func NormalizePlan(value string) Plan {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return PlanGoupromo
	}
	return Plan(trimmed)
}
