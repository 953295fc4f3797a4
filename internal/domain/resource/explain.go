package resource

import "strings"

const (
	ExplainCoOccurring = "Found facilities accepting clients with co-occurring substance use and mental health disorders. Results prioritized by availability and low-barrier entry."
	ExplainEmergency   = "Showing emergency shelters with immediate availability and 24/7 access. Walk-ins accepted."
	ExplainFood        = "Food resources sorted by proximity. Most locations accept walk-ins and don't require ID."
	ExplainDefault     = "Results ranked by relevance using AI analysis of your query and current resource availability."
)

// minExplainedQuery is the trimmed query length above which search
// responses carry an explanation.
const minExplainedQuery = 3

// MatchKeywords maps a free-text query to a canned explanation. It is a
// fixed keyword lookup and does not influence filtering or ranking.
func MatchKeywords(query string) string {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "rehab") &&
		(strings.Contains(q, "co-occurring") || strings.Contains(q, "mental health") || strings.Contains(q, "mental-health")):
		return ExplainCoOccurring
	case strings.Contains(q, "tonight") || strings.Contains(q, "emergency"):
		return ExplainEmergency
	case strings.Contains(q, "food") || strings.Contains(q, "meal"):
		return ExplainFood
	default:
		return ExplainDefault
	}
}

// Explain returns the explanation for a search query, or "" when the query
// is too short to warrant one.
func Explain(query string) string {
	if len([]rune(strings.TrimSpace(query))) <= minExplainedQuery {
		return ""
	}
	return MatchKeywords(query)
}
