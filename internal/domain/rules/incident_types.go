package rules

import "strings"

// OtherIncidentType is the sentinel that prompts for a free-text type.
const OtherIncidentType = "Other"

// DefaultIncidentTypes is the built-in list shown on the blotter form.
var DefaultIncidentTypes = []string{
	"Theft",
	"Physical Assault",
	"Verbal Abuse",
	"Trespassing",
	"Vandalism",
	"Noise Complaint",
	"Domestic Dispute",
	"Property Dispute",
	"Unpaid Debt",
	"Threat",
	OtherIncidentType,
}

// MergeIncidentTypes returns defaults without Other, then custom types not
// already listed, then Other. Order is preserved and nothing repeats.
func MergeIncidentTypes(defaults, custom []string) []string {
	seen := make(map[string]bool, len(defaults)+len(custom))
	merged := make([]string, 0, len(defaults)+len(custom)+1)
	add := func(t string) {
		if t == "" || t == OtherIncidentType || seen[t] {
			return
		}
		seen[t] = true
		merged = append(merged, t)
	}
	for _, t := range defaults {
		add(t)
	}
	for _, t := range custom {
		add(strings.TrimSpace(t))
	}
	return append(merged, OtherIncidentType)
}

// IsDefaultIncidentType reports whether t is built in (Other included).
func IsDefaultIncidentType(t string) bool {
	for _, d := range DefaultIncidentTypes {
		if d == t {
			return true
		}
	}
	return false
}
