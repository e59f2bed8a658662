package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeIncidentTypes(t *testing.T) {
	merged := MergeIncidentTypes([]string{"Theft", "Vandalism", "Other"}, []string{"Loitering"})
	assert.Equal(t, []string{"Theft", "Vandalism", "Loitering", "Other"}, merged)
}

func TestMergeIncidentTypesSkipsDuplicatesAndOther(t *testing.T) {
	merged := MergeIncidentTypes(
		[]string{"Theft", "Other", "Vandalism"},
		[]string{"Theft", "Other", "Loitering", "Loitering", " Curfew ", ""},
	)
	assert.Equal(t, []string{"Theft", "Vandalism", "Loitering", "Curfew", "Other"}, merged)
}

func TestMergeIncidentTypesWithDefaults(t *testing.T) {
	merged := MergeIncidentTypes(DefaultIncidentTypes, nil)

	assert.Len(t, merged, len(DefaultIncidentTypes))
	assert.Equal(t, OtherIncidentType, merged[len(merged)-1])
	count := 0
	for _, m := range merged {
		if m == OtherIncidentType {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
