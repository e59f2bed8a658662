package rules

import (
	"strings"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/models"
)

// VoterEvidence is the part of a resident record the voter check looks at.
// Empty URLs count as absent. Only the flag is optional: nil means the
// record does not carry it.
type VoterEvidence struct {
	NationalIDFrontURL string
	NationalIDBackURL  string
	VotersIDFrontURL   string
	VotersIDBackURL    string
	LegacyIDURL        string
	IsRegisteredVoter  *bool
}

// IsRegisteredVoter reports whether any ID-document URL is present (a
// non-empty value starting with "http") or the explicit flag is true.
func IsRegisteredVoter(e VoterEvidence) bool {
	for _, u := range []string{
		e.NationalIDFrontURL,
		e.NationalIDBackURL,
		e.VotersIDFrontURL,
		e.VotersIDBackURL,
		e.LegacyIDURL,
	} {
		if isDocumentURL(u) {
			return true
		}
	}
	return e.IsRegisteredVoter != nil && *e.IsRegisteredVoter
}

func isDocumentURL(u string) bool {
	return strings.HasPrefix(u, "http")
}

// ResidentVoterEvidence collects the voter evidence of r. The stored
// IsRegisteredVoter column is derived, so only the declared flag is passed on.
func ResidentVoterEvidence(r *models.Resident) VoterEvidence {
	declared := r.VoterDeclared
	return VoterEvidence{
		NationalIDFrontURL: r.NationalIDFrontURL,
		NationalIDBackURL:  r.NationalIDBackURL,
		VotersIDFrontURL:   r.VotersIDFrontURL,
		VotersIDBackURL:    r.VotersIDBackURL,
		LegacyIDURL:        r.IDURL,
		IsRegisteredVoter:  &declared,
	}
}

// ClassifyResident stores the derived voter flag on r and returns it.
func ClassifyResident(r *models.Resident) bool {
	r.IsRegisteredVoter = IsRegisteredVoter(ResidentVoterEvidence(r))
	return r.IsRegisteredVoter
}
