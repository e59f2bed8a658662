package rules

import (
	"sort"
	"strings"
	"time"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/models"
)

// MinBlotterDetails is the shortest accepted incident narrative.
const MinBlotterDetails = 10

// ValidationErrors maps a field name to what is wrong with it.
type ValidationErrors map[string]string

// Error lists the failing fields in a stable order.
func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Err returns v as an error, or nil when it is empty.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// ValidateBlotter checks a blotter body before it is written. today is the
// caller's current date; incident dates after it are rejected.
func ValidateBlotter(b *models.BlotterFields, today time.Time) ValidationErrors {
	errs := ValidationErrors{}
	if strings.TrimSpace(b.Complainant) == "" {
		errs["complainant"] = "complainant is required"
	}
	if strings.TrimSpace(b.Respondent) == "" {
		errs["respondent"] = "respondent is required"
	}
	if strings.TrimSpace(b.IncidentType) == "" || b.IncidentType == OtherIncidentType {
		errs["incident_type"] = "incident type is required"
	}
	if b.IncidentDate.IsZero() {
		errs["incident_date"] = "incident date is required"
	} else if IsAfterDate(b.IncidentDate, today) {
		errs["incident_date"] = "incident date cannot be in the future"
	}
	if !models.IsPurok(b.Location) {
		errs["location"] = "location must be one of the puroks"
	}
	if len([]rune(strings.TrimSpace(b.Details))) < MinBlotterDetails {
		errs["details"] = "details must be at least 10 characters"
	}
	if !b.Status.Valid() {
		errs["status"] = "unknown status"
	}
	return errs
}

// ValidateResident checks the required resident fields.
func ValidateResident(r *models.Resident, today time.Time) ValidationErrors {
	errs := ValidationErrors{}
	if strings.TrimSpace(r.FirstName) == "" {
		errs["first_name"] = "first name is required"
	}
	if strings.TrimSpace(r.LastName) == "" {
		errs["last_name"] = "last name is required"
	}
	if r.Sex != models.SexMale && r.Sex != models.SexFemale {
		errs["sex"] = "sex must be Male or Female"
	}
	if r.Birthday.IsZero() {
		errs["birthday"] = "birthday is required"
	} else if IsAfterDate(r.Birthday, today) {
		errs["birthday"] = "birthday cannot be in the future"
	}
	if r.Purok != "" && !models.IsPurok(r.Purok) {
		errs["purok"] = "purok must be one of the puroks"
	}
	if r.IsFamilyHead && r.IsWife {
		errs["is_wife"] = "a family head cannot also be marked as wife"
	}
	return errs
}

// ValidateHousehold checks a household before it is written. An empty
// number is allowed; the service allocates one.
func ValidateHousehold(h *models.Household) ValidationErrors {
	errs := ValidationErrors{}
	if h.HouseholdNumber != "" {
		if _, ok := ParseHouseholdNumber(h.HouseholdNumber); !ok || !strings.HasPrefix(h.HouseholdNumber, "HH-") {
			errs["household_number"] = "household number must look like HH-001"
		}
	}
	if strings.TrimSpace(h.HouseholdName) == "" {
		errs["household_name"] = "household name is required"
	}
	if !models.IsPurok(h.Purok) {
		errs["purok"] = "purok must be one of the puroks"
	}
	return errs
}

// ValidateDocumentRequest checks a document request before it is written.
func ValidateDocumentRequest(d *models.DocumentRequest) ValidationErrors {
	errs := ValidationErrors{}
	if strings.TrimSpace(d.ResidentName) == "" {
		errs["resident_name"] = "resident name is required"
	}
	known := false
	for _, t := range models.DocumentTypes {
		if t == d.DocumentType {
			known = true
			break
		}
	}
	if !known {
		errs["document_type"] = "unknown document type"
	}
	if strings.TrimSpace(d.Purpose) == "" {
		errs["purpose"] = "purpose is required"
	}
	if d.Status != "" && !d.Status.Valid() {
		errs["status"] = "unknown status"
	}
	return errs
}

// IsAfterDate compares the calendar dates of a and b, each read in its own
// location, and reports whether a falls on a later day.
func IsAfterDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay > by
	}
	if am != bm {
		return am > bm
	}
	return ad > bd
}
