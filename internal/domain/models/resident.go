package models

import (
	"strings"
	"time"
)

// Sex values accepted on resident records
const (
	SexMale   = "Male"
	SexFemale = "Female"
)

// IDDocumentKind names one of the ID-document image slots of a resident
type IDDocumentKind string

const (
	NationalIDFront IDDocumentKind = "national_id_front"
	NationalIDBack  IDDocumentKind = "national_id_back"
	VotersIDFront   IDDocumentKind = "voters_id_front"
	VotersIDBack    IDDocumentKind = "voters_id_back"
)

// IDDocumentKinds lists the upload slots in display order.
var IDDocumentKinds = []IDDocumentKind{NationalIDFront, NationalIDBack, VotersIDFront, VotersIDBack}

// Resident represents a person living in the barangay
type Resident struct {
	BaseModel
	FirstName       string    `gorm:"type:varchar(80);not null;index" json:"first_name"`
	MiddleName      string    `gorm:"type:varchar(80)" json:"middle_name"`
	LastName        string    `gorm:"type:varchar(80);not null;index" json:"last_name"`
	Suffix          string    `gorm:"type:varchar(10)" json:"suffix"`
	Sex             string    `gorm:"type:varchar(10);not null" json:"sex"`
	Birthday        time.Time `gorm:"type:date" json:"birthday"`
	CivilStatus     string    `gorm:"type:varchar(20)" json:"civil_status"`
	ContactNumber   string    `gorm:"type:varchar(20)" json:"contact_number"`
	Occupation      string    `gorm:"type:varchar(80)" json:"occupation"`
	Address         string    `gorm:"type:varchar(200)" json:"address"`
	Purok           string    `gorm:"type:varchar(20);index" json:"purok"`
	HouseholdNumber string    `gorm:"type:varchar(20);index" json:"household_number"` // by value, not a constraint
	IsFamilyHead    bool      `gorm:"default:false" json:"is_family_head"`
	IsWife          bool      `gorm:"default:false" json:"is_wife"`

	NationalIDFrontURL string `gorm:"type:varchar(500)" json:"national_id_front_url"`
	NationalIDBackURL  string `gorm:"type:varchar(500)" json:"national_id_back_url"`
	VotersIDFrontURL   string `gorm:"type:varchar(500)" json:"voters_id_front_url"`
	VotersIDBackURL    string `gorm:"type:varchar(500)" json:"voters_id_back_url"`
	IDURL              string `gorm:"column:id_url;type:varchar(500)" json:"id_url"` // legacy single upload

	// VoterDeclared is the explicit checkbox on the resident form.
	VoterDeclared bool `gorm:"default:false" json:"voter_declared"`
	// Derived from the ID-document fields and VoterDeclared; kept for filtering.
	IsRegisteredVoter bool `gorm:"default:false;index" json:"is_registered_voter"`
}

// FullName joins the name parts the way the blotter forms print them.
func (r *Resident) FullName() string {
	parts := []string{r.FirstName}
	if r.MiddleName != "" {
		parts = append(parts, r.MiddleName)
	}
	parts = append(parts, r.LastName)
	if r.Suffix != "" {
		parts = append(parts, r.Suffix)
	}
	return strings.Join(parts, " ")
}

// Age returns the resident's age in whole years at now.
func (r *Resident) Age(now time.Time) int {
	if r.Birthday.IsZero() {
		return 0
	}
	age := now.Year() - r.Birthday.Year()
	if now.Month() < r.Birthday.Month() || (now.Month() == r.Birthday.Month() && now.Day() < r.Birthday.Day()) {
		age--
	}
	return age
}

// DocumentURL returns the URL stored in the given slot.
func (r *Resident) DocumentURL(kind IDDocumentKind) string {
	switch kind {
	case NationalIDFront:
		return r.NationalIDFrontURL
	case NationalIDBack:
		return r.NationalIDBackURL
	case VotersIDFront:
		return r.VotersIDFrontURL
	case VotersIDBack:
		return r.VotersIDBackURL
	}
	return ""
}

// DocumentColumn maps a slot to its column name. ok is false for unknown kinds.
func DocumentColumn(kind IDDocumentKind) (column string, ok bool) {
	switch kind {
	case NationalIDFront:
		return "national_id_front_url", true
	case NationalIDBack:
		return "national_id_back_url", true
	case VotersIDFront:
		return "voters_id_front_url", true
	case VotersIDBack:
		return "voters_id_back_url", true
	}
	return "", false
}

// DocumentURLs returns every non-empty ID-document URL, legacy field included.
func (r *Resident) DocumentURLs() []string {
	var urls []string
	for _, u := range []string{r.NationalIDFrontURL, r.NationalIDBackURL, r.VotersIDFrontURL, r.VotersIDBackURL, r.IDURL} {
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}
