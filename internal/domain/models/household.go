package models

// Household represents a numbered household (HH-NNN)
type Household struct {
	BaseModel
	HouseholdNumber string `gorm:"type:varchar(20);uniqueIndex;not null" json:"household_number"`
	HouseholdName   string `gorm:"type:varchar(100);not null" json:"household_name"`
	Purok           string `gorm:"type:varchar(20);index" json:"purok"`
	MembersCount    int    `gorm:"default:0" json:"members_count"`

	// Loaded on detail reads; residents reference households by number only.
	Members []Resident `gorm:"-" json:"members,omitempty"`
}
