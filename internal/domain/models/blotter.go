package models

import "time"

// BlotterStatus is the state of an incident report
type BlotterStatus string

const (
	BlotterStatusFiled         BlotterStatus = "filed"
	BlotterStatusInvestigating BlotterStatus = "investigating"
	BlotterStatusReferred      BlotterStatus = "referred"
	BlotterStatusMediation     BlotterStatus = "mediation"
	BlotterStatusOngoing       BlotterStatus = "ongoing"
	BlotterStatusEscalated     BlotterStatus = "escalated"
	BlotterStatusDismissed     BlotterStatus = "dismissed"
	BlotterStatusSettled       BlotterStatus = "settled"
	BlotterStatusClosed        BlotterStatus = "closed"
)

// BlotterStatuses lists every status in workflow order.
var BlotterStatuses = []BlotterStatus{
	BlotterStatusFiled,
	BlotterStatusInvestigating,
	BlotterStatusReferred,
	BlotterStatusMediation,
	BlotterStatusOngoing,
	BlotterStatusEscalated,
	BlotterStatusDismissed,
	BlotterStatusSettled,
	BlotterStatusClosed,
}

// Valid reports whether s is part of the enumeration.
func (s BlotterStatus) Valid() bool {
	for _, v := range BlotterStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Terminal reports whether reaching s moves the record to the archive.
func (s BlotterStatus) Terminal() bool {
	return s == BlotterStatusSettled || s == BlotterStatusClosed
}

// BlotterFields is the body shared by active and archived blotters
type BlotterFields struct {
	Complainant  string        `gorm:"type:varchar(150);not null;index" json:"complainant"`
	Respondent   string        `gorm:"type:varchar(150);not null;index" json:"respondent"`
	IncidentType string        `gorm:"type:varchar(100);not null" json:"incident_type"`
	IncidentDate time.Time     `gorm:"type:date;not null" json:"incident_date"`
	Location     string        `gorm:"type:varchar(20);not null" json:"location"`
	Details      string        `gorm:"type:text;not null" json:"details"`
	Status       BlotterStatus `gorm:"type:varchar(20);not null;default:'filed';index" json:"status"`
}

// Blotter is an active incident report
type Blotter struct {
	BaseModel
	BlotterFields
}

// ArchivedBlotter is a blotter that reached a terminal status
type ArchivedBlotter struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	OriginalID uint `gorm:"uniqueIndex;not null" json:"original_id"`
	BlotterFields
	CreatedAt    time.Time `gorm:"<-:create" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	ArchivedDate time.Time `gorm:"not null;index" json:"archived_date"`
}

// Archive copies b into a new archive row stamped at now.
func (b *Blotter) Archive(now time.Time) *ArchivedBlotter {
	return &ArchivedBlotter{
		OriginalID:    b.ID,
		BlotterFields: b.BlotterFields,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
		ArchivedDate:  now,
	}
}
