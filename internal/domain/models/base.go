package models

import "time"

// BaseModel carries the id and timestamps shared by every table.
// CreatedAt is written on insert only.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"<-:create" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DateLayout is the wire format of calendar dates (birthdays, incident dates).
const DateLayout = "2006-01-02"

// Puroks are the fixed administrative zones of the barangay.
var Puroks = []string{
	"Purok 1",
	"Purok 2",
	"Purok 3",
	"Purok 4",
	"Purok 5",
	"Purok 6",
	"Purok 7",
}

// IsPurok reports whether zone is one of Puroks.
func IsPurok(zone string) bool {
	for _, p := range Puroks {
		if p == zone {
			return true
		}
	}
	return false
}
