package models

import "time"

// IncidentType is one custom incident type registered by users.
// Rows are kept in insertion order.
type IncidentType struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
