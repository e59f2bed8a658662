package models

import (
	"time"
)

// Operation types recorded in the activity log
const (
	OpBlotterCreate   = "blotter.create"
	OpBlotterStatus   = "blotter.status"
	OpBlotterArchive  = "blotter.archive"
	OpBlotterDelete   = "blotter.delete"
	OpBlotterRepair   = "blotter.reconcile"
	OpResidentDelete  = "resident.delete"
	OpHouseholdDelete = "household.delete"
	OpUserLogin       = "user.login"
)

// OperationLog is one entry of the activity log
type OperationLog struct {
	BaseModel
	OperationType string    `gorm:"type:varchar(50);not null;index" json:"operation_type"`
	EntityID      uint      `gorm:"index" json:"entity_id"`
	UserID        uint      `json:"user_id"` // 0 for system operations
	Details       string    `gorm:"type:text" json:"details"`
	Timestamp     time.Time `gorm:"index" json:"timestamp"`
	Success       bool      `gorm:"default:true" json:"success"`
	IPAddress     string    `gorm:"type:varchar(45)" json:"ip_address"`
}
