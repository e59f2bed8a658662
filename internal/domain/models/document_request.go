package models

import (
	"time"

	"gorm.io/datatypes"
)

// Document types issued by the barangay hall
const (
	DocumentClearance      = "Barangay Clearance"
	DocumentIndigency      = "Certificate of Indigency"
	DocumentResidency      = "Certificate of Residency"
	DocumentBusinessPermit = "Business Permit"
)

// DocumentTypes lists the issuable documents.
var DocumentTypes = []string{DocumentClearance, DocumentIndigency, DocumentResidency, DocumentBusinessPermit}

// DocumentRequestStatus is the processing state of a request
type DocumentRequestStatus string

const (
	DocumentRequestPending    DocumentRequestStatus = "pending"
	DocumentRequestProcessing DocumentRequestStatus = "processing"
	DocumentRequestReady      DocumentRequestStatus = "ready"
	DocumentRequestReleased   DocumentRequestStatus = "released"
	DocumentRequestRejected   DocumentRequestStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s DocumentRequestStatus) Valid() bool {
	switch s {
	case DocumentRequestPending, DocumentRequestProcessing, DocumentRequestReady,
		DocumentRequestReleased, DocumentRequestRejected:
		return true
	}
	return false
}

// DocumentRequest is a resident's request for a barangay document
type DocumentRequest struct {
	BaseModel
	ResidentID   *uint                 `gorm:"index" json:"resident_id,omitempty"`
	ResidentName string                `gorm:"type:varchar(150);not null;index" json:"resident_name"`
	DocumentType string                `gorm:"type:varchar(50);not null" json:"document_type"`
	Purpose      string                `gorm:"type:varchar(255);not null" json:"purpose"`
	Status       DocumentRequestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Remarks      string                `gorm:"type:varchar(255)" json:"remarks"`
	Details      datatypes.JSONMap     `json:"details,omitempty"` // per-document extras, e.g. business name
	ProcessedBy  *uint                 `json:"processed_by,omitempty"`
	ReleasedAt   *time.Time            `json:"released_at,omitempty"`
}
