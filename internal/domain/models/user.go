package models

import "time"

// Role is the access level of a portal account
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleSecretary Role = "secretary"
	RoleStaff     Role = "staff"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSecretary, RoleStaff:
		return true
	}
	return false
}

// UserStatus is the state of a portal account
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// User represents a portal account
type User struct {
	BaseModel
	Username    string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Password    string     `gorm:"type:varchar(100);not null" json:"-"`
	FullName    string     `gorm:"type:varchar(100)" json:"full_name"`
	Email       string     `gorm:"type:varchar(100)" json:"email"`
	Role        Role       `gorm:"type:varchar(20);not null;default:'staff'" json:"role"`
	Status      UserStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}
