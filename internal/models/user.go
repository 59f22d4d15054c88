package models

import "time"

// User roles. Role is a closed set; authorization tiers are derived from it.
const (
	RoleAdmin          = "admin"
	RoleServiceAdvisor = "service_advisor"
	RoleTechnician     = "technician"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"unique;not null;index" json:"email"`
	Password  string    `gorm:"not null" json:"-"` // bcrypt hash
	Name      string    `gorm:"not null" json:"name"`
	Role      string    `gorm:"not null;default:'service_advisor'" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ValidRole reports whether r is one of the declared roles.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleServiceAdvisor, RoleTechnician:
		return true
	}
	return false
}
