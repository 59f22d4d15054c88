package models

import "time"

// Customer owns vehicles and is referenced by work orders, estimates and
// invoices through foreign keys.
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"not null;index" json:"firstName"`
	LastName  string    `gorm:"not null;index" json:"lastName"`
	Email     *string   `gorm:"uniqueIndex" json:"email"` // optional, unique when set
	Phone     string    `gorm:"not null" json:"phone"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	ZipCode   string    `json:"zipCode"`
	Notes     string    `json:"notes"`
	Vehicles  []Vehicle `gorm:"foreignKey:CustomerID" json:"vehicles,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Vehicle struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CustomerID   uint      `gorm:"not null;index" json:"customerId"`
	VIN          string    `gorm:"index" json:"vin"`
	Year         int       `gorm:"not null" json:"year"`
	Make         string    `gorm:"not null" json:"make"`
	Model        string    `gorm:"not null" json:"model"`
	Color        string    `json:"color"`
	LicensePlate string    `gorm:"index" json:"licensePlate"`
	Mileage      int       `json:"mileage"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
