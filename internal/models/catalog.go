package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Catalog models: services (labor) and parts (inventory).

type Service struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"not null;index" json:"name"`
	Description  string          `json:"description"`
	DefaultPrice decimal.Decimal `gorm:"type:numeric(12,4);not null" json:"defaultPrice"`
	LaborHours   float64         `gorm:"not null;default:1" json:"laborHours"`
	IsActive     bool            `gorm:"not null;default:true" json:"isActive"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Part carries live inventory. QuantityInStock must never go negative; the
// inventory service only decrements through a conditional update.
type Part struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Name            string          `gorm:"not null;index" json:"name"`
	PartNumber      string          `gorm:"index" json:"partNumber"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `gorm:"type:numeric(12,4);not null" json:"price"`
	Cost            decimal.Decimal `gorm:"type:numeric(12,4)" json:"cost"`
	QuantityInStock int             `gorm:"not null;default:0" json:"quantityInStock"`
	MinStockLevel   int             `gorm:"not null;default:0" json:"minStockLevel"`
	IsActive        bool            `gorm:"not null;default:true" json:"isActive"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}
