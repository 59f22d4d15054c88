package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estimate lifecycle.
const (
	EstimateDraft    = "draft"
	EstimateSent     = "sent"
	EstimateApproved = "approved"
	EstimateRejected = "rejected"
	EstimateExpired  = "expired"
)

func ValidEstimateStatus(s string) bool {
	switch s {
	case EstimateDraft, EstimateSent, EstimateApproved, EstimateRejected, EstimateExpired:
		return true
	}
	return false
}

// Estimate carries derived Subtotal/Tax/Total. Nothing in the store keeps
// them in sync; billing.Recalculate re-establishes them inside every
// line-item transaction.
type Estimate struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	Number      string            `gorm:"unique;not null" json:"number"` // EST-000001
	CustomerID  uint              `gorm:"not null;index" json:"customerId"`
	Customer    *Customer         `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	WorkOrderID *uint             `gorm:"index" json:"workOrderId"`
	CreatedByID uint              `gorm:"not null" json:"createdById"`
	Status      string            `gorm:"not null;default:'draft';index" json:"status"`
	Description string            `json:"description"`
	Notes       string            `json:"notes"`
	ValidUntil  *time.Time        `json:"validUntil"`
	Subtotal    decimal.Decimal   `gorm:"type:numeric(12,4);not null" json:"subtotal"`
	Tax         decimal.Decimal   `gorm:"type:numeric(12,4);not null" json:"tax"`
	Total       decimal.Decimal   `gorm:"type:numeric(12,4);not null" json:"total"`
	Services    []EstimateService `gorm:"foreignKey:EstimateID;constraint:OnDelete:CASCADE" json:"services,omitempty"`
	Parts       []EstimatePart    `gorm:"foreignKey:EstimateID;constraint:OnDelete:CASCADE" json:"parts,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

type EstimateService struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	EstimateID uint            `gorm:"not null;index" json:"estimateId"`
	ServiceID  uint            `gorm:"not null" json:"serviceId"`
	Service    *Service        `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Quantity   int             `gorm:"not null;default:1" json:"quantity"`
	Price      decimal.Decimal `gorm:"type:numeric(12,4);not null" json:"price"`
	LaborHours float64         `gorm:"not null" json:"laborHours"`
	Notes      string          `json:"notes"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type EstimatePart struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	EstimateID uint            `gorm:"not null;index" json:"estimateId"`
	PartID     uint            `gorm:"not null" json:"partId"`
	Part       *Part           `gorm:"foreignKey:PartID" json:"part,omitempty"`
	Quantity   int             `gorm:"not null;default:1" json:"quantity"`
	Price      decimal.Decimal `gorm:"type:numeric(12,4);not null" json:"price"`
	Notes      string          `json:"notes"`
	CreatedAt  time.Time       `json:"createdAt"`
}
