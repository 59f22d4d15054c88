package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Work order lifecycle.
const (
	WorkOrderPending    = "pending"
	WorkOrderInProgress = "in_progress"
	WorkOrderCompleted  = "completed"
	WorkOrderCancelled  = "cancelled"
)

func ValidWorkOrderStatus(s string) bool {
	switch s {
	case WorkOrderPending, WorkOrderInProgress, WorkOrderCompleted, WorkOrderCancelled:
		return true
	}
	return false
}

type WorkOrder struct {
	ID            uint               `gorm:"primaryKey" json:"id"`
	Number        string             `gorm:"unique;not null" json:"number"` // WO-000001, assigned once
	CustomerID    uint               `gorm:"not null;index" json:"customerId"`
	Customer      *Customer          `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	VehicleID     uint               `gorm:"not null;index" json:"vehicleId"`
	Vehicle       *Vehicle           `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	AssignedToID  *uint              `gorm:"index" json:"assignedToId"`
	AssignedTo    *User              `gorm:"foreignKey:AssignedToID" json:"assignedTo,omitempty"`
	CreatedByID   uint               `gorm:"not null" json:"createdById"`
	Status        string             `gorm:"not null;default:'pending';index" json:"status"`
	Description   string             `json:"description"`
	CustomerNotes string             `json:"customerNotes"`
	InternalNotes string             `json:"internalNotes"`
	StartedAt     *time.Time         `json:"startedAt"`
	CompletedAt   *time.Time         `json:"completedAt"`
	Services      []WorkOrderService `gorm:"foreignKey:WorkOrderID;constraint:OnDelete:CASCADE" json:"services,omitempty"`
	Parts         []WorkOrderPart    `gorm:"foreignKey:WorkOrderID;constraint:OnDelete:CASCADE" json:"parts,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// Line items snapshot price/labor at attach time; later catalog edits do not
// flow back into existing work orders.
type WorkOrderService struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	WorkOrderID uint            `gorm:"not null;index" json:"workOrderId"`
	ServiceID   uint            `gorm:"not null" json:"serviceId"`
	Service     *Service        `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Quantity    int             `gorm:"not null;default:1" json:"quantity"`
	Price       decimal.Decimal `gorm:"type:numeric(12,4);not null" json:"price"`
	LaborHours  float64         `gorm:"not null" json:"laborHours"`
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type WorkOrderPart struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	WorkOrderID uint            `gorm:"not null;index" json:"workOrderId"`
	PartID      uint            `gorm:"not null" json:"partId"`
	Part        *Part           `gorm:"foreignKey:PartID" json:"part,omitempty"`
	Quantity    int             `gorm:"not null;default:1" json:"quantity"`
	Price       decimal.Decimal `gorm:"type:numeric(12,4);not null" json:"price"`
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"createdAt"`
}
