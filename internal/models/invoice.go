package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice lifecycle and payment methods.
const (
	InvoiceUnpaid  = "unpaid"
	InvoicePartial = "partial"
	InvoicePaid    = "paid"
	InvoiceOverdue = "overdue"
)

const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentCheck    = "check"
	PaymentTransfer = "transfer"
)

func ValidInvoiceStatus(s string) bool {
	switch s {
	case InvoiceUnpaid, InvoicePartial, InvoicePaid, InvoiceOverdue:
		return true
	}
	return false
}

func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentCheck, PaymentTransfer:
		return true
	}
	return false
}

// Invoice totals are computed once from the source work order and frozen;
// only AmountPaid, PaymentMethod, Status and PaidAt change afterwards.
type Invoice struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Number        string          `gorm:"unique;not null" json:"number"` // INV-000001
	CustomerID    uint            `gorm:"not null;index" json:"customerId"`
	Customer      *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	WorkOrderID   *uint           `gorm:"index" json:"workOrderId"`
	WorkOrder     *WorkOrder      `gorm:"foreignKey:WorkOrderID" json:"workOrder,omitempty"`
	CreatedByID   uint            `gorm:"not null" json:"createdById"`
	Status        string          `gorm:"not null;default:'unpaid';index" json:"status"`
	Subtotal      decimal.Decimal `gorm:"type:numeric(12,4);not null" json:"subtotal"`
	Tax           decimal.Decimal `gorm:"type:numeric(12,4);not null" json:"tax"`
	Total         decimal.Decimal `gorm:"type:numeric(12,4);not null" json:"total"`
	AmountPaid    decimal.Decimal `gorm:"type:numeric(12,4);not null" json:"amountPaid"`
	PaymentMethod string          `json:"paymentMethod"`
	DueDate       *time.Time      `json:"dueDate"`
	PaidAt        *time.Time      `json:"paidAt"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Payment is the per-transaction record behind an invoice's accumulated
// AmountPaid. Reference is a server-generated UUID handed back to the caller.
type Payment struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	InvoiceID  uint            `gorm:"not null;index" json:"invoiceId"`
	Reference  string          `gorm:"unique;not null" json:"reference"`
	Amount     decimal.Decimal `gorm:"type:numeric(12,4);not null" json:"amount"`
	Method     string          `gorm:"not null" json:"method"`
	ReceivedAt time.Time       `gorm:"not null" json:"receivedAt"`
	CreatedAt  time.Time       `json:"createdAt"`
}
