package services

import (
	"time"

	"github.com/diewo77/garage-app/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TaxRate is the fixed 8% applied to subtotals on estimates and invoices.
var TaxRate = decimal.RequireFromString("0.08")

// BillingService owns the money invariants: estimate totals stay derived
// from their line items, invoice totals are computed once and frozen, and
// payments only accumulate.
type BillingService struct {
	DB *gorm.DB
}

func NewBillingService(db *gorm.DB) *BillingService { return &BillingService{DB: db} }

// sumLineItems folds price × quantity over service and part line items.
func sumLineItems(services []models.EstimateService, parts []models.EstimatePart) decimal.Decimal {
	subtotal := decimal.Zero
	for _, it := range services {
		subtotal = subtotal.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	for _, it := range parts {
		subtotal = subtotal.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return subtotal
}

// Recalculate recomputes subtotal/tax/total for an estimate from its current
// line items and persists all three. It runs inside the same transaction as
// the line-item mutation, so a vanished estimate rolls the mutation back
// instead of leaving a silently stale record.
func (s *BillingService) Recalculate(tx *gorm.DB, estimateID uint) error {
	var est models.Estimate
	if err := tx.Preload("Services").Preload("Parts").First(&est, estimateID).Error; err != nil {
		return err
	}
	subtotal := sumLineItems(est.Services, est.Parts)
	tax := subtotal.Mul(TaxRate)
	return tx.Model(&models.Estimate{}).Where("id = ?", estimateID).Updates(map[string]any{
		"subtotal": subtotal,
		"tax":      tax,
		"total":    subtotal.Add(tax),
	}).Error
}

// AddEstimateService attaches a service line item and recomputes totals in
// one transaction.
func (s *BillingService) AddEstimateService(item *models.EstimateService) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		return s.Recalculate(tx, item.EstimateID)
	})
}

// AddEstimatePart attaches a part line item and recomputes totals in one
// transaction. Estimates quote parts without consuming inventory.
func (s *BillingService) AddEstimatePart(item *models.EstimatePart) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		return s.Recalculate(tx, item.EstimateID)
	})
}

// RemoveEstimateService deletes a service line item and recomputes totals.
func (s *BillingService) RemoveEstimateService(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var item models.EstimateService
		if err := tx.First(&item, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		return s.Recalculate(tx, item.EstimateID)
	})
}

// RemoveEstimatePart deletes a part line item and recomputes totals.
func (s *BillingService) RemoveEstimatePart(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var item models.EstimatePart
		if err := tx.First(&item, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		return s.Recalculate(tx, item.EstimateID)
	})
}

// CreateInvoiceFromWorkOrder bills a completed work order: totals are
// evaluated once from its line items, an INV number is allocated, and the
// invoice starts unpaid with nothing received.
func (s *BillingService) CreateInvoiceFromWorkOrder(workOrderID, createdByID uint, dueDate *time.Time, notes string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var wo models.WorkOrder
		if err := tx.Preload("Services").Preload("Parts").First(&wo, workOrderID).Error; err != nil {
			return err
		}
		if wo.Status != models.WorkOrderCompleted {
			return ErrWorkOrderNotCompleted
		}
		subtotal := decimal.Zero
		for _, it := range wo.Services {
			subtotal = subtotal.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
		for _, it := range wo.Parts {
			subtotal = subtotal.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
		tax := subtotal.Mul(TaxRate)
		number, err := NextNumber(tx, PrefixInvoice)
		if err != nil {
			return err
		}
		woID := wo.ID
		invoice = models.Invoice{
			Number:      number,
			CustomerID:  wo.CustomerID,
			WorkOrderID: &woID,
			CreatedByID: createdByID,
			Status:      models.InvoiceUnpaid,
			Subtotal:    subtotal,
			Tax:         tax,
			Total:       subtotal.Add(tax),
			AmountPaid:  decimal.Zero,
			DueDate:     dueDate,
			Notes:       notes,
		}
		return tx.Create(&invoice).Error
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// RecordPayment adds amount to the invoice's accumulated total and derives
// the status: paid when amountPaid covers the total (PaidAt stamped),
// partial when something but not everything is in, unpaid otherwise.
// Overpayment is accepted; the status simply stays paid. Each call also
// persists a Payment row with a generated reference.
func (s *BillingService) RecordPayment(invoiceID uint, amount decimal.Decimal, method string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&invoice, invoiceID).Error; err != nil {
			return err
		}
		now := time.Now()
		invoice.AmountPaid = invoice.AmountPaid.Add(amount)
		invoice.PaymentMethod = method
		switch {
		case invoice.AmountPaid.GreaterThanOrEqual(invoice.Total):
			invoice.Status = models.InvoicePaid
			invoice.PaidAt = &now
		case invoice.AmountPaid.Sign() > 0:
			invoice.Status = models.InvoicePartial
			invoice.PaidAt = nil
		default:
			invoice.Status = models.InvoiceUnpaid
			invoice.PaidAt = nil
		}
		payment := models.Payment{
			InvoiceID:  invoice.ID,
			Reference:  uuid.NewString(),
			Amount:     amount,
			Method:     method,
			ReceivedAt: now,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		return tx.Save(&invoice).Error
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}
