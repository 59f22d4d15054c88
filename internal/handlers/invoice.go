package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/diewo77/garage-app/internal/auth"
	"github.com/diewo77/garage-app/internal/httpx"
	"github.com/diewo77/garage-app/internal/models"
	"github.com/diewo77/garage-app/internal/services"
	"github.com/diewo77/garage-app/internal/validation"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InvoiceHandler struct {
	DB      *gorm.DB
	Billing *services.BillingService
}

func NewInvoiceHandler(db *gorm.DB, billing *services.BillingService) *InvoiceHandler {
	return &InvoiceHandler{DB: db, Billing: billing}
}

func (h *InvoiceHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Status     string `json:"status"`
		CustomerID uint   `json:"customerId"`
	}
	if !decode(w, r, &input) {
		return
	}
	v := validation.Violations{}
	validation.OneOf("status", input.Status, models.ValidInvoiceStatus, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	dbq := h.DB.Model(&models.Invoice{})
	if input.Status != "" {
		dbq = dbq.Where("status = ?", input.Status)
	}
	if input.CustomerID != 0 {
		dbq = dbq.Where("customer_id = ?", input.CustomerID)
	}
	var invoices []models.Invoice
	if err := dbq.Preload("Customer").Preload("WorkOrder.Vehicle").
		Order("id desc").Find(&invoices).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_invoices", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, invoices)
}

func (h *InvoiceHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID uint `json:"id"`
	}
	if !decode(w, r, &input) {
		return
	}
	var invoice models.Invoice
	if err := h.DB.Preload("Customer").Preload("WorkOrder.Vehicle").
		Preload("WorkOrder.Services.Service").Preload("WorkOrder.Parts.Part").
		First(&invoice, input.ID).Error; err != nil {
		storeError(w, err, "failed_to_load_invoice")
		return
	}
	var payments []models.Payment
	if err := h.DB.Where("invoice_id = ?", invoice.ID).Order("id asc").Find(&payments).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_invoice", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"invoice": invoice, "payments": payments})
}

// CreateFromWorkOrder bills a completed work order. Totals are computed once
// from the work order's line items and frozen on the invoice.
func (h *InvoiceHandler) CreateFromWorkOrder(w http.ResponseWriter, r *http.Request) {
	var input struct {
		WorkOrderID uint       `json:"workOrderId"`
		DueDate     *time.Time `json:"dueDate"`
		Notes       string     `json:"notes"`
	}
	if !decode(w, r, &input) {
		return
	}
	if input.WorkOrderID == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", validation.Violations{"workOrderId": "required"})
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	invoice, err := h.Billing.CreateInvoiceFromWorkOrder(input.WorkOrderID, uid, input.DueDate, input.Notes)
	if err != nil {
		if errors.Is(err, services.ErrWorkOrderNotCompleted) {
			httpx.JSONError(w, http.StatusBadRequest, "work_order_not_completed", nil)
			return
		}
		storeError(w, err, "failed_to_create_invoice")
		return
	}
	httpx.JSON(w, http.StatusCreated, invoice)
}

// RecordPayment accumulates a payment against the invoice and derives the
// new status. Amounts only ever increase; refunds are not supported.
func (h *InvoiceHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID            uint            `json:"id"`
		Amount        decimal.Decimal `json:"amount"`
		PaymentMethod string          `json:"paymentMethod"`
	}
	if !decode(w, r, &input) {
		return
	}
	v := validation.Violations{}
	validation.PositiveDecimal("amount", input.Amount, v)
	validation.Required("paymentMethod", input.PaymentMethod, v)
	validation.OneOf("paymentMethod", input.PaymentMethod, models.ValidPaymentMethod, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	invoice, err := h.Billing.RecordPayment(input.ID, input.Amount, input.PaymentMethod)
	if err != nil {
		storeError(w, err, "failed_to_record_payment")
		return
	}
	httpx.JSON(w, http.StatusOK, invoice)
}

func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID      uint       `json:"id"`
		Status  *string    `json:"status"`
		DueDate *time.Time `json:"dueDate"`
		Notes   *string    `json:"notes"`
	}
	if !decode(w, r, &input) {
		return
	}
	if input.Status != nil && !models.ValidInvoiceStatus(*input.Status) {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", validation.Violations{"status": "invalid_value"})
		return
	}
	var invoice models.Invoice
	if err := h.DB.First(&invoice, input.ID).Error; err != nil {
		storeError(w, err, "failed_to_load_invoice")
		return
	}
	if input.Status != nil {
		invoice.Status = *input.Status
	}
	if input.DueDate != nil {
		invoice.DueDate = input.DueDate
	}
	if input.Notes != nil {
		invoice.Notes = *input.Notes
	}
	if err := h.DB.Save(&invoice).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_invoice", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, invoice)
}

func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID uint `json:"id"`
	}
	if !decode(w, r, &input) {
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var invoice models.Invoice
		if err := tx.First(&invoice, input.ID).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&invoice).Error
	})
	if err != nil {
		storeError(w, err, "failed_to_delete_invoice")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
