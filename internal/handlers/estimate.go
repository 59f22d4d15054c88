package handlers

import (
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

type EstimateHandler struct {
	DB      *gorm.DB
	Billing *services.BillingService
}

func NewEstimateHandler(db *gorm.DB, billing *services.BillingService) *EstimateHandler {
	return &EstimateHandler{DB: db, Billing: billing}
}

func (h *EstimateHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Status     string `json:"status"`
		CustomerID uint   `json:"customerId"`
	}
	if !decode(w, r, &input) {
		return
	}
	v := validation.Violations{}
	validation.OneOf("status", input.Status, models.ValidEstimateStatus, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	dbq := h.DB.Model(&models.Estimate{})
	if input.Status != "" {
		dbq = dbq.Where("status = ?", input.Status)
	}
	if input.CustomerID != 0 {
		dbq = dbq.Where("customer_id = ?", input.CustomerID)
	}
	var estimates []models.Estimate
	if err := dbq.Preload("Customer").Preload("Services.Service").Preload("Parts.Part").
		Order("id desc").Find(&estimates).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_estimates", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, estimates)
}

func (h *EstimateHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID uint `json:"id"`
	}
	if !decode(w, r, &input) {
		return
	}
	var est models.Estimate
	if err := h.DB.Preload("Customer").Preload("Services.Service").Preload("Parts.Part").
		First(&est, input.ID).Error; err != nil {
		storeError(w, err, "failed_to_load_estimate")
		return
	}
	httpx.JSON(w, http.StatusOK, est)
}

func (h *EstimateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		CustomerID  uint       `json:"customerId"`
		WorkOrderID *uint      `json:"workOrderId"`
		Description string     `json:"description"`
		Notes       string     `json:"notes"`
		ValidUntil  *time.Time `json:"validUntil"`
	}
	if !decode(w, r, &input) {
		return
	}
	if input.CustomerID == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", validation.Violations{"customerId": "required"})
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	var est models.Estimate
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		number, err := services.NextNumber(tx, services.PrefixEstimate)
		if err != nil {
			return err
		}
		est = models.Estimate{
			Number:      number,
			CustomerID:  input.CustomerID,
			WorkOrderID: input.WorkOrderID,
			CreatedByID: uid,
			Status:      models.EstimateDraft,
			Description: input.Description,
			Notes:       input.Notes,
			ValidUntil:  input.ValidUntil,
			Subtotal:    decimal.Zero,
			Tax:         decimal.Zero,
			Total:       decimal.Zero,
		}
		return tx.Create(&est).Error
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_estimate", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, est)
}

func (h *EstimateHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID          uint       `json:"id"`
		Status      *string    `json:"status"`
		Description *string    `json:"description"`
		Notes       *string    `json:"notes"`
		ValidUntil  *time.Time `json:"validUntil"`
	}
	if !decode(w, r, &input) {
		return
	}
	if input.Status != nil && !models.ValidEstimateStatus(*input.Status) {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", validation.Violations{"status": "invalid_value"})
		return
	}
	var est models.Estimate
	if err := h.DB.First(&est, input.ID).Error; err != nil {
		storeError(w, err, "failed_to_load_estimate")
		return
	}
	if input.Status != nil {
		est.Status = *input.Status
	}
	if input.Description != nil {
		est.Description = *input.Description
	}
	if input.Notes != nil {
		est.Notes = *input.Notes
	}
	if input.ValidUntil != nil {
		est.ValidUntil = input.ValidUntil
	}
	if err := h.DB.Save(&est).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_estimate", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, est)
}

// AddService attaches a service line item; totals are recomputed in the
// same transaction.
func (h *EstimateHandler) AddService(w http.ResponseWriter, r *http.Request) {
	var input struct {
		EstimateID uint            `json:"estimateId"`
		ServiceID  uint            `json:"serviceId"`
		Quantity   int             `json:"quantity"`
		Price      decimal.Decimal `json:"price"`
		LaborHours float64         `json:"laborHours"`
		Notes      string          `json:"notes"`
	}
	if !decode(w, r, &input) {
		return
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}
	v := validation.Violations{}
	validation.PositiveInt("quantity", input.Quantity, v)
	validation.PositiveDecimal("price", input.Price, v)
	validation.PositiveFloat("laborHours", input.LaborHours, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	item := models.EstimateService{
		EstimateID: input.EstimateID,
		ServiceID:  input.ServiceID,
		Quantity:   input.Quantity,
		Price:      input.Price,
		LaborHours: input.LaborHours,
		Notes:      input.Notes,
	}
	if err := h.Billing.AddEstimateService(&item); err != nil {
		storeError(w, err, "failed_to_add_service")
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *EstimateHandler) AddPart(w http.ResponseWriter, r *http.Request) {
	var input struct {
		EstimateID uint            `json:"estimateId"`
		PartID     uint            `json:"partId"`
		Quantity   int             `json:"quantity"`
		Price      decimal.Decimal `json:"price"`
		Notes      string          `json:"notes"`
	}
	if !decode(w, r, &input) {
		return
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}
	v := validation.Violations{}
	validation.PositiveInt("quantity", input.Quantity, v)
	validation.PositiveDecimal("price", input.Price, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	item := models.EstimatePart{
		EstimateID: input.EstimateID,
		PartID:     input.PartID,
		Quantity:   input.Quantity,
		Price:      input.Price,
		Notes:      input.Notes,
	}
	if err := h.Billing.AddEstimatePart(&item); err != nil {
		storeError(w, err, "failed_to_add_part")
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *EstimateHandler) RemoveService(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID uint `json:"id"`
	}
	if !decode(w, r, &input) {
		return
	}
	if err := h.Billing.RemoveEstimateService(input.ID); err != nil {
		storeError(w, err, "failed_to_remove_service")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *EstimateHandler) RemovePart(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID uint `json:"id"`
	}
	if !decode(w, r, &input) {
		return
	}
	if err := h.Billing.RemoveEstimatePart(input.ID); err != nil {
		storeError(w, err, "failed_to_remove_part")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *EstimateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID uint `json:"id"`
	}
	if !decode(w, r, &input) {
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var est models.Estimate
		if err := tx.First(&est, input.ID).Error; err != nil {
			return err
		}
		if err := tx.Where("estimate_id = ?", est.ID).Delete(&models.EstimateService{}).Error; err != nil {
			return err
		}
		if err := tx.Where("estimate_id = ?", est.ID).Delete(&models.EstimatePart{}).Error; err != nil {
			return err
		}
		return tx.Delete(&est).Error
	})
	if err != nil {
		storeError(w, err, "failed_to_delete_estimate")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
