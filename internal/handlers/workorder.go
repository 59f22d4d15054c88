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

type WorkOrderHandler struct {
	DB        *gorm.DB
	Inventory *services.InventoryService
}

func NewWorkOrderHandler(db *gorm.DB, inv *services.InventoryService) *WorkOrderHandler {
	return &WorkOrderHandler{DB: db, Inventory: inv}
}

func (h *WorkOrderHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Status       string `json:"status"`
		CustomerID   uint   `json:"customerId"`
		AssignedToID uint   `json:"assignedToId"`
	}
	if !decode(w, r, &input) {
		return
	}
	v := validation.Violations{}
	validation.OneOf("status", input.Status, models.ValidWorkOrderStatus, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	dbq := h.DB.Model(&models.WorkOrder{})
	if input.Status != "" {
		dbq = dbq.Where("status = ?", input.Status)
	}
	if input.CustomerID != 0 {
		dbq = dbq.Where("customer_id = ?", input.CustomerID)
	}
	if input.AssignedToID != 0 {
		dbq = dbq.Where("assigned_to_id = ?", input.AssignedToID)
	}
	var workOrders []models.WorkOrder
	if err := dbq.Preload("Customer").Preload("Vehicle").Preload("AssignedTo").
		Preload("Services.Service").Preload("Parts.Part").
		Order("id desc").Find(&workOrders).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_work_orders", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, workOrders)
}

func (h *WorkOrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID uint `json:"id"`
	}
	if !decode(w, r, &input) {
		return
	}
	var wo models.WorkOrder
	if err := h.DB.Preload("Customer").Preload("Vehicle").Preload("AssignedTo").
		Preload("Services.Service").Preload("Parts.Part").
		First(&wo, input.ID).Error; err != nil {
		storeError(w, err, "failed_to_load_work_order")
		return
	}
	httpx.JSON(w, http.StatusOK, wo)
}

func (h *WorkOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		CustomerID    uint   `json:"customerId"`
		VehicleID     uint   `json:"vehicleId"`
		AssignedToID  *uint  `json:"assignedToId"`
		Description   string `json:"description"`
		CustomerNotes string `json:"customerNotes"`
		InternalNotes string `json:"internalNotes"`
	}
	if !decode(w, r, &input) {
		return
	}
	v := validation.Violations{}
	if input.CustomerID == 0 {
		v["customerId"] = "required"
	}
	if input.VehicleID == 0 {
		v["vehicleId"] = "required"
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	var wo models.WorkOrder
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		number, err := services.NextNumber(tx, services.PrefixWorkOrder)
		if err != nil {
			return err
		}
		wo = models.WorkOrder{
			Number:        number,
			CustomerID:    input.CustomerID,
			VehicleID:     input.VehicleID,
			AssignedToID:  input.AssignedToID,
			CreatedByID:   uid,
			Status:        models.WorkOrderPending,
			Description:   input.Description,
			CustomerNotes: input.CustomerNotes,
			InternalNotes: input.InternalNotes,
		}
		return tx.Create(&wo).Error
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_work_order", nil)
		return
	}
	if err := h.DB.Preload("Customer").Preload("Vehicle").First(&wo, wo.ID).Error; err != nil {
		storeError(w, err, "failed_to_load_work_order")
		return
	}
	httpx.JSON(w, http.StatusCreated, wo)
}

func (h *WorkOrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID            uint    `json:"id"`
		AssignedToID  *uint   `json:"assignedToId"`
		Status        *string `json:"status"`
		Description   *string `json:"description"`
		CustomerNotes *string `json:"customerNotes"`
		InternalNotes *string `json:"internalNotes"`
	}
	if !decode(w, r, &input) {
		return
	}
	if input.Status != nil && !models.ValidWorkOrderStatus(*input.Status) {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", validation.Violations{"status": "invalid_value"})
		return
	}
	var wo models.WorkOrder
	if err := h.DB.First(&wo, input.ID).Error; err != nil {
		storeError(w, err, "failed_to_load_work_order")
		return
	}
	if input.Status != nil {
		// Stamp lifecycle timestamps on the first transition into each state.
		now := time.Now()
		if *input.Status == models.WorkOrderInProgress && wo.StartedAt == nil {
			wo.StartedAt = &now
		} else if *input.Status == models.WorkOrderCompleted && wo.CompletedAt == nil {
			wo.CompletedAt = &now
		}
		wo.Status = *input.Status
	}
	if input.AssignedToID != nil {
		wo.AssignedToID = input.AssignedToID
	}
	if input.Description != nil {
		wo.Description = *input.Description
	}
	if input.CustomerNotes != nil {
		wo.CustomerNotes = *input.CustomerNotes
	}
	if input.InternalNotes != nil {
		wo.InternalNotes = *input.InternalNotes
	}
	if err := h.DB.Save(&wo).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_work_order", nil)
		return
	}
	if err := h.DB.Preload("Customer").Preload("Vehicle").Preload("AssignedTo").First(&wo, wo.ID).Error; err != nil {
		storeError(w, err, "failed_to_load_work_order")
		return
	}
	httpx.JSON(w, http.StatusOK, wo)
}

func (h *WorkOrderHandler) AddService(w http.ResponseWriter, r *http.Request) {
	var input struct {
		WorkOrderID uint            `json:"workOrderId"`
		ServiceID   uint            `json:"serviceId"`
		Quantity    int             `json:"quantity"`
		Price       decimal.Decimal `json:"price"`
		LaborHours  float64         `json:"laborHours"`
		Notes       string          `json:"notes"`
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
	var count int64
	if err := h.DB.Model(&models.WorkOrder{}).Where("id = ?", input.WorkOrderID).Count(&count).Error; err != nil || count == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	item := models.WorkOrderService{
		WorkOrderID: input.WorkOrderID,
		ServiceID:   input.ServiceID,
		Quantity:    input.Quantity,
		Price:       input.Price,
		LaborHours:  input.LaborHours,
		Notes:       input.Notes,
	}
	if err := h.DB.Create(&item).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_add_service", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *WorkOrderHandler) RemoveService(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID uint `json:"id"`
	}
	if !decode(w, r, &input) {
		return
	}
	res := h.DB.Delete(&models.WorkOrderService{}, input.ID)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_remove_service", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// AddPart runs the inventory transaction: the line item is created and the
// part's stock decremented as one atomic unit, or neither happens.
func (h *WorkOrderHandler) AddPart(w http.ResponseWriter, r *http.Request) {
	var input struct {
		WorkOrderID uint            `json:"workOrderId"`
		PartID      uint            `json:"partId"`
		Quantity    int             `json:"quantity"`
		Price       decimal.Decimal `json:"price"`
		Notes       string          `json:"notes"`
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
	item := models.WorkOrderPart{
		WorkOrderID: input.WorkOrderID,
		PartID:      input.PartID,
		Quantity:    input.Quantity,
		Price:       input.Price,
		Notes:       input.Notes,
	}
	if err := h.Inventory.AttachPart(&item); err != nil {
		if errors.Is(err, services.ErrInsufficientStock) {
			httpx.JSONError(w, http.StatusBadRequest, "insufficient_stock", nil)
			return
		}
		storeError(w, err, "failed_to_add_part")
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *WorkOrderHandler) RemovePart(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID uint `json:"id"`
	}
	if !decode(w, r, &input) {
		return
	}
	if err := h.Inventory.DetachPart(input.ID); err != nil {
		storeError(w, err, "failed_to_remove_part")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Delete restores stock for every attached part before the work order and
// its line items go away.
func (h *WorkOrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID uint `json:"id"`
	}
	if !decode(w, r, &input) {
		return
	}
	if err := h.Inventory.DeleteWorkOrder(input.ID); err != nil {
		storeError(w, err, "failed_to_delete_work_order")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
