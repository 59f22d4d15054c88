package handlers

import (
	"net/http"
	"strings"

	"github.com/diewo77/garage-app/internal/httpx"
	"github.com/diewo77/garage-app/internal/models"
	"github.com/diewo77/garage-app/internal/validation"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ServiceHandler manages the labor catalog.
type ServiceHandler struct {
	DB *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler { return &ServiceHandler{DB: db} }

func (h *ServiceHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	var input struct {
		IsActive *bool `json:"isActive"`
	}
	if !decode(w, r, &input) {
		return
	}
	dbq := h.DB.Model(&models.Service{})
	if input.IsActive != nil {
		dbq = dbq.Where("is_active = ?", *input.IsActive)
	}
	var services []models.Service
	if err := dbq.Order("name asc").Find(&services).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_services", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, services)
}

func (h *ServiceHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID uint `json:"id"`
	}
	if !decode(w, r, &input) {
		return
	}
	var service models.Service
	if err := h.DB.First(&service, input.ID).Error; err != nil {
		storeError(w, err, "failed_to_load_service")
		return
	}
	httpx.JSON(w, http.StatusOK, service)
}

func (h *ServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name         string          `json:"name"`
		Description  string          `json:"description"`
		DefaultPrice decimal.Decimal `json:"defaultPrice"`
		LaborHours   float64         `json:"laborHours"`
		IsActive     *bool           `json:"isActive"`
	}
	if !decode(w, r, &input) {
		return
	}
	if input.LaborHours == 0 {
		input.LaborHours = 1
	}
	v := validation.Violations{}
	validation.Required("name", input.Name, v)
	validation.PositiveDecimal("defaultPrice", input.DefaultPrice, v)
	validation.PositiveFloat("laborHours", input.LaborHours, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	service := models.Service{
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		DefaultPrice: input.DefaultPrice,
		LaborHours:   input.LaborHours,
		IsActive:     true,
	}
	if input.IsActive != nil {
		service.IsActive = *input.IsActive
	}
	if err := h.DB.Create(&service).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_service", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, service)
}

func (h *ServiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID           uint             `json:"id"`
		Name         *string          `json:"name"`
		Description  *string          `json:"description"`
		DefaultPrice *decimal.Decimal `json:"defaultPrice"`
		LaborHours   *float64         `json:"laborHours"`
		IsActive     *bool            `json:"isActive"`
	}
	if !decode(w, r, &input) {
		return
	}
	var service models.Service
	if err := h.DB.First(&service, input.ID).Error; err != nil {
		storeError(w, err, "failed_to_load_service")
		return
	}
	v := validation.Violations{}
	if input.Name != nil {
		validation.Required("name", *input.Name, v)
		service.Name = *input.Name
	}
	if input.DefaultPrice != nil {
		validation.PositiveDecimal("defaultPrice", *input.DefaultPrice, v)
		service.DefaultPrice = *input.DefaultPrice
	}
	if input.LaborHours != nil {
		validation.PositiveFloat("laborHours", *input.LaborHours, v)
		service.LaborHours = *input.LaborHours
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if input.Description != nil {
		service.Description = *input.Description
	}
	if input.IsActive != nil {
		service.IsActive = *input.IsActive
	}
	if err := h.DB.Save(&service).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_service", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, service)
}

func (h *ServiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID uint `json:"id"`
	}
	if !decode(w, r, &input) {
		return
	}
	res := h.DB.Delete(&models.Service{}, input.ID)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_service", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
