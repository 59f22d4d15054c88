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

// PartHandler manages the parts catalog and its inventory counters.
type PartHandler struct {
	DB *gorm.DB
}

func NewPartHandler(db *gorm.DB) *PartHandler { return &PartHandler{DB: db} }

func (h *PartHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Search   string `json:"search"`
		LowStock bool   `json:"lowStock"`
	}
	if !decode(w, r, &input) {
		return
	}
	dbq := h.DB.Model(&models.Part{}).Where("is_active = ?", true)
	if q := strings.TrimSpace(input.Search); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		dbq = dbq.Where("lower(name) LIKE ? OR lower(part_number) LIKE ?", like, like)
	}
	if input.LowStock {
		dbq = dbq.Where("quantity_in_stock <= min_stock_level")
	}
	var parts []models.Part
	if err := dbq.Order("name asc").Find(&parts).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_parts", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, parts)
}

func (h *PartHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID uint `json:"id"`
	}
	if !decode(w, r, &input) {
		return
	}
	var part models.Part
	if err := h.DB.First(&part, input.ID).Error; err != nil {
		storeError(w, err, "failed_to_load_part")
		return
	}
	httpx.JSON(w, http.StatusOK, part)
}

func (h *PartHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name            string          `json:"name"`
		PartNumber      string          `json:"partNumber"`
		Description     string          `json:"description"`
		Price           decimal.Decimal `json:"price"`
		Cost            decimal.Decimal `json:"cost"`
		QuantityInStock int             `json:"quantityInStock"`
		MinStockLevel   int             `json:"minStockLevel"`
		IsActive        *bool           `json:"isActive"`
	}
	if !decode(w, r, &input) {
		return
	}
	v := validation.Violations{}
	validation.Required("name", input.Name, v)
	validation.PositiveDecimal("price", input.Price, v)
	validation.MinInt("quantityInStock", input.QuantityInStock, 0, v)
	validation.MinInt("minStockLevel", input.MinStockLevel, 0, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	part := models.Part{
		Name:            strings.TrimSpace(input.Name),
		PartNumber:      strings.ToUpper(strings.TrimSpace(input.PartNumber)),
		Description:     input.Description,
		Price:           input.Price,
		Cost:            input.Cost,
		QuantityInStock: input.QuantityInStock,
		MinStockLevel:   input.MinStockLevel,
		IsActive:        true,
	}
	if input.IsActive != nil {
		part.IsActive = *input.IsActive
	}
	if err := h.DB.Create(&part).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_part", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, part)
}

func (h *PartHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID              uint             `json:"id"`
		Name            *string          `json:"name"`
		PartNumber      *string          `json:"partNumber"`
		Description     *string          `json:"description"`
		Price           *decimal.Decimal `json:"price"`
		Cost            *decimal.Decimal `json:"cost"`
		QuantityInStock *int             `json:"quantityInStock"`
		MinStockLevel   *int             `json:"minStockLevel"`
		IsActive        *bool            `json:"isActive"`
	}
	if !decode(w, r, &input) {
		return
	}
	var part models.Part
	if err := h.DB.First(&part, input.ID).Error; err != nil {
		storeError(w, err, "failed_to_load_part")
		return
	}
	v := validation.Violations{}
	if input.Name != nil {
		validation.Required("name", *input.Name, v)
		part.Name = *input.Name
	}
	if input.Price != nil {
		validation.PositiveDecimal("price", *input.Price, v)
		part.Price = *input.Price
	}
	if input.QuantityInStock != nil {
		validation.MinInt("quantityInStock", *input.QuantityInStock, 0, v)
		part.QuantityInStock = *input.QuantityInStock
	}
	if input.MinStockLevel != nil {
		validation.MinInt("minStockLevel", *input.MinStockLevel, 0, v)
		part.MinStockLevel = *input.MinStockLevel
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if input.PartNumber != nil {
		part.PartNumber = strings.ToUpper(strings.TrimSpace(*input.PartNumber))
	}
	if input.Description != nil {
		part.Description = *input.Description
	}
	if input.Cost != nil {
		part.Cost = *input.Cost
	}
	if input.IsActive != nil {
		part.IsActive = *input.IsActive
	}
	if err := h.DB.Save(&part).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_part", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, part)
}

func (h *PartHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID uint `json:"id"`
	}
	if !decode(w, r, &input) {
		return
	}
	res := h.DB.Delete(&models.Part{}, input.ID)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_part", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// AdjustStock applies a manual correction. Negative adjustments go through
// the same conditional update as work-order attachment so stock can never
// be driven below zero.
func (h *PartHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID         uint `json:"id"`
		Adjustment int  `json:"adjustment"`
	}
	if !decode(w, r, &input) {
		return
	}
	if input.Adjustment == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", validation.Violations{"adjustment": "must_be_nonzero"})
		return
	}
	var dbq *gorm.DB
	if input.Adjustment > 0 {
		dbq = h.DB.Model(&models.Part{}).Where("id = ?", input.ID)
	} else {
		dbq = h.DB.Model(&models.Part{}).Where("id = ? AND quantity_in_stock >= ?", input.ID, -input.Adjustment)
	}
	res := dbq.UpdateColumn("quantity_in_stock", gorm.Expr("quantity_in_stock + ?", input.Adjustment))
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_adjust_stock", nil)
		return
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := h.DB.Model(&models.Part{}).Where("id = ?", input.ID).Count(&count).Error; err == nil && count == 0 {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusBadRequest, "insufficient_stock", nil)
		return
	}
	var part models.Part
	if err := h.DB.First(&part, input.ID).Error; err != nil {
		storeError(w, err, "failed_to_load_part")
		return
	}
	httpx.JSON(w, http.StatusOK, part)
}
