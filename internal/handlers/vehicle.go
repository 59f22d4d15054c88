package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/diewo77/garage-app/internal/httpx"
	"github.com/diewo77/garage-app/internal/models"
	"github.com/diewo77/garage-app/internal/validation"
	"gorm.io/gorm"
)

type VehicleHandler struct {
	DB *gorm.DB
}

func NewVehicleHandler(db *gorm.DB) *VehicleHandler { return &VehicleHandler{DB: db} }

func (h *VehicleHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	var input struct {
		CustomerID uint   `json:"customerId"`
		Search     string `json:"search"`
	}
	if !decode(w, r, &input) {
		return
	}
	dbq := h.DB.Model(&models.Vehicle{})
	if input.CustomerID != 0 {
		dbq = dbq.Where("customer_id = ?", input.CustomerID)
	}
	if q := strings.TrimSpace(input.Search); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		dbq = dbq.Where(
			"lower(make) LIKE ? OR lower(model) LIKE ? OR lower(vin) LIKE ? OR lower(license_plate) LIKE ?",
			like, like, like, like,
		)
	}
	var vehicles []models.Vehicle
	if err := dbq.Order("id desc").Find(&vehicles).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_vehicles", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, vehicles)
}

func (h *VehicleHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID uint `json:"id"`
	}
	if !decode(w, r, &input) {
		return
	}
	var vehicle models.Vehicle
	if err := h.DB.First(&vehicle, input.ID).Error; err != nil {
		storeError(w, err, "failed_to_load_vehicle")
		return
	}
	var customer models.Customer
	if err := h.DB.First(&customer, vehicle.CustomerID).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_vehicle", nil)
		return
	}
	var workOrders []models.WorkOrder
	if err := h.DB.Where("vehicle_id = ?", vehicle.ID).Preload("AssignedTo").
		Order("id desc").Find(&workOrders).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_vehicle", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"vehicle": vehicle, "customer": customer, "workOrders": workOrders})
}

func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		CustomerID   uint   `json:"customerId"`
		VIN          string `json:"vin"`
		Year         int    `json:"year"`
		Make         string `json:"make"`
		Model        string `json:"model"`
		Color        string `json:"color"`
		LicensePlate string `json:"licensePlate"`
		Mileage      int    `json:"mileage"`
		Notes        string `json:"notes"`
	}
	if !decode(w, r, &input) {
		return
	}
	v := validation.Violations{}
	validation.Required("make", input.Make, v)
	validation.Required("model", input.Model, v)
	validation.RangeInt("year", input.Year, 1900, time.Now().Year()+1, v)
	if input.CustomerID == 0 {
		v["customerId"] = "required"
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var count int64
	if err := h.DB.Model(&models.Customer{}).Where("id = ?", input.CustomerID).Count(&count).Error; err != nil || count == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	vehicle := models.Vehicle{
		CustomerID:   input.CustomerID,
		VIN:          strings.ToUpper(strings.TrimSpace(input.VIN)),
		Year:         input.Year,
		Make:         input.Make,
		Model:        input.Model,
		Color:        input.Color,
		LicensePlate: strings.ToUpper(strings.TrimSpace(input.LicensePlate)),
		Mileage:      input.Mileage,
		Notes:        input.Notes,
	}
	if err := h.DB.Create(&vehicle).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_vehicle", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, vehicle)
}

func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID           uint    `json:"id"`
		VIN          *string `json:"vin"`
		Year         *int    `json:"year"`
		Make         *string `json:"make"`
		Model        *string `json:"model"`
		Color        *string `json:"color"`
		LicensePlate *string `json:"licensePlate"`
		Mileage      *int    `json:"mileage"`
		Notes        *string `json:"notes"`
	}
	if !decode(w, r, &input) {
		return
	}
	var vehicle models.Vehicle
	if err := h.DB.First(&vehicle, input.ID).Error; err != nil {
		storeError(w, err, "failed_to_load_vehicle")
		return
	}
	v := validation.Violations{}
	if input.Make != nil {
		validation.Required("make", *input.Make, v)
		vehicle.Make = *input.Make
	}
	if input.Model != nil {
		validation.Required("model", *input.Model, v)
		vehicle.Model = *input.Model
	}
	if input.Year != nil {
		validation.RangeInt("year", *input.Year, 1900, time.Now().Year()+1, v)
		vehicle.Year = *input.Year
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if input.VIN != nil {
		vehicle.VIN = strings.ToUpper(strings.TrimSpace(*input.VIN))
	}
	if input.Color != nil {
		vehicle.Color = *input.Color
	}
	if input.LicensePlate != nil {
		vehicle.LicensePlate = strings.ToUpper(strings.TrimSpace(*input.LicensePlate))
	}
	if input.Mileage != nil {
		vehicle.Mileage = *input.Mileage
	}
	if input.Notes != nil {
		vehicle.Notes = *input.Notes
	}
	if err := h.DB.Save(&vehicle).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_vehicle", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, vehicle)
}

func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID uint `json:"id"`
	}
	if !decode(w, r, &input) {
		return
	}
	res := h.DB.Delete(&models.Vehicle{}, input.ID)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_vehicle", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
