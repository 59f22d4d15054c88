package handlers

import (
	"net/http"
	"strings"

	"github.com/diewo77/garage-app/internal/httpx"
	"github.com/diewo77/garage-app/internal/models"
	"github.com/diewo77/garage-app/internal/validation"
	"gorm.io/gorm"
)

type CustomerHandler struct {
	DB *gorm.DB
}

func NewCustomerHandler(db *gorm.DB) *CustomerHandler { return &CustomerHandler{DB: db} }

// GetAll: cursor pagination over id desc. The cursor is the last-seen id;
// a nextCursor is returned while more rows remain.
func (h *CustomerHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Search string `json:"search"`
		Limit  int    `json:"limit"`
		Cursor uint   `json:"cursor"`
	}
	if !decode(w, r, &input) {
		return
	}
	limit := input.Limit
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	dbq := h.DB.Model(&models.Customer{})
	if q := strings.TrimSpace(input.Search); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		dbq = dbq.Where(
			"lower(first_name) LIKE ? OR lower(last_name) LIKE ? OR lower(email) LIKE ? OR phone LIKE ?",
			like, like, like, like,
		)
	}
	if input.Cursor != 0 {
		dbq = dbq.Where("id < ?", input.Cursor)
	}
	var customers []models.Customer
	if err := dbq.Preload("Vehicles").Order("id desc").Limit(limit + 1).Find(&customers).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_customers", nil)
		return
	}
	var nextCursor *uint
	if len(customers) > limit {
		customers = customers[:limit]
		c := customers[len(customers)-1].ID
		nextCursor = &c
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"customers": customers, "nextCursor": nextCursor})
}

func (h *CustomerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID uint `json:"id"`
	}
	if !decode(w, r, &input) {
		return
	}
	var customer models.Customer
	if err := h.DB.Preload("Vehicles").First(&customer, input.ID).Error; err != nil {
		storeError(w, err, "failed_to_load_customer")
		return
	}
	var workOrders []models.WorkOrder
	if err := h.DB.Where("customer_id = ?", customer.ID).
		Preload("Vehicle").Preload("AssignedTo").
		Order("id desc").Limit(10).Find(&workOrders).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_customer", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"customer": customer, "workOrders": workOrders})
}

type customerInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Notes     string `json:"notes"`
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input customerInput
	if !decode(w, r, &input) {
		return
	}
	v := validation.Violations{}
	validation.Required("firstName", input.FirstName, v)
	validation.Required("lastName", input.LastName, v)
	validation.Required("phone", input.Phone, v)
	validation.Email("email", input.Email, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	customer := models.Customer{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Phone:     strings.TrimSpace(input.Phone),
		Address:   input.Address,
		City:      input.City,
		State:     input.State,
		ZipCode:   input.ZipCode,
		Notes:     input.Notes,
	}
	if e := strings.TrimSpace(input.Email); e != "" {
		customer.Email = &e
	}
	if err := h.DB.Create(&customer).Error; err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") || strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			httpx.JSONError(w, http.StatusConflict, "email_already_exists", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_customer", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, customer)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID        uint    `json:"id"`
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
		Email     *string `json:"email"`
		Phone     *string `json:"phone"`
		Address   *string `json:"address"`
		City      *string `json:"city"`
		State     *string `json:"state"`
		ZipCode   *string `json:"zipCode"`
		Notes     *string `json:"notes"`
	}
	if !decode(w, r, &input) {
		return
	}
	var customer models.Customer
	if err := h.DB.First(&customer, input.ID).Error; err != nil {
		storeError(w, err, "failed_to_load_customer")
		return
	}
	v := validation.Violations{}
	if input.FirstName != nil {
		validation.Required("firstName", *input.FirstName, v)
		customer.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		validation.Required("lastName", *input.LastName, v)
		customer.LastName = *input.LastName
	}
	if input.Phone != nil {
		validation.Required("phone", *input.Phone, v)
		customer.Phone = *input.Phone
	}
	if input.Email != nil {
		validation.Email("email", *input.Email, v)
		if e := strings.TrimSpace(*input.Email); e != "" {
			customer.Email = &e
		} else {
			customer.Email = nil
		}
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if input.Address != nil {
		customer.Address = *input.Address
	}
	if input.City != nil {
		customer.City = *input.City
	}
	if input.State != nil {
		customer.State = *input.State
	}
	if input.ZipCode != nil {
		customer.ZipCode = *input.ZipCode
	}
	if input.Notes != nil {
		customer.Notes = *input.Notes
	}
	if err := h.DB.Save(&customer).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_customer", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID uint `json:"id"`
	}
	if !decode(w, r, &input) {
		return
	}
	res := h.DB.Delete(&models.Customer{}, input.ID)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_customer", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
