package handlers

import (
	"net/http"

	"github.com/diewo77/garage-app/internal/httpx"
	"github.com/diewo77/garage-app/internal/models"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	DB *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler { return &DashboardHandler{DB: db} }

// Stats returns the shop overview: entity counts, parts at or below their
// reorder level, and the most recent work orders.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	var customerCount, vehicleCount, openWorkOrders, unpaidInvoices int64
	if err := h.DB.Model(&models.Customer{}).Count(&customerCount).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_stats", nil)
		return
	}
	h.DB.Model(&models.Vehicle{}).Count(&vehicleCount)
	h.DB.Model(&models.WorkOrder{}).
		Where("status IN ?", []string{models.WorkOrderPending, models.WorkOrderInProgress}).
		Count(&openWorkOrders)
	h.DB.Model(&models.Invoice{}).
		Where("status IN ?", []string{models.InvoiceUnpaid, models.InvoicePartial, models.InvoiceOverdue}).
		Count(&unpaidInvoices)

	var lowStock []models.Part
	h.DB.Where("is_active = ? AND quantity_in_stock <= min_stock_level", true).
		Order("quantity_in_stock asc").Limit(10).Find(&lowStock)

	var recentWorkOrders []models.WorkOrder
	h.DB.Preload("Customer").Preload("Vehicle").
		Order("id desc").Limit(5).Find(&recentWorkOrders)

	httpx.JSON(w, http.StatusOK, map[string]any{
		"customerCount":    customerCount,
		"vehicleCount":     vehicleCount,
		"openWorkOrders":   openWorkOrders,
		"unpaidInvoices":   unpaidInvoices,
		"lowStockParts":    lowStock,
		"recentWorkOrders": recentWorkOrders,
	})
}
