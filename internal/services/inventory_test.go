package services

import (
	"errors"
	"testing"

	"github.com/diewo77/garage-app/internal/models"
	"gorm.io/gorm"
)

func inventoryFixture(t *testing.T, dbi *gorm.DB, stock int) (models.WorkOrder, models.Part) {
	t.Helper()
	cust := models.Customer{FirstName: "Al", LastName: "Jones", Phone: "555-0102"}
	if err := dbi.Create(&cust).Error; err != nil {
		t.Fatalf("customer: %v", err)
	}
	veh := models.Vehicle{CustomerID: cust.ID, Year: 2020, Make: "Ford", Model: "F-150"}
	if err := dbi.Create(&veh).Error; err != nil {
		t.Fatalf("vehicle: %v", err)
	}
	wo := models.WorkOrder{
		Number: "WO-000001", CustomerID: cust.ID, VehicleID: veh.ID,
		CreatedByID: 1, Status: models.WorkOrderPending,
	}
	if err := dbi.Create(&wo).Error; err != nil {
		t.Fatalf("work order: %v", err)
	}
	part := models.Part{
		Name: "Oil Filter", PartNumber: "OF-1001",
		Price: mustDecimal(t, "12.99"), QuantityInStock: stock, IsActive: true,
	}
	if err := dbi.Create(&part).Error; err != nil {
		t.Fatalf("part: %v", err)
	}
	return wo, part
}

func stockOf(t *testing.T, dbi *gorm.DB, id uint) int {
	t.Helper()
	var p models.Part
	if err := dbi.First(&p, id).Error; err != nil {
		t.Fatalf("reload part: %v", err)
	}
	return p.QuantityInStock
}

func TestAttachPartDecrementsStock(t *testing.T) {
	dbi := setupDB(t)
	svc := NewInventoryService(dbi)
	wo, part := inventoryFixture(t, dbi, 10)

	item := models.WorkOrderPart{
		WorkOrderID: wo.ID, PartID: part.ID, Quantity: 3,
		Price: mustDecimal(t, "12.99"),
	}
	if err := svc.AttachPart(&item); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if got := stockOf(t, dbi, part.ID); got != 7 {
		t.Fatalf("stock = %d, want 7", got)
	}
}

func TestAttachPartInsufficientStock(t *testing.T) {
	dbi := setupDB(t)
	svc := NewInventoryService(dbi)
	wo, part := inventoryFixture(t, dbi, 2)

	item := models.WorkOrderPart{
		WorkOrderID: wo.ID, PartID: part.ID, Quantity: 5,
		Price: mustDecimal(t, "12.99"),
	}
	err := svc.AttachPart(&item)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
	if got := stockOf(t, dbi, part.ID); got != 2 {
		t.Fatalf("stock changed on rejection: %d", got)
	}
	var count int64
	dbi.Model(&models.WorkOrderPart{}).Count(&count)
	if count != 0 {
		t.Fatalf("line item persisted on rejection")
	}
}

func TestAttachPartMissingWorkOrder(t *testing.T) {
	dbi := setupDB(t)
	svc := NewInventoryService(dbi)
	_, part := inventoryFixture(t, dbi, 5)

	err := svc.AttachPart(&models.WorkOrderPart{
		WorkOrderID: 999, PartID: part.ID, Quantity: 1,
		Price: mustDecimal(t, "12.99"),
	})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want ErrRecordNotFound", err)
	}
	if got := stockOf(t, dbi, part.ID); got != 5 {
		t.Fatalf("stock changed: %d", got)
	}
}

func TestAttachPartMissingPart(t *testing.T) {
	dbi := setupDB(t)
	svc := NewInventoryService(dbi)
	wo, _ := inventoryFixture(t, dbi, 5)

	err := svc.AttachPart(&models.WorkOrderPart{
		WorkOrderID: wo.ID, PartID: 999, Quantity: 1,
		Price: mustDecimal(t, "12.99"),
	})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want ErrRecordNotFound", err)
	}
}

func TestDetachPartRestoresStock(t *testing.T) {
	dbi := setupDB(t)
	svc := NewInventoryService(dbi)
	wo, part := inventoryFixture(t, dbi, 10)

	item := models.WorkOrderPart{
		WorkOrderID: wo.ID, PartID: part.ID, Quantity: 4,
		Price: mustDecimal(t, "12.99"),
	}
	if err := svc.AttachPart(&item); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if err := svc.DetachPart(item.ID); err != nil {
		t.Fatalf("detach: %v", err)
	}
	if got := stockOf(t, dbi, part.ID); got != 10 {
		t.Fatalf("stock = %d, want 10 after detach", got)
	}
	var count int64
	dbi.Model(&models.WorkOrderPart{}).Count(&count)
	if count != 0 {
		t.Fatalf("line item still present after detach")
	}
}

func TestDeleteWorkOrderRestoresAllStock(t *testing.T) {
	dbi := setupDB(t)
	svc := NewInventoryService(dbi)
	wo, part := inventoryFixture(t, dbi, 10)
	other := models.Part{
		Name: "Air Filter", PartNumber: "AF-2001",
		Price: mustDecimal(t, "19.99"), QuantityInStock: 6, IsActive: true,
	}
	if err := dbi.Create(&other).Error; err != nil {
		t.Fatalf("part: %v", err)
	}

	for _, it := range []models.WorkOrderPart{
		{WorkOrderID: wo.ID, PartID: part.ID, Quantity: 2, Price: mustDecimal(t, "12.99")},
		{WorkOrderID: wo.ID, PartID: other.ID, Quantity: 3, Price: mustDecimal(t, "19.99")},
	} {
		item := it
		if err := svc.AttachPart(&item); err != nil {
			t.Fatalf("attach: %v", err)
		}
	}
	if err := svc.DeleteWorkOrder(wo.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := stockOf(t, dbi, part.ID); got != 10 {
		t.Fatalf("stock = %d, want 10", got)
	}
	if got := stockOf(t, dbi, other.ID); got != 6 {
		t.Fatalf("stock = %d, want 6", got)
	}
	var woCount, itemCount int64
	dbi.Model(&models.WorkOrder{}).Count(&woCount)
	dbi.Model(&models.WorkOrderPart{}).Count(&itemCount)
	if woCount != 0 || itemCount != 0 {
		t.Fatalf("leftovers after delete: wo=%d items=%d", woCount, itemCount)
	}
}
