package handlers

import (
	"net/http"
	"testing"

	"github.com/diewo77/garage-app/internal/models"
	"github.com/diewo77/garage-app/internal/services"
)

func TestEstimateCreateStartsDraftWithZeroTotals(t *testing.T) {
	dbi := setupDB(t)
	h := NewEstimateHandler(dbi, services.NewBillingService(dbi))
	cust := models.Customer{FirstName: "Jane", LastName: "Doe", Phone: "555-0100"}
	if err := dbi.Create(&cust).Error; err != nil {
		t.Fatalf("customer: %v", err)
	}

	rr := call(t, h.Create, 3, map[string]any{"customerId": cust.ID, "description": "front brakes"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create = %d body=%s", rr.Code, rr.Body.String())
	}
	var est models.Estimate
	decodeBody(t, rr, &est)
	if est.Number != "EST-000001" {
		t.Fatalf("number = %q", est.Number)
	}
	if est.Status != models.EstimateDraft {
		t.Fatalf("status = %q, want draft", est.Status)
	}
	if !est.Total.IsZero() {
		t.Fatalf("total = %s, want 0", est.Total)
	}
	if est.CreatedByID != 3 {
		t.Fatalf("createdById = %d", est.CreatedByID)
	}
}

func TestEstimateLineItemsDriveTotals(t *testing.T) {
	dbi := setupDB(t)
	h := NewEstimateHandler(dbi, services.NewBillingService(dbi))
	cust := models.Customer{FirstName: "Jane", LastName: "Doe", Phone: "555-0100"}
	if err := dbi.Create(&cust).Error; err != nil {
		t.Fatalf("customer: %v", err)
	}
	rr := call(t, h.Create, 1, map[string]any{"customerId": cust.ID})
	var est models.Estimate
	decodeBody(t, rr, &est)

	rr = call(t, h.AddService, 1, map[string]any{
		"estimateId": est.ID, "serviceId": 1, "quantity": 1, "price": "49.99", "laborHours": 1,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("addService = %d body=%s", rr.Code, rr.Body.String())
	}
	rr = call(t, h.AddPart, 1, map[string]any{
		"estimateId": est.ID, "partId": 1, "quantity": 1, "price": "39.97",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("addPart = %d body=%s", rr.Code, rr.Body.String())
	}

	rr = call(t, h.GetByID, 1, map[string]any{"id": est.ID})
	var got models.Estimate
	decodeBody(t, rr, &got)
	if !got.Subtotal.Equal(mustDecimal(t, "89.96")) {
		t.Fatalf("subtotal = %s, want 89.96", got.Subtotal)
	}
	if !got.Tax.Equal(mustDecimal(t, "7.1968")) {
		t.Fatalf("tax = %s, want 7.1968", got.Tax)
	}
	if !got.Total.Equal(mustDecimal(t, "97.1568")) {
		t.Fatalf("total = %s, want 97.1568", got.Total)
	}
}

func TestEstimateAddServiceValidation(t *testing.T) {
	dbi := setupDB(t)
	h := NewEstimateHandler(dbi, services.NewBillingService(dbi))
	rr := call(t, h.AddService, 1, map[string]any{
		"estimateId": 1, "serviceId": 1, "quantity": -2, "price": "0", "laborHours": 1,
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestEstimateUpdateStatusEnum(t *testing.T) {
	dbi := setupDB(t)
	h := NewEstimateHandler(dbi, services.NewBillingService(dbi))
	cust := models.Customer{FirstName: "Jane", LastName: "Doe", Phone: "555-0100"}
	if err := dbi.Create(&cust).Error; err != nil {
		t.Fatalf("customer: %v", err)
	}
	rr := call(t, h.Create, 1, map[string]any{"customerId": cust.ID})
	var est models.Estimate
	decodeBody(t, rr, &est)

	rr = call(t, h.Update, 1, map[string]any{"id": est.ID, "status": "accepted"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad status accepted, got %d", rr.Code)
	}
	rr = call(t, h.Update, 1, map[string]any{"id": est.ID, "status": models.EstimateApproved})
	if rr.Code != http.StatusOK {
		t.Fatalf("approve = %d", rr.Code)
	}
	var got models.Estimate
	decodeBody(t, rr, &got)
	if got.Status != models.EstimateApproved {
		t.Fatalf("status = %q", got.Status)
	}
}

func TestEstimateDeleteRemovesLineItems(t *testing.T) {
	dbi := setupDB(t)
	svc := services.NewBillingService(dbi)
	h := NewEstimateHandler(dbi, svc)
	cust := models.Customer{FirstName: "Jane", LastName: "Doe", Phone: "555-0100"}
	if err := dbi.Create(&cust).Error; err != nil {
		t.Fatalf("customer: %v", err)
	}
	rr := call(t, h.Create, 1, map[string]any{"customerId": cust.ID})
	var est models.Estimate
	decodeBody(t, rr, &est)
	rr = call(t, h.AddService, 1, map[string]any{
		"estimateId": est.ID, "serviceId": 1, "quantity": 1, "price": "10.00", "laborHours": 1,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("addService = %d", rr.Code)
	}

	rr = call(t, h.Delete, 1, map[string]any{"id": est.ID})
	if rr.Code != http.StatusOK {
		t.Fatalf("delete = %d", rr.Code)
	}
	var estCount, itemCount int64
	dbi.Model(&models.Estimate{}).Count(&estCount)
	dbi.Model(&models.EstimateService{}).Count(&itemCount)
	if estCount != 0 || itemCount != 0 {
		t.Fatalf("leftovers: estimates=%d items=%d", estCount, itemCount)
	}
}
