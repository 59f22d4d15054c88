package handlers

import (
	"net/http"
	"testing"

	"github.com/diewo77/garage-app/internal/models"
)

func TestVehicleCreateNormalizesIdentifiers(t *testing.T) {
	dbi := setupDB(t)
	h := NewVehicleHandler(dbi)
	cust := models.Customer{FirstName: "Jane", LastName: "Doe", Phone: "555-0100"}
	if err := dbi.Create(&cust).Error; err != nil {
		t.Fatalf("customer: %v", err)
	}

	rr := call(t, h.Create, 1, map[string]any{
		"customerId": cust.ID, "year": 2018, "make": "Toyota", "model": "Camry",
		"vin": " 4t1bf1fk5hu999999 ", "licensePlate": "abc123",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create = %d body=%s", rr.Code, rr.Body.String())
	}
	var veh models.Vehicle
	decodeBody(t, rr, &veh)
	if veh.VIN != "4T1BF1FK5HU999999" {
		t.Fatalf("vin = %q", veh.VIN)
	}
	if veh.LicensePlate != "ABC123" {
		t.Fatalf("plate = %q", veh.LicensePlate)
	}
}

func TestVehicleCreateYearOutOfRange(t *testing.T) {
	dbi := setupDB(t)
	h := NewVehicleHandler(dbi)
	rr := call(t, h.Create, 1, map[string]any{
		"customerId": 1, "year": 1850, "make": "Ford", "model": "T",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestVehicleCreateMissingCustomer(t *testing.T) {
	dbi := setupDB(t)
	h := NewVehicleHandler(dbi)
	rr := call(t, h.Create, 1, map[string]any{
		"customerId": 55, "year": 2020, "make": "Kia", "model": "Soul",
	})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestVehicleGetAllFiltersByCustomer(t *testing.T) {
	dbi := setupDB(t)
	h := NewVehicleHandler(dbi)
	a := models.Customer{FirstName: "A", LastName: "One", Phone: "1"}
	b := models.Customer{FirstName: "B", LastName: "Two", Phone: "2"}
	dbi.Create(&a)
	dbi.Create(&b)
	dbi.Create(&models.Vehicle{CustomerID: a.ID, Year: 2018, Make: "Toyota", Model: "Camry"})
	dbi.Create(&models.Vehicle{CustomerID: b.ID, Year: 2019, Make: "Honda", Model: "Fit"})

	rr := call(t, h.GetAll, 1, map[string]any{"customerId": a.ID})
	var vehicles []models.Vehicle
	decodeBody(t, rr, &vehicles)
	if len(vehicles) != 1 || vehicles[0].Make != "Toyota" {
		t.Fatalf("filter result = %+v", vehicles)
	}
}
