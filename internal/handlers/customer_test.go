package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/diewo77/garage-app/internal/models"
)

func TestCustomerCreateAndGet(t *testing.T) {
	dbi := setupDB(t)
	h := NewCustomerHandler(dbi)

	rr := call(t, h.Create, 1, map[string]any{
		"firstName": "Jane", "lastName": "Doe", "phone": "555-0100",
		"email": "jane@example.com", "city": "Springfield",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create = %d body=%s", rr.Code, rr.Body.String())
	}
	var created models.Customer
	decodeBody(t, rr, &created)

	rr = call(t, h.GetByID, 1, map[string]any{"id": created.ID})
	if rr.Code != http.StatusOK {
		t.Fatalf("get = %d", rr.Code)
	}
	var got struct {
		Customer   models.Customer    `json:"customer"`
		WorkOrders []models.WorkOrder `json:"workOrders"`
	}
	decodeBody(t, rr, &got)
	if got.Customer.FirstName != "Jane" || got.Customer.Email == nil || *got.Customer.Email != "jane@example.com" {
		t.Fatalf("customer = %+v", got.Customer)
	}
}

func TestCustomerCreateValidation(t *testing.T) {
	dbi := setupDB(t)
	h := NewCustomerHandler(dbi)

	rr := call(t, h.Create, 1, map[string]any{"firstName": "", "lastName": "Doe"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if errorCode(t, rr) != "validation_failed" {
		t.Fatalf("error = %q", errorCode(t, rr))
	}
}

func TestCustomerDuplicateEmailConflict(t *testing.T) {
	dbi := setupDB(t)
	h := NewCustomerHandler(dbi)

	body := map[string]any{"firstName": "A", "lastName": "B", "phone": "1", "email": "same@example.com"}
	if rr := call(t, h.Create, 1, body); rr.Code != http.StatusCreated {
		t.Fatalf("first create: %d", rr.Code)
	}
	rr := call(t, h.Create, 1, map[string]any{
		"firstName": "C", "lastName": "D", "phone": "2", "email": "same@example.com",
	})
	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rr.Code)
	}
}

func TestCustomerGetAllCursorPagination(t *testing.T) {
	dbi := setupDB(t)
	h := NewCustomerHandler(dbi)

	for i := 0; i < 5; i++ {
		c := models.Customer{FirstName: fmt.Sprintf("C%d", i), LastName: "Page", Phone: fmt.Sprintf("555-01%02d", i)}
		if err := dbi.Create(&c).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	type page struct {
		Customers  []models.Customer `json:"customers"`
		NextCursor *uint             `json:"nextCursor"`
	}

	seen := map[uint]bool{}
	cursor := uint(0)
	pages := 0
	for {
		body := map[string]any{"limit": 2}
		if cursor != 0 {
			body["cursor"] = cursor
		}
		rr := call(t, h.GetAll, 1, body)
		if rr.Code != http.StatusOK {
			t.Fatalf("getAll = %d", rr.Code)
		}
		var p page
		decodeBody(t, rr, &p)
		for _, c := range p.Customers {
			if seen[c.ID] {
				t.Fatalf("customer %d returned twice", c.ID)
			}
			seen[c.ID] = true
		}
		pages++
		if p.NextCursor == nil {
			break
		}
		cursor = *p.NextCursor
		if pages > 10 {
			t.Fatal("pagination did not terminate")
		}
	}
	if len(seen) != 5 {
		t.Fatalf("saw %d customers, want 5", len(seen))
	}
	if pages != 3 {
		t.Fatalf("pages = %d, want 3", pages)
	}
}

func TestCustomerGetAllSearch(t *testing.T) {
	dbi := setupDB(t)
	h := NewCustomerHandler(dbi)
	for _, c := range []models.Customer{
		{FirstName: "Alice", LastName: "Martin", Phone: "555-0001"},
		{FirstName: "Bob", LastName: "Stone", Phone: "555-0002"},
	} {
		cc := c
		if err := dbi.Create(&cc).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	rr := call(t, h.GetAll, 1, map[string]any{"search": "mart"})
	var p struct {
		Customers []models.Customer `json:"customers"`
	}
	decodeBody(t, rr, &p)
	if len(p.Customers) != 1 || p.Customers[0].LastName != "Martin" {
		t.Fatalf("search result = %+v", p.Customers)
	}
}

func TestCustomerDeleteMissing(t *testing.T) {
	dbi := setupDB(t)
	h := NewCustomerHandler(dbi)
	rr := call(t, h.Delete, 1, map[string]any{"id": 42})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}
