package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/diewo77/garage-app/internal/auth"
	"github.com/diewo77/garage-app/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbi, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := dbi.AutoMigrate(
		&models.User{}, &models.Customer{}, &models.Vehicle{},
		&models.Service{}, &models.Part{}, &models.Sequence{},
		&models.WorkOrder{}, &models.WorkOrderService{}, &models.WorkOrderPart{},
		&models.Estimate{}, &models.EstimateService{}, &models.EstimatePart{},
		&models.Invoice{}, &models.Payment{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return dbi
}

// call invokes a handler func with a JSON body and an authenticated user id
// in context (0 for anonymous).
func call(t *testing.T, h http.HandlerFunc, uid uint, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", "application/json")
	if uid != 0 {
		req = req.WithContext(auth.WithUserID(req.Context(), uid))
	}
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, rr, &body)
	return body.Error
}
