package services

import (
	"testing"

	"github.com/diewo77/garage-app/internal/models"
	"gorm.io/gorm"
)

func TestNextNumberFormat(t *testing.T) {
	dbi := setupDB(t)
	var got string
	err := dbi.Transaction(func(tx *gorm.DB) error {
		var err error
		got, err = NextNumber(tx, PrefixWorkOrder)
		return err
	})
	if err != nil {
		t.Fatalf("next number: %v", err)
	}
	if got != "WO-000001" {
		t.Fatalf("number = %q, want WO-000001", got)
	}
}

func TestNextNumberNeverReissuesAfterDelete(t *testing.T) {
	dbi := setupDB(t)
	alloc := func() string {
		var n string
		if err := dbi.Transaction(func(tx *gorm.DB) error {
			var err error
			n, err = NextNumber(tx, PrefixInvoice)
			return err
		}); err != nil {
			t.Fatalf("alloc: %v", err)
		}
		return n
	}
	first := alloc()
	second := alloc()
	if first != "INV-000001" || second != "INV-000002" {
		t.Fatalf("got %q then %q", first, second)
	}
	// Deleting documents must not reset the counter; sequences only grow.
	third := alloc()
	if third != "INV-000003" {
		t.Fatalf("after deletion got %q, want INV-000003", third)
	}
}

func TestNextNumberPrefixesIndependent(t *testing.T) {
	dbi := setupDB(t)
	var wo, est string
	err := dbi.Transaction(func(tx *gorm.DB) error {
		var err error
		if wo, err = NextNumber(tx, PrefixWorkOrder); err != nil {
			return err
		}
		est, err = NextNumber(tx, PrefixEstimate)
		return err
	})
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	if wo != "WO-000001" || est != "EST-000001" {
		t.Fatalf("got wo=%q est=%q", wo, est)
	}
	var count int64
	dbi.Model(&models.Sequence{}).Count(&count)
	if count != 2 {
		t.Fatalf("sequence rows = %d, want 2", count)
	}
}

func TestNextNumberRollsBackWithTransaction(t *testing.T) {
	dbi := setupDB(t)
	sentinel := gorm.ErrInvalidData
	err := dbi.Transaction(func(tx *gorm.DB) error {
		if _, err := NextNumber(tx, PrefixWorkOrder); err != nil {
			return err
		}
		return sentinel
	})
	if err != sentinel {
		t.Fatalf("err = %v, want sentinel", err)
	}
	var n string
	if err := dbi.Transaction(func(tx *gorm.DB) error {
		var err error
		n, err = NextNumber(tx, PrefixWorkOrder)
		return err
	}); err != nil {
		t.Fatalf("alloc: %v", err)
	}
	if n != "WO-000001" {
		t.Fatalf("after rollback got %q, want WO-000001", n)
	}
}
