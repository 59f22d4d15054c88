// Package handlers implements the RPC procedure bodies. Authorization tiers
// are enforced upstream by the dispatcher's gate; handlers only validate
// input and talk to the store.
package handlers

import (
	"errors"
	"net/http"

	"github.com/diewo77/garage-app/internal/httpx"
	"gorm.io/gorm"
)

// storeError maps a store failure to a response: missing rows become 404,
// anything else is opaque to the caller.
func storeError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSONError(w, http.StatusInternalServerError, fallback, nil)
}

// decode reads the JSON input or rejects the call before any store access.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.Decode(r, dst); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return false
	}
	return true
}
