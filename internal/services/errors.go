package services

import "errors"

// Business-rule failures surfaced to handlers. Store-level "record not
// found" conditions propagate as gorm.ErrRecordNotFound.
var (
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrWorkOrderNotCompleted = errors.New("work order is not completed")
)
