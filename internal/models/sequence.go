package models

// Sequence is a store-managed monotonic counter, one row per document prefix
// (WO, EST, INV). Numbers are allocated by incrementing inside the creating
// transaction, so they survive deletions and cannot duplicate under
// concurrent creates.
type Sequence struct {
	Name  string `gorm:"primaryKey"`
	Value int64  `gorm:"not null"`
}
