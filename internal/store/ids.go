package store

import "github.com/google/uuid"

// IDGenerator mints run identifiers. The store orders runs by id, so
// generators must produce ids whose lexicographic order is creation order.
type IDGenerator interface {
	NewID() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run ids.
//
// UUIDv7 embeds a timestamp in the most significant bits, making ids
// sortable by creation time without a separate sequence column.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// NewID creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
