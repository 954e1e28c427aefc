package model

import "time"

// StorageSlot is one entry of the string-keyed storage substrate. Every
// collection the storefront persists (catalog, cart, orders, provenance)
// lives in its own slot as a JSON-serialized value.
type StorageSlot struct {
	Key       string `gorm:"primaryKey;size:64;not null"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// Substrate slot keys.
const (
	SlotProducts      = "products"      // last published catalog, read by shop pages
	SlotAdminProducts = "adminProducts" // admin's working copy
	SlotProvenance    = "catalogProvenance"
	SlotCart          = "cart"
	SlotOrders        = "orders"
)
