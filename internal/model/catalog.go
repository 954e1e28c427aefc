package model

import (
	"strings"
	"time"
)

type Category string

const (
	CategoryCPU         Category = "cpu"
	CategoryGPU         Category = "gpu"
	CategoryMemory      Category = "memory"
	CategoryStorage     Category = "storage"
	CategoryMotherboard Category = "motherboard"
	CategoryPSU         Category = "psu"
	CategoryCooling     Category = "cooling"
	CategoryOther       Category = "other"
)

// Product is one catalog entry. The JSON shape matches the static catalog
// source and the published storage slots, so records round-trip unchanged.
type Product struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	Category       Category       `json:"category"`
	Price          float64        `json:"price"`
	Image          string         `json:"image"`
	Description    string         `json:"description"`
	Amount         int            `json:"amount"`
	Specifications map[string]any `json:"specifications"`
}

// DeriveCategory classifies a product by its name and specification keys.
// Used for records that carry no explicit category.
func DeriveCategory(p Product) Category {
	name := strings.ToLower(p.Name)
	specs := p.Specifications

	has := func(key string) bool {
		_, ok := specs[key]
		return ok
	}
	contains := func(subs ...string) bool {
		for _, s := range subs {
			if strings.Contains(name, s) {
				return true
			}
		}
		return false
	}

	switch {
	case contains("cpu", "intel", "amd") || has("socket"):
		return CategoryCPU
	case contains("gpu", "graphics", "rtx", "gtx"):
		return CategoryGPU
	case contains("memory", "ddr", "ram") || has("memory_type"):
		return CategoryMemory
	case contains("ssd", "hdd", "storage") || has("capacity"):
		return CategoryStorage
	case contains("motherboard", "board") || has("chipset"):
		return CategoryMotherboard
	case contains("psu", "power", "watt") || has("wattage"):
		return CategoryPSU
	case contains("cooler", "cooling", "fan") || specs["type"] == "Air Cooler":
		return CategoryCooling
	}
	return CategoryOther
}

type ProvenanceKind string

const (
	ProvenanceServerFresh ProvenanceKind = "server-fresh"
	ProvenanceAdminEdited ProvenanceKind = "admin-edited"
)

// Provenance records whether the published catalog came from a fresh fetch
// of the catalog source or from admin edits. Stored as a single tagged value
// so the two states cannot coexist.
type Provenance struct {
	Kind      ProvenanceKind `json:"kind"`
	FetchedAt *time.Time     `json:"fetchedAt,omitempty"`
}
