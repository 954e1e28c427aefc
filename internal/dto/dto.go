package dto

import (
	"vex-storefront/internal/model"
)

// ProductDraft carries the admin form fields for create and update. Stock
// and specifications are not part of the form.
type ProductDraft struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
}

// CheckoutForm is the customer-facing checkout form. Validation tags match
// the storefront's field rules; nlpostcode and loosephone are custom rules.
type CheckoutForm struct {
	FirstName     string              `json:"firstName" validate:"required"`
	LastName      string              `json:"lastName" validate:"required"`
	Email         string              `json:"email" validate:"required,email"`
	Phone         string              `json:"phone" validate:"required,loosephone"`
	Street        string              `json:"street" validate:"required"`
	PostalCode    string              `json:"postalCode" validate:"required,nlpostcode"`
	City          string              `json:"city" validate:"required"`
	Country       string              `json:"country" validate:"required"`
	PaymentMethod model.PaymentMethod `json:"paymentMethod" validate:"required,oneof=ideal creditcard paypal"`
	Notes         string              `json:"notes"`
}

type CheckoutResult struct {
	State       string            `json:"state"`
	OrderNumber string            `json:"orderNumber,omitempty"`
	Order       *model.Order      `json:"order,omitempty"`
	Message     string            `json:"message,omitempty"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

type CheckoutSummary struct {
	Items  []model.CartItem  `json:"items"`
	Totals model.OrderTotals `json:"totals"`
	Empty  bool              `json:"empty"`
}

type CatalogResponse struct {
	Products []model.Product `json:"products"`
	Dirty    bool            `json:"dirty"`
}

// StorefrontCatalog is the shop-page read: the published products and where
// they came from.
type StorefrontCatalog struct {
	Products   []model.Product   `json:"products"`
	Provenance *model.Provenance `json:"provenance,omitempty"`
}

// PendingActionResponse is returned by destructive endpoints; the client
// must POST the token back to run the action.
type PendingActionResponse struct {
	Token   string `json:"token"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// OrderSummary is one row of the admin order table.
type OrderSummary struct {
	OrderNumber string           `json:"orderNumber"`
	OrderDate   string           `json:"orderDate"`
	Items       []model.CartItem `json:"items"`
	TotalItems  int              `json:"totalItems"`
	Total       float64          `json:"total"`
}
