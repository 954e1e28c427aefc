package model

import "time"

type PaymentMethod string

const (
	MethodIDeal      PaymentMethod = "ideal"
	MethodCreditcard PaymentMethod = "creditcard"
	MethodPayPal     PaymentMethod = "paypal"
)

// OrderStatusConfirmed is the only status this code ever writes; orders are
// immutable once appended.
const OrderStatusConfirmed = "confirmed"

// CartItem is one cart line. Quantity is the current field; Amount is the
// name older stored records used for the same thing and is only read when
// Quantity is absent.
type CartItem struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity,omitempty"`
	Amount   int     `json:"amount,omitempty"`
}

// Units returns how many units the line represents, tolerating legacy
// records: quantity, then amount, then 1.
func (i CartItem) Units() int {
	if i.Quantity > 0 {
		return i.Quantity
	}
	if i.Amount > 0 {
		return i.Amount
	}
	return 1
}

type Address struct {
	Street     string `json:"street"`
	PostalCode string `json:"postalCode"`
	City       string `json:"city"`
	Country    string `json:"country"`
}

type Customer struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Address   Address `json:"address"`
}

type OrderTotals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	VAT      float64 `json:"vat"`
	Total    float64 `json:"total"`
}

type Order struct {
	OrderNumber   string        `json:"orderNumber"`
	Customer      Customer      `json:"customer"`
	Items         []CartItem    `json:"items"`
	Totals        OrderTotals   `json:"totals"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Notes         string        `json:"notes"`
	OrderDate     time.Time     `json:"orderDate"`
	Status        string        `json:"status"`
}
