package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
	"vex-storefront/internal/client"
	"vex-storefront/internal/dto"
	"vex-storefront/internal/model"
	"vex-storefront/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type CheckoutState string

const (
	CheckoutStateIdle       CheckoutState = "IDLE"
	CheckoutStateValidating CheckoutState = "VALIDATING"
	CheckoutStateProcessing CheckoutState = "PROCESSING"
	CheckoutStateSucceeded  CheckoutState = "SUCCEEDED"
	CheckoutStateFailed     CheckoutState = "FAILED"
)

// IsTerminal reports whether the attempt has resolved. Terminal states are
// not sticky: the next submission starts over at Idle.
func (s CheckoutState) IsTerminal() bool {
	return s == CheckoutStateSucceeded || s == CheckoutStateFailed
}

func (s CheckoutState) String() string {
	return string(s)
}

const (
	freeShippingFrom = 60
	vatRate          = 0.21
)

var shippingFee = decimal.NewFromFloat(4.95)

var (
	postalCodeRe = regexp.MustCompile(`^[1-9][0-9]{3}\s?[A-Za-z]{2}$`)
	phoneRe      = regexp.MustCompile(`^\+?[0-9\s\-\(\)]{10,}$`)
)

const orderNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Checkout drives one checkout attempt through
// Idle -> Validating -> Processing -> Succeeded/Failed. The mutex is the
// re-entrancy guard: while a charge is in flight no second submission can
// start.
type Checkout struct {
	mu       sync.Mutex
	carts    repository.CartRepository
	orders   *OrderLog
	gateway  client.PaymentGateway
	notifier Notifier
	validate *validator.Validate
	now      func() time.Time
	rand     *rand.Rand
}

func NewCheckout(
	carts repository.CartRepository,
	orders *OrderLog,
	gateway client.PaymentGateway,
	notifier Notifier,
) *Checkout {
	return &Checkout{
		carts:    carts,
		orders:   orders,
		gateway:  gateway,
		notifier: notifier,
		validate: newCheckoutValidator(),
		now:      time.Now,
		rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Summary returns the valid cart lines and their totals for display.
// Invalid entries are silently excluded.
func (c *Checkout) Summary(ctx context.Context) (*dto.CheckoutSummary, error) {
	items, err := c.carts.Load(ctx)
	if err != nil {
		return nil, err
	}

	valid := FilterValidItems(items)

	summary := &dto.CheckoutSummary{
		Items: valid,
		Empty: len(valid) == 0,
	}
	if !summary.Empty {
		summary.Totals = ComputeTotals(valid)
	}

	return summary, nil
}

// Submit runs one checkout attempt. Validation failures and declined
// payments are expected outcomes carried in the result; only storage and
// transport failures surface as errors.
func (c *Checkout) Submit(ctx context.Context, form dto.CheckoutForm) (*dto.CheckoutResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := CheckoutStateValidating

	if fieldErrs := c.validateForm(form); len(fieldErrs) > 0 {
		c.notifier.Notify("Fill in all required fields correctly", SeverityError)
		return &dto.CheckoutResult{
			State:       state.String(),
			Message:     "fill in all required fields correctly",
			FieldErrors: fieldErrs,
		}, nil
	}

	items, err := c.carts.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	valid := FilterValidItems(items)
	if len(valid) == 0 {
		c.notifier.Notify("Your cart is empty", SeverityError)
		return &dto.CheckoutResult{
			State:   state.String(),
			Message: "your cart is empty",
		}, ErrEmptyCart
	}

	totals := ComputeTotals(valid)

	state = CheckoutStateProcessing
	charge, err := c.gateway.Charge(ctx, form.PaymentMethod, decimal.NewFromFloat(totals.Total))
	if err != nil {
		return nil, fmt.Errorf("charge %s: %w", form.PaymentMethod, err)
	}

	if !charge.Approved {
		state = CheckoutStateFailed
		c.notifier.Notify("Payment failed. Try again or choose another payment method.", SeverityError)
		return &dto.CheckoutResult{
			State:   state.String(),
			Message: charge.Refusal,
		}, nil
	}

	now := c.now()
	order := model.Order{
		OrderNumber: c.newOrderNumber(now),
		Customer: model.Customer{
			FirstName: form.FirstName,
			LastName:  form.LastName,
			Email:     form.Email,
			Phone:     form.Phone,
			Address: model.Address{
				Street:     form.Street,
				PostalCode: form.PostalCode,
				City:       form.City,
				Country:    form.Country,
			},
		},
		Items:         valid,
		Totals:        totals,
		PaymentMethod: form.PaymentMethod,
		Notes:         form.Notes,
		OrderDate:     now,
		Status:        model.OrderStatusConfirmed,
	}

	if err := c.orders.Append(ctx, order); err != nil {
		return nil, fmt.Errorf("record order: %w", err)
	}

	// cart is cleared exactly once, only after the order is recorded
	if err := c.carts.Clear(ctx); err != nil {
		log.Printf("clear cart after order %s: %v", order.OrderNumber, err)
	}

	log.Printf("confirmation email for order %s sent to %s (simulated)", order.OrderNumber, form.Email)
	c.notifier.Notify("Order placed successfully", SeveritySuccess)

	state = CheckoutStateSucceeded
	return &dto.CheckoutResult{
		State:       state.String(),
		OrderNumber: order.OrderNumber,
		Order:       &order,
	}, nil
}

func (c *Checkout) validateForm(form dto.CheckoutForm) map[string]string {
	err := c.validate.Struct(form)
	if err == nil {
		return nil
	}

	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["form"] = "invalid form"
		return fields
	}

	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "loosephone":
		return "enter a valid phone number"
	case "nlpostcode":
		return "enter a valid postal code (e.g. 1234 AB)"
	case "oneof":
		return "choose a valid payment method"
	}
	return "invalid value"
}

func newCheckoutValidator() *validator.Validate {
	v := validator.New()

	// report errors under the json field names the client sent
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("nlpostcode", func(fl validator.FieldLevel) bool {
		return postalCodeRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("loosephone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})

	return v
}

// FilterValidItems drops cart entries without a positive price and
// quantity or with missing id, name or image.
func FilterValidItems(items []model.CartItem) []model.CartItem {
	valid := []model.CartItem{}
	for _, item := range items {
		if item.ID == 0 || item.Name == "" || item.Image == "" {
			continue
		}
		if item.Price <= 0 || item.Quantity <= 0 {
			continue
		}
		valid = append(valid, item)
	}
	return valid
}

// ComputeTotals prices the cart: shipping is free from 60 up, VAT is 21% of
// the subtotal. Decimal arithmetic keeps the cent amounts exact.
func ComputeTotals(items []model.CartItem) model.OrderTotals {
	subtotal := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}

	shipping := shippingFee
	if subtotal.GreaterThanOrEqual(decimal.NewFromInt(freeShippingFrom)) {
		shipping = decimal.Zero
	}

	vat := subtotal.Mul(decimal.NewFromFloat(vatRate))
	total := subtotal.Add(shipping).Add(vat)

	return model.OrderTotals{
		Subtotal: subtotal.InexactFloat64(),
		Shipping: shipping.InexactFloat64(),
		VAT:      vat.InexactFloat64(),
		Total:    total.InexactFloat64(),
	}
}

func (c *Checkout) newOrderNumber(now time.Time) string {
	millis := strconv.FormatInt(now.UnixMilli(), 10)
	if len(millis) > 8 {
		millis = millis[len(millis)-8:]
	}

	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = orderNumberAlphabet[c.rand.Intn(len(orderNumberAlphabet))]
	}

	return "VEX-" + millis + "-" + string(suffix)
}
