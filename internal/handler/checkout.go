package handler

import (
	"errors"
	"net/http"
	"vex-storefront/internal/dto"
	"vex-storefront/internal/model"
	"vex-storefront/internal/repository"
	"vex-storefront/internal/service"

	"github.com/labstack/echo/v4"
)

type CheckoutHandler struct {
	checkout *service.Checkout
	carts    repository.CartRepository
}

func NewCheckoutHandler(checkout *service.Checkout, carts repository.CartRepository) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		carts:    carts,
	}
}

func (h *CheckoutHandler) Summary(c echo.Context) error {
	ctx := c.Request().Context()

	summary, err := h.checkout.Summary(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, summary)
}

// PutCart replaces the cart; the shop pages call this as they would write
// their cart storage.
func (h *CheckoutHandler) PutCart(c echo.Context) error {
	ctx := c.Request().Context()

	var items []model.CartItem
	if err := c.Bind(&items); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if err := h.carts.Save(ctx, items); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CheckoutHandler) Submit(c echo.Context) error {
	ctx := c.Request().Context()

	var form dto.CheckoutForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	result, err := h.checkout.Submit(ctx, form)
	if errors.Is(err, service.ErrEmptyCart) {
		return c.JSON(http.StatusBadRequest, result)
	}
	if err != nil {
		return err
	}

	switch service.CheckoutState(result.State) {
	case service.CheckoutStateFailed:
		return c.JSON(http.StatusPaymentRequired, result)
	case service.CheckoutStateSucceeded:
		return c.JSON(http.StatusOK, result)
	default:
		// validation failed; per-field messages ride along
		return c.JSON(http.StatusBadRequest, result)
	}
}
