package handler

import (
	"errors"
	"net/http"
	"time"
	"vex-storefront/internal/dto"
	"vex-storefront/internal/service"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orders *service.OrderLog
}

func NewOrderHandler(orders *service.OrderLog) *OrderHandler {
	return &OrderHandler{
		orders: orders,
	}
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.orders.List(ctx, c.QueryParam("q"))
	if err != nil {
		return err
	}

	summaries := make([]dto.OrderSummary, len(orders))
	for i, order := range orders {
		summaries[i] = dto.OrderSummary{
			OrderNumber: order.OrderNumber,
			OrderDate:   order.OrderDate.Format(time.RFC3339),
			Items:       order.Items,
			TotalItems:  service.ItemCount(order),
			Total:       order.Totals.Total,
		}
	}

	return c.JSON(http.StatusOK, summaries)
}

// GetOrder backs the print/detail view with the full order record.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.orders.Find(ctx, c.Param("orderNumber"))
	if errors.Is(err, service.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, order)
}
