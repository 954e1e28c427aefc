package handler

import (
	"errors"
	"net/http"
	"strconv"
	"vex-storefront/internal/dto"
	"vex-storefront/internal/service"

	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	store *service.CatalogStore
	gate  *service.ConfirmGate
}

func NewCatalogHandler(store *service.CatalogStore, gate *service.ConfirmGate) *CatalogHandler {
	return &CatalogHandler{
		store: store,
		gate:  gate,
	}
}

func indexFromParam(c echo.Context) (int, error) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid product index")
	}
	return index, nil
}

// PublishedProducts serves the catalog the shop pages render.
func (h *CatalogHandler) PublishedProducts(c echo.Context) error {
	products, prov, err := h.store.Published(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.StorefrontCatalog{
		Products:   products,
		Provenance: prov,
	})
}

func (h *CatalogHandler) ListProducts(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.CatalogResponse{
		Products: h.store.Products(),
		Dirty:    h.store.Dirty(),
	})
}

func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	var draft dto.ProductDraft
	if err := c.Bind(&draft); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	product, err := h.store.Create(draft)
	if err != nil {
		return draftError(err)
	}

	return c.JSON(http.StatusCreated, product)
}

func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	index, err := indexFromParam(c)
	if err != nil {
		return err
	}

	var draft dto.ProductDraft
	if err := c.Bind(&draft); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	product, err := h.store.Update(index, draft)
	if err != nil {
		return draftError(err)
	}

	return c.JSON(http.StatusOK, product)
}

// DeleteProduct does not delete anything yet: it parks the deletion behind
// the confirmation gate and hands the token back.
func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	index, err := indexFromParam(c)
	if err != nil {
		return err
	}

	pending, err := h.store.Remove(index)
	if err != nil {
		return draftError(err)
	}

	return c.JSON(http.StatusAccepted, dto.PendingActionResponse{
		Token:   pending.Token,
		Title:   pending.Title,
		Message: pending.Message,
	})
}

func (h *CatalogHandler) ResetProducts(c echo.Context) error {
	pending := h.store.RequestDiscard()

	return c.JSON(http.StatusAccepted, dto.PendingActionResponse{
		Token:   pending.Token,
		Title:   pending.Title,
		Message: pending.Message,
	})
}

func (h *CatalogHandler) ConfirmAction(c echo.Context) error {
	err := h.gate.Confirm(c.Param("token"))
	if errors.Is(err, service.ErrNoPendingAction) {
		return echo.NewHTTPError(http.StatusNotFound, "no matching pending confirmation")
	}
	if err != nil {
		return draftError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *CatalogHandler) DeclineAction(c echo.Context) error {
	h.gate.Decline()
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) SaveChanges(c echo.Context) error {
	if err := h.store.Commit(c.Request().Context()); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.CatalogResponse{
		Products: h.store.Products(),
		Dirty:    h.store.Dirty(),
	})
}

func (h *CatalogHandler) RefreshProducts(c echo.Context) error {
	products := h.store.Refresh(c.Request().Context())
	return c.JSON(http.StatusOK, products)
}

func draftError(err error) error {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return echo.NewHTTPError(http.StatusBadRequest, verr.Fields)
	}
	if errors.Is(err, service.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	return err
}
