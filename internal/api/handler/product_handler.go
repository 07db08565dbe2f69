package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/devtalles/apiecommerce/internal/api/metrics"
	"github.com/devtalles/apiecommerce/internal/core/domain"
	"github.com/devtalles/apiecommerce/internal/core/ports"
)

type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// List handles GET /api/v1/products.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Success      200  {array}  domain.Product
// @Router       /api/v1/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.service.ListProducts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// Get handles GET /api/v1/products/:id.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id   path      int  true  "Product id"
// @Success      200  {object}  domain.Product
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.service.GetProduct(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// ListByCategory handles GET /api/v1/products/category/:categoryId.
// An empty result is reported as 404.
//
// @Summary      List products of a category
// @Tags         products
// @Produce      json
// @Param        categoryId  path      int  true  "Category id"
// @Success      200         {array}   domain.Product
// @Failure      404         {object}  errorResponse
// @Router       /api/v1/products/category/{categoryId} [get]
func (h *ProductHandler) ListByCategory(c echo.Context) error {
	id, err := pathID(c, "categoryId")
	if err != nil {
		return err
	}
	products, err := h.service.ListByCategory(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("no products found for category %d", id))
	}
	return c.JSON(http.StatusOK, products)
}

// Search handles GET /api/v1/products/search/:term.
// An empty result is reported as 404.
//
// @Summary      Search products by name or description
// @Tags         products
// @Produce      json
// @Param        term  path      string  true  "Search term"
// @Success      200   {array}   domain.Product
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/products/search/{term} [get]
func (h *ProductHandler) Search(c echo.Context) error {
	term := c.Param("term")
	products, err := h.service.SearchProducts(c.Request().Context(), term)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("no products match %q", term))
	}
	return c.JSON(http.StatusOK, products)
}

// Create handles POST /api/v1/products.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      productRequest  true  "Product"
// @Success      201   {object}  domain.Product
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/v1/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req productRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	product, err := h.service.CreateProduct(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderLocation, locationOf(c, product.ID))
	return c.JSON(http.StatusCreated, product)
}

// Update handles PUT /api/v1/products/:id.
//
// @Summary      Replace a product
// @Tags         products
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  int             true  "Product id"
// @Param        body  body  productRequest  true  "Product"
// @Success      204
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req productRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.service.UpdateProduct(c.Request().Context(), id, req.toInput()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /api/v1/products/:id.
//
// @Summary      Delete a product
// @Tags         products
// @Security     BearerAuth
// @Param        id  path  int  true  "Product id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteProduct(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Buy handles PATCH /api/v1/products/buy/:name/:quantity for any
// authenticated user.
//
// @Summary      Buy a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        name      path      string  true  "Product name"
// @Param        quantity  path      int     true  "Units to buy"
// @Success      200       {object}  messageResponse
// @Failure      400       {object}  errorResponse
// @Failure      401       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Failure      409       {object}  errorResponse
// @Router       /api/v1/products/buy/{name}/{quantity} [patch]
func (h *ProductHandler) Buy(c echo.Context) error {
	if _, err := ctxClaims(c); err != nil {
		return err
	}

	name := c.Param("name")
	quantity, err := strconv.Atoi(c.Param("quantity"))
	if err != nil || quantity <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "quantity must be a positive integer")
	}

	if err := h.service.BuyProduct(c.Request().Context(), name, quantity); err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientStock):
			metrics.PurchasesTotal.WithLabelValues("insufficient_stock").Inc()
		case errors.Is(err, domain.ErrProductNotFound):
			metrics.PurchasesTotal.WithLabelValues("not_found").Inc()
		default:
			metrics.PurchasesTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.PurchasesTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, messageResponse{
		Message: fmt.Sprintf("purchased %d unit(s) of '%s'", quantity, name),
	})
}

func (r productRequest) toInput() ports.ProductInput {
	return ports.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
		SKU:         r.SKU,
		Stock:       r.Stock,
		CategoryID:  r.CategoryID,
	}
}
