// Package http exposes the product catalog over gin.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/fstore/fstore-api/internal/domains/catalog/application"
	"github.com/fstore/fstore-api/internal/domains/catalog/ports"
	apierrors "github.com/fstore/fstore-api/internal/shared/errors"
)

// ProductAPI wires HTTP transport with the catalog service.
type ProductAPI struct {
	service ports.Service
}

// NewProductAPI creates a ProductAPI backed by the provided service.
func NewProductAPI(service ports.Service) ProductAPI {
	return ProductAPI{service: service}
}

// Register mounts the product routes.
func (api *ProductAPI) Register(r gin.IRouter) {
	r.GET("/products", api.List)
	r.GET("/products/search", api.Search)
	r.GET("/products/:id", api.GetByID)
	r.POST("/products", api.Create)
	r.PUT("/products/:id", api.Update)
	r.DELETE("/products/:id", api.Delete)
}

// Get /products
func (api *ProductAPI) List(c *gin.Context) {
	page := parsePage(c, "pageIndex", "pageSize")
	products, err := api.service.List(c.Request.Context(), page)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, FromProducts(products))
}

// Get /products/:id
func (api *ProductAPI) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	detail, err := api.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, FromProductDetail(detail))
}

// Get /products/search
func (api *ProductAPI) Search(c *gin.Context) {
	filter := ports.SearchFilter{Page: parsePage(c, "pageNumber", "pageSize")}
	if keyword := c.Query("keyword"); keyword != "" {
		filter.Keyword = &keyword
	}
	var ok bool
	if filter.MinPrice, ok = parsePriceQuery(c, "minPrice"); !ok {
		return
	}
	if filter.MaxPrice, ok = parsePriceQuery(c, "maxPrice"); !ok {
		return
	}
	products, err := api.service.Search(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, FromProducts(products))
}

// Post /products
func (api *ProductAPI) Create(c *gin.Context) {
	var payload ProductRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	product, err := api.service.Create(c.Request.Context(), ToProductInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, FromProduct(product))
}

// Put /products/:id
func (api *ProductAPI) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload ProductRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	product, err := api.service.Update(c.Request.Context(), id, ToProductInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, FromProduct(product))
}

// Delete /products/:id
func (api *ProductAPI) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	deleted, err := api.service.Delete(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, FromProduct(deleted))
}

func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ports.ErrProductNotFound):
		c.Status(http.StatusNotFound)
	case errors.Is(err, ports.ErrCategoryNotFound):
		apierrors.Respond(c, apierrors.ErrNotFound.WithDetail(err.Error()))
	case errors.Is(err, application.ErrInvalidInput), errors.Is(err, application.ErrInvalidSearch):
		apierrors.Respond(c, apierrors.ErrValidation.WithDetail(err.Error()))
	default:
		apierrors.Respond(c, apierrors.ErrInternal)
	}
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail("invalid "+name))
		return 0, false
	}
	return id, true
}

func parsePage(c *gin.Context, indexKey, sizeKey string) ports.Page {
	page := ports.DefaultPage
	if raw := c.Query(indexKey); raw != "" {
		if index, err := strconv.Atoi(raw); err == nil && index > 0 {
			page.Index = index
		}
	}
	if raw := c.Query(sizeKey); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil && size > 0 {
			page.Size = size
		}
	}
	return page
}

func parsePriceQuery(c *gin.Context, name string) (*decimal.Decimal, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail("invalid "+name))
		return nil, false
	}
	return &price, true
}
