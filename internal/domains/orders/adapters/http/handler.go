// Package http exposes the order workflow over gin.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fstore/fstore-api/internal/domains/orders/application"
	"github.com/fstore/fstore-api/internal/domains/orders/ports"
	apierrors "github.com/fstore/fstore-api/internal/shared/errors"
)

// Orders are placed on behalf of a fixed member until authentication lands.
// TODO: take the member from the authenticated session once auth is wired.
const defaultMemberID = 1

// OrderAPI wires HTTP transport with the order service and the placement
// orchestrator.
type OrderAPI struct {
	service   ports.Service
	workflows ports.WorkflowOrchestrator
}

// NewOrderAPI creates an OrderAPI backed by the provided collaborators.
func NewOrderAPI(service ports.Service, workflows ports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// Register mounts the order routes.
func (api *OrderAPI) Register(r gin.IRouter) {
	r.GET("/orders", api.List)
	r.GET("/orders/:id", api.GetByID)
	r.POST("/orders", api.Create)
	r.PUT("/orders/:id", api.Update)
	r.DELETE("/orders/:id", api.Delete)
	r.POST("/orders/:id/cancel", api.Cancel)
	r.PATCH("/orders/:id/ship", api.Ship)
}

// Get /orders
func (api *OrderAPI) List(c *gin.Context) {
	page := parsePage(c, "pageIndex", "pageSize")
	summaries, err := api.service.ListOrders(c.Request.Context(), page)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, FromOrderSummaries(summaries))
}

// Get /orders/:id
func (api *OrderAPI) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	view, err := api.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, FromOrderView(view))
}

// Post /orders
func (api *OrderAPI) Create(c *gin.Context) {
	var payload []LineItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	summary, err := api.workflows.PlaceOrder(c.Request.Context(), defaultMemberID, ToLineItems(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, FromOrderSummary(summary))
}

// Put /orders/:id
func (api *OrderAPI) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload []LineItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	summary, err := api.service.UpdateOrder(c.Request.Context(), id, ToLineItems(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, FromOrderSummary(summary))
}

// Delete /orders/:id
func (api *OrderAPI) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	deleted, err := api.service.DeleteOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, FromOrderSummary(deleted))
}

// Post /orders/:id/cancel
func (api *OrderAPI) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	cancelled, err := api.service.CancelOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, FromOrderSummary(cancelled))
}

// Patch /orders/:id/ship
func (api *OrderAPI) Ship(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	shipped, err := api.service.ShipOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, FromOrderSummary(shipped))
}

func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ports.ErrOrderNotFound):
		c.Status(http.StatusNotFound)
	case errors.Is(err, application.ErrInvalidInput):
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
