package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/fstore/fstore-api/internal/domains/catalog/domain"
	"github.com/fstore/fstore-api/internal/domains/orders/adapters/memory"
	"github.com/fstore/fstore-api/internal/domains/orders/adapters/workflows"
	"github.com/fstore/fstore-api/internal/domains/orders/application"
	"github.com/fstore/fstore-api/internal/domains/orders/domain"
)

func newTestRouter(t *testing.T) (*gin.Engine, *memory.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := memory.NewStore()
	store.SeedMember(domain.Member{ID: 1, Email: "member@fstore.local"})
	store.SeedProduct(catalogdomain.Product{ID: 1, ProductName: "Oolong Tea", UnitPrice: decimal.NewFromInt(12), UnitsInStock: 10})
	service := application.NewService(store)
	api := NewOrderAPI(service, workflows.NewInlineOrderWorkflows(service))
	router := gin.New()
	api.Register(router)
	return router, store
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func placeOrder(t *testing.T, router *gin.Engine, quantity int) OrderResponse {
	t.Helper()
	recorder := doJSON(t, router, http.MethodPost, "/orders", []LineItemRequest{{ProductID: 1, Quantity: quantity}})
	require.Equal(t, http.StatusOK, recorder.Code)
	var response OrderResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	return response
}

func TestCreateOrder_ReturnsOrderWithMember(t *testing.T) {
	router, store := newTestRouter(t)

	response := placeOrder(t, router, 10)
	assert.NotZero(t, response.ID)
	assert.Equal(t, int64(1), response.Member.ID)
	assert.Equal(t, "member@fstore.local", response.Member.Email)
	assert.Nil(t, response.ShippedDate)

	stock, ok := store.ProductStock(1)
	require.True(t, ok)
	assert.Equal(t, 0, stock)
}

func TestCreateOrder_AcceptsBareArrayBody(t *testing.T) {
	router, store := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader([]byte(`[{"productId":1,"quantity":2,"discount":0}]`)))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)

	var response OrderResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.NotZero(t, response.ID)

	stock, ok := store.ProductStock(1)
	require.True(t, ok)
	assert.Equal(t, 8, stock)
}

func TestCreateOrder_InsufficientStockIs400(t *testing.T) {
	router, _ := newTestRouter(t)
	placeOrder(t, router, 10)

	recorder := doJSON(t, router, http.MethodPost, "/orders", []LineItemRequest{{ProductID: 1, Quantity: 1}})
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var problem map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &problem))
	assert.Contains(t, problem["detail"], "units in stock")
}

func TestCreateOrder_MissingProductIs400(t *testing.T) {
	router, _ := newTestRouter(t)

	recorder := doJSON(t, router, http.MethodPost, "/orders", []LineItemRequest{{ProductID: 99, Quantity: 1}})
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var problem map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &problem))
	assert.Contains(t, problem["detail"], "product with id 99 does not exist")
}

func TestCreateOrder_EmptyDetailsIs400(t *testing.T) {
	router, _ := newTestRouter(t)

	recorder := doJSON(t, router, http.MethodPost, "/orders", []LineItemRequest{})
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetOrder_ReturnsDetailsWithProductNames(t *testing.T) {
	router, _ := newTestRouter(t)
	created := placeOrder(t, router, 2)

	recorder := doJSON(t, router, http.MethodGet, fmt.Sprintf("/orders/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var response OrderWithDetailsResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.Len(t, response.Details, 1)
	assert.Equal(t, "Oolong Tea", response.Details[0].ProductName)
	assert.Equal(t, 2, response.Details[0].Quantity)
}

func TestGetOrder_UnknownIDIs404WithEmptyBody(t *testing.T) {
	router, _ := newTestRouter(t)

	recorder := doJSON(t, router, http.MethodGet, "/orders/999", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Empty(t, recorder.Body.Bytes())
}

func TestGetOrder_MalformedIDIs400(t *testing.T) {
	router, _ := newTestRouter(t)

	recorder := doJSON(t, router, http.MethodGet, "/orders/abc", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestUpdateOrder_AdjustsQuantity(t *testing.T) {
	router, store := newTestRouter(t)
	created := placeOrder(t, router, 3)

	recorder := doJSON(t, router, http.MethodPut, fmt.Sprintf("/orders/%d", created.ID), []LineItemRequest{{ProductID: 1, Quantity: 5}})
	require.Equal(t, http.StatusOK, recorder.Code)

	stock, ok := store.ProductStock(1)
	require.True(t, ok)
	assert.Equal(t, 5, stock)
}

func TestUpdateOrder_UnknownIDIs404(t *testing.T) {
	router, _ := newTestRouter(t)

	recorder := doJSON(t, router, http.MethodPut, "/orders/999", []LineItemRequest{{ProductID: 1, Quantity: 1}})
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestCancelOrder_RestocksAndRemoves(t *testing.T) {
	router, store := newTestRouter(t)
	created := placeOrder(t, router, 4)

	recorder := doJSON(t, router, http.MethodPost, fmt.Sprintf("/orders/%d/cancel", created.ID), nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	stock, ok := store.ProductStock(1)
	require.True(t, ok)
	assert.Equal(t, 10, stock)

	recorder = doJSON(t, router, http.MethodGet, fmt.Sprintf("/orders/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestDeleteOrder_KeepsStockReserved(t *testing.T) {
	router, store := newTestRouter(t)
	created := placeOrder(t, router, 4)

	recorder := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/orders/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	stock, ok := store.ProductStock(1)
	require.True(t, ok)
	assert.Equal(t, 6, stock)
}

func TestShipOrder_SecondShipIs400(t *testing.T) {
	router, _ := newTestRouter(t)
	created := placeOrder(t, router, 1)

	path := fmt.Sprintf("/orders/%d/ship", created.ID)
	recorder := doJSON(t, router, http.MethodPatch, path, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var response OrderResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.NotNil(t, response.ShippedDate)

	recorder = doJSON(t, router, http.MethodPatch, path, nil)
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var problem map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &problem))
	assert.Contains(t, problem["detail"], "already been shipped")
}

func TestListOrders_ReturnsPlacedOrders(t *testing.T) {
	router, _ := newTestRouter(t)
	placeOrder(t, router, 1)
	placeOrder(t, router, 2)

	recorder := doJSON(t, router, http.MethodGet, "/orders", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var responses []OrderResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &responses))
	assert.Len(t, responses, 2)
}
