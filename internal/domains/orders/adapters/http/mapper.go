package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fstore/fstore-api/internal/domains/orders/ports"
)

// LineItemRequest is one requested order line. Create and update take the
// full line set as a bare JSON array of these.
type LineItemRequest struct {
	ProductID int64   `json:"productId" binding:"required"`
	Quantity  int     `json:"quantity"`
	Discount  float64 `json:"discount"`
}

// MemberResponse identifies the order's member.
type MemberResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// OrderResponse is the order header returned by list and mutation endpoints.
type OrderResponse struct {
	ID           int64           `json:"id"`
	OrderDate    time.Time       `json:"orderDate"`
	RequiredDate *time.Time      `json:"requiredDate"`
	ShippedDate  *time.Time      `json:"shippedDate"`
	Freight      decimal.Decimal `json:"freight"`
	Member       MemberResponse  `json:"member"`
}

// OrderDetailResponse is one order line with its product name resolved.
type OrderDetailResponse struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	Discount    float64         `json:"discount"`
}

// OrderWithDetailsResponse is the full order view returned by GET /orders/:id.
type OrderWithDetailsResponse struct {
	OrderResponse
	Details []OrderDetailResponse `json:"details"`
}

// ToLineItems converts the request payload into service line items.
func ToLineItems(details []LineItemRequest) []ports.LineItem {
	items := make([]ports.LineItem, 0, len(details))
	for _, detail := range details {
		items = append(items, ports.LineItem{
			ProductID: detail.ProductID,
			Quantity:  detail.Quantity,
			Discount:  detail.Discount,
		})
	}
	return items
}

// FromOrderSummary builds the order header response.
func FromOrderSummary(summary *ports.OrderSummary) OrderResponse {
	response := OrderResponse{
		ID:           summary.Order.ID,
		OrderDate:    summary.Order.OrderDate,
		RequiredDate: summary.Order.RequiredDate,
		ShippedDate:  summary.Order.ShippedDate,
		Freight:      summary.Order.Freight,
		Member:       MemberResponse{ID: summary.Order.MemberID},
	}
	if summary.Member != nil {
		response.Member = MemberResponse{ID: summary.Member.ID, Email: summary.Member.Email}
	}
	return response
}

// FromOrderSummaries builds the list response.
func FromOrderSummaries(summaries []*ports.OrderSummary) []OrderResponse {
	responses := make([]OrderResponse, 0, len(summaries))
	for _, summary := range summaries {
		responses = append(responses, FromOrderSummary(summary))
	}
	return responses
}

// FromOrderView builds the detailed order response.
func FromOrderView(view *ports.OrderView) OrderWithDetailsResponse {
	details := make([]OrderDetailResponse, 0, len(view.Details))
	for _, detail := range view.Details {
		details = append(details, OrderDetailResponse{
			ProductID:   detail.ProductID,
			ProductName: detail.ProductName,
			UnitPrice:   detail.UnitPrice,
			Quantity:    detail.Quantity,
			Discount:    detail.Discount,
		})
	}
	return OrderWithDetailsResponse{
		OrderResponse: FromOrderSummary(&view.OrderSummary),
		Details:       details,
	}
}
