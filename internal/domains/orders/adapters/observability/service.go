// Package observability decorates the order service with tracing, logging,
// and metrics.
package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordersports "github.com/fstore/fstore-api/internal/domains/orders/ports"
)

const tracerName = "github.com/fstore/fstore-api/internal/domains/orders/adapters/observability/service"

// Service decorates the order service.
type Service struct {
	inner   ordersports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core order service.
func New(inner ordersports.Service, opts ...Option) ordersports.Service {
	s := &Service{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) ListOrders(ctx context.Context, page ordersports.Page) ([]*ordersports.OrderSummary, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrders",
		trace.WithAttributes(attribute.Int("page.index", page.Index), attribute.Int("page.size", page.Size)))
	defer span.End()

	result, err := s.inner.ListOrders(ctx, page)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*ordersports.OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	return result, nil
}

func (s *Service) CreateOrder(ctx context.Context, memberID int64, items []ordersports.LineItem) (*ordersports.OrderSummary, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder",
		trace.WithAttributes(attribute.Int64("member.id", memberID), attribute.Int("order.lines", len(items))))
	defer span.End()

	s.logInfo(ctx, "creating order", slog.Int64("member.id", memberID), slog.Int("order.lines", len(items)))
	result, err := s.inner.CreateOrder(ctx, memberID, items)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create order", slog.Int64("member.id", memberID))
	}
	s.metrics.recordPlaced(ctx)
	s.logInfo(ctx, "order created", slog.Int64("order.id", result.Order.ID))
	return result, nil
}

func (s *Service) UpdateOrder(ctx context.Context, id int64, items []ordersports.LineItem) (*ordersports.OrderSummary, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateOrder",
		trace.WithAttributes(attribute.Int64("order.id", id), attribute.Int("order.lines", len(items))))
	defer span.End()

	s.logInfo(ctx, "updating order", slog.Int64("order.id", id))
	result, err := s.inner.UpdateOrder(ctx, id, items)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order", slog.Int64("order.id", id))
	}
	s.logInfo(ctx, "order updated", slog.Int64("order.id", id))
	return result, nil
}

func (s *Service) DeleteOrder(ctx context.Context, id int64) (*ordersports.OrderSummary, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.DeleteOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	s.logInfo(ctx, "deleting order", slog.Int64("order.id", id))
	result, err := s.inner.DeleteOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to delete order", slog.Int64("order.id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "order deleted", slog.Int64("order.id", id))
	return result, nil
}

func (s *Service) CancelOrder(ctx context.Context, id int64) (*ordersports.OrderSummary, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CancelOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	s.logInfo(ctx, "cancelling order", slog.Int64("order.id", id))
	result, err := s.inner.CancelOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to cancel order", slog.Int64("order.id", id))
	}
	s.metrics.recordCancelled(ctx)
	s.logInfo(ctx, "order cancelled", slog.Int64("order.id", id))
	return result, nil
}

func (s *Service) ShipOrder(ctx context.Context, id int64) (*ordersports.OrderSummary, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ShipOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	s.logInfo(ctx, "shipping order", slog.Int64("order.id", id))
	result, err := s.inner.ShipOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to ship order", slog.Int64("order.id", id))
	}
	s.metrics.recordShipped(ctx)
	s.logInfo(ctx, "order shipped", slog.Int64("order.id", id))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	ordersPlaced    metric.Int64Counter
	ordersCancelled metric.Int64Counter
	ordersShipped   metric.Int64Counter
	ordersDeleted   metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	placed, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders placed"))
	cancelled, _ := m.Int64Counter("orders.service.orders_cancelled", metric.WithDescription("Number of orders cancelled"))
	shipped, _ := m.Int64Counter("orders.service.orders_shipped", metric.WithDescription("Number of orders shipped"))
	deleted, _ := m.Int64Counter("orders.service.orders_deleted", metric.WithDescription("Number of orders deleted"))
	return serviceMetrics{ordersPlaced: placed, ordersCancelled: cancelled, ordersShipped: shipped, ordersDeleted: deleted}
}

func (m serviceMetrics) recordPlaced(ctx context.Context) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordCancelled(ctx context.Context) {
	if m.ordersCancelled != nil {
		m.ordersCancelled.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordShipped(ctx context.Context) {
	if m.ordersShipped != nil {
		m.ordersShipped.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.ordersDeleted != nil {
		m.ordersDeleted.Add(ctx, 1)
	}
}

var _ ordersports.Service = (*Service)(nil)
