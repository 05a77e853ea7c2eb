// Package workflows starts the order placement workflow, durably on Temporal
// or inline against the application service.
package workflows

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/fstore/fstore-api/internal/domains/orders/application"
	"github.com/fstore/fstore-api/internal/domains/orders/ports"
	orderactivities "github.com/fstore/fstore-api/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/fstore/fstore-api/internal/platform/temporal/workflows/orders"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalOrderWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineOrderWorkflows)(nil)
)

// TemporalOrderWorkflows starts order workflows on a Temporal cluster.
type TemporalOrderWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalOrderWorkflows wires a Temporal client into the orchestrator.
func NewTemporalOrderWorkflows(c client.Client) *TemporalOrderWorkflows {
	return &TemporalOrderWorkflows{client: c, taskQueue: orderworkflows.OrderPlacementTaskQueue}
}

// PlaceOrder starts the Temporal workflow that places an order and blocks on
// its result.
func (o *TemporalOrderWorkflows) PlaceOrder(ctx context.Context, memberID int64, items []ports.LineItem) (*ports.OrderSummary, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	options := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("order-placement-%d-%s", memberID, traceComponent),
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.OrderPlacementWorkflow,
		orderworkflows.OrderPlacementWorkflowInput{
			Command: orderactivities.PlaceOrderCommand{MemberID: memberID, Items: items},
			TraceID: traceComponent,
		},
	)
	if err != nil {
		// The workflow ID embeds the trace ID, so a duplicate start within
		// the same trace is the same placement attempt. Attach to its result
		// instead of failing.
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			existingRun := o.client.GetWorkflow(ctx, options.ID, alreadyStarted.RunId)
			var summary ports.OrderSummary
			if err := existingRun.Get(ctx, &summary); err != nil {
				return nil, translateWorkflowError(err)
			}
			return &summary, nil
		}
		return nil, err
	}
	var summary ports.OrderSummary
	if err := run.Get(ctx, &summary); err != nil {
		return nil, translateWorkflowError(err)
	}
	return &summary, nil
}

// translateWorkflowError restores the invalid-input sentinel on failures the
// placement activity tagged as such. Temporal serializes errors, so the
// original chain does not survive the round trip.
func translateWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) && appErr.Type() == orderactivities.InvalidOrderInputErrorType {
		detail := strings.TrimPrefix(appErr.Message(), application.ErrInvalidInput.Error()+": ")
		return fmt.Errorf("%w: %s", application.ErrInvalidInput, detail)
	}
	return err
}

// InlineOrderWorkflows executes the service directly without Temporal, useful
// for tests or dev fallbacks.
type InlineOrderWorkflows struct {
	service ports.Service
}

// NewInlineOrderWorkflows wraps the order service for synchronous execution.
func NewInlineOrderWorkflows(service ports.Service) *InlineOrderWorkflows {
	return &InlineOrderWorkflows{service: service}
}

// PlaceOrder delegates to the application service without durable orchestration.
func (o *InlineOrderWorkflows) PlaceOrder(ctx context.Context, memberID int64, items []ports.LineItem) (*ports.OrderSummary, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	return o.service.CreateOrder(ctx, memberID, items)
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	traceID := spanCtx.TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}
