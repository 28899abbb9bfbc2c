package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"train-booking-system/internal/models"
	"train-booking-system/internal/temporal/activities"
)

const TaskQueue = "booking-task-queue"

const defaultActivityTimeout = 10 * time.Second

type PaymentInput struct {
	OrderID   string        `json:"orderId"`
	ForceFail *bool         `json:"forceFail,omitempty"`
	Timeout   time.Duration `json:"timeout,omitempty"`
}

func activityOptions(timeout time.Duration) workflow.ActivityOptions {
	if timeout <= 0 {
		timeout = defaultActivityTimeout
	}
	return workflow.ActivityOptions{
		StartToCloseTimeout: timeout,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    3,
		},
	}
}

// PaymentWorkflow charges a pending order and, once it is confirmed, sends the
// booking confirmation.
func PaymentWorkflow(ctx workflow.Context, input PaymentInput) (models.PaymentResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("PaymentWorkflow started", "orderID", input.OrderID)

	ctx = workflow.WithActivityOptions(ctx, activityOptions(input.Timeout))

	var a *activities.OrderActivities
	var result models.PaymentResult
	if err := workflow.ExecuteActivity(ctx, a.ProcessPayment, input.OrderID, input.ForceFail).Get(ctx, &result); err != nil {
		logger.Error("Payment processing failed", "orderID", input.OrderID, "error", err)
		return models.PaymentResult{}, err
	}

	if !result.Success {
		logger.Info("Payment declined", "orderID", input.OrderID)
		return result, nil
	}

	// The order is already confirmed; a lost notification must not undo that.
	if err := workflow.ExecuteActivity(ctx, a.SendConfirmation, input.OrderID).Get(ctx, nil); err != nil {
		logger.Warn("Failed to send confirmation", "orderID", input.OrderID, "error", err)
	}

	logger.Info("PaymentWorkflow completed", "orderID", input.OrderID, "transactionID", result.TransactionID)
	return result, nil
}

func CancellationWorkflow(ctx workflow.Context, orderID string) (models.Order, error) {
	ctx = workflow.WithActivityOptions(ctx, activityOptions(0))

	var a *activities.OrderActivities
	var order models.Order
	if err := workflow.ExecuteActivity(ctx, a.CancelOrder, orderID).Get(ctx, &order); err != nil {
		workflow.GetLogger(ctx).Error("Cancellation failed", "orderID", orderID, "error", err)
		return models.Order{}, err
	}
	return order, nil
}
