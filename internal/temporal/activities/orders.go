package activities

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"train-booking-system/internal/models"
)

// Application error types carried by non-retryable activity failures.
const (
	ErrTypeNotFound     = "NotFound"
	ErrTypeInvalidState = "InvalidState"
	ErrTypeUnavailable  = "SeatsUnavailable"
	ErrTypeValidation   = "Validation"
)

// Bookings is the part of the booking system the activities drive.
type Bookings interface {
	ProcessPayment(ctx context.Context, orderID string, forceFail *bool) (models.PaymentResult, error)
	CancelOrder(ctx context.Context, orderID string) (models.Order, error)
	GetOrderByID(ctx context.Context, orderID string) (*models.Order, error)
}

type OrderActivities struct {
	Bookings Bookings
}

func NewOrderActivities(b Bookings) *OrderActivities {
	return &OrderActivities{Bookings: b}
}

// ProcessPayment charges a pending order. A declined payment is a normal
// result; only lookup and state problems are errors.
func (a *OrderActivities) ProcessPayment(ctx context.Context, orderID string, forceFail *bool) (models.PaymentResult, error) {
	res, err := a.Bookings.ProcessPayment(ctx, orderID, forceFail)
	if err != nil {
		return models.PaymentResult{}, permanent(err, "process payment")
	}
	return res, nil
}

func (a *OrderActivities) CancelOrder(ctx context.Context, orderID string) (models.Order, error) {
	order, err := a.Bookings.CancelOrder(ctx, orderID)
	if err != nil {
		return models.Order{}, permanent(err, "cancel order")
	}
	return order, nil
}

// SendConfirmation sends a booking confirmation (simulated)
func (a *OrderActivities) SendConfirmation(ctx context.Context, orderID string) error {
	order, err := a.Bookings.GetOrderByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load order: %w", err)
	}
	if order == nil {
		return permanent(models.NotFoundError{Resource: "order", ID: orderID}, "send confirmation")
	}
	if order.PNR == nil {
		return temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("order %s has no PNR", orderID), ErrTypeInvalidState, nil)
	}

	activity.GetLogger(ctx).Info("Sending booking confirmation",
		"orderID", order.ID, "pnr", *order.PNR, "passengers", order.PassengerCount())
	return nil
}

// permanent marks domain errors as non-retryable. Anything else, such as a
// cancelled context, is left to the retry policy.
// Availability failures carry their conflict as details.
func permanent(err error, op string) error {
	var (
		errType      string
		details      []interface{}
		availability models.AvailabilityError
	)
	switch {
	case models.IsNotFound(err):
		errType = ErrTypeNotFound
	case models.IsState(err):
		errType = ErrTypeInvalidState
	case errors.As(err, &availability):
		errType = ErrTypeUnavailable
		details = append(details, availability.Conflict)
	case models.IsValidation(err):
		errType = ErrTypeValidation
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
	return temporal.NewNonRetryableApplicationError(err.Error(), errType, err, details...)
}

// Conflict recovers the availability conflict from a SeatsUnavailable failure.
func Conflict(err error) (*models.AvailabilityConflict, bool) {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) || appErr.Type() != ErrTypeUnavailable || !appErr.HasDetails() {
		return nil, false
	}
	var conflict models.AvailabilityConflict
	if err := appErr.Details(&conflict); err != nil {
		return nil, false
	}
	return &conflict, true
}

// IsPermanent reports whether err carries one of the non-retryable types.
func IsPermanent(err error) (string, bool) {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return "", false
	}
	switch appErr.Type() {
	case ErrTypeNotFound, ErrTypeInvalidState, ErrTypeUnavailable, ErrTypeValidation:
		return appErr.Type(), true
	}
	return "", false
}
