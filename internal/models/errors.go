package models

import (
	"errors"
	"fmt"
)

// AvailabilityError is returned when a request asks for more seats than the
// ledger currently holds.
type AvailabilityError struct {
	Conflict AvailabilityConflict
}

func (e AvailabilityError) Error() string {
	return fmt.Sprintf("insufficient seats on train %s (%s): requested %d, available %d",
		e.Conflict.TrainID, e.Conflict.SeatClass, e.Conflict.Requested, e.Conflict.Available)
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// StateError rejects an operation the order's current status does not allow.
type StateError struct {
	OrderID string
	Status  OrderStatus
	Op      string
}

func (e StateError) Error() string {
	return fmt.Sprintf("cannot %s order %s in status %s", e.Op, e.OrderID, e.Status)
}

func IsAvailability(err error) bool {
	var target AvailabilityError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsState(err error) bool {
	var target StateError
	return errors.As(err, &target)
}
