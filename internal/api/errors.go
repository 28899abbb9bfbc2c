package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"train-booking-system/internal/models"
	"train-booking-system/internal/temporal/activities"
	"train-booking-system/internal/ticket"
)

type errorResponse struct {
	Error    string                       `json:"error"`
	Conflict *models.AvailabilityConflict `json:"conflict,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	var availability models.AvailabilityError
	switch {
	case models.IsValidation(err):
		return http.StatusBadRequest
	case models.IsNotFound(err):
		return http.StatusNotFound
	case errors.As(err, &availability), models.IsState(err), errors.Is(err, ticket.ErrNotConfirmed):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout
	}

	if errType, ok := activities.IsPermanent(err); ok {
		switch errType {
		case activities.ErrTypeValidation:
			return http.StatusBadRequest
		case activities.ErrTypeNotFound:
			return http.StatusNotFound
		default:
			return http.StatusConflict
		}
	}
	return http.StatusInternalServerError
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := errorResponse{Error: err.Error()}

	var availability models.AvailabilityError
	if errors.As(err, &availability) {
		body.Conflict = &availability.Conflict
	} else if conflict, ok := activities.Conflict(err); ok {
		body.Conflict = conflict
	}
	if status >= http.StatusInternalServerError {
		h.Log.WithError(err).WithField("path", r.URL.Path).Error("Request error")
	}
	writeJSON(w, status, body)
}
