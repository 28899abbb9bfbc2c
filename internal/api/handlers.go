package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.temporal.io/sdk/client"

	"train-booking-system/internal/booking"
	"train-booking-system/internal/models"
	"train-booking-system/internal/temporal/workflows"
	"train-booking-system/internal/ticket"
)

type Handler struct {
	System *booking.System
	// TemporalClient routes payments and cancellations through workflows.
	// When nil they call the booking system directly.
	TemporalClient client.Client
	PaymentTimeout time.Duration
	Log            logrus.FieldLogger
}

func NewHandler(sys *booking.System, temporalClient client.Client, paymentTimeout time.Duration, log logrus.FieldLogger) *Handler {
	return &Handler{
		System:         sys,
		TemporalClient: temporalClient,
		PaymentTimeout: paymentTimeout,
		Log:            log.WithField("component", "api"),
	}
}

type CreateOrderRequest struct {
	SeatClass  string             `json:"seatClass"`
	Passengers []models.Passenger `json:"passengers"`
}

type PaymentRequest struct {
	ForceFail *bool `json:"forceFail,omitempty"`
}

type AvailabilityResponse struct {
	TrainID   string                       `json:"trainId"`
	SeatClass models.SeatClass             `json:"seatClass"`
	Requested int                          `json:"requested"`
	Available bool                         `json:"available"`
	Conflict  *models.AvailabilityConflict `json:"conflict,omitempty"`
}

type WatchlistStatus struct {
	TrainID  string `json:"trainId"`
	Watching bool   `json:"watching"`
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handler) SearchTrains(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	trains, err := h.System.SearchTrains(r.Context(), q.Get("origin"), q.Get("destination"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trains)
}

func (h *Handler) GetTrain(w http.ResponseWriter, r *http.Request) {
	trainID := mux.Vars(r)["trainId"]

	train, err := h.System.GetTrainByID(r.Context(), trainID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if train == nil {
		h.writeError(w, r, models.NotFoundError{Resource: "train", ID: trainID})
		return
	}
	writeJSON(w, http.StatusOK, train)
}

// CheckAvailability answers whether ?seats= seats of ?class= can be booked.
func (h *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	trainID := mux.Vars(r)["trainId"]
	q := r.URL.Query()

	class, err := models.ParseSeatClass(q.Get("class"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	seats, err := strconv.Atoi(q.Get("seats"))
	if err != nil || seats < 1 {
		h.writeError(w, r, models.ValidationError{Field: "seats", Msg: "must be a positive integer"})
		return
	}

	conflict, err := h.System.CheckAvailabilityConflict(r.Context(), trainID, class, seats)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AvailabilityResponse{
		TrainID:   trainID,
		SeatClass: class,
		Requested: seats,
		Available: conflict == nil,
		Conflict:  conflict,
	})
}

func (h *Handler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	trains, err := h.System.GetWatchlist(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trains)
}

func (h *Handler) WatchlistStatus(w http.ResponseWriter, r *http.Request) {
	trainID := mux.Vars(r)["trainId"]
	writeJSON(w, http.StatusOK, WatchlistStatus{TrainID: trainID, Watching: h.System.IsInWatchlist(trainID)})
}

func (h *Handler) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	trainID := mux.Vars(r)["trainId"]
	h.System.AddToWatchlist(trainID)
	writeJSON(w, http.StatusOK, WatchlistStatus{TrainID: trainID, Watching: true})
}

func (h *Handler) RemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	trainID := mux.Vars(r)["trainId"]
	h.System.RemoveFromWatchlist(trainID)
	writeJSON(w, http.StatusOK, WatchlistStatus{TrainID: trainID, Watching: false})
}

// CreateOrder books seats on a train. The order stays pending until paid.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	trainID := mux.Vars(r)["trainId"]

	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, models.ValidationError{Msg: fmt.Sprintf("invalid request body: %v", err)})
		return
	}
	class, err := models.ParseSeatClass(req.SeatClass)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	for i := range req.Passengers {
		if req.Passengers[i].ID == "" {
			req.Passengers[i].ID = uuid.New().String()
		}
	}

	order, err := h.System.BookTrain(r.Context(), trainID, class, req.Passengers)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	// Bad values fall through to the history defaults.
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))

	result, err := h.System.GetOrderHistory(r.Context(), page, pageSize)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["orderId"]

	order, err := h.System.GetOrderByID(r.Context(), orderID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if order == nil {
		h.writeError(w, r, models.NotFoundError{Resource: "order", ID: orderID})
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// SubmitPayment pays a pending order. A declined payment is reported in the
// body with success=false, not as an error status.
func (h *Handler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["orderId"]

	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, r, models.ValidationError{Msg: fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	var (
		result models.PaymentResult
		err    error
	)
	if h.TemporalClient != nil {
		err = h.runWorkflow(r.Context(), "payment-"+orderID, workflows.PaymentWorkflow,
			workflows.PaymentInput{OrderID: orderID, ForceFail: req.ForceFail, Timeout: h.PaymentTimeout}, &result)
	} else {
		result, err = h.System.ProcessPayment(r.Context(), orderID, req.ForceFail)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["orderId"]

	var (
		order models.Order
		err   error
	)
	if h.TemporalClient != nil {
		err = h.runWorkflow(r.Context(), "cancel-"+orderID, workflows.CancellationWorkflow, orderID, &order)
	} else {
		order, err = h.System.CancelOrder(r.Context(), orderID)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// GetTicket streams the PDF e-ticket of a confirmed order.
func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["orderId"]

	order, err := h.System.GetOrderByID(r.Context(), orderID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if order == nil {
		h.writeError(w, r, models.NotFoundError{Resource: "order", ID: orderID})
		return
	}

	var buf bytes.Buffer
	if err := ticket.Render(&buf, *order); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "ticket-"+*order.PNR+".pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// ResetBooking drops all orders and restores seat availability (admin/testing)
func (h *Handler) ResetBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.System.Reset(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "booking state reset"})
}

func (h *Handler) runWorkflow(ctx context.Context, id string, workflow any, input any, out any) error {
	opts := client.StartWorkflowOptions{
		ID:        id,
		TaskQueue: workflows.TaskQueue,
	}
	run, err := h.TemporalClient.ExecuteWorkflow(ctx, opts, workflow, input)
	if err != nil {
		return fmt.Errorf("failed to start workflow: %w", err)
	}
	return run.Get(ctx, out)
}
