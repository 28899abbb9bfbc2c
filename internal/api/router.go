package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(h *Handler, gatherer prometheus.Gatherer) *mux.Router {
	r := mux.NewRouter()

	r.Use(CORSMiddleware)
	r.Use(LoggingMiddleware(h.Log))

	api := r.PathPrefix("/api").Subrouter()
	api.Use(JSONMiddleware)

	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods("GET")

	// Train routes
	api.HandleFunc("/trains", h.SearchTrains).Methods("GET")
	api.HandleFunc("/trains/{trainId}", h.GetTrain).Methods("GET")
	api.HandleFunc("/trains/{trainId}/availability", h.CheckAvailability).Methods("GET")
	api.HandleFunc("/trains/{trainId}/orders", h.CreateOrder).Methods("POST")

	// Watchlist routes
	api.HandleFunc("/watchlist", h.GetWatchlist).Methods("GET")
	api.HandleFunc("/watchlist/{trainId}", h.WatchlistStatus).Methods("GET")
	api.HandleFunc("/watchlist/{trainId}", h.AddToWatchlist).Methods("POST")
	api.HandleFunc("/watchlist/{trainId}", h.RemoveFromWatchlist).Methods("DELETE")

	// Order routes
	api.HandleFunc("/orders", h.ListOrders).Methods("GET")
	api.HandleFunc("/orders/{orderId}", h.GetOrder).Methods("GET")
	api.HandleFunc("/orders/{orderId}", h.CancelOrder).Methods("DELETE")
	api.HandleFunc("/orders/{orderId}/payment", h.SubmitPayment).Methods("POST")
	api.HandleFunc("/orders/{orderId}/ticket", h.GetTicket).Methods("GET")

	// Admin routes (for testing)
	api.HandleFunc("/admin/reset", h.ResetBooking).Methods("POST")

	// Preflight requests never match a route's method, so answer them here.
	r.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}
