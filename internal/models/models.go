package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// SeatClass partitions both pricing and inventory.
type SeatClass string

const (
	ClassEconomy  SeatClass = "economy"
	ClassBusiness SeatClass = "business"
	ClassFirst    SeatClass = "first"
)

// SeatClasses lists every seat class in display order.
var SeatClasses = []SeatClass{ClassEconomy, ClassBusiness, ClassFirst}

func (c SeatClass) Valid() bool {
	switch c {
	case ClassEconomy, ClassBusiness, ClassFirst:
		return true
	}
	return false
}

// ParseSeatClass accepts any casing and surrounding whitespace.
func ParseSeatClass(s string) (SeatClass, error) {
	c := SeatClass(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", ValidationError{Field: "seatClass", Msg: fmt.Sprintf("unknown seat class %q", s)}
	}
	return c, nil
}

// Order statuses
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusFailed    OrderStatus = "failed"
	StatusCancelled OrderStatus = "cancelled"
)

// Payment statuses
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentSuccess PaymentStatus = "success"
	PaymentFailed  PaymentStatus = "failed"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// SeatClassCounts holds one non-negative integer per seat class. It is used
// for both unit prices and available seats.
type SeatClassCounts struct {
	Economy  int `json:"economy"`
	Business int `json:"business"`
	First    int `json:"first"`
}

func (c SeatClassCounts) Get(class SeatClass) int {
	switch class {
	case ClassEconomy:
		return c.Economy
	case ClassBusiness:
		return c.Business
	case ClassFirst:
		return c.First
	}
	return 0
}

// With returns a copy of c with the given class set to n.
func (c SeatClassCounts) With(class SeatClass, n int) SeatClassCounts {
	switch class {
	case ClassEconomy:
		c.Economy = n
	case ClassBusiness:
		c.Business = n
	case ClassFirst:
		c.First = n
	}
	return c
}

// Train represents a scheduled train. Availability is a copy of the ledger
// counts at the time the value was produced.
type Train struct {
	ID            string          `json:"id"`
	Number        string          `json:"number"`
	Name          string          `json:"name"`
	Origin        string          `json:"origin"`
	Destination   string          `json:"destination"`
	DepartureTime string          `json:"departureTime"`
	ArrivalTime   string          `json:"arrivalTime"`
	Duration      string          `json:"duration"`
	Price         SeatClassCounts `json:"price"`
	Availability  SeatClassCounts `json:"availability"`
}

// Passenger travels on exactly one seat selection.
type Passenger struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Age        int     `json:"age"`
	Gender     Gender  `json:"gender"`
	SeatNumber *string `json:"seatNumber,omitempty"`
}

// SeatSelection is a seat class plus the passengers travelling in it. The
// total price is derived from the train's unit price and is never set
// directly.
type SeatSelection struct {
	SeatClass  SeatClass   `json:"seatClass"`
	Passengers []Passenger `json:"passengers"`
	totalPrice int
}

func NewSeatSelection(train Train, class SeatClass, passengers []Passenger) (SeatSelection, error) {
	if !class.Valid() {
		return SeatSelection{}, ValidationError{Field: "seatClass", Msg: fmt.Sprintf("unknown seat class %q", class)}
	}
	if len(passengers) == 0 {
		return SeatSelection{}, ValidationError{Field: "passengers", Msg: "at least one passenger is required"}
	}
	ps := make([]Passenger, len(passengers))
	copy(ps, passengers)
	return SeatSelection{
		SeatClass:  class,
		Passengers: ps,
		totalPrice: train.Price.Get(class) * len(ps),
	}, nil
}

// WithSeatClass moves the selection to another class and re-derives the total.
func (s SeatSelection) WithSeatClass(train Train, class SeatClass) (SeatSelection, error) {
	return NewSeatSelection(train, class, s.Passengers)
}

func (s SeatSelection) TotalPrice() int { return s.totalPrice }

func (s SeatSelection) SeatCount() int { return len(s.Passengers) }

type seatSelectionJSON struct {
	SeatClass  SeatClass   `json:"seatClass"`
	Passengers []Passenger `json:"passengers"`
	TotalPrice int         `json:"totalPrice"`
}

func (s SeatSelection) MarshalJSON() ([]byte, error) {
	return json.Marshal(seatSelectionJSON{
		SeatClass:  s.SeatClass,
		Passengers: s.Passengers,
		TotalPrice: s.totalPrice,
	})
}

// UnmarshalJSON restores a persisted snapshot. The stored total is trusted
// because it was derived when the order was placed.
func (s *SeatSelection) UnmarshalJSON(data []byte) error {
	var raw seatSelectionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.SeatClass = raw.SeatClass
	s.Passengers = raw.Passengers
	s.totalPrice = raw.TotalPrice
	return nil
}

// clone deep-copies the passenger slice so snapshots never share memory.
func (s SeatSelection) clone() SeatSelection {
	ps := make([]Passenger, len(s.Passengers))
	for i, p := range s.Passengers {
		if p.SeatNumber != nil {
			seat := *p.SeatNumber
			p.SeatNumber = &seat
		}
		ps[i] = p
	}
	s.Passengers = ps
	return s
}

// Order represents a train booking order
type Order struct {
	ID            string        `json:"id"`
	Train         Train         `json:"train"`
	SeatSelection SeatSelection `json:"seatSelection"`
	Status        OrderStatus   `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	PNR           *string       `json:"pnr,omitempty"`
}

func (o Order) PassengerCount() int { return o.SeatSelection.SeatCount() }

// Clone returns a copy that shares no mutable memory with o.
func (o Order) Clone() Order {
	o.SeatSelection = o.SeatSelection.clone()
	if o.PNR != nil {
		pnr := *o.PNR
		o.PNR = &pnr
	}
	return o
}

// PaymentResult is the outcome of a payment attempt. A failed payment is a
// normal result, not an error.
type PaymentResult struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transactionId,omitempty"`
	Message       string `json:"message"`
}

// AvailabilityConflict describes a request for more seats than are available.
type AvailabilityConflict struct {
	TrainID   string    `json:"trainId"`
	SeatClass SeatClass `json:"seatClass"`
	Requested int       `json:"requested"`
	Available int       `json:"available"`
}

// OrderPage is one page of order history, newest first.
type OrderPage struct {
	Orders     []Order `json:"orders"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	TotalPages int     `json:"totalPages"`
}
