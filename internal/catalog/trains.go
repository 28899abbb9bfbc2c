package catalog

import "train-booking-system/internal/models"

var defaultTrains = []models.Train{
	{
		ID:            "T001",
		Number:        "12301",
		Name:          "Rajdhani Express",
		Origin:        "New Delhi",
		Destination:   "Mumbai",
		DepartureTime: "16:00",
		ArrivalTime:   "08:35",
		Duration:      "16h 35m",
		Price:         models.SeatClassCounts{Economy: 1200, Business: 2500, First: 4000},
		Availability:  models.SeatClassCounts{Economy: 50, Business: 20, First: 10},
	},
	{
		ID:            "T002",
		Number:        "12951",
		Name:          "Mumbai Rajdhani",
		Origin:        "Mumbai",
		Destination:   "New Delhi",
		DepartureTime: "17:20",
		ArrivalTime:   "09:15",
		Duration:      "15h 55m",
		Price:         models.SeatClassCounts{Economy: 1150, Business: 2400, First: 3800},
		Availability:  models.SeatClassCounts{Economy: 45, Business: 15, First: 8},
	},
	{
		ID:            "T003",
		Number:        "12259",
		Name:          "Duronto Express",
		Origin:        "Sealdah",
		Destination:   "New Delhi",
		DepartureTime: "20:00",
		ArrivalTime:   "13:30",
		Duration:      "17h 30m",
		Price:         models.SeatClassCounts{Economy: 1000, Business: 2100, First: 3500},
		Availability:  models.SeatClassCounts{Economy: 60, Business: 25, First: 12},
	},
	{
		ID:            "T004",
		Number:        "12431",
		Name:          "Rajdhani Express",
		Origin:        "New Delhi",
		Destination:   "Bangalore",
		DepartureTime: "19:00",
		ArrivalTime:   "06:00",
		Duration:      "34h 00m",
		Price:         models.SeatClassCounts{Economy: 1800, Business: 3500, First: 5500},
		Availability:  models.SeatClassCounts{Economy: 40, Business: 18, First: 9},
	},
	{
		ID:            "T005",
		Number:        "12649",
		Name:          "Sampark Kranti",
		Origin:        "Chennai",
		Destination:   "New Delhi",
		DepartureTime: "11:00",
		ArrivalTime:   "06:45",
		Duration:      "28h 45m",
		Price:         models.SeatClassCounts{Economy: 1500, Business: 3000, First: 4800},
		Availability:  models.SeatClassCounts{Economy: 55, Business: 22, First: 11},
	},
}

// DefaultTrains returns a fresh copy of the built-in timetable.
func DefaultTrains() []models.Train {
	out := make([]models.Train, len(defaultTrains))
	copy(out, defaultTrains)
	return out
}
