package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"train-booking-system/internal/models"
	"train-booking-system/internal/storage"
)

// Ledger is the read side of the inventory plus seeding.
type Ledger interface {
	Initialize(train models.Train)
	Availability(trainID string) (models.SeatClassCounts, bool)
}

// Service answers train queries from a static timetable with live seat
// counts overlaid, and keeps the watchlist.
type Service struct {
	trains []models.Train
	ledger Ledger

	mu        sync.Mutex
	watchlist []string
	record    *storage.Record
	log       logrus.FieldLogger
}

// NewService seeds the ledger for every train and loads the watchlist.
func NewService(ctx context.Context, trains []models.Train, ledger Ledger, record *storage.Record, log logrus.FieldLogger) *Service {
	s := &Service{
		trains: trains,
		ledger: ledger,
		record: record,
		log:    log.WithField("component", "catalog"),
	}
	s.Seed()

	var ids []string
	if record.Load(ctx, &ids) {
		s.watchlist = dedupe(ids)
	}
	return s
}

// Seed initializes ledger entries that do not exist yet.
func (s *Service) Seed() {
	for _, t := range s.trains {
		s.ledger.Initialize(t)
	}
}

// Search filters by case-insensitive substring on origin and destination. An
// empty filter matches everything.
func (s *Service) Search(origin, destination string) []models.Train {
	origin = strings.ToLower(strings.TrimSpace(origin))
	destination = strings.ToLower(strings.TrimSpace(destination))

	out := make([]models.Train, 0, len(s.trains))
	for _, t := range s.trains {
		if origin != "" && !strings.Contains(strings.ToLower(t.Origin), origin) {
			continue
		}
		if destination != "" && !strings.Contains(strings.ToLower(t.Destination), destination) {
			continue
		}
		out = append(out, s.overlay(t))
	}
	return out
}

func (s *Service) ByID(id string) (models.Train, bool) {
	for _, t := range s.trains {
		if t.ID == id {
			return s.overlay(t), true
		}
	}
	return models.Train{}, false
}

func (s *Service) All() []models.Train {
	return s.Search("", "")
}

// overlay replaces nominal availability with the ledger's live copy when the
// ledger knows the train.
func (s *Service) overlay(t models.Train) models.Train {
	if live, ok := s.ledger.Availability(t.ID); ok {
		t.Availability = live
	}
	return t
}

func (s *Service) AddToWatchlist(trainID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(trainID) >= 0 {
		return
	}
	s.watchlist = append(s.watchlist, trainID)
	s.record.Save(s.watchlist)
	s.log.WithField("train", trainID).Debug("Added to watchlist")
}

func (s *Service) RemoveFromWatchlist(trainID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(trainID)
	if i < 0 {
		return
	}
	s.watchlist = append(s.watchlist[:i:i], s.watchlist[i+1:]...)
	s.record.Save(s.watchlist)
	s.log.WithField("train", trainID).Debug("Removed from watchlist")
}

func (s *Service) InWatchlist(trainID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(trainID) >= 0
}

// Watchlist joins the watched ids against All, in timetable order. Ids that
// match no train are skipped.
func (s *Service) Watchlist() []models.Train {
	s.mu.Lock()
	watched := make(map[string]bool, len(s.watchlist))
	for _, id := range s.watchlist {
		watched[id] = true
	}
	s.mu.Unlock()

	out := []models.Train{}
	for _, t := range s.All() {
		if watched[t.ID] {
			out = append(out, t)
		}
	}
	return out
}

// indexOf must be called with s.mu held.
func (s *Service) indexOf(trainID string) int {
	for i, id := range s.watchlist {
		if id == trainID {
			return i
		}
	}
	return -1
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
