package ticket

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"train-booking-system/internal/models"
)

func confirmedOrder(t *testing.T) models.Order {
	t.Helper()
	train := models.Train{
		ID: "T001", Number: "12301", Name: "Rajdhani Express",
		Origin: "New Delhi", Destination: "Mumbai",
		Price: models.SeatClassCounts{Economy: 1200},
	}
	seat := "B4-21"
	sel, err := models.NewSeatSelection(train, models.ClassEconomy, []models.Passenger{
		{ID: "p1", Name: "Asha Rao", Age: 34, Gender: models.GenderFemale, SeatNumber: &seat},
		{ID: "p2", Name: "Ravi Rao", Age: 36, Gender: models.GenderMale},
	})
	require.NoError(t, err)
	pnr := "PNRLX2K9ABCD"
	return models.Order{
		ID: "o1", Train: train, SeatSelection: sel,
		Status: models.StatusConfirmed, PaymentStatus: models.PaymentSuccess,
		CreatedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC), PNR: &pnr,
	}
}

func TestRender_Confirmed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, confirmedOrder(t)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 1000)
}

func TestRender_RejectsUnconfirmed(t *testing.T) {
	o := confirmedOrder(t)
	o.Status = models.StatusPending
	o.PNR = nil

	var buf bytes.Buffer
	assert.ErrorIs(t, Render(&buf, o), ErrNotConfirmed)
	assert.Zero(t, buf.Len())

	o = confirmedOrder(t)
	o.Status = models.StatusCancelled
	assert.ErrorIs(t, Render(&buf, o), ErrNotConfirmed)
}
