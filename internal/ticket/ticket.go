// Package ticket renders confirmed orders as printable e-tickets.
package ticket

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"train-booking-system/internal/models"
)

// ErrNotConfirmed is returned for orders that do not hold a PNR.
var ErrNotConfirmed = errors.New("ticket: order is not confirmed")

// Render writes a single-page PDF e-ticket for order to w.
func Render(w io.Writer, order models.Order) error {
	if order.Status != models.StatusConfirmed || order.PNR == nil {
		return ErrNotConfirmed
	}
	pnr := *order.PNR
	train := order.Train
	sel := order.SeatSelection

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket "+pnr, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "RAILWAY E-TICKET")
	pdf.Ln(14)

	qr, err := qrcode.Encode(pnr, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("encode pnr: %w", err)
	}
	opts := gofpdf.ImageOptions{ImageType: "png"}
	pdf.RegisterImageOptionsReader("pnr", opts, bytes.NewReader(qr))
	pdf.ImageOptions("pnr", 150, 12, 40, 0, false, opts, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("PNR          : %s", pnr),
		fmt.Sprintf("Order        : %s", order.ID),
		fmt.Sprintf("Train        : %s %s", train.Number, train.Name),
		fmt.Sprintf("Route        : %s -> %s", train.Origin, train.Destination),
		fmt.Sprintf("Departure    : %s", train.DepartureTime),
		fmt.Sprintf("Arrival      : %s (%s)", train.ArrivalTime, train.Duration),
		fmt.Sprintf("Class        : %s", strings.ToUpper(string(sel.SeatClass))),
		fmt.Sprintf("Booked on    : %s", order.CreatedAt.Format("2006-01-02 15:04")),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(10, 8, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(90, 8, "Passenger", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, "Age", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 8, "Gender", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 8, "Seat", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for i, p := range sel.Passengers {
		seat := "-"
		if p.SeatNumber != nil {
			seat = *p.SeatNumber
		}
		pdf.CellFormat(10, 8, fmt.Sprint(i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(90, 8, p.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprint(p.Age), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, string(p.Gender), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, seat, "1", 1, "C", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total fare: INR %d", sel.TotalPrice()))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Carry a valid photo ID matching the passenger names above.", "", "", false)

	return pdf.Output(w)
}
