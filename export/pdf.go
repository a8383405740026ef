package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"campusevents/models"
)

var pdfColumns = []struct {
	title string
	width float64
}{
	{"#", 10},
	{"Student Name", 45},
	{"Email", 55},
	{"Phone", 30},
	{"Payment", 20},
	{"Registered", 30},
}

// WritePDF renders a one-table roster report with an event summary.
func WritePDF(w io.Writer, ev models.Event, roster []models.RosterEntry, now time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Event Registrations Report", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Event Registrations Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	summary := [][2]string{
		{"Event", ev.Title},
		{"Date", ev.EventDate.Format(dateLayout)},
		{"Location", ev.Location},
		{"Capacity", strconv.Itoa(ev.Capacity)},
		{"Registered", strconv.Itoa(len(roster))},
		{"Generated", now.Format(dateLayout)},
	}
	for _, kv := range summary {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(30, 7, kv[0]+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, kv[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 8, col.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for i, r := range roster {
		cells := []string{
			strconv.Itoa(i + 1),
			orNA(r.StudentName),
			orNA(r.StudentEmail),
			orNA(r.PhoneNumber),
			orNA(string(r.PaymentMethod)),
			r.RegistrationDate.Format(dateLayout),
		}
		for j, col := range pdfColumns {
			pdf.CellFormat(col.width, 7, cells[j], "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(roster) == 0 {
		pdf.CellFormat(0, 8, "No registrations yet.", "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
