package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"campusevents/models"
)

var csvHeader = []string{"Student Name", "Email", "Phone", "Payment Method", "Invoice Path", "Registration Date"}

func WriteCSV(w io.Writer, roster []models.RosterEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range roster {
		row := []string{
			orNA(r.StudentName),
			orNA(r.StudentEmail),
			orNA(r.PhoneNumber),
			orNA(string(r.PaymentMethod)),
			orNA(r.InvoicePath),
			r.RegistrationDate.Format(dateLayout),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
