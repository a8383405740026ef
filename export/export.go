// Package export renders event rosters as CSV or PDF attachments.
package export

import (
	"fmt"
	"io"
	"time"

	"campusevents/models"
)

type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

const dateLayout = "2006-01-02 15:04"

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatPDF:
		return Format(s), nil
	}
	return "", models.Validationf("unsupported export format %q", s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Filename is the attachment name for an event roster.
func (f Format) Filename(eventID int64) string {
	return fmt.Sprintf("event_%d_registrations.%s", eventID, f)
}

// Render writes the roster of ev in format f.
func Render(w io.Writer, f Format, ev models.Event, roster []models.RosterEntry, now time.Time) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, roster)
	case FormatPDF:
		return WritePDF(w, ev, roster, now)
	}
	return models.Validationf("unsupported export format %q", f)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
