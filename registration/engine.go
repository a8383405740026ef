// Package registration admits students to events under the capacity and
// one-registration-per-student rules.
package registration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"campusevents/access"
	"campusevents/models"
	"campusevents/storage"
)

// Upload is an invoice file sent with an online-payment registration.
type Upload struct {
	Filename string
	Content  io.Reader
}

type RegisterInput struct {
	EventID       int64
	Phone         string
	PaymentMethod string
	Invoice       *Upload
}

type Engine struct {
	events   models.EventRepository
	regs     models.RegistrationRepository
	files    storage.FileStore
	activity models.ActivityRepository
}

// NewEngine wires the engine; activity may be nil.
func NewEngine(events models.EventRepository, regs models.RegistrationRepository, files storage.FileStore, activity models.ActivityRepository) *Engine {
	return &Engine{events: events, regs: regs, files: files, activity: activity}
}

type validInput struct {
	phone   string
	method  models.PaymentMethod
	invoice *Upload
}

func validate(in RegisterInput) (validInput, error) {
	phone := strings.TrimSpace(in.Phone)
	if phone == "" {
		return validInput{}, models.Validationf("phone number is required")
	}
	method, err := models.ParsePaymentMethod(strings.TrimSpace(in.PaymentMethod))
	if err != nil {
		return validInput{}, err
	}
	v := validInput{phone: phone, method: method}
	if method == models.PaymentOnline {
		if in.Invoice == nil || in.Invoice.Content == nil || strings.TrimSpace(in.Invoice.Filename) == "" {
			return validInput{}, models.Validationf("an invoice upload is required for online payment")
		}
		v.invoice = in.Invoice
	}
	return v, nil
}

// Register enrols the calling student in an event. Checks run in order:
// caller is a student, event exists, no duplicate, a seat is free, input is
// valid. Any failure leaves no registration and no stored invoice behind.
func (e *Engine) Register(ctx context.Context, id *models.Identity, in RegisterInput) (models.Registration, error) {
	if err := access.Authorize(id, access.GateStudent); err != nil {
		return models.Registration{}, err
	}

	ev, err := e.events.GetByID(ctx, in.EventID)
	if err != nil {
		return models.Registration{}, err
	}
	if _, err := e.regs.Get(ctx, ev.ID, id.UserID); err == nil {
		return models.Registration{}, models.ErrDuplicateRegistration
	} else if !errors.Is(err, models.ErrNotFound) {
		return models.Registration{}, err
	}
	if ev.IsFull() {
		return models.Registration{}, models.ErrCapacityExceeded
	}

	v, err := validate(in)
	if err != nil {
		return models.Registration{}, err
	}
	if ev.IsPaid && v.method == models.PaymentNone {
		return models.Registration{}, models.Validationf("payment method is required for paid events")
	}

	reg := models.Registration{
		EventID:       ev.ID,
		StudentID:     id.UserID,
		PhoneNumber:   v.phone,
		PaymentMethod: v.method,
	}
	if v.invoice != nil {
		path, err := e.files.Save(ctx, id.UserID, ev.ID, v.invoice.Filename, v.invoice.Content)
		if err != nil {
			return models.Registration{}, fmt.Errorf("store invoice: %w", err)
		}
		reg.InvoicePath = path
	}

	if err := e.regs.Register(ctx, &reg); err != nil {
		e.discard(ctx, reg.InvoicePath)
		return models.Registration{}, err
	}

	models.RecordActivity(ctx, e.activity, id, models.ActionRegistered, ev.ID, ev.Title)
	return reg, nil
}

func (e *Engine) discard(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := e.files.Remove(path); err != nil {
		slog.WarnContext(ctx, "remove orphaned invoice failed", "path", path, "err", err)
	}
}

// DiscardInvoices removes the invoice files of registrations that were
// deleted along with their event or student.
func (e *Engine) DiscardInvoices(ctx context.Context, paths []string) {
	for _, p := range paths {
		e.discard(ctx, p)
	}
}

// Unregister removes the caller's registration for an event. A missing
// registration is not an error.
func (e *Engine) Unregister(ctx context.Context, id *models.Identity, eventID int64) error {
	if err := access.Authorize(id, access.GateStudent); err != nil {
		return err
	}
	reg, err := e.regs.Get(ctx, eventID, id.UserID)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := e.regs.Cancel(ctx, id.UserID, eventID); err != nil {
		return err
	}
	e.discard(ctx, reg.InvoicePath)
	models.RecordActivity(ctx, e.activity, id, models.ActionUnregistered, eventID, "")
	return nil
}
