package models

import (
	"context"
	"time"
)

// ===== Users =====
type User struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	StudentNumber string    `json:"studentNumber,omitempty"`
	Role          Role      `json:"role"`
	CreatedAt     time.Time `json:"createdAt"`

	// Password is the plain-text input on create/update; empty on update
	// keeps the stored hash.
	Password     string `json:"-"`
	PasswordHash string `json:"-"`
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	ValidateCredentials(ctx context.Context, email, plain string) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	ListByRole(ctx context.Context, role Role) ([]User, error)
	Update(ctx context.Context, u *User) error
	// Delete returns the invoice paths of the registrations removed with the user.
	Delete(ctx context.Context, id int64) ([]string, error)
	Count(ctx context.Context) (int, error)
}

// ===== Societies =====
type Society struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	HeadID      int64     `json:"societyHeadId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type SocietyRepository interface {
	Create(ctx context.Context, s *Society) error
	GetByID(ctx context.Context, id int64) (Society, error)
	GetByHead(ctx context.Context, headID int64) (Society, error)
	GetAll(ctx context.Context) ([]Society, error)
	Update(ctx context.Context, s *Society) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// ===== Events =====
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"eventDate"`
	Location    string    `json:"location"`
	Capacity    int       `json:"capacity"`
	IsPaid      bool      `json:"isPaid"`
	Cost        float64   `json:"cost"`
	SocietyID   *int64    `json:"societyId,omitempty"`
	SocietyName string    `json:"societyName,omitempty"`
	CreatedBy   int64     `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`

	// RegisteredCount is read from live registration rows with the event.
	RegisteredCount int `json:"registeredCount"`
}

func (e Event) AvailableSlots() int { return e.Capacity - e.RegisteredCount }

func (e Event) IsFull() bool { return e.RegisteredCount >= e.Capacity }

// EventView is the JSON shape served to clients.
type EventView struct {
	Event
	AvailableSlots int  `json:"availableSlots"`
	IsFull         bool `json:"isFull"`
}

func (e Event) View() EventView {
	return EventView{Event: e, AvailableSlots: e.AvailableSlots(), IsFull: e.IsFull()}
}

type EventRepository interface {
	GetAll(ctx context.Context) ([]Event, error)
	GetByID(ctx context.Context, id int64) (Event, error)
	ListByCreator(ctx context.Context, userID int64) ([]Event, error)
	ListUpcoming(ctx context.Context, from time.Time) ([]Event, error)
	Recent(ctx context.Context, limit int) ([]Event, error)
	Create(ctx context.Context, e *Event) error
	// Update rejects a capacity below the live registration count with
	// *CapacityTooLowError.
	Update(ctx context.Context, e *Event) error
	// Delete removes the event together with its registrations and returns
	// their invoice paths.
	Delete(ctx context.Context, id int64) ([]string, error)
	Count(ctx context.Context) (int, error)
}

// ===== Registrations =====
type PaymentMethod string

const (
	PaymentNone   PaymentMethod = ""
	PaymentOnsite PaymentMethod = "onsite"
	PaymentOnline PaymentMethod = "online"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentNone, PaymentOnsite, PaymentOnline:
		return PaymentMethod(s), nil
	}
	return "", Validationf("unknown payment method %q", s)
}

type Registration struct {
	ID               int64         `json:"id"`
	EventID          int64         `json:"eventId"`
	StudentID        int64         `json:"studentId"`
	RegistrationDate time.Time     `json:"registrationDate"`
	PhoneNumber      string        `json:"phoneNumber"`
	PaymentMethod    PaymentMethod `json:"paymentMethod"`
	InvoicePath      string        `json:"invoicePath,omitempty"`
}

// RosterEntry is a registration joined with its student, used by listings
// and exports.
type RosterEntry struct {
	Registration
	StudentName  string `json:"studentName"`
	StudentEmail string `json:"studentEmail"`
}

// StudentRegistration is a registration joined with its event, used by the
// student dashboard.
type StudentRegistration struct {
	Registration
	EventTitle    string    `json:"eventTitle"`
	EventDate     time.Time `json:"eventDate"`
	EventLocation string    `json:"eventLocation"`
}

type RegistrationRepository interface {
	// Register inserts reg if the event exists, the student is not yet
	// registered and a seat is free, all in one transaction.
	Register(ctx context.Context, reg *Registration) error
	// Cancel is idempotent: a missing registration is not an error.
	Cancel(ctx context.Context, studentID, eventID int64) error
	Get(ctx context.Context, eventID, studentID int64) (Registration, error)
	ListByEvent(ctx context.Context, eventID int64) ([]RosterEntry, error)
	ListByStudent(ctx context.Context, studentID int64) ([]StudentRegistration, error)
	CountForEvent(ctx context.Context, eventID int64) (int, error)
	Count(ctx context.Context) (int, error)
}
