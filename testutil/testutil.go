// Package testutil builds in-memory stores and fixtures for package tests.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"campusevents/db"
	"campusevents/models"
	"campusevents/utils"
)

// Password is the plain-text password of every fixture user.
const Password = "secret123"

// OpenDB returns a fresh in-memory SQLite database with the schema applied.
func OpenDB(t testing.TB) *sql.DB {
	t.Helper()
	utils.HashCost = bcrypt.MinCost

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	d, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

type Repos struct {
	Users     models.UserRepository
	Societies models.SocietyRepository
	Events    models.EventRepository
	Regs      models.RegistrationRepository
}

func NewRepos(d *sql.DB) Repos {
	return Repos{
		Users:     models.NewSQLUserRepository(d),
		Societies: models.NewSQLSocietyRepository(d),
		Events:    models.NewSQLEventRepository(d),
		Regs:      models.NewSQLRegistrationRepository(d),
	}
}

// Redis starts a miniredis server that lives for the test.
func Redis(t testing.TB) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

// CreateUser stores a user named name with email {name}@example.edu.
func CreateUser(t testing.TB, users models.UserRepository, role models.Role, name string) models.User {
	t.Helper()
	u := models.User{
		Name:     name,
		Email:    strings.ToLower(name) + "@example.edu",
		Role:     role,
		Password: Password,
	}
	if role == models.RoleStudent {
		u.StudentNumber = "S-" + strings.ToUpper(name)
	}
	if err := users.Create(context.Background(), &u); err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func CreateSociety(t testing.TB, societies models.SocietyRepository, head models.User, name string) models.Society {
	t.Helper()
	s := models.Society{Name: name, Description: name + " society", HeadID: head.ID}
	if err := societies.Create(context.Background(), &s); err != nil {
		t.Fatalf("create society %s: %v", name, err)
	}
	return s
}

// CreateEvent stores a free event one week ahead.
func CreateEvent(t testing.TB, events models.EventRepository, creator models.User, capacity int, society *models.Society) models.Event {
	t.Helper()
	e := models.Event{
		Title:     "Event " + uuid.NewString()[:8],
		EventDate: time.Now().Add(7 * 24 * time.Hour).UTC().Truncate(time.Second),
		Location:  "Main Hall",
		Capacity:  capacity,
		CreatedBy: creator.ID,
	}
	if society != nil {
		e.SocietyID = &society.ID
	}
	if err := events.Create(context.Background(), &e); err != nil {
		t.Fatalf("create event: %v", err)
	}
	return e
}

// Identity is a shorthand for the identity of u.
func Identity(u models.User) *models.Identity {
	return &models.Identity{UserID: u.ID, Role: u.Role}
}
