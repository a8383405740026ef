package models

import (
	"context"
	"log/slog"
	"time"
)

// Activity actions.
const (
	ActionRegistered     = "registration.created"
	ActionUnregistered   = "registration.cancelled"
	ActionEventCreated   = "event.created"
	ActionEventUpdated   = "event.updated"
	ActionEventDeleted   = "event.deleted"
	ActionSocietyCreated = "society.created"
	ActionSocietyUpdated = "society.updated"
	ActionSocietyDeleted = "society.deleted"
	ActionUserCreated    = "user.created"
	ActionUserUpdated    = "user.updated"
	ActionUserDeleted    = "user.deleted"
)

// Activity is one entry of the append-only audit trail.
type Activity struct {
	ID        string    `json:"id" bson:"id"`
	Action    string    `json:"action" bson:"action"`
	ActorID   int64     `json:"actorId" bson:"actor_id"`
	ActorRole string    `json:"actorRole" bson:"actor_role"`
	SubjectID int64     `json:"subjectId" bson:"subject_id"`
	Detail    string    `json:"detail,omitempty" bson:"detail,omitempty"`
	At        time.Time `json:"at" bson:"at"`
}

type ActivityRepository interface {
	Record(ctx context.Context, a *Activity) error
	Recent(ctx context.Context, limit int) ([]Activity, error)
}

// RecordActivity appends a to repo when an activity log is configured.
// Failures are logged and never fail the caller's operation.
func RecordActivity(ctx context.Context, repo ActivityRepository, actor *Identity, action string, subjectID int64, detail string) {
	if repo == nil {
		return
	}
	a := &Activity{Action: action, SubjectID: subjectID, Detail: detail}
	if actor != nil {
		a.ActorID = actor.UserID
		a.ActorRole = actor.Role.String()
	}
	if err := repo.Record(ctx, a); err != nil {
		slog.ErrorContext(ctx, "record activity failed", "action", action, "subjectId", subjectID, "err", err)
	}
}
