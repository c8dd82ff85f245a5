// models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category string

const (
	CategoryTechnical Category = "technical"
	CategoryWorkshop  Category = "workshop"
	CategoryGaming    Category = "gaming"
	CategoryCultural  Category = "cultural"
)

// ValidCategory reports whether c is one of the known event categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryTechnical, CategoryWorkshop, CategoryGaming, CategoryCultural:
		return true
	}
	return false
}

type TeamSize struct {
	Min int `bson:"min" json:"min"`
	Max int `bson:"max" json:"max"`
}

type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Category    Category           `bson:"category" json:"category"`
	Date        time.Time          `bson:"date" json:"date"`
	Venue       string             `bson:"venue" json:"venue"`
	Deadline    time.Time          `bson:"registrationDeadline" json:"registration_deadline"`
	IsActive    bool               `bson:"isActive" json:"is_active"`

	TeamSize TeamSize `bson:"teamSize" json:"team_size"`
	MaxTeams int      `bson:"maxTeams" json:"max_teams"`

	// CurrentTeams is incremented exactly once per registered team and always
	// equals the number of team_leader entries in Participants.
	CurrentTeams int `bson:"currentTeams" json:"current_teams"`

	// Participants is flat: one entry per person, not per team. Mutated only
	// by the registration transaction.
	Participants []ParticipantEntry `bson:"participants" json:"participants,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updated_at"`
}

// ParticipantEntry is one (user, event, role) record stored on the event.
// Email and mobile are denormalized for the admin roster view; public
// responses strip them.
type ParticipantEntry struct {
	UserID           primitive.ObjectID `bson:"userId" json:"user_id"`
	FestID           string             `bson:"festId" json:"fest_id"`
	Name             string             `bson:"name" json:"name"`
	Email            string             `bson:"email,omitempty" json:"email,omitempty"`
	Mobile           string             `bson:"mobile,omitempty" json:"mobile,omitempty"`
	TeamName         string             `bson:"teamName" json:"team_name"`
	Role             Role               `bson:"role" json:"role"`
	RegistrationDate time.Time          `bson:"registrationDate" json:"registration_date"`
}

// RegistrationOpen reports whether new teams may still register.
func (e *Event) RegistrationOpen(now time.Time) bool {
	return e.IsActive && now.Before(e.Deadline) && e.CurrentTeams < e.MaxTeams
}

// HasParticipant checks the flat participant list by both internal id and
// fest ID. Legacy imports occasionally carried entries with a fest ID but a
// zero user id, so both keys are consulted.
func (e *Event) HasParticipant(userID primitive.ObjectID, festID string) bool {
	for _, p := range e.Participants {
		if p.UserID == userID {
			return true
		}
		if festID != "" && p.FestID == festID {
			return true
		}
	}
	return false
}
