// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleTeamLeader Role = "team_leader"
	RoleMember     Role = "member"
)

type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FestID           string             `bson:"festId" json:"fest_id"`
	Name             string             `bson:"name" json:"name"`
	RegNo            string             `bson:"regNo" json:"reg_no"`
	Mobile           string             `bson:"mobile" json:"mobile"`
	Email            string             `bson:"email" json:"email"`
	IsCollegeStudent bool               `bson:"isCollegeStudent" json:"is_college_student"`
	CollegeName      string             `bson:"collegeName,omitempty" json:"college_name,omitempty"`
	Password         string             `bson:"password" json:"-"`
	IsAdmin          bool               `bson:"isAdmin" json:"is_admin"`

	// ParticipatedEvents entries are appended only by the registration
	// transaction; a user appears at most once per event.
	ParticipatedEvents []Participation `bson:"participatedEvents" json:"participated_events,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updated_at"`
}

// Participation is one (event, role, roster) record stored on the user.
// Leaders carry the full member roster; members carry a back-reference to
// their leader plus the roster of the other co-members.
type Participation struct {
	EventID          primitive.ObjectID `bson:"eventId" json:"event_id"`
	TeamName         string             `bson:"teamName" json:"team_name"`
	Role             Role               `bson:"role" json:"role"`
	RegistrationDate time.Time          `bson:"registrationDate" json:"registration_date"`
	TeamLeader       *MemberRef         `bson:"teamLeader,omitempty" json:"team_leader,omitempty"`
	TeamMembers      []MemberRef        `bson:"teamMembers,omitempty" json:"team_members,omitempty"`
}

// MemberRef identifies a teammate inside a participation record.
type MemberRef struct {
	UserID primitive.ObjectID `bson:"userId" json:"user_id"`
	FestID string             `bson:"festId" json:"fest_id"`
	Name   string             `bson:"name" json:"name"`
}

// HasParticipation reports whether the user already holds a participation
// record for the given event.
func (u *User) HasParticipation(eventID primitive.ObjectID) bool {
	for _, p := range u.ParticipatedEvents {
		if p.EventID == eventID {
			return true
		}
	}
	return false
}
