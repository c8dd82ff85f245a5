package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRegistrationOpen(t *testing.T) {
	now := time.Now()
	base := Event{
		IsActive:     true,
		Deadline:     now.Add(time.Hour),
		MaxTeams:     5,
		CurrentTeams: 2,
	}

	assert.True(t, base.RegistrationOpen(now))

	inactive := base
	inactive.IsActive = false
	assert.False(t, inactive.RegistrationOpen(now))

	closed := base
	closed.Deadline = now.Add(-time.Minute)
	assert.False(t, closed.RegistrationOpen(now))

	full := base
	full.CurrentTeams = 5
	assert.False(t, full.RegistrationOpen(now))
}

func TestHasParticipantByIDAndFestID(t *testing.T) {
	userID := primitive.NewObjectID()
	event := Event{Participants: []ParticipantEntry{
		{UserID: userID, FestID: "TNAAA", TeamName: "Alpha", Role: RoleTeamLeader},
	}}

	assert.True(t, event.HasParticipant(userID, ""))
	assert.True(t, event.HasParticipant(primitive.NewObjectID(), "TNAAA"))
	assert.False(t, event.HasParticipant(primitive.NewObjectID(), "TNZZZ"))
}

func TestTeamPublicStripsContactDetails(t *testing.T) {
	leader := ParticipantEntry{UserID: primitive.NewObjectID(), FestID: "TNAAA", Email: "a@example.com", Mobile: "1234567890"}
	member := ParticipantEntry{UserID: primitive.NewObjectID(), FestID: "TNBBB", Email: "b@example.com", Mobile: "0987654321"}

	team := Team{Name: "Alpha", Leader: &leader, Members: []ParticipantEntry{member}, Size: 2}
	public := team.Public()

	assert.Empty(t, public.Leader.Email)
	assert.Empty(t, public.Leader.Mobile)
	assert.Empty(t, public.Members[0].Email)

	// The original is untouched.
	assert.Equal(t, "a@example.com", team.Leader.Email)
	assert.Equal(t, "b@example.com", team.Members[0].Email)
}
