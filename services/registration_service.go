// services/registration_service.go - Team Registration Business Logic
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"technova/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RegistrationStore is the persistence contract the registration transaction
// needs. *database.Store implements it; tests substitute an in-memory fake.
type RegistrationStore interface {
	GetEvent(ctx context.Context, id primitive.ObjectID) (*models.Event, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUsersByFestIDs(ctx context.Context, festIDs []string) ([]models.User, error)

	// ApplyRegistration persists the whole write set atomically. The event
	// update must be guarded (active, before deadline, currentTeams below
	// maxTeams); when the guard matches nothing it returns ErrNotApplied and
	// leaves every document untouched.
	ApplyRegistration(ctx context.Context, w *RegistrationWrite) error
}

// RegistrationWrite is the full effect of one successful registration:
// the event-side participant entries plus one participation record per
// touched user (leader included).
type RegistrationWrite struct {
	EventID        primitive.ObjectID
	Now            time.Time
	Entries        []models.ParticipantEntry // leader first
	Participations []UserParticipation
}

type UserParticipation struct {
	UserID primitive.ObjectID
	Record models.Participation
}

type RegistrationInput struct {
	TeamName      string
	MemberFestIDs []string // raw; blanks are skipped, ids normalized to upper case
	TermsAccepted bool
}

type RegistrationResult struct {
	EventID  primitive.ObjectID `json:"event_id"`
	TeamName string             `json:"team_name"`
	TeamSize int                `json:"team_size"`
}

type RegistrationService struct {
	store RegistrationStore
	now   func() time.Time
}

func NewRegistrationService(store RegistrationStore) *RegistrationService {
	return &RegistrationService{store: store, now: time.Now}
}

// Register enrolls the requester as team leader plus up to three co-members
// into the event, or rejects the whole request. On success the event gained
// exactly one leader entry, one member entry per co-member, currentTeams
// went up by one, and every touched user gained one participation record.
func (s *RegistrationService) Register(ctx context.Context, eventID, leaderID primitive.ObjectID, in RegistrationInput) (*RegistrationResult, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("loading event: %w", err)
	}

	leader, err := s.store.GetUserByID(ctx, leaderID)
	if err != nil {
		return nil, fmt.Errorf("loading requester: %w", err)
	}

	if event.HasParticipant(leader.ID, leader.FestID) || leader.HasParticipation(event.ID) {
		return nil, ErrAlreadyRegistered
	}

	if !event.IsActive {
		return nil, ErrEventInactive
	}

	now := s.now()
	if !now.Before(event.Deadline) {
		return nil, ErrRegistrationClosed
	}

	if event.CurrentTeams >= event.MaxTeams {
		return nil, ErrEventFull
	}

	teamName := strings.TrimSpace(in.TeamName)
	if teamName == "" {
		return nil, &ValidationError{Reason: ReasonTeamName, Message: "team name is required"}
	}

	memberIDs := normalizeFestIDs(in.MemberFestIDs)

	teamSize := len(memberIDs) + 1
	if teamSize < event.TeamSize.Min || teamSize > event.TeamSize.Max {
		return nil, newSizeError(event.TeamSize.Min, event.TeamSize.Max, teamSize)
	}

	for _, id := range memberIDs {
		if id == leader.FestID {
			return nil, &ValidationError{Reason: ReasonSelfReference, Message: "you cannot add yourself as a team member"}
		}
	}

	seen := make(map[string]bool, len(memberIDs))
	for _, id := range memberIDs {
		if seen[id] {
			return nil, &ValidationError{Reason: ReasonDuplicate, Message: fmt.Sprintf("duplicate member id: %s", id)}
		}
		seen[id] = true
	}

	members, err := s.resolveMembers(ctx, memberIDs)
	if err != nil {
		return nil, err
	}

	// A user appears in an event at most once, whichever team enrolled them.
	var registered []string
	for i := range members {
		if event.HasParticipant(members[i].ID, members[i].FestID) || members[i].HasParticipation(event.ID) {
			registered = append(registered, members[i].FestID)
		}
	}
	if len(registered) > 0 {
		return nil, newRegisteredMembersError(registered)
	}

	// Re-check the minimum after resolution. A request cannot pad its team
	// size with ids that never resolved.
	if len(members)+1 < event.TeamSize.Min {
		return nil, newSizeError(event.TeamSize.Min, event.TeamSize.Max, len(members)+1)
	}

	if !in.TermsAccepted {
		return nil, &ValidationError{Reason: ReasonTerms, Message: "terms and conditions must be accepted"}
	}

	write := buildRegistrationWrite(event, leader, members, teamName, now)

	if err := s.store.ApplyRegistration(ctx, write); err != nil {
		if errors.Is(err, ErrNotApplied) {
			return nil, s.classifyNotApplied(ctx, eventID, now)
		}
		return nil, fmt.Errorf("applying registration: %w", err)
	}

	return &RegistrationResult{
		EventID:  event.ID,
		TeamName: teamName,
		TeamSize: len(members) + 1,
	}, nil
}

// resolveMembers looks up every co-member fest ID and rejects with the full
// list of ids that did not resolve, not just the first.
func (s *RegistrationService) resolveMembers(ctx context.Context, festIDs []string) ([]models.User, error) {
	if len(festIDs) == 0 {
		return nil, nil
	}

	users, err := s.store.GetUsersByFestIDs(ctx, festIDs)
	if err != nil {
		return nil, fmt.Errorf("resolving members: %w", err)
	}

	found := make(map[string]models.User, len(users))
	for _, u := range users {
		found[u.FestID] = u
	}

	var missing []string
	resolved := make([]models.User, 0, len(festIDs))
	for _, id := range festIDs {
		u, ok := found[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		resolved = append(resolved, u)
	}

	if len(missing) > 0 {
		return nil, newUnknownMembersError(missing)
	}
	return resolved, nil
}

// classifyNotApplied re-reads the event after a failed guarded write so the
// caller gets the precise rejection instead of a generic conflict. This is
// the path concurrent registrations racing for the last slot take.
func (s *RegistrationService) classifyNotApplied(ctx context.Context, eventID primitive.ObjectID, now time.Time) error {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrEventNotFound
		}
		return fmt.Errorf("re-reading event after rejected write: %w", err)
	}
	switch {
	case !event.IsActive:
		return ErrEventInactive
	case !now.Before(event.Deadline):
		return ErrRegistrationClosed
	case event.CurrentTeams >= event.MaxTeams:
		return ErrEventFull
	}
	return fmt.Errorf("registration rejected by store guard: %w", ErrNotApplied)
}

// buildRegistrationWrite assembles every mutation of one registration: the
// leader entry, one entry per member, the leader's full roster, and for each
// member a roster of everyone on the team except themselves.
func buildRegistrationWrite(event *models.Event, leader *models.User, members []models.User, teamName string, now time.Time) *RegistrationWrite {
	entries := make([]models.ParticipantEntry, 0, len(members)+1)
	entries = append(entries, participantEntry(leader, teamName, models.RoleTeamLeader, now))
	for i := range members {
		entries = append(entries, participantEntry(&members[i], teamName, models.RoleMember, now))
	}

	leaderRef := memberRef(leader)
	memberRefs := make([]models.MemberRef, len(members))
	for i := range members {
		memberRefs[i] = memberRef(&members[i])
	}

	participations := make([]UserParticipation, 0, len(members)+1)
	participations = append(participations, UserParticipation{
		UserID: leader.ID,
		Record: models.Participation{
			EventID:          event.ID,
			TeamName:         teamName,
			Role:             models.RoleTeamLeader,
			RegistrationDate: now,
			TeamMembers:      memberRefs,
		},
	})

	for i := range members {
		others := make([]models.MemberRef, 0, len(members)-1)
		for j := range memberRefs {
			if j != i {
				others = append(others, memberRefs[j])
			}
		}
		participations = append(participations, UserParticipation{
			UserID: members[i].ID,
			Record: models.Participation{
				EventID:          event.ID,
				TeamName:         teamName,
				Role:             models.RoleMember,
				RegistrationDate: now,
				TeamLeader:       &leaderRef,
				TeamMembers:      others,
			},
		})
	}

	return &RegistrationWrite{
		EventID:        event.ID,
		Now:            now,
		Entries:        entries,
		Participations: participations,
	}
}

func participantEntry(u *models.User, teamName string, role models.Role, now time.Time) models.ParticipantEntry {
	return models.ParticipantEntry{
		UserID:           u.ID,
		FestID:           u.FestID,
		Name:             u.Name,
		Email:            u.Email,
		Mobile:           u.Mobile,
		TeamName:         teamName,
		Role:             role,
		RegistrationDate: now,
	}
}

func memberRef(u *models.User) models.MemberRef {
	return models.MemberRef{UserID: u.ID, FestID: u.FestID, Name: u.Name}
}

// normalizeFestIDs trims, upper-cases and drops blank slots so the handler
// can pass member2..member4 through untouched.
func normalizeFestIDs(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, id := range raw {
		id = strings.ToUpper(strings.TrimSpace(id))
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}
