package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
	"technova/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// memStore implements RegistrationStore in memory with the same contract as
// the mongo store: the guarded event update is atomic and all-or-nothing.
type memStore struct {
	mu     sync.Mutex
	events map[primitive.ObjectID]*models.Event
	users  map[primitive.ObjectID]*models.User

	// beforeApply runs under the lock before the guard is evaluated; tests
	// use it to interleave a concurrent mutation between validation and write.
	beforeApply func()
}

func newMemStore() *memStore {
	return &memStore{
		events: make(map[primitive.ObjectID]*models.Event),
		users:  make(map[primitive.ObjectID]*models.User),
	}
}

func (m *memStore) addEvent(e models.Event) primitive.ObjectID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	m.events[e.ID] = &e
	return e.ID
}

func (m *memStore) addUser(u models.User) primitive.ObjectID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	m.users[u.ID] = &u
	return u.ID
}

func (m *memStore) GetEvent(_ context.Context, id primitive.ObjectID) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *e
	cp.Participants = append([]models.ParticipantEntry(nil), e.Participants...)
	return &cp, nil
}

func (m *memStore) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *u
	cp.ParticipatedEvents = append([]models.Participation(nil), u.ParticipatedEvents...)
	return &cp, nil
}

func (m *memStore) GetUsersByFestIDs(_ context.Context, festIDs []string) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[string]bool, len(festIDs))
	for _, id := range festIDs {
		want[id] = true
	}
	var out []models.User
	for _, u := range m.users {
		if want[u.FestID] {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *memStore) ApplyRegistration(_ context.Context, w *RegistrationWrite) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.beforeApply != nil {
		m.beforeApply()
	}

	e, ok := m.events[w.EventID]
	if !ok || !e.IsActive || !w.Now.Before(e.Deadline) || e.CurrentTeams >= e.MaxTeams {
		return ErrNotApplied
	}

	for _, p := range w.Participations {
		if _, ok := m.users[p.UserID]; !ok {
			return fmt.Errorf("user %s disappeared during registration", p.UserID.Hex())
		}
	}

	e.Participants = append(e.Participants, w.Entries...)
	e.CurrentTeams++
	for _, p := range w.Participations {
		u := m.users[p.UserID]
		u.ParticipatedEvents = append(u.ParticipatedEvents, p.Record)
	}
	return nil
}

// fixture bundles a service, its store and a standard cast of users.
type fixture struct {
	svc     *RegistrationService
	store   *memStore
	eventID primitive.ObjectID
	leader  primitive.ObjectID
	userIDs map[string]primitive.ObjectID // by fest ID
}

func newFixture(t *testing.T, mutate func(*models.Event)) *fixture {
	t.Helper()

	store := newMemStore()
	event := models.Event{
		Title:    "Robo Wars",
		Category: models.CategoryTechnical,
		Date:     time.Now().Add(72 * time.Hour),
		Venue:    "Main Arena",
		Deadline: time.Now().Add(48 * time.Hour),
		IsActive: true,
		TeamSize: models.TeamSize{Min: 1, Max: 4},
		MaxTeams: 10,
	}
	if mutate != nil {
		mutate(&event)
	}
	eventID := store.addEvent(event)

	userIDs := make(map[string]primitive.ObjectID)
	for _, festID := range []string{"TNAAA", "TNBBB", "TNCCC", "TNDDD"} {
		userIDs[festID] = store.addUser(models.User{
			FestID: festID,
			Name:   "User " + festID,
			Email:  festID + "@example.com",
			Mobile: "9999999999",
		})
	}

	return &fixture{
		svc:     NewRegistrationService(store),
		store:   store,
		eventID: eventID,
		leader:  userIDs["TNAAA"],
		userIDs: userIDs,
	}
}

func (f *fixture) register(in RegistrationInput) (*RegistrationResult, error) {
	return f.svc.Register(context.Background(), f.eventID, f.leader, in)
}

func validInput(members ...string) RegistrationInput {
	return RegistrationInput{
		TeamName:      "Null Pointers",
		MemberFestIDs: members,
		TermsAccepted: true,
	}
}

func (f *fixture) event(t *testing.T) *models.Event {
	t.Helper()
	e, err := f.store.GetEvent(context.Background(), f.eventID)
	require.NoError(t, err)
	return e
}

func (f *fixture) user(t *testing.T, festID string) *models.User {
	t.Helper()
	u, err := f.store.GetUserByID(context.Background(), f.userIDs[festID])
	require.NoError(t, err)
	return u
}

func TestRegisterSuccess(t *testing.T) {
	f := newFixture(t, nil)

	result, err := f.register(validInput("TNBBB", "TNCCC"))
	require.NoError(t, err)
	assert.Equal(t, f.eventID, result.EventID)
	assert.Equal(t, "Null Pointers", result.TeamName)
	assert.Equal(t, 3, result.TeamSize)

	event := f.event(t)
	assert.Equal(t, 1, event.CurrentTeams)
	require.Len(t, event.Participants, 3)
	assert.Equal(t, models.RoleTeamLeader, event.Participants[0].Role)
	assert.Equal(t, "TNAAA", event.Participants[0].FestID)
	for _, p := range event.Participants[1:] {
		assert.Equal(t, models.RoleMember, p.Role)
		assert.Equal(t, "Null Pointers", p.TeamName)
	}
}

func TestRegisterRosterReciprocity(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.register(validInput("TNBBB", "TNCCC", "TNDDD"))
	require.NoError(t, err)

	leader := f.user(t, "TNAAA")
	require.Len(t, leader.ParticipatedEvents, 1)
	lp := leader.ParticipatedEvents[0]
	assert.Equal(t, models.RoleTeamLeader, lp.Role)
	assert.Nil(t, lp.TeamLeader)
	assert.ElementsMatch(t,
		[]string{"TNBBB", "TNCCC", "TNDDD"},
		festIDsOf(lp.TeamMembers))

	// Each member's roster lists everyone else but never themselves.
	for _, festID := range []string{"TNBBB", "TNCCC", "TNDDD"} {
		member := f.user(t, festID)
		require.Len(t, member.ParticipatedEvents, 1, festID)
		mp := member.ParticipatedEvents[0]
		assert.Equal(t, models.RoleMember, mp.Role)
		require.NotNil(t, mp.TeamLeader)
		assert.Equal(t, "TNAAA", mp.TeamLeader.FestID)
		assert.Len(t, mp.TeamMembers, 2)
		assert.NotContains(t, festIDsOf(mp.TeamMembers), festID)
	}
}

func festIDsOf(refs []models.MemberRef) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.FestID
	}
	return out
}

func TestRegisterEventNotFound(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Register(context.Background(), primitive.NewObjectID(), f.leader, validInput())
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestRegisterTwiceConflicts(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.register(validInput("TNBBB"))
	require.NoError(t, err)

	// Second attempt conflicts regardless of payload.
	_, err = f.register(RegistrationInput{
		TeamName:      "Different Name",
		MemberFestIDs: []string{"TNDDD"},
		TermsAccepted: true,
	})
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	event := f.event(t)
	assert.Equal(t, 1, event.CurrentTeams)
	assert.Len(t, event.Participants, 2)
}

func TestRegisterMemberAlreadyRegisteredRejected(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.register(validInput("TNBBB"))
	require.NoError(t, err)

	// A second team listing TNBBB is rejected outright.
	f.leader = f.userIDs["TNCCC"]
	_, err = f.register(RegistrationInput{
		TeamName:      "Poachers",
		MemberFestIDs: []string{"TNBBB", "TNDDD"},
		TermsAccepted: true,
	})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, ReasonMemberTaken, vErr.Reason)
	assert.Contains(t, vErr.Message, "TNBBB")
	assert.NotContains(t, vErr.Message, "TNDDD")

	// No second enrollment anywhere.
	event := f.event(t)
	assert.Equal(t, 1, event.CurrentTeams)
	assert.Len(t, event.Participants, 2)
	assert.Len(t, f.user(t, "TNBBB").ParticipatedEvents, 1)
	assert.Empty(t, f.user(t, "TNCCC").ParticipatedEvents)
}

func TestRegisterMemberOnTeamForOtherEventAllowed(t *testing.T) {
	// Participation is per event; being on a team elsewhere does not block.
	f := newFixture(t, nil)

	_, err := f.register(validInput("TNBBB"))
	require.NoError(t, err)

	otherEventID := f.store.addEvent(models.Event{
		Title:    "Code Golf",
		Category: models.CategoryTechnical,
		Date:     time.Now().Add(96 * time.Hour),
		Deadline: time.Now().Add(48 * time.Hour),
		IsActive: true,
		TeamSize: models.TeamSize{Min: 1, Max: 4},
		MaxTeams: 10,
	})

	_, err = f.svc.Register(context.Background(), otherEventID, f.userIDs["TNCCC"], validInput("TNBBB"))
	require.NoError(t, err)
	assert.Len(t, f.user(t, "TNBBB").ParticipatedEvents, 2)
}

func TestRegisterInactiveEvent(t *testing.T) {
	f := newFixture(t, func(e *models.Event) { e.IsActive = false })

	_, err := f.register(validInput())
	assert.ErrorIs(t, err, ErrEventInactive)
}

func TestRegisterAfterDeadline(t *testing.T) {
	f := newFixture(t, func(e *models.Event) { e.Deadline = time.Now().Add(-time.Hour) })

	_, err := f.register(validInput())
	assert.ErrorIs(t, err, ErrRegistrationClosed)
}

func TestRegisterFullEvent(t *testing.T) {
	f := newFixture(t, func(e *models.Event) {
		e.MaxTeams = 2
		e.CurrentTeams = 2
	})

	_, err := f.register(validInput())
	assert.ErrorIs(t, err, ErrEventFull)
}

func TestTeamSizeBoundaries(t *testing.T) {
	cases := []struct {
		name    string
		members []string
		wantErr bool
	}{
		{"one below min", nil, true},
		{"exactly min", []string{"TNBBB"}, false},
		{"exactly max", []string{"TNBBB", "TNCCC", "TNDDD"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, func(e *models.Event) {
				e.TeamSize = models.TeamSize{Min: 2, Max: 4}
			})

			_, err := f.register(validInput(tc.members...))
			if tc.wantErr {
				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, ReasonTeamSize, vErr.Reason)
				assert.Len(t, f.event(t).Participants, 0)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("one above max", func(t *testing.T) {
		f := newFixture(t, func(e *models.Event) {
			e.TeamSize = models.TeamSize{Min: 1, Max: 2}
		})

		_, err := f.register(validInput("TNBBB", "TNCCC"))
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, ReasonTeamSize, vErr.Reason)
	})
}

func TestRegisterSelfReference(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.register(validInput("TNAAA"))
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, ReasonSelfReference, vErr.Reason)

	assert.Equal(t, 0, f.event(t).CurrentTeams)
	assert.Empty(t, f.event(t).Participants)
	assert.Empty(t, f.user(t, "TNAAA").ParticipatedEvents)
}

func TestRegisterDuplicateMembers(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.register(validInput("TNBBB", "TNBBB"))
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, ReasonDuplicate, vErr.Reason)
}

func TestRegisterSelfReferenceWinsOverDuplicates(t *testing.T) {
	// The self check covers the whole payload before duplicates are looked at.
	f := newFixture(t, nil)

	_, err := f.register(validInput("TNBBB", "TNBBB", "TNAAA"))
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, ReasonSelfReference, vErr.Reason)
}

func TestRegisterUnknownMembers(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.register(validInput("TNZZZ", "TNBBB", "TNQQQ"))
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, ReasonUnknownMember, vErr.Reason)

	// Every unresolved id is reported, not just the first.
	assert.Contains(t, vErr.Message, "TNZZZ")
	assert.Contains(t, vErr.Message, "TNQQQ")
	assert.NotContains(t, vErr.Message, "TNBBB")

	// No mutation happened on either store.
	assert.Equal(t, 0, f.event(t).CurrentTeams)
	assert.Empty(t, f.event(t).Participants)
	assert.Empty(t, f.user(t, "TNBBB").ParticipatedEvents)
}

func TestRegisterTermsNotAccepted(t *testing.T) {
	f := newFixture(t, nil)

	in := validInput("TNBBB")
	in.TermsAccepted = false
	_, err := f.register(in)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, ReasonTerms, vErr.Reason)
}

func TestRegisterTeamNameRequired(t *testing.T) {
	f := newFixture(t, nil)

	in := validInput("TNBBB")
	in.TeamName = "   "
	_, err := f.register(in)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, ReasonTeamName, vErr.Reason)
}

func TestRegisterNormalizesMemberIDs(t *testing.T) {
	f := newFixture(t, nil)

	result, err := f.register(RegistrationInput{
		TeamName:      "Casing Crew",
		MemberFestIDs: []string{" tnbbb ", "", "TNCCC"},
		TermsAccepted: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.TeamSize)
}

func TestScenarioTwoPersonTeamThenFull(t *testing.T) {
	f := newFixture(t, func(e *models.Event) {
		e.TeamSize = models.TeamSize{Min: 2, Max: 4}
		e.MaxTeams = 1
	})

	result, err := f.register(validInput("TNBBB"))
	require.NoError(t, err)
	assert.Equal(t, 2, result.TeamSize)
	assert.Equal(t, 1, f.event(t).CurrentTeams)

	f.leader = f.userIDs["TNCCC"]
	_, err = f.register(validInput("TNDDD"))
	assert.ErrorIs(t, err, ErrEventFull)
}

func TestConcurrentRegistrationsRespectCapacity(t *testing.T) {
	const slots = 3
	const requests = 10

	f := newFixture(t, func(e *models.Event) { e.MaxTeams = slots })

	leaderIDs := make([]primitive.ObjectID, requests)
	for i := 0; i < requests; i++ {
		leaderIDs[i] = f.store.addUser(models.User{
			FestID: fmt.Sprintf("TNL%02d", i),
			Name:   fmt.Sprintf("Leader %d", i),
		})
	}

	var wg sync.WaitGroup
	errs := make([]error, requests)
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Register(context.Background(), f.eventID, leaderIDs[i], RegistrationInput{
				TeamName:      fmt.Sprintf("Team %d", i),
				TermsAccepted: true,
			})
		}(i)
	}
	wg.Wait()

	successes, full := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrEventFull):
			full++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, slots, successes)
	assert.Equal(t, requests-slots, full)

	event := f.event(t)
	assert.Equal(t, slots, event.CurrentTeams)
	assert.Len(t, event.Participants, slots)
}

func TestGuardFailureReclassifiedAsFull(t *testing.T) {
	// The event fills up between validation and the guarded write; the
	// rejected write is re-read and surfaces as the precise full rejection.
	f := newFixture(t, func(e *models.Event) { e.MaxTeams = 1 })

	f.store.beforeApply = func() {
		f.store.events[f.eventID].CurrentTeams = 1
		f.store.beforeApply = nil
	}

	_, err := f.register(validInput("TNBBB"))
	assert.ErrorIs(t, err, ErrEventFull)
	assert.Len(t, f.event(t).Participants, 0)
}
