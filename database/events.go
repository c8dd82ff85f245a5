// database/events.go - Methods for the events collection, including the
// transactional registration write.
package database

import (
	"context"
	"fmt"
	"time"
	"technova/models"
	"technova/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) CreateEvent(ctx context.Context, event *models.Event) error {
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	if event.Participants == nil {
		event.Participants = []models.ParticipantEntry{}
	}

	res, err := s.Collections.Events.InsertOne(ctx, event)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		event.ID = oid
	}
	return nil
}

func (s *Store) GetEvent(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	var event models.Event
	if err := s.Collections.Events.FindOne(ctx, bson.M{"_id": id}).Decode(&event); err != nil {
		return nil, err
	}
	return &event, nil
}

// ListEvents returns events sorted by date, optionally restricted to active
// ones and/or a single category.
func (s *Store) ListEvents(ctx context.Context, activeOnly bool, category models.Category) ([]models.Event, error) {
	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}
	if category != "" {
		filter["category"] = category
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := s.Collections.Events.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}

	var events []models.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	return events, nil
}

// UpdateEvent applies a partial update. Participants and currentTeams are not
// updatable here; only the registration transaction touches them.
func (s *Store) UpdateEvent(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	delete(fields, "participants")
	delete(fields, "currentTeams")
	fields["updatedAt"] = time.Now()

	res, err := s.Collections.Events.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *Store) DeleteEvent(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.Collections.Events.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ApplyRegistration persists one team registration atomically: the guarded
// event update plus a participation record pushed onto every touched user,
// in a single multi-document transaction. The event filter re-checks the
// active flag, the deadline and the capacity so concurrent registrations
// serialize at the database; when it matches nothing the whole transaction
// is abandoned and services.ErrNotApplied comes back.
func (s *Store) ApplyRegistration(ctx context.Context, w *services.RegistrationWrite) error {
	session, err := s.Client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	eventFilter := bson.M{
		"_id":                  w.EventID,
		"isActive":             true,
		"registrationDeadline": bson.M{"$gt": w.Now},
		"$expr":                bson.M{"$lt": bson.A{"$currentTeams", "$maxTeams"}},
	}
	eventUpdate := bson.M{
		"$inc":  bson.M{"currentTeams": 1},
		"$push": bson.M{"participants": bson.M{"$each": w.Entries}},
		"$set":  bson.M{"updatedAt": w.Now},
	}

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := s.Collections.Events.UpdateOne(sc, eventFilter, eventUpdate)
		if err != nil {
			return nil, fmt.Errorf("failed to update event: %w", err)
		}
		if res.MatchedCount == 0 {
			return nil, services.ErrNotApplied
		}

		for _, p := range w.Participations {
			res, err := s.Collections.Users.UpdateOne(sc,
				bson.M{"_id": p.UserID},
				bson.M{
					"$push": bson.M{"participatedEvents": p.Record},
					"$set":  bson.M{"updatedAt": w.Now},
				})
			if err != nil {
				return nil, fmt.Errorf("failed to update user %s: %w", p.UserID.Hex(), err)
			}
			if res.MatchedCount == 0 {
				return nil, fmt.Errorf("user %s disappeared during registration", p.UserID.Hex())
			}
		}
		return nil, nil
	})
	return err
}
