// database/users.go - Methods for the users collection
package database

import (
	"context"
	"fmt"
	"regexp"
	"time"
	"technova/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateUser inserts a new user and fills in its generated object id.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.ParticipatedEvents == nil {
		user.ParticipatedEvents = []models.Participation{}
	}

	res, err := s.Collections.Users.InsertOne(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := s.Collections.Users.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.Collections.Users.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUserByRegNo(ctx context.Context, regNo string) (*models.User, error) {
	var user models.User
	if err := s.Collections.Users.FindOne(ctx, bson.M{"regNo": regNo}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsersByFestIDs resolves a set of fest IDs in one query. Missing ids are
// simply absent from the result; callers decide whether that is an error.
func (s *Store) GetUsersByFestIDs(ctx context.Context, festIDs []string) ([]models.User, error) {
	if len(festIDs) == 0 {
		return nil, nil
	}

	cursor, err := s.Collections.Users.Find(ctx, bson.M{"festId": bson.M{"$in": festIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to look up members: %w", err)
	}

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode members: %w", err)
	}
	return users, nil
}

// FestIDExists backs the bounded retry loop of the fest ID generator.
func (s *Store) FestIDExists(ctx context.Context, festID string) (bool, error) {
	count, err := s.Collections.Users.CountDocuments(ctx, bson.M{"festId": festID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListUsers returns a page of users, optionally filtered by a search string
// matched against name, email and fest ID. Used by the admin panel.
func (s *Store) ListUsers(ctx context.Context, search string, page, limit int) ([]models.User, int64, error) {
	filter := bson.M{}
	if search != "" {
		filter = userSearchFilter(search)
	}

	total, err := s.Collections.Users.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := s.Collections.Users.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, total, nil
}

// userSearchFilter builds a case-insensitive substring match over name, email
// and fest ID. The input is quoted so regex metacharacters match literally.
func userSearchFilter(search string) bson.M {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"name": pattern},
		bson.M{"email": pattern},
		bson.M{"festId": pattern},
	}}
}
