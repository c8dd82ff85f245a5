// database/indexes.go - Startup index creation
package database

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the unique indexes the signup path and the fest ID
// generator rely on. CreateMany is idempotent for identical definitions.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "regNo", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "festId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	if _, err := s.Collections.Users.Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("creating user indexes: %w", err)
	}

	eventIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: 1}}},
	}

	if _, err := s.Collections.Events.Indexes().CreateMany(ctx, eventIndexes); err != nil {
		return fmt.Errorf("creating event indexes: %w", err)
	}

	log.Println("✅ Database indexes ensured")
	return nil
}
