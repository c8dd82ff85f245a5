// database/store.go - Store struct and collection handles. The per-collection
// methods live in users.go and events.go.
package database

import (
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Collections struct {
		Users  *mongo.Collection
		Events *mongo.Collection
	}
}

func NewStore(client *mongo.Client, dbName string) *Store {
	db := client.Database(dbName)

	s := &Store{
		Client:   client,
		Database: db,
	}
	s.Collections.Users = db.Collection("users")
	s.Collections.Events = db.Collection("events")
	return s
}
