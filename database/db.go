// database/db.go - Database Connection (MongoDB)
package database

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var store *Store

// InitDB initializes the database connection
func InitDB() {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	dbName := getEnvOrDefault("DB_NAME", "technova")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}

	store = NewStore(client, dbName)

	log.Println("✅ MongoDB connected successfully")

	if err := store.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	if err := store.SeedAdmin(ctx); err != nil {
		log.Printf("Warning: admin seeding failed: %v", err)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetStore returns the store instance
func GetStore() *Store {
	if store == nil {
		log.Fatal("Database not initialized. Call InitDB() first.")
	}
	return store
}

// CloseDB closes the database connection
func CloseDB() error {
	if store == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := store.Client.Disconnect(ctx); err != nil {
		return err
	}

	log.Println("Database connection closed")
	return nil
}
