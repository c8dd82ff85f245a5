// database/seed.go - Admin account seeding
package database

import (
	"context"
	"errors"
	"log"
	"os"
	"technova/models"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Reserved fest ID for the seeded admin account.
const adminFestID = "TN000"

// SeedAdmin ensures an admin account exists when ADMIN_EMAIL and
// ADMIN_PASSWORD are configured. Without them seeding is skipped.
func (s *Store) SeedAdmin(ctx context.Context) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("Admin seeding skipped: ADMIN_EMAIL / ADMIN_PASSWORD not set")
		return nil
	}

	_, err := s.GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		FestID:   adminFestID,
		Name:     "Administrator",
		RegNo:    "ADMIN",
		Email:    email,
		Password: string(hashed),
		IsAdmin:  true,
	}

	if err := s.CreateUser(ctx, admin); err != nil {
		return err
	}

	log.Printf("✅ Admin account seeded for %s", email)
	return nil
}
