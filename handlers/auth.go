// handlers/auth.go
package handlers

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"
	"technova/database"
	"technova/middleware"
	"technova/models"
	"technova/services"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type SignupRequest struct {
	Name             string `json:"name"`
	RegNo            string `json:"reg_no"`
	Mobile           string `json:"mobile"`
	Email            string `json:"email"`
	IsCollegeStudent bool   `json:"is_college_student"`
	CollegeName      string `json:"college_name"`
	Password         string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Success bool     `json:"success"`
	Token   string   `json:"token,omitempty"`
	User    UserInfo `json:"user,omitempty"`
	Error   string   `json:"error,omitempty"`
}

type UserInfo struct {
	ID          string    `json:"id"`
	FestID      string    `json:"fest_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	RegNo       string    `json:"reg_no"`
	CollegeName string    `json:"college_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Signup creates a new user account with a freshly generated fest ID
func Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{Success: false, Error: "Invalid request body"})
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.RegNo = strings.TrimSpace(req.RegNo)

	if req.Name == "" || req.Email == "" || req.RegNo == "" || req.Mobile == "" {
		return c.Status(400).JSON(AuthResponse{Success: false, Error: "Name, email, registration number and mobile are required"})
	}

	if len(req.Password) < 6 {
		return c.Status(400).JSON(AuthResponse{Success: false, Error: "Password must be at least 6 characters"})
	}

	if req.IsCollegeStudent && strings.TrimSpace(req.CollegeName) == "" {
		return c.Status(400).JSON(AuthResponse{Success: false, Error: "College name is required for college students"})
	}

	store := database.GetStore()

	if _, err := store.GetUserByEmail(c.Context(), req.Email); err == nil {
		return c.Status(400).JSON(AuthResponse{Success: false, Error: "Email is already registered"})
	}
	if _, err := store.GetUserByRegNo(c.Context(), req.RegNo); err == nil {
		return c.Status(400).JSON(AuthResponse{Success: false, Error: "Registration number is already registered"})
	}

	festID, err := festIDGenerator.Generate(c.Context())
	if err != nil {
		if errors.Is(err, services.ErrExhaustedRetries) {
			log.Println("Fest ID generation exhausted retries")
		} else {
			log.Printf("Fest ID generation failed: %v", err)
		}
		return c.Status(500).JSON(AuthResponse{Success: false, Error: "Failed to create account"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{Success: false, Error: "Failed to hash password"})
	}

	user := &models.User{
		FestID:           festID,
		Name:             req.Name,
		RegNo:            req.RegNo,
		Mobile:           req.Mobile,
		Email:            req.Email,
		IsCollegeStudent: req.IsCollegeStudent,
		CollegeName:      strings.TrimSpace(req.CollegeName),
		Password:         string(hashedPassword),
	}

	if err := store.CreateUser(c.Context(), user); err != nil {
		// The unique indexes backstop the pre-checks under concurrency.
		if mongo.IsDuplicateKeyError(err) {
			return c.Status(400).JSON(AuthResponse{Success: false, Error: "Email or registration number is already registered"})
		}
		log.Printf("Signup insert failed: %v", err)
		return c.Status(500).JSON(AuthResponse{Success: false, Error: "Failed to create account"})
	}

	token, err := generateToken(user)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{Success: false, Error: "Failed to generate token"})
	}

	return c.Status(201).JSON(AuthResponse{
		Success: true,
		Token:   token,
		User:    userInfo(user),
	})
}

// Login authenticates a registered user by email and password
func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{Success: false, Error: "Invalid request body"})
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(AuthResponse{Success: false, Error: "Email and password required"})
	}

	store := database.GetStore()

	user, err := store.GetUserByEmail(c.Context(), req.Email)
	if err != nil {
		return c.Status(401).JSON(AuthResponse{Success: false, Error: "Invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(401).JSON(AuthResponse{Success: false, Error: "Invalid credentials"})
	}

	token, err := generateToken(user)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{Success: false, Error: "Failed to generate token"})
	}

	return c.JSON(AuthResponse{
		Success: true,
		Token:   token,
		User:    userInfo(user),
	})
}

// GetCurrentUser returns the authenticated user's profile including their
// participation records
func GetCurrentUser(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	user, err := database.GetStore().GetUserByID(c.Context(), userID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "User not found"})
	}

	return c.JSON(fiber.Map{"success": true, "user": user})
}

// Helper functions

func userInfo(user *models.User) UserInfo {
	return UserInfo{
		ID:          user.ID.Hex(),
		FestID:      user.FestID,
		Name:        user.Name,
		Email:       user.Email,
		RegNo:       user.RegNo,
		CollegeName: user.CollegeName,
		CreatedAt:   user.CreatedAt,
	}
}

func generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.Hex(),
		"fest_id": user.FestID,
		"name":    user.Name,
		"jti":     uuid.NewString(),
		"exp":     time.Now().Add(time.Hour * 168).Unix(), // 7 days
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
