// handlers/registration.go - Team registration endpoint
package handlers

import (
	"errors"
	"log"
	"technova/middleware"
	"technova/services"
	"technova/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RegisterTeamRequest struct {
	TeamName      string `json:"teamName"`
	Member2       string `json:"member2"`
	Member3       string `json:"member3"`
	Member4       string `json:"member4"`
	TermsAccepted bool   `json:"termsAccepted"`
}

// RegisterTeam enrolls the authenticated user as team leader, with up to
// three co-members, into an event
// POST /api/events/:id/register
func RegisterTeam(c *fiber.Ctx) error {
	leaderID, err := middleware.GetUserID(c)
	if err != nil {
		return utils.Error(c, 401, "Unauthorized")
	}

	eventID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.Error(c, 400, "Invalid event ID")
	}

	var req RegisterTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, 400, "Invalid request body")
	}

	result, err := registrationService.Register(c.Context(), eventID, leaderID, services.RegistrationInput{
		TeamName:      req.TeamName,
		MemberFestIDs: []string{req.Member2, req.Member3, req.Member4},
		TermsAccepted: req.TermsAccepted,
	})
	if err != nil {
		status, message := registrationErrorResponse(err)
		if status == 500 {
			log.Printf("Registration failed for event %s: %v", eventID.Hex(), err)
		}
		return utils.Error(c, status, message)
	}

	return utils.Created(c, "Team registered successfully", result)
}

// registrationErrorResponse maps the service's error taxonomy onto HTTP
// statuses. Infrastructure failures stay generic; the real cause is logged
// by the caller.
func registrationErrorResponse(err error) (int, string) {
	var vErr *services.ValidationError

	switch {
	case errors.Is(err, services.ErrEventNotFound):
		return 404, err.Error()
	case errors.Is(err, services.ErrAlreadyRegistered):
		return 409, err.Error()
	case errors.Is(err, services.ErrEventInactive),
		errors.Is(err, services.ErrRegistrationClosed),
		errors.Is(err, services.ErrEventFull):
		return 400, err.Error()
	case errors.As(err, &vErr):
		return 400, vErr.Message
	}
	return 500, "Registration failed. Please try again later."
}
