// handlers/events.go - Public event endpoints
package handlers

import (
	"time"
	"technova/database"
	"technova/models"
	"technova/services"
	"technova/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GetEvents lists active events, optionally filtered by category
// GET /api/events
func GetEvents(c *fiber.Ctx) error {
	category := models.Category(c.Query("category"))
	if category != "" && !models.ValidCategory(category) {
		return utils.Error(c, 400, "Unknown event category")
	}

	events, err := database.GetStore().ListEvents(c.Context(), true, category)
	if err != nil {
		return utils.Error(c, 500, "Failed to fetch events")
	}

	now := time.Now()
	out := make([]fiber.Map, 0, len(events))
	for _, e := range events {
		out = append(out, fiber.Map{
			"id":                    e.ID.Hex(),
			"title":                 e.Title,
			"description":           e.Description,
			"category":              e.Category,
			"date":                  e.Date,
			"venue":                 e.Venue,
			"registration_deadline": e.Deadline,
			"team_size":             e.TeamSize,
			"max_teams":             e.MaxTeams,
			"current_teams":         e.CurrentTeams,
			"registration_open":     e.RegistrationOpen(now),
		})
	}

	return c.JSON(fiber.Map{"success": true, "events": out})
}

// GetEvent returns one event without its participant list
// GET /api/events/:id
func GetEvent(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.Error(c, 400, "Invalid event ID")
	}

	event, err := database.GetStore().GetEvent(c.Context(), id)
	if err != nil {
		return utils.Error(c, 404, "Event not found")
	}

	event.Participants = nil
	return c.JSON(fiber.Map{
		"success":           true,
		"event":             event,
		"registration_open": event.RegistrationOpen(time.Now()),
	})
}

// GetEventParticipants returns the projected team rosters with contact
// details stripped
// GET /api/events/:id/participants
func GetEventParticipants(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.Error(c, 400, "Invalid event ID")
	}

	event, err := database.GetStore().GetEvent(c.Context(), id)
	if err != nil {
		return utils.Error(c, 404, "Event not found")
	}

	teams, skipped := services.ProjectTeams(event.Participants)
	public := make([]models.Team, len(teams))
	for i, t := range teams {
		public[i] = t.Public()
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"event_id":        event.ID.Hex(),
		"teams":           public,
		"skipped_entries": skipped,
	})
}
