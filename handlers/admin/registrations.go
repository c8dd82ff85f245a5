// handlers/admin/registrations.go - Admin registration views and export
package admin

import (
	"fmt"
	"technova/database"
	"technova/services"
	"technova/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GetEventTeams returns the projected team rosters of one event with contact
// details included
func GetEventTeams(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid event ID"})
	}

	event, err := database.GetStore().GetEvent(c.Context(), id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Event not found"})
	}

	teams, skipped := services.ProjectTeams(event.Participants)

	return c.JSON(fiber.Map{
		"event_id":        event.ID.Hex(),
		"title":           event.Title,
		"current_teams":   event.CurrentTeams,
		"max_teams":       event.MaxTeams,
		"teams":           teams,
		"skipped_entries": skipped,
	})
}

// ExportEventTeams downloads the team rosters of one event as CSV
func ExportEventTeams(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid event ID"})
	}

	event, err := database.GetStore().GetEvent(c.Context(), id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Event not found"})
	}

	teams, _ := services.ProjectTeams(event.Participants)

	data, err := utils.TeamsCSV(teams)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build CSV"})
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", event.Title+"-teams.csv"))
	return c.Send(data)
}

// GetUsers returns all users with pagination and search
func GetUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	search := c.Query("search", "")

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	users, total, err := database.GetStore().ListUsers(c.Context(), search, page, limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch users"})
	}

	return c.JSON(fiber.Map{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetUser returns a single user by ID, with participation records
func GetUser(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	user, err := database.GetStore().GetUserByID(c.Context(), id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(user)
}
