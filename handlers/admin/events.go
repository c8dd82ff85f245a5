// handlers/admin/events.go - Admin event management
package admin

import (
	"time"
	"technova/database"
	"technova/models"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EventRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    models.Category `json:"category"`
	Date        time.Time       `json:"date"`
	Venue       string          `json:"venue"`
	Deadline    time.Time       `json:"registration_deadline"`
	IsActive    *bool           `json:"is_active"`
	TeamSize    models.TeamSize `json:"team_size"`
	MaxTeams    int             `json:"max_teams"`
}

func (r *EventRequest) validate() string {
	switch {
	case r.Title == "":
		return "Title is required"
	case !models.ValidCategory(r.Category):
		return "Unknown event category"
	case r.Date.IsZero() || r.Deadline.IsZero():
		return "Date and registration deadline are required"
	case r.TeamSize.Min < 1 || r.TeamSize.Max < r.TeamSize.Min:
		return "Invalid team size range"
	case r.MaxTeams < 1:
		return "Max teams must be positive"
	}
	return ""
}

// GetEvents returns all events, including inactive ones
func GetEvents(c *fiber.Ctx) error {
	events, err := database.GetStore().ListEvents(c.Context(), false, models.Category(c.Query("category")))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch events"})
	}

	return c.JSON(fiber.Map{"events": events, "total": len(events)})
}

// CreateEvent creates a new event
func CreateEvent(c *fiber.Ctx) error {
	var req EventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if msg := req.validate(); msg != "" {
		return c.Status(400).JSON(fiber.Map{"error": msg})
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	event := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Date:        req.Date,
		Venue:       req.Venue,
		Deadline:    req.Deadline,
		IsActive:    active,
		TeamSize:    req.TeamSize,
		MaxTeams:    req.MaxTeams,
	}

	if err := database.GetStore().CreateEvent(c.Context(), event); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create event"})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Event created successfully", "event": event})
}

// UpdateEvent updates event metadata. Capacity counters and the participant
// list are off limits; only the registration transaction mutates those.
func UpdateEvent(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid event ID"})
	}

	var req EventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	fields := bson.M{}
	if req.Title != "" {
		fields["title"] = req.Title
	}
	if req.Description != "" {
		fields["description"] = req.Description
	}
	if req.Category != "" {
		if !models.ValidCategory(req.Category) {
			return c.Status(400).JSON(fiber.Map{"error": "Unknown event category"})
		}
		fields["category"] = req.Category
	}
	if !req.Date.IsZero() {
		fields["date"] = req.Date
	}
	if req.Venue != "" {
		fields["venue"] = req.Venue
	}
	if !req.Deadline.IsZero() {
		fields["registrationDeadline"] = req.Deadline
	}
	if req.IsActive != nil {
		fields["isActive"] = *req.IsActive
	}
	if req.TeamSize.Min > 0 && req.TeamSize.Max >= req.TeamSize.Min {
		fields["teamSize"] = req.TeamSize
	}
	if req.MaxTeams > 0 {
		fields["maxTeams"] = req.MaxTeams
	}

	if len(fields) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "No updatable fields provided"})
	}

	if err := database.GetStore().UpdateEvent(c.Context(), id, fields); err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Event not found"})
	}

	event, err := database.GetStore().GetEvent(c.Context(), id)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to reload event"})
	}

	return c.JSON(fiber.Map{"message": "Event updated successfully", "event": event})
}

// DeleteEvent removes an event
func DeleteEvent(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid event ID"})
	}

	if err := database.GetStore().DeleteEvent(c.Context(), id); err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Event not found"})
	}

	return c.JSON(fiber.Map{"message": "Event deleted successfully"})
}
