// utils/http.go - JSON response helpers for Fiber handlers
package utils

import "github.com/gofiber/fiber/v2"

// Success sends the standard success envelope.
func Success(c *fiber.Ctx, message string, data interface{}) error {
	resp := fiber.Map{"success": true}
	if message != "" {
		resp["message"] = message
	}
	if data != nil {
		resp["data"] = data
	}
	return c.JSON(resp)
}

// Created is Success with a 201 status.
func Created(c *fiber.Ctx, message string, data interface{}) error {
	c.Status(fiber.StatusCreated)
	return Success(c, message, data)
}

// Error sends the standard error envelope.
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
