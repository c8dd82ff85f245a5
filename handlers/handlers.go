// handlers/handlers.go - Service wiring for the handler package
package handlers

import (
	"technova/database"
	"technova/services"
)

var (
	registrationService *services.RegistrationService
	festIDGenerator     *services.FestIDGenerator
)

// InitHandlers wires the handler package to the shared store. Must run after
// database.InitDB.
func InitHandlers() {
	store := database.GetStore()
	registrationService = services.NewRegistrationService(store)
	festIDGenerator = services.NewFestIDGenerator(store)
}
