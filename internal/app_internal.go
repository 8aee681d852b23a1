package internal

import (
	"github.com/qtech/forgeupdates/internal/domain/entities"
)

// AppInternal holds the controllers mounted as CLI subcommands.
type AppInternal struct {
	controllers []entities.Controller
}

// NewAppInternal creates the application context from the aggregated controllers.
func NewAppInternal(controllers *[]entities.Controller) *AppInternal {
	return &AppInternal{controllers: *controllers}
}

// GetControllers returns every controller in registration order.
func (it *AppInternal) GetControllers() []entities.Controller {
	return it.controllers
}
