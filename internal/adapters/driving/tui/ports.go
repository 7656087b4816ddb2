package tui

import (
	"errors"

	"github.com/custodia-labs/dvsage-cli/internal/core/ports/driving"
)

// ErrMissingAskService is returned when the ask service is not provided.
var ErrMissingAskService = errors.New("tui: ask service is required")

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Ask answers questions over the indexed schema.
	Ask driving.AskService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Ask == nil {
		return ErrMissingAskService
	}
	return nil
}
