// Package ui provides the Bubble Tea dashboard for catalog pricing.
package ui

import (
	"github.com/fd1az/smart-pricing/business/catalog/domain"
	"github.com/fd1az/smart-pricing/pkg/ui/components"
)

// Message types for TUI updates

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}

// StartupMsg is sent during application startup to show progress.
type StartupMsg struct {
	Step    string // config, catalog or artifact
	Status  string // "loading", "done", "failed"
	Message string // Optional message
}

// ReadyMsg hands the dashboard its catalog once modules have started.
type ReadyMsg struct {
	Catalog Catalog
}

// RowsMsg carries priced rows for a filter query.
type RowsMsg struct {
	Query string
	Rows  []domain.PricedRow
}

// StatusMsg updates one entry of the input status panel.
type StatusMsg struct {
	Status components.SourceStatus
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}
