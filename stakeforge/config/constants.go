package config

import "time"

// UI and display
const (
	DefaultPageSize = 10
	MembersPerPage  = 15
	MaxAutocomplete = 25

	ErrorColor   = 0xFF0000
	SuccessColor = 0x00FF00
	InfoColor    = 0x0099FF
	WarningColor = 0xFFAA00
	EmbedColor   = 0x2B2D31
)

// Timeouts
const (
	CommandExecutionTimeout = 10 * time.Second
	SlowCommandThreshold    = 2 * time.Second
	AutocompleteTimeout     = 2 * time.Second
	JobTimeout              = 2 * time.Minute
)

// Scheduled jobs
const (
	ColonyDecayInterval = time.Hour
	EventExpiryInterval = time.Minute
)
