package model

import "github.com/google/uuid"

// Professor shares its ID with the owning user account.
type Professor struct {
	ID            uuid.UUID `json:"id"`
	Bio           string    `json:"bio"`
	HourlyRate    float64   `json:"hourly_rate"`
	AverageRating float64   `json:"average_rating"`

	// Populated on detail reads, not stored on the row itself.
	Instruments []*Instrument `json:"instruments,omitempty"`
}
