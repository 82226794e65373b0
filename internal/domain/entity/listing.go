package entity

import "time"

// RawListing is what the site adapter read from a player page.
// nil means the field was not found on the page.
type RawListing struct {
	Link     string
	PlayerID string
	Price    *string
	Deadline *string
	Wage     *string
	Median   *string
	Injured  bool
}

// Candidate ссылка из результатов поиска, прошедшая окно дедлайна.
type Candidate struct {
	Link     string
	PlayerID string
	Deadline time.Time
}
