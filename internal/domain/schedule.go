package domain

import "cloud.google.com/go/civil"

// Schedule is a plant's watering rhythm.
type Schedule struct {
	Frequency   Frequency   `json:"frequency"`
	LastWatered *civil.Date `json:"last_watered,omitempty"`
}

// NewSchedule returns a schedule that has never been watered.
func NewSchedule(f Frequency) *Schedule {
	return &Schedule{Frequency: f}
}

// NeedsWatering reports whether the plant is due on today.
// A plant that was never watered is always due. Otherwise it is due only
// once today is strictly after lastWatered + interval, so on the boundary
// day itself it is not yet due.
func (s *Schedule) NeedsWatering(today civil.Date) bool {
	if s.LastWatered == nil {
		return true
	}
	return today.After(s.LastWatered.AddDays(s.Frequency.Days()))
}

// NextWateringDate returns the date the plant should next be watered.
// For a plant that was never watered this is today.
func (s *Schedule) NextWateringDate(today civil.Date) civil.Date {
	if s.LastWatered == nil {
		return today
	}
	return s.LastWatered.AddDays(s.Frequency.Days())
}

// MarkWatered records a watering on date.
func (s *Schedule) MarkWatered(date civil.Date) {
	d := date
	s.LastWatered = &d
}
