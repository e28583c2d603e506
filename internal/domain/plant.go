package domain

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"

	domainerrors "github.com/istdurstig/istdurstig-server/internal/errors"
)

// Plant is a single household plant with its watering schedule and care log.
// A plant does not know which lists it belongs to; visibility is derived
// from PlantList.PlantIDs.
type Plant struct {
	Aggregate
	Name        string      `json:"name"`
	Type        string      `json:"type,omitempty"`
	Tags        []string    `json:"tags"`
	Notes       string      `json:"notes,omitempty"`
	PhotoURL    string      `json:"photo_url,omitempty"`
	Schedule    *Schedule   `json:"schedule,omitempty"`
	CareHistory []CareEvent `json:"care_history"`
}

// PlantAttributes are the user-editable fields of a plant.
type PlantAttributes struct {
	Name      string
	Type      string
	Tags      []string
	Notes     string
	PhotoURL  string
	Frequency Frequency
}

func (a PlantAttributes) validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return domainerrors.InvalidInput("plant name is required")
	}
	if !a.Frequency.IsValid() {
		return domainerrors.InvalidInputf("unknown watering frequency %q", a.Frequency)
	}
	return nil
}

// NewPlant creates a plant with an empty care history and a schedule that
// has never been watered.
func NewPlant(id string, now time.Time, attrs PlantAttributes) (*Plant, error) {
	if err := attrs.validate(); err != nil {
		return nil, err
	}

	p := &Plant{
		Aggregate:   Aggregate{ID: id},
		Schedule:    NewSchedule(attrs.Frequency),
		CareHistory: []CareEvent{},
	}
	p.InitTimestamps(now)
	p.apply(attrs)
	return p, nil
}

// Update replaces the editable fields and the watering frequency.
// The last watered date is preserved.
func (p *Plant) Update(attrs PlantAttributes, now time.Time) error {
	if err := attrs.validate(); err != nil {
		return err
	}

	p.apply(attrs)
	if p.Schedule == nil {
		p.Schedule = NewSchedule(attrs.Frequency)
	} else {
		p.Schedule.Frequency = attrs.Frequency
	}
	p.Touch(now)
	return nil
}

func (p *Plant) apply(attrs PlantAttributes) {
	p.Name = strings.TrimSpace(attrs.Name)
	p.Type = strings.TrimSpace(attrs.Type)
	p.Tags = NormalizeTags(attrs.Tags)
	p.Notes = attrs.Notes
	p.PhotoURL = strings.TrimSpace(attrs.PhotoURL)
}

// AddCareEvent appends an event to the history. A watering also moves the
// schedule's last watered date to the event's calendar date.
func (p *Plant) AddCareEvent(event CareEvent, now time.Time) {
	p.CareHistory = append(p.CareHistory, event)
	if event.IsWatering() && p.Schedule != nil {
		p.Schedule.MarkWatered(civil.DateOf(event.Timestamp))
	}
	p.Touch(now)
}

// NeedsWatering reports whether the plant is due on today.
// A plant without a schedule is never due.
func (p *Plant) NeedsWatering(today civil.Date) bool {
	if p.Schedule == nil {
		return false
	}
	return p.Schedule.NeedsWatering(today)
}

// NextWateringDate returns the next due date, or false if the plant has no schedule.
func (p *Plant) NextWateringDate(today civil.Date) (civil.Date, bool) {
	if p.Schedule == nil {
		return civil.Date{}, false
	}
	return p.Schedule.NextWateringDate(today), true
}

// LastCareEvent returns the most recent event, if any.
func (p *Plant) LastCareEvent() (CareEvent, bool) {
	if len(p.CareHistory) == 0 {
		return CareEvent{}, false
	}
	return p.CareHistory[len(p.CareHistory)-1], true
}

// NormalizeTags trims tags, drops empties and duplicates, and keeps first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
