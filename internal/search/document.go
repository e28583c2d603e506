// Package search provides full-text search over plants using Bleve.
//
// The index only answers "which plant ids match this text". Visibility is
// decided by the caller, which filters the hits against the plant lists the
// user can see.
package search

import (
	"strings"

	"github.com/istdurstig/istdurstig-server/internal/domain"
)

// PlantDocument is the indexed form of a plant.
type PlantDocument struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Type      string   `json:"type,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	Frequency string   `json:"frequency,omitempty"`
}

// NewPlantDocument builds the search document for p.
// Tags are lowercased so tag matches ignore case.
func NewPlantDocument(p *domain.Plant) *PlantDocument {
	doc := &PlantDocument{
		ID:    p.ID,
		Name:  p.Name,
		Type:  p.Type,
		Notes: p.Notes,
	}
	if p.Schedule != nil {
		doc.Frequency = strings.ToLower(p.Schedule.Frequency.String())
	}
	if len(p.Tags) > 0 {
		doc.Tags = make([]string, len(p.Tags))
		for i, tag := range p.Tags {
			doc.Tags[i] = strings.ToLower(tag)
		}
	}
	return doc
}

// ToMap converts the document to the field map Bleve indexes, with keys
// matching the mapping.
func (d *PlantDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":   d.ID,
		"name": d.Name,
	}
	if d.Type != "" {
		m["type"] = d.Type
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	if d.Notes != "" {
		m["notes"] = d.Notes
	}
	if d.Frequency != "" {
		m["frequency"] = d.Frequency
	}
	return m
}
