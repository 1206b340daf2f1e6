// internal/models/roadmap.go
package models

import "time"

// Roadmap phase statuses
const (
	PhaseUpcoming  = "upcoming"
	PhaseActive    = "active"
	PhaseCompleted = "completed"
)

// DefaultIconKey is rendered when a phase carries an unknown icon key.
const DefaultIconKey = "rocket"

// KnownIconKeys is the symbol set the public roadmap view can render.
var KnownIconKeys = map[string]bool{
	"rocket":   true,
	"pill":     true,
	"store":    true,
	"map-pin":  true,
	"truck":    true,
	"users":    true,
	"sparkles": true,
}

// RoadmapPhase is one entry on the public roadmap timeline. Mutated only by
// the admin UI; rendered ascending by OrderIndex.
type RoadmapPhase struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle"`
	Description string    `json:"description"`
	Status      string    `json:"status"` // "upcoming", "active", "completed"
	DateDisplay string    `json:"dateDisplay"`
	OrderIndex  int       `json:"orderIndex"`
	IconKey     string    `json:"iconKey"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Icon resolves the phase icon, falling back to the default for unknown keys.
func (p RoadmapPhase) Icon() string {
	if KnownIconKeys[p.IconKey] {
		return p.IconKey
	}
	return DefaultIconKey
}
