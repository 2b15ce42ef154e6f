package domain

import "time"

// ReportType classifies a bin incident and determines the base reward.
type ReportType string

const (
	TypeFull      ReportType = "full"
	TypeDamaged   ReportType = "damaged"
	TypeHazardous ReportType = "hazardous"
	TypeEmergency ReportType = "emergency"
)

// Valid reports whether the type is one of the known incident types.
func (t ReportType) Valid() bool {
	switch t {
	case TypeFull, TypeDamaged, TypeHazardous, TypeEmergency:
		return true
	}
	return false
}

// ReportStatus is the lifecycle state of a report. Transitions are monotonic:
// Reported -> Escalated -> Resolved, or Reported -> Resolved directly.
// Resolved is terminal.
type ReportStatus string

const (
	StatusReported  ReportStatus = "Reported"
	StatusEscalated ReportStatus = "Escalated"
	StatusResolved  ReportStatus = "Resolved"
)

// Priority is the citizen-declared urgency of a report.
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityUrgent Priority = "urgent"
)

// Coordinates is a GPS fix attached to a report. Presence is a reward signal.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Report is a citizen-submitted record of a bin problem.
type Report struct {
	ID          string       `json:"id"`
	Type        ReportType   `json:"type"`
	Status      ReportStatus `json:"status"`
	Description string       `json:"description,omitempty"`
	Location    string       `json:"location"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Photo       string       `json:"photo,omitempty"`
	Priority    Priority     `json:"priority,omitempty"`
	ReportedBy  string       `json:"reportedBy"`
	Timestamp   time.Time    `json:"timestamp"`

	// Set only on resolution.
	ResolvedAt      *time.Time `json:"resolvedAt,omitempty"`
	ResolvedBy      string     `json:"resolvedBy,omitempty"`
	ResolutionNotes string     `json:"resolutionNotes,omitempty"`
	ResolutionType  string     `json:"resolutionType,omitempty"`
	PointsAwarded   int        `json:"pointsAwarded,omitempty"`
}

// Resolution carries the fields written when a report is closed.
type Resolution struct {
	ResolvedAt    time.Time
	ResolvedBy    string
	Notes         string
	Type          string
	PointsAwarded int
}

// Clone returns a deep copy so store snapshots cannot alias caller state.
func (r *Report) Clone() *Report {
	cp := *r
	if r.Coordinates != nil {
		coords := *r.Coordinates
		cp.Coordinates = &coords
	}
	if r.ResolvedAt != nil {
		at := *r.ResolvedAt
		cp.ResolvedAt = &at
	}
	return &cp
}
