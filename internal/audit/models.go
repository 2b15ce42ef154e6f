// Package audit records immutable entries for every state-changing action.
// Entries are append-only: nothing in this package mutates or deletes one.
package audit

import (
	"time"

	"smartbin/internal/domain"
)

// ActionType identifies what kind of action an entry describes.
type ActionType string

const (
	ActionIncidentCreated   ActionType = "INCIDENT_CREATED"
	ActionIncidentUpdated   ActionType = "INCIDENT_UPDATED"
	ActionIncidentEscalated ActionType = "INCIDENT_ESCALATED"
	ActionIncidentResolved  ActionType = "INCIDENT_RESOLVED"
	ActionPointsAwarded     ActionType = "POINTS_AWARDED"
	ActionPointsRedeemed    ActionType = "POINTS_REDEEMED"
	ActionBulkOperation     ActionType = "BULK_OPERATION"
)

// Actor is who performed the audited action. SYSTEM for background work.
type Actor struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// Target points at the entity the action changed. One-way pointer: reports
// and users never reference audit entries back.
type Target struct {
	Type       string              `json:"type"`
	ID         string              `json:"id"`
	StatusFrom domain.ReportStatus `json:"statusFrom,omitempty"`
	StatusTo   domain.ReportStatus `json:"statusTo,omitempty"`
}

// AffectedUser captures the balance movement a point grant produced.
type AffectedUser struct {
	ID            string `json:"id"`
	PointsAwarded int    `json:"pointsAwarded"`
	BalanceBefore int    `json:"balanceBefore"`
	BalanceAfter  int    `json:"balanceAfter"`
}

// Entry is one immutable audit record.
type Entry struct {
	ID           string                  `json:"id"`
	ActionType   ActionType              `json:"actionType"`
	Timestamp    time.Time               `json:"timestamp"`
	PerformedBy  Actor                   `json:"performedBy"`
	Target       Target                  `json:"target"`
	AffectedUser *AffectedUser           `json:"affectedUser,omitempty"`
	Breakdown    *domain.PointsBreakdown `json:"breakdown,omitempty"`
	Metadata     map[string]any          `json:"metadata,omitempty"`
}
