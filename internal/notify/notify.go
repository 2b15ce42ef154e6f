// Package notify emits notification intents. Delivery is an external
// concern: sinks are fire-and-forget and their failures never propagate
// into the resolution outcome.
package notify

import (
	"context"

	"smartbin/internal/domain"
)

// Notification is the intent record handed to the delivery layer.
type Notification struct {
	UserID        string            `json:"userId"`
	IncidentID    string            `json:"incidentId"`
	PointsAwarded int               `json:"pointsAwarded"`
	IncidentType  domain.ReportType `json:"incidentType"`
	Location      string            `json:"location"`
	Title         string            `json:"title"`
	Message       string            `json:"message"`
}

// Sink accepts notification intents.
type Sink interface {
	Send(ctx context.Context, n Notification) error
}
