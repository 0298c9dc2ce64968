// Package notifications turns verification decision events into an audit
// trail. Outbound driver messaging (SMS, push) would hang off the same
// subscriptions.
package notifications

import (
	"context"

	"github.com/rs/zerolog"

	"tawssil-directory/internal/core/domain"
	"tawssil-directory/internal/core/ports"
)

// DecisionHandler listens for verification events on the EventBus and
// records each decision. It is a system component, not part of any request
// path.
type DecisionHandler struct {
	log zerolog.Logger
}

// NewDecisionHandler creates a handler for verification decision events.
func NewDecisionHandler(baseLogger *zerolog.Logger) *DecisionHandler {
	return &DecisionHandler{
		log: baseLogger.With().Str("component", "decision_handler").Logger(),
	}
}

// Register subscribes the handler to every decision topic.
func (h *DecisionHandler) Register(bus ports.EventBus) {
	bus.Subscribe(ports.TopicDriverApproved, h.HandleDriverApproved)
	bus.Subscribe(ports.TopicDriverRejected, h.HandleDriverRejected)
	bus.Subscribe(ports.TopicDriverReviewed, h.HandleDriverReviewed)
}

// HandleDriverApproved is an EventHandler for the "driver:approved" topic.
func (h *DecisionHandler) HandleDriverApproved(ctx context.Context, event ports.Event) error {
	driver, ok := event.Data.(*domain.Driver)
	if !ok {
		h.log.Error().Msg("Received invalid data for 'driver:approved' event")
		return nil // Don't retry
	}

	h.log.Info().
		Str("driver_id", driver.ID).
		Str("driver_name", driver.FullName).
		Msg("Driver approved and added to the active roster")
	return nil
}

// HandleDriverRejected is an EventHandler for the "driver:rejected" topic.
func (h *DecisionHandler) HandleDriverRejected(ctx context.Context, event ports.Event) error {
	driver, ok := event.Data.(*domain.Driver)
	if !ok {
		h.log.Error().Msg("Received invalid data for 'driver:rejected' event")
		return nil // Don't retry
	}

	h.log.Info().
		Str("driver_id", driver.ID).
		Str("driver_name", driver.FullName).
		Str("reason", driver.RejectionReason).
		Msg("Driver rejected")
	return nil
}

// HandleDriverReviewed is an EventHandler for the "driver:reviewed" topic.
func (h *DecisionHandler) HandleDriverReviewed(ctx context.Context, event ports.Event) error {
	driver, ok := event.Data.(*domain.Driver)
	if !ok {
		h.log.Error().Msg("Received invalid data for 'driver:reviewed' event")
		return nil
	}

	h.log.Info().
		Str("driver_id", driver.ID).
		Str("status", string(driver.VerificationStatus)).
		Msg("Driver verification reviewed")
	return nil
}
