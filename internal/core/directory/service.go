// Package directory owns the in-memory driver roster and is the composition
// root of the engine: external collaborators push full snapshots in and get
// filtered views back, and every verification command flows through here.
package directory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tawssil-directory/internal/core/domain"
	"tawssil-directory/internal/core/ports"
	"tawssil-directory/internal/core/verification"
)

// Service holds the current roster snapshot. Reads may run concurrently
// against a stable snapshot; mutations are serialized and only committed
// after the store confirms persistence.
type Service struct {
	log   zerolog.Logger
	store ports.DriverStore
	bus   ports.EventBus
	now   func() time.Time

	mu      sync.RWMutex
	drivers []domain.Driver
}

// NewService creates the directory service. The clock defaults to time.Now;
// tests swap it for a fixed instant.
func NewService(store ports.DriverStore, bus ports.EventBus, baseLogger *zerolog.Logger) *Service {
	return &Service{
		log:   baseLogger.With().Str("component", "directory").Logger(),
		store: store,
		bus:   bus,
		now:   time.Now,
	}
}

// LoadAll replaces the entire snapshot, typically after a successful fetch
// from the platform.
func (s *Service) LoadAll(drivers []domain.Driver) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drivers = make([]domain.Driver, len(drivers))
	copy(s.drivers, drivers)
	s.log.Info().Int("count", len(drivers)).Msg("Roster snapshot replaced")
}

// Refresh fetches the full roster from the store and replaces the snapshot.
func (s *Service) Refresh(ctx context.Context) error {
	drivers, err := s.store.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("refresh roster: %w", err)
	}
	s.LoadAll(drivers)
	return nil
}

// Snapshot returns a copy of the current roster in snapshot order.
func (s *Service) Snapshot() []domain.Driver {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Driver, len(s.drivers))
	copy(out, s.drivers)
	return out
}

// PendingQueue returns the drivers awaiting review, in snapshot order. This
// feeds the "new requests" view.
func (s *Service) PendingQueue() []domain.Driver {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pending []domain.Driver
	for _, d := range s.drivers {
		if d.VerificationStatus == domain.VerificationPending {
			pending = append(pending, d)
		}
	}
	return pending
}

// Query applies the filter spec over the current snapshot at the given
// reference instant. The instant is explicit so results are reproducible.
func (s *Service) Query(spec Spec, at time.Time) ([]domain.Driver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Filter(s.drivers, spec, at)
}

// CreateDriver validates and persists a new driver record, then adds it to
// the snapshot. New drivers always start pending. The id handed to the store
// is provisional: stores that assign their own identity return the canonical
// record, and only that record enters the snapshot, so later transitions
// address the id the store actually knows.
func (s *Service) CreateDriver(ctx context.Context, d domain.Driver) (*domain.Driver, error) {
	if err := validateNewDriver(d); err != nil {
		return nil, err
	}

	d.ID = uuid.NewString()
	d.VerificationStatus = domain.VerificationPending
	d.RejectionReason = ""
	d.RequestedAt = s.now()
	d.VerifiedAt = nil

	persisted, err := s.store.Create(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("persist new driver: %w", err)
	}

	s.mu.Lock()
	s.drivers = append(s.drivers, persisted)
	s.mu.Unlock()

	s.log.Info().Str("driver_id", persisted.ID).Str("kind", string(persisted.Kind)).Msg("Driver created")
	return &persisted, nil
}

// ApplyApproval approves the driver with the given id.
func (s *Service) ApplyApproval(ctx context.Context, id string) (*domain.Driver, error) {
	return s.apply(ctx, id, ports.TopicDriverApproved, func(d *domain.Driver) error {
		verification.Approve(d, s.now())
		return nil
	})
}

// ApplyRejection rejects the driver with the given id; the reason is
// mandatory.
func (s *Service) ApplyRejection(ctx context.Context, id, reason string) (*domain.Driver, error) {
	return s.apply(ctx, id, ports.TopicDriverRejected, func(d *domain.Driver) error {
		return verification.Reject(d, reason, s.now())
	})
}

// ApplyReview moves the driver to an administrator-chosen target state. A
// rejected target requires a reason, like ApplyRejection.
func (s *Service) ApplyReview(ctx context.Context, id string, target domain.VerificationStatus, reason string) (*domain.Driver, error) {
	return s.apply(ctx, id, ports.TopicDriverReviewed, func(d *domain.Driver) error {
		return verification.Review(d, target, reason, s.now())
	})
}

// apply runs one verification transition: locate the record, mutate a copy,
// persist, and only then commit to the snapshot and publish the decision.
// Validation failures surface before any I/O; a store failure leaves the
// snapshot untouched.
func (s *Service) apply(ctx context.Context, id, topic string, mutate func(*domain.Driver) error) (*domain.Driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.drivers {
		if s.drivers[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, &domain.NotFoundError{ID: id}
	}

	updated := s.drivers[idx]
	if err := mutate(&updated); err != nil {
		return nil, err
	}

	if err := s.store.UpdateVerification(ctx, updated); err != nil {
		return nil, fmt.Errorf("persist verification change for driver %s: %w", id, err)
	}
	s.drivers[idx] = updated

	if err := s.bus.Publish(ctx, topic, &updated); err != nil {
		// The transition is already persisted; a notification miss is not
		// a reason to fail the command.
		s.log.Error().Err(err).Str("topic", topic).Msg("Failed to publish decision event")
	}

	s.log.Info().
		Str("driver_id", id).
		Str("status", string(updated.VerificationStatus)).
		Msg("Verification transition applied")
	return &updated, nil
}

// validateNewDriver enforces the creation contract: identity fields, a valid
// kind and the full required document set. Vehicle type stays optional until
// onboarding completes, but an unknown value is still refused.
func validateNewDriver(d domain.Driver) error {
	required := []struct {
		field string
		value string
	}{
		{"full_name", d.FullName},
		{"email", d.Email},
		{"phone", d.Phone},
		{"address", d.Address},
		{"birth_date", d.BirthDate},
	}
	for _, r := range required {
		if r.value == "" {
			return domain.NewValidationError(r.field, "required")
		}
	}

	switch d.Kind {
	case domain.KindCourier, domain.KindChauffeur:
	default:
		return domain.NewValidationError("kind", "unknown driver kind "+string(d.Kind))
	}

	switch d.VehicleType {
	case "", domain.VehicleMotorcycle, domain.VehicleCar, domain.VehicleTruck, domain.VehicleVan:
	default:
		return domain.NewValidationError("vehicle_type", "unknown vehicle type "+string(d.VehicleType))
	}

	for _, doc := range domain.RequiredDocuments {
		if d.Documents[doc] == "" {
			return domain.NewValidationError("documents", "missing required document "+string(doc))
		}
	}
	return nil
}
