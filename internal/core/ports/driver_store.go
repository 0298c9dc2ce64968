package ports

import (
	"context"

	"tawssil-directory/internal/core/domain"
)

// DriverStore is the persistence collaborator behind the directory service.
// The directory never mutates its snapshot until a store call has succeeded,
// so local state cannot diverge from confirmed persisted state.
//
// Two implementations exist: the remote Tawssil platform API and the
// platform Postgres database.
type DriverStore interface {
	// FetchAll returns every driver record known to the platform, in the
	// platform's listing order.
	FetchAll(ctx context.Context) ([]domain.Driver, error)

	// Create persists a brand new driver record and returns it as
	// persisted. Stores that assign their own identifiers resolve and
	// return the canonical record; callers must keep the returned copy,
	// never the input.
	Create(ctx context.Context, d domain.Driver) (domain.Driver, error)

	// UpdateVerification persists the driver's verification fields: status,
	// rejection reason and verification timestamp.
	UpdateVerification(ctx context.Context, d domain.Driver) error
}
