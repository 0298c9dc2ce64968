package postgres

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"tawssil-directory/internal/core/domain"
	"tawssil-directory/internal/core/ports"
)

// driverRepository is the DriverStore backed by the platform database.
// Driver phone numbers are encrypted at rest through the security service.
type driverRepository struct {
	db     *DB
	secSvc ports.SecurityPort
	log    zerolog.Logger
}

var _ ports.DriverStore = (*driverRepository)(nil)

// NewDriverRepository creates a new repository for driver records.
func NewDriverRepository(db *DB, secSvc ports.SecurityPort, baseLogger *zerolog.Logger) ports.DriverStore {
	return &driverRepository{
		db:     db,
		secSvc: secSvc,
		log:    baseLogger.With().Str("component", "driver_repo").Logger(),
	}
}

const driverQueryCols = `
	id, full_name, email, phone, address, birth_date,
	kind, vehicle_type, vehicle_plate, coverage_zones,
	raw_schedule, availability_override, average_rating,
	verification_status, rejection_reason, requested_at, verified_at, documents
`

// FetchAll returns every driver record, oldest request first. That order is
// the snapshot order the directory preserves.
func (r *driverRepository) FetchAll(ctx context.Context) ([]domain.Driver, error) {
	query := `SELECT ` + driverQueryCols + ` FROM drivers ORDER BY requested_at, id`

	rows, err := r.db.pool.Query(ctx, query)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to query drivers")
		return nil, err
	}
	defer rows.Close()

	var drivers []domain.Driver
	for rows.Next() {
		d, err := r.scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, *d)
	}
	if err := rows.Err(); err != nil {
		r.log.Error().Err(err).Msg("Driver row iteration failed")
		return nil, err
	}
	return drivers, nil
}

// Create encrypts the phone number and inserts a new driver record. The
// caller's id is the canonical one here, so the record comes back unchanged.
func (r *driverRepository) Create(ctx context.Context, d domain.Driver) (domain.Driver, error) {
	encPhone, err := r.encryptPhone(d.Phone)
	if err != nil {
		return domain.Driver{}, err
	}

	docs, err := json.Marshal(d.Documents)
	if err != nil {
		return domain.Driver{}, fmt.Errorf("encode documents: %w", err)
	}

	query := `
		INSERT INTO drivers (
			id, full_name, email, phone, address, birth_date,
			kind, vehicle_type, vehicle_plate, coverage_zones,
			raw_schedule, availability_override, average_rating,
			verification_status, rejection_reason, requested_at, verified_at, documents
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	_, err = r.db.pool.Exec(ctx, query,
		d.ID,
		d.FullName,
		d.Email,
		encPhone,
		d.Address,
		d.BirthDate,
		d.Kind,
		nullIfEmpty(string(d.VehicleType)),
		d.VehiclePlate,
		d.CoverageZones,
		d.RawSchedule,
		d.AvailabilityOverride,
		d.AverageRating,
		d.VerificationStatus,
		d.RejectionReason,
		d.RequestedAt,
		d.VerifiedAt,
		docs,
	)
	if err != nil {
		r.log.Error().Err(err).Str("driver_id", d.ID).Msg("Failed to insert new driver")
		return domain.Driver{}, err
	}
	return d, nil
}

// UpdateVerification persists only the verification fields of the record.
func (r *driverRepository) UpdateVerification(ctx context.Context, d domain.Driver) error {
	query := `
		UPDATE drivers
		SET verification_status = $2, rejection_reason = $3, verified_at = $4
		WHERE id = $1
	`
	tag, err := r.db.pool.Exec(ctx, query, d.ID, d.VerificationStatus, d.RejectionReason, d.VerifiedAt)
	if err != nil {
		r.log.Error().Err(err).Str("driver_id", d.ID).Msg("Failed to update verification")
		return err
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{ID: d.ID}
	}
	return nil
}

// scanDriver reads one row into a Driver, decrypting the phone number.
func (r *driverRepository) scanDriver(row pgx.Row) (*domain.Driver, error) {
	var (
		d           domain.Driver
		encPhone    *string
		vehicleType *string
		docs        []byte
	)

	err := row.Scan(
		&d.ID,
		&d.FullName,
		&d.Email,
		&encPhone,
		&d.Address,
		&d.BirthDate,
		&d.Kind,
		&vehicleType,
		&d.VehiclePlate,
		&d.CoverageZones,
		&d.RawSchedule,
		&d.AvailabilityOverride,
		&d.AverageRating,
		&d.VerificationStatus,
		&d.RejectionReason,
		&d.RequestedAt,
		&d.VerifiedAt,
		&docs,
	)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to scan driver row")
		return nil, err
	}

	if vehicleType != nil {
		d.VehicleType = domain.VehicleType(*vehicleType)
	}

	if encPhone != nil && *encPhone != "" {
		decBytes, err := base64.StdEncoding.DecodeString(*encPhone)
		if err != nil {
			r.log.Error().Err(err).Str("driver_id", d.ID).Msg("Failed to base64-decode phone number")
			return nil, err
		}
		dec, err := r.secSvc.Decrypt(decBytes)
		if err != nil {
			r.log.Error().Err(err).Str("driver_id", d.ID).Msg("Failed to decrypt phone number")
			return nil, err
		}
		d.Phone = string(dec)
	}

	if len(docs) > 0 {
		if err := json.Unmarshal(docs, &d.Documents); err != nil {
			return nil, fmt.Errorf("decode documents for driver %s: %w", d.ID, err)
		}
	}

	return &d, nil
}

func (r *driverRepository) encryptPhone(phone string) (*string, error) {
	if phone == "" {
		return nil, nil
	}
	encBytes, err := r.secSvc.Encrypt([]byte(phone))
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to encrypt phone number")
		return nil, err
	}
	encStr := base64.StdEncoding.EncodeToString(encBytes)
	return &encStr, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
