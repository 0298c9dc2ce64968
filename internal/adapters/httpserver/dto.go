package httpserver

import (
	"time"

	"tawssil-directory/internal/core/domain"
	"tawssil-directory/internal/core/schedule"
)

// driverJSON is the HTTP representation of a driver. The domain model stays
// free of transport tags.
type driverJSON struct {
	ID            string   `json:"id"`
	FullName      string   `json:"full_name"`
	Email         string   `json:"email,omitempty"`
	Phone         string   `json:"phone,omitempty"`
	Address       string   `json:"address,omitempty"`
	BirthDate     string   `json:"birth_date,omitempty"`
	Kind          string   `json:"kind"`
	VehicleType   string   `json:"vehicle_type,omitempty"`
	VehiclePlate  string   `json:"vehicle_plate,omitempty"`
	CoverageZones []string `json:"coverage_zones,omitempty"`
	RawSchedule   string   `json:"schedule,omitempty"`
	Available     bool     `json:"available"`
	AverageRating float64  `json:"average_rating"`

	VerificationStatus string `json:"verification_status"`
	Membership         string `json:"membership"`
	RejectionReason    string `json:"rejection_reason,omitempty"`

	RequestedAt *time.Time `json:"requested_at,omitempty"`
	VerifiedAt  *time.Time `json:"verified_at,omitempty"`

	Documents map[domain.DocumentKind]string `json:"documents,omitempty"`
}

func toDriverJSON(d domain.Driver, at time.Time) driverJSON {
	out := driverJSON{
		ID:            d.ID,
		FullName:      d.FullName,
		Email:         d.Email,
		Phone:         d.Phone,
		Address:       d.Address,
		BirthDate:     d.BirthDate,
		Kind:          string(d.Kind),
		VehicleType:   string(d.VehicleType),
		VehiclePlate:  d.VehiclePlate,
		CoverageZones: d.CoverageZones,
		RawSchedule:   d.RawSchedule,
		Available:     schedule.Available(d.AvailabilityOverride, d.RawSchedule, at),
		AverageRating: d.AverageRating,

		VerificationStatus: string(d.VerificationStatus),
		Membership:         string(domain.MembershipOf(d.VerificationStatus)),
		RejectionReason:    d.RejectionReason,

		VerifiedAt: d.VerifiedAt,
		Documents:  d.Documents,
	}
	if !d.RequestedAt.IsZero() {
		requestedAt := d.RequestedAt
		out.RequestedAt = &requestedAt
	}
	return out
}

func toDriverListJSON(drivers []domain.Driver, at time.Time) []driverJSON {
	out := make([]driverJSON, 0, len(drivers))
	for _, d := range drivers {
		out = append(out, toDriverJSON(d, at))
	}
	return out
}

// createDriverRequest is the admin "add driver" form payload. Documents are
// references; the upload pipeline lives elsewhere.
type createDriverRequest struct {
	FullName      string   `json:"full_name"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	Address       string   `json:"address"`
	BirthDate     string   `json:"birth_date"`
	Kind          string   `json:"kind"`
	VehicleType   string   `json:"vehicle_type"`
	VehiclePlate  string   `json:"vehicle_plate"`
	CoverageZones []string `json:"coverage_zones"`
	Schedule      string   `json:"schedule"`

	Documents map[domain.DocumentKind]string `json:"documents"`
}

func (r createDriverRequest) toDomain() domain.Driver {
	return domain.Driver{
		FullName:      r.FullName,
		Email:         r.Email,
		Phone:         r.Phone,
		Address:       r.Address,
		BirthDate:     r.BirthDate,
		Kind:          domain.DriverKind(r.Kind),
		VehicleType:   domain.VehicleType(r.VehicleType),
		VehiclePlate:  r.VehiclePlate,
		CoverageZones: r.CoverageZones,
		RawSchedule:   r.Schedule,
		Documents:     r.Documents,
	}
}

// verificationRequest is the body of the verification patch endpoint.
type verificationRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}
