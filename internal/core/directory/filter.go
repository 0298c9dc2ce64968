package directory

import (
	"strings"
	"time"

	"tawssil-directory/internal/core/domain"
	"tawssil-directory/internal/core/schedule"
)

// AvailabilityFilter narrows the roster by the evaluator's verdict at query
// time.
type AvailabilityFilter string

const (
	AvailabilityAll         AvailabilityFilter = ""
	AvailabilityAvailable   AvailabilityFilter = "available"
	AvailabilityUnavailable AvailabilityFilter = "unavailable"
)

// MembershipFilter narrows the roster by membership. Member means approved;
// non-member means anything else. Independent from OnlyApprovedRoster on
// purpose: both are evaluated and the result is their intersection.
type MembershipFilter string

const (
	MembershipAll       MembershipFilter = ""
	MembershipMember    MembershipFilter = "member"
	MembershipNonMember MembershipFilter = "nonmember"
)

// SearchField scopes the free-text search to one field, or all of them.
type SearchField string

const (
	SearchAll      SearchField = ""
	SearchFullName SearchField = "full_name"
	SearchEmail    SearchField = "email"
	SearchPhone    SearchField = "phone"
	SearchPlate    SearchField = "plate"
	SearchZones    SearchField = "zones"
)

// Spec describes one roster query. Zero values mean "no filter", so the
// empty Spec matches every driver. OnlyApprovedRoster is the default stance
// of the "all drivers" view and excludes anything not approved before other
// predicates run.
type Spec struct {
	Kind               domain.DriverKind
	OnlyApprovedRoster bool
	Availability       AvailabilityFilter
	VehicleType        domain.VehicleType
	Membership         MembershipFilter
	SearchText         string
	SearchField        SearchField
}

// Validate rejects unknown enum values before any driver is evaluated.
func (s Spec) Validate() error {
	switch s.Kind {
	case "", domain.KindCourier, domain.KindChauffeur:
	default:
		return domain.NewValidationError("kind", "unknown driver kind "+string(s.Kind))
	}
	switch s.Availability {
	case AvailabilityAll, AvailabilityAvailable, AvailabilityUnavailable:
	default:
		return domain.NewValidationError("availability", "unknown availability filter "+string(s.Availability))
	}
	switch s.VehicleType {
	case "", domain.VehicleMotorcycle, domain.VehicleCar, domain.VehicleTruck, domain.VehicleVan:
	default:
		return domain.NewValidationError("vehicle_type", "unknown vehicle type "+string(s.VehicleType))
	}
	switch s.Membership {
	case MembershipAll, MembershipMember, MembershipNonMember:
	default:
		return domain.NewValidationError("membership", "unknown membership filter "+string(s.Membership))
	}
	switch s.SearchField {
	case SearchAll, SearchFullName, SearchEmail, SearchPhone, SearchPlate, SearchZones:
	default:
		return domain.NewValidationError("search_field", "unknown search field "+string(s.SearchField))
	}
	return nil
}

// Filter returns the subset of drivers satisfying every active predicate,
// preserving input order. An empty result is not an error; only a malformed
// spec is.
func Filter(drivers []domain.Driver, spec Spec, at time.Time) ([]domain.Driver, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	matched := make([]domain.Driver, 0, len(drivers))
	for _, d := range drivers {
		if matches(d, spec, at) {
			matched = append(matched, d)
		}
	}
	return matched, nil
}

// matches combines the predicates with logical AND, short-circuiting on the
// first failure.
func matches(d domain.Driver, s Spec, at time.Time) bool {
	if s.Kind != "" && d.Kind != s.Kind {
		return false
	}
	if s.OnlyApprovedRoster && d.VerificationStatus != domain.VerificationApproved {
		return false
	}
	if s.Availability != AvailabilityAll {
		available := schedule.Available(d.AvailabilityOverride, d.RawSchedule, at)
		if s.Availability == AvailabilityAvailable && !available {
			return false
		}
		if s.Availability == AvailabilityUnavailable && available {
			return false
		}
	}
	// A driver with no vehicle type never matches a specific-type filter.
	if s.VehicleType != "" && d.VehicleType != s.VehicleType {
		return false
	}
	if s.Membership != MembershipAll {
		approved := d.VerificationStatus == domain.VerificationApproved
		if s.Membership == MembershipMember && !approved {
			return false
		}
		if s.Membership == MembershipNonMember && approved {
			return false
		}
	}
	if s.SearchText != "" && !searchMatches(d, s.SearchField, s.SearchText) {
		return false
	}
	return true
}

// searchMatches is case-insensitive substring containment. An absent field
// never matches a non-empty query; it is never an error.
func searchMatches(d domain.Driver, field SearchField, text string) bool {
	query := strings.ToLower(text)
	contains := func(v string) bool {
		return v != "" && strings.Contains(strings.ToLower(v), query)
	}
	zoneMatch := func() bool {
		for _, z := range d.CoverageZones {
			if contains(z) {
				return true
			}
		}
		return false
	}

	switch field {
	case SearchFullName:
		return contains(d.FullName)
	case SearchEmail:
		return contains(d.Email)
	case SearchPhone:
		return contains(d.Phone)
	case SearchPlate:
		return contains(d.VehiclePlate)
	case SearchZones:
		return zoneMatch()
	default:
		return contains(d.FullName) || contains(d.Email) || contains(d.Phone) ||
			contains(d.VehiclePlate) || zoneMatch()
	}
}
