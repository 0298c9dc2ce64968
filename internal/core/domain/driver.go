package domain

import "time"

// VerificationStatus is the onboarding/trust state of a driver. It is the
// single canonical vocabulary; every display or wire label maps onto it.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// ParseVerificationStatus maps a canonical status name to its enum value.
func ParseVerificationStatus(s string) (VerificationStatus, bool) {
	switch VerificationStatus(s) {
	case VerificationPending, VerificationApproved, VerificationRejected:
		return VerificationStatus(s), true
	}
	return "", false
}

// DriverKind is the class of service a driver offers.
type DriverKind string

const (
	KindCourier   DriverKind = "courier"
	KindChauffeur DriverKind = "chauffeur"
)

// VehicleType is optional until the driver is fully onboarded.
type VehicleType string

const (
	VehicleMotorcycle VehicleType = "motorcycle"
	VehicleCar        VehicleType = "car"
	VehicleTruck      VehicleType = "truck"
	VehicleVan        VehicleType = "van"
)

// DocumentKind names one of the document references attached to a driver
// record. Presence of the required set is validated only at creation.
type DocumentKind string

const (
	DocLicense       DocumentKind = "license"
	DocVehiclePhoto  DocumentKind = "vehicle_photo"
	DocRegistration  DocumentKind = "registration"
	DocInsurance     DocumentKind = "insurance"
	DocTaxSticker    DocumentKind = "tax_sticker"
	DocMunicipalCard DocumentKind = "municipal_card"
)

// RequiredDocuments is the set a new driver must supply.
var RequiredDocuments = []DocumentKind{
	DocLicense,
	DocVehiclePhoto,
	DocRegistration,
	DocInsurance,
	DocTaxSticker,
	DocMunicipalCard,
}

// Driver is the central directory entity.
type Driver struct {
	ID        string
	FullName  string
	Email     string
	Phone     string
	Address   string
	BirthDate string

	Kind          DriverKind
	VehicleType   VehicleType // empty until onboarded
	VehiclePlate  string
	CoverageZones []string

	// RawSchedule is free text: comma-separated HH:MM-HH:MM windows.
	// AvailabilityOverride, when set, is authoritative and wins over it.
	RawSchedule          string
	AvailabilityOverride *bool

	// AverageRating is populated by the rating subsystem; read-only here.
	AverageRating float64

	VerificationStatus VerificationStatus
	// RejectionReason is non-empty exactly when the status is rejected.
	RejectionReason string

	RequestedAt time.Time
	VerifiedAt  *time.Time

	Documents map[DocumentKind]string
}

// Membership is the roster shorthand equating approval with being a counted,
// active member.
type Membership string

const (
	MembershipMember    Membership = "member"
	MembershipNonMember Membership = "nonmember"
	MembershipBanned    Membership = "banned"
)

// MembershipOf returns the display membership for a status. Note the filter
// engine treats anything not approved as a non-member; Banned exists only for
// the review vocabulary and display chips.
func MembershipOf(status VerificationStatus) Membership {
	switch status {
	case VerificationApproved:
		return MembershipMember
	case VerificationRejected:
		return MembershipBanned
	default:
		return MembershipNonMember
	}
}

// StatusForMembership maps the edit-membership vocabulary back onto the
// canonical status enum. Banned targets a rejection, which additionally
// requires a reason.
func StatusForMembership(m Membership) (VerificationStatus, bool) {
	switch m {
	case MembershipMember:
		return VerificationApproved, true
	case MembershipBanned:
		return VerificationRejected, true
	case MembershipNonMember:
		return VerificationPending, true
	}
	return "", false
}
