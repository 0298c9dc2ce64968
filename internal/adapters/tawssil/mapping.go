package tawssil

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"tawssil-directory/internal/core/domain"
	"tawssil-directory/internal/core/schedule"
)

// The platform API speaks French. These are the wire labels for the
// canonical status enum; nothing outside this adapter ever sees them.
const (
	wireStatusPending  = "En attente"
	wireStatusApproved = "Approuvé"
	wireStatusRejected = "Refusé"
)

// fallbackRejectionReason stands in when the platform serves a rejected
// record with no reason, so a rejected status always carries one.
const fallbackRejectionReason = "Raison non précisée"

// wireDriver is a driver record as the platform API serializes it.
// disponibilite is either a literal boolean (manual override) or free
// schedule text, so it is kept raw until mapping.
type wireDriver struct {
	ID                json.Number     `json:"id"`
	Username          string          `json:"username"`
	Email             string          `json:"email"`
	Telephone         string          `json:"telephone"`
	Adresse           string          `json:"adresse"`
	DateNaissance     string          `json:"date_naissance"`
	Type              string          `json:"type"`
	TypeVehicule      string          `json:"type_vehicule"`
	Matricule         string          `json:"matricule_vehicule"`
	ZoneCouverture    string          `json:"zone_couverture"`
	Disponibilite     json.RawMessage `json:"disponibilite"`
	NoteMoyenne       float64         `json:"note_moyenne"`
	Statut            string          `json:"statut_verification"`
	RaisonRefus       string          `json:"raison_refus"`
	DateDemande       string          `json:"date_demande"`
	DateCertification string          `json:"certification_date"`

	PhotoPermis          string `json:"photo_permis"`
	PhotoVehicule        string `json:"photo_vehicule"`
	PhotoCarteGrise      string `json:"photo_carte_grise"`
	PhotoAssurance       string `json:"photo_assurance"`
	PhotoVignette        string `json:"photo_vignette"`
	PhotoCarteMunicipale string `json:"photo_carte_municipale"`
}

var statusFromWire = map[string]domain.VerificationStatus{
	wireStatusPending:  domain.VerificationPending,
	wireStatusApproved: domain.VerificationApproved,
	wireStatusRejected: domain.VerificationRejected,
}

var statusToWire = map[domain.VerificationStatus]string{
	domain.VerificationPending:  wireStatusPending,
	domain.VerificationApproved: wireStatusApproved,
	domain.VerificationRejected: wireStatusRejected,
}

var kindFromWire = map[string]domain.DriverKind{
	"Livreur":   domain.KindCourier,
	"Chauffeur": domain.KindChauffeur,
}

var kindToWire = map[domain.DriverKind]string{
	domain.KindCourier:   "Livreur",
	domain.KindChauffeur: "Chauffeur",
}

var vehicleFromWire = map[string]domain.VehicleType{
	"Moto":        domain.VehicleMotorcycle,
	"Voiture":     domain.VehicleCar,
	"Camion":      domain.VehicleTruck,
	"Camionnette": domain.VehicleVan,
}

var vehicleToWire = map[domain.VehicleType]string{
	domain.VehicleMotorcycle: "Moto",
	domain.VehicleCar:        "Voiture",
	domain.VehicleTruck:      "Camion",
	domain.VehicleVan:        "Camionnette",
}

// toDomain maps one wire record onto the canonical model. Unknown labels
// degrade to zero values rather than errors: a bad record must not sink the
// whole listing. The skipped-segment count of the schedule text is surfaced
// so the caller can log it.
func (w wireDriver) toDomain() (domain.Driver, int) {
	d := domain.Driver{
		ID:              w.ID.String(),
		FullName:        w.Username,
		Email:           w.Email,
		Phone:           w.Telephone,
		Address:         w.Adresse,
		BirthDate:       w.DateNaissance,
		Kind:            kindFromWire[w.Type],
		VehicleType:     vehicleFromWire[w.TypeVehicule],
		VehiclePlate:    w.Matricule,
		CoverageZones:   splitZones(w.ZoneCouverture),
		AverageRating:   w.NoteMoyenne,
		RejectionReason: w.RaisonRefus,
		RequestedAt:     parseWireTime(w.DateDemande),
	}

	status, ok := statusFromWire[w.Statut]
	if !ok {
		status = domain.VerificationPending
	}
	d.VerificationStatus = status
	if d.VerificationStatus != domain.VerificationRejected {
		d.RejectionReason = ""
	} else if strings.TrimSpace(d.RejectionReason) == "" {
		d.RejectionReason = fallbackRejectionReason
	}

	if t := parseWireTime(w.DateCertification); !t.IsZero() {
		d.VerifiedAt = &t
	}

	skipped := 0
	if len(w.Disponibilite) > 0 {
		var b bool
		var s string
		switch {
		case json.Unmarshal(w.Disponibilite, &b) == nil:
			d.AvailabilityOverride = &b
		case json.Unmarshal(w.Disponibilite, &s) == nil:
			d.RawSchedule = s
			_, skipped = schedule.Parse(s)
		}
	}

	d.Documents = map[domain.DocumentKind]string{}
	for doc, ref := range map[domain.DocumentKind]string{
		domain.DocLicense:       w.PhotoPermis,
		domain.DocVehiclePhoto:  w.PhotoVehicule,
		domain.DocRegistration:  w.PhotoCarteGrise,
		domain.DocInsurance:     w.PhotoAssurance,
		domain.DocTaxSticker:    w.PhotoVignette,
		domain.DocMunicipalCard: w.PhotoCarteMunicipale,
	} {
		if ref != "" {
			d.Documents[doc] = ref
		}
	}
	if len(d.Documents) == 0 {
		d.Documents = nil
	}

	return d, skipped
}

func splitZones(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	zones := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			zones = append(zones, p)
		}
	}
	return zones
}

func joinZones(zones []string) string {
	return strings.Join(zones, ", ")
}

// parseWireTime accepts the two timestamp shapes the platform emits.
func parseWireTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func formatBool(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}
