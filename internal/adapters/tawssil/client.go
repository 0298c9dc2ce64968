// Package tawssil is the DriverStore adapter over the remote platform HTTP
// API. The engine never learns these calls are HTTP; it only sees "fetch
// all" and "persist verification change".
package tawssil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tawssil-directory/internal/core/domain"
	"tawssil-directory/internal/core/ports"
)

// Client talks to the Tawssil platform backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

var _ ports.DriverStore = (*Client)(nil)

// NewClient creates a platform API client rooted at baseURL.
func NewClient(baseURL string, baseLogger *zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        baseLogger.With().Str("component", "tawssil_client").Logger(),
	}
}

// listResponse is the envelope of the driver listing endpoint.
type listResponse struct {
	Status  string       `json:"status"`
	Drivers []wireDriver `json:"drivers"`
}

// FetchAll lists every driver known to the platform, in listing order.
func (c *Client) FetchAll(ctx context.Context) ([]domain.Driver, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/list-drivers/", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error().Err(err).Msg("Failed to fetch driver listing")
		return nil, fmt.Errorf("list drivers: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list drivers: unexpected status %d", resp.StatusCode)
	}

	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode driver listing: %w", err)
	}
	if body.Status != "success" {
		return nil, fmt.Errorf("list drivers: platform returned status %q", body.Status)
	}

	drivers := make([]domain.Driver, 0, len(body.Drivers))
	for _, w := range body.Drivers {
		d, skipped := w.toDomain()
		if skipped > 0 {
			c.log.Debug().
				Str("driver_id", d.ID).
				Int("skipped_segments", skipped).
				Msg("Driver schedule contains malformed segments")
		}
		drivers = append(drivers, d)
	}
	return drivers, nil
}

// verificationPatch is the body of the update-verification endpoint. The
// reason is only present for rejections.
type verificationPatch struct {
	Statut      string `json:"statut_verification"`
	RaisonRefus string `json:"raison_refus,omitempty"`
}

// UpdateVerification persists a verification transition on the platform.
func (c *Client) UpdateVerification(ctx context.Context, d domain.Driver) error {
	patch := verificationPatch{Statut: statusToWire[d.VerificationStatus]}
	if d.VerificationStatus == domain.VerificationRejected {
		patch.RaisonRefus = d.RejectionReason
	}

	payload, err := json.Marshal(patch)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/drivers/%s/update-verification/", c.baseURL, d.ID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("driver_id", d.ID).Msg("Failed to persist verification change")
		return fmt.Errorf("update verification: %w", err)
	}
	defer drain(resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &domain.NotFoundError{ID: d.ID}
	case resp.StatusCode >= 300:
		return fmt.Errorf("update verification: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Create registers a new driver. The endpoint takes a multipart form; the
// document fields carry references only, upload handling lives elsewhere.
//
// The platform assigns its own id, and its creation response does not carry
// the full driver record, so after a successful POST the record is resolved
// from a fresh listing by email. The caller's id is discarded.
func (c *Client) Create(ctx context.Context, d domain.Driver) (domain.Driver, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	fields := map[string]string{
		"username":           d.FullName,
		"email":              d.Email,
		"telephone":          d.Phone,
		"adresse":            d.Address,
		"date_naissance":     d.BirthDate,
		"type_utilisateur":   kindToWire[d.Kind],
		"type_vehicule":      vehicleToWire[d.VehicleType],
		"matricule_vehicule": d.VehiclePlate,
		"zone_couverture":    joinZones(d.CoverageZones),
		"disponibilite":      d.RawSchedule,
	}
	if d.AvailabilityOverride != nil {
		fields["disponibilite"] = formatBool(d.AvailabilityOverride)
	}
	for _, pair := range []struct {
		field string
		doc   domain.DocumentKind
	}{
		{"photo_permis", domain.DocLicense},
		{"photo_vehicule", domain.DocVehiclePhoto},
		{"photo_carte_grise", domain.DocRegistration},
		{"photo_assurance", domain.DocInsurance},
		{"photo_vignette", domain.DocTaxSticker},
		{"photo_carte_municipale", domain.DocMunicipalCard},
	} {
		fields[pair.field] = d.Documents[pair.doc]
	}

	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := form.WriteField(name, value); err != nil {
			return domain.Driver{}, err
		}
	}
	if err := form.Close(); err != nil {
		return domain.Driver{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/create-driver/", &buf)
	if err != nil {
		return domain.Driver{}, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error().Err(err).Msg("Failed to create driver on platform")
		return domain.Driver{}, fmt.Errorf("create driver: %w", err)
	}
	drain(resp.Body)

	if resp.StatusCode >= 300 {
		return domain.Driver{}, fmt.Errorf("create driver: unexpected status %d", resp.StatusCode)
	}

	return c.resolveByEmail(ctx, d.Email)
}

// resolveByEmail re-fetches the listing and returns the record the platform
// created, with its platform-assigned id.
func (c *Client) resolveByEmail(ctx context.Context, email string) (domain.Driver, error) {
	drivers, err := c.FetchAll(ctx)
	if err != nil {
		return domain.Driver{}, fmt.Errorf("resolve created driver: %w", err)
	}
	for _, d := range drivers {
		if strings.EqualFold(d.Email, email) {
			return d, nil
		}
	}
	return domain.Driver{}, fmt.Errorf("resolve created driver: %s not found in listing", email)
}

// drain empties and closes a response body so the connection is reusable.
func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
