// Package httpserver exposes the directory service to the admin console
// over HTTP.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"tawssil-directory/internal/core/directory"
	"tawssil-directory/internal/core/domain"
)

// Directory is the slice of the directory service this layer consumes.
type Directory interface {
	PendingQueue() []domain.Driver
	Query(spec directory.Spec, at time.Time) ([]domain.Driver, error)
	CreateDriver(ctx context.Context, d domain.Driver) (*domain.Driver, error)
	ApplyApproval(ctx context.Context, id string) (*domain.Driver, error)
	ApplyRejection(ctx context.Context, id, reason string) (*domain.Driver, error)
	ApplyReview(ctx context.Context, id string, target domain.VerificationStatus, reason string) (*domain.Driver, error)
	Refresh(ctx context.Context) error
}

// DriverHandler serves the driver directory endpoints.
type DriverHandler struct {
	log zerolog.Logger
	dir Directory
	now func() time.Time
}

// NewDriverHandler creates the handler set over a directory.
func NewDriverHandler(dir Directory, baseLogger *zerolog.Logger) *DriverHandler {
	return &DriverHandler{
		log: baseLogger.With().Str("component", "driver_handler").Logger(),
		dir: dir,
		now: time.Now,
	}
}

// ListDrivers serves the "all drivers" view: approved roster by default,
// narrowed by the query parameters. include_unapproved=true widens it to
// every verification state.
func (h *DriverHandler) ListDrivers(c *gin.Context) {
	spec := directory.Spec{
		Kind:               domain.DriverKind(allToEmpty(c.Query("kind"))),
		OnlyApprovedRoster: c.Query("include_unapproved") != "true",
		Availability:       directory.AvailabilityFilter(allToEmpty(c.Query("availability"))),
		VehicleType:        domain.VehicleType(allToEmpty(c.Query("vehicle"))),
		Membership:         directory.MembershipFilter(allToEmpty(c.Query("membership"))),
		SearchText:         c.Query("q"),
		SearchField:        directory.SearchField(allToEmpty(c.Query("field"))),
	}

	at := h.now()
	drivers, err := h.dir.Query(spec, at)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(drivers),
		"drivers": toDriverListJSON(drivers, at),
	})
}

// PendingDrivers serves the "new requests" queue.
func (h *DriverHandler) PendingDrivers(c *gin.Context) {
	at := h.now()
	drivers := h.dir.PendingQueue()
	c.JSON(http.StatusOK, gin.H{
		"count":   len(drivers),
		"drivers": toDriverListJSON(drivers, at),
	})
}

// CreateDriver registers a new driver from the admin form.
func (h *DriverHandler) CreateDriver(c *gin.Context) {
	var req createDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	created, err := h.dir.CreateDriver(c.Request.Context(), req.toDomain())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"driver": toDriverJSON(*created, h.now())})
}

// UpdateVerification applies an administrator decision to one driver. The
// body carries a canonical status and, for rejections, a reason.
func (h *DriverHandler) UpdateVerification(c *gin.Context) {
	var req verificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	target, ok := domain.ParseVerificationStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown verification status " + req.Status})
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")

	var (
		updated *domain.Driver
		err     error
	)
	switch target {
	case domain.VerificationApproved:
		updated, err = h.dir.ApplyApproval(ctx, id)
	case domain.VerificationRejected:
		updated, err = h.dir.ApplyRejection(ctx, id, req.Reason)
	default:
		updated, err = h.dir.ApplyReview(ctx, id, target, req.Reason)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"driver": toDriverJSON(*updated, h.now())})
}

// RefreshRoster re-fetches the full roster from the platform.
func (h *DriverHandler) RefreshRoster(c *gin.Context) {
	if err := h.dir.Refresh(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError maps the engine's typed errors to HTTP statuses. Anything
// else is a collaborator failure.
func (h *DriverHandler) respondError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
		return
	}
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
		return
	}
	h.log.Error().Err(err).Str("path", c.FullPath()).Msg("Driver operation failed")
	c.JSON(http.StatusBadGateway, gin.H{"error": "platform persistence failed"})
}

// allToEmpty normalizes the dashboard's explicit "all" selections to the
// spec's zero value.
func allToEmpty(v string) string {
	if v == "all" {
		return ""
	}
	return v
}
