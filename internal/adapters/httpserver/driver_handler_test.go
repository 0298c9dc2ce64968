package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tawssil-directory/internal/core/directory"
	"tawssil-directory/internal/core/domain"
)

// MockDirectory is a testify mock for the Directory interface.
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) PendingQueue() []domain.Driver {
	args := m.Called()
	return args.Get(0).([]domain.Driver)
}

func (m *MockDirectory) Query(spec directory.Spec, at time.Time) ([]domain.Driver, error) {
	args := m.Called(spec, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Driver), args.Error(1)
}

func (m *MockDirectory) CreateDriver(ctx context.Context, d domain.Driver) (*domain.Driver, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Driver), args.Error(1)
}

func (m *MockDirectory) ApplyApproval(ctx context.Context, id string) (*domain.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Driver), args.Error(1)
}

func (m *MockDirectory) ApplyRejection(ctx context.Context, id, reason string) (*domain.Driver, error) {
	args := m.Called(ctx, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Driver), args.Error(1)
}

func (m *MockDirectory) ApplyReview(ctx context.Context, id string, target domain.VerificationStatus, reason string) (*domain.Driver, error) {
	args := m.Called(ctx, id, target, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Driver), args.Error(1)
}

func (m *MockDirectory) Refresh(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

var handlerTime = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func newTestRouter(dir Directory) *gin.Engine {
	gin.SetMode(gin.TestMode)
	nopLogger := zerolog.Nop()
	h := NewDriverHandler(dir, &nopLogger)
	h.now = func() time.Time { return handlerTime }

	r := gin.New()
	SetupRouter(r, h)
	return r
}

func perform(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListDrivers_TranslatesQueryParams(t *testing.T) {
	mockDir := new(MockDirectory)
	wantSpec := directory.Spec{
		Kind:               domain.KindCourier,
		OnlyApprovedRoster: true,
		Availability:       directory.AvailabilityAvailable,
		VehicleType:        domain.VehicleMotorcycle,
		SearchText:         "agdal",
		SearchField:        directory.SearchZones,
	}
	mockDir.On("Query", wantSpec, handlerTime).Return([]domain.Driver{
		{ID: "7", FullName: "Amine Bouzid", Kind: domain.KindCourier, VerificationStatus: domain.VerificationApproved, RawSchedule: "08:00-12:00"},
	}, nil)

	r := newTestRouter(mockDir)
	w := perform(r, http.MethodGet, "/api/v1/drivers?kind=courier&availability=available&vehicle=motorcycle&q=agdal&field=zones", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count   int          `json:"count"`
		Drivers []driverJSON `json:"drivers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Drivers, 1)
	assert.Equal(t, "Amine Bouzid", resp.Drivers[0].FullName)
	assert.True(t, resp.Drivers[0].Available)
	assert.Equal(t, "member", resp.Drivers[0].Membership)
	mockDir.AssertExpectations(t)
}

func TestListDrivers_AllSelectionsAndIncludeUnapproved(t *testing.T) {
	mockDir := new(MockDirectory)
	mockDir.On("Query", directory.Spec{OnlyApprovedRoster: false}, handlerTime).
		Return([]domain.Driver{}, nil)

	r := newTestRouter(mockDir)
	w := perform(r, http.MethodGet, "/api/v1/drivers?kind=all&availability=all&include_unapproved=true", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	mockDir.AssertExpectations(t)
}

func TestListDrivers_UnknownFilterValue(t *testing.T) {
	mockDir := new(MockDirectory)
	mockDir.On("Query", mock.Anything, handlerTime).
		Return(nil, domain.NewValidationError("kind", "unknown driver kind pilot"))

	r := newTestRouter(mockDir)
	w := perform(r, http.MethodGet, "/api/v1/drivers?kind=pilot", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPendingDrivers(t *testing.T) {
	mockDir := new(MockDirectory)
	mockDir.On("PendingQueue").Return([]domain.Driver{
		{ID: "9", FullName: "Chaima Berrada", VerificationStatus: domain.VerificationPending},
	})

	r := newTestRouter(mockDir)
	w := perform(r, http.MethodGet, "/api/v1/drivers/pending", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Count   int          `json:"count"`
		Drivers []driverJSON `json:"drivers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "pending", resp.Drivers[0].VerificationStatus)
	assert.Equal(t, "nonmember", resp.Drivers[0].Membership)
}

func TestCreateDriver(t *testing.T) {
	mockDir := new(MockDirectory)
	created := &domain.Driver{ID: "new-id", FullName: "Karim Haddad", Kind: domain.KindChauffeur, VerificationStatus: domain.VerificationPending}
	mockDir.On("CreateDriver", mock.Anything, mock.MatchedBy(func(d domain.Driver) bool {
		return d.FullName == "Karim Haddad" && d.Kind == domain.KindChauffeur
	})).Return(created, nil)

	r := newTestRouter(mockDir)
	w := perform(r, http.MethodPost, "/api/v1/drivers", gin.H{
		"full_name": "Karim Haddad",
		"kind":      "chauffeur",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Driver driverJSON `json:"driver"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "new-id", resp.Driver.ID)
	mockDir.AssertExpectations(t)
}

func TestCreateDriver_ValidationFailure(t *testing.T) {
	mockDir := new(MockDirectory)
	mockDir.On("CreateDriver", mock.Anything, mock.Anything).
		Return(nil, domain.NewValidationError("email", "required"))

	r := newTestRouter(mockDir)
	w := perform(r, http.MethodPost, "/api/v1/drivers", gin.H{"full_name": "Karim Haddad"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateVerification_DispatchesByStatus(t *testing.T) {
	t.Run("approved", func(t *testing.T) {
		mockDir := new(MockDirectory)
		mockDir.On("ApplyApproval", mock.Anything, "7").
			Return(&domain.Driver{ID: "7", VerificationStatus: domain.VerificationApproved}, nil)

		r := newTestRouter(mockDir)
		w := perform(r, http.MethodPatch, "/api/v1/drivers/7/verification", gin.H{"status": "approved"})

		assert.Equal(t, http.StatusOK, w.Code)
		mockDir.AssertExpectations(t)
	})

	t.Run("rejected carries the reason", func(t *testing.T) {
		mockDir := new(MockDirectory)
		mockDir.On("ApplyRejection", mock.Anything, "7", "Documents incomplets").
			Return(&domain.Driver{ID: "7", VerificationStatus: domain.VerificationRejected, RejectionReason: "Documents incomplets"}, nil)

		r := newTestRouter(mockDir)
		w := perform(r, http.MethodPatch, "/api/v1/drivers/7/verification", gin.H{
			"status": "rejected",
			"reason": "Documents incomplets",
		})

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Driver driverJSON `json:"driver"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Documents incomplets", resp.Driver.RejectionReason)
		mockDir.AssertExpectations(t)
	})

	t.Run("pending goes through review", func(t *testing.T) {
		mockDir := new(MockDirectory)
		mockDir.On("ApplyReview", mock.Anything, "7", domain.VerificationPending, "").
			Return(&domain.Driver{ID: "7", VerificationStatus: domain.VerificationPending}, nil)

		r := newTestRouter(mockDir)
		w := perform(r, http.MethodPatch, "/api/v1/drivers/7/verification", gin.H{"status": "pending"})

		assert.Equal(t, http.StatusOK, w.Code)
		mockDir.AssertExpectations(t)
	})

	t.Run("unknown status", func(t *testing.T) {
		mockDir := new(MockDirectory)
		r := newTestRouter(mockDir)
		w := perform(r, http.MethodPatch, "/api/v1/drivers/7/verification", gin.H{"status": "maybe"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockDir.AssertNotCalled(t, "ApplyReview")
	})
}

func TestUpdateVerification_ErrorMapping(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		mockDir := new(MockDirectory)
		mockDir.On("ApplyApproval", mock.Anything, "missing").
			Return(nil, &domain.NotFoundError{ID: "missing"})

		r := newTestRouter(mockDir)
		w := perform(r, http.MethodPatch, "/api/v1/drivers/missing/verification", gin.H{"status": "approved"})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("empty rejection reason", func(t *testing.T) {
		mockDir := new(MockDirectory)
		mockDir.On("ApplyRejection", mock.Anything, "7", "").
			Return(nil, domain.NewValidationError("reason", "required for rejection"))

		r := newTestRouter(mockDir)
		w := perform(r, http.MethodPatch, "/api/v1/drivers/7/verification", gin.H{"status": "rejected"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		mockDir := new(MockDirectory)
		mockDir.On("ApplyApproval", mock.Anything, "7").
			Return(nil, errors.New("platform unreachable"))

		r := newTestRouter(mockDir)
		w := perform(r, http.MethodPatch, "/api/v1/drivers/7/verification", gin.H{"status": "approved"})

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestRefreshRoster(t *testing.T) {
	mockDir := new(MockDirectory)
	mockDir.On("Refresh", mock.Anything).Return(nil)

	r := newTestRouter(mockDir)
	w := perform(r, http.MethodPost, "/api/v1/drivers/refresh", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	mockDir.AssertExpectations(t)
}

func TestRefreshRoster_PlatformDown(t *testing.T) {
	mockDir := new(MockDirectory)
	mockDir.On("Refresh", mock.Anything).Return(errors.New("connection refused"))

	r := newTestRouter(mockDir)
	w := perform(r, http.MethodPost, "/api/v1/drivers/refresh", nil)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(new(MockDirectory))
	w := perform(r, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
