package service

import (
	"testing"
	"time"

	adModel "cube_market/internal/domain/ad/model"
	cubeModel "cube_market/internal/domain/cube/model"
	"cube_market/internal/domain/grab/model"
	"cube_market/internal/domain/grab/repository"
	notifModel "cube_market/internal/domain/notification/model"
	notifService "cube_market/internal/domain/notification/service"
	"cube_market/pkg/metrics"
	"cube_market/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockGrabRepository is a mock of GrabRepository
type MockGrabRepository struct {
	mock.Mock
}

func (m *MockGrabRepository) Claim(grab *model.Grab, date string, maxGrab int, daily bool) error {
	args := m.Called(grab, date, maxGrab, daily)
	return args.Error(0)
}

func (m *MockGrabRepository) CountUnvalidated(adID, userID string) (int64, error) {
	args := m.Called(adID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGrabRepository) DailyUsage(adID, date string) (int, error) {
	args := m.Called(adID, date)
	return args.Int(0), args.Error(1)
}

func (m *MockGrabRepository) LifetimeUsage(adID string) (int, error) {
	args := m.Called(adID)
	return args.Int(0), args.Error(1)
}

func (m *MockGrabRepository) GetByID(id string) (*model.Grab, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Grab), args.Error(1)
}

func (m *MockGrabRepository) Update(grab *model.Grab) error {
	args := m.Called(grab)
	return args.Error(0)
}

func (m *MockGrabRepository) List(q *utils.ListQuery, filters map[string]interface{}) ([]model.Grab, int64, error) {
	args := m.Called(q, filters)
	return args.Get(0).([]model.Grab), args.Get(1).(int64), args.Error(2)
}

func (m *MockGrabRepository) DeleteUnvalidatedByAdStatus(tx *gorm.DB, statuses []string) (int64, error) {
	args := m.Called(tx, statuses)
	return args.Get(0).(int64), args.Error(1)
}

// MockAdRepository is a mock of AdRepository
type MockAdRepository struct {
	mock.Mock
}

func (m *MockAdRepository) Create(ad *adModel.Ad) error {
	args := m.Called(ad)
	return args.Error(0)
}

func (m *MockAdRepository) GetByID(id string) (*adModel.Ad, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*adModel.Ad), args.Error(1)
}

func (m *MockAdRepository) List(q *utils.ListQuery, filters map[string]interface{}) ([]adModel.Ad, int64, error) {
	args := m.Called(q, filters)
	return args.Get(0).([]adModel.Ad), args.Get(1).(int64), args.Error(2)
}

func (m *MockAdRepository) Update(ad *adModel.Ad) error {
	args := m.Called(ad)
	return args.Error(0)
}

func (m *MockAdRepository) Delete(ad *adModel.Ad) error {
	args := m.Called(ad)
	return args.Error(0)
}

// MockCubeRepository is a mock of CubeRepository
type MockCubeRepository struct {
	mock.Mock
}

func (m *MockCubeRepository) Create(cube *cubeModel.Cube) error {
	args := m.Called(cube)
	return args.Error(0)
}

func (m *MockCubeRepository) GetByID(id string) (*cubeModel.Cube, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cubeModel.Cube), args.Error(1)
}

func (m *MockCubeRepository) List(q *utils.ListQuery, filters map[string]interface{}) ([]cubeModel.Cube, int64, error) {
	args := m.Called(q, filters)
	return args.Get(0).([]cubeModel.Cube), args.Get(1).(int64), args.Error(2)
}

func (m *MockCubeRepository) Update(cube *cubeModel.Cube) error {
	args := m.Called(cube)
	return args.Error(0)
}

func (m *MockCubeRepository) Delete(cube *cubeModel.Cube) error {
	args := m.Called(cube)
	return args.Error(0)
}

func (m *MockCubeRepository) ReplaceTags(cubeID string, names []string) error {
	args := m.Called(cubeID, names)
	return args.Error(0)
}

// MockNotificationService is a mock of NotificationService
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) FanOut(input *notifService.FanOutInput) ([]notifModel.Notification, error) {
	args := m.Called(input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notifModel.Notification), args.Error(1)
}

func (m *MockNotificationService) FanOutAsync(input *notifService.FanOutInput) {
	m.Called(input)
}

func (m *MockNotificationService) ListMine(userID string, q *utils.ListQuery, unreadOnly bool) ([]notifModel.Notification, int64, error) {
	args := m.Called(userID, q, unreadOnly)
	return args.Get(0).([]notifModel.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationService) CountUnread(userID string) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) MarkRead(userID, notificationID string) (*notifModel.Notification, error) {
	args := m.Called(userID, notificationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notifModel.Notification), args.Error(1)
}

func (m *MockNotificationService) MarkAllRead(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

var testCollector = metrics.NewCollector()

const (
	testAdID   = "11111111-1111-1111-1111-111111111111"
	testCubeID = "22222222-2222-2222-2222-222222222222"
	testUserID = "33333333-3333-3333-3333-333333333333"
	testCorpID = "44444444-4444-4444-4444-444444444444"
)

func newTestService(grabs *MockGrabRepository, ads *MockAdRepository, cubes *MockCubeRepository, notifs *MockNotificationService) GrabService {
	return NewGrabService(grabs, ads, cubes, notifs, testCollector)
}

func activeAd(daily bool, maxGrab int) *adModel.Ad {
	ad := &adModel.Ad{
		CubeID:      testCubeID,
		Title:       "Free coffee",
		Type:        adModel.AdVoucher,
		Status:      adModel.AdActive,
		MaxGrab:     maxGrab,
		IsDailyGrab: daily,
	}
	ad.ID = testAdID
	return ad
}

func corpCube() *cubeModel.Cube {
	corpID := testCorpID
	cube := &cubeModel.Cube{Code: "CB-001", Status: cubeModel.CubeActive, CorporateID: &corpID}
	cube.ID = testCubeID
	return cube
}

func TestClaim(t *testing.T) {
	t.Run("daily quota admits under limit and notifies corporate", func(t *testing.T) {
		grabs := new(MockGrabRepository)
		ads := new(MockAdRepository)
		cubes := new(MockCubeRepository)
		notifs := new(MockNotificationService)

		today := time.Now().Format("2006-01-02")

		ads.On("GetByID", testAdID).Return(activeAd(true, 5), nil)
		grabs.On("CountUnvalidated", testAdID, testUserID).Return(int64(0), nil)
		grabs.On("DailyUsage", testAdID, today).Return(3, nil)
		grabs.On("Claim", mock.AnythingOfType("*model.Grab"), today, 5, true).Return(nil)
		cubes.On("GetByID", testCubeID).Return(corpCube(), nil)
		notifs.On("FanOutAsync", mock.MatchedBy(func(in *notifService.FanOutInput) bool {
			return in.Audience == notifService.AudienceCorporate && in.CorporateID == testCorpID
		})).Return()

		service := newTestService(grabs, ads, cubes, notifs)
		grab, err := service.Claim(testAdID, testUserID)

		assert.NoError(t, err)
		assert.Equal(t, testAdID, grab.AdID)
		assert.Equal(t, testUserID, grab.UserID)
		assert.Nil(t, grab.ValidationAt)
		grabs.AssertExpectations(t)
		notifs.AssertExpectations(t)
	})

	t.Run("daily quota rejects at limit without writing", func(t *testing.T) {
		grabs := new(MockGrabRepository)
		ads := new(MockAdRepository)
		cubes := new(MockCubeRepository)
		notifs := new(MockNotificationService)

		today := time.Now().Format("2006-01-02")

		ads.On("GetByID", testAdID).Return(activeAd(true, 5), nil)
		grabs.On("CountUnvalidated", testAdID, testUserID).Return(int64(0), nil)
		grabs.On("DailyUsage", testAdID, today).Return(5, nil)

		service := newTestService(grabs, ads, cubes, notifs)
		_, err := service.Claim(testAdID, testUserID)

		assert.ErrorIs(t, err, ErrQuotaExceeded)
		grabs.AssertNotCalled(t, "Claim", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		notifs.AssertNotCalled(t, "FanOutAsync", mock.Anything)
	})

	t.Run("lifetime quota sums all counter rows", func(t *testing.T) {
		grabs := new(MockGrabRepository)
		ads := new(MockAdRepository)
		cubes := new(MockCubeRepository)
		notifs := new(MockNotificationService)

		ads.On("GetByID", testAdID).Return(activeAd(false, 10), nil)
		grabs.On("CountUnvalidated", testAdID, testUserID).Return(int64(0), nil)
		grabs.On("LifetimeUsage", testAdID).Return(10, nil)

		service := newTestService(grabs, ads, cubes, notifs)
		_, err := service.Claim(testAdID, testUserID)

		assert.ErrorIs(t, err, ErrQuotaExceeded)
		grabs.AssertNotCalled(t, "DailyUsage", mock.Anything, mock.Anything)
	})

	t.Run("duplicate unvalidated grab rejected before quota check", func(t *testing.T) {
		grabs := new(MockGrabRepository)
		ads := new(MockAdRepository)
		cubes := new(MockCubeRepository)
		notifs := new(MockNotificationService)

		ads.On("GetByID", testAdID).Return(activeAd(true, 5), nil)
		grabs.On("CountUnvalidated", testAdID, testUserID).Return(int64(1), nil)

		service := newTestService(grabs, ads, cubes, notifs)
		_, err := service.Claim(testAdID, testUserID)

		assert.ErrorIs(t, err, ErrDuplicateGrab)
		grabs.AssertNotCalled(t, "DailyUsage", mock.Anything, mock.Anything)
		grabs.AssertNotCalled(t, "Claim", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("inactive ad rejected", func(t *testing.T) {
		grabs := new(MockGrabRepository)
		ads := new(MockAdRepository)
		cubes := new(MockCubeRepository)
		notifs := new(MockNotificationService)

		ad := activeAd(true, 5)
		ad.Status = adModel.AdExpired
		ads.On("GetByID", testAdID).Return(ad, nil)

		service := newTestService(grabs, ads, cubes, notifs)
		_, err := service.Claim(testAdID, testUserID)

		assert.ErrorIs(t, err, ErrAdNotActive)
	})

	t.Run("missing ad propagates not found", func(t *testing.T) {
		grabs := new(MockGrabRepository)
		ads := new(MockAdRepository)
		cubes := new(MockCubeRepository)
		notifs := new(MockNotificationService)

		ads.On("GetByID", testAdID).Return(nil, gorm.ErrRecordNotFound)

		service := newTestService(grabs, ads, cubes, notifs)
		_, err := service.Claim(testAdID, testUserID)

		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("claim losing the counter race maps to quota exceeded", func(t *testing.T) {
		grabs := new(MockGrabRepository)
		ads := new(MockAdRepository)
		cubes := new(MockCubeRepository)
		notifs := new(MockNotificationService)

		today := time.Now().Format("2006-01-02")

		ads.On("GetByID", testAdID).Return(activeAd(true, 5), nil)
		grabs.On("CountUnvalidated", testAdID, testUserID).Return(int64(0), nil)
		grabs.On("DailyUsage", testAdID, today).Return(4, nil)
		grabs.On("Claim", mock.AnythingOfType("*model.Grab"), today, 5, true).
			Return(repository.ErrQuotaExhausted)

		service := newTestService(grabs, ads, cubes, notifs)
		_, err := service.Claim(testAdID, testUserID)

		assert.ErrorIs(t, err, ErrQuotaExceeded)
		notifs.AssertNotCalled(t, "FanOutAsync", mock.Anything)
	})
}

func TestValidate(t *testing.T) {
	newGrab := func() *model.Grab {
		g := &model.Grab{AdID: testAdID, UserID: testUserID}
		g.ID = "55555555-5555-5555-5555-555555555555"
		return g
	}

	t.Run("owner corporate validates and notifies hunter", func(t *testing.T) {
		grabs := new(MockGrabRepository)
		ads := new(MockAdRepository)
		cubes := new(MockCubeRepository)
		notifs := new(MockNotificationService)

		grab := newGrab()
		grabs.On("GetByID", grab.ID).Return(grab, nil)
		ads.On("GetByID", testAdID).Return(activeAd(true, 5), nil)
		cubes.On("GetByID", testCubeID).Return(corpCube(), nil)
		grabs.On("Update", grab).Return(nil)
		notifs.On("FanOutAsync", mock.MatchedBy(func(in *notifService.FanOutInput) bool {
			return in.Audience == notifService.AudienceUser && len(in.UserIDs) == 1 && in.UserIDs[0] == testUserID
		})).Return()

		service := newTestService(grabs, ads, cubes, notifs)
		got, err := service.Validate(grab.ID, testCorpID)

		assert.NoError(t, err)
		assert.NotNil(t, got.ValidationAt)
		grabs.AssertExpectations(t)
		notifs.AssertExpectations(t)
	})

	t.Run("foreign corporate rejected", func(t *testing.T) {
		grabs := new(MockGrabRepository)
		ads := new(MockAdRepository)
		cubes := new(MockCubeRepository)
		notifs := new(MockNotificationService)

		grab := newGrab()
		grabs.On("GetByID", grab.ID).Return(grab, nil)
		ads.On("GetByID", testAdID).Return(activeAd(true, 5), nil)
		cubes.On("GetByID", testCubeID).Return(corpCube(), nil)

		service := newTestService(grabs, ads, cubes, notifs)
		_, err := service.Validate(grab.ID, "99999999-9999-9999-9999-999999999999")

		assert.ErrorIs(t, err, ErrNotOwner)
		grabs.AssertNotCalled(t, "Update", mock.Anything)
	})

	t.Run("second validation rejected", func(t *testing.T) {
		grabs := new(MockGrabRepository)
		ads := new(MockAdRepository)
		cubes := new(MockCubeRepository)
		notifs := new(MockNotificationService)

		grab := newGrab()
		now := time.Now()
		grab.ValidationAt = &now
		grabs.On("GetByID", grab.ID).Return(grab, nil)

		service := newTestService(grabs, ads, cubes, notifs)
		_, err := service.Validate(grab.ID, testCorpID)

		assert.ErrorIs(t, err, ErrAlreadyValidated)
	})

	t.Run("admin bypasses ownership", func(t *testing.T) {
		grabs := new(MockGrabRepository)
		ads := new(MockAdRepository)
		cubes := new(MockCubeRepository)
		notifs := new(MockNotificationService)

		grab := newGrab()
		grabs.On("GetByID", grab.ID).Return(grab, nil)
		grabs.On("Update", grab).Return(nil)
		notifs.On("FanOutAsync", mock.Anything).Return()

		service := newTestService(grabs, ads, cubes, notifs)
		got, err := service.Validate(grab.ID, "")

		assert.NoError(t, err)
		assert.NotNil(t, got.ValidationAt)
		ads.AssertNotCalled(t, "GetByID", mock.Anything)
	})
}
