package service

import (
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"cube_market/internal/domain/maintenance/model"
	"cube_market/internal/domain/maintenance/repository"
	notifModel "cube_market/internal/domain/notification/model"
	notifService "cube_market/internal/domain/notification/service"
	"cube_market/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockMaintenanceRepository is a mock of MaintenanceRepository
type MockMaintenanceRepository struct {
	mock.Mock
}

func (m *MockMaintenanceRepository) ExpiredActivationSweep(now time.Time) (*repository.ActivationSweepResult, error) {
	args := m.Called(now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ActivationSweepResult), args.Error(1)
}

func (m *MockMaintenanceRepository) CubeExpirySweep(now time.Time) (*repository.ExpirySweepResult, error) {
	args := m.Called(now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ExpirySweepResult), args.Error(1)
}

func (m *MockMaintenanceRepository) TruncateLogs() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockMaintenanceRepository) CreateLog(entry *model.DatasourceLog) error {
	args := m.Called(entry)
	return args.Error(0)
}

// MockUploader is a mock of Uploader
type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) UploadFile(file *multipart.FileHeader) (string, error) {
	args := m.Called(file)
	return args.String(0), args.Error(1)
}

func (m *MockUploader) UploadBytes(objectKey string, data []byte) (string, error) {
	args := m.Called(objectKey, data)
	return args.String(0), args.Error(1)
}

func (m *MockUploader) Delete(objectKey string) error {
	args := m.Called(objectKey)
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

func TestExpiredActivationSweep(t *testing.T) {
	t.Run("deletes cleared images after commit and notifies admins", func(t *testing.T) {
		repo := new(MockMaintenanceRepository)
		up := new(MockUploader)
		notifs := new(MockNotificationService)

		repo.On("ExpiredActivationSweep", mock.AnythingOfType("time.Time")).Return(&repository.ActivationSweepResult{
			CubesAffected: 2,
			TagsDeleted:   5,
			ImageKeys:     []string{"img/a.png", "img/b.png"},
		}, nil)
		up.On("Delete", "img/a.png").Return(nil)
		up.On("Delete", "img/b.png").Return(errors.New("oss unreachable"))
		notifs.On("FanOutAsync", mock.MatchedBy(func(in *notifService.FanOutInput) bool {
			return in.Audience == notifService.AudienceAdmin && in.Type == notifModel.TypeCubeExpired
		})).Return()

		service := NewMaintenanceService(repo, up, notifs)
		result, err := service.ExpiredActivationSweep()

		// 对象存储删除失败只记日志
		assert.NoError(t, err)
		assert.Equal(t, int64(2), result.CubesAffected)
		up.AssertExpectations(t)
		notifs.AssertExpectations(t)
	})

	t.Run("empty sweep stays silent", func(t *testing.T) {
		repo := new(MockMaintenanceRepository)
		up := new(MockUploader)
		notifs := new(MockNotificationService)

		repo.On("ExpiredActivationSweep", mock.AnythingOfType("time.Time")).Return(&repository.ActivationSweepResult{}, nil)

		service := NewMaintenanceService(repo, up, notifs)
		result, err := service.ExpiredActivationSweep()

		assert.NoError(t, err)
		assert.Equal(t, int64(0), result.CubesAffected)
		notifs.AssertNotCalled(t, "FanOutAsync", mock.Anything)
		up.AssertNotCalled(t, "Delete", mock.Anything)
	})

	t.Run("storage failure propagates", func(t *testing.T) {
		repo := new(MockMaintenanceRepository)
		repo.On("ExpiredActivationSweep", mock.AnythingOfType("time.Time")).Return(nil, gorm.ErrInvalidTransaction)

		service := NewMaintenanceService(repo, new(MockUploader), new(MockNotificationService))
		_, err := service.ExpiredActivationSweep()

		assert.Error(t, err)
	})
}

func TestCubeExpirySweep(t *testing.T) {
	t.Run("reports all three counters", func(t *testing.T) {
		repo := new(MockMaintenanceRepository)
		notifs := new(MockNotificationService)

		repo.On("CubeExpirySweep", mock.AnythingOfType("time.Time")).Return(&repository.ExpirySweepResult{
			CubesDeactivated: 1,
			AdsExpired:       3,
			GrabsDeleted:     7,
		}, nil)
		notifs.On("FanOutAsync", mock.Anything).Return()

		service := NewMaintenanceService(repo, new(MockUploader), notifs)
		result, err := service.CubeExpirySweep()

		assert.NoError(t, err)
		assert.Equal(t, int64(1), result.CubesDeactivated)
		assert.Equal(t, int64(3), result.AdsExpired)
		assert.Equal(t, int64(7), result.GrabsDeleted)
	})
}
