package service

import (
	"testing"

	"cube_market/internal/domain/notification/model"
	"cube_market/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockNotificationRepository is a mock of NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) BatchCreate(rows []model.Notification) error {
	args := m.Called(rows)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetByID(id string) (*model.Notification, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Notification), args.Error(1)
}

func (m *MockNotificationRepository) ListByUser(userID string, q *utils.ListQuery, unreadOnly bool) ([]model.Notification, int64, error) {
	args := m.Called(userID, q, unreadOnly)
	return args.Get(0).([]model.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepository) CountUnread(userID string) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(n *model.Notification) error {
	args := m.Called(n)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) VerifiedAdminIDs() ([]string, error) {
	args := m.Called()
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockNotificationRepository) VerifiedCorporateMemberIDs(corporateID string) ([]string, error) {
	args := m.Called(corporateID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockNotificationRepository) VerifiedUserIDs(ids []string) ([]string, error) {
	args := m.Called(ids)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockNotificationRepository) WorldOwnerCorporateID(worldID string) (string, error) {
	args := m.Called(worldID)
	return args.String(0), args.Error(1)
}

func TestFanOut(t *testing.T) {
	t.Run("admin audience creates one row per verified admin", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		repo.On("VerifiedAdminIDs").Return([]string{"admin-1", "admin-2"}, nil)
		repo.On("BatchCreate", mock.MatchedBy(func(rows []model.Notification) bool {
			return len(rows) == 2 && rows[0].UserID == "admin-1" && rows[1].UserID == "admin-2"
		})).Return(nil)

		service := NewNotificationService(repo)
		rows, err := service.FanOut(&FanOutInput{
			Audience: AudienceAdmin,
			Type:     model.TypeSystem,
			Message:  "maintenance tonight",
		})

		assert.NoError(t, err)
		assert.Len(t, rows, 2)
		repo.AssertExpectations(t)
	})

	t.Run("no verified admins yields empty recipient list, not an error", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		repo.On("VerifiedAdminIDs").Return([]string{}, nil)
		repo.On("BatchCreate", mock.Anything).Return(nil)

		service := NewNotificationService(repo)
		rows, err := service.FanOut(&FanOutInput{Audience: AudienceAdmin, Type: model.TypeSystem, Message: "m"})

		assert.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("corporate audience without corporate id is a precondition error", func(t *testing.T) {
		repo := new(MockNotificationRepository)

		service := NewNotificationService(repo)
		_, err := service.FanOut(&FanOutInput{Audience: AudienceCorporate, Type: model.TypeSystem, Message: "m"})

		assert.ErrorIs(t, err, ErrCorporateRequired)
		repo.AssertNotCalled(t, "BatchCreate", mock.Anything)
	})

	t.Run("world owner audience resolves through the owning corporate", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		repo.On("WorldOwnerCorporateID", "world-1").Return("corp-1", nil)
		repo.On("VerifiedCorporateMemberIDs", "corp-1").Return([]string{"member-1"}, nil)
		repo.On("BatchCreate", mock.Anything).Return(nil)

		service := NewNotificationService(repo)
		rows, err := service.FanOut(&FanOutInput{Audience: AudienceWorldOwner, WorldID: "world-1", Type: model.TypeSystem, Message: "m"})

		assert.NoError(t, err)
		assert.Len(t, rows, 1)
		assert.Equal(t, "member-1", rows[0].UserID)
	})

	t.Run("world owner audience without world id is a precondition error", func(t *testing.T) {
		repo := new(MockNotificationRepository)

		service := NewNotificationService(repo)
		_, err := service.FanOut(&FanOutInput{Audience: AudienceWorldOwner, Type: model.TypeSystem, Message: "m"})

		assert.ErrorIs(t, err, ErrWorldRequired)
	})

	t.Run("user audience keeps only verified subset", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		repo.On("VerifiedUserIDs", []string{"u1", "u2", "u3"}).Return([]string{"u1", "u3"}, nil)
		repo.On("BatchCreate", mock.Anything).Return(nil)

		service := NewNotificationService(repo)
		rows, err := service.FanOut(&FanOutInput{Audience: AudienceUser, UserIDs: []string{"u1", "u2", "u3"}, Type: model.TypeSystem, Message: "m"})

		assert.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("unknown audience rejected", func(t *testing.T) {
		service := NewNotificationService(new(MockNotificationRepository))
		_, err := service.FanOut(&FanOutInput{Audience: "EVERYONE", Type: model.TypeSystem, Message: "m"})
		assert.ErrorIs(t, err, ErrUnknownAudience)
	})
}

func TestMarkRead(t *testing.T) {
	t.Run("recipient marks own notification", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		n := &model.Notification{UserID: "u1", Type: model.TypeSystem, Message: "m"}
		n.ID = "n1"
		repo.On("GetByID", "n1").Return(n, nil)
		repo.On("MarkRead", n).Run(func(args mock.Arguments) {
			args.Get(0).(*model.Notification).IsRead = true
		}).Return(nil)

		service := NewNotificationService(repo)
		got, err := service.MarkRead("u1", "n1")

		assert.NoError(t, err)
		assert.True(t, got.IsRead)
	})

	t.Run("foreign notification rejected", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		n := &model.Notification{UserID: "u1", Type: model.TypeSystem, Message: "m"}
		n.ID = "n1"
		repo.On("GetByID", "n1").Return(n, nil)

		service := NewNotificationService(repo)
		_, err := service.MarkRead("u2", "n1")

		assert.ErrorIs(t, err, ErrNotRecipient)
		repo.AssertNotCalled(t, "MarkRead", mock.Anything)
	})

	t.Run("missing notification propagates not found", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		repo.On("GetByID", "n1").Return(nil, gorm.ErrRecordNotFound)

		service := NewNotificationService(repo)
		_, err := service.MarkRead("u1", "n1")

		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}
