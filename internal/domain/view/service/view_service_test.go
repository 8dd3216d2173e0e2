package service

import (
	"testing"
	"time"

	viewModel "cube_market/internal/domain/view/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockViewRepository is a mock of ViewRepository
type MockViewRepository struct {
	mock.Mock
}

func (m *MockViewRepository) Exists(subjectType, subjectID string, userID *string, sessionID, date string) (bool, error) {
	args := m.Called(subjectType, subjectID, userID, sessionID, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockViewRepository) Insert(subjectType, subjectID string, userID *string, sessionID, date string) error {
	args := m.Called(subjectType, subjectID, userID, sessionID, date)
	return args.Error(0)
}

func (m *MockViewRepository) CountViewers(subjectType, subjectID string) (int64, error) {
	args := m.Called(subjectType, subjectID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockViewRepository) BatchCountViewers(subjectType string, subjectIDs []string) (map[string]int64, error) {
	args := m.Called(subjectType, subjectIDs)
	return args.Get(0).(map[string]int64), args.Error(1)
}

func TestResolveIdentity(t *testing.T) {
	t.Run("authenticated user wins", func(t *testing.T) {
		id := ResolveIdentity("user-1", "sess-1", "1.2.3.4", "UA")
		assert.NotNil(t, id.UserID)
		assert.Equal(t, "user-1", *id.UserID)
		assert.Empty(t, id.SessionID)
	})

	t.Run("caller session id next", func(t *testing.T) {
		id := ResolveIdentity("", "sess-1", "1.2.3.4", "UA")
		assert.Nil(t, id.UserID)
		assert.Equal(t, "sess-1", id.SessionID)
	})

	t.Run("guest identity derived from ip and user agent is deterministic", func(t *testing.T) {
		a := ResolveIdentity("", "", "1.2.3.4", "Mozilla")
		b := ResolveIdentity("", "", "1.2.3.4", "Mozilla")
		c := ResolveIdentity("", "", "1.2.3.5", "Mozilla")

		assert.Nil(t, a.UserID)
		assert.Len(t, a.SessionID, 40) // sha1 hex
		assert.Equal(t, a.SessionID, b.SessionID)
		assert.NotEqual(t, a.SessionID, c.SessionID)
	})
}

func TestTrack(t *testing.T) {
	today := time.Now().Format("2006-01-02")

	t.Run("first view of the day inserted", func(t *testing.T) {
		repo := new(MockViewRepository)
		uid := "user-1"
		repo.On("Exists", viewModel.SubjectCube, "cube-1", &uid, "", today).Return(false, nil)
		repo.On("Insert", viewModel.SubjectCube, "cube-1", &uid, "", today).Return(nil)

		service := NewViewService(repo, nil)
		tracked, err := service.Track(viewModel.SubjectCube, "cube-1", Identity{UserID: &uid})

		assert.NoError(t, err)
		assert.True(t, tracked)
		repo.AssertExpectations(t)
	})

	t.Run("same-day duplicate is already tracked, not an error", func(t *testing.T) {
		repo := new(MockViewRepository)
		uid := "user-1"
		repo.On("Exists", viewModel.SubjectAd, "ad-1", &uid, "", today).Return(true, nil)

		service := NewViewService(repo, nil)
		tracked, err := service.Track(viewModel.SubjectAd, "ad-1", Identity{UserID: &uid})

		assert.NoError(t, err)
		assert.False(t, tracked)
		repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("guest tracked by session id", func(t *testing.T) {
		repo := new(MockViewRepository)
		repo.On("Exists", viewModel.SubjectCube, "cube-1", (*string)(nil), "sess-1", today).Return(false, nil)
		repo.On("Insert", viewModel.SubjectCube, "cube-1", (*string)(nil), "sess-1", today).Return(nil)

		service := NewViewService(repo, nil)
		tracked, err := service.Track(viewModel.SubjectCube, "cube-1", Identity{SessionID: "sess-1"})

		assert.NoError(t, err)
		assert.True(t, tracked)
	})
}

func TestBatchCountViewers(t *testing.T) {
	t.Run("every requested id present in result", func(t *testing.T) {
		repo := new(MockViewRepository)
		ids := []string{"cube-1", "cube-2", "cube-3"}
		repo.On("BatchCountViewers", viewModel.SubjectCube, ids).Return(map[string]int64{
			"cube-1": 5,
			"cube-2": 0,
			"cube-3": 0,
		}, nil)

		service := NewViewService(repo, nil)
		counts, err := service.BatchCountViewers(viewModel.SubjectCube, ids)

		assert.NoError(t, err)
		assert.Len(t, counts, 3)
		assert.Equal(t, int64(5), counts["cube-1"])
		assert.Equal(t, int64(0), counts["cube-2"])
	})
}
