package service

import (
	"testing"

	"cube_market/internal/domain/chat/model"
	cubeModel "cube_market/internal/domain/cube/model"
	"cube_market/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockChatRepository is a mock of ChatRepository
type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) GetRoom(cubeID, hunterID string) (*model.ChatRoom, error) {
	args := m.Called(cubeID, hunterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChatRoom), args.Error(1)
}

func (m *MockChatRepository) GetRoomByID(id string) (*model.ChatRoom, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChatRoom), args.Error(1)
}

func (m *MockChatRepository) CreateRoom(room *model.ChatRoom) error {
	args := m.Called(room)
	return args.Error(0)
}

func (m *MockChatRepository) ListRoomsByUser(userID string, q *utils.ListQuery) ([]model.ChatRoom, int64, error) {
	args := m.Called(userID, q)
	return args.Get(0).([]model.ChatRoom), args.Get(1).(int64), args.Error(2)
}

func (m *MockChatRepository) CreateMessage(msg *model.ChatMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockChatRepository) ListMessages(roomID string, q *utils.ListQuery) ([]model.ChatMessage, int64, error) {
	args := m.Called(roomID, q)
	return args.Get(0).([]model.ChatMessage), args.Get(1).(int64), args.Error(2)
}

func (m *MockChatRepository) CountUnread(roomID, readerID string) (int64, error) {
	args := m.Called(roomID, readerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChatRepository) MarkMessagesRead(roomID, readerID string) error {
	args := m.Called(roomID, readerID)
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

func testRoom() *model.ChatRoom {
	room := &model.ChatRoom{CubeID: "cube-1", MerchantID: "merchant-1", HunterID: "hunter-1"}
	room.ID = "room-1"
	return room
}

func TestOpenRoom(t *testing.T) {
	t.Run("existing room reused", func(t *testing.T) {
		chats := new(MockChatRepository)
		cubes := new(MockCubeRepository)

		chats.On("GetRoom", "cube-1", "hunter-1").Return(testRoom(), nil)

		service := NewChatService(chats, cubes)
		room, err := service.OpenRoom("cube-1", "hunter-1")

		assert.NoError(t, err)
		assert.Equal(t, "room-1", room.ID)
		chats.AssertNotCalled(t, "CreateRoom", mock.Anything)
	})

	t.Run("new room pairs hunter with cube owner", func(t *testing.T) {
		chats := new(MockChatRepository)
		cubes := new(MockCubeRepository)

		owner := "merchant-1"
		cube := &cubeModel.Cube{Code: "CB-01", OwnerUserID: &owner}
		cube.ID = "cube-1"

		chats.On("GetRoom", "cube-1", "hunter-1").Return(nil, gorm.ErrRecordNotFound)
		cubes.On("GetByID", "cube-1").Return(cube, nil)
		chats.On("CreateRoom", mock.MatchedBy(func(r *model.ChatRoom) bool {
			return r.MerchantID == "merchant-1" && r.HunterID == "hunter-1"
		})).Return(nil)

		service := NewChatService(chats, cubes)
		room, err := service.OpenRoom("cube-1", "hunter-1")

		assert.NoError(t, err)
		assert.Equal(t, "merchant-1", room.MerchantID)
		chats.AssertExpectations(t)
	})

	t.Run("ownerless cube rejected", func(t *testing.T) {
		chats := new(MockChatRepository)
		cubes := new(MockCubeRepository)

		cube := &cubeModel.Cube{Code: "CB-01"}
		cube.ID = "cube-1"

		chats.On("GetRoom", "cube-1", "hunter-1").Return(nil, gorm.ErrRecordNotFound)
		cubes.On("GetByID", "cube-1").Return(cube, nil)

		service := NewChatService(chats, cubes)
		_, err := service.OpenRoom("cube-1", "hunter-1")

		assert.ErrorIs(t, err, ErrNoMerchant)
	})
}

func TestSendMessage(t *testing.T) {
	t.Run("participant sends", func(t *testing.T) {
		chats := new(MockChatRepository)

		chats.On("GetRoomByID", "room-1").Return(testRoom(), nil)
		chats.On("CreateMessage", mock.MatchedBy(func(m *model.ChatMessage) bool {
			return m.RoomID == "room-1" && m.SenderID == "hunter-1" && m.Content == "hi"
		})).Return(nil)

		service := NewChatService(chats, new(MockCubeRepository))
		msg, err := service.SendMessage("room-1", "hunter-1", "hi")

		assert.NoError(t, err)
		assert.Equal(t, "hi", msg.Content)
	})

	t.Run("outsider rejected", func(t *testing.T) {
		chats := new(MockChatRepository)
		chats.On("GetRoomByID", "room-1").Return(testRoom(), nil)

		service := NewChatService(chats, new(MockCubeRepository))
		_, err := service.SendMessage("room-1", "stranger", "hi")

		assert.ErrorIs(t, err, ErrNotParticipant)
		chats.AssertNotCalled(t, "CreateMessage", mock.Anything)
	})
}

func TestListMessages(t *testing.T) {
	t.Run("reading marks counterpart messages read", func(t *testing.T) {
		chats := new(MockChatRepository)
		q := &utils.ListQuery{}

		chats.On("GetRoomByID", "room-1").Return(testRoom(), nil)
		chats.On("ListMessages", "room-1", q).Return([]model.ChatMessage{{RoomID: "room-1"}}, int64(1), nil)
		chats.On("MarkMessagesRead", "room-1", "merchant-1").Return(nil)

		service := NewChatService(chats, new(MockCubeRepository))
		msgs, total, err := service.ListMessages("room-1", "merchant-1", q)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, msgs, 1)
		chats.AssertExpectations(t)
	})
}
