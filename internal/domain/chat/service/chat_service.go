package service

import (
	"errors"

	"cube_market/internal/domain/chat/model"
	"cube_market/internal/domain/chat/repository"
	cubeRepo "cube_market/internal/domain/cube/repository"
	"cube_market/pkg/utils"

	"gorm.io/gorm"
)

var (
	ErrNoMerchant     = errors.New("cube has no owner to chat with")
	ErrNotParticipant = errors.New("user is not a participant of this room")
)

// ChatService 聊天服务
type ChatService interface {
	// OpenRoom 按 (魔方, 猎手) 找房间，没有则建，幂等
	OpenRoom(cubeID, hunterID string) (*model.ChatRoom, error)

	ListRooms(userID string, q *utils.ListQuery) ([]model.ChatRoom, int64, error)
	SendMessage(roomID, senderID, content string) (*model.ChatMessage, error)
	ListMessages(roomID, readerID string, q *utils.ListQuery) ([]model.ChatMessage, int64, error)
	CountUnread(roomID, readerID string) (int64, error)
}

type chatService struct {
	repo  repository.ChatRepository
	cubes cubeRepo.CubeRepository
}

func NewChatService(repo repository.ChatRepository, cubes cubeRepo.CubeRepository) ChatService {
	return &chatService{repo: repo, cubes: cubes}
}

func (s *chatService) OpenRoom(cubeID, hunterID string) (*model.ChatRoom, error) {
	room, err := s.repo.GetRoom(cubeID, hunterID)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cube, err := s.cubes.GetByID(cubeID)
	if err != nil {
		return nil, err
	}
	if cube.OwnerUserID == nil {
		return nil, ErrNoMerchant
	}

	room = &model.ChatRoom{
		CubeID:     cubeID,
		MerchantID: *cube.OwnerUserID,
		HunterID:   hunterID,
	}
	if err := s.repo.CreateRoom(room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *chatService) ListRooms(userID string, q *utils.ListQuery) ([]model.ChatRoom, int64, error) {
	return s.repo.ListRoomsByUser(userID, q)
}

// participant 校验并返回房间，非参与者一律拒绝
func (s *chatService) participant(roomID, userID string) (*model.ChatRoom, error) {
	room, err := s.repo.GetRoomByID(roomID)
	if err != nil {
		return nil, err
	}
	if room.MerchantID != userID && room.HunterID != userID {
		return nil, ErrNotParticipant
	}
	return room, nil
}

func (s *chatService) SendMessage(roomID, senderID, content string) (*model.ChatMessage, error) {
	if _, err := s.participant(roomID, senderID); err != nil {
		return nil, err
	}

	msg := &model.ChatMessage{RoomID: roomID, SenderID: senderID, Content: content}
	if err := s.repo.CreateMessage(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListMessages 读消息顺带把对方发来的标为已读
func (s *chatService) ListMessages(roomID, readerID string, q *utils.ListQuery) ([]model.ChatMessage, int64, error) {
	if _, err := s.participant(roomID, readerID); err != nil {
		return nil, 0, err
	}

	msgs, total, err := s.repo.ListMessages(roomID, q)
	if err != nil {
		return nil, 0, err
	}
	if err := s.repo.MarkMessagesRead(roomID, readerID); err != nil {
		return nil, 0, err
	}
	return msgs, total, nil
}

func (s *chatService) CountUnread(roomID, readerID string) (int64, error) {
	if _, err := s.participant(roomID, readerID); err != nil {
		return 0, err
	}
	return s.repo.CountUnread(roomID, readerID)
}
