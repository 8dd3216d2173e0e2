package repository

import (
	"time"

	"cube_market/internal/domain/chat/model"
	"cube_market/pkg/utils"

	"gorm.io/gorm"
)

// ChatRepository 聊天数据访问层
type ChatRepository interface {
	GetRoom(cubeID, hunterID string) (*model.ChatRoom, error)
	GetRoomByID(id string) (*model.ChatRoom, error)
	CreateRoom(room *model.ChatRoom) error
	ListRoomsByUser(userID string, q *utils.ListQuery) ([]model.ChatRoom, int64, error)

	// CreateMessage 写消息并推进房间的最后消息时间，同一事务
	CreateMessage(msg *model.ChatMessage) error
	ListMessages(roomID string, q *utils.ListQuery) ([]model.ChatMessage, int64, error)
	CountUnread(roomID, readerID string) (int64, error)
	MarkMessagesRead(roomID, readerID string) error
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) GetRoom(cubeID, hunterID string) (*model.ChatRoom, error) {
	var room model.ChatRoom
	if err := r.db.Where("cube_id = ? AND hunter_id = ?", cubeID, hunterID).First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *chatRepository) GetRoomByID(id string) (*model.ChatRoom, error) {
	var room model.ChatRoom
	if err := r.db.Where("id = ?", id).First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *chatRepository) CreateRoom(room *model.ChatRoom) error {
	return r.db.Create(room).Error
}

func (r *chatRepository) ListRoomsByUser(userID string, q *utils.ListQuery) ([]model.ChatRoom, int64, error) {
	var rooms []model.ChatRoom
	var total int64

	scope := func() *gorm.DB {
		return r.db.Model(&model.ChatRoom{}).
			Where("merchant_id = ? OR hunter_id = ?", userID, userID)
	}

	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset, limit := q.GetPageOffset()
	err := scope().
		Order("last_message_at DESC NULLS LAST").
		Offset(offset).Limit(limit).
		Find(&rooms).Error
	if err != nil {
		return nil, 0, err
	}
	return rooms, total, nil
}

func (r *chatRepository) CreateMessage(msg *model.ChatMessage) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&model.ChatRoom{}).
			Where("id = ?", msg.RoomID).
			UpdateColumn("last_message_at", time.Now()).Error
	})
}

func (r *chatRepository) ListMessages(roomID string, q *utils.ListQuery) ([]model.ChatMessage, int64, error) {
	var msgs []model.ChatMessage
	var total int64

	if err := r.db.Model(&model.ChatMessage{}).Where("room_id = ?", roomID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset, limit := q.GetPageOffset()
	err := r.db.Where("room_id = ?", roomID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, 0, err
	}
	return msgs, total, nil
}

func (r *chatRepository) CountUnread(roomID, readerID string) (int64, error) {
	var total int64
	err := r.db.Model(&model.ChatMessage{}).
		Where("room_id = ? AND sender_id <> ? AND is_read = false", roomID, readerID).
		Count(&total).Error
	return total, err
}

func (r *chatRepository) MarkMessagesRead(roomID, readerID string) error {
	return r.db.Model(&model.ChatMessage{}).
		Where("room_id = ? AND sender_id <> ? AND is_read = false", roomID, readerID).
		UpdateColumn("is_read", true).Error
}
