package model

import (
	"time"

	baseModel "cube_market/pkg/model"
)

// ChatRoom 商户与猎手围绕一个魔方的会话，(cube, hunter) 唯一
type ChatRoom struct {
	baseModel.BaseModel
	CubeID     string `gorm:"type:uuid;not null;uniqueIndex:idx_room_cube_hunter" json:"cubeId"`
	MerchantID string `gorm:"type:uuid;not null;index" json:"merchantId"`
	HunterID   string `gorm:"type:uuid;not null;uniqueIndex:idx_room_cube_hunter" json:"hunterId"`

	LastMessageAt *time.Time `gorm:"index" json:"lastMessageAt,omitempty"`
}

// ChatMessage 会话消息，追加写
type ChatMessage struct {
	baseModel.BaseModel
	RoomID   string `gorm:"type:uuid;not null;index" json:"roomId"`
	SenderID string `gorm:"type:uuid;not null" json:"senderId"`
	Content  string `gorm:"type:text;not null" json:"content"`
	IsRead   bool   `gorm:"default:false;index" json:"isRead"`
}
