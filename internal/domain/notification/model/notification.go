package model

import (
	"time"

	baseModel "cube_market/pkg/model"
)

// 通知类型标签
const (
	TypeGrabCreated   = "grab_created"
	TypeGrabValidated = "grab_validated"
	TypeCubeExpired   = "cube_expired"
	TypeSystem        = "system"
)

// Notification 站内通知，扇出后每个接收人一行
type Notification struct {
	baseModel.BaseModel
	UserID  string  `gorm:"type:uuid;not null;index" json:"userId"`
	Type    string  `gorm:"type:varchar(50);not null" json:"type"`
	Message string  `gorm:"type:text;not null" json:"message"`
	CubeID  *string `gorm:"type:uuid" json:"cubeId,omitempty"`
	AdID    *string `gorm:"type:uuid" json:"adId,omitempty"`
	GrabID  *string `gorm:"type:uuid" json:"grabId,omitempty"`
	IsRead  bool    `gorm:"default:false;index" json:"isRead"`

	ReadAt *time.Time `json:"readAt,omitempty"`
}
