package model

import (
	"time"

	baseModel "cube_market/pkg/model"
)

// 魔方状态
const (
	CubeActive   = "active"
	CubeInactive = "inactive"
)

// 魔方类型
const (
	CubePhysical = "physical"
	CubeVirtual  = "virtual"
)

// Cube 魔方：线上/线下促销点位，广告挂在魔方下
type Cube struct {
	baseModel.BaseModel
	Code        string  `gorm:"type:varchar(50);unique;not null" json:"code"`
	Type        string  `gorm:"type:varchar(20);not null;default:'physical'" json:"type"`
	Status      string  `gorm:"type:varchar(20);default:'active';index" json:"status"`
	Address     string  `json:"address"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	ImageURL    string  `json:"imageUrl"`
	ImageKey    string  `json:"-"` // 存储对象路径，过期清扫时用来删文件
	OwnerUserID *string `gorm:"type:uuid;index" json:"ownerUserId"`
	CorporateID *string `gorm:"type:uuid;index" json:"corporateId"`
	WorldID     *string `gorm:"type:uuid;index" json:"worldId"`

	// 生命周期：激活有效期过了由清扫脚本下线
	ExpiredActivateDate *time.Time `gorm:"index" json:"expiredActivateDate"`
	InactiveAt          *time.Time `gorm:"index" json:"inactiveAt"`

	Tags []CubeTag `json:"tags,omitempty"`
}

// CubeTag 魔方位置标签
type CubeTag struct {
	baseModel.BaseModel
	CubeID string `gorm:"type:uuid;not null;index" json:"cubeId"`
	Name   string `gorm:"type:varchar(100);not null" json:"name"`
}
