package model

import (
	baseModel "cube_market/pkg/model"
)

// 企业状态
const (
	CorporateActive   = "active"
	CorporateInactive = "inactive"
)

// Corporate 企业租户
type Corporate struct {
	baseModel.BaseModel
	Name    string `gorm:"type:varchar(150);not null" json:"name"`
	Email   string `gorm:"type:varchar(255)" json:"email"`
	Phone   string `gorm:"type:varchar(32)" json:"phone"`
	Address string `json:"address"`
	LogoURL string `json:"logoUrl"`
	Status  string `gorm:"type:varchar(20);default:'active';index" json:"status"`
}

// World 世界：企业拥有的社群空间，下挂魔方和成员
type World struct {
	baseModel.BaseModel
	CorporateID string `gorm:"type:uuid;not null;index" json:"corporateId"`
	Name        string `gorm:"type:varchar(150);not null" json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

// WorldMember 世界成员关系
type WorldMember struct {
	baseModel.BaseModel
	WorldID string `gorm:"type:uuid;not null;index:idx_world_member,unique" json:"worldId"`
	UserID  string `gorm:"type:uuid;not null;index:idx_world_member,unique" json:"userId"`
}

// Community 社区：世界下的用户分组
type Community struct {
	baseModel.BaseModel
	WorldID     string `gorm:"type:uuid;not null;index" json:"worldId"`
	Name        string `gorm:"type:varchar(150);not null" json:"name"`
	Description string `json:"description"`
}
