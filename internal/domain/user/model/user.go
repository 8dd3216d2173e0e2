package model

import (
	baseModel "cube_market/pkg/model"
)

// 用户角色
const (
	RoleAdmin     = 1
	RoleUser      = 2
	RoleCorporate = 3
)

// User 用户模型
type User struct {
	baseModel.BaseModel
	Name        string  `gorm:"type:varchar(100);not null" json:"name"`
	Email       string  `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password    string  `gorm:"not null" json:"-"` // bcrypt 哈希，不返回给前端
	Phone       string  `gorm:"type:varchar(32)" json:"phone"`
	AvatarURL   string  `json:"avatarUrl"`
	Role        int     `gorm:"default:2;index" json:"role"`
	IsVerified  bool    `gorm:"default:false;index" json:"isVerified"`
	CorporateID *string `gorm:"type:uuid;index" json:"corporateId"` // 所属企业，普通用户为空
}
