package model

import (
	baseModel "cube_market/pkg/model"
)

// AppConfig 应用级键值配置，前端开关、文案等
type AppConfig struct {
	baseModel.BaseModel
	Key         string `gorm:"type:varchar(100);unique;not null" json:"key"`
	Value       string `gorm:"type:text;not null" json:"value"`
	Description string `json:"description"`
}
