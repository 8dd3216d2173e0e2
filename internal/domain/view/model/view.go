package model

import (
	baseModel "cube_market/pkg/model"
)

// 浏览主体类型
const (
	SubjectCube = "cube"
	SubjectAd   = "ad"
)

// CubeView 魔方浏览事件，追加写
// 去重键 (cube_id, 身份, view_date) 由应用层存在性检查保证，一天一条
type CubeView struct {
	baseModel.BaseModel
	CubeID    string  `gorm:"type:uuid;not null;index:idx_cube_view_day" json:"cubeId"`
	UserID    *string `gorm:"type:uuid;index" json:"userId"`                          // 登录用户
	SessionID string  `gorm:"type:varchar(64);index" json:"sessionId"`                // 游客派生身份
	ViewDate  string  `gorm:"type:date;not null;index:idx_cube_view_day" json:"viewDate"`
}

// AdView 广告浏览事件
type AdView struct {
	baseModel.BaseModel
	AdID      string  `gorm:"type:uuid;not null;index:idx_ad_view_day" json:"adId"`
	UserID    *string `gorm:"type:uuid;index" json:"userId"`
	SessionID string  `gorm:"type:varchar(64);index" json:"sessionId"`
	ViewDate  string  `gorm:"type:date;not null;index:idx_ad_view_day" json:"viewDate"`
}
