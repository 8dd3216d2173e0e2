package model

import (
	baseModel "cube_market/pkg/model"
)

// DatasourceLog 数据源审计日志，只追加，由清扫脚本定期清空
type DatasourceLog struct {
	baseModel.BaseModel
	Method    string  `gorm:"type:varchar(10);not null" json:"method"`
	Path      string  `gorm:"type:varchar(255);not null" json:"path"`
	UserID    *string `gorm:"type:uuid" json:"userId,omitempty"`
	Status    int     `json:"status"`
	LatencyMs int64   `json:"latencyMs"`
	ClientIP  string  `gorm:"type:varchar(45)" json:"clientIp"`
}
