package model

import (
	"time"

	baseModel "cube_market/pkg/model"
)

// Grab 用户对广告促销的领取记录
// validation_at 为空表示尚未核销
type Grab struct {
	baseModel.BaseModel
	AdID   string `gorm:"type:uuid;not null;index:idx_grab_ad_user" json:"adId"`
	UserID string `gorm:"type:uuid;not null;index:idx_grab_ad_user" json:"userId"`

	ValidationAt *time.Time `gorm:"index" json:"validationAt,omitempty"`
}

// SummaryGrab 每 (广告, 日期) 的领取计数器，配额准入依据
// total_grab 只通过带上限条件的 UPDATE 递增，不允许普通写
type SummaryGrab struct {
	baseModel.BaseModel
	AdID      string `gorm:"type:uuid;not null;uniqueIndex:idx_summary_ad_date" json:"adId"`
	GrabDate  string `gorm:"type:date;not null;uniqueIndex:idx_summary_ad_date" json:"grabDate"`
	TotalGrab int    `gorm:"not null;default:0" json:"totalGrab"`
}
