package model

import (
	"time"

	baseModel "cube_market/pkg/model"
)

// 广告状态
const (
	AdActive   = "active"
	AdInactive = "inactive"
	AdExpired  = "expired"
)

// 广告类型
const (
	AdPromo   = "promo"
	AdVoucher = "voucher"
)

// Ad 广告：挂在魔方下的促销或代金券活动
// 有未核销记录时不物理删除，由清扫脚本先清领取记录
type Ad struct {
	baseModel.BaseModel
	CubeID      string `gorm:"type:uuid;not null;index" json:"cubeId"`
	Title       string `gorm:"type:varchar(200);not null" json:"title"`
	Description string `json:"description"`
	Type        string `gorm:"type:varchar(20);not null;default:'promo'" json:"type"`
	Status      string `gorm:"type:varchar(20);default:'active';index" json:"status"`
	ImageURL    string `json:"imageUrl"`

	// 配额：IsDailyGrab 为真按天重置，否则为终身上限
	MaxGrab     int  `gorm:"not null;default:0" json:"maxGrab"`
	IsDailyGrab bool `gorm:"default:false" json:"isDailyGrab"`

	StartAt  *time.Time `json:"startAt"`
	FinishAt *time.Time `json:"finishAt"`
}
