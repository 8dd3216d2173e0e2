package repository

import (
	"cube_market/internal/domain/view/model"

	"gorm.io/gorm"
)

// ViewRepository 浏览事件仓库
type ViewRepository interface {
	Exists(subjectType, subjectID string, userID *string, sessionID, date string) (bool, error)
	Insert(subjectType, subjectID string, userID *string, sessionID, date string) error

	// CountViewers 终身去重访客数 = 去重登录用户 + 去重游客身份
	CountViewers(subjectType, subjectID string) (int64, error)
	// BatchCountViewers 批量版本，返回覆盖全部入参 id 的映射（无浏览的为 0）
	BatchCountViewers(subjectType string, subjectIDs []string) (map[string]int64, error)
}

type viewRepository struct {
	db *gorm.DB
}

func NewViewRepository(db *gorm.DB) ViewRepository {
	return &viewRepository{db: db}
}

// subjectColumn 两张表结构一致，只有外键列名不同
func subjectTable(subjectType string) (table, column string) {
	if subjectType == model.SubjectAd {
		return "ad_views", "ad_id"
	}
	return "cube_views", "cube_id"
}

func (r *viewRepository) query(subjectType string) *gorm.DB {
	if subjectType == model.SubjectAd {
		return r.db.Model(&model.AdView{})
	}
	return r.db.Model(&model.CubeView{})
}

func (r *viewRepository) Exists(subjectType, subjectID string, userID *string, sessionID, date string) (bool, error) {
	_, col := subjectTable(subjectType)

	q := r.query(subjectType).Where(col+" = ? AND view_date = ?", subjectID, date)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	} else {
		q = q.Where("user_id IS NULL AND session_id = ?", sessionID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *viewRepository) Insert(subjectType, subjectID string, userID *string, sessionID, date string) error {
	if subjectType == model.SubjectAd {
		return r.db.Create(&model.AdView{
			AdID: subjectID, UserID: userID, SessionID: sessionID, ViewDate: date,
		}).Error
	}
	return r.db.Create(&model.CubeView{
		CubeID: subjectID, UserID: userID, SessionID: sessionID, ViewDate: date,
	}).Error
}

func (r *viewRepository) CountViewers(subjectType, subjectID string) (int64, error) {
	_, col := subjectTable(subjectType)

	var authed int64
	if err := r.query(subjectType).
		Where(col+" = ? AND user_id IS NOT NULL", subjectID).
		Distinct("user_id").Count(&authed).Error; err != nil {
		return 0, err
	}

	var guests int64
	if err := r.query(subjectType).
		Where(col+" = ? AND user_id IS NULL", subjectID).
		Distinct("session_id").Count(&guests).Error; err != nil {
		return 0, err
	}

	return authed + guests, nil
}

type countRow struct {
	SubjectID string `gorm:"column:subject_id"`
	Cnt       int64  `gorm:"column:cnt"`
}

func (r *viewRepository) BatchCountViewers(subjectType string, subjectIDs []string) (map[string]int64, error) {
	result := make(map[string]int64, len(subjectIDs))
	for _, id := range subjectIDs {
		result[id] = 0
	}
	if len(subjectIDs) == 0 {
		return result, nil
	}

	table, col := subjectTable(subjectType)

	// 两条分组聚合：登录用户按 user_id 去重，游客按 session_id 去重，内存合并
	var authed []countRow
	if err := r.db.Table(table).
		Select(col+" AS subject_id, COUNT(DISTINCT user_id) AS cnt").
		Where(col+" IN ? AND user_id IS NOT NULL AND deleted_at IS NULL", subjectIDs).
		Group(col).
		Scan(&authed).Error; err != nil {
		return nil, err
	}

	var guests []countRow
	if err := r.db.Table(table).
		Select(col+" AS subject_id, COUNT(DISTINCT session_id) AS cnt").
		Where(col+" IN ? AND user_id IS NULL AND deleted_at IS NULL", subjectIDs).
		Group(col).
		Scan(&guests).Error; err != nil {
		return nil, err
	}

	for _, row := range authed {
		result[row.SubjectID] += row.Cnt
	}
	for _, row := range guests {
		result[row.SubjectID] += row.Cnt
	}
	return result, nil
}
