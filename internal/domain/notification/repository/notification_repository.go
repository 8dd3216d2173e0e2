package repository

import (
	"time"

	corporateModel "cube_market/internal/domain/corporate/model"
	"cube_market/internal/domain/notification/model"
	userModel "cube_market/internal/domain/user/model"
	"cube_market/pkg/utils"

	"gorm.io/gorm"
)

// NotificationRepository 通知数据访问层
// 扇出的接收人解析也放这里：都是对 users / world_members 表的只读查询
type NotificationRepository interface {
	BatchCreate(rows []model.Notification) error
	GetByID(id string) (*model.Notification, error)
	ListByUser(userID string, q *utils.ListQuery, unreadOnly bool) ([]model.Notification, int64, error)
	CountUnread(userID string) (int64, error)
	MarkRead(n *model.Notification) error
	MarkAllRead(userID string) error

	VerifiedAdminIDs() ([]string, error)
	VerifiedCorporateMemberIDs(corporateID string) ([]string, error)
	VerifiedUserIDs(ids []string) ([]string, error)
	WorldOwnerCorporateID(worldID string) (string, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) BatchCreate(rows []model.Notification) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.CreateInBatches(rows, 100).Error
}

func (r *notificationRepository) GetByID(id string) (*model.Notification, error) {
	var n model.Notification
	if err := r.db.Where("id = ?", id).First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

var notificationQuery = &utils.QueryBuilder{
	FilterColumns: map[string]bool{"type": true, "is_read": true},
	SortColumns:   map[string]bool{"created_at": true},
	DefaultSort:   "created_at DESC",
}

func (r *notificationRepository) ListByUser(userID string, q *utils.ListQuery, unreadOnly bool) ([]model.Notification, int64, error) {
	scope := func() *gorm.DB {
		db := r.db.Model(&model.Notification{}).Where("user_id = ?", userID)
		if unreadOnly {
			db = db.Where("is_read = false")
		}
		return db
	}

	var total int64
	if err := notificationQuery.Conditions(scope(), q, nil).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.Notification
	if err := notificationQuery.Apply(scope(), q, nil).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *notificationRepository) CountUnread(userID string) (int64, error) {
	var total int64
	err := r.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Count(&total).Error
	return total, err
}

func (r *notificationRepository) MarkRead(n *model.Notification) error {
	now := time.Now()
	n.IsRead = true
	n.ReadAt = &now
	return r.db.Model(n).Updates(map[string]interface{}{
		"is_read": true,
		"read_at": now,
	}).Error
}

func (r *notificationRepository) MarkAllRead(userID string) error {
	return r.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": time.Now()}).Error
}

func (r *notificationRepository) VerifiedAdminIDs() ([]string, error) {
	var ids []string
	err := r.db.Model(&userModel.User{}).
		Where("role = ? AND is_verified = true", userModel.RoleAdmin).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *notificationRepository) VerifiedCorporateMemberIDs(corporateID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&userModel.User{}).
		Where("corporate_id = ? AND is_verified = true", corporateID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *notificationRepository) VerifiedUserIDs(ids []string) ([]string, error) {
	var got []string
	err := r.db.Model(&userModel.User{}).
		Where("id IN ? AND is_verified = true", ids).
		Pluck("id", &got).Error
	return got, err
}

func (r *notificationRepository) WorldOwnerCorporateID(worldID string) (string, error) {
	var world corporateModel.World
	if err := r.db.Select("corporate_id").Where("id = ?", worldID).First(&world).Error; err != nil {
		return "", err
	}
	return world.CorporateID, nil
}
