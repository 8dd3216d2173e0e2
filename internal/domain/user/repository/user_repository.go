package repository

import (
	"cube_market/internal/domain/user/model"
	"cube_market/pkg/utils"

	"gorm.io/gorm"
)

// UserRepository 接口定义
type UserRepository interface {
	Create(user *model.User) error
	GetByID(id string) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	List(q *utils.ListQuery, filters map[string]interface{}) ([]model.User, int64, error)
	Update(user *model.User) error
	Delete(user *model.User) error
}

// userRepository 实现
type userRepository struct {
	db *gorm.DB
	qb *utils.QueryBuilder
}

// NewUserRepository 创建新的仓库实例
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db: db,
		qb: &utils.QueryBuilder{
			SearchFields:  []string{"name", "email", "phone"},
			FilterColumns: map[string]bool{"role": true, "is_verified": true, "corporate_id": true},
			SortColumns:   map[string]bool{"created_at": true, "name": true, "email": true},
			DefaultSort:   "created_at DESC",
		},
	}
}

// Create 创建用户
func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

// GetByID 根据ID获取用户
func (r *userRepository) GetByID(id string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail 根据邮箱获取用户
func (r *userRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List 获取用户列表（搜索/过滤/排序/分页）
func (r *userRepository) List(q *utils.ListQuery, filters map[string]interface{}) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	base := r.qb.Conditions(r.db.Model(&model.User{}), q, filters)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.qb.Apply(r.db.Model(&model.User{}), q, filters).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Update 更新用户
func (r *userRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

// Delete 删除用户（软删除）
func (r *userRepository) Delete(user *model.User) error {
	return r.db.Delete(user).Error
}
