package repository

import (
	"cube_market/internal/domain/appconfig/model"
	"cube_market/pkg/utils"

	"gorm.io/gorm"
)

// AppConfigRepository 应用配置数据访问层
type AppConfigRepository interface {
	Create(cfg *model.AppConfig) error
	GetByKey(key string) (*model.AppConfig, error)
	List(q *utils.ListQuery) ([]model.AppConfig, int64, error)
	Update(cfg *model.AppConfig) error
	Delete(cfg *model.AppConfig) error
}

type appConfigRepository struct {
	db *gorm.DB
}

func NewAppConfigRepository(db *gorm.DB) AppConfigRepository {
	return &appConfigRepository{db: db}
}

func (r *appConfigRepository) Create(cfg *model.AppConfig) error {
	return r.db.Create(cfg).Error
}

func (r *appConfigRepository) GetByKey(key string) (*model.AppConfig, error) {
	var cfg model.AppConfig
	if err := r.db.Where("key = ?", key).First(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

var appConfigQuery = &utils.QueryBuilder{
	SearchFields: []string{"key", "description"},
	SortColumns:  map[string]bool{"key": true, "created_at": true},
	DefaultSort:  "key ASC",
}

func (r *appConfigRepository) List(q *utils.ListQuery) ([]model.AppConfig, int64, error) {
	var rows []model.AppConfig
	var total int64

	if err := appConfigQuery.Conditions(r.db.Model(&model.AppConfig{}), q, nil).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := appConfigQuery.Apply(r.db.Model(&model.AppConfig{}), q, nil).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *appConfigRepository) Update(cfg *model.AppConfig) error {
	return r.db.Save(cfg).Error
}

func (r *appConfigRepository) Delete(cfg *model.AppConfig) error {
	return r.db.Delete(cfg).Error
}
