package repository

import (
	"cube_market/internal/domain/ad/model"
	"cube_market/pkg/utils"

	"gorm.io/gorm"
)

// AdRepository 广告仓库
type AdRepository interface {
	Create(ad *model.Ad) error
	GetByID(id string) (*model.Ad, error)
	List(q *utils.ListQuery, filters map[string]interface{}) ([]model.Ad, int64, error)
	Update(ad *model.Ad) error
	Delete(ad *model.Ad) error
}

type adRepository struct {
	db *gorm.DB
	qb *utils.QueryBuilder
}

func NewAdRepository(db *gorm.DB) AdRepository {
	return &adRepository{
		db: db,
		qb: &utils.QueryBuilder{
			SearchFields:  []string{"title", "description"},
			FilterColumns: map[string]bool{"status": true, "type": true, "cube_id": true, "is_daily_grab": true},
			SortColumns:   map[string]bool{"created_at": true, "title": true, "max_grab": true},
			DefaultSort:   "created_at DESC",
		},
	}
}

func (r *adRepository) Create(ad *model.Ad) error {
	return r.db.Create(ad).Error
}

func (r *adRepository) GetByID(id string) (*model.Ad, error) {
	var ad model.Ad
	if err := r.db.First(&ad, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ad, nil
}

func (r *adRepository) List(q *utils.ListQuery, filters map[string]interface{}) ([]model.Ad, int64, error) {
	var ads []model.Ad
	var total int64

	if err := r.qb.Conditions(r.db.Model(&model.Ad{}), q, filters).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := r.qb.Apply(r.db.Model(&model.Ad{}), q, filters).Find(&ads).Error; err != nil {
		return nil, 0, err
	}
	return ads, total, nil
}

func (r *adRepository) Update(ad *model.Ad) error {
	return r.db.Save(ad).Error
}

func (r *adRepository) Delete(ad *model.Ad) error {
	return r.db.Delete(ad).Error
}
