package repository

import (
	"cube_market/internal/domain/corporate/model"
	"cube_market/pkg/utils"

	"gorm.io/gorm"
)

// CorporateRepository 企业/世界/社区仓库
type CorporateRepository interface {
	CreateCorporate(c *model.Corporate) error
	GetCorporate(id string) (*model.Corporate, error)
	ListCorporates(q *utils.ListQuery, filters map[string]interface{}) ([]model.Corporate, int64, error)
	UpdateCorporate(c *model.Corporate) error
	DeleteCorporate(c *model.Corporate) error

	CreateWorld(w *model.World) error
	GetWorld(id string) (*model.World, error)
	ListWorlds(q *utils.ListQuery, filters map[string]interface{}) ([]model.World, int64, error)
	UpdateWorld(w *model.World) error
	DeleteWorld(w *model.World) error

	AddWorldMember(m *model.WorldMember) error
	RemoveWorldMember(worldID, userID string) error
	IsWorldMember(worldID, userID string) (bool, error)

	CreateCommunity(c *model.Community) error
	GetCommunity(id string) (*model.Community, error)
	ListCommunities(q *utils.ListQuery, filters map[string]interface{}) ([]model.Community, int64, error)
	UpdateCommunity(c *model.Community) error
	DeleteCommunity(c *model.Community) error
}

type corporateRepository struct {
	db          *gorm.DB
	corporateQB *utils.QueryBuilder
	worldQB     *utils.QueryBuilder
	communityQB *utils.QueryBuilder
}

func NewCorporateRepository(db *gorm.DB) CorporateRepository {
	return &corporateRepository{
		db: db,
		corporateQB: &utils.QueryBuilder{
			SearchFields:  []string{"name", "email", "address"},
			FilterColumns: map[string]bool{"status": true},
			SortColumns:   map[string]bool{"created_at": true, "name": true},
			DefaultSort:   "created_at DESC",
		},
		worldQB: &utils.QueryBuilder{
			SearchFields:  []string{"name", "description"},
			FilterColumns: map[string]bool{"corporate_id": true},
			SortColumns:   map[string]bool{"created_at": true, "name": true},
			DefaultSort:   "created_at DESC",
		},
		communityQB: &utils.QueryBuilder{
			SearchFields:  []string{"name", "description"},
			FilterColumns: map[string]bool{"world_id": true},
			SortColumns:   map[string]bool{"created_at": true, "name": true},
			DefaultSort:   "created_at DESC",
		},
	}
}

func (r *corporateRepository) CreateCorporate(c *model.Corporate) error {
	return r.db.Create(c).Error
}

func (r *corporateRepository) GetCorporate(id string) (*model.Corporate, error) {
	var c model.Corporate
	if err := r.db.First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *corporateRepository) ListCorporates(q *utils.ListQuery, filters map[string]interface{}) ([]model.Corporate, int64, error) {
	var list []model.Corporate
	var total int64

	if err := r.corporateQB.Conditions(r.db.Model(&model.Corporate{}), q, filters).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := r.corporateQB.Apply(r.db.Model(&model.Corporate{}), q, filters).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *corporateRepository) UpdateCorporate(c *model.Corporate) error {
	return r.db.Save(c).Error
}

func (r *corporateRepository) DeleteCorporate(c *model.Corporate) error {
	return r.db.Delete(c).Error
}

func (r *corporateRepository) CreateWorld(w *model.World) error {
	return r.db.Create(w).Error
}

func (r *corporateRepository) GetWorld(id string) (*model.World, error) {
	var w model.World
	if err := r.db.First(&w, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *corporateRepository) ListWorlds(q *utils.ListQuery, filters map[string]interface{}) ([]model.World, int64, error) {
	var list []model.World
	var total int64

	if err := r.worldQB.Conditions(r.db.Model(&model.World{}), q, filters).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := r.worldQB.Apply(r.db.Model(&model.World{}), q, filters).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *corporateRepository) UpdateWorld(w *model.World) error {
	return r.db.Save(w).Error
}

func (r *corporateRepository) DeleteWorld(w *model.World) error {
	return r.db.Delete(w).Error
}

func (r *corporateRepository) AddWorldMember(m *model.WorldMember) error {
	return r.db.Create(m).Error
}

func (r *corporateRepository) RemoveWorldMember(worldID, userID string) error {
	return r.db.Where("world_id = ? AND user_id = ?", worldID, userID).
		Delete(&model.WorldMember{}).Error
}

func (r *corporateRepository) IsWorldMember(worldID, userID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.WorldMember{}).
		Where("world_id = ? AND user_id = ?", worldID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *corporateRepository) CreateCommunity(c *model.Community) error {
	return r.db.Create(c).Error
}

func (r *corporateRepository) GetCommunity(id string) (*model.Community, error) {
	var c model.Community
	if err := r.db.First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *corporateRepository) ListCommunities(q *utils.ListQuery, filters map[string]interface{}) ([]model.Community, int64, error) {
	var list []model.Community
	var total int64

	if err := r.communityQB.Conditions(r.db.Model(&model.Community{}), q, filters).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := r.communityQB.Apply(r.db.Model(&model.Community{}), q, filters).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *corporateRepository) UpdateCommunity(c *model.Community) error {
	return r.db.Save(c).Error
}

func (r *corporateRepository) DeleteCommunity(c *model.Community) error {
	return r.db.Delete(c).Error
}
