package repository

import (
	"cube_market/internal/domain/cube/model"
	"cube_market/pkg/utils"

	"gorm.io/gorm"
)

// CubeRepository 魔方仓库
type CubeRepository interface {
	Create(cube *model.Cube) error
	GetByID(id string) (*model.Cube, error)
	List(q *utils.ListQuery, filters map[string]interface{}) ([]model.Cube, int64, error)
	Update(cube *model.Cube) error
	Delete(cube *model.Cube) error

	ReplaceTags(cubeID string, names []string) error
}

type cubeRepository struct {
	db *gorm.DB
	qb *utils.QueryBuilder
}

func NewCubeRepository(db *gorm.DB) CubeRepository {
	return &cubeRepository{
		db: db,
		qb: &utils.QueryBuilder{
			SearchFields:  []string{"code", "address"},
			FilterColumns: map[string]bool{"status": true, "type": true, "world_id": true, "corporate_id": true, "owner_user_id": true},
			SortColumns:   map[string]bool{"created_at": true, "code": true},
			DefaultSort:   "created_at DESC",
		},
	}
}

func (r *cubeRepository) Create(cube *model.Cube) error {
	return r.db.Create(cube).Error
}

func (r *cubeRepository) GetByID(id string) (*model.Cube, error) {
	var cube model.Cube
	if err := r.db.Preload("Tags").First(&cube, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &cube, nil
}

func (r *cubeRepository) List(q *utils.ListQuery, filters map[string]interface{}) ([]model.Cube, int64, error) {
	var cubes []model.Cube
	var total int64

	if err := r.qb.Conditions(r.db.Model(&model.Cube{}), q, filters).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := r.qb.Apply(r.db.Model(&model.Cube{}), q, filters).Preload("Tags").Find(&cubes).Error; err != nil {
		return nil, 0, err
	}
	return cubes, total, nil
}

func (r *cubeRepository) Update(cube *model.Cube) error {
	return r.db.Save(cube).Error
}

func (r *cubeRepository) Delete(cube *model.Cube) error {
	return r.db.Delete(cube).Error
}

// ReplaceTags 全量替换标签，事务内先删后插
func (r *cubeRepository) ReplaceTags(cubeID string, names []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cube_id = ?", cubeID).Delete(&model.CubeTag{}).Error; err != nil {
			return err
		}
		if len(names) == 0 {
			return nil
		}
		tags := make([]model.CubeTag, 0, len(names))
		for _, n := range names {
			tags = append(tags, model.CubeTag{CubeID: cubeID, Name: n})
		}
		return tx.Create(&tags).Error
	})
}
