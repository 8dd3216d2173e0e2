package repository

import (
	"time"

	adModel "cube_market/internal/domain/ad/model"
	cubeModel "cube_market/internal/domain/cube/model"
	grabRepo "cube_market/internal/domain/grab/repository"
	"cube_market/internal/domain/maintenance/model"

	"gorm.io/gorm"
)

// ActivationSweepResult 激活过期清扫结果
type ActivationSweepResult struct {
	CubesAffected  int64    `json:"cubesAffected"`
	TagsDeleted    int64    `json:"tagsDeleted"`
	AdsDeactivated int64    `json:"adsDeactivated"`
	ImageKeys      []string `json:"-"` // 事务提交后再删存储对象
}

// ExpirySweepResult 魔方到期清扫结果
type ExpirySweepResult struct {
	CubesDeactivated int64 `json:"cubesDeactivated"`
	AdsExpired       int64 `json:"adsExpired"`
	GrabsDeleted     int64 `json:"grabsDeleted"`
}

// MaintenanceRepository 清扫数据访问层，每个清扫一个事务，可重复执行
type MaintenanceRepository interface {
	ExpiredActivationSweep(now time.Time) (*ActivationSweepResult, error)
	CubeExpirySweep(now time.Time) (*ExpirySweepResult, error)
	TruncateLogs() error
	CreateLog(entry *model.DatasourceLog) error
}

type maintenanceRepository struct {
	db    *gorm.DB
	grabs grabRepo.GrabRepository
}

func NewMaintenanceRepository(db *gorm.DB, grabs grabRepo.GrabRepository) MaintenanceRepository {
	return &maintenanceRepository{db: db, grabs: grabs}
}

// ExpiredActivationSweep 激活有效期已过的魔方：删标签、下线广告、清掉图片引用
func (r *maintenanceRepository) ExpiredActivationSweep(now time.Time) (*ActivationSweepResult, error) {
	result := &ActivationSweepResult{}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var expired []cubeModel.Cube
		if err := tx.Select("id", "image_key").
			Where("expired_activate_date IS NOT NULL AND expired_activate_date < ?", now).
			Find(&expired).Error; err != nil {
			return err
		}
		if len(expired) == 0 {
			return nil
		}

		ids := make([]string, 0, len(expired))
		for _, c := range expired {
			ids = append(ids, c.ID)
			if c.ImageKey != "" {
				result.ImageKeys = append(result.ImageKeys, c.ImageKey)
			}
		}
		result.CubesAffected = int64(len(ids))

		tags := tx.Where("cube_id IN ?", ids).Delete(&cubeModel.CubeTag{})
		if tags.Error != nil {
			return tags.Error
		}
		result.TagsDeleted = tags.RowsAffected

		ads := tx.Model(&adModel.Ad{}).
			Where("cube_id IN ? AND status = ?", ids, adModel.AdActive).
			Updates(map[string]interface{}{"status": adModel.AdInactive})
		if ads.Error != nil {
			return ads.Error
		}
		result.AdsDeactivated = ads.RowsAffected

		return tx.Model(&cubeModel.Cube{}).
			Where("id IN ?", ids).
			Updates(map[string]interface{}{
				"image_url":             "",
				"image_key":             "",
				"expired_activate_date": nil,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CubeExpirySweep 到期的活跃魔方下线，其广告标记过期，非活跃广告的未核销领取清理掉
func (r *maintenanceRepository) CubeExpirySweep(now time.Time) (*ExpirySweepResult, error) {
	result := &ExpirySweepResult{}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		cubes := tx.Model(&cubeModel.Cube{}).
			Where("status = ? AND inactive_at IS NOT NULL AND inactive_at < ?", cubeModel.CubeActive, now).
			Updates(map[string]interface{}{"status": cubeModel.CubeInactive})
		if cubes.Error != nil {
			return cubes.Error
		}
		result.CubesDeactivated = cubes.RowsAffected

		ads := tx.Model(&adModel.Ad{}).
			Where("status = ? AND cube_id IN (SELECT id FROM cubes WHERE status = ? AND deleted_at IS NULL)",
				adModel.AdActive, cubeModel.CubeInactive).
			Updates(map[string]interface{}{"status": adModel.AdExpired})
		if ads.Error != nil {
			return ads.Error
		}
		result.AdsExpired = ads.RowsAffected

		deleted, err := r.grabs.DeleteUnvalidatedByAdStatus(tx, []string{adModel.AdInactive, adModel.AdExpired})
		if err != nil {
			return err
		}
		result.GrabsDeleted = deleted
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *maintenanceRepository) TruncateLogs() error {
	return r.db.Exec("TRUNCATE TABLE datasource_logs").Error
}

func (r *maintenanceRepository) CreateLog(entry *model.DatasourceLog) error {
	return r.db.Create(entry).Error
}
