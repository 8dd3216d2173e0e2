package repository

import (
	"errors"

	"cube_market/internal/domain/grab/model"
	"cube_market/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrQuotaExhausted 计数器递增未通过上限条件
var ErrQuotaExhausted = errors.New("grab quota exhausted")

// GrabRepository 抢购数据访问层
type GrabRepository interface {
	// Claim 计数器递增与领取记录插入在同一事务内完成，全有或全无
	Claim(grab *model.Grab, date string, maxGrab int, daily bool) error

	CountUnvalidated(adID, userID string) (int64, error)
	DailyUsage(adID, date string) (int, error)
	LifetimeUsage(adID string) (int, error)

	GetByID(id string) (*model.Grab, error)
	Update(grab *model.Grab) error
	List(q *utils.ListQuery, filters map[string]interface{}) ([]model.Grab, int64, error)
	DeleteUnvalidatedByAdStatus(tx *gorm.DB, statuses []string) (int64, error)
}

type grabRepository struct {
	db *gorm.DB
}

func NewGrabRepository(db *gorm.DB) GrabRepository {
	return &grabRepository{db: db}
}

// conditionalIncrement 带上限条件递增当日计数器，返回命中的行数
// 日配额上限看当日行，终身配额上限看该广告所有计数行之和
func (r *grabRepository) conditionalIncrement(tx *gorm.DB, adID, date string, maxGrab int, daily bool) (int64, error) {
	q := tx.Model(&model.SummaryGrab{}).
		Where("ad_id = ? AND grab_date = ?", adID, date)
	if daily {
		q = q.Where("total_grab < ?", maxGrab)
	} else {
		q = q.Where(
			"(SELECT COALESCE(SUM(total_grab), 0) FROM summary_grabs WHERE ad_id = ? AND deleted_at IS NULL) < ?",
			adID, maxGrab,
		)
	}
	res := q.UpdateColumn("total_grab", gorm.Expr("total_grab + 1"))
	return res.RowsAffected, res.Error
}

func (r *grabRepository) Claim(grab *model.Grab, date string, maxGrab int, daily bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		affected, err := r.conditionalIncrement(tx, grab.AdID, date, maxGrab, daily)
		if err != nil {
			return err
		}

		if affected == 0 {
			// 当日行可能还不存在，先区分 不存在 和 已到上限
			var existing int64
			if err := tx.Model(&model.SummaryGrab{}).
				Where("ad_id = ? AND grab_date = ?", grab.AdID, date).
				Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				return ErrQuotaExhausted
			}
			if maxGrab < 1 {
				return ErrQuotaExhausted
			}
			if !daily {
				used, err := r.lifetimeUsage(tx, grab.AdID)
				if err != nil {
					return err
				}
				if used >= maxGrab {
					return ErrQuotaExhausted
				}
			}

			// 唯一索引冲突会让整个事务进入 aborted 状态，必须 DO NOTHING 而不是撞错误再补救
			summary := &model.SummaryGrab{AdID: grab.AdID, GrabDate: date, TotalGrab: 1}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(summary)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// 并发首单已建行，回退到条件递增
				affected, err = r.conditionalIncrement(tx, grab.AdID, date, maxGrab, daily)
				if err != nil {
					return err
				}
				if affected == 0 {
					return ErrQuotaExhausted
				}
			}
		}

		return tx.Create(grab).Error
	})
}

func (r *grabRepository) CountUnvalidated(adID, userID string) (int64, error) {
	var total int64
	err := r.db.Model(&model.Grab{}).
		Where("ad_id = ? AND user_id = ? AND validation_at IS NULL", adID, userID).
		Count(&total).Error
	return total, err
}

func (r *grabRepository) DailyUsage(adID, date string) (int, error) {
	var summary model.SummaryGrab
	err := r.db.Where("ad_id = ? AND grab_date = ?", adID, date).First(&summary).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return summary.TotalGrab, nil
}

func (r *grabRepository) lifetimeUsage(tx *gorm.DB, adID string) (int, error) {
	var used int
	err := tx.Model(&model.SummaryGrab{}).
		Select("COALESCE(SUM(total_grab), 0)").
		Where("ad_id = ?", adID).
		Scan(&used).Error
	return used, err
}

func (r *grabRepository) LifetimeUsage(adID string) (int, error) {
	return r.lifetimeUsage(r.db, adID)
}

func (r *grabRepository) GetByID(id string) (*model.Grab, error) {
	var grab model.Grab
	if err := r.db.Where("id = ?", id).First(&grab).Error; err != nil {
		return nil, err
	}
	return &grab, nil
}

func (r *grabRepository) Update(grab *model.Grab) error {
	return r.db.Save(grab).Error
}

var grabQuery = &utils.QueryBuilder{
	FilterColumns: map[string]bool{"ad_id": true, "user_id": true},
	SortColumns:   map[string]bool{"created_at": true, "validation_at": true},
	DefaultSort:   "created_at DESC",
}

func (r *grabRepository) List(q *utils.ListQuery, filters map[string]interface{}) ([]model.Grab, int64, error) {
	var grabs []model.Grab
	var total int64

	if err := grabQuery.Conditions(r.db.Model(&model.Grab{}), q, filters).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := grabQuery.Apply(r.db.Model(&model.Grab{}), q, filters).Find(&grabs).Error; err != nil {
		return nil, 0, err
	}
	return grabs, total, nil
}

// DeleteUnvalidatedByAdStatus 删除非活跃广告的未核销领取，维护清扫用
func (r *grabRepository) DeleteUnvalidatedByAdStatus(tx *gorm.DB, statuses []string) (int64, error) {
	res := tx.Where(
		"validation_at IS NULL AND ad_id IN (SELECT id FROM ads WHERE status IN ? AND deleted_at IS NULL)",
		statuses,
	).Delete(&model.Grab{})
	return res.RowsAffected, res.Error
}
