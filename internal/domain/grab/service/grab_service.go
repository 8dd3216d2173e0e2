package service

import (
	"errors"
	"fmt"
	"time"

	adModel "cube_market/internal/domain/ad/model"
	adRepo "cube_market/internal/domain/ad/repository"
	cubeRepo "cube_market/internal/domain/cube/repository"
	"cube_market/internal/domain/grab/model"
	"cube_market/internal/domain/grab/repository"
	notifModel "cube_market/internal/domain/notification/model"
	notifService "cube_market/internal/domain/notification/service"
	"cube_market/pkg/metrics"
	"cube_market/pkg/utils"
)

var (
	ErrAdNotActive      = errors.New("ad is not active")
	ErrDuplicateGrab    = errors.New("user already has an unvalidated grab for this ad")
	ErrQuotaExceeded    = errors.New("ad grab quota exceeded")
	ErrNotOwner         = errors.New("grab belongs to another corporate's ad")
	ErrAlreadyValidated = errors.New("grab already validated")
)

// GrabService 抢购服务
type GrabService interface {
	// Claim 准入顺序：广告有效 -> 无重复未核销领取 -> 配额未满 -> 事务内计数 + 落单
	Claim(adID, userID string) (*model.Grab, error)

	// Validate 商户核销自己广告下的领取
	Validate(grabID, actorCorporateID string) (*model.Grab, error)

	ListMine(userID string, q *utils.ListQuery) ([]model.Grab, int64, error)
	List(q *utils.ListQuery, filters map[string]interface{}) ([]model.Grab, int64, error)
	GetOwned(grabID, actorCorporateID string) (*model.Grab, error)
}

type grabService struct {
	repo          repository.GrabRepository
	ads           adRepo.AdRepository
	cubes         cubeRepo.CubeRepository
	notifications notifService.NotificationService
	metrics       *metrics.Collector
}

func NewGrabService(
	repo repository.GrabRepository,
	ads adRepo.AdRepository,
	cubes cubeRepo.CubeRepository,
	notifications notifService.NotificationService,
	m *metrics.Collector,
) GrabService {
	return &grabService{repo: repo, ads: ads, cubes: cubes, notifications: notifications, metrics: m}
}

func (s *grabService) Claim(adID, userID string) (*model.Grab, error) {
	ad, err := s.ads.GetByID(adID)
	if err != nil {
		return nil, err
	}
	if ad.Status != adModel.AdActive {
		s.metrics.ObserveGrab("inactive")
		return nil, ErrAdNotActive
	}

	dup, err := s.repo.CountUnvalidated(adID, userID)
	if err != nil {
		return nil, err
	}
	if dup > 0 {
		s.metrics.ObserveGrab("duplicate")
		return nil, ErrDuplicateGrab
	}

	today := time.Now().Format("2006-01-02")
	used, err := s.usage(ad, today)
	if err != nil {
		return nil, err
	}
	if used >= ad.MaxGrab {
		s.metrics.ObserveGrab("quota_exceeded")
		return nil, ErrQuotaExceeded
	}

	grab := &model.Grab{AdID: adID, UserID: userID}
	if err := s.repo.Claim(grab, today, ad.MaxGrab, ad.IsDailyGrab); err != nil {
		if errors.Is(err, repository.ErrQuotaExhausted) {
			s.metrics.ObserveGrab("quota_exceeded")
			return nil, ErrQuotaExceeded
		}
		return nil, err
	}
	s.metrics.ObserveGrab("accepted")

	s.notifyCorporate(ad, grab)
	return grab, nil
}

// usage 读取当前配额用量：日配额看当日行，终身配额看历史计数之和
func (s *grabService) usage(ad *adModel.Ad, today string) (int, error) {
	if ad.IsDailyGrab {
		return s.repo.DailyUsage(ad.ID, today)
	}
	return s.repo.LifetimeUsage(ad.ID)
}

// notifyCorporate 新领取旁路通知拥有该魔方的企业，失败不影响主流程
func (s *grabService) notifyCorporate(ad *adModel.Ad, grab *model.Grab) {
	cube, err := s.cubes.GetByID(ad.CubeID)
	if err != nil || cube.CorporateID == nil {
		return
	}
	s.notifications.FanOutAsync(&notifService.FanOutInput{
		Audience:    notifService.AudienceCorporate,
		CorporateID: *cube.CorporateID,
		Type:        notifModel.TypeGrabCreated,
		Message:     fmt.Sprintf("New grab for ad %q", ad.Title),
		CubeID:      &cube.ID,
		AdID:        &ad.ID,
		GrabID:      &grab.ID,
	})
}

// checkOwnership 领取通过 广告 -> 魔方 -> 企业 判定归属，空串表示管理员放行
func (s *grabService) checkOwnership(grab *model.Grab, actorCorporateID string) error {
	if actorCorporateID == "" {
		return nil
	}
	ad, err := s.ads.GetByID(grab.AdID)
	if err != nil {
		return err
	}
	cube, err := s.cubes.GetByID(ad.CubeID)
	if err != nil {
		return err
	}
	if cube.CorporateID == nil || *cube.CorporateID != actorCorporateID {
		return ErrNotOwner
	}
	return nil
}

func (s *grabService) Validate(grabID, actorCorporateID string) (*model.Grab, error) {
	grab, err := s.repo.GetByID(grabID)
	if err != nil {
		return nil, err
	}
	if grab.ValidationAt != nil {
		return nil, ErrAlreadyValidated
	}
	if err := s.checkOwnership(grab, actorCorporateID); err != nil {
		return nil, err
	}

	now := time.Now()
	grab.ValidationAt = &now
	if err := s.repo.Update(grab); err != nil {
		return nil, err
	}

	s.notifications.FanOutAsync(&notifService.FanOutInput{
		Audience: notifService.AudienceUser,
		UserIDs:  []string{grab.UserID},
		Type:     notifModel.TypeGrabValidated,
		Message:  "Your grab has been validated",
		AdID:     &grab.AdID,
		GrabID:   &grab.ID,
	})
	return grab, nil
}

func (s *grabService) ListMine(userID string, q *utils.ListQuery) ([]model.Grab, int64, error) {
	return s.repo.List(q, map[string]interface{}{"user_id": userID})
}

func (s *grabService) List(q *utils.ListQuery, filters map[string]interface{}) ([]model.Grab, int64, error) {
	return s.repo.List(q, filters)
}

func (s *grabService) GetOwned(grabID, actorCorporateID string) (*model.Grab, error) {
	grab, err := s.repo.GetByID(grabID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(grab, actorCorporateID); err != nil {
		return nil, err
	}
	return grab, nil
}
