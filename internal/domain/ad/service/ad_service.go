package service

import (
	"errors"
	"time"

	"cube_market/internal/domain/ad/model"
	"cube_market/internal/domain/ad/repository"
	cubeRepo "cube_market/internal/domain/cube/repository"
	"cube_market/pkg/utils"
)

var ErrNotOwner = errors.New("ad belongs to another corporate")

// CreateAdInput 创建广告输入
type CreateAdInput struct {
	CubeID      string
	Title       string
	Description string
	Type        string
	ImageURL    string
	MaxGrab     int
	IsDailyGrab bool
	StartAt     *time.Time
	FinishAt    *time.Time
}

// AdService 广告服务
type AdService interface {
	Create(input *CreateAdInput, actorCorporateID string) (*model.Ad, error)
	Get(id string) (*model.Ad, error)
	List(q *utils.ListQuery, filters map[string]interface{}) ([]model.Ad, int64, error)
	Update(id, actorCorporateID string, fields map[string]interface{}) (*model.Ad, error)
	Delete(id, actorCorporateID string) error
}

type adService struct {
	repo  repository.AdRepository
	cubes cubeRepo.CubeRepository
}

func NewAdService(repo repository.AdRepository, cubes cubeRepo.CubeRepository) AdService {
	return &adService{repo: repo, cubes: cubes}
}

// checkCubeOwnership 广告归属按所在魔方的企业判定
func (s *adService) checkCubeOwnership(cubeID, actorCorporateID string) error {
	if actorCorporateID == "" {
		return nil
	}
	cube, err := s.cubes.GetByID(cubeID)
	if err != nil {
		return err
	}
	if cube.CorporateID == nil || *cube.CorporateID != actorCorporateID {
		return ErrNotOwner
	}
	return nil
}

func (s *adService) Create(input *CreateAdInput, actorCorporateID string) (*model.Ad, error) {
	if err := s.checkCubeOwnership(input.CubeID, actorCorporateID); err != nil {
		return nil, err
	}

	ad := &model.Ad{
		CubeID:      input.CubeID,
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		Status:      model.AdActive,
		ImageURL:    input.ImageURL,
		MaxGrab:     input.MaxGrab,
		IsDailyGrab: input.IsDailyGrab,
		StartAt:     input.StartAt,
		FinishAt:    input.FinishAt,
	}
	if ad.Type == "" {
		ad.Type = model.AdPromo
	}

	if err := s.repo.Create(ad); err != nil {
		return nil, err
	}
	return ad, nil
}

func (s *adService) Get(id string) (*model.Ad, error) {
	return s.repo.GetByID(id)
}

func (s *adService) List(q *utils.ListQuery, filters map[string]interface{}) ([]model.Ad, int64, error) {
	return s.repo.List(q, filters)
}

func (s *adService) Update(id, actorCorporateID string, fields map[string]interface{}) (*model.Ad, error) {
	ad, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.checkCubeOwnership(ad.CubeID, actorCorporateID); err != nil {
		return nil, err
	}

	if v, ok := fields["title"].(string); ok && v != "" {
		ad.Title = v
	}
	if v, ok := fields["description"].(string); ok && v != "" {
		ad.Description = v
	}
	if v, ok := fields["status"].(string); ok && v != "" {
		ad.Status = v
	}
	if v, ok := fields["imageUrl"].(string); ok && v != "" {
		ad.ImageURL = v
	}
	if v, ok := fields["maxGrab"].(float64); ok {
		ad.MaxGrab = int(v)
	}
	if v, ok := fields["isDailyGrab"].(bool); ok {
		ad.IsDailyGrab = v
	}

	if err := s.repo.Update(ad); err != nil {
		return nil, err
	}
	return ad, nil
}

func (s *adService) Delete(id, actorCorporateID string) error {
	ad, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.checkCubeOwnership(ad.CubeID, actorCorporateID); err != nil {
		return err
	}
	return s.repo.Delete(ad)
}
