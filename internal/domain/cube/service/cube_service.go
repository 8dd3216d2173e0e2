package service

import (
	"errors"
	"time"

	"cube_market/internal/domain/cube/model"
	"cube_market/internal/domain/cube/repository"
	"cube_market/pkg/utils"
)

var ErrNotOwner = errors.New("cube belongs to another owner")

// CreateCubeInput 创建魔方输入
type CreateCubeInput struct {
	Code                string
	Type                string
	Address             string
	Lat                 float64
	Lng                 float64
	ImageURL            string
	ImageKey            string
	OwnerUserID         *string
	CorporateID         *string
	WorldID             *string
	ExpiredActivateDate *time.Time
	InactiveAt          *time.Time
	Tags                []string
}

// CubeService 魔方服务
type CubeService interface {
	Create(input *CreateCubeInput) (*model.Cube, error)
	Get(id string) (*model.Cube, error)
	List(q *utils.ListQuery, filters map[string]interface{}) ([]model.Cube, int64, error)
	Update(id, actorCorporateID string, fields map[string]interface{}) (*model.Cube, error)
	UpdateTags(id, actorCorporateID string, tags []string) error
	Delete(id, actorCorporateID string) error
}

type cubeService struct {
	repo repository.CubeRepository
}

func NewCubeService(repo repository.CubeRepository) CubeService {
	return &cubeService{repo: repo}
}

func (s *cubeService) Create(input *CreateCubeInput) (*model.Cube, error) {
	cube := &model.Cube{
		Code:                input.Code,
		Type:                input.Type,
		Status:              model.CubeActive,
		Address:             input.Address,
		Lat:                 input.Lat,
		Lng:                 input.Lng,
		ImageURL:            input.ImageURL,
		ImageKey:            input.ImageKey,
		OwnerUserID:         input.OwnerUserID,
		CorporateID:         input.CorporateID,
		WorldID:             input.WorldID,
		ExpiredActivateDate: input.ExpiredActivateDate,
		InactiveAt:          input.InactiveAt,
	}
	if cube.Type == "" {
		cube.Type = model.CubePhysical
	}

	if err := s.repo.Create(cube); err != nil {
		return nil, err
	}
	if len(input.Tags) > 0 {
		if err := s.repo.ReplaceTags(cube.ID, input.Tags); err != nil {
			return nil, err
		}
	}
	return s.repo.GetByID(cube.ID)
}

func (s *cubeService) Get(id string) (*model.Cube, error) {
	return s.repo.GetByID(id)
}

func (s *cubeService) List(q *utils.ListQuery, filters map[string]interface{}) ([]model.Cube, int64, error) {
	return s.repo.List(q, filters)
}

// checkOwnership 企业角色只能动自己企业的魔方，actorCorporateID 为空表示管理员
func (s *cubeService) checkOwnership(cube *model.Cube, actorCorporateID string) error {
	if actorCorporateID == "" {
		return nil
	}
	if cube.CorporateID == nil || *cube.CorporateID != actorCorporateID {
		return ErrNotOwner
	}
	return nil
}

func (s *cubeService) Update(id, actorCorporateID string, fields map[string]interface{}) (*model.Cube, error) {
	cube, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(cube, actorCorporateID); err != nil {
		return nil, err
	}

	if v, ok := fields["status"].(string); ok && v != "" {
		cube.Status = v
		if v == model.CubeInactive && cube.InactiveAt == nil {
			now := time.Now()
			cube.InactiveAt = &now
		}
	}
	if v, ok := fields["address"].(string); ok && v != "" {
		cube.Address = v
	}
	if v, ok := fields["imageUrl"].(string); ok && v != "" {
		cube.ImageURL = v
	}
	if v, ok := fields["imageKey"].(string); ok && v != "" {
		cube.ImageKey = v
	}
	if v, ok := fields["lat"].(float64); ok {
		cube.Lat = v
	}
	if v, ok := fields["lng"].(float64); ok {
		cube.Lng = v
	}
	if v, ok := fields["expiredActivateDate"].(*time.Time); ok {
		cube.ExpiredActivateDate = v
	}
	if v, ok := fields["inactiveAt"].(*time.Time); ok {
		cube.InactiveAt = v
	}

	if err := s.repo.Update(cube); err != nil {
		return nil, err
	}
	return cube, nil
}

func (s *cubeService) UpdateTags(id, actorCorporateID string, tags []string) error {
	cube, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.checkOwnership(cube, actorCorporateID); err != nil {
		return err
	}
	return s.repo.ReplaceTags(id, tags)
}

func (s *cubeService) Delete(id, actorCorporateID string) error {
	cube, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.checkOwnership(cube, actorCorporateID); err != nil {
		return err
	}
	return s.repo.Delete(cube)
}
