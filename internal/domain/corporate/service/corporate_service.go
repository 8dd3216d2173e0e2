package service

import (
	"errors"

	"cube_market/internal/domain/corporate/model"
	"cube_market/internal/domain/corporate/repository"
	"cube_market/pkg/utils"
)

var ErrNotOwner = errors.New("resource belongs to another corporate")

// CorporateService 企业/世界/社区服务
type CorporateService interface {
	CreateCorporate(name, email, phone, address, logoURL string) (*model.Corporate, error)
	GetCorporate(id string) (*model.Corporate, error)
	ListCorporates(q *utils.ListQuery, filters map[string]interface{}) ([]model.Corporate, int64, error)
	UpdateCorporate(id string, fields map[string]string) (*model.Corporate, error)
	DeleteCorporate(id string) error

	CreateWorld(corporateID, name, description, imageURL string) (*model.World, error)
	GetWorld(id string) (*model.World, error)
	ListWorlds(q *utils.ListQuery, filters map[string]interface{}) ([]model.World, int64, error)
	UpdateWorld(id, actorCorporateID string, fields map[string]string) (*model.World, error)
	DeleteWorld(id, actorCorporateID string) error

	JoinWorld(worldID, userID string) error
	LeaveWorld(worldID, userID string) error

	CreateCommunity(worldID, name, description string) (*model.Community, error)
	ListCommunities(q *utils.ListQuery, filters map[string]interface{}) ([]model.Community, int64, error)
	UpdateCommunity(id string, fields map[string]string) (*model.Community, error)
	DeleteCommunity(id string) error
}

type corporateService struct {
	repo repository.CorporateRepository
}

func NewCorporateService(repo repository.CorporateRepository) CorporateService {
	return &corporateService{repo: repo}
}

func (s *corporateService) CreateCorporate(name, email, phone, address, logoURL string) (*model.Corporate, error) {
	c := &model.Corporate{
		Name:    name,
		Email:   email,
		Phone:   phone,
		Address: address,
		LogoURL: logoURL,
		Status:  model.CorporateActive,
	}
	if err := s.repo.CreateCorporate(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *corporateService) GetCorporate(id string) (*model.Corporate, error) {
	return s.repo.GetCorporate(id)
}

func (s *corporateService) ListCorporates(q *utils.ListQuery, filters map[string]interface{}) ([]model.Corporate, int64, error) {
	return s.repo.ListCorporates(q, filters)
}

func (s *corporateService) UpdateCorporate(id string, fields map[string]string) (*model.Corporate, error) {
	c, err := s.repo.GetCorporate(id)
	if err != nil {
		return nil, err
	}

	if v, ok := fields["name"]; ok && v != "" {
		c.Name = v
	}
	if v, ok := fields["email"]; ok && v != "" {
		c.Email = v
	}
	if v, ok := fields["phone"]; ok && v != "" {
		c.Phone = v
	}
	if v, ok := fields["address"]; ok && v != "" {
		c.Address = v
	}
	if v, ok := fields["logoUrl"]; ok && v != "" {
		c.LogoURL = v
	}
	if v, ok := fields["status"]; ok && v != "" {
		c.Status = v
	}

	if err := s.repo.UpdateCorporate(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *corporateService) DeleteCorporate(id string) error {
	c, err := s.repo.GetCorporate(id)
	if err != nil {
		return err
	}
	return s.repo.DeleteCorporate(c)
}

func (s *corporateService) CreateWorld(corporateID, name, description, imageURL string) (*model.World, error) {
	// 企业必须存在
	if _, err := s.repo.GetCorporate(corporateID); err != nil {
		return nil, err
	}

	w := &model.World{
		CorporateID: corporateID,
		Name:        name,
		Description: description,
		ImageURL:    imageURL,
	}
	if err := s.repo.CreateWorld(w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *corporateService) GetWorld(id string) (*model.World, error) {
	return s.repo.GetWorld(id)
}

func (s *corporateService) ListWorlds(q *utils.ListQuery, filters map[string]interface{}) ([]model.World, int64, error) {
	return s.repo.ListWorlds(q, filters)
}

// UpdateWorld 企业用户只能改自己企业的世界，actorCorporateID 为空表示管理员
func (s *corporateService) UpdateWorld(id, actorCorporateID string, fields map[string]string) (*model.World, error) {
	w, err := s.repo.GetWorld(id)
	if err != nil {
		return nil, err
	}
	if actorCorporateID != "" && w.CorporateID != actorCorporateID {
		return nil, ErrNotOwner
	}

	if v, ok := fields["name"]; ok && v != "" {
		w.Name = v
	}
	if v, ok := fields["description"]; ok && v != "" {
		w.Description = v
	}
	if v, ok := fields["imageUrl"]; ok && v != "" {
		w.ImageURL = v
	}

	if err := s.repo.UpdateWorld(w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *corporateService) DeleteWorld(id, actorCorporateID string) error {
	w, err := s.repo.GetWorld(id)
	if err != nil {
		return err
	}
	if actorCorporateID != "" && w.CorporateID != actorCorporateID {
		return ErrNotOwner
	}
	return s.repo.DeleteWorld(w)
}

func (s *corporateService) JoinWorld(worldID, userID string) error {
	if _, err := s.repo.GetWorld(worldID); err != nil {
		return err
	}

	joined, err := s.repo.IsWorldMember(worldID, userID)
	if err != nil {
		return err
	}
	if joined {
		return nil // 已加入视为幂等
	}
	return s.repo.AddWorldMember(&model.WorldMember{WorldID: worldID, UserID: userID})
}

func (s *corporateService) LeaveWorld(worldID, userID string) error {
	return s.repo.RemoveWorldMember(worldID, userID)
}

func (s *corporateService) CreateCommunity(worldID, name, description string) (*model.Community, error) {
	if _, err := s.repo.GetWorld(worldID); err != nil {
		return nil, err
	}

	c := &model.Community{WorldID: worldID, Name: name, Description: description}
	if err := s.repo.CreateCommunity(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *corporateService) ListCommunities(q *utils.ListQuery, filters map[string]interface{}) ([]model.Community, int64, error) {
	return s.repo.ListCommunities(q, filters)
}

func (s *corporateService) UpdateCommunity(id string, fields map[string]string) (*model.Community, error) {
	c, err := s.repo.GetCommunity(id)
	if err != nil {
		return nil, err
	}

	if v, ok := fields["name"]; ok && v != "" {
		c.Name = v
	}
	if v, ok := fields["description"]; ok && v != "" {
		c.Description = v
	}

	if err := s.repo.UpdateCommunity(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *corporateService) DeleteCommunity(id string) error {
	c, err := s.repo.GetCommunity(id)
	if err != nil {
		return err
	}
	return s.repo.DeleteCommunity(c)
}
