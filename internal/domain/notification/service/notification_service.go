package service

import (
	"errors"

	"cube_market/internal/domain/notification/model"
	"cube_market/internal/domain/notification/repository"
	"cube_market/pkg/logger"
	"cube_market/pkg/utils"

	"go.uber.org/zap"
)

// 扇出受众
const (
	AudienceAdmin      = "ADMIN"
	AudienceCorporate  = "CORPORATE"
	AudienceUser       = "USER"
	AudienceWorldOwner = "WORLD_OWNER"
)

// 受众参数缺失属编程错误，边界层按 500 处理
var (
	ErrUnknownAudience    = errors.New("unknown notification audience")
	ErrCorporateRequired  = errors.New("corporate audience requires a corporate id")
	ErrWorldRequired      = errors.New("world owner audience requires a world id")
	ErrRecipientsRequired = errors.New("user audience requires recipient ids")
	ErrNotRecipient       = errors.New("notification belongs to another user")
)

// FanOutInput 扇出输入
type FanOutInput struct {
	Audience    string
	CorporateID string   // CORPORATE 受众必填
	WorldID     string   // WORLD_OWNER 受众必填
	UserIDs     []string // USER 受众必填
	Type        string
	Message     string
	CubeID      *string
	AdID        *string
	GrabID      *string
}

// NotificationService 通知服务
type NotificationService interface {
	// FanOut 解析受众成具体接收人集合，每人写一行，返回构造的行（可能为空）
	FanOut(input *FanOutInput) ([]model.Notification, error)

	// FanOutAsync 其他业务流程里的旁路扇出：失败只记日志，绝不影响主流程
	FanOutAsync(input *FanOutInput)

	ListMine(userID string, q *utils.ListQuery, unreadOnly bool) ([]model.Notification, int64, error)
	CountUnread(userID string) (int64, error)
	MarkRead(userID, notificationID string) (*model.Notification, error)
	MarkAllRead(userID string) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) resolveRecipients(input *FanOutInput) ([]string, error) {
	switch input.Audience {
	case AudienceAdmin:
		return s.repo.VerifiedAdminIDs()
	case AudienceCorporate:
		if input.CorporateID == "" {
			return nil, ErrCorporateRequired
		}
		return s.repo.VerifiedCorporateMemberIDs(input.CorporateID)
	case AudienceUser:
		if len(input.UserIDs) == 0 {
			return nil, ErrRecipientsRequired
		}
		return s.repo.VerifiedUserIDs(input.UserIDs)
	case AudienceWorldOwner:
		if input.WorldID == "" {
			return nil, ErrWorldRequired
		}
		corporateID, err := s.repo.WorldOwnerCorporateID(input.WorldID)
		if err != nil {
			return nil, err
		}
		return s.repo.VerifiedCorporateMemberIDs(corporateID)
	default:
		return nil, ErrUnknownAudience
	}
}

func (s *notificationService) FanOut(input *FanOutInput) ([]model.Notification, error) {
	recipients, err := s.resolveRecipients(input)
	if err != nil {
		return nil, err
	}

	rows := make([]model.Notification, 0, len(recipients))
	for _, userID := range recipients {
		rows = append(rows, model.Notification{
			UserID:  userID,
			Type:    input.Type,
			Message: input.Message,
			CubeID:  input.CubeID,
			AdID:    input.AdID,
			GrabID:  input.GrabID,
		})
	}

	if err := s.repo.BatchCreate(rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *notificationService) FanOutAsync(input *FanOutInput) {
	go func() {
		if _, err := s.FanOut(input); err != nil {
			logger.Log.Warn("notification fan-out failed",
				zap.String("audience", input.Audience),
				zap.String("type", input.Type),
				zap.Error(err))
		}
	}()
}

func (s *notificationService) ListMine(userID string, q *utils.ListQuery, unreadOnly bool) ([]model.Notification, int64, error) {
	return s.repo.ListByUser(userID, q, unreadOnly)
}

func (s *notificationService) CountUnread(userID string) (int64, error) {
	return s.repo.CountUnread(userID)
}

func (s *notificationService) MarkRead(userID, notificationID string) (*model.Notification, error) {
	n, err := s.repo.GetByID(notificationID)
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, ErrNotRecipient
	}
	if n.IsRead {
		return n, nil
	}
	if err := s.repo.MarkRead(n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *notificationService) MarkAllRead(userID string) error {
	return s.repo.MarkAllRead(userID)
}
