package service

import (
	"context"
	"errors"

	"cube_market/internal/domain/user/model"
	"cube_market/internal/domain/user/repository"
	"cube_market/internal/pkg/mailer"
	"cube_market/internal/pkg/otp"
	"cube_market/pkg/logger"
	"cube_market/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidCode        = errors.New("invalid verification code")
	ErrUserNotFound       = errors.New("user not found")
)

// UserService 用户服务接口
type UserService interface {
	Register(ctx context.Context, name, email, password string, role int, corporateID *string) (*model.User, string, error)
	VerifyEmail(ctx context.Context, email, code string) error
	ResendVerification(ctx context.Context, email string) error
	Login(email, password string) (*model.User, string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	GetUser(id string) (*model.User, error)
	UpdateProfile(id, name, phone, avatarURL string) (*model.User, error)
	ListUsers(q *utils.ListQuery, filters map[string]interface{}) ([]model.User, int64, error)
	UpdateUser(id string, role int, corporateID *string, verified *bool) (*model.User, error)
	DeleteUser(id string) error
}

// userService 实现
type userService struct {
	repo repository.UserRepository
	otp  otp.OTPService
	mail mailer.Mailer
}

// NewUserService 创建用户服务
func NewUserService(repo repository.UserRepository, otpSvc otp.OTPService, mail mailer.Mailer) UserService {
	return &userService{repo: repo, otp: otpSvc, mail: mail}
}

// Register 注册：创建未验证用户，发送验证码邮件，签发 token
func (s *userService) Register(ctx context.Context, name, email, password string, role int, corporateID *string) (*model.User, string, error) {
	if _, err := s.repo.GetByEmail(email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		Name:        name,
		Email:       email,
		Password:    string(hash),
		Role:        role,
		CorporateID: corporateID,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, "", err
	}

	s.sendCode(ctx, otp.PurposeVerifyEmail, user, mailer.VerificationMessage)

	token, _, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// VerifyEmail 提交 6 位验证码，标记邮箱已验证
func (s *userService) VerifyEmail(ctx context.Context, email, code string) error {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !s.otp.Verify(ctx, otp.PurposeVerifyEmail, email, code) {
		return ErrInvalidCode
	}

	user.IsVerified = true
	return s.repo.Update(user)
}

// ResendVerification 重发验证码（频率受 OTP 服务限制）
func (s *userService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	code, err := s.otp.Generate(ctx, otp.PurposeVerifyEmail, email)
	if err != nil {
		return err
	}
	s.deliver(mailer.VerificationMessage(user.Name, user.Email, code))
	return nil
}

// Login 邮箱密码登录，签发 token
func (s *userService) Login(email, password string) (*model.User, string, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, _, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ForgotPassword 发送重置密码验证码
func (s *userService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 不暴露邮箱是否注册
			return nil
		}
		return err
	}

	code, err := s.otp.Generate(ctx, otp.PurposePasswordReset, email)
	if err != nil {
		return err
	}
	s.deliver(mailer.PasswordResetMessage(user.Name, user.Email, code))
	return nil
}

// ResetPassword 用验证码重置密码
func (s *userService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidCode
		}
		return err
	}

	if !s.otp.Verify(ctx, otp.PurposePasswordReset, email, code) {
		return ErrInvalidCode
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hash)
	return s.repo.Update(user)
}

// GetUser 获取单个用户
func (s *userService) GetUser(id string) (*model.User, error) {
	return s.repo.GetByID(id)
}

// UpdateProfile 用户自助更新资料
func (s *userService) UpdateProfile(id, name, phone, avatarURL string) (*model.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if phone != "" {
		user.Phone = phone
	}
	if avatarURL != "" {
		user.AvatarURL = avatarURL
	}

	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers 管理端用户列表
func (s *userService) ListUsers(q *utils.ListQuery, filters map[string]interface{}) ([]model.User, int64, error) {
	return s.repo.List(q, filters)
}

// UpdateUser 管理端更新角色/企业归属/验证状态
func (s *userService) UpdateUser(id string, role int, corporateID *string, verified *bool) (*model.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if role != 0 {
		user.Role = role
	}
	if corporateID != nil {
		user.CorporateID = corporateID
	}
	if verified != nil {
		user.IsVerified = *verified
	}

	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser 删除用户（软删除）
func (s *userService) DeleteUser(id string) error {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	return s.repo.Delete(user)
}

// sendCode 生成验证码并异步发信，失败只记日志不影响主流程
func (s *userService) sendCode(ctx context.Context, purpose string, user *model.User, build func(name, email, code string) *mailer.Message) {
	code, err := s.otp.Generate(ctx, purpose, user.Email)
	if err != nil {
		logger.Log.Warn("failed to generate otp", zap.String("email", user.Email), zap.Error(err))
		return
	}
	s.deliver(build(user.Name, user.Email, code))
}

func (s *userService) deliver(msg *mailer.Message) {
	go func() {
		if err := s.mail.Send(msg); err != nil {
			logger.Log.Warn("failed to send mail", zap.String("to", msg.ToEmail), zap.Error(err))
		}
	}()
}
