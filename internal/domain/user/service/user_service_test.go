package service

import (
	"context"
	"testing"

	"cube_market/internal/domain/user/model"
	"cube_market/internal/pkg/mailer"
	"cube_market/internal/pkg/otp"
	"cube_market/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MockUserRepository is a mock of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id string) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(q *utils.ListQuery, filters map[string]interface{}) ([]model.User, int64, error) {
	args := m.Called(q, filters)
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Update(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

// MockOTPService is a mock of OTPService
type MockOTPService struct {
	mock.Mock
}

func (m *MockOTPService) Generate(ctx context.Context, purpose, email string) (string, error) {
	args := m.Called(ctx, purpose, email)
	return args.String(0), args.Error(1)
}

func (m *MockOTPService) Verify(ctx context.Context, purpose, email, code string) bool {
	args := m.Called(ctx, purpose, email, code)
	return args.Bool(0)
}

// MockMailer is a mock of Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(msg *mailer.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func testUser(email, password string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.User{
		Name:     "Tester",
		Email:    email,
		Password: string(hash),
		Role:     model.RoleUser,
	}
	u.ID = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	return u
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("new email registers and issues token", func(t *testing.T) {
		repo := new(MockUserRepository)
		otpSvc := new(MockOTPService)
		mail := new(MockMailer)

		repo.On("GetByEmail", "a@b.c").Return(nil, gorm.ErrRecordNotFound)
		repo.On("Create", mock.AnythingOfType("*model.User")).Return(nil)
		otpSvc.On("Generate", ctx, otp.PurposeVerifyEmail, "a@b.c").Return("123456", nil)
		// 邮件异步投递，不强制断言次数
		mail.On("Send", mock.Anything).Return(nil).Maybe()

		service := NewUserService(repo, otpSvc, mail)
		user, token, err := service.Register(ctx, "Tester", "a@b.c", "secret123", model.RoleUser, nil)

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.False(t, user.IsVerified)
		repo.AssertExpectations(t)
		otpSvc.AssertExpectations(t)
	})

	t.Run("taken email rejected", func(t *testing.T) {
		repo := new(MockUserRepository)
		otpSvc := new(MockOTPService)
		mail := new(MockMailer)

		repo.On("GetByEmail", "a@b.c").Return(testUser("a@b.c", "pw"), nil)

		service := NewUserService(repo, otpSvc, mail)
		_, _, err := service.Register(ctx, "Tester", "a@b.c", "secret123", model.RoleUser, nil)

		assert.ErrorIs(t, err, ErrEmailTaken)
		repo.AssertNotCalled(t, "Create", mock.Anything)
	})
}

func TestVerifyEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("valid code marks user verified", func(t *testing.T) {
		repo := new(MockUserRepository)
		otpSvc := new(MockOTPService)
		user := testUser("a@b.c", "pw")

		repo.On("GetByEmail", "a@b.c").Return(user, nil)
		otpSvc.On("Verify", ctx, otp.PurposeVerifyEmail, "a@b.c", "123456").Return(true)
		repo.On("Update", user).Return(nil)

		service := NewUserService(repo, otpSvc, new(MockMailer))
		err := service.VerifyEmail(ctx, "a@b.c", "123456")

		assert.NoError(t, err)
		assert.True(t, user.IsVerified)
	})

	t.Run("wrong code rejected", func(t *testing.T) {
		repo := new(MockUserRepository)
		otpSvc := new(MockOTPService)
		user := testUser("a@b.c", "pw")

		repo.On("GetByEmail", "a@b.c").Return(user, nil)
		otpSvc.On("Verify", ctx, otp.PurposeVerifyEmail, "a@b.c", "000000").Return(false)

		service := NewUserService(repo, otpSvc, new(MockMailer))
		err := service.VerifyEmail(ctx, "a@b.c", "000000")

		assert.ErrorIs(t, err, ErrInvalidCode)
		assert.False(t, user.IsVerified)
		repo.AssertNotCalled(t, "Update", mock.Anything)
	})
}

func TestLogin(t *testing.T) {
	t.Run("correct password issues token", func(t *testing.T) {
		repo := new(MockUserRepository)
		user := testUser("a@b.c", "secret123")
		repo.On("GetByEmail", "a@b.c").Return(user, nil)

		service := NewUserService(repo, new(MockOTPService), new(MockMailer))
		got, token, err := service.Login("a@b.c", "secret123")

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByEmail", "a@b.c").Return(testUser("a@b.c", "secret123"), nil)

		service := NewUserService(repo, new(MockOTPService), new(MockMailer))
		_, _, err := service.Login("a@b.c", "wrong")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email maps to invalid credentials", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByEmail", "x@y.z").Return(nil, gorm.ErrRecordNotFound)

		service := NewUserService(repo, new(MockOTPService), new(MockMailer))
		_, _, err := service.Login("x@y.z", "whatever")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestForgotPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email silently succeeds", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByEmail", "x@y.z").Return(nil, gorm.ErrRecordNotFound)

		service := NewUserService(repo, new(MockOTPService), new(MockMailer))
		err := service.ForgotPassword(ctx, "x@y.z")

		assert.NoError(t, err)
	})

	t.Run("reset with valid code updates password hash", func(t *testing.T) {
		repo := new(MockUserRepository)
		otpSvc := new(MockOTPService)
		user := testUser("a@b.c", "oldpass")
		oldHash := user.Password

		repo.On("GetByEmail", "a@b.c").Return(user, nil)
		otpSvc.On("Verify", ctx, otp.PurposePasswordReset, "a@b.c", "123456").Return(true)
		repo.On("Update", user).Return(nil)

		service := NewUserService(repo, otpSvc, new(MockMailer))
		err := service.ResetPassword(ctx, "a@b.c", "123456", "newpass123")

		assert.NoError(t, err)
		assert.NotEqual(t, oldHash, user.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("newpass123")))
	})
}
