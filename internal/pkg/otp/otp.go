package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"cube_market/internal/pkg/config"

	"github.com/redis/go-redis/v9"
)

// 验证码用途，分开存键避免串用
const (
	PurposeVerifyEmail   = "verify_email"
	PurposePasswordReset = "password_reset"
)

const (
	codeTTL        = 5 * time.Minute
	resendInterval = time.Minute
)

var ErrTooFrequent = fmt.Errorf("please wait before requesting another code")

// OTPService 6位数字验证码服务，Redis 存储
type OTPService interface {
	// Generate 生成新验证码并写入 Redis，受重发频率限制
	Generate(ctx context.Context, purpose, email string) (string, error)
	// Verify 校验验证码，成功后立即删除防重放
	Verify(ctx context.Context, purpose, email, code string) bool
}

type otpService struct {
	rdb *redis.Client
}

func NewOTPService(rdb *redis.Client) OTPService {
	return &otpService{rdb: rdb}
}

func key(purpose, email string) string {
	return fmt.Sprintf("otp:%s:%s", purpose, email)
}

func (s *otpService) Generate(ctx context.Context, purpose, email string) (string, error) {
	k := key(purpose, email)

	// 重发频率限制：剩余 TTL 超过 (有效期 - 重发间隔) 说明刚发过
	ttl, err := s.rdb.TTL(ctx, k).Result()
	if err == nil && ttl > codeTTL-resendInterval {
		return "", ErrTooFrequent
	}

	code := randomCode()
	// 测试环境固定验证码，方便联调
	if test := config.GlobalConfig.App.TestOTPCode; test != "" {
		code = test
	}

	if err := s.rdb.Set(ctx, k, code, codeTTL).Err(); err != nil {
		return "", err
	}
	return code, nil
}

func (s *otpService) Verify(ctx context.Context, purpose, email, code string) bool {
	k := key(purpose, email)
	val, err := s.rdb.Get(ctx, k).Result()
	if err != nil {
		return false
	}

	if val == code {
		s.rdb.Del(ctx, k)
		return true
	}
	return false
}

// randomCode 生成 6 位数字验证码
func randomCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand 失败基本意味着系统熵源不可用
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64())
}
