package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cube_market/internal/domain/appconfig/model"
	"cube_market/internal/domain/appconfig/repository"
	"cube_market/pkg/logger"
	"cube_market/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrKeyExists = errors.New("config key already exists")

const cacheTTL = 10 * time.Minute

// AppConfigService 应用配置服务，读多写少，按键走 Redis 读穿缓存
type AppConfigService interface {
	Create(ctx context.Context, key, value, description string) (*model.AppConfig, error)
	Get(ctx context.Context, key string) (*model.AppConfig, error)
	List(q *utils.ListQuery) ([]model.AppConfig, int64, error)
	Update(ctx context.Context, key, value, description string) (*model.AppConfig, error)
	Delete(ctx context.Context, key string) error
}

type appConfigService struct {
	repo  repository.AppConfigRepository
	redis *redis.Client
}

func NewAppConfigService(repo repository.AppConfigRepository, rdb *redis.Client) AppConfigService {
	return &appConfigService{repo: repo, redis: rdb}
}

func cacheKey(key string) string {
	return fmt.Sprintf("appconfig:%s", key)
}

func (s *appConfigService) Create(ctx context.Context, key, value, description string) (*model.AppConfig, error) {
	if _, err := s.repo.GetByKey(key); err == nil {
		return nil, ErrKeyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cfg := &model.AppConfig{Key: key, Value: value, Description: description}
	if err := s.repo.Create(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *appConfigService) Get(ctx context.Context, key string) (*model.AppConfig, error) {
	if raw, err := s.redis.Get(ctx, cacheKey(key)).Result(); err == nil {
		var cfg model.AppConfig
		if err := json.Unmarshal([]byte(raw), &cfg); err == nil {
			return &cfg, nil
		}
	}

	cfg, err := s.repo.GetByKey(key)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(cfg); err == nil {
		if err := s.redis.Set(ctx, cacheKey(key), raw, cacheTTL).Err(); err != nil {
			logger.Log.Warn("appconfig cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return cfg, nil
}

func (s *appConfigService) List(q *utils.ListQuery) ([]model.AppConfig, int64, error) {
	return s.repo.List(q)
}

func (s *appConfigService) Update(ctx context.Context, key, value, description string) (*model.AppConfig, error) {
	cfg, err := s.repo.GetByKey(key)
	if err != nil {
		return nil, err
	}

	cfg.Value = value
	if description != "" {
		cfg.Description = description
	}
	if err := s.repo.Update(cfg); err != nil {
		return nil, err
	}

	s.invalidate(ctx, key)
	return cfg, nil
}

func (s *appConfigService) Delete(ctx context.Context, key string) error {
	cfg, err := s.repo.GetByKey(key)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(cfg); err != nil {
		return err
	}

	s.invalidate(ctx, key)
	return nil
}

func (s *appConfigService) invalidate(ctx context.Context, key string) {
	if err := s.redis.Del(ctx, cacheKey(key)).Err(); err != nil {
		logger.Log.Warn("appconfig cache invalidate failed", zap.String("key", key), zap.Error(err))
	}
}
