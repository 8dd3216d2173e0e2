package service

import (
	"fmt"
	"time"

	"cube_market/internal/domain/maintenance/model"
	"cube_market/internal/domain/maintenance/repository"
	notifModel "cube_market/internal/domain/notification/model"
	notifService "cube_market/internal/domain/notification/service"
	"cube_market/internal/pkg/uploader"
	"cube_market/pkg/logger"

	"go.uber.org/zap"
)

// MaintenanceService 清扫服务，外部 cron 通过脚本端点触发
type MaintenanceService interface {
	ExpiredActivationSweep() (*repository.ActivationSweepResult, error)
	CubeExpirySweep() (*repository.ExpirySweepResult, error)
	FlushLogs() error
	RecordLog(entry *model.DatasourceLog)
}

type maintenanceService struct {
	repo          repository.MaintenanceRepository
	uploader      uploader.Uploader
	notifications notifService.NotificationService
}

func NewMaintenanceService(
	repo repository.MaintenanceRepository,
	up uploader.Uploader,
	notifications notifService.NotificationService,
) MaintenanceService {
	return &maintenanceService{repo: repo, uploader: up, notifications: notifications}
}

func (s *maintenanceService) ExpiredActivationSweep() (*repository.ActivationSweepResult, error) {
	result, err := s.repo.ExpiredActivationSweep(time.Now())
	if err != nil {
		return nil, err
	}

	// 存储对象删除放在事务提交之后，失败只记日志
	for _, key := range result.ImageKeys {
		if err := s.uploader.Delete(key); err != nil {
			logger.Log.Warn("sweep image delete failed", zap.String("key", key), zap.Error(err))
		}
	}

	if result.CubesAffected > 0 {
		s.notifications.FanOutAsync(&notifService.FanOutInput{
			Audience: notifService.AudienceAdmin,
			Type:     notifModel.TypeCubeExpired,
			Message:  fmt.Sprintf("Activation sweep deactivated %d cube(s)", result.CubesAffected),
		})
	}
	return result, nil
}

func (s *maintenanceService) CubeExpirySweep() (*repository.ExpirySweepResult, error) {
	result, err := s.repo.CubeExpirySweep(time.Now())
	if err != nil {
		return nil, err
	}

	if result.CubesDeactivated > 0 {
		s.notifications.FanOutAsync(&notifService.FanOutInput{
			Audience: notifService.AudienceAdmin,
			Type:     notifModel.TypeCubeExpired,
			Message:  fmt.Sprintf("Expiry sweep deactivated %d cube(s), expired %d ad(s)", result.CubesDeactivated, result.AdsExpired),
		})
	}
	return result, nil
}

func (s *maintenanceService) FlushLogs() error {
	return s.repo.TruncateLogs()
}

// RecordLog 审计写入走旁路，失败不影响请求
func (s *maintenanceService) RecordLog(entry *model.DatasourceLog) {
	go func() {
		if err := s.repo.CreateLog(entry); err != nil {
			logger.Log.Warn("audit log write failed", zap.String("path", entry.Path), zap.Error(err))
		}
	}()
}
