package service

import (
	"crypto/sha1"
	"encoding/hex"
	"time"

	"cube_market/internal/domain/view/repository"
	"cube_market/internal/pkg/worker"
	"cube_market/pkg/metrics"
)

// Identity 浏览者身份：登录用户取 user id，游客取 session id
type Identity struct {
	UserID    *string
	SessionID string
}

// ResolveIdentity 解析浏览者身份
// 无 token 也无调用方 session id 时，用 IP+UA 派生确定性游客标识，
// 同一浏览器/IP 当天多次访问合并为一次浏览
func ResolveIdentity(userID, sessionID, clientIP, userAgent string) Identity {
	if userID != "" {
		uid := userID
		return Identity{UserID: &uid}
	}
	if sessionID != "" {
		return Identity{SessionID: sessionID}
	}
	sum := sha1.Sum([]byte(clientIP + "|" + userAgent))
	return Identity{SessionID: hex.EncodeToString(sum[:])}
}

// ViewService 浏览打点服务
type ViewService interface {
	// Track 当天同身份重复打点只记一条，返回是否新增
	Track(subjectType, subjectID string, id Identity) (bool, error)
	// TrackAsync 异步打点，失败只记日志，绝不影响调用方主流程
	TrackAsync(subjectType, subjectID string, id Identity)
	CountViewers(subjectType, subjectID string) (int64, error)
	BatchCountViewers(subjectType string, subjectIDs []string) (map[string]int64, error)
}

type viewService struct {
	repo    repository.ViewRepository
	metrics *metrics.Collector
	pool    *worker.WorkerPool
}

func NewViewService(repo repository.ViewRepository, m *metrics.Collector) ViewService {
	s := &viewService{repo: repo, metrics: m}
	// 异步写入池：3 个 worker，缓冲 1000
	s.pool = worker.NewWorkerPool(s.process, 3, 1000)
	s.pool.Start()
	return s
}

func (s *viewService) process(task worker.ViewTask) error {
	_, err := s.Track(task.SubjectType, task.SubjectID, Identity{
		UserID:    task.UserID,
		SessionID: task.SessionID,
	})
	return err
}

func (s *viewService) Track(subjectType, subjectID string, id Identity) (bool, error) {
	today := time.Now().Format("2006-01-02")

	// 先查后插不是原子的：同一身份并发重复请求可能都通过存在性检查。
	// 后果只是计数略微偏大，不影响配额正确性，可以接受。
	exists, err := s.repo.Exists(subjectType, subjectID, id.UserID, id.SessionID, today)
	if err != nil {
		return false, err
	}
	if exists {
		if s.metrics != nil {
			s.metrics.ObserveView(subjectType, "already_tracked")
		}
		return false, nil
	}

	if err := s.repo.Insert(subjectType, subjectID, id.UserID, id.SessionID, today); err != nil {
		return false, err
	}
	if s.metrics != nil {
		s.metrics.ObserveView(subjectType, "tracked")
	}
	return true, nil
}

func (s *viewService) TrackAsync(subjectType, subjectID string, id Identity) {
	s.pool.AddTask(worker.ViewTask{
		SubjectType: subjectType,
		SubjectID:   subjectID,
		UserID:      id.UserID,
		SessionID:   id.SessionID,
	})
}

func (s *viewService) CountViewers(subjectType, subjectID string) (int64, error) {
	return s.repo.CountViewers(subjectType, subjectID)
}

func (s *viewService) BatchCountViewers(subjectType string, subjectIDs []string) (map[string]int64, error) {
	return s.repo.BatchCountViewers(subjectType, subjectIDs)
}
