package worker

import (
	"cube_market/pkg/logger"

	"go.uber.org/zap"
)

// ViewTask 一次浏览打点任务
type ViewTask struct {
	SubjectType string
	SubjectID   string
	UserID      *string
	SessionID   string
	Retry       int // 重试次数
}

// ProcessFunc 任务处理函数，由 view 服务注入
type ProcessFunc func(task ViewTask) error

// WorkerPool 浏览打点异步写入池
// 打点失败不能影响主请求，所以走有界队列异步落库；队列满时直接丢弃
type WorkerPool struct {
	TaskQueue  chan ViewTask
	RetryQueue chan ViewTask
	Process    ProcessFunc
	WorkerNum  int
	MaxRetry   int
}

func NewWorkerPool(process ProcessFunc, workerNum, bufferSize int) *WorkerPool {
	return &WorkerPool{
		TaskQueue:  make(chan ViewTask, bufferSize),
		RetryQueue: make(chan ViewTask, bufferSize/2),
		Process:    process,
		WorkerNum:  workerNum,
		MaxRetry:   3,
	}
}

func (p *WorkerPool) Start() {
	for i := 0; i < p.WorkerNum; i++ {
		go p.worker(i)
	}
	go p.retryWorker()
	logger.Log.Info("view worker pool started", zap.Int("workers", p.WorkerNum))
}

// AddTask 入队，队列满时丢弃并记日志（打点允许丢）
func (p *WorkerPool) AddTask(task ViewTask) {
	select {
	case p.TaskQueue <- task:
	default:
		logger.Log.Warn("view task queue full, dropping task",
			zap.String("subject_type", task.SubjectType),
			zap.String("subject_id", task.SubjectID),
		)
	}
}

func (p *WorkerPool) worker(id int) {
	for task := range p.TaskQueue {
		p.handle(id, task)
	}
}

func (p *WorkerPool) retryWorker() {
	for task := range p.RetryQueue {
		p.handle(-1, task)
	}
}

func (p *WorkerPool) handle(id int, task ViewTask) {
	if err := p.Process(task); err != nil {
		logger.Log.Warn("failed to process view task",
			zap.Int("worker", id),
			zap.String("subject_id", task.SubjectID),
			zap.Int("retry", task.Retry),
			zap.Error(err),
		)

		if task.Retry < p.MaxRetry {
			task.Retry++
			select {
			case p.RetryQueue <- task:
			default:
				// 重试队列也满了，放弃
			}
		}
	}
}
