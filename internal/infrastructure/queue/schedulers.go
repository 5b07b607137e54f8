package queue

import (
	"encoding/json"
	"time"

	"celebstyle-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

type Scheduler struct {
	scheduler     *asynq.Scheduler
	reconcileCron string
}

func NewScheduler(redisOpt asynq.RedisClientOpt, reconcileCron string) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler:     scheduler,
		reconcileCron: reconcileCron,
	}
}

// RegisterJobs đăng ký toàn bộ cron jobs
func (s *Scheduler) RegisterJobs() error {
	return s.registerReconcileOutfitCountsJob()
}

// ================================================
// JOB: Reconcile celebrities.outfit_count (mặc định 3 AM hằng ngày)
// ================================================
// Counter được update trong transaction khi create/delete outfit;
// job này sửa drift nếu có ai ghi thẳng vào DB.
func (s *Scheduler) registerReconcileOutfitCountsJob() error {
	payload, err := json.Marshal(ReconcileOutfitCountsPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TypeReconcileOutfitCounts, payload)

	_, err = s.scheduler.Register(
		s.reconcileCron,
		task,
		asynq.Queue(QueueMaintenance),
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
		asynq.Unique(time.Hour),
	)
	if err != nil {
		logger.Error("Failed to register ReconcileOutfitCounts job", err)
		return err
	}

	logger.Info("✓ Registered ReconcileOutfitCounts", map[string]interface{}{"cron": s.reconcileCron})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
