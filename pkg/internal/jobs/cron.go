// Package jobs 负责注册与实现业务定时任务（基于 scheduler）。
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/yeisme/attachvault/pkg/configs"
	ctxPkg "github.com/yeisme/attachvault/pkg/context"
	"github.com/yeisme/attachvault/pkg/internal/blob"
	"github.com/yeisme/attachvault/pkg/internal/category"
	"github.com/yeisme/attachvault/pkg/internal/dal"
	"github.com/yeisme/attachvault/pkg/internal/storage"
	"github.com/yeisme/attachvault/pkg/log"
	"github.com/yeisme/attachvault/pkg/metrics"
	"github.com/yeisme/attachvault/pkg/queue"
	"github.com/yeisme/attachvault/pkg/scheduler"
)

// RegisterCronJobs 配置业务定时任务：
//   - 按配置的 cron 表达式清扫孤儿对象（元数据写入失败后遗留在对象存储里的 blob）
func RegisterCronJobs(sched *scheduler.Scheduler, mgr *storage.Manager) error {
	if sched == nil {
		return fmt.Errorf("scheduler is nil")
	}

	if mgr == nil {
		return fmt.Errorf("storage manager is nil")
	}

	cfg := configs.GetConfig()
	if !cfg.Sweeper.Enabled {
		return nil
	}

	baseCtx := ctxPkg.WithStorageManager(context.Background(), mgr)

	return sched.AddCron(JobOrphanSweep, cfg.Sweeper.Cron, func(ctx context.Context) {
		runOrphanSweep(ctx, mgr)
	}, baseCtx)
}

// runOrphanSweep 逐类别比对对象存储与元数据库，删除超过宽限期且无记录的对象.
// 宽限期保护进行中的上传：blob 已写入、记录尚未提交的窗口不能误删.
func runOrphanSweep(ctx context.Context, mgr *storage.Manager) {
	l := log.Logger().With().Str("job", JobOrphanSweep).Logger()

	cfg := configs.GetConfig()
	policy := category.FromConfig(&cfg.Files)
	store := blob.NewStore(mgr.GetS3Client(), &cfg.Files)
	fileDAL := dal.NewFileDAL(mgr.GetDBClient().GetDB(), policy)

	start := time.Now()
	cutoff := start.Add(-cfg.Sweeper.GracePeriod)
	swept := 0

	for _, cat := range policy.Allowed() {
		bucket := store.BucketName(cat)

		objects, err := store.List(ctx, bucket)
		if err != nil {
			l.Error().Err(err).Str("bucket", bucket).Msg("list objects failed")
			continue
		}

		known, err := fileDAL.ExistingStorageKeys(ctx, bucket)
		if err != nil {
			l.Error().Err(err).Str("bucket", bucket).Msg("list storage keys failed")
			continue
		}

		for key, lastModified := range objects {
			if _, ok := known[key]; ok {
				continue
			}

			if lastModified.After(cutoff) {
				continue
			}

			if err := store.Delete(ctx, bucket, key); err != nil {
				l.Error().Err(err).Str("bucket", bucket).Str("key", key).Msg("delete orphan failed")
				continue
			}

			metrics.SweptBlobCounter.Inc()
			swept++
		}
	}

	if swept > 0 {
		l.Info().Int("swept", swept).Msg("orphan sweep done")
	}

	publishSweepCompleted(mgr, swept, time.Since(start))
}

// publishSweepCompleted 通知一轮清扫结束，失败只记日志.
func publishSweepCompleted(mgr *storage.Manager, swept int, elapsed time.Duration) {
	cfg := configs.GetConfig()
	if !cfg.Events.Enabled {
		return
	}

	pub := mgr.GetMQClient().Publisher()
	if pub == nil {
		return
	}

	msg, err := queue.NewWatermillMessage(queue.TopicSweepCompleted, queue.SweepCompletedPayload{
		SweptCount: swept,
		Elapsed:    elapsed,
	}, queue.WithProducer("attachvault"))
	if err != nil {
		log.Logger().Warn().Err(err).Msg("encode sweep event failed")
		return
	}

	if err := pub.Publish(queue.TopicSweepCompleted, msg); err != nil {
		log.Logger().Warn().Err(err).Msg("publish sweep event failed")
	}
}
