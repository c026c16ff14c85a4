package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/attachvault/pkg/scheduler"
)

type schedulerKey struct{}

// SchedulerMiddleware 将 scheduler 注入到 context 中.
func SchedulerMiddleware(sched *scheduler.Scheduler) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.WithValue(c.Request.Context(), schedulerKey{}, sched)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetScheduler 从 context 中获取 scheduler.
func GetScheduler(c *gin.Context) *scheduler.Scheduler {
	if sched, ok := c.Request.Context().Value(schedulerKey{}).(*scheduler.Scheduler); ok {
		return sched
	}

	return nil
}
