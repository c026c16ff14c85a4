package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/attachvault/pkg/middleware"
)

// ListJobs 列出全部定时任务的运行状态.
func ListJobs(c *gin.Context) {
	sched := middleware.GetScheduler(c)
	if sched == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scheduler not initialized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": sched.GetJobInfos()})
}
