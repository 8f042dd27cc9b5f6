package middleware

import (
	"fmt"
	"time"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"github.com/Lidan4315/Ideku-sub000/pkg/database"
	"github.com/Lidan4315/Ideku-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
)

// OperationLogMiddleware 操作日志中间件，只记录写请求
func OperationLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		if c.Request.Method == "GET" {
			return
		}

		username := ""
		if uname, exists := c.Get("username"); exists {
			username = fmt.Sprintf("%v", uname)
		}
		if username == "" {
			return
		}

		operationLog := model.OperationLog{
			Username:  username,
			IP:        c.ClientIP(),
			Method:    c.Request.Method,
			Path:      c.FullPath(),
			Status:    c.Writer.Status(),
			StartTime: startTime,
			TimeCost:  time.Since(startTime).Milliseconds(),
			UserAgent: c.Request.UserAgent(),
		}

		// 异步保存，失败不影响请求处理
		go func() {
			if err := database.DB.Create(&operationLog).Error; err != nil {
				logger.Errorf("保存操作日志失败: %v", err)
			}
		}()
	}
}
