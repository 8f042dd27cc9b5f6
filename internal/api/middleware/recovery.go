package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"github.com/Lidan4315/Ideku-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
)

// RecoveryMiddleware 自定义错误恢复中间件，打印详细的错误信息
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		err, ok := recovered.(error)
		if !ok {
			err = fmt.Errorf("%v", recovered)
		}

		username := ""
		if uname, exists := c.Get("username"); exists {
			username = fmt.Sprintf("%v", uname)
		}

		fullURL := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			fullURL = fmt.Sprintf("%s?%s", fullURL, c.Request.URL.RawQuery)
		}

		logger.Errorf(
			"Panic recovered: %v\n"+
				"  Request: %s %s\n"+
				"  Client IP: %s\n"+
				"  Username: %s\n"+
				"  Stack Trace:\n%s",
			err,
			c.Request.Method,
			fullURL,
			c.ClientIP(),
			username,
			string(debug.Stack()),
		)

		c.JSON(http.StatusInternalServerError, model.Error(500, err.Error()))
		c.Abort()
	})
}
