package static

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// serveFrom 前端静态文件兜底逻辑，embed 与磁盘两种模式共用
func serveFrom(fsys http.FileSystem) gin.HandlerFunc {
	fileServer := http.StripPrefix("/", http.FileServer(fsys))

	return func(c *gin.Context) {
		path := c.Request.URL.Path

		// API 与运维端点不归前端管
		if strings.HasPrefix(path, "/api") || path == "/metrics" || path == "/health" {
			c.Status(http.StatusNotFound)
			c.Abort()
			return
		}

		filePath := strings.TrimPrefix(path, "/")
		if filePath == "" {
			filePath = "index.html"
		}

		if file, err := fsys.Open(filePath); err == nil {
			file.Close()
			fileServer.ServeHTTP(c.Writer, c.Request)
			c.Abort()
			return
		}

		// 带扩展名的缺失资源返回404，其余路径回落到 index.html 交给前端路由
		if filepath.Ext(filePath) != "" {
			c.Status(http.StatusNotFound)
			c.Abort()
			return
		}

		indexFile, err := fsys.Open("index.html")
		if err != nil {
			c.Status(http.StatusNotFound)
			c.Abort()
			return
		}
		indexFile.Close()

		req := c.Request.Clone(c.Request.Context())
		req.URL.Path = "/index.html"
		fileServer.ServeHTTP(c.Writer, req)
		c.Abort()
	}
}
