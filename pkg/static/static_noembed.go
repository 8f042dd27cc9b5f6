//go:build !embed_frontend
// +build !embed_frontend

package static

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// FileSystem 开发模式从磁盘查找前端构建产物
func FileSystem() http.FileSystem {
	candidates := []string{
		"web/dist",
		"../web/dist",
		"./dist",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return http.Dir(path)
		}
	}
	return http.Dir(".")
}

// Serve 作为 NoRoute 兜底提供仪表盘前端（开发模式）
func Serve() gin.HandlerFunc {
	return serveFrom(FileSystem())
}
