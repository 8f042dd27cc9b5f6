//go:build embed_frontend
// +build embed_frontend

package static

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed dist/*
var frontendFiles embed.FS

// FileSystem 返回嵌入的前端构建产物
func FileSystem() http.FileSystem {
	fsys, err := fs.Sub(frontendFiles, "dist")
	if err != nil {
		return http.FS(frontendFiles)
	}
	return http.FS(fsys)
}

// Serve 作为 NoRoute 兜底提供仪表盘前端
// 未命中的无扩展名路径回落到 index.html，留给前端路由处理
func Serve() gin.HandlerFunc {
	return serveFrom(FileSystem())
}
