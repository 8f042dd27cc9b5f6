package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lidan4315/Ideku-sub000/internal/api/router"
	"github.com/Lidan4315/Ideku-sub000/pkg/config"
	"github.com/Lidan4315/Ideku-sub000/pkg/database"
	"github.com/Lidan4315/Ideku-sub000/pkg/logger"
	pkgredis "github.com/Lidan4315/Ideku-sub000/pkg/redis"
)

// StartServer 启动HTTP服务器并阻塞到收到退出信号
func StartServer(a *App) {
	r := router.Setup(
		a.Handlers.Auth,
		a.Handlers.Idea,
		a.Handlers.Approval,
		a.Handlers.Monitoring,
		a.Handlers.Workflow,
		a.Handlers.Master,
		a.Handlers.Approver,
		a.Handlers.User,
		a.Handlers.Permission,
		a.Handlers.Dashboard,
		a.Services.Auth,
		a.Config.Server.Mode,
	)

	// 启动超时失活调度器
	a.BackgroundServices.InactivityScheduler.Start()

	addr := fmt.Sprintf(":%d", a.Config.Server.APIPort)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	printStartupBanner(a.Config)

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Infof("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("HTTP server shutdown error: %v", err)
	} else {
		logger.Infof("HTTP server stopped")
	}

	a.BackgroundServices.InactivityScheduler.Stop()
	logger.Infof("Inactivity scheduler stopped")

	database.Close()
	logger.Infof("Database closed")

	if a.Config.Redis.Enabled {
		pkgredis.Close()
		logger.Infof("Redis closed")
	}

	logger.Infof("Shutdown complete")
	logger.Sync()
}

// printStartupBanner 打印启动横幅
func printStartupBanner(cfg *config.Config) {
	logger.Infof("")
	logger.Infof("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	logger.Infof("IdeKU API Server")
	logger.Infof("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	logger.Infof("")
	logger.Infof("Features:")
	logger.Infof("   • 提案提交与多阶段审批")
	logger.Infof("   • 工作流自动匹配（优先级+条件）")
	logger.Infof("   • 成本节约跟踪与核定")
	logger.Infof("   • 超时自动失活（%d 天无活动）", cfg.Workflow.InactivityDays)
	logger.Infof("")
	logger.Infof("Listening on :%d (mode: %s)", cfg.Server.APIPort, cfg.Server.Mode)
	logger.Infof("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	logger.Infof("")
}
