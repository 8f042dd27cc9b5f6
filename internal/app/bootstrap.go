package app

import (
	"log"
	"os"

	casbinpkg "github.com/Lidan4315/Ideku-sub000/pkg/casbin"
	"github.com/Lidan4315/Ideku-sub000/pkg/config"
	"github.com/Lidan4315/Ideku-sub000/pkg/database"
	"github.com/Lidan4315/Ideku-sub000/pkg/logger"
	pkgredis "github.com/Lidan4315/Ideku-sub000/pkg/redis"
)

// Bootstrap 初始化基础设施（logger, database, redis, casbin）
func Bootstrap(cfgPath string) (*config.Config, error) {
	// 支持通过环境变量指定配置文件路径
	if cfgPath == "" {
		cfgPath = os.Getenv("IDEKU_CONFIG")
		if cfgPath == "" {
			cfgPath = "config/config.yaml"
		}
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	if err := logger.Init(&cfg.Logging); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	logger.Infof("Database initialized successfully")

	// Redis 可选，负责仪表盘缓存与 Casbin 多实例权限同步
	if err := pkgredis.Init(&cfg.Redis); err != nil {
		logger.Warnf("Redis initialization failed: %v", err)
		logger.Info("   → 单机模式运行，仪表盘缓存关闭，Casbin 策略需手动 ReloadPolicy")
	} else if cfg.Redis.Enabled {
		logger.Infof("Redis initialized successfully")
	} else {
		logger.Info("Redis is disabled in config")
	}

	if err := casbinpkg.Init(); err != nil {
		logger.Fatalf("Failed to initialize Casbin: %v", err)
	}
	logger.Infof("Casbin permission manager initialized successfully")

	return cfg, nil
}
