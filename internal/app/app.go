package app

import (
	"github.com/Lidan4315/Ideku-sub000/internal/notification"
	"github.com/Lidan4315/Ideku-sub000/pkg/config"
	"github.com/Lidan4315/Ideku-sub000/pkg/database"
	"github.com/Lidan4315/Ideku-sub000/pkg/logger"
)

// App 应用程序上下文
type App struct {
	Config              *config.Config
	Repos               *Repositories
	Services            *Services
	BackgroundServices  *BackgroundServices
	Handlers            *Handlers
	NotificationManager *notification.Manager
}

// Initialize 初始化应用程序
func Initialize(cfgPath string) (*App, error) {
	cfg, err := Bootstrap(cfgPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			database.Close()
		}
	}()

	repos := InitializeRepositories()
	logger.Infof("Repositories initialized")

	notificationMgr := notification.InitFromDatabase(database.DB, &cfg.Notification)
	logger.Infof("Notification Manager initialized")

	services := InitializeServices(repos, cfg, notificationMgr)
	logger.Infof("Services initialized")

	backgroundServices := InitializeBackgroundServices(services, cfg)
	logger.Infof("Background services initialized")

	handlers := InitializeHandlers(repos, services)
	logger.Infof("Handlers initialized")

	return &App{
		Config:              cfg,
		Repos:               repos,
		Services:            services,
		BackgroundServices:  backgroundServices,
		Handlers:            handlers,
		NotificationManager: notificationMgr,
	}, nil
}
