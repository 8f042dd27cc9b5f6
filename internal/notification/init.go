package notification

import (
	"encoding/json"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"github.com/Lidan4315/Ideku-sub000/pkg/config"
	"github.com/Lidan4315/Ideku-sub000/pkg/logger"
	"gorm.io/gorm"
)

// webhookConfig webhook 通道的 Config 结构
type webhookConfig struct {
	URL string `json:"url"`
}

// emailConfig email 通道的 Config 结构
type emailConfig struct {
	Recipients []string `json:"recipients"`
}

// InitFromDatabase 从数据库加载启用的通知通道
func InitFromDatabase(db *gorm.DB, cfg *config.NotificationConfig) *Manager {
	m := NewManager()
	m.SetEnabled(cfg.Enabled)

	var channels []model.NotificationChannel
	if err := db.Where("enabled = ?", true).Find(&channels).Error; err != nil {
		logger.Errorf("加载通知通道失败: %v", err)
		return m
	}

	for _, ch := range channels {
		switch ch.Type {
		case model.ChannelTypeEmail:
			var ec emailConfig
			if err := json.Unmarshal(ch.Config, &ec); err != nil || len(ec.Recipients) == 0 {
				logger.Warnf("邮件通道 %s 配置无效，已跳过", ch.Name)
				continue
			}
			m.AddSender(NewEmailSender(cfg, ec.Recipients))
			logger.Infof("邮件通知通道已启用: %s（%d 个收件人）", ch.Name, len(ec.Recipients))
		case model.ChannelTypeWebhook:
			var wc webhookConfig
			if err := json.Unmarshal(ch.Config, &wc); err != nil || wc.URL == "" {
				logger.Warnf("webhook 通道 %s 配置无效，已跳过", ch.Name)
				continue
			}
			m.AddSender(NewWebhookSender(wc.URL))
			logger.Infof("webhook 通知通道已启用: %s", ch.Name)
		default:
			logger.Warnf("未知的通知通道类型: %s", ch.Type)
		}
	}

	logger.Infof("通知管理器初始化完成，共 %d 个通道", m.SenderCount())
	return m
}
