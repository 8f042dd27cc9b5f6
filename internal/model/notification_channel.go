package model

import (
	"time"

	"gorm.io/datatypes"
)

// 通知通道类型
const (
	ChannelTypeEmail   = "email"
	ChannelTypeWebhook = "webhook"
)

// NotificationChannel 通知通道配置
// Config 为通道特定配置: email 为收件人列表，webhook 为 {"url": "..."}
type NotificationChannel struct {
	ID      uint           `json:"id" gorm:"primaryKey"`
	Name    string         `json:"name" gorm:"type:varchar(100);not null"`
	Type    string         `json:"type" gorm:"type:varchar(20);not null"` // email / webhook
	Enabled bool           `json:"enabled" gorm:"default:true"`
	Config  datatypes.JSON `json:"config" gorm:"type:json"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (NotificationChannel) TableName() string {
	return "notification_channels"
}
