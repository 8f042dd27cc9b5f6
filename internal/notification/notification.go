package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/smtp"
	"strings"
	"sync"
	"time"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"github.com/Lidan4315/Ideku-sub000/pkg/config"
	"github.com/Lidan4315/Ideku-sub000/pkg/logger"
	"github.com/Lidan4315/Ideku-sub000/pkg/metrics"
)

// Sender 单个通知通道
type Sender interface {
	Send(subject, body string) error
	ChannelType() string
}

// EmailSender SMTP 邮件通道
type EmailSender struct {
	host       string
	port       int
	username   string
	password   string
	from       string
	recipients []string
}

func NewEmailSender(cfg *config.NotificationConfig, recipients []string) *EmailSender {
	return &EmailSender{
		host:       cfg.SMTPHost,
		port:       cfg.SMTPPort,
		username:   cfg.SMTPUser,
		password:   cfg.SMTPPass,
		from:       cfg.From,
		recipients: recipients,
	}
}

func (s *EmailSender) ChannelType() string {
	return model.ChannelTypeEmail
}

func (s *EmailSender) Send(subject, body string) error {
	if s.host == "" || len(s.recipients) == 0 {
		return fmt.Errorf("邮件通道未配置SMTP服务器或收件人")
	}

	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + strings.Join(s.recipients, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}
	return smtp.SendMail(addr, auth, s.from, s.recipients, []byte(msg))
}

// WebhookSender 通用 webhook 通道，POST JSON 到配置的 URL
type WebhookSender struct {
	url string
}

func NewWebhookSender(url string) *WebhookSender {
	return &WebhookSender{url: url}
}

func (s *WebhookSender) ChannelType() string {
	return model.ChannelTypeWebhook
}

func (s *WebhookSender) Send(subject, body string) error {
	payload, err := json.Marshal(map[string]string{
		"title":   subject,
		"content": body,
		"time":    time.Now().Format("2006-01-02 15:04:05"),
	})
	if err != nil {
		return fmt.Errorf("marshal message failed: %w", err)
	}

	resp, err := http.Post(s.url, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("send request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned non-2xx status: %d", resp.StatusCode)
	}
	return nil
}

// Manager 通知管理器
// 通道从数据库加载，通知在 goroutine 中投递，失败只记录日志，不重试不上抛
type Manager struct {
	mu      sync.RWMutex
	senders []Sender
	enabled bool
}

func NewManager() *Manager {
	return &Manager{
		senders: make([]Sender, 0),
		enabled: true,
	}
}

func (m *Manager) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = enabled
}

func (m *Manager) AddSender(sender Sender) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.senders = append(m.senders, sender)
}

func (m *Manager) SenderCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.senders)
}

// IdeaStatusChanged 提案状态变更通知，至多投递一次
func (m *Manager) IdeaStatusChanged(idea *model.Idea, action, actor, comments string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.enabled || len(m.senders) == 0 {
		return
	}

	subject := fmt.Sprintf("[IdeKU] 提案 %s %s", idea.Code, actionLabel(action))
	lines := []string{
		fmt.Sprintf("提案: %s - %s", idea.Code, idea.Title),
		fmt.Sprintf("动作: %s（操作人 %s）", actionLabel(action), actor),
		fmt.Sprintf("当前状态: %s（阶段 %d/%d）", idea.CurrentStatus, idea.CurrentStage, idea.MaxStage),
	}
	if comments != "" {
		lines = append(lines, "备注: "+comments)
	}
	body := strings.Join(lines, "\n")

	for _, sender := range m.senders {
		go func(s Sender) {
			if err := s.Send(subject, body); err != nil {
				metrics.NotificationFailuresTotal.WithLabelValues(s.ChannelType()).Inc()
				logger.Errorf("通知投递失败（通道 %s）: %v", s.ChannelType(), err)
			}
		}(sender)
	}
}

func actionLabel(action string) string {
	switch action {
	case model.ActionSubmit:
		return "已提交"
	case model.ActionApprove:
		return "审批通过"
	case model.ActionReject:
		return "已拒绝"
	case model.ActionBypass:
		return "阶段调整"
	case model.ActionReactivate:
		return "重新激活"
	case model.ActionAutoReject:
		return "超时失活"
	case model.ActionChangeWorkflow:
		return "工作流变更"
	}
	return action
}
