package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	Security     SecurityConfig     `yaml:"security"`
	Logging      LoggingConfig      `yaml:"logging"`
	Workflow     WorkflowConfig     `yaml:"workflow"`
	Notification NotificationConfig `yaml:"notification"`
}

type ServerConfig struct {
	APIPort int    `yaml:"api_port"`
	Mode    string `yaml:"mode"` // gin 运行模式: debug / release
}

type DatabaseConfig struct {
	Driver          string `yaml:"driver"` // 数据库驱动: mysql, postgres (默认: mysql)
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	DBName          string `yaml:"dbname"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"`
}

// DSN 生成MySQL连接串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}

// SetDefaults 设置数据库配置默认值
func (c *DatabaseConfig) SetDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		if c.Driver == "postgres" || c.Driver == "postgresql" {
			c.Port = 5432
		} else {
			c.Port = 3306
		}
	}
	if c.DBName == "" {
		c.DBName = "ideku"
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 10
	}
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = 100
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = 3600
	}
}

type RedisConfig struct {
	// Enabled 是否启用Redis
	// - true: 启用Redis，支持仪表盘缓存和Casbin多机器权限同步
	// - false: 禁用Redis，单机部署时使用数据库模式
	Enabled bool `yaml:"enabled"`

	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`

	// ConnectTimeout 连接超时时间（秒，默认5秒）
	ConnectTimeout int `yaml:"connect_timeout"`
	ReadTimeout    int `yaml:"read_timeout"`
	WriteTimeout   int `yaml:"write_timeout"`
	PoolSize       int `yaml:"pool_size"`
	MinIdleConns   int `yaml:"min_idle_conns"`
}

// Validate 验证Redis配置
func (c *RedisConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Host == "" {
		return fmt.Errorf("redis host is required when enabled=true")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid redis port: %d", c.Port)
	}
	return nil
}

// SetDefaults 设置Redis配置默认值
func (c *RedisConfig) SetDefaults() {
	if c.Port == 0 {
		c.Port = 6379
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = 5
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 3
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 3
	}
	if c.PoolSize == 0 {
		c.PoolSize = 10
	}
	if c.MinIdleConns == 0 {
		c.MinIdleConns = 5
	}
}

type SecurityConfig struct {
	// JWTSecret JWT签名密钥（建议64字节或更长）
	JWTSecret string `yaml:"jwt_secret"`

	// SessionTimeout 会话超时时间（秒）
	SessionTimeout int `yaml:"session_timeout"`
}

// SetDefaults 设置安全配置默认值
func (c *SecurityConfig) SetDefaults() {
	if c.JWTSecret == "" {
		// 默认密钥仅用于开发环境，生产环境必须修改为强随机字符串
		c.JWTSecret = "k3P9vQwLxTzR7mNcY5uHdJa2fSgB8eW4iOqZ0rMnUbVtXyEl6CshGjDpAK1FoIhT"
	}
	if c.SessionTimeout == 0 {
		c.SessionTimeout = 86400
	}
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug / info / warn / error
	Output string `yaml:"output"` // console / file / both
	File   string `yaml:"file"`   // 日志文件路径
}

type WorkflowConfig struct {
	// InactivityDays 超过此天数无任何审批动作的提案将被自动置为 Inactive
	InactivityDays int `yaml:"inactivity_days"`

	// InactivityScanInterval 后台扫描间隔（小时）
	InactivityScanInterval int `yaml:"inactivity_scan_interval"`

	// MonitoringStageOffset 提案进入 MaxStage-offset 阶段后才允许创建成本跟踪记录
	MonitoringStageOffset int `yaml:"monitoring_stage_offset"`
}

// SetDefaults 设置工作流配置默认值
func (c *WorkflowConfig) SetDefaults() {
	if c.InactivityDays == 0 {
		c.InactivityDays = 60
	}
	if c.InactivityScanInterval == 0 {
		c.InactivityScanInterval = 6
	}
	if c.MonitoringStageOffset == 0 {
		c.MonitoringStageOffset = 1
	}
}

type NotificationConfig struct {
	// Enabled 是否启用提案创建/审批结果通知
	Enabled bool `yaml:"enabled"`

	// SMTP 邮件通道配置
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort int    `yaml:"smtp_port"`
	SMTPUser string `yaml:"smtp_user"`
	SMTPPass string `yaml:"smtp_pass"`
	From     string `yaml:"from"`
}

// SetDefaults 设置通知配置默认值
func (c *NotificationConfig) SetDefaults() {
	if c.SMTPPort == 0 {
		c.SMTPPort = 587
	}
	if c.From == "" {
		c.From = "ideku@localhost"
	}
}

var GlobalConfig *Config

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// 设置默认值（数据库默认值需要在环境变量处理之前设置）
	config.Database.SetDefaults()
	config.Redis.SetDefaults()
	config.Security.SetDefaults()
	config.Workflow.SetDefaults()
	config.Notification.SetDefaults()

	// 验证配置
	if err := config.Redis.Validate(); err != nil {
		return nil, fmt.Errorf("invalid redis config: %w", err)
	}

	// 支持通过环境变量覆盖数据库配置（Docker 部署时使用）
	if dbDriver := os.Getenv("DB_DRIVER"); dbDriver != "" {
		config.Database.Driver = dbDriver
	}
	if dbHost := os.Getenv("DB_HOST"); dbHost != "" {
		config.Database.Host = dbHost
	}
	if dbPort := os.Getenv("DB_PORT"); dbPort != "" {
		if port, err := strconv.Atoi(dbPort); err == nil {
			config.Database.Port = port
		}
	}
	if dbUser := os.Getenv("DB_USER"); dbUser != "" {
		config.Database.User = dbUser
	}
	if dbPass := os.Getenv("DB_PASSWORD"); dbPass != "" {
		config.Database.Password = dbPass
	}
	if dbName := os.Getenv("DB_NAME"); dbName != "" {
		config.Database.DBName = dbName
	}
	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		config.Security.JWTSecret = jwtSecret
	}

	if config.Server.APIPort == 0 {
		config.Server.APIPort = 8080
	}
	if config.Server.Mode == "" {
		config.Server.Mode = "release"
	}

	GlobalConfig = &config
	return &config, nil
}
