package model

import "time"

// User 平台用户
type User struct {
	ID       string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username string `json:"username" gorm:"type:varchar(50);uniqueIndex;not null"`
	Password string `json:"-" gorm:"type:varchar(255);not null"` // 不在JSON中暴露
	FullName string `json:"full_name" gorm:"type:varchar(100)"`
	Email    string `json:"email" gorm:"type:varchar(100);uniqueIndex"`
	RoleID   string `json:"role_id" gorm:"type:varchar(36);not null;index"`
	Status   string `json:"status" gorm:"type:varchar(20);default:'active';index"` // active, disabled

	// TOTP 双因素认证，启用后登录必须携带验证码
	TOTPSecret  string `json:"-" gorm:"type:varchar(64)"`
	TOTPEnabled bool   `json:"totp_enabled" gorm:"default:false"`

	LastLoginTime *time.Time `json:"last_login_time,omitempty" gorm:"type:timestamp"`
	LastLoginIP   string     `json:"last_login_ip" gorm:"type:varchar(45)"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Role *Role `json:"role,omitempty" gorm:"foreignKey:RoleID"`
}

func (User) TableName() string {
	return "users"
}

// Employee 员工档案，记录组织归属
type Employee struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username     string    `json:"username" gorm:"type:varchar(50);uniqueIndex;not null"`
	FullName     string    `json:"full_name" gorm:"type:varchar(100)"`
	DivisionID   string    `json:"division_id" gorm:"type:varchar(36);index"`
	DepartmentID string    `json:"department_id" gorm:"type:varchar(36);index"`
	Position     string    `json:"position" gorm:"type:varchar(100)"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employees"
}

// LoginRequest 登录请求，TOTPCode 仅在账号启用双因素后必填
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	TOTPCode string `json:"totp_code"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name"`
}
