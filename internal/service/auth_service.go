package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"github.com/Lidan4315/Ideku-sub000/internal/repository"
	"github.com/Lidan4315/Ideku-sub000/pkg/twofactor"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Claims JWT 载荷
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	userRepo       *repository.UserRepository
	roleRepo       *repository.RoleRepository
	jwtSecret      []byte
	sessionTimeout time.Duration
	totp           *twofactor.Service
}

// NewAuthService 创建认证服务
func NewAuthService(userRepo *repository.UserRepository, roleRepo *repository.RoleRepository, jwtSecret string, sessionTimeoutSeconds int) *AuthService {
	if sessionTimeoutSeconds <= 0 {
		sessionTimeoutSeconds = 86400
	}
	return &AuthService{
		userRepo:       userRepo,
		roleRepo:       roleRepo,
		jwtSecret:      []byte(jwtSecret),
		sessionTimeout: time.Duration(sessionTimeoutSeconds) * time.Second,
		totp:           twofactor.NewService("IdeKU"),
	}
}

// Register 用户注册，默认角色为 Employee
func (s *AuthService) Register(req *model.RegisterRequest) (*model.User, error) {
	// 检查用户名是否已存在
	if _, err := s.userRepo.FindUserByUsername(req.Username); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("检查用户名失败: %w", err)
		}
	} else {
		return nil, errors.New("用户名已存在")
	}

	// 检查邮箱是否已存在
	if req.Email != "" {
		if _, err := s.userRepo.FindUserByEmail(req.Email); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("检查邮箱失败: %w", err)
			}
		} else {
			return nil, errors.New("邮箱已被使用")
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %w", err)
	}

	employeeRole, err := s.roleRepo.FindByName(model.RoleEmployee)
	if err != nil {
		return nil, fmt.Errorf("查找默认角色失败: %w", err)
	}

	user := &model.User{
		ID:       uuid.New().String(),
		Username: req.Username,
		Password: string(hashedPassword),
		Email:    req.Email,
		FullName: req.FullName,
		RoleID:   employeeRole.ID,
		Status:   "active",
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}
	return user, nil
}

// Login 用户登录，返回JWT
func (s *AuthService) Login(req *model.LoginRequest, clientIP string) (*model.LoginResponse, error) {
	user, err := s.userRepo.FindUserByUsername(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("用户名或密码错误")
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}

	if user.Status != "active" {
		return nil, errors.New("账号已被禁用")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errors.New("用户名或密码错误")
	}

	if user.TOTPEnabled {
		if req.TOTPCode == "" {
			return nil, errors.New("该账号已启用双因素认证，请输入验证码")
		}
		if !s.totp.ValidateCode(user.TOTPSecret, req.TOTPCode) {
			return nil, errors.New("双因素验证码错误")
		}
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	// 记录登录信息，失败不影响登录
	now := time.Now()
	user.LastLoginTime = &now
	user.LastLoginIP = clientIP
	_ = s.userRepo.UpdateUser(user)

	return &model.LoginResponse{Token: token, User: *user}, nil
}

// GenerateToken 签发JWT
func (s *AuthService) GenerateToken(user *model.User) (string, error) {
	roleName := string(model.RoleEmployee)
	if user.Role != nil {
		roleName = string(user.Role.Name)
	}

	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     roleName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTimeout)),
			Subject:   user.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("签发Token失败: %w", err)
	}
	return signed, nil
}

// ValidateToken 验证JWT并返回载荷
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// SetupTwoFactor 生成 TOTP 密钥与二维码，验证通过前不生效
func (s *AuthService) SetupTwoFactor(username string) (secret, qrCode string, err error) {
	user, err := s.userRepo.FindUserByUsername(username)
	if err != nil {
		return "", "", err
	}
	if user.TOTPEnabled {
		return "", "", errors.New("双因素认证已启用")
	}

	secret, err = s.totp.GenerateSecret(username)
	if err != nil {
		return "", "", fmt.Errorf("生成双因素密钥失败: %w", err)
	}
	qrCode, err = s.totp.GenerateQRCode(username, secret)
	if err != nil {
		return "", "", fmt.Errorf("生成二维码失败: %w", err)
	}

	user.TOTPSecret = secret
	if err := s.userRepo.UpdateUser(user); err != nil {
		return "", "", err
	}
	return secret, qrCode, nil
}

// EnableTwoFactor 用一次有效验证码确认绑定后启用
func (s *AuthService) EnableTwoFactor(username, code string) error {
	user, err := s.userRepo.FindUserByUsername(username)
	if err != nil {
		return err
	}
	if user.TOTPSecret == "" {
		return errors.New("请先生成双因素密钥")
	}
	if !s.totp.ValidateCode(user.TOTPSecret, code) {
		return errors.New("双因素验证码错误")
	}
	user.TOTPEnabled = true
	return s.userRepo.UpdateUser(user)
}

// DisableTwoFactor 关闭双因素认证，需要当前验证码
func (s *AuthService) DisableTwoFactor(username, code string) error {
	user, err := s.userRepo.FindUserByUsername(username)
	if err != nil {
		return err
	}
	if !user.TOTPEnabled {
		return errors.New("双因素认证未启用")
	}
	if !s.totp.ValidateCode(user.TOTPSecret, code) {
		return errors.New("双因素验证码错误")
	}
	user.TOTPEnabled = false
	user.TOTPSecret = ""
	return s.userRepo.UpdateUser(user)
}
