package service

import (
	"testing"
	"time"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"github.com/Lidan4315/Ideku-sub000/internal/repository"
	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
)

func newAuthFixture(t *testing.T) (*testEnv, *AuthService) {
	t.Helper()
	env := newTestEnv(t)
	roleRepo := repository.NewRoleRepository(env.db)

	// 注册默认落到 Employee 角色
	role := &model.Role{ID: uuid.NewString(), Name: model.RoleEmployee, IsActive: true}
	if err := env.db.Create(role).Error; err != nil {
		t.Fatalf("创建默认角色失败: %v", err)
	}

	svc := NewAuthService(env.userRepo, roleRepo, "test-secret", 3600)
	return env, svc
}

// TestRegisterAndLogin 测试注册、登录与令牌校验闭环
func TestRegisterAndLogin(t *testing.T) {
	_, svc := newAuthFixture(t)

	user, err := svc.Register(&model.RegisterRequest{
		Username: "chen.jie",
		Password: "secret123",
		Email:    "chen.jie@example.com",
		FullName: "陈洁",
	})
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	if user.Password == "secret123" {
		t.Error("password stored in plaintext")
	}
	if user.Status != "active" {
		t.Errorf("Status = %q, expected active", user.Status)
	}

	resp, err := svc.Login(&model.LoginRequest{Username: "chen.jie", Password: "secret123"}, "10.0.0.8")
	if err != nil {
		t.Fatalf("Login() unexpected error: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("Login() returned empty token")
	}

	claims, err := svc.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("ValidateToken() unexpected error: %v", err)
	}
	if claims.Username != "chen.jie" {
		t.Errorf("claims.Username = %q, expected chen.jie", claims.Username)
	}
	if claims.Role != string(model.RoleEmployee) {
		t.Errorf("claims.Role = %q, expected %q", claims.Role, model.RoleEmployee)
	}
}

// TestRegisterDuplicate 测试用户名与邮箱唯一性
func TestRegisterDuplicate(t *testing.T) {
	_, svc := newAuthFixture(t)

	req := &model.RegisterRequest{Username: "chen.jie", Password: "secret123", Email: "chen.jie@example.com"}
	if _, err := svc.Register(req); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	if _, err := svc.Register(&model.RegisterRequest{Username: "chen.jie", Password: "x1234567", Email: "other@example.com"}); err == nil {
		t.Error("Register() expected error for duplicate username")
	}
	if _, err := svc.Register(&model.RegisterRequest{Username: "other", Password: "x1234567", Email: "chen.jie@example.com"}); err == nil {
		t.Error("Register() expected error for duplicate email")
	}
}

// TestLoginFailures 测试密码错误与禁用账号
func TestLoginFailures(t *testing.T) {
	env, svc := newAuthFixture(t)

	if _, err := svc.Register(&model.RegisterRequest{Username: "chen.jie", Password: "secret123"}); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	if _, err := svc.Login(&model.LoginRequest{Username: "chen.jie", Password: "wrong"}, ""); err == nil {
		t.Error("Login() expected error for wrong password")
	}
	if _, err := svc.Login(&model.LoginRequest{Username: "nobody", Password: "secret123"}, ""); err == nil {
		t.Error("Login() expected error for unknown user")
	}

	if err := env.db.Model(&model.User{}).Where("username = ?", "chen.jie").Update("status", "disabled").Error; err != nil {
		t.Fatalf("禁用账号失败: %v", err)
	}
	if _, err := svc.Login(&model.LoginRequest{Username: "chen.jie", Password: "secret123"}, ""); err == nil {
		t.Error("Login() expected error for disabled account")
	}
}

// TestValidateTokenRejectsGarbage 测试非法令牌被拒绝
func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, svc := newAuthFixture(t)
	if _, err := svc.ValidateToken("not-a-jwt"); err == nil {
		t.Error("ValidateToken() expected error for malformed token")
	}
}

// TestTwoFactorFlow 测试双因素认证的绑定与登录闭环
func TestTwoFactorFlow(t *testing.T) {
	_, svc := newAuthFixture(t)

	if _, err := svc.Register(&model.RegisterRequest{Username: "chen.jie", Password: "secret123"}); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	secret, qrCode, err := svc.SetupTwoFactor("chen.jie")
	if err != nil {
		t.Fatalf("SetupTwoFactor() unexpected error: %v", err)
	}
	if secret == "" || qrCode == "" {
		t.Fatal("SetupTwoFactor() returned empty secret or QR code")
	}

	// 未确认前登录不要求验证码
	if _, err := svc.Login(&model.LoginRequest{Username: "chen.jie", Password: "secret123"}, ""); err != nil {
		t.Fatalf("Login() before enabling unexpected error: %v", err)
	}

	if err := svc.EnableTwoFactor("chen.jie", "000000"); err == nil {
		t.Error("EnableTwoFactor() expected error for wrong code")
	}

	code, err := totp.GenerateCode(secret, time.Now())
	if err != nil {
		t.Fatalf("生成验证码失败: %v", err)
	}
	if err := svc.EnableTwoFactor("chen.jie", code); err != nil {
		t.Fatalf("EnableTwoFactor() unexpected error: %v", err)
	}

	// 启用后缺少验证码或验证码错误都拒绝登录
	if _, err := svc.Login(&model.LoginRequest{Username: "chen.jie", Password: "secret123"}, ""); err == nil {
		t.Error("Login() expected error without TOTP code")
	}
	if _, err := svc.Login(&model.LoginRequest{Username: "chen.jie", Password: "secret123", TOTPCode: "000000"}, ""); err == nil {
		t.Error("Login() expected error with wrong TOTP code")
	}

	code, err = totp.GenerateCode(secret, time.Now())
	if err != nil {
		t.Fatalf("生成验证码失败: %v", err)
	}
	if _, err := svc.Login(&model.LoginRequest{Username: "chen.jie", Password: "secret123", TOTPCode: code}, ""); err != nil {
		t.Errorf("Login() with valid TOTP code unexpected error: %v", err)
	}
}
